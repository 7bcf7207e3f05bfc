package testinfra

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Secret signs every token minted by SignToken.
const Secret = "integration-test-secret"

// SignToken mints an HS256 token carrying the claims the server issues.
func SignToken(id uuid.UUID, role, societyCode, federationCode, name string) string {
	claims := jwt.MapClaims{
		"id":              id.String(),
		"role":            role,
		"society_code":    societyCode,
		"federation_code": federationCode,
		"name":            name,
		"iat":             time.Now().Unix(),
		"exp":             time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(Secret))
	if err != nil {
		panic(err)
	}
	return signed
}
