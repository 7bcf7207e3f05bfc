package tenant

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Roles carried in the role claim.
const (
	RoleResident   = "resident"
	RoleSociety    = "society"
	RoleFederation = "federation"
)

// Actor is the authenticated caller as described by the JWT claims.
type Actor struct {
	ID             uuid.UUID
	Role           string
	SocietyCode    string
	FederationCode string
	Name           string
}

// IsStaff reports whether the actor may moderate society content.
func (a Actor) IsStaff() bool {
	return a.Role == RoleSociety || a.Role == RoleFederation
}

// GetActor extracts the caller from the JWT stored by the jwt middleware.
func GetActor(c *fiber.Ctx) (Actor, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return Actor{}, errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Actor{}, errors.New("invalid claims")
	}

	raw, _ := claims["id"].(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return Actor{}, errors.New("missing id claim")
	}

	a := Actor{ID: id}
	a.Role, _ = claims["role"].(string)
	a.SocietyCode, _ = claims["society_code"].(string)
	a.FederationCode, _ = claims["federation_code"].(string)
	a.Name, _ = claims["name"].(string)
	return a, nil
}

// GetSocietyCode returns the society resolved by ScopeMiddleware.
func GetSocietyCode(c *fiber.Ctx) string {
	if code, ok := c.Locals("society_code").(string); ok {
		return code
	}
	return ""
}
