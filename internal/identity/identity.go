// Package identity resolves the acting user from a bearer token.
package identity

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

// Roles carried in the token's role claim.
const (
	RoleResident   = "resident"
	RoleSociety    = "society"
	RoleFederation = "federation"
)

var (
	ErrNoToken      = errors.New("no identity token available")
	ErrInvalidToken = errors.New("identity token could not be decoded")
)

// Claims is the token payload issued by the auth service.
type Claims struct {
	ID             string `json:"id"`
	Role           string `json:"role"`
	SocietyCode    string `json:"society_code"`
	FederationCode string `json:"federation_code,omitempty"`
	Name           string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Identity is the actor a workflow component acts on behalf of.
type Identity struct {
	ID             string
	Role           string
	SocietyCode    string
	FederationCode string
	Name           string
}

func (i Identity) IsStaff() bool { return i.Role == RoleSociety || i.Role == RoleFederation }

// Provider supplies the current identity. Workflow components receive one at
// construction instead of reading ambient storage.
type Provider interface {
	Current() (Identity, error)
}

// TokenSource returns the raw bearer token stored by the host.
type TokenSource func() (string, error)

// EnvToken reads the token from an environment variable.
func EnvToken(key string) TokenSource {
	return func() (string, error) {
		tok := strings.TrimSpace(os.Getenv(key))
		if tok == "" {
			return "", ErrNoToken
		}
		return tok, nil
	}
}

// FileToken reads the token from a file written by the login command.
func FileToken(path string) TokenSource {
	return func() (string, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", ErrNoToken
			}
			return "", fmt.Errorf("read token file: %w", err)
		}
		tok := strings.TrimSpace(string(data))
		if tok == "" {
			return "", ErrNoToken
		}
		return tok, nil
	}
}

// TokenProvider decodes the token's claims without verifying the signature;
// the backend verifies it on every request.
type TokenProvider struct {
	source TokenSource

	mu     sync.Mutex
	raw    string
	cached Identity
}

func NewTokenProvider(source TokenSource) *TokenProvider {
	return &TokenProvider{source: source}
}

func (p *TokenProvider) Current() (Identity, error) {
	raw, err := p.source()
	if err != nil {
		return Identity{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if raw == p.raw {
		return p.cached, nil
	}

	id, err := Decode(raw)
	if err != nil {
		return Identity{}, err
	}
	p.raw, p.cached = raw, id
	return id, nil
}

// Token returns the raw bearer token for outbound requests.
func (p *TokenProvider) Token() (string, error) {
	return p.source()
}

// Decode reads an identity out of a token without verifying it.
func Decode(raw string) (Identity, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.ID == "" {
		return Identity{}, fmt.Errorf("%w: missing id claim", ErrInvalidToken)
	}
	return Identity{
		ID:             claims.ID,
		Role:           claims.Role,
		SocietyCode:    claims.SocietyCode,
		FederationCode: claims.FederationCode,
		Name:           claims.Name,
	}, nil
}

// Static is a fixed identity, used by tests and by tools that already know
// the actor.
type Static Identity

func (s Static) Current() (Identity, error) {
	if s.ID == "" {
		return Identity{}, ErrNoToken
	}
	return Identity(s), nil
}

// Anonymous is a provider with no identity.
var Anonymous Provider = Static{}
