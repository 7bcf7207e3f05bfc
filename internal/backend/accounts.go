package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/societyhub/backend/internal/identity"
)

var loginPaths = map[string]string{
	identity.RoleFederation: "/federation/login",
	identity.RoleSociety:    "/auth/society/login",
	identity.RoleResident:   "/resident/login",
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, role string, creds Credentials) (*Session, error) {
	path, ok := loginPaths[role]
	if !ok {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	var out Session
	if err := c.do(ctx, http.MethodPost, path, creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RegisterFederation(ctx context.Context, reg FederationRegistration) (*Session, error) {
	var out Session
	if err := c.do(ctx, http.MethodPost, "/federation/register", reg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddSociety(ctx context.Context, draft SocietyDraft) (*Society, error) {
	var out Society
	if err := c.do(ctx, http.MethodPost, "/federation/addSociety", draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Societies(ctx context.Context) ([]Society, error) {
	var out []Society
	err := c.do(ctx, http.MethodGet, "/federation/getSociety", nil, &out)
	return out, err
}

func (c *Client) UpdateSociety(ctx context.Context, id string, draft SocietyDraft) (*Society, error) {
	var out Society
	if err := c.do(ctx, http.MethodPut, "/federation/updateSociety/"+url.PathEscape(id), draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateFlat(ctx context.Context, draft FlatDraft) (*Flat, error) {
	var out Flat
	if err := c.do(ctx, http.MethodPost, "/auth/society/createFlat", draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Flats(ctx context.Context, societyCode string) ([]Flat, error) {
	var out []Flat
	err := c.do(ctx, http.MethodGet, "/auth/society/getFlatsData/"+url.PathEscape(societyCode), nil, &out)
	return out, err
}
