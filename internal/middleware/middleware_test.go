package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/config"
	"github.com/societyhub/backend/internal/tenant"
)

const secret = "middleware-test-secret"

func token(t *testing.T, role, society, federation string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"id":              uuid.NewString(),
		"role":            role,
		"society_code":    society,
		"federation_code": federation,
		"name":            "Test",
		"exp":             time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return signed
}

func newApp() *fiber.App {
	cfg := &config.Config{JWTSecret: secret}
	dir := tenant.NewDirectory()
	dir.Register("GRN01", "FED1")
	dir.Register("GRN02", "FED1")
	dir.Register("BLU01", "FED2")

	app := fiber.New()
	api := app.Group("/api", JWTProtected(cfg), ScopeMiddleware(dir))
	api.Get("/scope", SocietyRequired(), func(c *fiber.Ctx) error {
		return c.SendString(tenant.GetSocietyCode(c))
	})
	api.Get("/staff", StaffRequired(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func do(t *testing.T, app *fiber.App, path, bearer string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestJWTProtectedRejectsMissingToken(t *testing.T) {
	code, _ := do(t, newApp(), "/api/scope", "")
	if code != fiber.StatusUnauthorized {
		t.Fatalf("status = %d", code)
	}
}

func TestScopePinsResidentToOwnSociety(t *testing.T) {
	app := newApp()
	tok := token(t, tenant.RoleResident, "GRN01", "FED1")

	code, body := do(t, app, "/api/scope", tok)
	if code != fiber.StatusOK || body != "GRN01" {
		t.Fatalf("own society: %d %q", code, body)
	}
	code, _ = do(t, app, "/api/scope?society_id=GRN02", tok)
	if code != fiber.StatusForbidden {
		t.Fatalf("other society status = %d", code)
	}
}

func TestScopeFederationChoosesSociety(t *testing.T) {
	app := newApp()
	tok := token(t, tenant.RoleFederation, "", "FED1")

	code, body := do(t, app, "/api/scope?society_code=GRN02", tok)
	if code != fiber.StatusOK || body != "GRN02" {
		t.Fatalf("member society: %d %q", code, body)
	}
	code, _ = do(t, app, "/api/scope?society_code=BLU01", tok)
	if code != fiber.StatusForbidden {
		t.Fatalf("foreign society status = %d", code)
	}
	code, _ = do(t, app, "/api/scope", tok)
	if code != fiber.StatusBadRequest {
		t.Fatalf("missing society status = %d", code)
	}
}

func TestStaffRequired(t *testing.T) {
	app := newApp()
	if code, _ := do(t, app, "/api/staff", token(t, tenant.RoleResident, "GRN01", "FED1")); code != fiber.StatusForbidden {
		t.Fatalf("resident status = %d", code)
	}
	if code, _ := do(t, app, "/api/staff", token(t, tenant.RoleSociety, "GRN01", "FED1")); code != fiber.StatusOK {
		t.Fatalf("society status = %d", code)
	}
}
