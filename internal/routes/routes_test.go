package routes

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/apps"
	"github.com/societyhub/backend/internal/config"
	"github.com/societyhub/backend/internal/handlers"
	"github.com/societyhub/backend/internal/tenant"
	"github.com/societyhub/backend/internal/testinfra"
)

type echoPlugin struct{}

func (echoPlugin) ID() string             { return "echo" }
func (echoPlugin) Models() []interface{} { return nil }
func (echoPlugin) RegisterRoutes(router fiber.Router, _ *apps.Env) {
	router.Get("/society", func(c *fiber.Ctx) error {
		return c.SendString(tenant.GetSocietyCode(c))
	})
}

func newApp() *fiber.App {
	cfg := &config.Config{JWTSecret: testinfra.Secret, RateLimitPerMin: 1000}
	dir := tenant.NewDirectory()
	dir.Register("GRN01", "FED1")
	dir.Register("GRN02", "FED1")

	app := fiber.New()
	Setup(app, cfg,
		handlers.NewAuthHandler(nil),
		handlers.NewHealthHandler(dir, func() error { return nil }, nil),
		[]apps.Plugin{echoPlugin{}},
		&apps.Env{Config: cfg, Directory: dir},
		nil,
	)
	return app
}

func send(t *testing.T, app *fiber.App, method, path, token, body string) int {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp.StatusCode
}

func TestHealthIsPublic(t *testing.T) {
	if code := send(t, newApp(), "GET", "/api/health", "", ""); code != fiber.StatusOK {
		t.Fatalf("health = %d", code)
	}
}

func TestFederationRoutesNeedFederationRole(t *testing.T) {
	app := newApp()
	if code := send(t, app, "GET", "/api/federation/getSociety", "", ""); code != fiber.StatusUnauthorized {
		t.Fatalf("no token = %d", code)
	}
	resident := testinfra.SignToken(uuid.New(), tenant.RoleResident, "GRN01", "FED1", "asha")
	if code := send(t, app, "GET", "/api/federation/getSociety", resident, ""); code != fiber.StatusForbidden {
		t.Fatalf("resident = %d", code)
	}
}

func TestFlatListingStaysInOwnSociety(t *testing.T) {
	staff := testinfra.SignToken(uuid.New(), tenant.RoleSociety, "GRN01", "FED1", "Committee")
	if code := send(t, newApp(), "GET", "/api/auth/society/getFlatsData/GRN02", staff, ""); code != fiber.StatusForbidden {
		t.Fatalf("other society = %d", code)
	}
}

func TestLoginIsRateLimited(t *testing.T) {
	app := newApp()
	for i := 0; i < 10; i++ {
		if code := send(t, app, "POST", "/api/resident/login", "", "{"); code != fiber.StatusBadRequest {
			t.Fatalf("attempt %d = %d", i, code)
		}
	}
	if code := send(t, app, "POST", "/api/resident/login", "", "{"); code != fiber.StatusTooManyRequests {
		t.Fatalf("11th attempt = %d", code)
	}
}

func TestPluginsMountUnderTheirID(t *testing.T) {
	app := newApp()
	fed := testinfra.SignToken(uuid.New(), tenant.RoleFederation, "", "FED1", "Federation")

	req := httptest.NewRequest("GET", "/api/echo/society?society_code=GRN02", nil)
	req.Header.Set("Authorization", "Bearer "+fed)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != fiber.StatusOK || string(body) != "GRN02" {
		t.Fatalf("echo = %d %q", resp.StatusCode, body)
	}

	if code := send(t, app, "GET", "/api/echo/society", "", ""); code != fiber.StatusUnauthorized {
		t.Fatalf("plugin without token = %d", code)
	}
}
