// Package apptest mounts a plugin on a Fiber app backed by a throwaway
// Postgres database.
package apptest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/apps"
	"github.com/societyhub/backend/internal/config"
	"github.com/societyhub/backend/internal/database"
	"github.com/societyhub/backend/internal/middleware"
	"github.com/societyhub/backend/internal/models"
	"github.com/societyhub/backend/internal/services"
	"github.com/societyhub/backend/internal/tenant"
	"github.com/societyhub/backend/internal/testinfra"
	"gorm.io/gorm"
)

type Harness struct {
	t         *testing.T
	App       *fiber.App
	DB        *gorm.DB
	Directory *tenant.Directory
}

// Start skips the test under -short or without Docker. Societies maps
// society codes to federation codes. The returned func releases the database.
func Start(t *testing.T, p apps.Plugin, societies map[string]string) (*Harness, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test")
	}
	db, stop, err := testinfra.StartPostgres(context.Background())
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	if err := db.AutoMigrate(append(database.SharedModels(), p.Models()...)...); err != nil {
		stop()
		t.Fatalf("migrate: %v", err)
	}

	dir := tenant.NewDirectory()
	for society, federation := range societies {
		dir.Register(society, federation)
	}
	cfg := &config.Config{JWTSecret: testinfra.Secret}
	env := &apps.Env{DB: db, Config: cfg, Directory: dir, Residents: services.NewResidentLookup(db, nil, 0)}

	app := fiber.New()
	p.RegisterRoutes(app.Group("/api/"+p.ID(), middleware.JWTProtected(cfg), middleware.ScopeMiddleware(dir)), env)
	return &Harness{t: t, App: app, DB: db, Directory: dir}, stop
}

// Call sends a JSON request and decodes the response into out when non-nil.
func (h *Harness) Call(method, path, token string, body interface{}, out interface{}) int {
	h.t.Helper()
	var r io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := h.App.Test(req, -1)
	if err != nil {
		h.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			h.t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

// Resident creates a flat and resident and returns the resident's ID and
// token.
func (h *Harness) Resident(societyCode, name, flat string) (uuid.UUID, string) {
	h.t.Helper()
	f := models.Flat{ID: uuid.New(), SocietyCode: societyCode, Number: flat}
	r := models.Resident{
		ID: uuid.New(), SocietyCode: societyCode, FlatID: f.ID,
		Name: name, Email: name + "@example.com", Password: "x",
	}
	if err := h.DB.Create(&f).Error; err != nil {
		h.t.Fatalf("flat: %v", err)
	}
	if err := h.DB.Omit("Flat").Create(&r).Error; err != nil {
		h.t.Fatalf("resident: %v", err)
	}
	return r.ID, testinfra.SignToken(r.ID, tenant.RoleResident, societyCode, h.Directory.FederationOf(societyCode), name)
}

// Staff returns a society staff token.
func (h *Harness) Staff(societyCode string) string {
	return testinfra.SignToken(uuid.New(), tenant.RoleSociety, societyCode, h.Directory.FederationOf(societyCode), "Committee")
}

// Federation returns a federation staff token.
func (h *Harness) Federation(federationCode string) string {
	return testinfra.SignToken(uuid.New(), tenant.RoleFederation, "", federationCode, "Federation")
}

// ErrorBody is the JSON error shape.
type ErrorBody struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}
