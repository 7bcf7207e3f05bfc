package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/config"
	"github.com/societyhub/backend/internal/database"
	"github.com/societyhub/backend/internal/dto"
	"github.com/societyhub/backend/internal/tenant"
	"github.com/societyhub/backend/internal/testinfra"
)

const testSecret = "test-secret-test-secret-test-secret"

func claimsOf(t *testing.T, token string) jwt.MapClaims {
	t.Helper()
	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) { return []byte(testSecret), nil })
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	return parsed.Claims.(jwt.MapClaims)
}

func TestAccountLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	db, stop, err := testinfra.StartPostgres(context.Background())
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	defer stop()
	if err := db.AutoMigrate(database.SharedModels()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{JWTSecret: testSecret, JWTExpiry: time.Hour}
	dir := tenant.NewDirectory()
	svc := NewAuthService(db, cfg, dir)

	fedSession, err := svc.RegisterFederation(&dto.FederationRegisterRequest{
		Name: "Green Federation", Code: "FED1", Email: "Fed@Example.com", Password: "password123",
	})
	if err != nil {
		t.Fatalf("register federation: %v", err)
	}
	if fedSession.Role != tenant.RoleFederation {
		t.Fatalf("role = %q", fedSession.Role)
	}
	if _, err := svc.RegisterFederation(&dto.FederationRegisterRequest{
		Name: "Dup", Code: "FED1", Email: "other@example.com", Password: "password123",
	}); !errors.Is(err, ErrCodeTaken) {
		t.Fatalf("duplicate code err = %v", err)
	}

	if _, err := svc.LoginFederation(&dto.LoginRequest{Email: "fed@example.com", Password: "wrong-pass"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("bad password err = %v", err)
	}
	fedSession, err = svc.LoginFederation(&dto.LoginRequest{Email: "fed@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("login federation: %v", err)
	}
	fc := claimsOf(t, fedSession.Token)
	fedActor := tenant.Actor{
		ID:             uuid.MustParse(fc["id"].(string)),
		Role:           tenant.RoleFederation,
		FederationCode: fc["federation_code"].(string),
	}

	society, err := svc.AddSociety(fedActor, &dto.SocietyRequest{
		Name: "Green Park", Code: "GRN01", Address: "1 Park Rd", Password: "society-pass",
	})
	if err != nil {
		t.Fatalf("add society: %v", err)
	}
	if dir.FederationOf("GRN01") != "FED1" {
		t.Fatal("directory not updated")
	}
	list, err := svc.ListSocieties(fedActor)
	if err != nil || len(list) != 1 || list[0].Code != "GRN01" {
		t.Fatalf("list societies = %v, %v", list, err)
	}

	updated, err := svc.UpdateSociety(fedActor, society.ID, &dto.SocietyRequest{Address: "2 Park Rd"})
	if err != nil || updated.Address != "2 Park Rd" {
		t.Fatalf("update society = %v, %v", updated, err)
	}
	if _, err := svc.UpdateSociety(tenant.Actor{FederationCode: "OTHER"}, society.ID, &dto.SocietyRequest{Name: "x"}); !errors.Is(err, ErrSocietyNotFound) {
		t.Fatalf("foreign federation update err = %v", err)
	}

	socSession, err := svc.LoginSociety(&dto.LoginRequest{Code: "GRN01", Password: "society-pass"})
	if err != nil {
		t.Fatalf("login society: %v", err)
	}
	sc := claimsOf(t, socSession.Token)
	if sc["society_code"] != "GRN01" || sc["federation_code"] != "FED1" || sc["role"] != tenant.RoleSociety {
		t.Fatalf("society claims = %v", sc)
	}

	flat, err := svc.CreateFlat("GRN01", &dto.FlatRequest{
		Number: "A-101", ResidentName: "Asha", Email: "asha@example.com", Password: "resident-pass",
	})
	if err != nil {
		t.Fatalf("create flat: %v", err)
	}
	if _, err := svc.CreateFlat("GRN01", &dto.FlatRequest{
		Number: "A-101", ResidentName: "B", Email: "b@example.com", Password: "resident-pass",
	}); !errors.Is(err, ErrFlatTaken) {
		t.Fatalf("duplicate flat err = %v", err)
	}

	flats, err := svc.ListFlats("GRN01")
	if err != nil || len(flats) != 1 || flats[0].Resident != "Asha" || flats[0].ID != flat.ID {
		t.Fatalf("list flats = %v, %v", flats, err)
	}

	resSession, err := svc.LoginResident(&dto.LoginRequest{Code: "GRN01", Email: "ASHA@example.com", Password: "resident-pass"})
	if err != nil {
		t.Fatalf("login resident: %v", err)
	}
	rc := claimsOf(t, resSession.Token)
	if rc["id"] != flat.ResidentID || rc["role"] != tenant.RoleResident || rc["federation_code"] != "FED1" {
		t.Fatalf("resident claims = %v", rc)
	}
	if _, err := svc.LoginResident(&dto.LoginRequest{Code: "OTHER", Email: "asha@example.com", Password: "resident-pass"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong society err = %v", err)
	}
}

func TestRegisterFederationValidation(t *testing.T) {
	svc := NewAuthService(nil, &config.Config{}, tenant.NewDirectory())
	if _, err := svc.RegisterFederation(&dto.FederationRegisterRequest{Name: "x"}); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("missing fields err = %v", err)
	}
	if _, err := svc.RegisterFederation(&dto.FederationRegisterRequest{
		Name: "x", Code: "c", Email: "e@x.com", Password: "short",
	}); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("weak password err = %v", err)
	}
}
