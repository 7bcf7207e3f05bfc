package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/societyhub/backend/internal/lifecycle"
	"github.com/societyhub/backend/internal/tenant"
	"github.com/societyhub/backend/internal/testinfra"
	"github.com/societyhub/backend/internal/workflow"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestLoginStoresToken(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "societyhub", "token")
	t.Setenv("SOCIETYHUB_TOKEN_FILE", tokenFile)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/resident/login" {
			http.NotFound(w, r)
			return
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["code"] != "GRN01" || body["email"] != "asha@example.com" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"tok-123","role":"resident","name":"Asha"}`))
	}))
	defer srv.Close()

	out, _, err := execute(t, "--backend", srv.URL+"/api", "login",
		"--code", "GRN01", "--email", "asha@example.com", "--password", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out, "Logged in as Asha") {
		t.Fatalf("output = %q", out)
	}
	raw, err := os.ReadFile(tokenFile)
	if err != nil || strings.TrimSpace(string(raw)) != "tok-123" {
		t.Fatalf("token file = %q, %v", raw, err)
	}
}

func TestSubmitWithoutLoginReportsOnce(t *testing.T) {
	t.Setenv("SOCIETYHUB_TOKEN_FILE", filepath.Join(t.TempDir(), "missing"))
	t.Setenv("SOCIETYHUB_TOKEN", "")

	_, errOut, err := execute(t, "--backend", "http://127.0.0.1:1/api", "notices", "submit",
		"--title", "Lift", "--description", "Lift B is stuck", "--type", "notice")
	if err == nil {
		t.Fatal("expected an error")
	}
	if n := strings.Count(errOut, workflow.MsgLoginRequired); n != 1 {
		t.Fatalf("message printed %d times: %q", n, errOut)
	}
}

func TestComplaintStatusRejectsUnknownStatus(t *testing.T) {
	t.Setenv("SOCIETYHUB_TOKEN_FILE", filepath.Join(t.TempDir(), "missing"))
	t.Setenv("SOCIETYHUB_TOKEN", "")

	_, errOut, err := execute(t, "--backend", "http://127.0.0.1:1/api", "complaints", "status", "c1", "Closed")
	if err == nil || !strings.Contains(errOut, "unknown complaint status") {
		t.Fatalf("err = %v, stderr = %q", err, errOut)
	}
}

func TestComplaintStatusChecksEvidenceBeforeFetching(t *testing.T) {
	t.Setenv("SOCIETYHUB_TOKEN_FILE", filepath.Join(t.TempDir(), "missing"))
	t.Setenv("SOCIETYHUB_TOKEN", testinfra.SignToken(uuid.New(), tenant.RoleSociety, "GRN01", "FED1", "Committee"))

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	cases := []struct {
		status string
		want   error
	}{
		{"Resolved", lifecycle.ErrProofRequired},
		{"Dismissed", lifecycle.ErrCommentRequired},
	}
	for _, tc := range cases {
		_, errOut, err := execute(t, "--backend", srv.URL+"/api", "complaints", "status", "c1", tc.status)
		if err == nil || !strings.Contains(errOut, tc.want.Error()) {
			t.Fatalf("%s: err = %v, stderr = %q", tc.status, err, errOut)
		}
	}
	if n := hits.Load(); n != 0 {
		t.Fatalf("backend called %d times", n)
	}
}
