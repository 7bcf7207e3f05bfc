package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/societyhub/backend/internal/models"
)

type captured struct {
	mu   sync.Mutex
	rows []models.SystemLog
}

func (c *captured) write(batch []models.SystemLog) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = append(c.rows, batch...)
	return nil
}

func (c *captured) all() []models.SystemLog {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.SystemLog(nil), c.rows...)
}

func TestPGHandlerMapsAttributes(t *testing.T) {
	sink := &captured{}
	h := newPGHandler(sink.write, time.Hour)
	logger := slog.New(h).With("component", "complaints")

	logger.Info("ignored")
	logger.Error("status change failed",
		"society_code", "GRN01",
		"request_id", "req-1",
		"actor_id", "soc-1",
		"action", "change_status",
		"error", "boom",
		"complaint_id", "c-9",
	)
	h.Stop()

	rows := sink.all()
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	r := rows[0]
	if r.Level != "ERROR" || r.Message != "status change failed" {
		t.Fatalf("row = %+v", r)
	}
	if r.SocietyCode != "GRN01" || r.RequestID != "req-1" || r.Action != "change_status" || r.Error != "boom" {
		t.Fatalf("mapped fields = %+v", r)
	}
	if r.Component != "complaints" {
		t.Fatalf("component from With attrs = %q", r.Component)
	}
	if r.ActorID == nil || *r.ActorID != "soc-1" {
		t.Fatalf("actor id = %v", r.ActorID)
	}
	var extra map[string]interface{}
	if err := json.Unmarshal(r.Extra, &extra); err != nil {
		t.Fatalf("extra: %v", err)
	}
	if extra["complaint_id"] != "c-9" {
		t.Fatalf("extra = %v", extra)
	}
}

func TestPGHandlerStopIsIdempotent(t *testing.T) {
	h := newPGHandler((&captured{}).write, time.Hour)
	h.Stop()
	h.Stop()
}

func TestMultiHandlerFansOut(t *testing.T) {
	var a, b bytes.Buffer
	ha := slog.NewJSONHandler(&a, &slog.HandlerOptions{Level: slog.LevelInfo})
	hb := slog.NewJSONHandler(&b, &slog.HandlerOptions{Level: slog.LevelError})
	logger := slog.New(NewMultiHandler(ha, hb))

	logger.Info("hello")
	if a.Len() == 0 || b.Len() != 0 {
		t.Fatalf("info routing: a=%q b=%q", a.String(), b.String())
	}
	logger.Error("bad")
	if b.Len() == 0 {
		t.Fatal("error record missing from second handler")
	}
	if !NewMultiHandler(hb).Enabled(context.Background(), slog.LevelError) {
		t.Fatal("error level should be enabled")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
