package cache

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/societyhub/backend/internal/testinfra"
)

func TestRedisStorage(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	ctx := context.Background()
	url, stop, err := testinfra.StartRedis(ctx)
	if err != nil {
		t.Skipf("redis container unavailable: %v", err)
	}
	defer stop()

	s, err := NewRedisStorage(url, "test:")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer s.Close()

	if v, err := s.Get("missing"); err != nil || v != nil {
		t.Fatalf("missing key: %v %v", v, err)
	}
	if err := s.Set("a", []byte("1"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set("b", []byte("2"), 50*time.Millisecond); err != nil {
		t.Fatalf("set with ttl: %v", err)
	}
	if v, _ := s.Get("a"); !bytes.Equal(v, []byte("1")) {
		t.Fatalf("get a = %q", v)
	}

	time.Sleep(150 * time.Millisecond)
	if v, _ := s.Get("b"); v != nil {
		t.Fatalf("expired key still present: %q", v)
	}

	if err := s.Delete("a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	s.Set("c", []byte("3"), 0)
	if err := s.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if v, _ := s.Get("c"); v != nil {
		t.Fatal("reset left keys behind")
	}
}
