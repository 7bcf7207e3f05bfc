package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_NAME", "")
	t.Setenv("JWT_EXPIRY", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg := Load()
	if cfg.DBName != "societyhub" {
		t.Fatalf("DBName = %q", cfg.DBName)
	}
	if cfg.JWTExpiry != 24*time.Hour {
		t.Fatalf("JWTExpiry = %s", cfg.JWTExpiry)
	}
	if cfg.KafkaBrokers != nil {
		t.Fatalf("expected no brokers, got %v", cfg.KafkaBrokers)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,,")
	t.Setenv("OUTBOX_INTERVAL", "250ms")
	t.Setenv("RATE_LIMIT_PER_MIN", "-3")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_NAME", "societyhub")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_SSLMODE", "disable")

	cfg := Load()
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Fatalf("brokers = %v", cfg.KafkaBrokers)
	}
	if cfg.OutboxInterval != 250*time.Millisecond {
		t.Fatalf("interval = %s", cfg.OutboxInterval)
	}
	if cfg.RateLimitPerMin != 120 {
		t.Fatalf("negative limit should fall back, got %d", cfg.RateLimitPerMin)
	}
	if want := "host=db user=postgres password=secret dbname=societyhub port=5432 sslmode=disable TimeZone=UTC"; cfg.DSN() != want {
		t.Fatalf("DSN = %q", cfg.DSN())
	}
}
