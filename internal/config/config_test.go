package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "supersecret")
	t.Setenv("DB_MAX_CONNS", "")
	t.Setenv("DB_MIN_CONNS", "")
	t.Setenv("DAILY_GENERATION_CAP", "")
	t.Setenv("GENERATION_TIMEOUT_SECONDS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("expected config, got %v", err)
	}
	if cfg.DBMaxConns != 10 || cfg.DBMinConns != 2 {
		t.Errorf("unexpected pool defaults: %d-%d", cfg.DBMinConns, cfg.DBMaxConns)
	}
	if cfg.DailyCategoryCap != 5 {
		t.Errorf("unexpected daily cap default: %d", cfg.DailyCategoryCap)
	}
	if cfg.GenerationTimeout != 60*time.Second {
		t.Errorf("unexpected timeout default: %v", cfg.GenerationTimeout)
	}
}

func TestLoadConfigReadsPoolSizing(t *testing.T) {
	t.Setenv("JWT_SECRET", "supersecret")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("DB_MIN_CONNS", "5")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("expected config, got %v", err)
	}
	if cfg.DBMaxConns != 25 || cfg.DBMinConns != 5 {
		t.Errorf("pool sizing not read from env: %d-%d", cfg.DBMinConns, cfg.DBMaxConns)
	}
}

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected an error without JWT_SECRET")
	}
}
