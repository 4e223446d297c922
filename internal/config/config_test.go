package config_test

import (
	"testing"

	"greensupply/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"STORE_BACKEND", "SERVER_PORT", "RATE_LIMIT", "SEED_ON_START", "ALERT_FLAP_TOLERANCE", "REDIS_KEY_PREFIX"} {
		t.Setenv(k, "")
	}

	cfg := config.Load()
	if cfg.StoreBackend != config.BackendMemory {
		t.Errorf("StoreBackend = %q, want memory", cfg.StoreBackend)
	}
	if cfg.ServerPort != "8080" || cfg.RateLimit != "120-M" || cfg.RedisKeyPrefix != "greensupply:" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if !cfg.SeedOnStart || !cfg.TransferCheckAvailable || cfg.AlertFlapTolerance != 5 {
		t.Errorf("unexpected engine defaults %+v", cfg)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SEED_ON_START", "false")
	t.Setenv("ALERT_FLAP_TOLERANCE", "not-a-number")

	cfg := config.Load()
	if cfg.StoreBackend != config.BackendRedis {
		t.Errorf("StoreBackend = %q, want redis", cfg.StoreBackend)
	}
	if cfg.RedisDB != 3 {
		t.Errorf("RedisDB = %d, want 3", cfg.RedisDB)
	}
	if cfg.SeedOnStart {
		t.Errorf("SeedOnStart should be false")
	}
	if cfg.AlertFlapTolerance != 5 {
		t.Errorf("malformed tolerance should fall back to 5, got %d", cfg.AlertFlapTolerance)
	}
}
