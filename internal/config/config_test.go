package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_NAME", "course-compass")
	t.Setenv("APP_ENV", "test")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("JWT_ACCESS_SECRET", "access")
	t.Setenv("JWT_REFRESH_SECRET", "refresh")
}

func TestLoad_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_ACCESS_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing required env")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_ACCESS_EXPIRES_MINUTES", "")
	t.Setenv("JWT_REFRESH_EXPIRES_MINUTES", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.JWT.AccessExpiresIn != 15*time.Minute {
		t.Fatalf("AccessExpiresIn = %v, want 15m default", cfg.JWT.AccessExpiresIn)
	}
	if cfg.JWT.RefreshExpiresIn != 7*24*time.Hour {
		t.Fatalf("RefreshExpiresIn = %v, want 7d default", cfg.JWT.RefreshExpiresIn)
	}
	if cfg.Database.RunSeeders {
		t.Fatal("RunSeeders must default to false")
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_ACCESS_EXPIRES_MINUTES", "30")
	t.Setenv("DB_POOL_MAX_CONNS", "25")
	t.Setenv("RUN_SEEDERS", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.JWT.AccessExpiresIn != 30*time.Minute {
		t.Fatalf("AccessExpiresIn = %v, want 30m", cfg.JWT.AccessExpiresIn)
	}
	if cfg.Database.PoolMaxConns != 25 {
		t.Fatalf("PoolMaxConns = %d, want 25", cfg.Database.PoolMaxConns)
	}
	if !cfg.Database.RunSeeders {
		t.Fatal("RunSeeders must be true")
	}
}
