package config

import (
	"testing"
	"time"
)

func envFunc(env map[string]string) func(string) string {
	return func(k string) string { return env[k] }
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFromEnv(envFunc(map[string]string{}))
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if cfg.Env != "dev" {
		t.Fatalf("Env: got %q", cfg.Env)
	}
	if cfg.Addr != "127.0.0.1:8080" {
		t.Fatalf("Addr: got %q", cfg.Addr)
	}
	if cfg.TokenTTL != 7*24*time.Hour {
		t.Fatalf("TokenTTL: got %v", cfg.TokenTTL)
	}
}

func TestLoadRejectsBadEnv(t *testing.T) {
	_, err := LoadFromEnv(envFunc(map[string]string{"APP_ENV": "staging"}))
	if err == nil {
		t.Fatal("expected error for unknown APP_ENV")
	}
}

func TestLoadRejectsBadTokenTTL(t *testing.T) {
	_, err := LoadFromEnv(envFunc(map[string]string{"APP_TOKEN_TTL": "soon"}))
	if err == nil {
		t.Fatal("expected error for unparseable APP_TOKEN_TTL")
	}
	_, err = LoadFromEnv(envFunc(map[string]string{"APP_TOKEN_TTL": "-1h"}))
	if err == nil {
		t.Fatal("expected error for negative APP_TOKEN_TTL")
	}
}

func TestLoadProdRequirements(t *testing.T) {
	_, err := LoadFromEnv(envFunc(map[string]string{"APP_ENV": "prod"}))
	if err == nil {
		t.Fatal("expected error: prod requires APP_DB_DSN")
	}

	_, err = LoadFromEnv(envFunc(map[string]string{
		"APP_ENV":    "prod",
		"APP_DB_DSN": "postgres://localhost/campuslink",
	}))
	if err == nil {
		t.Fatal("expected error: prod requires a long APP_JWT_SECRET")
	}

	cfg, err := LoadFromEnv(envFunc(map[string]string{
		"APP_ENV":        "prod",
		"APP_DB_DSN":     "postgres://localhost/campuslink",
		"APP_JWT_SECRET": "0123456789abcdef0123456789abcdef",
	}))
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if !cfg.IsProd() {
		t.Fatal("expected IsProd")
	}
}
