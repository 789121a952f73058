package config

import (
	"os"
	"testing"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "production" {
		t.Fatalf("expected App.Env to be production, got %q", cfg.App.Env)
	}
	if cfg.Storage.Normalized() != StorageBackendMemory {
		t.Fatalf("expected memory backend by default, got %q", cfg.Storage.Backend)
	}
	if cfg.Profile.CookieName != "cart_profile" {
		t.Fatalf("unexpected cookie name %q", cfg.Profile.CookieName)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAppEnv); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAppEnv, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_RedisBackendRequiresAddress(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageBackend, "redis")

	if _, err := Load(); err == nil {
		t.Fatal("expected redis backend without url to fail")
	}

	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Redis.URL != "redis://localhost:6379/0" {
		t.Fatalf("unexpected Redis URL: %q", cfg.Redis.URL)
	}
}

func TestLoad_SQLBackendBuildsLegacyDSN(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageBackend, "SQL")

	if _, err := Load(); err == nil {
		t.Fatal("expected sql backend without dsn to fail")
	}

	t.Setenv(EnvDBHost, "db.local")
	t.Setenv(EnvDBUser, "cart")
	t.Setenv(EnvDBName, "carts")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "postgres://cart@db.local:5432/carts?sslmode=disable"
	if cfg.DB.DSN != want {
		t.Fatalf("expected dsn %q, got %q", want, cfg.DB.DSN)
	}
}

func TestLoad_SQLiteFlagOverridesDriver(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageBackend, "sql")
	t.Setenv(EnvUseSQLite, "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.DB.IsSQLite() {
		t.Fatalf("expected sqlite driver, got %q", cfg.DB.Driver)
	}
	if cfg.DB.DSN == "" {
		t.Fatal("expected default sqlite dsn")
	}
}

func TestLoad_UnknownBackend(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageBackend, "etcd")

	if _, err := Load(); err == nil {
		t.Fatal("expected unknown backend to fail")
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "production")
	t.Setenv(EnvPort, "8081")
	t.Setenv(EnvProfileSecret, "secret")
	for _, key := range []string{EnvStorageBackend, EnvRedisURL, EnvRedisAddr, EnvDBDSN, EnvDBHost, EnvDBUser, EnvDBName, EnvUseSQLite} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
	if prodConfig.IsDev() {
		t.Fatalf("expected IsDev false for %q", prodConfig.Env)
	}
}
