package config

import (
	"os"
	"testing"
	"time"
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
	if cfg.App.Port != "5000" {
		t.Fatalf("expected default port 5000, got %q", cfg.App.Port)
	}
	if !cfg.DB.IsSQLite() {
		t.Fatalf("expected sqlite default driver, got %q", cfg.DB.Driver)
	}
	if cfg.DB.DSN != DefaultSQLiteDSN {
		t.Fatalf("expected default sqlite dsn, got %q", cfg.DB.DSN)
	}
	if cfg.Redis.Enabled() {
		t.Fatalf("expected redis disabled without url/address")
	}
	if got := cfg.Session.TTL(); got != 7*24*time.Hour {
		t.Fatalf("expected one week session ttl, got %v", got)
	}
	if cfg.Seed.AdminEmail != "admin@example.com" || cfg.Seed.CompanyName != "Default Company" {
		t.Fatalf("unexpected seed defaults %+v", cfg.Seed)
	}
	if !cfg.FeatureFlags.AutoMigrate || !cfg.FeatureFlags.SeedOnStart {
		t.Fatalf("expected auto migrate and seed enabled by default")
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

func TestLoad_MissingSessionSecret(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvSessionSecret); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvSessionSecret, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing session secret to return an error")
	}
}

func TestLoad_PostgresLegacyDSN(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvDBDriver, "postgres")
	t.Setenv(EnvDBHost, "db.internal")
	t.Setenv(EnvDBUser, "hub")
	t.Setenv(EnvDBName, "propertyhub")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	want := "postgres://hub@db.internal:5432/propertyhub?sslmode=disable"
	if cfg.DB.DSN != want {
		t.Fatalf("expected dsn %q, got %q", want, cfg.DB.DSN)
	}
}

func TestLoad_PostgresWithoutDSNFails(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvDBDriver, "postgres")

	if _, err := Load(); err == nil {
		t.Fatal("expected postgres without dsn or legacy fields to fail")
	}
}

func TestLoad_UnsupportedDriver(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvDBDriver, "oracle")

	if _, err := Load(); err == nil {
		t.Fatal("expected unsupported driver to fail")
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "production")
	t.Setenv(EnvSessionSecret, "secret")
	for _, key := range []string{EnvDBDSN, EnvDBDriver, EnvDBHost, EnvDBUser, EnvDBName, EnvRedisURL} {
		unsetEnv(t, key)
	}
}

// unsetEnv clears key for the duration of the test; t.Setenv restores it afterwards.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("failed to unset %s: %v", key, err)
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

func TestDisplayLocationFallsBackToUTC(t *testing.T) {
	if loc := (DisplayConfig{Timezone: "Not/AZone"}).Location(); loc != time.UTC {
		t.Fatalf("expected UTC fallback, got %v", loc)
	}
	if loc := (DisplayConfig{}).Location(); loc != time.UTC {
		t.Fatalf("expected UTC for empty timezone, got %v", loc)
	}
}
