package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// unsetenv clears key for the duration of the test; godotenv treats a key
// that is present but empty as already set.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unset %s: %v", key, err)
	}
}

func TestLoadDotEnv_LoadsValuesAndIgnoresNoise(t *testing.T) {
	unsetenv(t, "PW_TEST_A")
	unsetenv(t, "PW_TEST_B")
	unsetenv(t, "PW_TEST_C")
	t.Setenv("APP_ENV", "development")

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := []byte(`
# comment

PW_TEST_A=one
export PW_TEST_B=two
PW_TEST_C="three"
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}

	if got := os.Getenv("PW_TEST_A"); got != "one" {
		t.Fatalf("PW_TEST_A=%q, want %q", got, "one")
	}
	if got := os.Getenv("PW_TEST_B"); got != "two" {
		t.Fatalf("PW_TEST_B=%q, want %q", got, "two")
	}
	if got := os.Getenv("PW_TEST_C"); got != "three" {
		t.Fatalf("PW_TEST_C=%q, want %q", got, "three")
	}
}

func TestLoadDotEnv_DoesNotOverwriteExistingEnv(t *testing.T) {
	t.Setenv("PW_TEST_KEEP", "already")
	t.Setenv("APP_ENV", "development")

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("PW_TEST_KEEP=fromfile\n"), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}

	if got := os.Getenv("PW_TEST_KEEP"); got != "already" {
		t.Fatalf("PW_TEST_KEEP=%q, want %q", got, "already")
	}
}

func TestLoadDotEnv_MissingFileIsNotAnError(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	if err := loadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}
}

func TestLoadDotEnv_SkippedInProduction(t *testing.T) {
	unsetenv(t, "PW_TEST_Q")
	t.Setenv("APP_ENV", "production")

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("PW_TEST_Q='hello world'\n"), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}

	if got := os.Getenv("PW_TEST_Q"); got != "" {
		t.Fatalf("PW_TEST_Q=%q, want empty in production", got)
	}
}

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_SECRET", "prod-secret")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_JSON", "true")
	unsetenv(t, "DB_PATH")
	unsetenv(t, "LOG_LEVEL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "9090" {
		t.Fatalf("Port=%q, want 9090", cfg.Port)
	}
	if cfg.DBPath != "./dev.db" {
		t.Fatalf("DBPath=%q, want default", cfg.DBPath)
	}
	if cfg.LogLevel != "info" || !cfg.LogJSON {
		t.Fatalf("log settings = %q/%v", cfg.LogLevel, cfg.LogJSON)
	}
	if cfg.IsDev() {
		t.Fatalf("production config reported as dev")
	}
}

func TestLoad_ProductionRequiresSessionSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	unsetenv(t, "SESSION_SECRET")

	if _, err := Load(); !errors.Is(err, ErrMissingSessionSecret) {
		t.Fatalf("Load err = %v, want ErrMissingSessionSecret", err)
	}

	t.Setenv("APP_ENV", "development")
	unsetenv(t, "SESSION_SECRET")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load in development: %v", err)
	}
	if cfg.SessionSecret != "" {
		t.Fatalf("SessionSecret=%q, want empty", cfg.SessionSecret)
	}
}
