// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"testing"
)

func TestParseFlags_EnvVars(t *testing.T) {
	// Set env vars
	os.Setenv("PORT", "9000")
	os.Setenv("DATABASE_URL", "postgres://test")
	os.Setenv("AUTH_BACKEND_URL", "http://localhost:9999/auth/v1")
	os.Setenv("AUTH_BACKEND_KEY", "test-key")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.SiteURL != "http://localhost:9000" {
		t.Errorf("expected default site URL from port, got %s", cfg.SiteURL)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	os.Setenv("PORT", "9000")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-t", "sqlite", "-auth-url", "http://localhost:9999", "-auth-key", "k1"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected sqlite, got %s", cfg.DatabaseType)
	}
}

func TestParseFlags_MissingBackend(t *testing.T) {
	os.Clearenv()

	_, err := ParseFlags([]string{"-d", "postgres://test"})
	if err == nil {
		t.Fatal("expected error when AUTH_BACKEND_URL is missing")
	}
}

func TestParseFlags_BadDatabaseType(t *testing.T) {
	os.Clearenv()

	_, err := ParseFlags([]string{"-d", "postgres://test", "-t", "mysql", "-auth-url", "u", "-auth-key", "k"})
	if err == nil {
		t.Fatal("expected error for unsupported database type")
	}
}
