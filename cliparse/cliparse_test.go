// cliparse/cliparse_test.go
package cliparse

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// isolate points EnvFile at a temp dir so a developer's .env.local never
// leaks into a test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := EnvFile
	EnvFile = filepath.Join(dir, ".env.local")
	t.Cleanup(func() { EnvFile = old })
	return EnvFile
}

func TestParseFlags_EnvVars(t *testing.T) {
	isolate(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("INVITE_RATE_WINDOW", "10m")
	t.Setenv("SMTP_HOST", "smtp.example.com")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("expected database type inferred as postgres, got %q", cfg.DatabaseType)
	}
	if cfg.InviteRateWindow != 10*time.Minute {
		t.Errorf("expected 10m window, got %v", cfg.InviteRateWindow)
	}
	if cfg.SMTP.Host != "smtp.example.com" || cfg.SMTP.Port != 587 {
		t.Errorf("unexpected SMTP config %+v", cfg.SMTP)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	isolate(t)
	t.Setenv("DATABASE_URL", "file:duel.db")
	t.Setenv("DEV_IDENTITY", "true")

	cfg, err := ParseFlags(nil)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3318 {
		t.Errorf("expected default port 3318, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected sqlite, got %q", cfg.DatabaseType)
	}
	if cfg.AllowedOrigin != "*" {
		t.Errorf("expected origin *, got %q", cfg.AllowedOrigin)
	}
	if cfg.InviteRateLimit != 20 || cfg.QueueName != "notifications" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	level, err := cfg.SlogLevel()
	if err != nil || level != slog.LevelInfo {
		t.Errorf("SlogLevel() = %v, %v", level, err)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	isolate(t)
	t.Setenv("PORT", "9000")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-jwt-secret", "s1", "-log-level", "debug"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if level, _ := cfg.SlogLevel(); level != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", level)
	}
}

func TestParseFlags_EnvFile(t *testing.T) {
	path := isolate(t)
	content := "DATABASE_URL=file:from-file.db\nJWT_SECRET=from-file\nPORT=7000\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	// Real environment wins over the file
	t.Setenv("PORT", "7100")
	// godotenv sets variables it loads; clear them after the test
	t.Setenv("DATABASE_URL", "")
	os.Unsetenv("DATABASE_URL")
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")

	cfg, err := ParseFlags(nil)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.DatabaseURL != "file:from-file.db" {
		t.Errorf("expected DATABASE_URL from file, got %q", cfg.DatabaseURL)
	}
	if cfg.Port != 7100 {
		t.Errorf("environment should win over file: expected 7100, got %d", cfg.Port)
	}
}

func TestParseFlags_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"missing database url", map[string]string{"JWT_SECRET": "s"}, nil},
		{"missing jwt secret", map[string]string{"DATABASE_URL": "file:x.db"}, nil},
		{"bad database type", map[string]string{"DATABASE_URL": "file:x.db", "JWT_SECRET": "s", "DATABASE_TYPE": "mysql"}, nil},
		{"bad port", map[string]string{"DATABASE_URL": "file:x.db", "JWT_SECRET": "s"}, []string{"-p", "70000"}},
		{"bad log level", map[string]string{"DATABASE_URL": "file:x.db", "JWT_SECRET": "s", "LOG_LEVEL": "loud"}, nil},
		{"bad log format", map[string]string{"DATABASE_URL": "file:x.db", "JWT_SECRET": "s", "LOG_FORMAT": "xml"}, nil},
		{"unknown flag", map[string]string{"DATABASE_URL": "file:x.db", "JWT_SECRET": "s"}, []string{"-nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for _, k := range []string{"DATABASE_URL", "JWT_SECRET", "DEV_IDENTITY", "DATABASE_TYPE", "LOG_LEVEL", "LOG_FORMAT"} {
				t.Setenv(k, "")
				os.Unsetenv(k)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
