// cliparse/cliparse_test.go
package cliparse

import (
	"strings"
	"testing"
	"time"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "DATABASE_TYPE", "DATABASE_URL", "MONGO_DATABASE",
		"ELIGIBILITY_URL", "ELIGIBILITY_TIMEOUT", "ELIGIBILITY_RETRIES", "SWEEP_INTERVAL",
	} {
		t.Setenv(key, "")
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("DATABASE_URL", "file:test.db")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3318 {
		t.Errorf("expected port 3318, got %d", cfg.Port)
	}
	if cfg.DatabaseType != TypeSQLite {
		t.Errorf("expected sqlite, got %q", cfg.DatabaseType)
	}
	if cfg.MongoDatabase != "voting" {
		t.Errorf("expected mongo database voting, got %q", cfg.MongoDatabase)
	}
	if cfg.EligibilityTimeout != 5*time.Second {
		t.Errorf("expected 5s eligibility timeout, got %v", cfg.EligibilityTimeout)
	}
	if cfg.EligibilityRetries != 3 {
		t.Errorf("expected 3 retries, got %d", cfg.EligibilityRetries)
	}
	if cfg.SweepInterval != 0 {
		t.Errorf("expected sweeper disabled, got %v", cfg.SweepInterval)
	}
}

func TestParseFlags_EnvVars(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("ELIGIBILITY_URL", "http://eligibility.local")
	t.Setenv("SWEEP_INTERVAL", "30s")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != TypePostgres {
		t.Errorf("expected postgres, got %q", cfg.DatabaseType)
	}
	if cfg.EligibilityURL != "http://eligibility.local" {
		t.Errorf("unexpected eligibility URL %q", cfg.EligibilityURL)
	}
	if cfg.SweepInterval != 30*time.Second {
		t.Errorf("expected 30s sweep interval, got %v", cfg.SweepInterval)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "file:env.db")

	cfg, err := ParseFlags([]string{
		"-p", "8080",
		"-d", "file:test.db",
		"--eligibility-retries", "5",
		"--sweep-interval", "1m",
	})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "file:test.db" {
		t.Errorf("CLI should override env: got %q", cfg.DatabaseURL)
	}
	if cfg.EligibilityRetries != 5 {
		t.Errorf("expected 5 retries, got %d", cfg.EligibilityRetries)
	}
	if cfg.SweepInterval != time.Minute {
		t.Errorf("expected 1m sweep interval, got %v", cfg.SweepInterval)
	}
}

func TestParseFlags_MemoryNeedsNoURL(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := ParseFlags([]string{"-t", "memory"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DatabaseType != TypeMemory {
		t.Errorf("expected memory, got %q", cfg.DatabaseType)
	}
}

func TestParseFlags_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing url", []string{"-t", "sqlite"}, "database URL required"},
		{"unknown type", []string{"-t", "cassandra", "-d", "x"}, "unsupported database type"},
		{"bad port", []string{"-p", "70000", "-t", "memory"}, "invalid port"},
		{"negative retries", []string{"-t", "memory", "--eligibility-retries=-1"}, "retries"},
		{"negative sweep", []string{"-t", "memory", "--sweep-interval=-1s"}, "sweep interval"},
		{"unknown flag", []string{"--nope"}, "unknown flag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)

			_, err := ParseFlags(tt.args)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}
