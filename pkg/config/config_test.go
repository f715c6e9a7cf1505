package config

import (
	"errors"
	"testing"

	"github.com/arnavshah/team-former-api-go/pkg/allocator"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"TEAM_SIZE", "MAX_ROUNDS", "PORT", "DATA_PATH", "SMTP_PORT", "SMTP_HOST", "SMTP_FROM", "ADMIN_USERNAME"} {
		t.Setenv(k, "")
	}

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TeamSize != DefaultTeamSize {
		t.Errorf("Expected team size %d, got %d", DefaultTeamSize, cfg.TeamSize)
	}
	if cfg.MaxRounds != allocator.DefaultMaxRounds || cfg.Port != "8000" || cfg.DataPath != "team_former.db" || cfg.SMTPPort != 465 {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
	if cfg.AdminUsername != "admin" {
		t.Errorf("Expected default admin username, got %q", cfg.AdminUsername)
	}
	if cfg.MailEnabled() {
		t.Error("Expected mail to be disabled without SMTP settings")
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("TEAM_SIZE", "4")
	t.Setenv("PORT", "9090")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_FROM", "events@example.com")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TeamSize != 4 || cfg.Port != "9090" {
		t.Errorf("Unexpected config: %+v", cfg)
	}
	if !cfg.MailEnabled() {
		t.Error("Expected mail to be enabled")
	}
}

func TestFromEnv_InvalidTeamSize(t *testing.T) {
	t.Setenv("TEAM_SIZE", "0")
	if _, err := FromEnv(); !errors.Is(err, ErrInvalidTeamSize) {
		t.Errorf("Expected ErrInvalidTeamSize, got %v", err)
	}

	t.Setenv("TEAM_SIZE", "five")
	if _, err := FromEnv(); err == nil {
		t.Error("Expected error for non-numeric TEAM_SIZE")
	}
}

func TestRequireSecrets(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"both set", Config{JWTSecret: "jwt", APIMasterSecret: "master"}, false},
		{"no jwt secret", Config{APIMasterSecret: "master"}, true},
		{"no master secret", Config{JWTSecret: "jwt"}, true},
		{"neither", Config{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.RequireSecrets()
			if tt.wantErr && !errors.Is(err, ErrMissingSecret) {
				t.Errorf("Expected ErrMissingSecret, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestFromEnv_EmptySecretsFailRequire(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("API_MASTER_SECRET", "")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cfg.RequireSecrets(); !errors.Is(err, ErrMissingSecret) {
		t.Errorf("Expected ErrMissingSecret, got %v", err)
	}
}
