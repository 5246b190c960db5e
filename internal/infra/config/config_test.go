package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.App.Name != "leadshield" {
		t.Fatalf("unexpected app name %q", cfg.App.Name)
	}
	if cfg.App.Port != 8080 {
		t.Fatalf("unexpected port %d", cfg.App.Port)
	}
	if cfg.Session.TTL != 24*time.Hour {
		t.Fatalf("unexpected session ttl %v", cfg.Session.TTL)
	}
	if cfg.Storage.Root == "" {
		t.Fatal("expected default storage root")
	}
	if cfg.Email.Enabled {
		t.Fatal("expected email disabled by default")
	}
}

func TestLoadAppliesEnvironmentOverrides(t *testing.T) {
	t.Setenv("LEADSHIELD_APP_PORT", "9090")
	t.Setenv("LEADSHIELD_APP_ENV", "production")
	t.Setenv("LEADSHIELD_SESSION_TTL", "1h")
	t.Setenv("LEADSHIELD_STORAGE_ROOT", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.App.Port != 9090 {
		t.Fatalf("expected port override, got %d", cfg.App.Port)
	}
	if cfg.App.Env != "production" {
		t.Fatalf("expected env override, got %q", cfg.App.Env)
	}
	if cfg.Session.TTL != time.Hour {
		t.Fatalf("expected ttl override, got %v", cfg.Session.TTL)
	}
}

func TestValidateRejectsBrokenConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  AppConfig
	}{
		{
			"missing storage root",
			AppConfig{Session: SessionSettings{TTL: time.Hour}},
		},
		{
			"non-positive session ttl",
			AppConfig{Storage: StorageSettings{Root: "./data"}},
		},
		{
			"email enabled without key",
			AppConfig{
				Storage: StorageSettings{Root: "./data"},
				Session: SessionSettings{TTL: time.Hour},
				Email:   EmailSettings{Enabled: true},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
