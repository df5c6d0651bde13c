// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func noEnvFile(t *testing.T) {
	t.Helper()
	old := EnvFile
	EnvFile = filepath.Join(t.TempDir(), "missing.env")
	t.Cleanup(func() { EnvFile = old })
}

func TestParseFlags_Defaults(t *testing.T) {
	noEnvFile(t)

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3318 {
		t.Errorf("expected port 3318, got %d", cfg.Port)
	}
	if cfg.APIBaseURL != "http://localhost:8000" {
		t.Errorf("unexpected API base URL %q", cfg.APIBaseURL)
	}
	if cfg.StorageType != "sqlite" {
		t.Errorf("expected sqlite storage, got %q", cfg.StorageType)
	}
	if cfg.PublicURL != "http://localhost:3318" {
		t.Errorf("unexpected public URL %q", cfg.PublicURL)
	}
	if cfg.PollInterval != 5*time.Second {
		t.Errorf("expected 5s poll interval, got %v", cfg.PollInterval)
	}
	if cfg.MinBusy != 500*time.Millisecond {
		t.Errorf("expected 500ms min busy, got %v", cfg.MinBusy)
	}
}

func TestParseFlags_EnvVars(t *testing.T) {
	noEnvFile(t)
	t.Setenv("PORT", "9000")
	t.Setenv("API_BASE_URL", "http://backend:8000")
	t.Setenv("STORAGE_TYPE", "postgres")
	t.Setenv("POLL_INTERVAL", "2s")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.APIBaseURL != "http://backend:8000" {
		t.Errorf("unexpected API base URL %q", cfg.APIBaseURL)
	}
	if cfg.StorageType != "postgres" {
		t.Errorf("expected postgres storage, got %q", cfg.StorageType)
	}
	if cfg.PollInterval != 2*time.Second {
		t.Errorf("expected 2s poll interval, got %v", cfg.PollInterval)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	noEnvFile(t)
	t.Setenv("PORT", "9000")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-public", "https://vote.example"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.StorageURL != "file:test.db" {
		t.Errorf("unexpected storage URL %q", cfg.StorageURL)
	}
	if cfg.PublicURL != "https://vote.example" {
		t.Errorf("unexpected public URL %q", cfg.PublicURL)
	}
}

func TestParseFlags_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("QV_TEST_UNUSED=1\nMIN_BUSY=1s\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	old := EnvFile
	EnvFile = path
	t.Cleanup(func() {
		EnvFile = old
		os.Unsetenv("QV_TEST_UNUSED")
		os.Unsetenv("MIN_BUSY")
	})

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MinBusy != time.Second {
		t.Errorf("expected min busy from .env file, got %v", cfg.MinBusy)
	}
}

func TestParseFlags_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{name: "bad port env", env: map[string]string{"PORT": "abc"}},
		{name: "port out of range", args: []string{"-p", "70000"}},
		{name: "unknown storage", args: []string{"-t", "mysql"}},
		{name: "zero poll interval", args: []string{"-poll-interval", "0s"}},
		{name: "unknown flag", args: []string{"-nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			noEnvFile(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
