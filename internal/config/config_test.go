package config

import (
	"os"
	"path/filepath"
	"testing"
)

// withConfigDir points XDG_CONFIG_HOME at a temp dir for the test.
func withConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	withConfigDir(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.URL != "http://localhost:5001" {
		t.Errorf("Server.URL = %q, want default", cfg.Server.URL)
	}
	if cfg.Server.TimeoutSec != 15 {
		t.Errorf("Server.TimeoutSec = %d, want 15", cfg.Server.TimeoutSec)
	}
	if cfg.Appearance.Theme != "flexoki-dark" {
		t.Errorf("Theme = %q, want flexoki-dark", cfg.Appearance.Theme)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	withConfigDir(t)

	cfg := DefaultConfig()
	cfg.Server.URL = "http://cost.internal:8080"
	cfg.Azure.TenantID = "tenant-1"

	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists() {
		t.Fatal("config file should exist after Save")
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Server.URL != "http://cost.internal:8080" {
		t.Errorf("Server.URL = %q", loaded.Server.URL)
	}
	if loaded.Azure.TenantID != "tenant-1" {
		t.Errorf("Azure.TenantID = %q", loaded.Azure.TenantID)
	}
}

func TestLoadMalformed(t *testing.T) {
	dir := withConfigDir(t)

	path := filepath.Join(dir, "costwatch", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not [valid toml"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("Load should fail on malformed config")
	}
}

func TestAzureCredentialsEnvOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Azure.TenantID = "from-config"

	t.Setenv("AZURE_TENANT_ID", "from-env")
	t.Setenv("AZURE_CLIENT_ID", "")
	t.Setenv("AZURE_CLIENT_SECRET", "")
	t.Setenv("AZURE_SUBSCRIPTION_ID", "")

	creds := AzureCredentials(cfg)
	if creds.TenantID != "from-env" {
		t.Errorf("TenantID = %q, want from-env", creds.TenantID)
	}
}
