package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/costwatch/costwatch/internal/azure"
)

// Config holds all costwatch configuration.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Listen     ListenConfig     `toml:"listen"`
	Azure      AzureConfig      `toml:"azure"`
	Dashboard  DashboardConfig  `toml:"dashboard"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// ServerConfig points the dashboard at a cost-reporting server.
type ServerConfig struct {
	URL        string `toml:"url"`
	TimeoutSec int    `toml:"timeout_sec"`
}

// ListenConfig holds settings for the serve command.
type ListenConfig struct {
	Addr string `toml:"addr"`
}

// AzureConfig holds Azure AD application credentials.
type AzureConfig struct {
	TenantID       string `toml:"tenant_id,omitempty"`
	ClientID       string `toml:"client_id,omitempty"`
	ClientSecret   string `toml:"client_secret,omitempty"`
	SubscriptionID string `toml:"subscription_id,omitempty"`
}

// DashboardConfig holds TUI behavior settings.
type DashboardConfig struct {
	AutoRefresh        bool `toml:"auto_refresh"`
	RefreshIntervalSec int  `toml:"refresh_interval_sec"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			URL:        "http://localhost:5001",
			TimeoutSec: 15,
		},
		Listen: ListenConfig{
			Addr: ":5001",
		},
		Dashboard: DashboardConfig{
			AutoRefresh:        false,
			RefreshIntervalSec: 60,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "costwatch")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "costwatch")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// AzureCredentials returns the Azure credentials from env vars or config,
// in that order, one env var per field.
func AzureCredentials(cfg Config) azure.Config {
	return azure.Config{
		TenantID:       envOr("AZURE_TENANT_ID", cfg.Azure.TenantID),
		ClientID:       envOr("AZURE_CLIENT_ID", cfg.Azure.ClientID),
		ClientSecret:   envOr("AZURE_CLIENT_SECRET", cfg.Azure.ClientSecret),
		SubscriptionID: envOr("AZURE_SUBSCRIPTION_ID", cfg.Azure.SubscriptionID),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// DataDir returns the platform-appropriate data directory.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "costwatch")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "costwatch")
}

// PrefsPath returns the full path to the preference database.
func PrefsPath() string {
	return filepath.Join(DataDir(), "prefs.db")
}
