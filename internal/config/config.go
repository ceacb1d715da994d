// ABOUTME: Routines configuration management with backend selection.
// ABOUTME: Reads the JSON config file, applies ROUTINES_* environment overrides and opens storage.

package config

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/harperreed/routines/internal/api"
	"github.com/harperreed/routines/internal/charm"
	"github.com/harperreed/routines/internal/directory"
	"github.com/harperreed/routines/internal/logging"
	"github.com/harperreed/routines/internal/storage"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendCharm  = "charm"
)

// Duration is a time.Duration written as text ("15s") in the config file.
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", text, err)
	}
	*d = Duration(v)
	return nil
}

// Config stores routines tool configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default) or "charm".
	Backend string `json:"backend,omitempty" env:"ROUTINES_BACKEND"`

	// DataDir is the root directory for data storage. SQLite puts routines.db here.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/routines.
	DataDir string `json:"data_dir,omitempty" env:"ROUTINES_DATA_DIR"`

	APIURL       string   `json:"api_url,omitempty" env:"ROUTINES_API_URL"`
	DirectoryURL string   `json:"directory_url,omitempty" env:"ROUTINES_DIRECTORY_URL"`
	HTTPTimeout  Duration `json:"http_timeout,omitempty" env:"ROUTINES_HTTP_TIMEOUT"`

	// WatchInterval is how often draft watchers poll for changes made by other processes.
	WatchInterval Duration `json:"watch_interval,omitempty" env:"ROUTINES_WATCH_INTERVAL"`

	LogLevel string `json:"log_level,omitempty" env:"ROUTINES_LOG_LEVEL"`
	LogFile  string `json:"log_file,omitempty" env:"ROUTINES_LOG_FILE"`
	LogJSON  bool   `json:"log_json,omitempty" env:"ROUTINES_LOG_JSON"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return strings.ToLower(c.Backend)
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetAPIURL returns the routine backend base URL without a trailing slash.
func (c *Config) GetAPIURL() string {
	if c.APIURL == "" {
		return api.DefaultBaseURL
	}
	return strings.TrimRight(c.APIURL, "/")
}

// GetDirectoryURL returns the exercise directory base URL without a trailing slash.
func (c *Config) GetDirectoryURL() string {
	if c.DirectoryURL == "" {
		return directory.DefaultBaseURL
	}
	return strings.TrimRight(c.DirectoryURL, "/")
}

// GetHTTPTimeout returns the transport timeout for remote calls.
func (c *Config) GetHTTPTimeout() time.Duration {
	if c.HTTPTimeout <= 0 {
		return api.DefaultTimeout
	}
	return time.Duration(c.HTTPTimeout)
}

// GetWatchInterval returns the draft watch poll interval.
func (c *Config) GetWatchInterval() time.Duration {
	if c.WatchInterval <= 0 {
		return storage.DefaultWatchInterval
	}
	return time.Duration(c.WatchInterval)
}

// HTTPClient returns an HTTP client with the configured timeout.
func (c *Config) HTTPClient() *http.Client {
	return &http.Client{Timeout: c.GetHTTPTimeout()}
}

// LoggerParams returns the logger setup for this config.
func (c *Config) LoggerParams() logging.LoggerSetupParams {
	return logging.LoggerSetupParams{
		LogFileName:   ExpandPath(c.LogFile),
		LogLevel:      c.LogLevel,
		LogFormatJSON: c.LogJSON,
	}
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage creates a Repository implementation based on the configured backend.
func (c *Config) OpenStorage() (storage.Repository, error) {
	backend := c.GetBackend()

	switch backend {
	case BackendSQLite:
		dbPath := filepath.Join(c.GetDataDir(), "routines.db")
		db, err := storage.Open(dbPath)
		if err != nil {
			return nil, err
		}
		db.SetWatchInterval(c.GetWatchInterval())
		return db, nil
	case BackendCharm:
		client, err := charm.InitClient()
		if err != nil {
			return nil, fmt.Errorf("open charm store: %w", err)
		}
		client.SetWatchInterval(c.GetWatchInterval())
		return client, nil
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "routines", "config.json")
}

// Load reads config from disk and applies environment overrides.
func Load() (*Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return nil, err
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads config from disk only. A missing file yields an empty config.
func LoadFile() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// ApplyEnv overrides fields from ROUTINES_* environment variables that are set.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
