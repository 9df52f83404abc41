// Package config loads and saves the global Zoe configuration under ~/.zoe.
// Reads are best-effort: a missing or corrupted file yields defaults, never an
// error the caller has to care about at startup.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

type Config struct {
	// BackendURL is the base URL of the external Zoe backend API
	// (REST + websocket). Defaults to the local hub address.
	BackendURL string `json:"backendUrl,omitempty"`

	// DeviceID is a stable per-machine identifier sent with voice/media
	// sessions. Generated on first run.
	DeviceID string `json:"deviceId,omitempty"`

	// Location is the saved fallback location for the weather widget, used
	// when live lookup times out or is unavailable.
	Location *Location `json:"location,omitempty"`

	// Layout lists the widget types mounted on the dashboard, in grid order.
	// Empty means the default layout.
	Layout []LayoutSlot `json:"layout,omitempty"`

	// LogFile, when set, enables file logging (the TUI owns the terminal, so
	// there is nowhere else for diagnostics to go).
	LogFile string `json:"logFile,omitempty"`

	// LogLevel is the minimum level written to LogFile ("debug", "info",
	// "warn", ...). Empty means info.
	LogLevel string `json:"logLevel,omitempty"`
}

type Location struct {
	Name      string  `json:"name,omitempty"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

type LayoutSlot struct {
	Type  string            `json:"type"`
	Title string            `json:"title,omitempty"`
	Size  string            `json:"size,omitempty"` // overrides the widget's default size
	Param map[string]string `json:"param,omitempty"`
}

const defaultBackendURL = "http://zoe.local:8000"

// DefaultLayout is the dashboard shipped to new installs.
func DefaultLayout() []LayoutSlot {
	return []LayoutSlot{
		{Type: "time"},
		{Type: "weather"},
		{Type: "tasks"},
		{Type: "shopping"},
		{Type: "events"},
		{Type: "music"},
		{Type: "orb"},
	}
}

func Dir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.zoe).
	if v := strings.TrimSpace(os.Getenv("ZOE_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".zoe"), nil
}

func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LocalStorePath is where the sqlite-backed client-local store lives.
func LocalStorePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "local.sqlite"), nil
}

func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return withDefaults(&Config{}), nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		// Best-effort; a corrupted config should not brick the dashboard.
		return withDefaults(&Config{}), nil
	}
	return withDefaults(&cfg), nil
}

func Save(cfg *Config) error {
	if cfg == nil {
		return nil
	}
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(b, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func withDefaults(cfg *Config) *Config {
	if strings.TrimSpace(cfg.BackendURL) == "" {
		cfg.BackendURL = defaultBackendURL
	}
	if len(cfg.Layout) == 0 {
		cfg.Layout = DefaultLayout()
	}
	return cfg
}
