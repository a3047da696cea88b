package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Digital-Shane/caption-tidy/internal/caption"
	"github.com/Digital-Shane/caption-tidy/internal/core"
	"github.com/Digital-Shane/caption-tidy/internal/media"
)

const appDirName = ".caption-tidy"

// Config holds the user settings stored in ~/.caption-tidy/config.json.
type Config struct {
	// RegistryPath is the JSON array of learned series names.
	RegistryPath string `json:"registry_path"`
	// MissingQuality and MissingEpisode are "default" or "reject".
	MissingQuality  string `json:"missing_quality"`
	MissingEpisode  string `json:"missing_episode"`
	DefaultQuality  string `json:"default_quality"`
	CaptionTemplate string `json:"caption_template"`

	EnableLogging    bool   `json:"enable_logging"`
	LogLevel         string `json:"log_level"`
	LogRetentionDays int    `json:"log_retention_days"`

	WorkerCount     int `json:"worker_count"`
	TraceTTLMinutes int `json:"trace_ttl_minutes"`
}

// AppDir returns ~/.caption-tidy.
func AppDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, appDirName), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// TracePath returns the file the last parse traces are kept in between runs.
func TracePath() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "traces.gob"), nil
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	registryPath := "anime_names.json"
	if dir, err := AppDir(); err == nil {
		registryPath = filepath.Join(dir, "anime_names.json")
	}
	return &Config{
		RegistryPath:     registryPath,
		MissingQuality:   core.PolicyDefault.String(),
		MissingEpisode:   core.PolicyDefault.String(),
		DefaultQuality:   media.DefaultQuality.String(),
		CaptionTemplate:  caption.DefaultTemplate,
		EnableLogging:    true,
		LogLevel:         "info",
		LogRetentionDays: 30,
		WorkerCount:      core.DefaultWorkerCount,
		TraceTTLMinutes:  24 * 60,
	}
}

// Load reads the configuration from disk.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Fill in any missing fields with defaults
	defaults := DefaultConfig()
	if cfg.RegistryPath == "" {
		cfg.RegistryPath = defaults.RegistryPath
	}
	if cfg.MissingQuality == "" {
		cfg.MissingQuality = defaults.MissingQuality
	}
	if cfg.MissingEpisode == "" {
		cfg.MissingEpisode = defaults.MissingEpisode
	}
	if cfg.DefaultQuality == "" {
		cfg.DefaultQuality = defaults.DefaultQuality
	}
	if cfg.CaptionTemplate == "" {
		cfg.CaptionTemplate = defaults.CaptionTemplate
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaults.LogLevel
	}
	if cfg.LogRetentionDays == 0 {
		cfg.LogRetentionDays = defaults.LogRetentionDays
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = defaults.WorkerCount
	}
	if cfg.TraceTTLMinutes == 0 {
		cfg.TraceTTLMinutes = defaults.TraceTTLMinutes
	}

	return &cfg, nil
}

// Save writes the configuration to disk.
func (cfg *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks the fields Options and the caption renderer depend on.
func (cfg *Config) Validate() error {
	if _, err := core.ParsePolicy(cfg.MissingQuality); err != nil {
		return fmt.Errorf("missing_quality: %w", err)
	}
	if _, err := core.ParsePolicy(cfg.MissingEpisode); err != nil {
		return fmt.Errorf("missing_episode: %w", err)
	}
	if _, ok := media.ParseQuality(cfg.DefaultQuality); !ok {
		return fmt.Errorf("default_quality: unsupported quality %q", cfg.DefaultQuality)
	}
	if err := caption.Validate(cfg.CaptionTemplate); err != nil {
		return fmt.Errorf("caption_template: %w", err)
	}
	if cfg.WorkerCount < 0 {
		return fmt.Errorf("worker_count: must not be negative")
	}
	return nil
}

// Options converts the configuration into pipeline options. Logger and
// Traces are left for the caller to set.
func (cfg *Config) Options() (core.Options, error) {
	if err := cfg.Validate(); err != nil {
		return core.Options{}, err
	}
	missingQuality, _ := core.ParsePolicy(cfg.MissingQuality)
	missingEpisode, _ := core.ParsePolicy(cfg.MissingEpisode)
	defaultQuality, _ := media.ParseQuality(cfg.DefaultQuality)
	return core.Options{
		MissingQuality: missingQuality,
		MissingEpisode: missingEpisode,
		DefaultQuality: defaultQuality,
	}, nil
}

// TraceTTL returns how long parse traces are kept.
func (cfg *Config) TraceTTL() time.Duration {
	return time.Duration(cfg.TraceTTLMinutes) * time.Minute
}
