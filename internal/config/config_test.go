package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Digital-Shane/caption-tidy/internal/caption"
	"github.com/Digital-Shane/caption-tidy/internal/core"
	"github.com/Digital-Shane/caption-tidy/internal/media"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// useTempHome points HOME at a fresh directory and returns the app dir.
func useTempHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return filepath.Join(home, ".caption-tidy")
}

func writeConfig(t *testing.T, appDir, body string) {
	t.Helper()
	if err := os.MkdirAll(appDir, 0o755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(appDir, "config.json"), []byte(body), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	appDir := useTempHome(t)

	want := &Config{
		RegistryPath:     filepath.Join(appDir, "anime_names.json"),
		MissingQuality:   "default",
		MissingEpisode:   "default",
		DefaultQuality:   "480p",
		CaptionTemplate:  caption.DefaultTemplate,
		EnableLogging:    true,
		LogLevel:         "info",
		LogRetentionDays: 30,
		WorkerCount:      core.DefaultWorkerCount,
		TraceTTLMinutes:  1440,
	}
	if diff := cmp.Diff(want, DefaultConfig()); diff != "" {
		t.Errorf("DefaultConfig() mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigPath(t *testing.T) {
	appDir := useTempHome(t)

	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath() error = %v", err)
	}
	if want := filepath.Join(appDir, "config.json"); path != want {
		t.Errorf("ConfigPath() = %q, want %q", path, want)
	}

	trace, err := TracePath()
	if err != nil {
		t.Fatalf("TracePath() error = %v", err)
	}
	if filepath.Dir(trace) != appDir {
		t.Errorf("TracePath() = %q, want a file in %q", trace, appDir)
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	useTempHome(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_ValidFile(t *testing.T) {
	appDir := useTempHome(t)
	writeConfig(t, appDir, `{
		"registry_path": "/srv/names.json",
		"missing_quality": "reject",
		"missing_episode": "default",
		"default_quality": "720p",
		"caption_template": "{title} {season}{episode}",
		"enable_logging": false,
		"log_level": "debug",
		"log_retention_days": 7,
		"worker_count": 2,
		"trace_ttl_minutes": 5
	}`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := &Config{
		RegistryPath:     "/srv/names.json",
		MissingQuality:   "reject",
		MissingEpisode:   "default",
		DefaultQuality:   "720p",
		CaptionTemplate:  "{title} {season}{episode}",
		EnableLogging:    false,
		LogLevel:         "debug",
		LogRetentionDays: 7,
		WorkerCount:      2,
		TraceTTLMinutes:  5,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_PartialConfig(t *testing.T) {
	appDir := useTempHome(t)
	writeConfig(t, appDir, `{"missing_episode": "reject", "enable_logging": true}`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := DefaultConfig()
	want.MissingEpisode = "reject"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	appDir := useTempHome(t)
	writeConfig(t, appDir, `{invalid json}`)

	if _, err := Load(); err == nil {
		t.Error("Load() error = nil, want parse error")
	}
}

func TestSave(t *testing.T) {
	useTempHome(t)

	cfg := DefaultConfig()
	cfg.MissingQuality = "reject"
	cfg.WorkerCount = 3
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("Load() after Save() mismatch (-want +got):\n%s", diff)
	}
}

func TestOptions(t *testing.T) {
	useTempHome(t)

	tests := map[string]struct {
		modify  func(*Config)
		want    core.Options
		wantErr bool
	}{
		"defaults": {
			modify: func(*Config) {},
			want:   core.Options{MissingQuality: core.PolicyDefault, MissingEpisode: core.PolicyDefault, DefaultQuality: media.Quality480p},
		},
		"reject both": {
			modify: func(c *Config) { c.MissingQuality, c.MissingEpisode = "reject", "REJECT" },
			want:   core.Options{MissingQuality: core.PolicyReject, MissingEpisode: core.PolicyReject, DefaultQuality: media.Quality480p},
		},
		"default quality remapped": {
			modify: func(c *Config) { c.DefaultQuality = "360p" },
			want:   core.Options{DefaultQuality: media.Quality480p},
		},
		"default quality 4k": {
			modify: func(c *Config) { c.DefaultQuality = "4K" },
			want:   core.Options{DefaultQuality: media.Quality2160p},
		},
		"bad policy": {
			modify:  func(c *Config) { c.MissingEpisode = "skip" },
			wantErr: true,
		},
		"bad quality": {
			modify:  func(c *Config) { c.DefaultQuality = "576p" },
			wantErr: true,
		},
		"bad template": {
			modify:  func(c *Config) { c.CaptionTemplate = "{year}" },
			wantErr: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.modify(cfg)
			got, err := cfg.Options()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Options() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantErr {
				return
			}
			if diff := cmp.Diff(tc.want, got, cmpopts.IgnoreFields(core.Options{}, "Logger", "Traces")); diff != "" {
				t.Errorf("Options() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTraceTTL(t *testing.T) {
	cfg := &Config{TraceTTLMinutes: 90}
	if got := cfg.TraceTTL(); got != 90*time.Minute {
		t.Errorf("TraceTTL() = %v, want 90m", got)
	}
}
