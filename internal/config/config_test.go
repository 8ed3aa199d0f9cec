package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(TokenEnv, "")

	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Interval != DefaultInterval {
		t.Errorf("Interval = %v, want %v", cfg.Interval, DefaultInterval)
	}
	if cfg.LogTail != DefaultLogTail {
		t.Errorf("LogTail = %d, want %d", cfg.LogTail, DefaultLogTail)
	}
	if cfg.GuildID != "" || cfg.CategoryID != "" || cfg.DockerHost != "" || cfg.Socket != "" {
		t.Errorf("unexpected non-empty defaults: %+v", cfg)
	}
	if cfg.Token != "" {
		t.Errorf("Token = %q, want empty", cfg.Token)
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv(TokenEnv, "")

	cfg, err := Load(writeConfig(t, `
guild_id = "1296093968579821570"
category_id = "1296094023810241517"
docker_host = "unix:///run/docker.sock"
interval = "2m"
log_tail = 15
socket = "/tmp/ddstatus.sock"
`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.GuildID != "1296093968579821570" {
		t.Errorf("GuildID = %q", cfg.GuildID)
	}
	if cfg.CategoryID != "1296094023810241517" {
		t.Errorf("CategoryID = %q", cfg.CategoryID)
	}
	if cfg.DockerHost != "unix:///run/docker.sock" {
		t.Errorf("DockerHost = %q", cfg.DockerHost)
	}
	if cfg.Interval != 2*time.Minute {
		t.Errorf("Interval = %v, want 2m", cfg.Interval)
	}
	if cfg.LogTail != 15 {
		t.Errorf("LogTail = %d, want 15", cfg.LogTail)
	}
	if cfg.Socket != "/tmp/ddstatus.sock" {
		t.Errorf("Socket = %q", cfg.Socket)
	}
}

func TestLoadTokenFromEnvOnly(t *testing.T) {
	t.Setenv(TokenEnv, "hunter2")

	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Token != "hunter2" {
		t.Errorf("Token = %q, want hunter2", cfg.Token)
	}

	// A token key in the file is an unknown key, not a second source.
	if _, err := Load(writeConfig(t, `token = "leaked"`)); !errors.Is(err, ErrConfig) {
		t.Fatalf("Load() error = %v, want ErrConfig for token in file", err)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeConfig(t, `gild_id = "123"`))
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("Load() error = %v, want ErrConfig", err)
	}
}

func TestLoadMalformedInterval(t *testing.T) {
	_, err := Load(writeConfig(t, `interval = "soon"`))
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("Load() error = %v, want ErrConfig", err)
	}
	if !strings.Contains(err.Error(), "soon") {
		t.Errorf("error %q does not name the bad value", err)
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("Load() error = %v, want ErrConfig", err)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		GuildID:    "1296093968579821570",
		CategoryID: "1296094023810241517",
		Interval:   30 * time.Second,
		LogTail:    40,
		Token:      "token",
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{
			name:   "complete",
			mutate: func(c *Config) {},
			valid:  true,
		},
		{
			name:   "missing token",
			mutate: func(c *Config) { c.Token = "" },
		},
		{
			name:   "missing guild",
			mutate: func(c *Config) { c.GuildID = "" },
		},
		{
			name:   "guild not numeric",
			mutate: func(c *Config) { c.GuildID = "general" },
		},
		{
			name:   "missing category",
			mutate: func(c *Config) { c.CategoryID = "" },
		},
		{
			name:   "category not numeric",
			mutate: func(c *Config) { c.CategoryID = "-5" },
		},
		{
			name:   "interval below floor",
			mutate: func(c *Config) { c.Interval = 500 * time.Millisecond },
		},
		{
			name:   "zero log tail",
			mutate: func(c *Config) { c.LogTail = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.valid && err != nil {
				t.Fatalf("Validate() error = %v, want nil", err)
			}
			if !tt.valid && !errors.Is(err, ErrConfig) {
				t.Fatalf("Validate() error = %v, want ErrConfig", err)
			}
		})
	}
}
