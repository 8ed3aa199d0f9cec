package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/Raspitainment/discord-docker-status/internal/paths"
)

var (
	ErrConfig = errors.New("invalid configuration")
)

const (

	// Environment variable the Discord credential is read from. The token
	// is never stored in the configuration file.
	TokenEnv = "DISCORD_TOKEN"

	// Default time between reconcile passes.
	DefaultInterval = 30 * time.Second

	// Default number of log lines shown per container.
	DefaultLogTail = 40
)

// Resolved daemon configuration.
//
// Values are layered: built-in defaults, then the TOML configuration file,
// then the environment. The Discord credential comes exclusively from the
// DISCORD_TOKEN environment variable; it is never read from the file.
type Config struct {
	GuildID    string        // Discord guild the mirror lives in.
	CategoryID string        // Category channel the mirror channels are created under.
	DockerHost string        // Docker Engine address. Empty uses the SDK defaults.
	Interval   time.Duration // Time between reconcile passes.
	LogTail    int           // Log lines shown per container.
	Socket     string        // Control socket path override. Empty uses the default.
	Token      string        // Discord bot token, from the environment.
}

// On-disk form of the configuration. Interval is a duration string such as
// "30s" or "2m". Pointer fields distinguish "unset" from an explicit zero,
// which validation should see and reject.
type fileConfig struct {
	GuildID    string    `toml:"guild_id"`
	CategoryID string    `toml:"category_id"`
	DockerHost string    `toml:"docker_host"`
	Interval   *duration `toml:"interval"`
	LogTail    *int      `toml:"log_tail"`
	Socket     string    `toml:"socket"`
}

// TOML duration field parsed with [time.ParseDuration].
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(v)
	return nil
}

// Reads the configuration.
//
// Defaults are applied first, then the TOML file, then the environment.
// When path is empty the default location is used and a missing file is not
// an error; an explicitly given path must exist.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Interval: DefaultInterval,
		LogTail:  DefaultLogTail,
	}

	explicit := path != ""
	if path == "" {
		path = paths.ConfigFile()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := cfg.merge(data); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrConfig, path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// Nothing to read; every value has a default or comes from the
		// environment.
	default:
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	cfg.Token = os.Getenv(TokenEnv)

	return cfg, nil
}

// Overlays values from TOML data onto the config.
//
// Unknown keys are rejected so that a typo fails loudly instead of silently
// leaving a default in place.
func (c *Config) merge(data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var f fileConfig
	if err := dec.Decode(&f); err != nil {
		return err
	}

	if f.GuildID != "" {
		c.GuildID = f.GuildID
	}
	if f.CategoryID != "" {
		c.CategoryID = f.CategoryID
	}
	if f.DockerHost != "" {
		c.DockerHost = f.DockerHost
	}
	if f.Interval != nil {
		c.Interval = time.Duration(*f.Interval)
	}
	if f.LogTail != nil {
		c.LogTail = *f.LogTail
	}
	if f.Socket != "" {
		c.Socket = f.Socket
	}

	return nil
}

// Checks that the configuration is complete enough to start the daemon.
//
// The guild and category IDs must be Discord snowflakes. Interval and
// LogTail are bounded below so a typo cannot turn the mirror into a request
// flood.
func (c *Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("%w: %s is not set", ErrConfig, TokenEnv)
	}
	if err := validateSnowflake("guild_id", c.GuildID); err != nil {
		return err
	}
	if err := validateSnowflake("category_id", c.CategoryID); err != nil {
		return err
	}
	if c.Interval < time.Second {
		return fmt.Errorf("%w: interval %s is below 1s", ErrConfig, c.Interval)
	}
	if c.LogTail < 1 {
		return fmt.Errorf("%w: log_tail must be at least 1", ErrConfig)
	}
	return nil
}

// Checks that a Discord ID is present and numeric.
func validateSnowflake(key, id string) error {
	if id == "" {
		return fmt.Errorf("%w: %s is not set", ErrConfig, key)
	}
	if _, err := strconv.ParseUint(id, 10, 64); err != nil {
		return fmt.Errorf("%w: %s %q is not a Discord ID", ErrConfig, key, id)
	}
	return nil
}
