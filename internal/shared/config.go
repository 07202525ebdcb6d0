package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"time"

	"github.com/BurntSushi/toml"
)

// PasswordEnv overrides [ServerConfig.Password] when set.
const PasswordEnv = "SONIX_PASSWORD"

// ExportFormats lists the formats accepted by [ExportConfig.Format].
var ExportFormats = []string{"json", "yaml", "csv", "markdown", "txt"}

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Export   ExportConfig   `toml:"export"`
}

// ServerConfig describes the Subsonic server and the account used against it.
type ServerConfig struct {
	URL            string `toml:"url"`
	Username       string `toml:"username"`
	Password       string `toml:"password"`
	Client         string `toml:"client"`
	APIVersion     string `toml:"api_version"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	LegacyAuth     bool   `toml:"legacy_auth"`
}

// Timeout returns the HTTP timeout, or zero for none.
func (s ServerConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ExportConfig contains defaults for the export command.
type ExportConfig struct {
	Format    string  `toml:"format"`
	OutputDir string  `toml:"output_dir"`
	Workers   int     `toml:"workers"`
	RateLimit float64 `toml:"rate_limit"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if pw := os.Getenv(PasswordEnv); pw != "" {
		config.Server.Password = pw
	}
	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate reports every problem in the configuration at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.URL == "" {
		errs = append(errs, fmt.Errorf("%w: server.url is required", ErrInvalidConfig))
	} else if u, err := url.Parse(c.Server.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, fmt.Errorf("%w: server.url %q is not an http(s) url", ErrInvalidConfig, c.Server.URL))
	}
	if c.Server.Username == "" || c.Server.Password == "" {
		errs = append(errs, fmt.Errorf("%w: server.username and server.password (or %s)", ErrMissingCredentials, PasswordEnv))
	}
	if c.Server.TimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("%w: server.timeout_seconds must not be negative", ErrInvalidConfig))
	}

	if !slices.Contains(ExportFormats, c.Export.Format) {
		errs = append(errs, fmt.Errorf("%w: export.format %q, want one of %v", ErrInvalidConfig, c.Export.Format, ExportFormats))
	}
	if c.Export.Workers < 1 {
		errs = append(errs, fmt.Errorf("%w: export.workers must be at least 1", ErrInvalidConfig))
	}
	if c.Export.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("%w: export.rate_limit must not be negative", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}
