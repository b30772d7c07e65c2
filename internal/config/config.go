// Package config manages the CLI configuration file at
// ~/.leonardo-cli/config.yaml: named API-key profiles plus defaults for
// generation and polling.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// APIKeyEnv overrides every profile when set
const APIKeyEnv = "LEONARDO_API_KEY"

const (
	configDirName  = ".leonardo-cli"
	configFileName = "config.yaml"
)

const (
	// MinImageSize is the smallest accepted image dimension
	MinImageSize = 32
	// MaxImageSize is the largest accepted image dimension
	MaxImageSize = 1536
	// MaxNumImages is the most images one generation may produce
	MaxNumImages = 8
)

var (
	// ErrProfileNotFound is returned for operations on a profile that
	// does not exist in the config file
	ErrProfileNotFound = errors.New("profile not found")

	// ErrNoAPIKey is returned when no API key can be resolved from the
	// environment or any profile
	ErrNoAPIKey = errors.New("no api key configured (run 'leonardo configure' or set LEONARDO_API_KEY)")
)

// Config represents the complete CLI configuration
type Config struct {
	ActiveProfile string             `yaml:"active_profile,omitempty"`
	Profiles      map[string]Profile `yaml:"profiles,omitempty"`
	Defaults      DefaultsConfig     `yaml:"defaults"`
	Logging       LoggingConfig      `yaml:"logging"`
}

// Profile holds the credentials of one named account
type Profile struct {
	APIKey string `yaml:"api_key"`
}

// DefaultsConfig holds default generation and polling parameters.
// Durations are whole seconds, matching the --timeout flag unit.
type DefaultsConfig struct {
	APIBaseURL           string `yaml:"api_base_url"`
	TimeoutSeconds       int    `yaml:"timeout_seconds"`
	MotionTimeoutSeconds int    `yaml:"motion_timeout_seconds"`
	PollIntervalSeconds  int    `yaml:"poll_interval_seconds"`
	ErrorBackoffSeconds  int    `yaml:"error_backoff_seconds"`
	OutputDir            string `yaml:"output_dir"`
	NumImages            int    `yaml:"num_images"`
	Width                int    `yaml:"width"`
	Height               int    `yaml:"height"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file exists yet
func Default() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			TimeoutSeconds:       120,
			MotionTimeoutSeconds: 300,
			PollIntervalSeconds:  3,
			ErrorBackoffSeconds:  5,
			OutputDir:            "./leonardo-output",
			NumImages:            1,
			Width:                512,
			Height:               512,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// DefaultPath returns the per-user config file location
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, configDirName, configFileName), nil
}

// Load reads and parses the configuration file. A missing file is not
// an error: it yields the defaults, the same as a first run.
func Load(configPath string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Save writes the configuration file, creating the directory on first
// use. The file holds API keys, so permissions stay owner-only.
func (c *Config) Save(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	d := c.Defaults

	if d.Width < MinImageSize || d.Width > MaxImageSize {
		return fmt.Errorf("invalid default width: %d (must be between %d and %d)", d.Width, MinImageSize, MaxImageSize)
	}

	if d.Height < MinImageSize || d.Height > MaxImageSize {
		return fmt.Errorf("invalid default height: %d (must be between %d and %d)", d.Height, MinImageSize, MaxImageSize)
	}

	if d.NumImages < 1 || d.NumImages > MaxNumImages {
		return fmt.Errorf("invalid default num_images: %d (must be between 1 and %d)", d.NumImages, MaxNumImages)
	}

	if d.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be greater than 0")
	}

	if d.MotionTimeoutSeconds <= 0 {
		return fmt.Errorf("motion_timeout_seconds must be greater than 0")
	}

	if d.PollIntervalSeconds <= 0 {
		return fmt.Errorf("poll_interval_seconds must be greater than 0")
	}

	if d.ErrorBackoffSeconds <= 0 {
		return fmt.Errorf("error_backoff_seconds must be greater than 0")
	}

	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("invalid logging format: %q (must be console or json)", c.Logging.Format)
	}

	return nil
}

// Timeout returns the default polling budget
func (d DefaultsConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutSeconds) * time.Second
}

// MotionTimeout returns the polling budget for motion video jobs
func (d DefaultsConfig) MotionTimeout() time.Duration {
	return time.Duration(d.MotionTimeoutSeconds) * time.Second
}

// PollInterval returns the pause between successful status checks
func (d DefaultsConfig) PollInterval() time.Duration {
	return time.Duration(d.PollIntervalSeconds) * time.Second
}

// ErrorBackoff returns the pause after a failed status check
func (d DefaultsConfig) ErrorBackoff() time.Duration {
	return time.Duration(d.ErrorBackoffSeconds) * time.Second
}

// ActiveName returns the active profile name, defaulting to "default"
func (c *Config) ActiveName() string {
	if c.ActiveProfile == "" {
		return "default"
	}
	return c.ActiveProfile
}

// SetProfile stores the API key under the named profile and makes it
// the active one
func (c *Config) SetProfile(name, apiKey string) {
	if c.Profiles == nil {
		c.Profiles = make(map[string]Profile)
	}
	c.Profiles[name] = Profile{APIKey: apiKey}
	c.ActiveProfile = name
}

// UseProfile switches the active profile
func (c *Config) UseProfile(name string) error {
	if _, ok := c.Profiles[name]; !ok {
		return fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}
	c.ActiveProfile = name
	return nil
}

// DeleteProfile removes a profile. Deleting the active profile promotes
// the alphabetically first remaining one.
func (c *Config) DeleteProfile(name string) error {
	if _, ok := c.Profiles[name]; !ok {
		return fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}

	delete(c.Profiles, name)

	if c.ActiveProfile == name {
		c.ActiveProfile = ""
		names := c.ProfileNames()
		if len(names) > 0 {
			c.ActiveProfile = names[0]
		}
	}

	return nil
}

// ProfileNames returns all profile names, sorted
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// APIKey resolves the key to use: the environment wins over config, a
// named profile wins over the active one.
func (c *Config) APIKey(profileName string) (string, error) {
	if key := os.Getenv(APIKeyEnv); key != "" {
		return key, nil
	}

	name := profileName
	if name == "" {
		name = c.ActiveName()
	}

	profile, ok := c.Profiles[name]
	if !ok || profile.APIKey == "" {
		return "", ErrNoAPIKey
	}

	return profile.APIKey, nil
}
