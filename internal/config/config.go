package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Environment variables that override file values
const (
	EnvAPIKey    = "TRIEVE_API_KEY"
	EnvDatasetID = "TRIEVE_DATASET_ID"
	EnvBaseURL   = "TRIEVE_BASE_URL"
)

const (
	DefaultBaseURL    = "https://api.trieve.ai/api"
	DefaultDebounceMS = 10
)

// DefaultPresets are offered by the preset query helper
var DefaultPresets = []string{
	"Insert a code block",
	"component for a mermaid diagram",
	"Adding analytics with posthog",
	"How can I add support?",
	"Color scheme change for the website",
}

// ErrMissingCredentials is returned by Validate when the backend cannot be reached
var ErrMissingCredentials = errors.New("api key and dataset id are required")

// Config represents the application configuration
type Config struct {
	Version    int        `toml:"version"`
	BaseURL    string     `toml:"base_url"`
	APIKey     string     `toml:"api_key"`
	DatasetID  string     `toml:"dataset_id"`
	DebounceMS int        `toml:"debounce_ms"`
	StateFile  string     `toml:"state_file,omitempty"`
	LogFile    string     `toml:"log_file,omitempty"`
	Presets    []string   `toml:"presets"`
	UISettings UISettings `toml:"ui"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowLinks bool `toml:"show_links"`
}

// Debounce returns the quiescence window before a request is issued
func (c *Config) Debounce() time.Duration {
	if c.DebounceMS <= 0 {
		return DefaultDebounceMS * time.Millisecond
	}
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// Validate checks that the backend credentials are present
func (c *Config) Validate() error {
	if c.APIKey == "" || c.DatasetID == "" {
		return fmt.Errorf("%w (set %s and %s or edit the config file)", ErrMissingCredentials, EnvAPIKey, EnvDatasetID)
	}
	return nil
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	filePath string
}

// NewConfigService creates a config service backed by the user config directory
func NewConfigService() ConfigService {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}

	return &configService{
		filePath: filepath.Join(configDir, "hybridsearch", "config.toml"),
	}
}

// NewConfigServiceAt creates a config service for an explicit file
func NewConfigServiceAt(path string) ConfigService {
	return &configService{filePath: path}
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration, writing the defaults if no file exists yet
func (cs *configService) Load() (*Config, error) {
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := cs.Save(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return cs.LoadFromPath(cs.filePath)
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// LoadFromPath loads configuration from a specific path
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if len(cfg.Presets) == 0 {
		cfg.Presets = append([]string(nil), DefaultPresets...)
	}

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// The file may hold an api key
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnv reads KEY=VALUE files into the process environment.
// Missing files are skipped; variables already set are kept.
func LoadEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides file values with environment variables
func ApplyEnv(cfg *Config) {
	if v := os.Getenv(EnvAPIKey); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv(EnvDatasetID); v != "" {
		cfg.DatasetID = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:    1,
		BaseURL:    DefaultBaseURL,
		DebounceMS: DefaultDebounceMS,
		Presets:    append([]string(nil), DefaultPresets...),
		UISettings: UISettings{
			ShowLinks: true,
		},
	}
}
