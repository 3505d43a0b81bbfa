package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings
const (
	EnvCatalog   = "VOCALIS_CATALOG"
	EnvDBPath    = "VOCALIS_DB_PATH"
	EnvLogLevel  = "VOCALIS_LOG_LEVEL"
	EnvThreshold = "VOCALIS_THRESHOLD"
	EnvHistory   = "VOCALIS_HISTORY"
	EnvJourney   = "VOCALIS_JOURNEY"
)

// Config represents the application configuration
type Config struct {
	CatalogPath    string     `yaml:"catalog_path,omitempty"`
	DBPath         string     `yaml:"db_path"`
	JourneyPath    string     `yaml:"journey_path"`
	HistoryEnabled bool       `yaml:"history_enabled"`
	JourneyEnabled bool       `yaml:"journey_enabled"`
	ColorOutput    bool       `yaml:"color_output"`
	LogLevel       string     `yaml:"log_level"`
	Thresholds     Thresholds `yaml:"thresholds"`
}

// Thresholds holds confidence thresholds for intent classification
type Thresholds struct {
	Classify float64 `yaml:"classify"`
}

// Default returns the default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		CatalogPath:    "",
		DBPath:         filepath.Join(homeDir, ".vocalis", "vocalis.db"),
		JourneyPath:    filepath.Join(homeDir, ".vocalis", "journey.jsonl"),
		HistoryEnabled: true,
		JourneyEnabled: false,
		ColorOutput:    true,
		LogLevel:       "info",
		Thresholds: Thresholds{
			Classify: 0.1,
		},
	}
}

// Load reads configuration from file, creating with defaults if it doesn't exist
func Load(path string) (*Config, error) {
	// If file doesn't exist, create it with defaults
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		if err := cfg.Save(path); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default() // Start with defaults
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv loads an optional .env file and applies environment overrides.
// A missing env file is not an error.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("failed to load env file %s: %w", envFile, err)
			}
		}
	}

	if v, ok := os.LookupEnv(EnvCatalog); ok {
		c.CatalogPath = v
	}
	if v, ok := os.LookupEnv(EnvDBPath); ok && v != "" {
		c.DBPath = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvThreshold); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvThreshold, err)
		}
		c.Thresholds.Classify = f
	}
	if v, ok := os.LookupEnv(EnvHistory); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvHistory, err)
		}
		c.HistoryEnabled = b
	}
	if v, ok := os.LookupEnv(EnvJourney); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvJourney, err)
		}
		c.JourneyEnabled = b
	}
	return nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Thresholds.Classify < 0 || c.Thresholds.Classify >= 1 {
		return fmt.Errorf("thresholds.classify must be in [0,1), got %v", c.Thresholds.Classify)
	}
	if c.HistoryEnabled && c.DBPath == "" {
		return fmt.Errorf("db_path is required when history is enabled")
	}
	if c.JourneyEnabled && c.JourneyPath == "" {
		return fmt.Errorf("journey_path is required when journey logging is enabled")
	}
	return nil
}

// GetConfigPath returns the default config file path
func GetConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".vocalis", "config.yaml")
}

// GetEnvPath returns the default .env path next to the config file
func GetEnvPath() string {
	return filepath.Join(filepath.Dir(GetConfigPath()), ".env")
}
