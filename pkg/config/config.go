package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// envPrefix is prepended to every environment variable the tool reads
const envPrefix = "IMDBRATINGS_"

// Config holds all configuration options for the ratings exporter
type Config struct {
	// Session and authentication settings
	Session SessionConfig `yaml:"session" json:"session"`

	// Download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// SessionConfig holds the HTTP session configuration
type SessionConfig struct {
	CookiesFile string        `yaml:"cookies_file" json:"cookies_file"`
	Account     string        `yaml:"account" json:"account"`
	UserAgent   string        `yaml:"user_agent" json:"user_agent"`
	BaseURL     string        `yaml:"base_url" json:"base_url"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout"`
}

// DownloadConfig holds the retry-pass settings
type DownloadConfig struct {
	Threads   int  `yaml:"threads" json:"threads"`
	Retries   int  `yaml:"retries" json:"retries"`
	Overwrite bool `yaml:"overwrite" json:"overwrite"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	Directory string `yaml:"directory" json:"directory"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `yaml:"level" json:"level"`
	File    string `yaml:"file" json:"file"`
	Console bool   `yaml:"console" json:"console"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Session: SessionConfig{
			UserAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
			BaseURL:   "http://www.imdb.com",
			Timeout:   60 * time.Second,
		},
		Download: DownloadConfig{
			Threads:   3,
			Retries:   100,
			Overwrite: false,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "output.log",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	if v := os.Getenv(envPrefix + "COOKIES_FILE"); v != "" {
		c.Session.CookiesFile = v
	}
	if v := os.Getenv(envPrefix + "ACCOUNT"); v != "" {
		c.Session.Account = v
	}
	if v := os.Getenv(envPrefix + "USER_AGENT"); v != "" {
		c.Session.UserAgent = v
	}
	if v := os.Getenv(envPrefix + "BASE_URL"); v != "" {
		c.Session.BaseURL = v
	}
	if v := os.Getenv(envPrefix + "TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sTIMEOUT: %w", envPrefix, err))
		} else {
			c.Session.Timeout = d
		}
	}

	if v := os.Getenv(envPrefix + "THREADS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sTHREADS: %w", envPrefix, err))
		} else {
			c.Download.Threads = n
		}
	}
	if v := os.Getenv(envPrefix + "RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sRETRIES: %w", envPrefix, err))
		} else {
			c.Download.Retries = n
		}
	}
	if v := os.Getenv(envPrefix + "OVERWRITE"); v != "" {
		c.Download.Overwrite = strings.ToLower(v) == "true"
	}

	if v := os.Getenv(envPrefix + "OUTPUT_DIR"); v != "" {
		c.Output.Directory = v
	}

	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(envPrefix + "LOG_FILE"); v != "" {
		c.Logging.File = v
	}

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".imdbratings.yaml",
		".imdbratings.yml",
		filepath.Join(home, ".config", "imdbratings", "config.yaml"),
		filepath.Join(home, ".config", "imdbratings", "config.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Download.Threads < 1 {
		errs = append(errs, errors.New("threads must be at least 1"))
	}
	if c.Download.Retries < 0 {
		errs = append(errs, errors.New("retries cannot be negative"))
	}
	if c.Session.Timeout <= 0 {
		errs = append(errs, errors.New("timeout must be positive"))
	}
	if c.Session.BaseURL == "" {
		errs = append(errs, errors.New("base URL is required"))
	}
	if c.Output.Directory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("invalid log level: %q", c.Logging.Level))
	}

	return errors.Join(errs...)
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Only keys present in flags override; callers add a key when the flag was set.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if v, ok := flags["cookies"].(string); ok && v != "" {
		c.Session.CookiesFile = v
	}
	if v, ok := flags["account"].(string); ok && v != "" {
		c.Session.Account = v
	}
	if v, ok := flags["timeout"].(time.Duration); ok {
		c.Session.Timeout = v
	}
	if v, ok := flags["threads"].(int); ok {
		c.Download.Threads = v
	}
	if v, ok := flags["retries"].(int); ok {
		c.Download.Retries = v
	}
	if v, ok := flags["overwrite"].(bool); ok {
		c.Download.Overwrite = v
	}
	if v, ok := flags["output"].(string); ok && v != "" {
		c.Output.Directory = v
	}
	if v, ok := flags["log-level"].(string); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := flags["log-file"].(string); ok {
		c.Logging.File = v
	}
	if v, ok := flags["log-console"].(bool); ok {
		c.Logging.Console = v
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Missing .env files are fine; godotenv never overrides variables already set
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".imdbratings.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
