package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultEndpoint = "http://localhost:8000/api"
	DefaultUserID   = 1
	DefaultLogDir   = "logs"
)

// Config holds application configuration
type Config struct {
	Endpoint string `yaml:"endpoint"` // Base URL of the chat service, without the /message suffix
	UserID   int    `yaml:"user_id"`  // Placeholder identity sent with every message
	Debug    bool   `yaml:"debug"`
	LogDir   string `yaml:"log_dir"`

	// Zero means the request waits for the transport to settle.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	Markdown     bool   `yaml:"markdown"`      // Render assistant replies as markdown
	TranscriptDB string `yaml:"transcript_db"` // Optional SQLite archive; empty disables it
}

// Default returns the configuration used when no file or flags override it.
func Default() Config {
	return Config{
		Endpoint: DefaultEndpoint,
		UserID:   DefaultUserID,
		LogDir:   DefaultLogDir,
	}
}

// Load reads a YAML file on top of the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Validate reports the first setting that cannot work.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return errors.New("endpoint must not be empty")
	}
	if c.UserID <= 0 {
		return fmt.Errorf("user_id must be positive, got %d", c.UserID)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative, got %s", c.RequestTimeout)
	}
	return nil
}
