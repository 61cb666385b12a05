package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rustyeddy/tradejournal/analysis"
	"github.com/rustyeddy/tradejournal/journal"
	"gopkg.in/yaml.v3"
)

// Config is the complete journal configuration
type Config struct {
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Analysis AnalysisConfig `json:"analysis" yaml:"analysis"`
	// TimeZone is the IANA zone used for trade dates and day filters.
	TimeZone string `json:"location,omitempty" yaml:"location,omitempty"`
}

// JournalConfig selects where the snapshot is persisted
type JournalConfig struct {
	Type     string `json:"type" yaml:"type"` // "sqlite" or "file"
	DBPath   string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	FilePath string `json:"file_path,omitempty" yaml:"file_path,omitempty"`
	Key      string `json:"key,omitempty" yaml:"key,omitempty"`
}

// AnalysisConfig contains the AI reviewer settings
type AnalysisConfig struct {
	Enabled    bool   `json:"enabled" yaml:"enabled"`
	Model      string `json:"model,omitempty" yaml:"model,omitempty"`
	Endpoint   string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	APIKeyEnv  string `json:"api_key_env,omitempty" yaml:"api_key_env,omitempty"`
	APIKeyFile string `json:"api_key_file,omitempty" yaml:"api_key_file,omitempty"`
	Timeout    string `json:"timeout,omitempty" yaml:"timeout,omitempty"` // e.g. "60s"
}

// LoadFromFile loads configuration from a file (YAML, falling back to JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Journal.Type {
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for sqlite type")
		}
	case "file":
		if c.Journal.FilePath == "" {
			return fmt.Errorf("journal file_path required for file type")
		}
	default:
		return fmt.Errorf("journal.type must be 'sqlite' or 'file'")
	}
	if c.Analysis.Timeout != "" {
		d, err := time.ParseDuration(c.Analysis.Timeout)
		if err != nil {
			return fmt.Errorf("analysis.timeout: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("analysis.timeout must not be negative")
		}
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Timeout returns the analysis timeout, zero when unset.
func (c *Config) Timeout() time.Duration {
	d, _ := time.ParseDuration(c.Analysis.Timeout)
	return d
}

// Location resolves the configured time zone; empty or "Local" is the
// system zone.
func (c *Config) Location() (*time.Location, error) {
	if c.TimeZone == "" || c.TimeZone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("location: %w", err)
	}
	return loc, nil
}

// APIKey looks up the Gemini key: the configured env var, then
// GOOGLE_API_KEY, then API_KEY, then the key file.
func (c *Config) APIKey() string {
	for _, env := range []string{c.Analysis.APIKeyEnv, "GOOGLE_API_KEY", "API_KEY"} {
		if env == "" {
			continue
		}
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v
		}
	}
	if c.Analysis.APIKeyFile != "" {
		if data, err := os.ReadFile(c.Analysis.APIKeyFile); err == nil {
			return strings.TrimSpace(string(data))
		}
	}
	return ""
}

// OpenStore opens the configured snapshot backend.
func (c *Config) OpenStore() (journal.SnapshotStore, error) {
	switch c.Journal.Type {
	case "file":
		return journal.NewFileStore(c.Journal.FilePath)
	case "sqlite":
		return journal.NewSQLite(c.Journal.DBPath, c.Journal.Key)
	}
	return nil, fmt.Errorf("unknown journal type %q", c.Journal.Type)
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./tradejournal.sqlite",
			Key:    journal.DefaultKey,
		},
		Analysis: AnalysisConfig{
			Enabled:   true,
			Model:     analysis.DefaultGeminiModel,
			Endpoint:  analysis.DefaultGeminiEndpoint,
			APIKeyEnv: "GOOGLE_API_KEY",
			Timeout:   "60s",
		},
		TimeZone: "Local",
	}
}
