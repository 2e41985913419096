package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/specialistvlad/vectorgrid/internal/sqlitestore"
	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	GraphPath   string   `yaml:"graph"`   // hcl file or directory
	RecordsPath string   `yaml:"records"` // JSON lines, "-" is stdin
	Indexes     []string `yaml:"indexes"` // empty means every index
	BatchSize   int      `yaml:"batch_size"`

	Store          string `yaml:"store"`
	StorePath      string `yaml:"store_path"`
	StorePrecision string `yaml:"store_precision"`

	LogFormat   string `yaml:"log_format"`
	LogLevel    string `yaml:"log_level"`
	MetricsPort int    `yaml:"metrics_port"`
}

// DefaultConfig returns the configuration used when neither a file nor a
// flag sets a value.
func DefaultConfig() Config {
	return Config{
		RecordsPath: "-",
		BatchSize:   256,
		Store:       StoreMemory,
		LogFormat:   "text",
		LogLevel:    "info",
	}
}

// LoadConfigFile decodes the YAML file at path over cfg. Keys missing from
// the file keep their current value.
func LoadConfigFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	return nil
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.GraphPath == "" {
		return nil, errors.New("GraphPath is a required configuration field and cannot be empty")
	}
	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", cfg.BatchSize)
	}
	switch cfg.Store {
	case StoreMemory:
	case StoreSQLite:
		if cfg.StorePath == "" {
			return nil, errors.New("the sqlite store needs a store path")
		}
	default:
		return nil, fmt.Errorf("invalid store %q: must be %q or %q", cfg.Store, StoreMemory, StoreSQLite)
	}
	if _, err := sqlitestore.ParsePrecision(cfg.StorePrecision); err != nil {
		return nil, err
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, errors.New("invalid log-format: must be 'text' or 'json'")
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, errors.New("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}
	return &cfg, nil
}
