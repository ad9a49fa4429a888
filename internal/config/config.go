package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system path overrides. Empty values fall back to
// the executable-relative layout resolved by GetPaths.
type PathsConfig struct {
	DataDir            string `yaml:"data_dir" envconfig:"DATA_DIR"`
	ProcessedDir       string `yaml:"processed_dir" envconfig:"PROCESSED_DIR"`
	FlowsFile          string `yaml:"flows_file" envconfig:"FLOWS_FILE"`
	ClassificationFile string `yaml:"classification_file" envconfig:"CLASSIFICATION_FILE"`
}

// PipelineConfig contains tunables for the aggregation catalog
type PipelineConfig struct {
	TopCorridors    int `yaml:"top_corridors" envconfig:"TOP_CORRIDORS"`
	ShortWindow     int `yaml:"short_window" envconfig:"SHORT_WINDOW"`
	LongWindow      int `yaml:"long_window" envconfig:"LONG_WINDOW"`
	TrendWindow     int `yaml:"trend_window" envconfig:"TREND_WINDOW"`
	MinObservations int `yaml:"min_observations" envconfig:"MIN_OBSERVATIONS"`
}

// defaultConfig returns the built-in configuration defaults
func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Pipeline: PipelineConfig{
			TopCorridors:    100,
			ShortWindow:     3,
			LongWindow:      6,
			TrendWindow:     12,
			MinObservations: 6,
		},
	}
}

// Load loads configuration with precedence: defaults, then config file,
// then environment variables prefixed MIGFLOW.
func Load() (*Config, error) {
	cfg := defaultConfig()

	// Overlay config file if it exists
	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		if err := loadFromFile(configFile, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Environment variables take precedence over everything
	if err := envconfig.Process("MIGFLOW", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile overlays configuration from a YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

// validate checks configuration invariants
func (c *Config) validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}

	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		return fmt.Errorf("invalid logging output: %s", c.Logging.Output)
	}

	if c.Pipeline.TopCorridors <= 0 {
		return fmt.Errorf("top_corridors must be positive, got %d", c.Pipeline.TopCorridors)
	}
	if c.Pipeline.ShortWindow <= 0 || c.Pipeline.LongWindow < c.Pipeline.ShortWindow {
		return fmt.Errorf("invalid rolling windows: short=%d long=%d",
			c.Pipeline.ShortWindow, c.Pipeline.LongWindow)
	}
	if c.Pipeline.MinObservations < c.Pipeline.LongWindow {
		return fmt.Errorf("min_observations %d must cover the long window %d",
			c.Pipeline.MinObservations, c.Pipeline.LongWindow)
	}
	if c.Pipeline.TrendWindow < c.Pipeline.MinObservations {
		return fmt.Errorf("trend_window %d must be at least min_observations %d",
			c.Pipeline.TrendWindow, c.Pipeline.MinObservations)
	}

	return nil
}

// getConfigFilePath returns the path to the configuration file
func getConfigFilePath() string {
	// Check environment variable first
	if path := os.Getenv("MIGFLOW_CONFIG_PATH"); path != "" {
		return path
	}

	// Look next to the executable, matching the deployment layout
	if exe, err := os.Executable(); err == nil {
		return filepath.Join(filepath.Dir(exe), "config.yaml")
	}

	return "config.yaml"
}

// ApplyOverrides resolves configured path overrides onto the executable-relative
// path set. Relative overrides are resolved against the executable directory.
func (p *Paths) ApplyOverrides(pc PathsConfig) {
	resolve := func(path string) string {
		if filepath.IsAbs(path) {
			return path
		}
		return filepath.Join(p.ExecutableDir, path)
	}

	if pc.DataDir != "" {
		p.DataDir = resolve(pc.DataDir)
	}
	if pc.ProcessedDir != "" {
		p.ProcessedDir = resolve(pc.ProcessedDir)
		p.DBReadyCSV = filepath.Join(p.ProcessedDir, "international_migration_flow_db_ready.csv")
	}
	if pc.FlowsFile != "" {
		p.FlowsCSV = resolve(pc.FlowsFile)
	}
	if pc.ClassificationFile != "" {
		p.ClassificationCSV = resolve(pc.ClassificationFile)
	}
}
