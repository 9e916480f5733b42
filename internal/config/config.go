// Package config loads phishunt settings from defaults, an optional YAML file,
// a .env file and PHISHUNT_* environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"phishunt/internal/models"
)

// DefaultDatasetPath is where the dataset lives relative to the working directory.
const DefaultDatasetPath = "./data/data.csv"

// DefaultFile is read by Load when no explicit path is given and it exists.
const DefaultFile = "phishunt.yaml"

type Config struct {
	Dataset  DatasetConfig  `yaml:"dataset"`
	Training TrainingConfig `yaml:"training"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

type DatasetConfig struct {
	Path string `yaml:"path"`
}

type TrainingConfig struct {
	// TestSize is the holdout fraction, strictly between 0 and 1.
	TestSize float64 `yaml:"test_size"`

	// SplitSeed fixes the train/holdout partition.
	SplitSeed int64 `yaml:"split_seed"`

	// ShuffleSeed seeds the row shuffle before vectorizing. Zero seeds from the clock.
	ShuffleSeed int64 `yaml:"shuffle_seed"`

	Stratify bool `yaml:"stratify"`

	Model models.ModelConfig `yaml:"model"`
}

type LoggingConfig struct {
	// Level is "info" (default), "trace", "debug", "warn" or "error".
	Level string `yaml:"level"`
}

type MetricsConfig struct {
	// File, when set, receives a Prometheus textfile after each training run.
	File string `yaml:"file"`
}

func Default() *Config {
	return &Config{
		Dataset: DatasetConfig{
			Path: DefaultDatasetPath,
		},
		Training: TrainingConfig{
			TestSize:  0.2,
			SplitSeed: 42,
			Model:     models.DefaultConfig("logistic"),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the effective configuration. An explicit path must exist; without
// one, DefaultFile is used when present.
func Load(path string) (*Config, error) {
	config := Default()

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}

	if path != "" {
		fileConfig, err := LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
		config = fileConfig
	}

	// A missing .env file is normal.
	_ = godotenv.Load()

	if err := applyEnvOverrides(config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return config, nil
}

func (c *Config) Validate() error {
	if c.Dataset.Path == "" {
		return fmt.Errorf("dataset path must not be empty")
	}

	if c.Training.TestSize <= 0 || c.Training.TestSize >= 1 {
		return fmt.Errorf("test_size must be between 0 and 1, got %f", c.Training.TestSize)
	}

	validAlgorithms := map[string]bool{"": true, "logistic": true, "bayes": true}
	if !validAlgorithms[c.Training.Model.Algorithm] {
		return fmt.Errorf("invalid algorithm: %s (valid: logistic, bayes)", c.Training.Model.Algorithm)
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true, "warn": true, "error": true}
	if c.Logging.Level != "" && !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s (valid: trace, debug, info, warn, error, or empty for default)", c.Logging.Level)
	}

	return nil
}

func applyEnvOverrides(config *Config) error {
	if v := os.Getenv("PHISHUNT_DATASET"); v != "" {
		config.Dataset.Path = v
	}

	if v := os.Getenv("PHISHUNT_TEST_SIZE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("PHISHUNT_TEST_SIZE: %w", err)
		}
		config.Training.TestSize = f
	}

	if v := os.Getenv("PHISHUNT_SPLIT_SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("PHISHUNT_SPLIT_SEED: %w", err)
		}
		config.Training.SplitSeed = n
	}

	if v := os.Getenv("PHISHUNT_SHUFFLE_SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("PHISHUNT_SHUFFLE_SEED: %w", err)
		}
		config.Training.ShuffleSeed = n
	}

	if v := os.Getenv("PHISHUNT_ALGORITHM"); v != "" {
		config.Training.Model.Algorithm = v
	}

	if v := os.Getenv("PHISHUNT_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}

	if v := os.Getenv("PHISHUNT_METRICS_FILE"); v != "" {
		config.Metrics.File = v
	}

	return nil
}
