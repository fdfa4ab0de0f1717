package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jacksmith/dukepro/internal/log"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFile is the user configuration file looked up in the working directory.
	DefaultConfigFile = "dukepro.yaml"

	// Default configuration values
	DefaultDataDir             = "data"
	DefaultTaskFile            = "tasklist.txt"
	DefaultExpenseFile         = "expenselist.txt"
	DefaultLogLevel            = "warn"
	DefaultMaxDescriptionWidth = 0
)

// Environment variables that override the config file.
const (
	EnvDataDir  = "DUKEPRO_DATA_DIR"
	EnvLogLevel = "DUKEPRO_LOG_LEVEL"
)

// Config represents user configuration from dukepro.yaml.
// This file is user-managed and never written by dukepro.
type Config struct {
	// DataDir holds the task and expense files.
	DataDir string `yaml:"data_dir"`

	// TaskFile and ExpenseFile are file names inside DataDir.
	TaskFile    string `yaml:"task_file"`
	ExpenseFile string `yaml:"expense_file"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// MaxDescriptionWidth truncates descriptions in listings; 0 disables it.
	MaxDescriptionWidth int `yaml:"max_description_width"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		DataDir:             DefaultDataDir,
		TaskFile:            DefaultTaskFile,
		ExpenseFile:         DefaultExpenseFile,
		LogLevel:            DefaultLogLevel,
		MaxDescriptionWidth: DefaultMaxDescriptionWidth,
	}
}

// LoadConfig loads the config file at path if it exists, otherwise returns
// defaults. An empty path means DefaultConfigFile in the working directory.
// Partial config files are merged with defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return cfg, nil
}

// ApplyEnv overrides fields from the environment. getenv is usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.DataDir) == "" {
		problems = append(problems, "data_dir cannot be empty")
	}
	if strings.TrimSpace(c.TaskFile) == "" {
		problems = append(problems, "task_file cannot be empty")
	}
	if strings.TrimSpace(c.ExpenseFile) == "" {
		problems = append(problems, "expense_file cannot be empty")
	}
	if c.TaskFile != "" && c.TaskFile == c.ExpenseFile {
		problems = append(problems, "task_file and expense_file must differ")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, err.Error())
	}
	if c.MaxDescriptionWidth < 0 {
		problems = append(problems, fmt.Sprintf("max_description_width %d cannot be negative", c.MaxDescriptionWidth))
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}

// TaskPath returns the location of the task file.
func (c *Config) TaskPath() string {
	return filepath.Join(c.DataDir, c.TaskFile)
}

// ExpensePath returns the location of the expense file.
func (c *Config) ExpensePath() string {
	return filepath.Join(c.DataDir, c.ExpenseFile)
}
