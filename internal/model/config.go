package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// AppConfig is the top-level application configuration.
type AppConfig struct {
	// DataDir is where both backends keep their files: the SQLite
	// database and the flat JSON collections.
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`

	// Database is the SQLite filename inside DataDir.
	Database string `mapstructure:"database" yaml:"database"`

	// FeedingIntervalHours is the default next-feeding interval applied
	// when a feeding does not carry one.
	FeedingIntervalHours float64 `mapstructure:"feeding_interval_hours" yaml:"feeding_interval_hours"`

	// Timezone is the IANA zone stamped onto new records when the user
	// has not configured one in settings.
	Timezone string `mapstructure:"timezone" yaml:"timezone"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/babytrack/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "babytrack", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	dataDir := filepath.Join(".", "babytrack")
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".local", "share", "babytrack")
	}
	return &AppConfig{
		DataDir:              dataDir,
		Database:             "babytrack.db",
		FeedingIntervalHours: DefaultFeedingIntervalHours,
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	defaults := defaultAppConfig()
	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("database", defaults.Database)
	v.SetDefault("feeding_interval_hours", defaults.FeedingIntervalHours)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaults, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaults
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// DatabasePath returns the full path of the SQLite database file.
func (c *AppConfig) DatabasePath() string {
	return filepath.Join(c.DataDir, c.Database)
}

// FlatDir returns the directory holding the flat JSON collections.
func (c *AppConfig) FlatDir() string {
	return filepath.Join(c.DataDir, "flat")
}
