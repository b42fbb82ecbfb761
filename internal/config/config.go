package config

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const (
	DataSourceFile     = "file"
	DataSourcePostgres = "postgres"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`
	DBSource      string `mapstructure:"DB_SOURCE"`
	DataSource    string `mapstructure:"DATA_SOURCE"`
	DataDir       string `mapstructure:"DATA_DIR"`
	LogLevel      string `mapstructure:"LOG_LEVEL"`
	GinMode       string `mapstructure:"GIN_MODE"`
}

var defaults = map[string]string{
	"SERVER_ADDRESS": "0.0.0.0:8080",
	"DB_SOURCE":      "",
	"DATA_SOURCE":    DataSourceFile,
	"DATA_DIR":       "./data",
	"LOG_LEVEL":      "info",
	"GIN_MODE":       "release",
}

// LoadConfig reads app.env from path, overridden by environment variables.
// A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("config: failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate checks that the selected data source is usable.
func (c Config) Validate() error {
	switch c.DataSource {
	case DataSourceFile:
		if c.DataDir == "" {
			return errors.New("config: DATA_DIR is required for the file data source")
		}
	case DataSourcePostgres:
		if c.DBSource == "" {
			return errors.New("config: DB_SOURCE is required for the postgres data source")
		}
	default:
		return fmt.Errorf("config: unknown DATA_SOURCE %q", c.DataSource)
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: invalid LOG_LEVEL: %w", err)
	}
	return nil
}

// Level returns the configured log level.
func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
