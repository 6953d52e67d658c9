package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	internal "github.com/ZanzyTHEbar/jumble-solver/jumble"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	WordList string       `mapstructure:"wordList"`
	Solver   SolverConfig `mapstructure:"solver"`
	Server   ServerConfig `mapstructure:"server"`
	Log      LogConfig    `mapstructure:"log"`
}

// SolverConfig stores resolver tuning.
type SolverConfig struct {
	MinLength      int `mapstructure:"minLength"`
	Workers        int `mapstructure:"workers"`
	TimeoutSeconds int `mapstructure:"timeoutSeconds"`
}

// ServerConfig stores HTTP service settings.
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// LogConfig stores logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Timeout returns the per-solve deadline, zero meaning none.
func (s SolverConfig) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

var AppConfig Config

// LoadConfig reads configuration from file or environment variables.
// An explicit configPath must exist; otherwise a missing file just means defaults.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("..")
		v.AddConfigPath(filepath.Join("/etc", internal.DefaultAppName))
		v.AddConfigPath(internal.DefaultConfigPath)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetDefault("wordList", internal.DefaultWordList)
	v.SetDefault("solver.minLength", internal.DefaultMinLength)
	v.SetDefault("solver.workers", 0)
	v.SetDefault("solver.timeoutSeconds", internal.DefaultTimeoutSeconds)
	v.SetDefault("server.address", internal.DefaultServerAddress)
	v.SetDefault("log.level", internal.DefaultLogLevel)

	// JUMBLE_SOLVER_MINLENGTH overrides solver.minLength and so on
	v.SetEnvPrefix(internal.DefaultEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if cfg.Solver.MinLength < 1 {
		return nil, fmt.Errorf("solver.minLength must be at least 1, got %d", cfg.Solver.MinLength)
	}
	if cfg.Solver.Workers < 0 {
		return nil, fmt.Errorf("solver.workers cannot be negative, got %d", cfg.Solver.Workers)
	}

	AppConfig = cfg
	return &AppConfig, nil
}
