// Package config manages configuration for the syncdeck CLI and tools.
// It uses Viper for unified configuration management from files and environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/syncdeck/syncdeck/internal/constants"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is the unified configuration for the CLI and the presence channels.
// It supports loading from a YAML file and environment variables.
type Config struct {
	// APIEndpoint is the base URL of the sync service HTTP API.
	APIEndpoint string `mapstructure:"api_endpoint" yaml:"api_endpoint" validate:"omitempty,url"`
	// APIKey authenticates the token request; treated as the signed-in credential.
	APIKey string `mapstructure:"api_key" yaml:"api_key"`
	// AccountEmail identifies the signed-in account; empty means signed out.
	AccountEmail string `mapstructure:"account_email" yaml:"account_email" validate:"omitempty,email"`
	// WebSocketEndpoint is the base URL of the presence WebSocket service
	// (ws:// or wss://). Defaults to the API endpoint with the scheme swapped.
	WebSocketEndpoint string `mapstructure:"websocket_endpoint" yaml:"websocket_endpoint"`
	// LogLevel is the slog level name (DEBUG, INFO, WARN, ERROR).
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	// ReconnectDelay is the fixed delay before a dropped channel retries.
	ReconnectDelay time.Duration `mapstructure:"reconnect_delay" yaml:"reconnect_delay"`
}

var validate = validator.New()

// Load loads the configuration using Viper.
// Reads ~/.syncdeck/config.yaml if present; SYNCDECK_-prefixed environment
// variables take precedence over config file values.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if err := loadConfigFile(v); err != nil {
		// A missing config file is acceptable; env vars may carry everything.
		if !os.IsNotExist(err) {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error loading config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(strings.ToUpper(constants.ProjectName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.WebSocketEndpoint == "" {
		cfg.WebSocketEndpoint = deriveWebSocketEndpoint(cfg.APIEndpoint)
	}

	return &cfg, nil
}

// Save saves the configuration to the user's home directory.
// Overwrites the existing config file if it exists.
func Save(config *Config) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("error getting home directory: %w", err)
	}

	configDir := constants.ConfigDirPath(homeDir)

	if err = os.MkdirAll(configDir, constants.ConfigDirPermissions); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	configFilePath := filepath.Join(configDir, constants.ConfigFileName)

	v := viper.New()
	v.Set("api_endpoint", config.APIEndpoint)
	v.Set("api_key", config.APIKey)
	v.Set("account_email", config.AccountEmail)
	v.Set("websocket_endpoint", config.WebSocketEndpoint)

	if err = v.WriteConfigAs(configFilePath); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	if err = os.Chmod(configFilePath, constants.ConfigFilePermissions); err != nil {
		return fmt.Errorf("error setting config file permissions: %w", err)
	}

	return nil
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error getting home directory: %w", err)
	}

	return constants.ConfigFilePath(homeDir), nil
}

// GetLogLevel returns the slog.Level from the string configuration.
// Defaults to INFO if the level string is invalid.
func (c *Config) GetLogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Helper functions

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "INFO")
	v.SetDefault("reconnect_delay", constants.DefaultReconnectDelay)
}

func loadConfigFile(v *viper.Viper) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("error getting home directory: %w", err)
	}

	v.SetConfigFile(constants.ConfigFilePath(homeDir))
	v.SetConfigType("yaml")

	return v.ReadInConfig()
}

func bindEnvVars(v *viper.Viper) {
	envVars := []string{
		"ACCOUNT_EMAIL",
		"API_ENDPOINT",
		"API_KEY",
		"LOG_LEVEL",
		"RECONNECT_DELAY",
		"WEBSOCKET_ENDPOINT",
	}

	prefix := strings.ToUpper(constants.ProjectName) + "_"
	for _, envVar := range envVars {
		_ = v.BindEnv(strings.ToLower(envVar), prefix+envVar)
	}
}

// deriveWebSocketEndpoint converts an HTTP API endpoint into the matching
// WebSocket endpoint (https -> wss, http -> ws).
func deriveWebSocketEndpoint(apiEndpoint string) string {
	switch {
	case strings.HasPrefix(apiEndpoint, "https://"):
		return "wss://" + strings.TrimPrefix(apiEndpoint, "https://")
	case strings.HasPrefix(apiEndpoint, "http://"):
		return "ws://" + strings.TrimPrefix(apiEndpoint, "http://")
	default:
		return apiEndpoint
	}
}
