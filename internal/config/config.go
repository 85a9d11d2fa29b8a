// Package config loads gateway configuration from environment variables
// with defaults and optional command-line overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/remotesession/gateway/internal/encoder"
)

// Config holds the application configuration
type Config struct {
	Server   ServerConfig
	Session  SessionConfig
	Encoding EncodingConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// LoadOptions holds command-line override options
type LoadOptions struct {
	Host      string
	Port      string
	LogLevel  string
	JWTSecret string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// SessionConfig holds per-session defaults and limits
type SessionConfig struct {
	DefaultWidth      int
	DefaultHeight     int
	MaxWidth          int
	MaxHeight         int
	InboundBufferSize int
}

// EncodingConfig holds the initial encoding settings of a session
type EncodingConfig struct {
	Mode     int
	Quality  int
	Sampling int
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string
	JWTSecret      string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// Load loads configuration from environment variables with defaults
func Load() (*Config, error) {
	return LoadWithOverrides(LoadOptions{})
}

// LoadWithOverrides loads configuration with command-line overrides
func LoadWithOverrides(opts LoadOptions) (*Config, error) {
	config := &Config{}

	config.Server.Host = getOverrideOrEnv(opts.Host, "SERVER_HOST", "0.0.0.0")
	config.Server.Port = getOverrideOrEnv(opts.Port, "SERVER_PORT", "8080")
	config.Server.ReadTimeout = getDurationWithDefault("SERVER_READ_TIMEOUT", 30*time.Second)
	config.Server.WriteTimeout = getDurationWithDefault("SERVER_WRITE_TIMEOUT", 30*time.Second)
	config.Server.IdleTimeout = getDurationWithDefault("SERVER_IDLE_TIMEOUT", 120*time.Second)

	config.Session.DefaultWidth = getIntWithDefault("SESSION_DEFAULT_WIDTH", 1024)
	config.Session.DefaultHeight = getIntWithDefault("SESSION_DEFAULT_HEIGHT", 768)
	config.Session.MaxWidth = getIntWithDefault("SESSION_MAX_WIDTH", 3840)
	config.Session.MaxHeight = getIntWithDefault("SESSION_MAX_HEIGHT", 2160)
	config.Session.InboundBufferSize = getIntWithDefault("SESSION_INBOUND_BUFFER_SIZE", 128*1024)

	config.Encoding.Mode = getIntWithDefault("ENCODING_MODE", int(encoder.ModeJpeg))
	config.Encoding.Quality = getIntWithDefault("ENCODING_QUALITY", int(encoder.QualityHigh))
	config.Encoding.Sampling = getIntWithDefault("ENCODING_SAMPLING", 100)

	config.Security.AllowedOrigins = getStringSliceWithDefault("ALLOWED_ORIGINS", []string{})
	config.Security.JWTSecret = getOverrideOrEnv(opts.JWTSecret, "JWT_SECRET", "")

	config.Logging.Level = getOverrideOrEnv(opts.LogLevel, "LOG_LEVEL", "info")

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port cannot be empty")
	}

	if port, err := strconv.Atoi(c.Server.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid server port: %s", c.Server.Port)
	}

	if c.Session.DefaultWidth <= 0 || c.Session.DefaultHeight <= 0 {
		return fmt.Errorf("default dimensions must be positive")
	}

	if c.Session.MaxWidth < c.Session.DefaultWidth || c.Session.MaxHeight < c.Session.DefaultHeight {
		return fmt.Errorf("max dimensions must be >= default dimensions")
	}

	if c.Session.InboundBufferSize <= 0 {
		return fmt.Errorf("inbound buffer size must be positive")
	}

	if !encoder.EncodingMode(c.Encoding.Mode).Valid() {
		return fmt.Errorf("invalid encoding mode: %d", c.Encoding.Mode)
	}

	if !encoder.Quality(c.Encoding.Quality).Valid() {
		return fmt.Errorf("invalid encoding quality: %d", c.Encoding.Quality)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getStringSliceWithDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return splitString(value, ",")
	}
	return defaultValue
}

// getOverrideOrEnv returns command-line override value, env value, or default
func getOverrideOrEnv(override, envKey, defaultValue string) string {
	if override != "" {
		return override
	}
	return getEnvWithDefault(envKey, defaultValue)
}

func splitString(s, sep string) []string {
	if s == "" {
		return []string{}
	}

	var result []string
	for _, part := range strings.Split(s, sep) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
