package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Matching  MatchingConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	MaxUploadMB    int64    `mapstructure:"max_upload_mb"`
}

// MatchingConfig holds the fallback-chain tuning knobs
type MatchingConfig struct {
	MinSubstringScore      float64 `mapstructure:"min_substring_score"`
	TrimMaxDigits          int     `mapstructure:"trim_max_digits"`
	TrimMinRemaining       int     `mapstructure:"trim_min_remaining"`
	CandidatePrefixLengths []int   `mapstructure:"candidate_prefix_lengths"`
	EnableDebugLogging     bool    `mapstructure:"enable_debug_logging"`
}

// CacheConfig holds catalogue-cache configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/protocat/")

	v.SetEnvPrefix("PROTOCAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.max_upload_mb", 64)

	// Matching defaults
	v.SetDefault("matching.min_substring_score", 0.6)
	v.SetDefault("matching.trim_max_digits", 3)
	v.SetDefault("matching.trim_min_remaining", 4)
	v.SetDefault("matching.candidate_prefix_lengths", []int{6, 4})
	v.SetDefault("matching.enable_debug_logging", false)

	// Cache defaults
	v.SetDefault("cache.ttl", "1h")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 60)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Matching.MinSubstringScore <= 0 || config.Matching.MinSubstringScore > 1 {
		return fmt.Errorf("matching.min_substring_score must be in (0, 1], got: %v",
			config.Matching.MinSubstringScore)
	}

	if config.Matching.TrimMinRemaining < 1 {
		return fmt.Errorf("matching.trim_min_remaining must be at least 1, got: %d",
			config.Matching.TrimMinRemaining)
	}

	for _, n := range config.Matching.CandidatePrefixLengths {
		if n < 1 {
			return fmt.Errorf("matching.candidate_prefix_lengths must be positive, got: %d", n)
		}
	}

	if config.Server.MaxUploadMB < 1 {
		return fmt.Errorf("server.max_upload_mb must be at least 1, got: %d", config.Server.MaxUploadMB)
	}

	return nil
}
