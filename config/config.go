package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Vision    VisionConfig
	Embedding EmbeddingConfig
	Search    SearchConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port                  string   `mapstructure:"port"`
	Environment           string   `mapstructure:"environment"`
	AllowedOrigins        []string `mapstructure:"allowed_origins"`
	ImageDir              string   `mapstructure:"image_dir"`
	MaxUploadMB           int64    `mapstructure:"max_upload_mb"`
	SurfaceUpstreamErrors bool     `mapstructure:"surface_upstream_errors"`
}

// VisionConfig holds configuration for the grocery list vision model
type VisionConfig struct {
	Provider  string `mapstructure:"provider"` // "anthropic" or "openai"
	APIKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
	MaxTokens int64  `mapstructure:"max_tokens"`
	BaseURL   string `mapstructure:"base_url"`
	Prompt    string `mapstructure:"prompt"`
}

// EmbeddingConfig holds configuration for the text embedding model
type EmbeddingConfig struct {
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`
	Dimensions int    `mapstructure:"dimensions"`
	BaseURL    string `mapstructure:"base_url"`
}

// SearchConfig holds Elasticsearch configuration
type SearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	APIKey    string   `mapstructure:"api_key"`
	Index     string   `mapstructure:"index"`
	// MinScore is the script score floor (cosine similarity + 1.0). Tuned by
	// hand, not derived.
	MinScore float64 `mapstructure:"min_score"`
	Size     int     `mapstructure:"size"`
}

// CacheConfig holds embedding cache configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "none", "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds outbound request pacing, in requests per second.
// Zero disables pacing.
type RateLimitConfig struct {
	Vision    float64 `mapstructure:"vision"`
	Embedding float64 `mapstructure:"embedding"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "text" or "json"
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	return load(validate)
}

// LoadForIndexSetup loads configuration for tools that only talk to the
// search cluster, so model API keys are not required
func LoadForIndexSetup() (*Config, error) {
	return load(validateShared)
}

func load(validateFn func(*Config) error) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/grocerylens/")

	// Environment variable settings
	v.SetEnvPrefix("GROCERYLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("error binding environment: %w", err)
	}

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if config.Log.Format == "" {
		config.Log.Format = "json"
		if config.Server.Environment == "development" {
			config.Log.Format = "text"
		}
	}

	// Validate configuration
	if err := validateFn(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env if present. Variables already set in the
// environment win.
func loadEnvFile() error {
	if err := gotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// bindEnv binds keys that have no default, plus the legacy variable names
// used by earlier deployments.
func bindEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"vision.api_key":     {"GROCERYLENS_VISION_API_KEY", "CLAUDE_API_KEY"},
		"vision.base_url":    {"GROCERYLENS_VISION_BASE_URL"},
		"vision.prompt":      {"GROCERYLENS_VISION_PROMPT"},
		"embedding.api_key":  {"GROCERYLENS_EMBEDDING_API_KEY", "OPENAI_API_KEY"},
		"embedding.base_url": {"GROCERYLENS_EMBEDDING_BASE_URL"},
		"search.addresses":   {"GROCERYLENS_SEARCH_ADDRESSES", "ELASTIC_SEARCH_HOST"},
		"search.username":    {"GROCERYLENS_SEARCH_USERNAME"},
		"search.password":    {"GROCERYLENS_SEARCH_PASSWORD"},
		"search.api_key":     {"GROCERYLENS_SEARCH_API_KEY"},
		"cache.redis_url":    {"GROCERYLENS_CACHE_REDIS_URL"},
		"log.format":         {"GROCERYLENS_LOG_FORMAT"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return err
		}
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.image_dir", "./ProductImages")
	v.SetDefault("server.max_upload_mb", 32)
	v.SetDefault("server.surface_upstream_errors", false)

	// Vision defaults
	v.SetDefault("vision.provider", "anthropic")
	v.SetDefault("vision.model", "claude-3-5-sonnet-20241022")
	v.SetDefault("vision.max_tokens", 1024)

	// Embedding defaults
	v.SetDefault("embedding.model", "text-embedding-3-large")
	v.SetDefault("embedding.dimensions", 3072)

	// Search defaults
	v.SetDefault("search.addresses", []string{"http://localhost:9200"})
	v.SetDefault("search.index", "products")
	v.SetDefault("search.min_score", 1.45)
	v.SetDefault("search.size", 8)

	// Cache defaults
	v.SetDefault("cache.type", "none")
	v.SetDefault("cache.ttl", "720h") // 30 days

	// Rate limit defaults
	v.SetDefault("ratelimit.vision", 0)
	v.SetDefault("ratelimit.embedding", 0)

	// Log defaults
	v.SetDefault("log.level", "info")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Vision.APIKey == "" {
		return fmt.Errorf("vision API key is required (set GROCERYLENS_VISION_API_KEY or CLAUDE_API_KEY)")
	}

	if config.Vision.Provider != "anthropic" && config.Vision.Provider != "openai" {
		return fmt.Errorf("vision provider must be 'anthropic' or 'openai', got: %s", config.Vision.Provider)
	}

	if config.Embedding.APIKey == "" {
		return fmt.Errorf("embedding API key is required (set GROCERYLENS_EMBEDDING_API_KEY or OPENAI_API_KEY)")
	}

	return validateShared(config)
}

// validateShared checks the settings every entry point depends on
func validateShared(config *Config) error {
	if config.Embedding.Dimensions <= 0 {
		return fmt.Errorf("embedding dimensions must be positive, got: %d", config.Embedding.Dimensions)
	}

	if len(config.Search.Addresses) == 0 {
		return fmt.Errorf("at least one search address is required")
	}

	if config.Search.MinScore < 0 || config.Search.MinScore > 2 {
		return fmt.Errorf("search min score must be within [0, 2], got: %v", config.Search.MinScore)
	}

	if config.Search.Size <= 0 {
		return fmt.Errorf("search size must be positive, got: %d", config.Search.Size)
	}

	switch config.Cache.Type {
	case "none", "memory":
	case "redis":
		if config.Cache.RedisURL == "" {
			return fmt.Errorf("Redis URL is required when cache type is 'redis'")
		}
	default:
		return fmt.Errorf("cache type must be 'none', 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("log format must be 'text' or 'json', got: %s", config.Log.Format)
	}

	return nil
}
