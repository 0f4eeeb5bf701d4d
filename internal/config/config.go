package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/dont21900-lgtm/editing-store/pkg/config"
)

// Config holds all configuration for the storefront server.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"store"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"store_secret"`
	PostgresDB   string `env:"POSTGRES_DB" envDefault:"store_db"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Redis (carts, face descriptors)
	RedisHost string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Cart lifetime in hours.
	CartTTL int `env:"CART_TTL_HOURS" envDefault:"72"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Admin session gate
	JWTSecret         string `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	JWTExpiryMinutes  int    `env:"JWT_EXPIRY_MINUTES" envDefault:"60"`
	AdminEmail        string `env:"ADMIN_EMAIL" envDefault:"admin@editing.store"`
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH" envDefault:""`

	// Object storage for product assets
	S3Bucket   string `env:"S3_BUCKET" envDefault:""`
	S3Region   string `env:"S3_REGION" envDefault:"ap-south-1"`
	S3Key      string `env:"S3_ACCESS_KEY" envDefault:""`
	S3Secret   string `env:"S3_SECRET_KEY" envDefault:""`
	S3Endpoint string `env:"S3_ENDPOINT" envDefault:""`
	S3BaseURL  string `env:"S3_BASE_URL" envDefault:""`

	// AI assistant
	AssistantAPIKey  string `env:"ASSISTANT_API_KEY" envDefault:""`
	AssistantModel   string `env:"ASSISTANT_MODEL" envDefault:"gemini-2.0-flash"`
	AssistantBaseURL string `env:"ASSISTANT_BASE_URL" envDefault:""`

	// Rate limiting (requests per second per client IP)
	RateLimitRPS   int `env:"RATE_LIMIT_RPS" envDefault:"50"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST" envDefault:"100"`

	// Tracing
	TracingEnabled    bool    `env:"TRACING_ENABLED" envDefault:"false"`
	TracingEndpoint   string  `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TracingSampleRate float64 `env:"TRACING_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load store config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.CartTTL < 1 {
		return fmt.Errorf("invalid cart TTL: %d", c.CartTTL)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT secret must not be empty")
	}
	return nil
}

// JWTExpiry returns the admin token lifetime.
func (c *Config) JWTExpiry() time.Duration {
	return time.Duration(c.JWTExpiryMinutes) * time.Minute
}

// CartLifetime returns the Redis cart TTL.
func (c *Config) CartLifetime() time.Duration {
	return time.Duration(c.CartTTL) * time.Hour
}
