package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dafibh/fortuna/budget-backend/internal/domain"
	"github.com/joho/godotenv"
)

// minSessionSecretLength keeps HS256 keys at least as long as the hash output
const minSessionSecretLength = 32

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL string

	// Session
	SessionSecret  string
	LoginRateLimit int // login attempts per minute per client IP

	// Server
	Port        string
	CORSOrigins []string
	Env         string

	// Periods
	DefaultMonthStartDay int
	// RecomputeStrict serializes recompute cycles per period with a database advisory lock
	RecomputeStrict bool

	// Broker (optional)
	AMQP AMQPConfig

	// S3 Storage (optional)
	S3 S3Config
}

// AMQPConfig holds the broker fan-out configuration. An empty URL disables it.
type AMQPConfig struct {
	URL        string
	Exchange   string
	RoutingKey string
}

// Enabled reports whether a broker is configured
func (c AMQPConfig) Enabled() bool {
	return c.URL != ""
}

// S3Config holds AWS S3 configuration. An empty bucket disables snapshot archiving.
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // Optional: for MinIO/LocalStack local dev
}

// Enabled reports whether a bucket is configured
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg, err := fromEnv()
	if err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDatabase reads only what offline tooling needs: the database URL and period defaults
func LoadDatabase() (*Config, error) {
	_ = godotenv.Load()

	cfg, err := fromEnv()
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	return cfg, nil
}

func fromEnv() (*Config, error) {
	startDay, err := getEnvInt("DEFAULT_MONTH_START_DAY", domain.DefaultMonthStartDay)
	if err != nil {
		return nil, err
	}
	loginRate, err := getEnvInt("LOGIN_RATE_LIMIT", 10)
	if err != nil {
		return nil, err
	}
	strict, err := getEnvBool("RECOMPUTE_STRICT", true)
	if err != nil {
		return nil, err
	}

	return &Config{
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		SessionSecret:        getEnv("SESSION_SECRET", ""),
		LoginRateLimit:       loginRate,
		Port:                 getEnv("PORT", "8080"),
		CORSOrigins:          splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		Env:                  getEnv("ENV", "development"),
		DefaultMonthStartDay: startDay,
		RecomputeStrict:      strict,
		AMQP: AMQPConfig{
			URL:        getEnv("AMQP_URL", ""),
			Exchange:   getEnv("AMQP_EXCHANGE", "budget.events"),
			RoutingKey: getEnv("AMQP_ROUTING_KEY", "period.recomputed"),
		},
		S3: S3Config{
			Region:          getEnv("S3_REGION", "us-east-1"),
			Bucket:          getEnv("S3_BUCKET", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Endpoint:        getEnv("S3_ENDPOINT", ""), // Empty = use AWS, set for MinIO/LocalStack
		},
	}, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if len(c.SessionSecret) < minSessionSecretLength {
		return fmt.Errorf("SESSION_SECRET must be at least %d characters", minSessionSecretLength)
	}
	if c.DefaultMonthStartDay < domain.MinMonthStartDay || c.DefaultMonthStartDay > domain.MaxMonthStartDay {
		return fmt.Errorf("DEFAULT_MONTH_START_DAY must be between %d and %d", domain.MinMonthStartDay, domain.MaxMonthStartDay)
	}
	if c.LoginRateLimit <= 0 {
		return fmt.Errorf("LOGIN_RATE_LIMIT must be positive")
	}
	return nil
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
