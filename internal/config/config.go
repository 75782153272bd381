// Package config loads dishfeed settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"dishfeed/internal/storage"
)

// S3Vars must all be set once S3_ENDPOINT is
var S3Vars = []string{"S3_ENDPOINT", "S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_BUCKET_NAME"}

// Config holds everything the server needs at startup
type Config struct {
	AppEnv string
	Port   int
	Host   string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	AllowedOrigins []string

	// RedisAddr empty means in-memory sessions and no view cache
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// KafkaBrokers empty means feed events are dropped
	KafkaBrokers string

	// ConsulAddr empty means the service does not register itself
	ConsulAddr  string
	ConsulToken string

	// Storage is nil when S3_ENDPOINT is unset
	Storage *storage.Config

	SessionMaxAge time.Duration
	SeedDemo      bool
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	port, err := GetEnvInt("PORT", 8080)
	if err != nil {
		return nil, err
	}
	redisDB, err := GetEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		AppEnv:         GetEnvOrDefault("APP_ENV", "development"),
		Port:           port,
		Host:           GetEnvOrDefault("SERVICE_HOST", "localhost"),
		ReadTimeout:    GetEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:   GetEnvDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
		IdleTimeout:    GetEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		AllowedOrigins: GetEnvList("ALLOWED_ORIGINS", []string{"http://localhost:8081", "http://localhost:19006"}),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        redisDB,
		KafkaBrokers:   os.Getenv("KAFKA_BROKERS"),
		ConsulAddr:     os.Getenv("CONSUL_HTTP_ADDR"),
		ConsulToken:    os.Getenv("CONSUL_HTTP_TOKEN"),
		SessionMaxAge:  GetEnvDuration("SESSION_MAX_AGE", 7*24*time.Hour),
		SeedDemo:       GetEnvBool("FEED_SEED_DEMO", true),
	}

	if os.Getenv("S3_ENDPOINT") != "" {
		if err := ValidateEnv(S3Vars); err != nil {
			return nil, err
		}
		cfg.Storage = &storage.Config{
			Endpoint:       os.Getenv("S3_ENDPOINT"),
			PublicEndpoint: os.Getenv("S3_PUBLIC_ENDPOINT"),
			AccessKey:      os.Getenv("S3_ACCESS_KEY"),
			SecretKey:      os.Getenv("S3_SECRET_KEY"),
			Bucket:         os.Getenv("S3_BUCKET_NAME"),
			Region:         os.Getenv("S3_REGION"),
			UseSSL:         GetEnvBool("S3_USE_SSL", false),
		}
	}

	return cfg, nil
}

// IsProduction reports whether APP_ENV is production
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// ValidateEnv validates that all required environment variables are set
func ValidateEnv(requiredVars []string) error {
	var missing []string

	for _, varName := range requiredVars {
		if os.Getenv(varName) == "" {
			missing = append(missing, varName)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return nil
}

// GetEnvOrDefault retrieves an environment variable or returns a default value
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvInt parses an integer variable
func GetEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

// GetEnvBool parses a boolean variable, falling back on unparsable values
func GetEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// GetEnvDuration parses a duration variable such as "30s"
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// GetEnvList splits a comma separated variable
func GetEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
