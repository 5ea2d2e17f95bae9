package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// Upload storage configuration. When S3Bucket is empty, uploaded
	// images are written to MediaDir on local disk.
	S3Bucket  string
	AWSRegion string
	MediaDir  string

	// CORS
	AllowedOrigins []string
}

// LoadConfig creates a new Config instance with values from environment
// variables, falling back to Docker secrets outside CI.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort:     lookup("SERVER_PORT", "server_port", "8080"),
		ServerHost:     lookup("SERVER_HOST", "server_host", "0.0.0.0"),
		DBHost:         lookup("DB_HOST", "db_host", "localhost"),
		DBPort:         lookup("DB_PORT", "db_port", "5432"),
		DBUser:         lookup("DB_USER", "db_user", "postgres"),
		DBPassword:     lookup("DB_PASSWORD", "db_password", ""),
		DBName:         lookup("DB_NAME", "db_name", "recipebox"),
		DBSSLMode:      lookup("DB_SSL_MODE", "db_ssl_mode", "disable"),
		RedisHost:      lookup("REDIS_HOST", "redis_host", ""),
		RedisPort:      lookup("REDIS_PORT", "redis_port", "6379"),
		RedisPassword:  lookup("REDIS_PASSWORD", "redis_password", ""),
		RedisURL:       lookup("REDIS_URL", "redis_url", ""),
		JWTSecret:      lookup("JWT_SECRET", "jwt_secret", ""),
		S3Bucket:       lookup("S3_BUCKET_NAME", "s3_bucket_name", ""),
		AWSRegion:      lookup("AWS_REGION", "aws_region", ""),
		MediaDir:       lookup("MEDIA_DIR", "media_dir", "media"),
		AllowedOrigins: splitOrigins(lookup("ALLOWED_ORIGINS", "allowed_origins", "")),
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB value %q: %w", v, err)
		}
		cfg.RedisDB = n
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// lookup resolves a configuration value from the environment first, then
// from a Docker secret file, then falls back to the default. CI runs use
// environment variables only.
func lookup(envVar, secretName, fallback string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	if GetEnvironment() != CI {
		if v := readSecret(secretName); v != "" {
			return v
		}
	}
	return fallback
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func splitOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// DSN builds the Postgres connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}
