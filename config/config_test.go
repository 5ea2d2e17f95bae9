package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvironment(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "")
	assert.Equal(t, Development, GetEnvironment())

	t.Setenv("ENV", "test")
	assert.Equal(t, Test, GetEnvironment())

	t.Setenv("ENV", "production")
	assert.Equal(t, Production, GetEnvironment())

	t.Setenv("CI", "true")
	assert.Equal(t, CI, GetEnvironment())
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	t.Setenv("SECRETS_DIR", t.TempDir())
	for _, v := range []string{"SERVER_PORT", "DB_HOST", "DB_SSL_MODE", "MEDIA_DIR"} {
		t.Setenv(v, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, "media", cfg.MediaDir)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("DB_NAME", "recipes_test")
	t.Setenv("JWT_SECRET", "super-secret")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:5173, http://app.local")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.ServerPort)
	assert.Equal(t, "recipes_test", cfg.DBName)
	assert.Equal(t, "super-secret", cfg.JWTSecret)
	assert.Equal(t, []string{"http://localhost:5173", "http://app.local"}, cfg.AllowedOrigins)
}

func TestValidateConfigRequiresRegionWithBucket(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")

	cfg := &Config{ServerPort: "8080", S3Bucket: "uploads"}
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AWS_REGION")
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBHost:     "db",
		DBPort:     "5432",
		DBUser:     "postgres",
		DBPassword: "secret",
		DBName:     "recipebox",
		DBSSLMode:  "disable",
	}
	assert.Equal(t,
		"host=db port=5432 user=postgres password=secret dbname=recipebox sslmode=disable",
		cfg.DSN())
}
