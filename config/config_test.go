package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestParseDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	c, err := Parse(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	assert.Equal(t, "8080", c.AppPort)
	assert.Equal(t, "ar", c.Locale)
	assert.Equal(t, "postgres", c.DBDriver)
	assert.Equal(t, "5432", c.DBPort)
	assert.Equal(t, []string{"*"}, c.AllowedOrigins)
	assert.Equal(t, 10*time.Second, c.RemoteTimeout())
	assert.Equal(t, 24*time.Hour, c.AdminTokenTTL())
	assert.Equal(t, int64(50<<20), c.UploadMaxBytes)
}

func TestParseGroupedJSON(t *testing.T) {
	path := writeConfig(t, `{
		"app": {"AppPort": "9000", "JWTSecret": "from-file", "Locale": "en", "RemoteTimeoutSec": 3},
		"admin": {"Username": "editor", "PasswordHash": "$2a$10$hash", "TokenTTLMinutes": 30},
		"database": {"Driver": "mysql", "DBName": "content"},
		"s3": {"Bucket": "media", "UploadMaxMB": 5}
	}`)

	c, err := Parse(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", c.AppPort)
	assert.Equal(t, "from-file", c.JWTSecret)
	assert.Equal(t, "en", c.Locale)
	assert.Equal(t, 3*time.Second, c.RemoteTimeout())
	assert.Equal(t, "editor", c.AdminUsername)
	assert.Equal(t, 30*time.Minute, c.AdminTokenTTL())
	assert.Equal(t, "mysql", c.DBDriver)
	assert.Equal(t, "3306", c.DBPort)
	assert.Equal(t, "content", c.DBName)
	assert.Equal(t, "media", c.S3Bucket)
	assert.Equal(t, int64(5<<20), c.UploadMaxBytes)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `{"app": {"AppPort": "9000", "JWTSecret": "from-file"}}`)
	t.Setenv("APP_PORT", "7000")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "5")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	c, err := Parse(path)
	require.NoError(t, err)

	assert.Equal(t, "7000", c.AppPort)
	assert.Equal(t, "from-env", c.JWTSecret)
	assert.Equal(t, 5, c.RateLimitPerMinute)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.AllowedOrigins)
}

func TestParseRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Parse(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestParseInvalidJSON(t *testing.T) {
	path := writeConfig(t, `{"app": `)

	_, err := Parse(path)
	assert.Error(t, err)
}
