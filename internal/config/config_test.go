package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("POOL_CACHE_TTL_SECONDS", "")
	t.Setenv("REDIS_ENABLED", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 60*time.Second, cfg.PoolCacheTTL)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.False(t, cfg.RedisEnabled)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("POOL_CACHE_TTL_SECONDS", "15")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("ENVIRONMENT", "production")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 15*time.Second, cfg.PoolCacheTTL)
	assert.True(t, cfg.RedisEnabled)
	assert.Equal(t, 0, cfg.RedisDB, "unparseable values fall back to the default")
	assert.True(t, cfg.IsProduction())
}

func TestStorageEnabled(t *testing.T) {
	cfg := &Config{S3Endpoint: "localhost:9000", S3AccessKey: "key"}
	assert.False(t, cfg.StorageEnabled())

	cfg.S3SecretKey = "secret"
	assert.True(t, cfg.StorageEnabled())
}

func TestMailEnabled(t *testing.T) {
	cfg := &Config{SMTPHost: "smtp.example.com"}
	assert.False(t, cfg.MailEnabled())

	cfg.SMTPFrom = "contato@example.com"
	assert.True(t, cfg.MailEnabled())
}
