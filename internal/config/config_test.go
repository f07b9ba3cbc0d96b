package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, BackendLocal, cfg.ReceiptsBackend)
	assert.Empty(t, cfg.APIURL)
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnv(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	err := cfg.applyEnv(lookupFrom(map[string]string{
		"ADDR":             ":9090",
		"TOKEN_TTL":        "30m",
		"RECEIPTS_BACKEND": "s3",
		"S3_BUCKET":        "bills",
		"S3_ENDPOINT":      "http://127.0.0.1:9000",
		"SECURE_COOKIES":   "true",
		"DB_PATH":          "",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, BackendS3, cfg.ReceiptsBackend)
	assert.Equal(t, "bills", cfg.S3.Bucket)
	assert.Equal(t, "us-east-1", cfg.S3.Region)
	assert.Equal(t, "http://127.0.0.1:9000", cfg.S3.Endpoint)
	assert.True(t, cfg.SecureCookies)
	// empty values keep the default
	assert.Equal(t, "./data/billed.db", cfg.DBPath)
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnvInvalid(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()
	assert.Error(t, cfg.applyEnv(lookupFrom(map[string]string{"TOKEN_TTL": "forever"})))
	assert.Error(t, cfg.applyEnv(lookupFrom(map[string]string{"SECURE_COOKIES": "maybe"})))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty secret", func(c *Config) { c.JWTSecret = "" }},
		{"zero ttl", func(c *Config) { c.TokenTTL = 0 }},
		{"unknown backend", func(c *Config) { c.ReceiptsBackend = "ftp" }},
		{"local without dir", func(c *Config) { c.ReceiptsDir = "" }},
		{"s3 without bucket", func(c *Config) { c.ReceiptsBackend = BackendS3; c.S3.Bucket = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.LoadDefaults()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("BILLED_TEST_ONLY=1\nLOG_LEVEL=debug\n"), 0644))
	t.Setenv("LOG_LEVEL", "")
	os.Unsetenv("LOG_LEVEL")
	t.Cleanup(func() { os.Unsetenv("BILLED_TEST_ONLY") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)

	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}
