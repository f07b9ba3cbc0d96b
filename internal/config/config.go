// Package config loads the runtime settings of billed: defaults first,
// then an optional .env file, then the process environment. Command-line
// flags are applied last by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/mmynk/billed/internal/receipts"
)

// Receipt storage backends.
const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

// Config holds runtime settings.
//
// Fields:
//   - Addr: listen address of the HTTP server.
//   - DBPath: SQLite database file.
//   - JWTSecret: HMAC secret for API tokens and session cookies. The default is for development only.
//   - TokenTTL: lifetime of tokens and session cookies.
//   - APIURL: base URL the web screens use to reach the bills API. Empty means this process.
//   - ReceiptsBackend: "local" or "s3".
//   - ReceiptsDir: directory of the local backend.
//   - S3: object storage settings of the s3 backend.
//   - SecureCookies: mark the session cookie HTTPS only.
type Config struct {
	Addr            string
	DBPath          string
	JWTSecret       string
	TokenTTL        time.Duration
	APIURL          string
	ReceiptsBackend string
	ReceiptsDir     string
	S3              receipts.S3Config
	SecureCookies   bool
	LogLevel        string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.DBPath = "./data/billed.db"
	c.JWTSecret = "dev-secret-change-me"
	c.TokenTTL = 24 * time.Hour
	c.ReceiptsBackend = BackendLocal
	c.ReceiptsDir = "./data/receipts"
	c.S3 = receipts.S3Config{Bucket: "receipts", Region: "us-east-1"}
	c.LogLevel = "info"
}

// Load builds a Config from defaults, the given .env files (".env" when
// none is given, missing files are skipped) and the environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := &Config{}
	cfg.LoadDefaults()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("ADDR", &c.Addr)
	str("DB_PATH", &c.DBPath)
	str("JWT_SECRET", &c.JWTSecret)
	str("API_URL", &c.APIURL)
	str("RECEIPTS_BACKEND", &c.ReceiptsBackend)
	str("RECEIPTS_DIR", &c.ReceiptsDir)
	str("S3_BUCKET", &c.S3.Bucket)
	str("S3_REGION", &c.S3.Region)
	str("S3_ENDPOINT", &c.S3.Endpoint)
	str("S3_ACCESS_KEY", &c.S3.AccessKey)
	str("S3_SECRET_KEY", &c.S3.SecretKey)
	str("LOG_LEVEL", &c.LogLevel)

	if v, ok := lookup("TOKEN_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TOKEN_TTL %q: %w", v, err)
		}
		c.TokenTTL = d
	}
	if v, ok := lookup("SECURE_COOKIES"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SECURE_COOKIES %q: %w", v, err)
		}
		c.SecureCookies = b
	}
	return nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	switch c.ReceiptsBackend {
	case BackendLocal:
		if c.ReceiptsDir == "" {
			return errors.New("RECEIPTS_DIR is required by the local receipts backend")
		}
	case BackendS3:
		if c.S3.Bucket == "" || c.S3.Region == "" {
			return errors.New("S3_BUCKET and S3_REGION are required by the s3 receipts backend")
		}
	default:
		return fmt.Errorf("unknown RECEIPTS_BACKEND %q", c.ReceiptsBackend)
	}
	return nil
}
