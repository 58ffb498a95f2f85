// Package config handles configuration for the ApniSec server: defaults,
// an optional JSON file, environment variables (including a .env file) and
// command-line flags, applied in that order.
package config

import (
	"errors"
	"time"
)

// Config holds runtime settings for the server.
//
// Fields:
//   - Environment: "development" or "production"; selects log format and cookie security.
//   - HTTPAddr: bind address for the JSON API.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects the in-memory store.
//   - AccessTokenSecret / RefreshTokenSecret: HMAC keys (HS256), must differ.
//   - AccessTokenValidityDuration / RefreshTokenValidityDuration / ResetTokenValidityDuration: lifetimes.
//   - RateLimitMaxRequests / RateLimitWindow: per-identifier request cap per window.
//   - AppURL: public front-end URL used to build password-reset links.
//   - CookieSecure: force the Secure attribute on session cookies.
//   - CORSAllowedOrigins: origins allowed to send credentialed requests.
//   - SMTP*: outbound mail settings; mail is disabled when host, user or password is empty.
//   - S3*: object storage for issue evidence (S3 or MinIO); disabled when bucket or region is empty.
type Config struct {
	Environment                  string
	HTTPAddr                     string
	DatabaseDSN                  string
	AccessTokenSecret            string
	RefreshTokenSecret           string
	AccessTokenValidityDuration  time.Duration
	RefreshTokenValidityDuration time.Duration
	ResetTokenValidityDuration   time.Duration
	PasswordHashCost             int
	RateLimitMaxRequests         int
	RateLimitWindow              time.Duration
	AppURL                       string
	CookieSecure                 bool
	CORSAllowedOrigins           []string
	SMTPHost                     string
	SMTPPort                     int
	SMTPUser                     string
	SMTPPassword                 string
	SMTPFrom                     string
	S3RootUser                   string
	S3RootPassword               string
	S3Bucket                     string
	S3Region                     string
	S3BaseEndpoint               string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secrets are insecure and must be overridden in production.
func (c *Config) LoadDefaults() {
	c.Environment = "development"
	c.HTTPAddr = ":8080"
	c.DatabaseDSN = ""
	c.AccessTokenSecret = "default-secret-change-in-production"
	c.RefreshTokenSecret = "default-refresh-secret-change-in-production"
	c.AccessTokenValidityDuration = time.Hour
	c.RefreshTokenValidityDuration = 7 * 24 * time.Hour
	c.ResetTokenValidityDuration = 30 * time.Minute
	c.PasswordHashCost = 10
	c.RateLimitMaxRequests = 100
	c.RateLimitWindow = 15 * time.Minute
	c.AppURL = "http://localhost:3000"
	c.CookieSecure = false
	c.CORSAllowedOrigins = []string{"http://localhost:3000"}
	c.SMTPHost = ""
	c.SMTPPort = 465
	c.SMTPUser = ""
	c.SMTPPassword = ""
	c.SMTPFrom = "noreply@example.com"
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "evidence"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

// SecureCookies reports whether session cookies carry the Secure attribute.
func (c *Config) SecureCookies() bool {
	return c.CookieSecure || c.Environment == "production"
}

// MailEnabled reports whether enough SMTP settings are present to send mail.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.SMTPUser != "" && c.SMTPPassword != ""
}

// StorageEnabled reports whether evidence object storage is configured.
func (c *Config) StorageEnabled() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.AccessTokenSecret == "" || c.RefreshTokenSecret == "" {
		errs = append(errs, errors.New("token secrets must not be empty"))
	}
	if c.AccessTokenSecret == c.RefreshTokenSecret {
		errs = append(errs, errors.New("access and refresh token secrets must differ"))
	}
	if c.AccessTokenValidityDuration <= 0 || c.RefreshTokenValidityDuration <= 0 || c.ResetTokenValidityDuration <= 0 {
		errs = append(errs, errors.New("token lifetimes must be positive"))
	}
	if c.RateLimitMaxRequests <= 0 || c.RateLimitWindow <= 0 {
		errs = append(errs, errors.New("rate limit settings must be positive"))
	}
	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("http address must be set"))
	}
	return errors.Join(errs...)
}
