package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/akash0382/ApniSec/internal/flagx"
	"github.com/joho/godotenv"
)

const defaultDotEnvFile = ".env"

// parseEnv overlays config with environment variables. A .env file (the
// -env-file flag, else ./.env when present) is loaded first; variables
// already set in the process environment win over the file.
//
// Recognized variables:
//
//	APP_ENV, HTTP_ADDR, DATABASE_URL,
//	JWT_SECRET, JWT_REFRESH_SECRET, JWT_EXPIRES_IN, JWT_REFRESH_EXPIRES_IN, RESET_TOKEN_EXPIRES_IN,
//	BCRYPT_COST, RATE_LIMIT_MAX_REQUESTS, RATE_LIMIT_WINDOW_MS,
//	APP_URL (or NEXT_PUBLIC_APP_URL), COOKIE_SECURE, CORS_ALLOWED_ORIGINS,
//	SMTP_HOST, SMTP_PORT, SMTP_USER, SMTP_PASS, SMTP_FROM,
//	S3_ROOT_USER, S3_ROOT_PASSWORD, S3_BUCKET, S3_REGION, S3_BASE_ENDPOINT
//
// Malformed numeric or duration values panic, like a malformed JSON file.
func parseEnv(config *Config) {
	loadDotEnv(flagx.ConfigFileFlags(os.Args[1:]).DotEnv)

	envString(&config.Environment, "APP_ENV")
	envString(&config.HTTPAddr, "HTTP_ADDR")
	envString(&config.DatabaseDSN, "DATABASE_URL")
	envString(&config.AccessTokenSecret, "JWT_SECRET")
	envString(&config.RefreshTokenSecret, "JWT_REFRESH_SECRET")
	envDuration(&config.AccessTokenValidityDuration, "JWT_EXPIRES_IN")
	envDuration(&config.RefreshTokenValidityDuration, "JWT_REFRESH_EXPIRES_IN")
	envDuration(&config.ResetTokenValidityDuration, "RESET_TOKEN_EXPIRES_IN")
	envInt(&config.PasswordHashCost, "BCRYPT_COST")
	envInt(&config.RateLimitMaxRequests, "RATE_LIMIT_MAX_REQUESTS")

	var windowMs int
	if envInt(&windowMs, "RATE_LIMIT_WINDOW_MS") {
		config.RateLimitWindow = time.Duration(windowMs) * time.Millisecond
	}

	envString(&config.AppURL, "NEXT_PUBLIC_APP_URL")
	envString(&config.AppURL, "APP_URL")

	if v, ok := os.LookupEnv("COOKIE_SECURE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(fmt.Errorf("COOKIE_SECURE: %w", err))
		}
		config.CookieSecure = b
	}
	if v, ok := os.LookupEnv("CORS_ALLOWED_ORIGINS"); ok && v != "" {
		config.CORSAllowedOrigins = splitList(v)
	}

	envString(&config.SMTPHost, "SMTP_HOST")
	envInt(&config.SMTPPort, "SMTP_PORT")
	envString(&config.SMTPUser, "SMTP_USER")
	envString(&config.SMTPPassword, "SMTP_PASS")
	envString(&config.SMTPFrom, "SMTP_FROM")

	envString(&config.S3RootUser, "S3_ROOT_USER")
	envString(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	envString(&config.S3Bucket, "S3_BUCKET")
	envString(&config.S3Region, "S3_REGION")
	envString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
}

func loadDotEnv(path string) {
	if path == "" {
		if err := godotenv.Load(defaultDotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
		return
	}
	if err := godotenv.Load(path); err != nil {
		panic(err)
	}
}

func envString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func envInt(dst *int, key string) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Errorf("%s: %w", key, err))
	}
	*dst = n
	return true
}

func envDuration(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	d, err := ParseDuration(v)
	if err != nil {
		panic(fmt.Errorf("%s: %w", key, err))
	}
	*dst = d
}

// ParseDuration accepts time.ParseDuration syntax plus a whole-day suffix,
// so "7d" and "1h" are both valid.
func ParseDuration(s string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
