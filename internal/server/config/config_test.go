package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "development", c.Environment)
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Empty(t, c.DatabaseDSN)
	assert.Equal(t, time.Hour, c.AccessTokenValidityDuration)
	assert.Equal(t, 7*24*time.Hour, c.RefreshTokenValidityDuration)
	assert.Equal(t, 30*time.Minute, c.ResetTokenValidityDuration)
	assert.Equal(t, 100, c.RateLimitMaxRequests)
	assert.Equal(t, 15*time.Minute, c.RateLimitWindow)
	assert.Equal(t, "http://localhost:3000", c.AppURL)
	assert.Equal(t, 465, c.SMTPPort)
	assert.Equal(t, "noreply@example.com", c.SMTPFrom)
	assert.NotEqual(t, c.AccessTokenSecret, c.RefreshTokenSecret)
	assert.NoError(t, c.Validate())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}
	for _, k := range []string{"APP_ENV", "HTTP_ADDR", "DATABASE_URL", "JWT_EXPIRES_IN", "RATE_LIMIT_MAX_REQUESTS"} {
		t.Setenv(k, "")
	}

	c := LoadConfig()
	require.NotNil(t, c)

	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, time.Hour, c.AccessTokenValidityDuration)
	assert.Equal(t, 100, c.RateLimitMaxRequests)
	assert.Equal(t, 15*time.Minute, c.RateLimitWindow)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults ok", mutate: func(c *Config) {}},
		{name: "same secrets", mutate: func(c *Config) { c.RefreshTokenSecret = c.AccessTokenSecret }, wantErr: "must differ"},
		{name: "empty secret", mutate: func(c *Config) { c.AccessTokenSecret = "" }, wantErr: "must not be empty"},
		{name: "zero lifetime", mutate: func(c *Config) { c.ResetTokenValidityDuration = 0 }, wantErr: "lifetimes"},
		{name: "zero rate limit", mutate: func(c *Config) { c.RateLimitMaxRequests = 0 }, wantErr: "rate limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSecureCookiesAndMailEnabled(t *testing.T) {
	var c Config
	c.LoadDefaults()
	assert.False(t, c.SecureCookies())
	assert.False(t, c.MailEnabled())

	c.Environment = "production"
	assert.True(t, c.SecureCookies())

	c.SMTPHost, c.SMTPUser, c.SMTPPassword = "smtp.example.com", "mailer", "pw"
	assert.True(t, c.MailEnabled())
}

func TestStorageEnabled(t *testing.T) {
	var c Config
	c.LoadDefaults()
	assert.True(t, c.StorageEnabled())

	c.S3Bucket = ""
	assert.False(t, c.StorageEnabled())

	c.S3Bucket, c.S3Region = "evidence", ""
	assert.False(t, c.StorageEnabled())
}
