package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd",
				"-a", "127.0.0.1:9090", "-d", "db", "-s", "secret", "-rs", "refresh-secret",
				"-t", "5", "-r", "60", "-l", "10", "-w", "30", "-u", "https://app.example", "-m", "production",
				"-c", "ignored.json",
			},
			expected: &Config{
				HTTPAddr:                     "127.0.0.1:9090",
				DatabaseDSN:                  "db",
				AccessTokenSecret:            "secret",
				RefreshTokenSecret:           "refresh-secret",
				AccessTokenValidityDuration:  5 * time.Minute,
				RefreshTokenValidityDuration: time.Hour,
				RateLimitMaxRequests:         10,
				RateLimitWindow:              30 * time.Second,
				AppURL:                       "https://app.example",
				Environment:                  "production",
			},
		},
		{
			name:        "bad int",
			args:        []string{"cmd", "-t", "soon"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			config := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config) })
				return
			}
			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
