package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-c", "conf.json", "-a", "localhost"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-c", "conf.json"},
		},
		{
			name:         "flag with equals",
			args:         []string{"-config=alt.json", "-a", "localhost"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-config=alt.json"},
		},
		{
			name:         "unknown flags ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
		{
			name:         "flag without value at end is kept",
			args:         []string{"-c"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "next dash-prefixed token is not a value",
			args:         []string{"-c", "-notvalue"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "equals value may start with dashes",
			args:         []string{"-config=--weird.json"},
			allowedFlags: []string{"-config"},
			want:         []string{"-config=--weird.json"},
		},
		{
			name:         "multiple allowed flags kept in order",
			args:         []string{"-a", ":8080", "-c", "conf.json", "--other", "x"},
			allowedFlags: []string{"-c", "-a"},
			want:         []string{"-a", ":8080", "-c", "conf.json"},
		},
		{
			name:         "empty args",
			args:         []string{},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestConfigFileFlags(t *testing.T) {
	t.Run("short -c with value", func(t *testing.T) {
		got := ConfigFileFlags([]string{"-c", "/path/short.json"})
		assert.Equal(t, "/path/short.json", got.JSON)
		assert.Empty(t, got.DotEnv)
	})

	t.Run("long -config and env file", func(t *testing.T) {
		got := ConfigFileFlags([]string{"-a", ":9000", "-config", "/path/long.json", "-env-file", ".env.local"})
		assert.Equal(t, ConfigFiles{JSON: "/path/long.json", DotEnv: ".env.local"}, got)
	})

	t.Run("unknown flags are ignored", func(t *testing.T) {
		assert.Equal(t, ConfigFiles{}, ConfigFileFlags([]string{"-x", "1", "-y", "2"}))
	})

	t.Run("last wins", func(t *testing.T) {
		got := ConfigFileFlags([]string{"-c", "/path/1.json", "-config", "/path/2.json"})
		assert.Equal(t, "/path/2.json", got.JSON)
	})
}
