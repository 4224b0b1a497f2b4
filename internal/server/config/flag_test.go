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
		initial     *Config
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd",
				"-a", "127.0.0.1:9090", "-d", "db", "-s", "secret", "-t", "60",
				"-k", "key", "-i", "iv", "-m", "4", "-o", "10", "-w", "2",
				"-x", "argon2id", "-g", "captcha", "-u", "http://verify", "-l", "debug",
			},
			initial: &Config{},
			expected: &Config{
				EndpointAddrHTTP:      "127.0.0.1:9090",
				DatabaseDSN:           "db",
				SecretKey:             "secret",
				TokenValidityDuration: time.Hour,
				EncryptionKey:         "key",
				EncryptionIV:          "iv",
				MaxFailedLogins:       4,
				LockoutDuration:       10 * time.Minute,
				RequestTimeout:        2 * time.Second,
				PasswordHasher:        "argon2id",
				CaptchaSecret:         "captcha",
				CaptchaVerifyURL:      "http://verify",
				LogLevel:              "debug",
			},
		},
		{
			name:     "unset duration flags keep sub-unit values",
			args:     []string{"cmd", "-c", "config.json", "-a", ":80"},
			initial:  &Config{RequestTimeout: 1500 * time.Millisecond, LockoutDuration: 30 * time.Second},
			expected: &Config{EndpointAddrHTTP: ":80", RequestTimeout: 1500 * time.Millisecond, LockoutDuration: 30 * time.Second},
		},
		{
			name:        "bad integer panics",
			args:        []string{"cmd", "-m", "many"},
			initial:     &Config{},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := tt.initial

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
