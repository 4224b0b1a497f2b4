package config

import (
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/deckexc/internal/flagx"
	"github.com/joho/godotenv"
)

// parseEnv overlays values from the process environment. A dotenv file given
// with -env is loaded first; it never overrides variables already set. A
// missing default ".env" is not an error, a missing explicit file panics.
func parseEnv(config *Config) {
	if path := flagx.EnvFilePath(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else {
		_ = godotenv.Load()
	}

	envString(&config.EndpointAddrHTTP, "HTTP_ADDR")
	envString(&config.DatabaseDSN, "DATABASE_DSN")
	envString(&config.SecretKey, "JWT_SECRET")
	envString(&config.EncryptionKey, "ENCRYPTION_KEY")
	envString(&config.EncryptionIV, "ENCRYPTION_IV")
	envString(&config.PasswordHasher, "PASSWORD_HASHER")
	envString(&config.CaptchaSecret, "CAPTCHA_SECRET")
	envString(&config.CaptchaVerifyURL, "CAPTCHA_VERIFY_URL")
	envString(&config.LogLevel, "LOG_LEVEL")

	envDuration(&config.TokenValidityDuration, "JWT_EXPIRES_IN")
	envDuration(&config.LockoutDuration, "LOCKOUT_DURATION")
	envDuration(&config.RequestTimeout, "REQUEST_TIMEOUT")

	if v, ok := os.LookupEnv("MAX_FAILED_LOGINS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		config.MaxFailedLogins = n
	}
}

func envString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func envDuration(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
