package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/deckexc/internal/flagx"
	"github.com/dmitrijs2005/deckexc/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations accept
// either Go duration strings ("3m") or integer nanoseconds. Absent keys leave
// the current value untouched.
type JsonConfig struct {
	EndpointAddrHTTP      *string         `json:"endpoint_addr_http"`
	DatabaseDSN           *string         `json:"database_dsn"`
	SecretKey             *string         `json:"secret_key"`
	TokenValidityDuration *timex.Duration `json:"token_validity_duration"`
	EncryptionKey         *string         `json:"encryption_key"`
	EncryptionIV          *string         `json:"encryption_iv"`
	MaxFailedLogins       *int            `json:"max_failed_logins"`
	LockoutDuration       *timex.Duration `json:"lockout_duration"`
	RequestTimeout        *timex.Duration `json:"request_timeout"`
	PasswordHasher        *string         `json:"password_hasher"`
	CaptchaSecret         *string         `json:"captcha_secret"`
	CaptchaVerifyURL      *string         `json:"captcha_verify_url"`
	LogLevel              *string         `json:"log_level"`
}

// parseJson overlays values from the file named by -c / -config. Nothing
// happens when neither flag is given. Unreadable files or invalid JSON panic:
// a broken configuration must stop the process at startup.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JSONConfigPath()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.EncryptionKey, c.EncryptionKey)
	setString(&config.EncryptionIV, c.EncryptionIV)
	setString(&config.PasswordHasher, c.PasswordHasher)
	setString(&config.CaptchaSecret, c.CaptchaSecret)
	setString(&config.CaptchaVerifyURL, c.CaptchaVerifyURL)
	setString(&config.LogLevel, c.LogLevel)

	if c.MaxFailedLogins != nil {
		config.MaxFailedLogins = *c.MaxFailedLogins
	}
	if c.TokenValidityDuration != nil {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.LockoutDuration != nil {
		config.LockoutDuration = c.LockoutDuration.Duration
	}
	if c.RequestTimeout != nil {
		config.RequestTimeout = c.RequestTimeout.Duration
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
