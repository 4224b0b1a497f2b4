package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/deckexc/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
//	-a string   HTTP bind address (e.g., ":3001")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      token validity, minutes
//	-k string   field cipher key secret
//	-i string   field cipher IV secret
//	-m int      failed logins before lockout
//	-o int      lockout window, minutes
//	-w int      request timeout, seconds
//	-x string   password hasher (bcrypt | argon2id)
//	-g string   captcha secret
//	-u string   captcha verify URL
//	-l string   log level
//
// Only these flags are taken from os.Args (see flagx.FilterArgs) so -c and
// -env can coexist on the same command line.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-k", "-i", "-m", "-o", "-w", "-x", "-g", "-u", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "JWT secret key")
	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token validity duration (in minutes)")
	fs.StringVar(&config.EncryptionKey, "k", config.EncryptionKey, "payment field encryption key")
	fs.StringVar(&config.EncryptionIV, "i", config.EncryptionIV, "payment field encryption IV")
	fs.IntVar(&config.MaxFailedLogins, "m", config.MaxFailedLogins, "failed logins before lockout")
	lockout := fs.Int("o", int(config.LockoutDuration.Minutes()), "lockout duration (in minutes)")
	timeout := fs.Int("w", int(config.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&config.PasswordHasher, "x", config.PasswordHasher, "password hasher: bcrypt or argon2id")
	fs.StringVar(&config.CaptchaSecret, "g", config.CaptchaSecret, "captcha secret, empty disables captcha")
	fs.StringVar(&config.CaptchaVerifyURL, "u", config.CaptchaVerifyURL, "captcha verify URL")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Flags carry whole units; only override when the flag was actually set.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
		case "o":
			config.LockoutDuration = time.Duration(*lockout) * time.Minute
		case "w":
			config.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
}
