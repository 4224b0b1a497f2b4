// Package config loads settings for the deckexc command-line client.
//
// Values are applied in order: built-in defaults, an optional JSON file
// selected with -c / -config, then the -a, -t and -s flags.
//
//	{
//	  "server_url": "http://127.0.0.1:3001",
//	  "request_timeout": "10s",
//	  "session_file": "deckexc-session.db"
//	}
package config

import "time"

// Config holds runtime settings for the CLI.
type Config struct {
	// ServerURL is the base URL of the auth HTTP API, without a trailing slash.
	ServerURL      string
	RequestTimeout time.Duration
	// SessionFile is the SQLite file remembering the signed-in user.
	SessionFile string
}

// LoadDefaults populates c with defaults matching a local server.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:3001"
	c.RequestTimeout = 10 * time.Second
	c.SessionFile = "deckexc-session.db"
}

// LoadConfig builds a Config from defaults, JSON and flags. Later sources
// take precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
