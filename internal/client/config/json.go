package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/deckexc/internal/flagx"
	"github.com/dmitrijs2005/deckexc/internal/timex"
)

// JsonConfig is the on-disk shape of the client configuration file.
type JsonConfig struct {
	ServerURL      *string         `json:"server_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	SessionFile    *string         `json:"session_file"`
}

// parseJson overlays values from the file named by -c / -config. Read or
// decode failures panic.
func parseJson(cfg *Config) {
	path := flagx.JSONConfigPath()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != nil {
		cfg.ServerURL = *jc.ServerURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.SessionFile != nil {
		cfg.SessionFile = *jc.SessionFile
	}
}
