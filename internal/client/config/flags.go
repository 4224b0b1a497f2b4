package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/deckexc/internal/flagx"
)

// parseFlags reads -a (server URL), -t (request timeout in seconds) and -s
// (session file).
// Other arguments are filtered out so they do not trip the flag set.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-s"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the auth server")
	fs.StringVar(&cfg.SessionFile, "s", cfg.SessionFile, "session file")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.ServerURL = strings.TrimRight(cfg.ServerURL, "/")
	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
