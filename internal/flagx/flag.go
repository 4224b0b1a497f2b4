// Package flagx helps several independent flag sets share os.Args: each
// consumer filters argv down to the flags it owns before parsing.
package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// FilterArgs keeps only the allowed flags from args, together with their
// values. Both "-f value" and "-f=value" forms are recognised; a following
// argument that starts with "-" is never consumed as a value.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; !ok {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// LookupString parses a single string flag known under several names out of
// args, ignoring everything else. The last occurrence wins; "" when absent.
func LookupString(args []string, names ...string) string {
	var value string

	allowed := make([]string, 0, len(names))
	fs := flag.NewFlagSet("lookup", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	for _, n := range names {
		allowed = append(allowed, "-"+n)
		fs.StringVar(&value, n, "", n)
	}

	_ = fs.Parse(FilterArgs(args, allowed))
	return value
}

// JSONConfigPath returns the JSON config file given with -c or -config.
func JSONConfigPath() string {
	return LookupString(os.Args[1:], "c", "config")
}

// EnvFilePath returns the dotenv file given with -env.
func EnvFilePath() string {
	return LookupString(os.Args[1:], "env")
}
