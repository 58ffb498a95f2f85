// Package flagx lets several components parse their own subset of the
// command line without tripping over each other's flags.
package flagx

import (
	"flag"
	"strings"
)

// FilterArgs keeps only the allowed flags from args, together with their
// values. Both "-f value" and "-f=value" forms are recognized; a following
// argument that starts with "-" is never taken as a value.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// ConfigFiles holds the file locations passed on the command line.
type ConfigFiles struct {
	JSON   string
	DotEnv  string
}

// ConfigFileFlags extracts -c/-config (JSON config) and -env-file (.env
// file) from args, ignoring every other flag.
func ConfigFileFlags(args []string) ConfigFiles {
	var files ConfigFiles

	filtered := FilterArgs(args, []string{"-c", "-config", "-env-file"})

	fs := flag.NewFlagSet("config-files", flag.ContinueOnError)
	fs.StringVar(&files.JSON, "config", "", "Path to JSON config file")
	fs.StringVar(&files.JSON, "c", "", "Path to JSON config file (short)")
	fs.StringVar(&files.DotEnv, "env-file", "", "Path to .env file")
	_ = fs.Parse(filtered)

	return files
}
