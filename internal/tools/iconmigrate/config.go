// Package iconmigrate rewrites icon imports from the old component libraries
// to the target library across a source tree.
package iconmigrate

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/iconmigrate/internal/platform/config"
	"github.com/louisbranch/iconmigrate/internal/platform/timeouts"
)

// Config holds iconmigrate command configuration.
type Config struct {
	Root       string        `env:"ROOT" envDefault:"."`
	Extensions []string      `env:"EXTENSIONS" envDefault:".tsx,.ts,.jsx,.js" envSeparator:","`
	Exclude    []string      `env:"EXCLUDE" envDefault:"node_modules,.git,.next,dist,build,coverage" envSeparator:","`
	Mapping    string        `env:"MAPPING"`
	Strict     bool          `env:"STRICT" envDefault:"true"`
	Timeout    time.Duration `env:"TIMEOUT"`
	Locale     string        `env:"LOCALE" envDefault:"en-US"`
	DryRun     bool
	Diff       bool
	JSONOutput bool
	Verbose    bool
}

// ParseConfig loads environment defaults and then parses flags. The root may
// also be given as the single positional argument.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(config.EnvPrefix, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = timeouts.Run
	}

	extensions := strings.Join(cfg.Extensions, ",")
	exclude := strings.Join(cfg.Exclude, ",")
	fs.StringVar(&cfg.Root, "root", cfg.Root, "directory to migrate; ICONMIGRATE_ROOT sets the default")
	fs.StringVar(&extensions, "ext", extensions, "comma-separated file extensions to scan")
	fs.StringVar(&exclude, "exclude", exclude, "comma-separated directory names to skip")
	fs.StringVar(&cfg.Mapping, "mapping", cfg.Mapping, "mapping table override (.toml, .yaml or .yml)")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "report planned changes without writing files")
	fs.BoolVar(&cfg.Diff, "diff", false, "print a unified diff for every planned change")
	fs.BoolVar(&cfg.Strict, "strict", cfg.Strict, "write nothing when any file has issues")
	fs.BoolVar(&cfg.JSONOutput, "json", false, "output a JSON report")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "log every scanned file")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "overall timeout")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "locale for issue messages and the summary")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	switch fs.NArg() {
	case 0:
	case 1:
		rootSet := false
		fs.Visit(func(f *flag.Flag) {
			if f.Name == "root" {
				rootSet = true
			}
		})
		if rootSet {
			return Config{}, errors.New("root given both as -root and as an argument")
		}
		cfg.Root = fs.Arg(0)
	default:
		return Config{}, fmt.Errorf("expected at most one root argument, got %d", fs.NArg())
	}

	cfg.Extensions = normalizeExtensions(splitCSV(extensions))
	cfg.Exclude = splitCSV(exclude)
	if len(cfg.Extensions) == 0 {
		return Config{}, errors.New("-ext must list at least one extension")
	}
	if cfg.Timeout <= 0 {
		return Config{}, errors.New("-timeout must be > 0")
	}
	return cfg, nil
}

func splitCSV(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}
