package config

import (
	"github.com/podhmo/typenode/internal/loader"
	"github.com/podhmo/typenode/internal/report"
)

// Config holds the settings shared by every typenode subcommand,
// typically derived from its command-line arguments.
type Config struct {
	Dir     string   `help:"Directory of the target package." short:"C" default:"." type:"existingdir"`
	Tags    []string `help:"Build tags used when loading the package." sep:","`
	Format  string   `help:"Output format (json or yaml)." short:"f" enum:"json,yaml" default:"json"`
	Verbose bool     `help:"Enable debug logging." short:"v" env:"DEBUG"`
}

// LoaderConfig returns the loader settings for the target package.
func (c *Config) LoaderConfig() loader.Config {
	return loader.Config{Dir: c.Dir, BuildTags: c.Tags}
}

// OutputFormat returns the report encoding chosen by Format.
func (c *Config) OutputFormat() report.Format {
	if c.Format == "" {
		return report.FormatJSON
	}
	return report.Format(c.Format)
}
