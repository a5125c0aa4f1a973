// Package config provides configuration management for the snapdiff
// CLI. Values are layered from defaults, an optional snapdiff.yaml
// file, SNAPDIFF_-prefixed environment variables, and command flags.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Default values.
const (
	DefaultFormat = "table"
	DefaultJobs   = 1
)

// Config holds all CLI configuration options.
type Config struct {
	// Format selects the output rendering: table, text, or json.
	Format string `koanf:"format"`

	// Jobs bounds how many tables are compared at once.
	Jobs int `koanf:"jobs"`

	// CountsOnly compares row counts per table without diffing content.
	CountsOnly bool `koanf:"counts_only"`

	// FailOnDiff makes the process exit non-zero when the stores are
	// not equivalent. Off by default: discrepancies are reported, not
	// treated as failures of the tool.
	FailOnDiff bool `koanf:"fail_on_diff"`

	// Verbose enables debug logging on stderr.
	Verbose bool `koanf:"verbose"`

	// Tables extends or overrides the default comparison plan:
	// table name -> ordered column list, first column is the identity key.
	Tables map[string][]string `koanf:"tables"`
}

// Track the config file that was loaded, for verbose output.
var configFileUsed string

// GetConfigFileUsed returns the path of the config file that was loaded,
// or empty if none was found.
func GetConfigFileUsed() string {
	return configFileUsed
}

// findConfigFile finds the config file to use.
// Priority: explicit path > snapdiff.yaml > snapdiff.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat("snapdiff.yaml"); err == nil {
		return "snapdiff.yaml"
	}
	if _, err := os.Stat("snapdiff.yml"); err == nil {
		return "snapdiff.yml"
	}
	return ""
}

// Load loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"format":       DefaultFormat,
		"jobs":         DefaultJobs,
		"counts_only":  false,
		"fail_on_diff": false,
		"verbose":      false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Load environment variables (SNAPDIFF_ prefix)
	// Transform: SNAPDIFF_FAIL_ON_DIFF -> fail_on_diff
	if err := k.Load(env.Provider("SNAPDIFF_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "SNAPDIFF_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			// Transform kebab-case to snake_case for config keys
			key := strings.ReplaceAll(f.Name, "-", "_")
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks configuration values that cannot be checked later.
func (c *Config) Validate() error {
	switch c.Format {
	case "table", "text", "json":
	default:
		return fmt.Errorf("invalid format %q (expected table, text, or json)", c.Format)
	}
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}
	return nil
}
