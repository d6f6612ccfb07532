// Package config loads CLI configuration for isomorph.
//
// Precedence (highest to lowest): flags > environment variables > config
// file > built-in defaults.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Defaults.
const (
	DefaultDiagramsDir = "diagrams"
	DefaultOutput      = "auto"
	DefaultExportFmt   = "yaml"
	DefaultDebounceMS  = 100
)

// envPrefix is the environment variable prefix: ISOMORPH_DIAGRAMS_DIR maps
// to diagrams_dir, ISOMORPH_WATCH__DEBOUNCE_MS to watch.debounce_ms.
const envPrefix = "ISOMORPH_"

// Config holds all CLI configuration options.
type Config struct {
	DiagramsDir string      `koanf:"diagrams_dir"`
	Output      string      `koanf:"output"`
	Verbose     bool        `koanf:"verbose"`
	Rules       RulesConfig `koanf:"rules"`
	Export      ExportCfg   `koanf:"export"`
	Watch       WatchCfg    `koanf:"watch"`
}

// RulesConfig controls which semantic rules are enforced.
type RulesConfig struct {
	// Disabled lists rule IDs whose findings are suppressed.
	Disabled []string `koanf:"disabled"`
}

// IsDisabled reports whether a rule ID is suppressed.
func (r RulesConfig) IsDisabled(id string) bool {
	for _, d := range r.Disabled {
		if strings.EqualFold(d, id) {
			return true
		}
	}
	return false
}

// ExportCfg holds defaults for the export command.
type ExportCfg struct {
	Format string `koanf:"format"`
	Out    string `koanf:"out"`
}

// WatchCfg holds settings for the watch command.
type WatchCfg struct {
	DebounceMS int `koanf:"debounce_ms"`
}

var configFileUsed string

// FileUsed returns the path of the config file that was loaded, if any.
func FileUsed() string {
	return configFileUsed
}

// findConfigFile resolves the config file path.
// Priority: explicit path > isomorph.yaml > isomorph.yml.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"isomorph.yaml", "isomorph.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load loads configuration from defaults, an optional config file,
// ISOMORPH_-prefixed environment variables, and explicitly set flags.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"diagrams_dir":      DefaultDiagramsDir,
		"output":            DefaultOutput,
		"verbose":           false,
		"export.format":     DefaultExportFmt,
		"watch.debounce_ms": DefaultDebounceMS,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	cfg := &Config{}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			TagName:          "koanf",
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}
