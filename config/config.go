// Package config loads display settings for the mapping engine and its
// viewer from TOML or YAML files, with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "DMVIEW_"

// Config holds display settings.
type Config struct {
	// WrapWidth is the soft-wrap width in cells. 0 disables wrapping;
	// -1 means wrap to the viewer width.
	WrapWidth int `toml:"wrap_width" yaml:"wrap_width"`

	// TabWidth is the tab stop width in cells.
	TabWidth int `toml:"tab_width" yaml:"tab_width"`

	// WordWrap controls whether soft breaks prefer word boundaries.
	WordWrap bool `toml:"word_wrap" yaml:"word_wrap"`

	// FoldScan selects the fold-candidate scanner: "brace", "indent"
	// or "off".
	FoldScan string `toml:"fold_scan" yaml:"fold_scan"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		WrapWidth: -1,
		TabWidth:  4,
		WordWrap:  true,
		FoldScan:  "brace",
	}
}

// Load reads configuration from the given path, dispatching on extension
// (.toml, .yaml, .yml), applies environment overrides and validates. An
// empty path or a missing file yields the defaults plus env overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("reading config file %s: %w", path, err)
			}
		} else if err := unmarshal(path, data, &cfg); err != nil {
			return cfg, err
		}
	}

	cfg.applyEnv()
	cfg.validate()
	return cfg, nil
}

// unmarshal parses config data by file extension.
func unmarshal(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q (want .toml, .yaml or .yml)", filepath.Ext(path))
	}
	return nil
}

// applyEnv overrides settings from DMVIEW_* environment variables.
// Empty values are treated as set.
func (c *Config) applyEnv() {
	if val, ok := os.LookupEnv(EnvPrefix + "WRAP_WIDTH"); ok {
		if n, err := strconv.Atoi(val); err == nil {
			c.WrapWidth = n
		}
	}
	if val, ok := os.LookupEnv(EnvPrefix + "TAB_WIDTH"); ok {
		if n, err := strconv.Atoi(val); err == nil {
			c.TabWidth = n
		}
	}
	if val, ok := os.LookupEnv(EnvPrefix + "WORD_WRAP"); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			c.WordWrap = b
		}
	}
	if val, ok := os.LookupEnv(EnvPrefix + "FOLD_SCAN"); ok {
		c.FoldScan = val
	}
}

// validate clamps out-of-range settings to usable values.
func (c *Config) validate() {
	if c.WrapWidth < -1 {
		c.WrapWidth = -1
	}
	if c.TabWidth < 1 {
		c.TabWidth = 4
	}
	switch c.FoldScan {
	case "brace", "indent", "off":
	default:
		c.FoldScan = "brace"
	}
}
