// Package config loads the service configuration from a TOML file.
//
// Facet-set presets live under [presets.<name>], with their facets in a
// nested [presets.<name>.facet.<id>] table:
//
//	[presets.default]
//	limit = 20
//	mincount = 1
//
//	[presets.default.facet.popularity]
//	type = "field"
//	field = "category"
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"facet-config-service/models"
)

const (
	DefaultListen = ":1234"
	DefaultIndex  = "products"
)

// Config is the service configuration.
type Config struct {
	Listen       string                            `toml:"listen"`
	MappingsFile string                            `toml:"mappings_file"`
	Index        string                            `toml:"index"`
	Verbose      bool                              `toml:"verbose"`
	Presets      map[string]map[string]interface{} `toml:"presets"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Listen:  DefaultListen,
		Index:   DefaultIndex,
		Presets: map[string]map[string]interface{}{},
	}
}

// Load reads a TOML file on top of Default. An empty path returns Default.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	if err := Parse(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML into cfg and validates the result.
func Parse(data []byte, cfg *Config) error {
	if err := toml.Unmarshal(data, cfg); err != nil {
		return err
	}
	return cfg.Validate()
}

// Validate checks the fields the service cannot start without.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return errors.New("listen address must not be empty")
	}
	if c.Index == "" {
		return errors.New("index must not be empty")
	}
	return nil
}

// PresetOptions returns the presets as facet set options.
func (c *Config) PresetOptions() map[string]models.Options {
	presets := make(map[string]models.Options, len(c.Presets))
	for name, opts := range c.Presets {
		presets[name] = models.Options(opts)
	}
	return presets
}
