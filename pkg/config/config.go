// Package config holds the settings that assemble a scanner and resolver.
// Settings come from a YAML or Starlark file and from command line flags.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/stackb/autoloader/pkg/logger"
	"github.com/stackb/autoloader/pkg/resolver"
	"github.com/stackb/autoloader/pkg/scan"
	"github.com/stackb/autoloader/pkg/starlarkeval"
)

// Config describes a resolver.
type Config struct {
	// ID is the identity of the resolver in a chain.
	ID string `yaml:"id,omitempty"`
	// Roots are the directories to scan, in order.
	Roots []string `yaml:"roots"`
	// Excludes are subtrees of the roots that are never scanned.
	Excludes []string `yaml:"excludes,omitempty"`
	// Pattern is the doublestar pattern matched against file names.
	Pattern string `yaml:"pattern,omitempty"`
	// Extensions is a shortcut for Pattern.  Pattern wins if both are set.
	Extensions []string `yaml:"extensions,omitempty"`
	// CacheFile is the persistent index (.json, .pb or .pbtext).
	CacheFile string `yaml:"cache_file,omitempty"`
	// ScanPolicy is "always", "once" or "never".
	ScanPolicy string `yaml:"scan_policy,omitempty"`
	// NegativeCache enables tombstones.  Unset means enabled.
	NegativeCache *bool `yaml:"negative_cache,omitempty"`
	// LogLevel is a zerolog level name.
	LogLevel string `yaml:"log_level,omitempty"`

	// dir is the directory relative paths are resolved against.
	dir string
}

// Load reads a configuration file, choosing the format by extension.
func Load(filename string) (*Config, error) {
	switch filepath.Ext(filename) {
	case ".yaml", ".yml":
		return LoadYAML(filename)
	case ".star", ".bzl":
		return LoadStarlark(filename, zerolog.Nop())
	}
	return nil, fmt.Errorf("unknown config file type: %s (want .yaml, .yml or .star)", filename)
}

// LoadYAML reads a YAML configuration file.  Unknown keys are an error.
func LoadYAML(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}
	c.dir = filepath.Dir(filename)

	return &c, nil
}

// LoadStarlark evaluates a Starlark configuration file.  Settings are read
// from globals with the same names as the YAML keys.  print() output goes to
// the logger.
func LoadStarlark(filename string, log zerolog.Logger) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filename, err)
	}
	defer f.Close()

	interpreter := starlarkeval.NewInterpreter(logger.Printf(log))
	if err := interpreter.Exec(filename, f); err != nil {
		return nil, fmt.Errorf("failed to evaluate config file %s: %w", filename, err)
	}

	c := &Config{dir: filepath.Dir(filename)}
	for _, s := range []struct {
		name string
		dst  *string
	}{
		{"id", &c.ID},
		{"pattern", &c.Pattern},
		{"cache_file", &c.CacheFile},
		{"scan_policy", &c.ScanPolicy},
		{"log_level", &c.LogLevel},
	} {
		if value, ok, err := interpreter.String(s.name); err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		} else if ok {
			*s.dst = value
		}
	}
	for _, s := range []struct {
		name string
		dst  *[]string
	}{
		{"roots", &c.Roots},
		{"excludes", &c.Excludes},
		{"extensions", &c.Extensions},
	} {
		if values, ok, err := interpreter.Strings(s.name); err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		} else if ok {
			*s.dst = values
		}
	}
	if value, ok, err := interpreter.Bool("negative_cache"); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	} else if ok {
		c.NegativeCache = &value
	}

	return c, nil
}

// Overlay copies the settings present in other over c.  List settings are
// appended.
func (c *Config) Overlay(other *Config) {
	c.Roots = append(c.Roots, other.Roots...)
	c.Excludes = append(c.Excludes, other.Excludes...)
	c.Extensions = append(c.Extensions, other.Extensions...)
	for _, s := range []struct {
		dst *string
		src string
	}{
		{&c.ID, other.ID},
		{&c.Pattern, other.Pattern},
		{&c.CacheFile, other.CacheFile},
		{&c.ScanPolicy, other.ScanPolicy},
		{&c.LogLevel, other.LogLevel},
	} {
		if s.src != "" {
			*s.dst = s.src
		}
	}
	if other.NegativeCache != nil {
		enabled := *other.NegativeCache
		c.NegativeCache = &enabled
	}
}

// Dir returns the directory relative paths are resolved against; empty for
// the working directory.
func (c *Config) Dir() string {
	return c.dir
}

// Validate checks the settings that are parsed later.
func (c *Config) Validate() error {
	if _, err := c.Policy(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if len(c.Roots) == 0 {
		return fmt.Errorf("no roots configured")
	}
	return nil
}

// Policy parses ScanPolicy.  The empty string means resolver.ScanAlways.
func (c *Config) Policy() (resolver.ScanPolicy, error) {
	if c.ScanPolicy == "" {
		return resolver.ScanAlways, nil
	}
	return resolver.ParseScanPolicy(c.ScanPolicy)
}

// Level parses LogLevel.
func (c *Config) Level() (zerolog.Level, error) {
	return logger.ParseLevel(c.LogLevel)
}

// NegativeCacheEnabled reports whether tombstones are enabled.
func (c *Config) NegativeCacheEnabled() bool {
	return c.NegativeCache == nil || *c.NegativeCache
}

// NewScanner builds a scanner over the configured roots.
func (c *Config) NewScanner(options ...scan.Option) (*scan.Scanner, error) {
	s := scan.New(options...)
	switch {
	case c.Pattern != "":
		if err := s.SetMatchPattern(c.Pattern); err != nil {
			return nil, err
		}
	case len(c.Extensions) > 0:
		if err := s.SetAllowedExtensions(c.Extensions...); err != nil {
			return nil, err
		}
	}
	for _, root := range c.Roots {
		if err := s.AddRoot(c.path(root)); err != nil {
			return nil, err
		}
	}
	for _, exclude := range c.Excludes {
		if err := s.ExcludeRoot(c.path(exclude)); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// NewResolver builds a resolver with the configured options followed by the
// given ones.
func (c *Config) NewResolver(scanner resolver.Scanner, loader resolver.Loader, options ...resolver.Option) (*resolver.Resolver, error) {
	policy, err := c.Policy()
	if err != nil {
		return nil, err
	}
	opts := []resolver.Option{
		resolver.WithScanPolicy(policy),
		resolver.WithNegativeCache(c.NegativeCacheEnabled()),
	}
	if c.ID != "" {
		opts = append(opts, resolver.WithID(c.ID))
	}
	if c.CacheFile != "" {
		opts = append(opts, resolver.WithCacheFile(c.path(os.ExpandEnv(c.CacheFile))))
	}
	return resolver.New(scanner, loader, append(opts, options...)...), nil
}

func (c *Config) path(p string) string {
	if filepath.IsAbs(p) || c.dir == "" {
		return p
	}
	return filepath.Join(c.dir, p)
}
