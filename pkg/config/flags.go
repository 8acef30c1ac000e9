package config

import (
	"flag"
	"strconv"

	"github.com/stackb/autoloader/pkg/collections"
)

const (
	idFlagName            = "id"
	rootFlagName          = "root"
	excludeFlagName       = "exclude"
	patternFlagName       = "pattern"
	extensionFlagName     = "ext"
	cacheFileFlagName     = "cache_file"
	scanPolicyFlagName    = "scan_policy"
	negativeCacheFlagName = "negative_cache"
	logLevelFlagName      = "log_level"
)

// RegisterFlags binds the settings to flags.  Repeatable flags append to the
// lists already in c.
func (c *Config) RegisterFlags(flags *flag.FlagSet) {
	flags.StringVar(&c.ID, idFlagName, c.ID, "identity of the resolver in the chain")
	flags.Var((*collections.StringSlice)(&c.Roots), rootFlagName, "directory to scan (repeatable, scanned in order)")
	flags.Var((*collections.StringSlice)(&c.Excludes), excludeFlagName, "subtree of a root to skip (repeatable)")
	flags.StringVar(&c.Pattern, patternFlagName, c.Pattern, "doublestar pattern matched against file names (default \"*.{php,inc}\")")
	flags.Var((*collections.StringSlice)(&c.Extensions), extensionFlagName, "file extension to scan (repeatable); ignored if -pattern is set")
	flags.StringVar(&c.CacheFile, cacheFileFlagName, c.CacheFile, "optional path a cache file (.json, .pb or .pbtext)")
	flags.StringVar(&c.ScanPolicy, scanPolicyFlagName, c.ScanPolicy, "when a miss may scan: always, once or never")
	flags.Var(&optionalBool{dst: &c.NegativeCache}, negativeCacheFlagName, "remember names not found by a scan (default true)")
	flags.StringVar(&c.LogLevel, logLevelFlagName, c.LogLevel, "log level (debug, info, warn, error)")
}

// optionalBool is a boolean flag that distinguishes unset from false.
type optionalBool struct {
	dst **bool
}

// String implements the flag.Value interface.
func (b *optionalBool) String() string {
	if b.dst == nil || *b.dst == nil {
		return ""
	}
	return strconv.FormatBool(**b.dst)
}

// Set implements the flag.Value interface.
func (b *optionalBool) Set(value string) error {
	v, err := strconv.ParseBool(value)
	if err != nil {
		return err
	}
	*b.dst = &v
	return nil
}

// IsBoolFlag lets the flag be given without a value.
func (b *optionalBool) IsBoolFlag() bool {
	return true
}
