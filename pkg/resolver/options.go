package resolver

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// ScanPolicy controls when a cache miss may trigger a scan pass.
type ScanPolicy int

const (
	// ScanAlways lets every miss trigger a pass.
	ScanAlways ScanPolicy = iota
	// ScanOnce allows one miss-triggered pass for the lifetime of the
	// resolver.
	ScanOnce
	// ScanNever never scans on a miss; only Refresh and Generate scan.
	ScanNever
)

var scanPolicyNames = map[ScanPolicy]string{
	ScanAlways: "always",
	ScanOnce:   "once",
	ScanNever:  "never",
}

// String implements fmt.Stringer
func (p ScanPolicy) String() string {
	if name, ok := scanPolicyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("ScanPolicy(%d)", int(p))
}

// ParseScanPolicy parses "always", "once" or "never".
func ParseScanPolicy(value string) (ScanPolicy, error) {
	for policy, name := range scanPolicyNames {
		if strings.EqualFold(name, value) {
			return policy, nil
		}
	}
	return ScanAlways, fmt.Errorf("unknown scan policy %q (want always, once or never)", value)
}

// DefaultID is the chain identity used when none is configured.
const DefaultID = "autoloader"

type Option func(*Resolver) *Resolver

// WithID sets the identity of the resolver in the host chain.
func WithID(id string) Option {
	return func(r *Resolver) *Resolver {
		r.id = id
		return r
	}
}

// WithChain makes the resolver keep itself last in the host chain.
func WithChain(chain Chain) Option {
	return func(r *Resolver) *Resolver {
		r.chain = chain
		return r
	}
}

// WithCacheFile loads the index from the file at construction and persists it
// after successful scan passes.
func WithCacheFile(filename string) Option {
	return func(r *Resolver) *Resolver {
		r.cacheFile = filename
		return r
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Resolver) *Resolver {
		r.logger = logger
		return r
	}
}

// WithScanPolicy sets the scan policy.
func WithScanPolicy(policy ScanPolicy) Option {
	return func(r *Resolver) *Resolver {
		r.policy = policy
		return r
	}
}

// WithNegativeCache enables or disables tombstones for names not found by a
// scan pass.  Enabled by default.
func WithNegativeCache(enabled bool) Option {
	return func(r *Resolver) *Resolver {
		r.negativeCache = enabled
		return r
	}
}

// WithExtractFunc replaces the function used to read declarations from a
// file.
func WithExtractFunc(fn ExtractFunc) Option {
	return func(r *Resolver) *Resolver {
		r.extract = fn
		return r
	}
}
