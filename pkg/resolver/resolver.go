// Package resolver maps requested symbol names to the files that declare
// them.  It consults an index (optionally persisted with package cache),
// scans the registered roots on a miss and remembers names that were not
// found so repeated existence checks stay cheap.
//
// A Resolver is not safe for concurrent use.  Re-entrant calls made while a
// lookup is in progress (for example from a Loader) are supported.
package resolver

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/stackb/autoloader/pkg/cache"
	"github.com/stackb/autoloader/pkg/extract"
	"github.com/stackb/autoloader/pkg/symbol"
)

// Resolver resolves symbol names to source files.
type Resolver struct {
	id            string
	scanner       Scanner
	loader        Loader
	chain         Chain
	extract       ExtractFunc
	cacheFile     string
	policy        ScanPolicy
	negativeCache bool
	logger        zerolog.Logger

	index  *symbol.Index
	errors symbol.ErrorLog
	// loaded records the locations handed to the loader.
	loaded map[string]bool
	// passes counts completed scan passes.
	passes int
	// missPasses counts passes triggered by a cache miss.
	missPasses int
	// depth is the number of lookups in progress on the call stack.
	depth int
	// passInLookup is set once the outermost lookup in progress has run a
	// scan pass; nested lookups reuse it.
	passInLookup bool
}

// New constructs a Resolver over the given scanner.  The loader may be nil,
// in which case a cache hit is trusted without consulting a host.
func New(scanner Scanner, loader Loader, options ...Option) *Resolver {
	r := &Resolver{
		id:            DefaultID,
		scanner:       scanner,
		loader:        loader,
		extract:       extract.ExtractFile,
		negativeCache: true,
		logger:        zerolog.Nop(),
		index:         symbol.NewIndex(),
		loaded:        make(map[string]bool),
	}
	for _, opt := range options {
		r = opt(r)
	}

	if r.cacheFile != "" {
		ix, err := cache.Load(r.cacheFile)
		if err != nil {
			r.logger.Warn().Err(err).Str("cache", r.cacheFile).Msg("ignoring unreadable cache")
		}
		r.index = ix
		r.logger.Debug().Str("cache", r.cacheFile).Int("entries", ix.Len()).Msg("loaded cache")
	}

	return r
}

// ID returns the identity of the resolver in the host chain.
func (r *Resolver) ID() string {
	return r.id
}

// Resolve looks up the named symbol, scanning the registered roots on a
// cache miss.
func (r *Resolver) Resolve(name string) Outcome {
	return r.resolve(name, false)
}

// Probe looks up the named symbol for an existence check.  Unlike Resolve, a
// cache miss neither triggers a scan nor records a tombstone.
func (r *Resolver) Probe(name string) Outcome {
	return r.resolve(name, true)
}

func (r *Resolver) resolve(name string, probeOnly bool) Outcome {
	key := symbol.NewName(name)

	r.depth++
	defer func() {
		r.depth--
		if r.depth == 0 {
			r.passInLookup = false
		}
	}()

	if r.chain != nil && r.ensureLast(name, key) {
		r.logger.Debug().Str("symbol", string(key)).Msg("resolved by a later resolver in the chain")
		return Outcome{Status: Resolved, Name: key}
	}

	if entry, ok := r.index.Lookup(key); ok {
		if entry.Negative {
			return Outcome{Status: ConfirmedAbsent, Name: key}
		}
		return r.load(key, entry.Location)
	}

	if probeOnly {
		r.logger.Debug().Str("symbol", string(key)).Msg("probe miss: not scanning")
		return Outcome{Status: ConfirmedAbsent, Name: key}
	}

	return r.miss(key)
}

// miss handles a lookup for a name the index has never seen.
func (r *Resolver) miss(key symbol.Name) Outcome {
	var changed bool
	switch {
	case r.passInLookup:
		r.logger.Debug().Str("symbol", string(key)).Msg("reusing scan pass of the enclosing lookup")
	case !r.mayScan():
		r.logger.Debug().Str("symbol", string(key)).Stringer("policy", r.policy).Msg("miss: scan not allowed")
		return Outcome{Status: ConfirmedAbsent, Name: key}
	default:
		changed = r.scanPass()
		r.missPasses++
		r.passInLookup = true
	}

	errs := r.Errors()

	var outcome Outcome
	if entry, ok := r.index.Lookup(key); ok && !entry.Negative {
		outcome = r.load(key, entry.Location)
	} else if !errs.Empty() {
		outcome = Outcome{Status: UnresolvedWithErrors, Name: key, Errors: errs}
	} else {
		if r.negativeCache && r.index.MarkAbsent(key) {
			r.logger.Debug().Str("symbol", string(key)).Msg("recorded tombstone")
			changed = true
		}
		outcome = Outcome{Status: ConfirmedAbsent, Name: key}
	}

	if changed && errs.Empty() {
		r.persist()
	}
	return outcome
}

func (r *Resolver) mayScan() bool {
	switch r.policy {
	case ScanNever:
		return false
	case ScanOnce:
		return r.missPasses == 0
	}
	return true
}

// load hands the location to the loader (once) and checks that the symbol
// became defined.
func (r *Resolver) load(key symbol.Name, location string) Outcome {
	if r.loader == nil {
		return Outcome{Status: Resolved, Name: key, Location: location}
	}
	if !r.loaded[location] {
		r.loaded[location] = true
		if err := r.loader.Load(location); err != nil {
			delete(r.loaded, location)
			r.logger.Warn().Err(err).Str("symbol", string(key)).Str("location", location).Msg("load failed")
		}
	}
	if !r.loader.Defined(key) {
		r.logger.Debug().Str("symbol", string(key)).Str("location", location).Msg("location did not define symbol")
		return Outcome{Status: ConfirmedAbsent, Name: key}
	}
	return Outcome{Status: Resolved, Name: key, Location: location}
}

// ensureLast moves this resolver to the tail of the chain if needed, invoking
// the resolvers that used to follow it.  Returns true if one of them defined
// the symbol.
func (r *Resolver) ensureLast(name string, key symbol.Name) bool {
	order := r.chain.CurrentOrder()
	self := indexOf(order, r.id)
	if self < 0 || self == len(order)-1 {
		return false
	}
	followers := append([]string(nil), order[self+1:]...)

	if err := r.chain.MoveSelfToTail(); err != nil {
		r.logger.Warn().Err(err).Str("id", r.id).Msg("failed to move resolver to the end of the chain")
		return false
	}
	r.logger.Debug().Str("id", r.id).Strs("followers", followers).Msg("moved resolver to the end of the chain")

	order = r.chain.CurrentOrder()
	for _, id := range followers {
		i := indexOf(order, id)
		if i < 0 {
			continue
		}
		r.chain.InvokeResolverAt(i, name)
		if r.defined(key) {
			return true
		}
	}
	return false
}

func (r *Resolver) defined(key symbol.Name) bool {
	return r.loader != nil && r.loader.Defined(key)
}

// Refresh forces a scan pass regardless of the state of the index.  Returns
// true if any error occurred.
func (r *Resolver) Refresh() bool {
	if r.scanPass() {
		r.persist()
	}
	return !r.errors.Empty()
}

// Generate runs a scan pass and writes the cache file, even if nothing
// changed.  It fails if the pass recorded errors.
func (r *Resolver) Generate() error {
	if r.cacheFile == "" {
		return ErrNoCacheFile
	}
	r.scanPass()
	if err := r.errors.Err(); err != nil {
		return err
	}
	return cache.Save(r.cacheFile, r.index)
}

// scanPass walks every root, aggregates the declarations and merges them into
// the index.  The error log is reset first.  Returns true if the index
// changed.
func (r *Resolver) scanPass() bool {
	start := time.Now()
	r.errors = nil

	agg := symbol.NewAggregator()
	var files int
	err := r.scanner.Walk(func(path string) error {
		files++
		names, err := r.extract(path)
		if err != nil {
			agg.AddError(err)
			return nil
		}
		agg.Add(path, names)
		return nil
	}, agg.AddError)
	if err != nil {
		agg.AddError(err)
	}

	fresh, errs := agg.Result()
	changed := r.index.Merge(fresh)
	r.errors = errs
	r.passes++

	event := r.logger.Debug()
	if !errs.Empty() {
		event = r.logger.Warn().Strs("errors", errs.Strings())
	}
	event.
		Int("files", files).
		Int("symbols", len(fresh)).
		Bool("changed", changed).
		Dur("elapsed", time.Since(start)).
		Msg("scan pass")

	return changed
}

// persist saves the index when a cache file is configured and the last pass
// recorded no errors.  A save failure is added to the error log.
func (r *Resolver) persist() {
	if r.cacheFile == "" || !r.errors.Empty() {
		return
	}
	if err := cache.Save(r.cacheFile, r.index); err != nil {
		r.logger.Error().Err(err).Str("cache", r.cacheFile).Msg("save failed")
		r.errors.Add(err)
		return
	}
	r.logger.Debug().Str("cache", r.cacheFile).Int("entries", r.index.Len()).Msg("saved cache")
}

// Symbols returns a snapshot of the index.
func (r *Resolver) Symbols() map[symbol.Name]symbol.Entry {
	return r.index.Snapshot()
}

// Errors returns a copy of the error log of the last scan pass.
func (r *Resolver) Errors() symbol.ErrorLog {
	return append(symbol.ErrorLog(nil), r.errors...)
}

// Stats summarizes the state of a Resolver.
type Stats struct {
	// Passes is the number of completed scan passes.
	Passes int
	// Symbols is the number of names with a location.
	Symbols int
	// Tombstones is the number of names recorded as absent.
	Tombstones int
}

// Stats returns counters describing the resolver.
func (r *Resolver) Stats() Stats {
	stats := Stats{Passes: r.passes}
	for _, entry := range r.index.Snapshot() {
		if entry.Negative {
			stats.Tombstones++
		} else {
			stats.Symbols++
		}
	}
	return stats
}

func indexOf(list []string, value string) int {
	for i, v := range list {
		if v == value {
			return i
		}
	}
	return -1
}
