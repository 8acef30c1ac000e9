// Package loader provides a resolver.Loader that "loads" a source file by
// recording the symbols it declares.  It stands in for a host runtime that
// would compile or include the file.
package loader

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/stackb/autoloader/pkg/extract"
	"github.com/stackb/autoloader/pkg/symbol"
)

// OnLoadFunc is called after a file is loaded with the names it declared.  It
// may trigger further lookups.
type OnLoadFunc func(location string, names []symbol.Name)

// SourceLoader implements resolver.Loader.
type SourceLoader struct {
	logger  zerolog.Logger
	defined map[symbol.Name]string
	loaded  []string
	onLoad  OnLoadFunc
}

type Option func(*SourceLoader) *SourceLoader

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *SourceLoader) *SourceLoader {
		l.logger = logger
		return l
	}
}

// WithOnLoad registers a callback run after each successful load.
func WithOnLoad(fn OnLoadFunc) Option {
	return func(l *SourceLoader) *SourceLoader {
		l.onLoad = fn
		return l
	}
}

// New constructs an empty SourceLoader.
func New(options ...Option) *SourceLoader {
	l := &SourceLoader{
		logger:  zerolog.Nop(),
		defined: make(map[symbol.Name]string),
	}
	for _, opt := range options {
		l = opt(l)
	}
	return l
}

// Load implements part of the resolver.Loader interface.
func (l *SourceLoader) Load(location string) error {
	names, err := extract.ExtractFile(location)
	if err != nil {
		return err
	}
	for _, name := range names {
		if _, ok := l.defined[name]; !ok {
			l.defined[name] = location
		}
	}
	l.loaded = append(l.loaded, location)
	l.logger.Debug().Str("location", location).Int("symbols", len(names)).Msg("loaded")
	if l.onLoad != nil {
		l.onLoad(location, names)
	}
	return nil
}

// Defined implements part of the resolver.Loader interface.
func (l *SourceLoader) Defined(name symbol.Name) bool {
	_, ok := l.defined[name]
	return ok
}

// DefinedString is Defined for a raw, unnormalized name.
func (l *SourceLoader) DefinedString(name string) bool {
	return l.Defined(symbol.NewName(name))
}

// Define marks names as defined without loading a file, as for symbols built
// into the host.
func (l *SourceLoader) Define(location string, names ...symbol.Name) {
	for _, name := range names {
		l.defined[name] = location
	}
}

// Loaded returns the loaded locations in load order.
func (l *SourceLoader) Loaded() []string {
	return append([]string(nil), l.loaded...)
}

// DefinedNames returns the sorted defined names.
func (l *SourceLoader) DefinedNames() []symbol.Name {
	names := make([]symbol.Name, 0, len(l.defined))
	for name := range l.defined {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return names[i] < names[j]
	})
	return names
}
