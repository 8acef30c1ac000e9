package resolver

import (
	"fmt"

	"github.com/stackb/autoloader/pkg/scan"
	"github.com/stackb/autoloader/pkg/symbol"
)

// ErrNoCacheFile is returned by Generate when the resolver has no cache file.
var ErrNoCacheFile = fmt.Errorf("no cache file configured")

// Loader is implemented by the host environment.  It knows how to bring the
// declarations of a source file into the running process and which symbols
// are currently defined.
type Loader interface {
	// Load makes the declarations of the file at location available.  The
	// resolver calls Load at most once per location unless it fails.
	Load(location string) error
	// Defined reports whether the host currently knows the symbol.
	Defined(name symbol.Name) bool
}

// Chain is the resolver's view of the host's ordered list of resolvers.  It
// is bound to one resolver: MoveSelfToTail moves that resolver.
type Chain interface {
	// CurrentOrder returns the identities of the registered resolvers in the
	// order they are tried.
	CurrentOrder() []string
	// MoveSelfToTail detaches the bound resolver and appends it at the end.
	// It never creates a duplicate entry.
	MoveSelfToTail() error
	// InvokeResolverAt calls the resolver at index with the requested name.
	InvokeResolverAt(index int, name string)
}

// Scanner enumerates candidate source files.  It is implemented by
// *scan.Scanner.
type Scanner interface {
	Walk(fn scan.WalkFunc, onError func(error)) error
}

// ExtractFunc returns the names declared in a file.
type ExtractFunc func(filename string) ([]symbol.Name, error)
