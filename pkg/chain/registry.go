// Package chain is an in-process resolver chain: an ordered list of resolve
// callbacks tried in turn until the requested symbol is defined.  It plays the
// role of the host runtime for resolver.Resolver.
package chain

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/stackb/autoloader/pkg/collections"
	"github.com/stackb/autoloader/pkg/resolver"
)

// ResolveFunc is a resolver callback.  It should make the named symbol
// defined if it can.  probeOnly is set for existence checks.
type ResolveFunc func(name string, probeOnly bool)

// DefinedFunc reports whether a symbol is defined.
type DefinedFunc func(name string) bool

type entry struct {
	id string
	fn ResolveFunc
}

// call tracks the resolvers already invoked while handling one Load.
type call struct {
	probeOnly bool
	invoked   map[string]bool
}

// Registry holds the ordered resolver chain.
type Registry struct {
	logger  zerolog.Logger
	defined DefinedFunc
	entries []entry
	calls   []*call
}

// NewRegistry constructs an empty chain.  defined is consulted after each
// resolver runs.
func NewRegistry(defined DefinedFunc, logger zerolog.Logger) *Registry {
	return &Registry{
		logger:  logger,
		defined: defined,
	}
}

// Register appends the resolver to the end of the chain.  Registering an id
// that is already present moves it to the end instead of adding a second
// entry.
func (r *Registry) Register(id string, fn ResolveFunc) {
	if i := r.indexOf(id); i >= 0 {
		r.entries = collections.SliceRemoveIndex(r.entries, i)
	}
	r.entries = append(r.entries, entry{id: id, fn: fn})
	r.logger.Debug().Str("id", id).Strs("order", r.Order()).Msg("registered resolver")
}

// Unregister removes the resolver.  Returns false if it was not registered.
func (r *Registry) Unregister(id string) bool {
	i := r.indexOf(id)
	if i < 0 {
		return false
	}
	r.entries = collections.SliceRemoveIndex(r.entries, i)
	return true
}

// MoveToTail moves a registered resolver to the end of the chain.
func (r *Registry) MoveToTail(id string) error {
	i := r.indexOf(id)
	if i < 0 {
		return fmt.Errorf("resolver %q is not registered", id)
	}
	e := r.entries[i]
	r.entries = append(collections.SliceRemoveIndex(r.entries, i), e)
	r.logger.Debug().Str("id", id).Strs("order", r.Order()).Msg("moved resolver to tail")
	return nil
}

// Order returns the resolver ids in the order they are tried.
func (r *Registry) Order() []string {
	ids := make([]string, len(r.entries))
	for i, e := range r.entries {
		ids[i] = e.id
	}
	return ids
}

// Load tries each resolver in order until the symbol is defined.  Resolvers
// invoked out of turn during this call (see resolver.Chain) are not invoked a
// second time.  Returns whether the symbol is defined.
func (r *Registry) Load(name string) bool {
	return r.run(name, false)
}

// Exists is like Load for an existence check: resolvers are told the lookup
// is probe-only.
func (r *Registry) Exists(name string) bool {
	return r.run(name, true)
}

func (r *Registry) run(name string, probeOnly bool) bool {
	if r.defined(name) {
		return true
	}
	c := &call{probeOnly: probeOnly, invoked: make(map[string]bool)}
	r.calls = append(r.calls, c)
	defer func() {
		r.calls = r.calls[:len(r.calls)-1]
	}()

	for _, e := range append([]entry(nil), r.entries...) {
		if c.invoked[e.id] {
			continue
		}
		c.invoked[e.id] = true
		e.fn(name, probeOnly)
		if r.defined(name) {
			return true
		}
	}
	return false
}

// Invoke calls the resolver at index.
func (r *Registry) Invoke(index int, name string) {
	if index < 0 || index >= len(r.entries) {
		r.logger.Warn().Int("index", index).Msg("invoke: index out of range")
		return
	}
	e := r.entries[index]
	var probeOnly bool
	if n := len(r.calls); n > 0 {
		r.calls[n-1].invoked[e.id] = true
		probeOnly = r.calls[n-1].probeOnly
	}
	e.fn(name, probeOnly)
}

// Member returns the resolver.Chain view bound to the resolver id.
func (r *Registry) Member(id string) resolver.Chain {
	return &member{registry: r, id: id}
}

func (r *Registry) indexOf(id string) int {
	return collections.SliceIndex(r.entries, func(e entry) bool {
		return e.id == id
	})
}

// member implements resolver.Chain for one registered resolver.
type member struct {
	registry *Registry
	id       string
}

// CurrentOrder implements part of the resolver.Chain interface.
func (m *member) CurrentOrder() []string {
	return m.registry.Order()
}

// MoveSelfToTail implements part of the resolver.Chain interface.
func (m *member) MoveSelfToTail() error {
	return m.registry.MoveToTail(m.id)
}

// InvokeResolverAt implements part of the resolver.Chain interface.
func (m *member) InvokeResolverAt(index int, name string) {
	m.registry.Invoke(index, name)
}
