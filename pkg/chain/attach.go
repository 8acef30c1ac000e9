package chain

import (
	"github.com/stackb/autoloader/pkg/resolver"
)

// Attach builds a Resolver bound to this chain and registers it under id.
// Existence checks made through Exists reach the resolver as probes.
func (r *Registry) Attach(id string, scanner resolver.Scanner, loader resolver.Loader, options ...resolver.Option) *resolver.Resolver {
	options = append(options, resolver.WithID(id), resolver.WithChain(r.Member(id)))
	rslv := resolver.New(scanner, loader, options...)
	r.Register(id, func(name string, probeOnly bool) {
		if probeOnly {
			rslv.Probe(name)
		} else {
			rslv.Resolve(name)
		}
	})
	return rslv
}
