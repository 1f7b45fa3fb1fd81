package kiln

import (
	"sync/atomic"

	"github.com/xraph/go-utils/log"
)

// chain is the list of service types currently being resolved by one call,
// innermost last. It is immutable so concurrent resolutions never share it.
type chain struct {
	id     TypeID
	parent *chain
}

func (c *chain) contains(id TypeID) bool {
	for n := c; n != nil; n = n.parent {
		if n.id.Equal(id) {
			return true
		}
	}

	return false
}

// path renders the chain outermost first, followed by id.
func (c *chain) path(id TypeID) []string {
	var reversed []string
	for n := c; n != nil; n = n.parent {
		reversed = append(reversed, n.id.String())
	}

	path := make([]string, 0, len(reversed)+1)
	for i := len(reversed) - 1; i >= 0; i-- {
		path = append(path, reversed[i])
	}

	return append(path, id.String())
}

// resolution is the Resolver handed to factories and constructors. While the
// build it serves is running it carries the call chain, so nested lookups,
// including a Lazy.Get made from inside a constructor, detect cycles instead
// of waiting on the entry being built. Once the build returns the chain is
// released and later lookups start fresh.
type resolution struct {
	provider *Provider
	chain    *chain
	released atomic.Bool
}

func newResolution(p *Provider, c *chain) *resolution {
	return &resolution{provider: p, chain: c}
}

// current returns the call chain, or nil after release.
func (r *resolution) current() *chain {
	if r.released.Load() {
		return nil
	}

	return r.chain
}

func (r *resolution) release() {
	r.released.Store(true)
}

// GetService implements Resolver.
func (r *resolution) GetService(id TypeID) (any, error) {
	instance, _, err := r.provider.resolve(id, r.current())

	return instance, err
}

// Lookup implements Resolver.
func (r *resolution) Lookup(id TypeID) (any, bool, error) {
	return r.provider.resolve(id, r.current())
}

// GetService returns the instance registered for id, building it if its
// lifetime requires. An unregistered id yields (nil, nil).
func (p *Provider) GetService(id TypeID) (any, error) {
	instance, _, err := p.resolve(id, nil)

	return instance, err
}

// Lookup is GetService with an explicit found result.
func (p *Provider) Lookup(id TypeID) (any, bool, error) {
	return p.resolve(id, nil)
}

// GetRequiredService is GetService that reports an unregistered id as
// ErrServiceNotFound.
func (p *Provider) GetRequiredService(id TypeID) (any, error) {
	instance, found, err := p.resolve(id, nil)
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, ErrServiceNotFound(id)
	}

	return instance, nil
}

// resolve runs middleware and metrics around dispatch.
func (p *Provider) resolve(id TypeID, c *chain) (any, bool, error) {
	if p.store.isClosed() {
		return nil, false, ErrScopeDisposed
	}

	if err := p.middleware.beforeResolve(id); err != nil {
		return nil, false, err
	}

	instance, found, err := p.dispatch(id, c)

	p.metrics.resolved(err)

	if mwErr := p.middleware.afterResolve(id, instance, err); mwErr != nil {
		return nil, false, mwErr
	}

	return instance, found, err
}

// dispatch finds the descriptor for id and applies its lifetime.
func (p *Provider) dispatch(id TypeID, c *chain) (any, bool, error) {
	if id.Equal(ScopeFactoryType) || id.Equal(ResolverType) {
		return p, true, nil
	}

	// An open definition names no concrete type to build.
	if id.IsDefinition() {
		return nil, false, nil
	}

	d, args, ok := p.registry.lookup(id)
	if !ok {
		return nil, false, nil
	}

	if c.contains(id) {
		return nil, false, ErrCircularDependency(c.path(id))
	}

	next := &chain{id: id, parent: c}

	// Prebuilt instances belong to whoever registered them.
	own := d.Instance == nil

	var (
		instance any
		err      error
	)

	switch d.Lifetime {
	case Singleton:
		root := p.root
		instance, err = root.store.getOrCreate(id.Key(), own, func() (any, error) {
			return root.build(id, d, args, next)
		})
	case Scoped:
		instance, err = p.store.getOrCreate(id.Key(), own, func() (any, error) {
			return p.build(id, d, args, next)
		})
	case Transient:
		instance, err = p.build(id, d, args, next)
		if err == nil {
			err = p.store.track(instance, nil, own)
		}
	default:
		err = ErrInvalidDescriptor(id, "unknown lifetime "+d.Lifetime.String())
	}

	if err != nil {
		return nil, false, err
	}

	return instance, true, nil
}

// build runs the descriptor's implementation source for id. args carries the
// concrete type arguments when d is a generic definition.
func (p *Provider) build(id TypeID, d Descriptor, args []TypeID, c *chain) (any, error) {
	r := newResolution(p, c)
	defer r.release()

	var (
		instance any
		err      error
	)

	switch {
	case d.Open != nil:
		impl, bindErr := d.Open(args)
		if bindErr != nil {
			return nil, wrapServiceError(id, "bind", bindErr)
		}

		if impl == nil || len(impl.Constructors) == 0 {
			return nil, ErrInvalidDescriptor(id, "open implementation bound no constructors")
		}

		instance, err = impl.construct(id, r)
	case d.Implementation != nil:
		instance, err = d.Implementation.construct(id, r)
	case d.Factory != nil:
		instance, err = d.Factory(r)
	case d.Instance != nil:
		return d.Instance, nil
	default:
		return nil, ErrInvalidDescriptor(id, "no implementation source")
	}

	if err != nil {
		return nil, wrapServiceError(id, "construct", err)
	}

	p.metrics.constructed()

	p.logger.Debug("service constructed",
		log.String("service", id.String()),
		log.String("lifetime", d.Lifetime.String()),
		log.String("source", d.source()),
		log.String("scope", p.id),
	)

	return instance, nil
}

// canResolve reports, without constructing anything, whether id would be
// found by dispatch.
func (p *Provider) canResolve(id TypeID) bool {
	if id.Equal(ScopeFactoryType) || id.Equal(ResolverType) {
		return true
	}

	return !id.IsDefinition() && p.registry.Has(id)
}

// wrapServiceError wraps errors raised by user code; errors that already
// carry one of this package's codes pass through unchanged.
func wrapServiceError(id TypeID, operation string, err error) error {
	if isKilnError(err) {
		return err
	}

	return NewServiceError(id, operation, err)
}
