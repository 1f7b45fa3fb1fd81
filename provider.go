package kiln

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/xraph/go-utils/log"
	"go.uber.org/multierr"
)

// Provider is one node of a scope tree. The root provider owns singleton
// instances; every provider owns its scoped and transient instances.
// Providers are safe for concurrent use.
type Provider struct {
	id         string
	registry   *Registry
	root       *Provider
	store      *lifetimeStore
	logger     log.Logger
	metrics    *instruments
	middleware *middlewareChain
}

// New creates the root provider of a scope tree over registry.
// A nil registry behaves as an empty one.
func New(registry *Registry, opts ...Option) *Provider {
	if registry == nil {
		registry = &Registry{index: map[string]int{}}
	}

	o := mergeOptions(opts)

	p := &Provider{
		id:         uuid.NewString(),
		registry:   registry,
		store:      newLifetimeStore(),
		logger:     o.logger,
		metrics:    newInstruments(o.metrics),
		middleware: newMiddlewareChain(o.middleware...),
	}
	p.root = p
	p.metrics.scopeOpened()

	p.logger.Debug("root provider created",
		log.String("scope", p.id),
		log.Int("descriptors", registry.Len()),
	)

	return p
}

// CreateScope returns a child scope sharing the registry and singletons of
// this provider's tree. The child starts with an empty cache.
func (p *Provider) CreateScope() *Scope {
	child := &Provider{
		id:         uuid.NewString(),
		registry:   p.registry,
		root:       p.root,
		store:      newLifetimeStore(),
		logger:     p.logger,
		metrics:    p.metrics,
		middleware: p.middleware,
	}
	child.metrics.scopeOpened()

	p.logger.Debug("scope created",
		log.String("scope", child.id),
		log.String("parent", p.id),
	)

	return &Scope{provider: child}
}

// ID returns the unique id of this scope.
func (p *Provider) ID() string {
	return p.id
}

// IsRoot reports whether p is the root of its scope tree.
func (p *Provider) IsRoot() bool {
	return p.root == p
}

// IsDisposed reports whether Dispose has been called.
func (p *Provider) IsDisposed() bool {
	return p.store.isClosed()
}

// Registry returns the registry shared by the scope tree.
func (p *Provider) Registry() *Registry {
	return p.registry
}

// Root returns the root provider of the scope tree.
func (p *Provider) Root() *Provider {
	return p.root
}

// Dispose releases every instance this scope owns, most recently created
// first. Disposing the root releases singletons; no other scope is touched.
// Only the first call has an effect. Hook errors do not stop disposal and
// are returned combined.
func (p *Provider) Dispose() error {
	owned, first := p.store.close()
	if !first {
		return nil
	}

	var errs error

	if err := p.middleware.beforeDispose(p.id); err != nil {
		errs = multierr.Append(errs, err)
	}

	for _, instance := range owned {
		if err := disposeInstance(instance); err != nil {
			p.logger.Warn("dispose hook failed",
				log.String("scope", p.id),
				log.String("instance", fmt.Sprintf("%T", instance)),
				log.Error(err),
			)

			errs = multierr.Append(errs, err)
		}
	}

	p.metrics.disposed(len(owned))
	p.metrics.scopeClosed()

	var result error
	if errs != nil {
		result = ErrDisposeFailed(p.id, errs)
	}

	p.logger.Debug("scope disposed",
		log.String("scope", p.id),
		log.Bool("root", p.IsRoot()),
		log.Int("instances", len(owned)),
	)

	if mwErr := p.middleware.afterDispose(p.id, result); mwErr != nil {
		return mwErr
	}

	return result
}
