package kiln

import (
	"go.uber.org/multierr"
)

// Collection accumulates descriptors and builds an immutable Registry.
// It is a single-goroutine builder; registration errors are collected and
// reported by Build.
type Collection struct {
	descriptors []Descriptor
	err         error
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{}
}

// Add appends descriptors as-is.
//
// Example:
//
//	services.Add(
//	    kiln.Descriptor{ServiceType: ConfigType, Lifetime: kiln.Singleton, Instance: cfg},
//	    kiln.Descriptor{ServiceType: ClockType, Lifetime: kiln.Transient, Factory: newClock},
//	)
func (c *Collection) Add(descriptors ...Descriptor) *Collection {
	c.descriptors = append(c.descriptors, descriptors...)

	return c
}

// AddInstance registers a prebuilt singleton instance.
func (c *Collection) AddInstance(id TypeID, instance any) *Collection {
	return c.Add(Descriptor{ServiceType: id, Lifetime: Singleton, Instance: instance})
}

// AddFactory registers a factory.
func (c *Collection) AddFactory(id TypeID, lifetime Lifetime, factory Factory) *Collection {
	return c.Add(Descriptor{ServiceType: id, Lifetime: lifetime, Factory: factory})
}

// AddType registers an implementation built through constructor selection.
func (c *Collection) AddType(id TypeID, lifetime Lifetime, impl *Implementation) *Collection {
	return c.Add(Descriptor{ServiceType: id, Lifetime: lifetime, Implementation: impl})
}

// AddGeneric registers a generic definition. open is called with the type
// arguments of each closed type resolved through it.
func (c *Collection) AddGeneric(definition TypeID, lifetime Lifetime, open OpenImplementation) *Collection {
	return c.Add(Descriptor{ServiceType: definition, Lifetime: lifetime, Open: open})
}

// AddFunc registers an implementation whose constructors are Go functions;
// see ImplementationOf.
func (c *Collection) AddFunc(id TypeID, lifetime Lifetime, fns ...any) *Collection {
	impl, err := ImplementationOf(fns...)
	if err != nil {
		c.err = multierr.Append(c.err, NewServiceError(id, "register", err))

		return c
	}

	return c.AddType(id, lifetime, impl)
}

// Len returns the number of descriptors added so far.
func (c *Collection) Len() int {
	return len(c.descriptors)
}

// BuildOption configures Build.
type BuildOption func(*buildConfig)

type buildConfig struct {
	validateGraph bool
}

// ValidateGraph makes Build reject registries whose implementation
// constructors declare a dependency cycle. The check is conservative: every
// constructor of an implementation contributes edges, even ones that would
// never be selected.
func ValidateGraph() BuildOption {
	return func(b *buildConfig) {
		b.validateGraph = true
	}
}

// Build validates the descriptors and returns the registry. The collection
// can keep being used; later additions do not affect built registries.
func (c *Collection) Build(opts ...BuildOption) (*Registry, error) {
	if c.err != nil {
		return nil, c.err
	}

	cfg := &buildConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	reg, err := NewRegistry(c.descriptors)
	if err != nil {
		return nil, err
	}

	if cfg.validateGraph {
		if err := reg.Validate(); err != nil {
			return nil, err
		}
	}

	return reg, nil
}
