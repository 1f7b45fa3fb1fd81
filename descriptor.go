package kiln

import (
	"fmt"
	"slices"
)

// Lifetime governs how resolved instances are reused.
type Lifetime int

const (
	// Singleton instances are created once per scope tree and cached in the root.
	Singleton Lifetime = iota
	// Scoped instances are created once per scope.
	Scoped
	// Transient instances are created on every resolution.
	Transient
)

// String returns the lowercase lifetime name.
func (l Lifetime) String() string {
	switch l {
	case Singleton:
		return "singleton"
	case Scoped:
		return "scoped"
	case Transient:
		return "transient"
	default:
		return fmt.Sprintf("lifetime(%d)", int(l))
	}
}

// valid reports whether l is one of the declared lifetimes.
func (l Lifetime) valid() bool {
	return l == Singleton || l == Scoped || l == Transient
}

// Factory builds a service instance. The resolver resolves further
// dependencies within the scope the instance is being created for.
type Factory func(r Resolver) (any, error)

// OpenImplementation binds a generic definition to concrete type arguments
// and returns the implementation to construct for that parameterization.
type OpenImplementation func(args []TypeID) (*Implementation, error)

// Descriptor binds a service type to exactly one implementation source and a
// lifetime. Descriptors are values; the registry copies them on construction.
type Descriptor struct {
	ServiceType TypeID
	Lifetime    Lifetime

	// Exactly one of the following is set.
	Instance       any
	Factory        Factory
	Implementation *Implementation
	Open           OpenImplementation
}

// source names the implementation source kind, for diagnostics.
func (d Descriptor) source() string {
	switch {
	case d.Open != nil:
		return "open"
	case d.Implementation != nil:
		return "implementation"
	case d.Factory != nil:
		return "factory"
	case d.Instance != nil:
		return "instance"
	default:
		return "none"
	}
}

// validate enforces the exactly-one-source invariant and the pairing of
// generic definitions with open implementations.
func (d Descriptor) validate() error {
	if d.ServiceType.IsZero() {
		return ErrInvalidDescriptor(d.ServiceType, "service type is empty")
	}

	if !d.Lifetime.valid() {
		return ErrInvalidDescriptor(d.ServiceType, "unknown lifetime "+d.Lifetime.String())
	}

	sources := 0
	for _, set := range []bool{d.Instance != nil, d.Factory != nil, d.Implementation != nil, d.Open != nil} {
		if set {
			sources++
		}
	}

	if sources != 1 {
		return ErrInvalidDescriptor(d.ServiceType, fmt.Sprintf("expected exactly one implementation source, got %d", sources))
	}

	if d.ServiceType.IsDefinition() != (d.Open != nil) {
		return ErrInvalidDescriptor(d.ServiceType, "generic definitions require an open implementation and vice versa")
	}

	if d.Implementation != nil && len(d.Implementation.Constructors) == 0 {
		return ErrInvalidDescriptor(d.ServiceType, "implementation declares no constructors")
	}

	if d.Implementation != nil {
		for i, c := range d.Implementation.Constructors {
			if c.New == nil {
				return ErrInvalidDescriptor(d.ServiceType, fmt.Sprintf("constructor %d has no New function", i))
			}
		}
	}

	return nil
}

// Constructor is one constructible form of an implementation: the parameters
// it needs and the function that builds the instance from resolved arguments.
type Constructor struct {
	Params []Param
	New    func(args []any) (any, error)
}

// Implementation is a constructible type with one or more constructors.
type Implementation struct {
	// Name is used in errors and logs.
	Name         string
	Constructors []Constructor
}

// NewImplementation returns an implementation with the given constructors.
func NewImplementation(name string, ctors ...Constructor) *Implementation {
	return &Implementation{
		Name:         name,
		Constructors: ctors,
	}
}

// candidates orders constructors most-specific first. Ties keep their
// declaration order.
func (impl *Implementation) candidates() []Constructor {
	ordered := slices.Clone(impl.Constructors)
	slices.SortStableFunc(ordered, func(a, b Constructor) int {
		return len(b.Params) - len(a.Params)
	})

	return ordered
}
