package kiln

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Lazy wraps a dependency that is resolved on first access.
// Lazy parameters break construction cycles: the wrapped service is resolved
// in a fresh call chain after the dependent has been built.
type Lazy[T any] struct {
	resolver Resolver
	id       TypeID
	once     sync.Once
	value    T
	err      error
	resolved atomic.Bool
}

// NewLazy creates a new lazy dependency wrapper.
func NewLazy[T any](r Resolver, id TypeID) *Lazy[T] {
	return &Lazy[T]{
		resolver: r,
		id:       id,
	}
}

// Get resolves the dependency and returns it.
// The resolution happens only once; subsequent calls return the cached value.
func (l *Lazy[T]) Get() (T, error) {
	l.once.Do(func() {
		l.value, l.err = Resolve[T](l.resolver, l.id)
		if l.err == nil {
			l.resolved.Store(true)
		}
	})

	return l.value, l.err
}

// MustGet resolves the dependency and returns it, panicking on error.
func (l *Lazy[T]) MustGet() T {
	value, err := l.Get()
	if err != nil {
		panic(fmt.Sprintf("lazy dependency %s failed: %v", l.id, err))
	}

	return value
}

// IsResolved returns true if the dependency has been resolved.
func (l *Lazy[T]) IsResolved() bool {
	return l.resolved.Load()
}

// ID returns the service type of the dependency.
func (l *Lazy[T]) ID() TypeID {
	return l.id
}

// OptionalLazy wraps an optional dependency that is resolved on first access.
// Get returns the zero value without error if the service is not registered.
type OptionalLazy[T any] struct {
	resolver Resolver
	id       TypeID
	once     sync.Once
	value    T
	err      error
	resolved atomic.Bool
	found    atomic.Bool
}

// NewOptionalLazy creates a new optional lazy dependency wrapper.
func NewOptionalLazy[T any](r Resolver, id TypeID) *OptionalLazy[T] {
	return &OptionalLazy[T]{
		resolver: r,
		id:       id,
	}
}

// Get resolves the dependency and returns it.
func (l *OptionalLazy[T]) Get() (T, error) {
	l.once.Do(func() {
		value, found, err := TryResolve[T](l.resolver, l.id)
		if err != nil {
			l.err = err

			return
		}

		l.value = value
		l.found.Store(found)
		l.resolved.Store(true)
	})

	return l.value, l.err
}

// MustGet resolves the dependency and returns it, panicking on error.
// Returns the zero value if the dependency is not found (does not panic).
func (l *OptionalLazy[T]) MustGet() T {
	value, err := l.Get()
	if err != nil {
		panic(fmt.Sprintf("optional lazy dependency %s failed: %v", l.id, err))
	}

	return value
}

// IsResolved returns true if the dependency has been resolved.
func (l *OptionalLazy[T]) IsResolved() bool {
	return l.resolved.Load()
}

// IsFound returns true if the dependency was found (only valid after resolution).
func (l *OptionalLazy[T]) IsFound() bool {
	return l.found.Load()
}

// ID returns the service type of the dependency.
func (l *OptionalLazy[T]) ID() TypeID {
	return l.id
}

// Producer resolves its service anew on every call. With a transient
// registration each call yields a fresh instance.
type Producer[T any] struct {
	resolver Resolver
	id       TypeID
}

// NewProducer creates a producer for id.
func NewProducer[T any](r Resolver, id TypeID) *Producer[T] {
	return &Producer[T]{
		resolver: r,
		id:       id,
	}
}

// Produce resolves and returns an instance of the dependency.
func (p *Producer[T]) Produce() (T, error) {
	return Resolve[T](p.resolver, p.id)
}

// MustProduce resolves and returns an instance, panicking on error.
func (p *Producer[T]) MustProduce() T {
	value, err := p.Produce()
	if err != nil {
		panic(fmt.Sprintf("producer %s failed: %v", p.id, err))
	}

	return value
}

// ID returns the service type of the dependency.
func (p *Producer[T]) ID() TypeID {
	return p.id
}
