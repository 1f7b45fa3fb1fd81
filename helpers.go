package kiln

import (
	"fmt"
)

// Resolve resolves id and asserts the instance to T. An unregistered id is
// reported as ErrServiceNotFound.
func Resolve[T any](r Resolver, id TypeID) (T, error) {
	var zero T

	instance, found, err := r.Lookup(id)
	if err != nil {
		return zero, err
	}

	if !found {
		return zero, ErrServiceNotFound(id)
	}

	return assertType[T](id, instance)
}

// TryResolve resolves id and asserts the instance to T, reporting an
// unregistered id through found instead of an error.
func TryResolve[T any](r Resolver, id TypeID) (value T, found bool, err error) {
	instance, found, err := r.Lookup(id)
	if err != nil || !found {
		return value, found, err
	}

	value, err = assertType[T](id, instance)

	return value, err == nil, err
}

// Get resolves the service registered under TypeOf[T].
func Get[T any](r Resolver) (T, error) {
	return Resolve[T](r, TypeOf[T]())
}

// Must resolves or panics - use only during startup.
func Must[T any](r Resolver) T {
	instance, err := Get[T](r)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve %s: %v", TypeOf[T](), err))
	}

	return instance
}

// assertType converts a resolved instance to T. A nil instance converts to
// the zero value.
func assertType[T any](id TypeID, instance any) (T, error) {
	var zero T

	if instance == nil {
		return zero, nil
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, ErrTypeMismatch(id, instance)
	}

	return typed, nil
}

// RegisterSingleton is a convenience wrapper for singleton services keyed by
// TypeOf[T].
func RegisterSingleton[T any](c *Collection, factory func(Resolver) (T, error)) *Collection {
	return c.AddFactory(TypeOf[T](), Singleton, typedFactory(factory))
}

// RegisterScoped is a convenience wrapper for scoped services keyed by
// TypeOf[T].
func RegisterScoped[T any](c *Collection, factory func(Resolver) (T, error)) *Collection {
	return c.AddFactory(TypeOf[T](), Scoped, typedFactory(factory))
}

// RegisterTransient is a convenience wrapper for transient services keyed by
// TypeOf[T].
func RegisterTransient[T any](c *Collection, factory func(Resolver) (T, error)) *Collection {
	return c.AddFactory(TypeOf[T](), Transient, typedFactory(factory))
}

// RegisterValue registers a pre-built instance (always singleton).
func RegisterValue[T any](c *Collection, instance T) *Collection {
	return c.AddInstance(TypeOf[T](), instance)
}

// RegisterInterface registers factory under the interface type I while the
// factory builds the concrete T.
func RegisterInterface[I, T any](c *Collection, lifetime Lifetime, factory func(Resolver) (T, error)) *Collection {
	return c.AddFactory(TypeOf[I](), lifetime, func(r Resolver) (any, error) {
		impl, err := factory(r)
		if err != nil {
			return nil, err
		}

		if _, ok := any(impl).(I); !ok {
			return nil, ErrTypeMismatch(TypeOf[I](), impl)
		}

		return impl, nil
	})
}

func typedFactory[T any](factory func(Resolver) (T, error)) Factory {
	return func(r Resolver) (any, error) {
		return factory(r)
	}
}
