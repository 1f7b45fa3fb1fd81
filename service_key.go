package kiln

// ServiceKey binds a TypeID to the Go type its instances have, so that
// registration and resolution through the key are type-checked.
// Use NewServiceKey for arbitrary ids, including closed generics, and KeyOf
// for ids derived from the Go type itself.
type ServiceKey[T any] struct {
	id TypeID
}

// NewServiceKey creates a typed key for id.
//
// Example:
//
//	var RepoDef = kiln.Generic("Repo", 1)
//	var UserRepoKey = kiln.NewServiceKey[*Repo[User]](RepoDef.Of(kiln.TypeOf[User]()))
func NewServiceKey[T any](id TypeID) ServiceKey[T] {
	return ServiceKey[T]{id: id}
}

// KeyOf creates a typed key for TypeOf[T].
func KeyOf[T any]() ServiceKey[T] {
	return ServiceKey[T]{id: TypeOf[T]()}
}

// ID returns the service type the key resolves.
func (k ServiceKey[T]) ID() TypeID {
	return k.id
}

// String implements fmt.Stringer.
func (k ServiceKey[T]) String() string {
	return k.id.String()
}

// RegisterWithKey registers a typed factory under the key's id.
//
// Example:
//
//	var DatabaseKey = kiln.KeyOf[*Database]()
//	kiln.RegisterWithKey(services, DatabaseKey, kiln.Singleton, func(r kiln.Resolver) (*Database, error) {
//	    return &Database{}, nil
//	})
func RegisterWithKey[T any](c *Collection, key ServiceKey[T], lifetime Lifetime, factory func(Resolver) (T, error)) *Collection {
	return c.AddFactory(key.id, lifetime, typedFactory(factory))
}

// ResolveWithKey resolves a service using a typed service key.
func ResolveWithKey[T any](r Resolver, key ServiceKey[T]) (T, error) {
	return Resolve[T](r, key.id)
}

// MustWithKey resolves a service using a typed service key and panics on error.
func MustWithKey[T any](r Resolver, key ServiceKey[T]) T {
	result, err := ResolveWithKey(r, key)
	if err != nil {
		panic(err)
	}
	return result
}

// HasKey reports whether the registry can satisfy the key.
func HasKey[T any](reg *Registry, key ServiceKey[T]) bool {
	return reg.Has(key.id)
}
