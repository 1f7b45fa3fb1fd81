// Package kiln resolves object graphs from an immutable registry of service
// descriptors, caching instances per lifetime and releasing them when the
// scope that owns them is disposed.
//
// A registry is built once, either with a Collection or directly with
// NewRegistry, and handed to New to obtain the root Provider:
//
//	services := kiln.NewCollection()
//	services.AddFactory(DatabaseType, kiln.Singleton, newDatabase)
//	services.AddType(RepoType, kiln.Scoped, kiln.NewImplementation("repo",
//	    kiln.Constructor{Params: kiln.Params(DatabaseType), New: newRepo},
//	))
//
//	reg, err := services.Build()
//	root := kiln.New(reg)
//	defer root.Dispose()
//
//	scope := root.CreateScope()
//	defer scope.Dispose()
//	repo, err := scope.GetService(RepoType)
//
// GetService reports an unregistered type as a nil instance with a nil
// error; Lookup returns the distinction explicitly.
package kiln

// Resolver resolves services within one scope. Factories receive a Resolver
// bound to the scope the instance is being built for.
type Resolver interface {
	// GetService returns the instance for id, or nil with a nil error when
	// no descriptor matches.
	GetService(id TypeID) (any, error)

	// Lookup is GetService with an explicit found result, distinguishing an
	// unregistered service from one that resolved to nil.
	Lookup(id TypeID) (any, bool, error)
}

// ScopeFactory creates child scopes. Resolving ScopeFactoryType from any
// provider returns that provider.
type ScopeFactory interface {
	CreateScope() *Scope
}

var (
	// ScopeFactoryType resolves to the current scope's provider.
	ScopeFactoryType = TypeOf[ScopeFactory]()

	// ResolverType resolves to the current scope's provider.
	ResolverType = TypeOf[Resolver]()
)
