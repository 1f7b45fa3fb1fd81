package kiln

// Scope is the handle returned by CreateScope. Its creator owns it and must
// call Dispose when the unit of work ends.
type Scope struct {
	provider *Provider
}

// Provider returns the provider that resolves within this scope.
func (s *Scope) Provider() *Provider {
	return s.provider
}

// ID returns the scope's unique id.
func (s *Scope) ID() string {
	return s.provider.id
}

// GetService resolves id within this scope.
func (s *Scope) GetService(id TypeID) (any, error) {
	return s.provider.GetService(id)
}

// Lookup resolves id within this scope with an explicit found result.
func (s *Scope) Lookup(id TypeID) (any, bool, error) {
	return s.provider.Lookup(id)
}

// CreateScope creates a nested scope. It shares singletons with this scope
// but has its own scoped cache.
func (s *Scope) CreateScope() *Scope {
	return s.provider.CreateScope()
}

// Dispose releases the instances owned by this scope. It is idempotent.
func (s *Scope) Dispose() error {
	return s.provider.Dispose()
}
