package kiln

// Middleware provides hooks around resolution and disposal.
// Middleware can be used for logging, metrics, tracing, testing, etc.
type Middleware interface {
	// BeforeResolve is called before a service is looked up, including
	// nested lookups for constructor parameters.
	// Return error to abort resolution.
	BeforeResolve(id TypeID) error

	// AfterResolve is called after a lookup, even when it failed or the
	// service was not registered (instance is nil in both cases).
	AfterResolve(id TypeID, instance any, err error) error

	// BeforeDispose is called before a scope disposes its instances.
	// Returning an error does not stop disposal; it is combined into the
	// result of Dispose.
	BeforeDispose(scopeID string) error

	// AfterDispose is called after a scope has disposed its instances.
	AfterDispose(scopeID string, err error) error
}

// middlewareChain runs middleware in the order they were added.
type middlewareChain struct {
	middleware []Middleware
}

func newMiddlewareChain(middleware ...Middleware) *middlewareChain {
	return &middlewareChain{
		middleware: append([]Middleware(nil), middleware...),
	}
}

func (m *middlewareChain) beforeResolve(id TypeID) error {
	for _, mw := range m.middleware {
		if err := mw.BeforeResolve(id); err != nil {
			return err
		}
	}
	return nil
}

func (m *middlewareChain) afterResolve(id TypeID, instance any, err error) error {
	for _, mw := range m.middleware {
		if mwErr := mw.AfterResolve(id, instance, err); mwErr != nil {
			return mwErr
		}
	}
	return nil
}

func (m *middlewareChain) beforeDispose(scopeID string) error {
	for _, mw := range m.middleware {
		if err := mw.BeforeDispose(scopeID); err != nil {
			return err
		}
	}
	return nil
}

func (m *middlewareChain) afterDispose(scopeID string, err error) error {
	for _, mw := range m.middleware {
		if mwErr := mw.AfterDispose(scopeID, err); mwErr != nil {
			return mwErr
		}
	}
	return nil
}

// FuncMiddleware wraps functions as Middleware. Nil functions are skipped.
type FuncMiddleware struct {
	BeforeResolveFunc func(id TypeID) error
	AfterResolveFunc  func(id TypeID, instance any, err error) error
	BeforeDisposeFunc func(scopeID string) error
	AfterDisposeFunc  func(scopeID string, err error) error
}

// BeforeResolve implements Middleware.
func (f *FuncMiddleware) BeforeResolve(id TypeID) error {
	if f.BeforeResolveFunc != nil {
		return f.BeforeResolveFunc(id)
	}
	return nil
}

// AfterResolve implements Middleware.
func (f *FuncMiddleware) AfterResolve(id TypeID, instance any, err error) error {
	if f.AfterResolveFunc != nil {
		return f.AfterResolveFunc(id, instance, err)
	}
	return nil
}

// BeforeDispose implements Middleware.
func (f *FuncMiddleware) BeforeDispose(scopeID string) error {
	if f.BeforeDisposeFunc != nil {
		return f.BeforeDisposeFunc(scopeID)
	}
	return nil
}

// AfterDispose implements Middleware.
func (f *FuncMiddleware) AfterDispose(scopeID string, err error) error {
	if f.AfterDisposeFunc != nil {
		return f.AfterDisposeFunc(scopeID, err)
	}
	return nil
}
