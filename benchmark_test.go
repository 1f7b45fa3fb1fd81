package kiln

import (
	"testing"
)

func benchProvider(b *testing.B, c *Collection) *Provider {
	b.Helper()

	reg, err := c.Build()
	if err != nil {
		b.Fatal(err)
	}

	p := New(reg)
	b.Cleanup(func() { _ = p.Dispose() })

	return p
}

func valueFactory(Resolver) (any, error) {
	return "value", nil
}

// Benchmark registry construction.
func BenchmarkBuild(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = NewCollection().
			AddFactory(aType, Singleton, valueFactory).
			AddFactory(bType, Scoped, valueFactory).
			AddFactory(cType, Transient, valueFactory).
			Build()
	}
}

// Benchmark service resolution.
func BenchmarkResolve_Singleton_Cached(b *testing.B) {
	p := benchProvider(b, NewCollection().AddFactory(aType, Singleton, valueFactory))

	// Warm up cache
	_, _ = p.GetService(aType)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = p.GetService(aType)
	}
}

func BenchmarkResolve_Transient(b *testing.B) {
	p := benchProvider(b, NewCollection().AddFactory(cType, Transient, valueFactory))

	for i := 0; i < b.N; i++ {
		_, _ = p.GetService(cType)
	}
}

func BenchmarkResolve_ScopedPerScope(b *testing.B) {
	p := benchProvider(b, NewCollection().AddFactory(bType, Scoped, valueFactory))

	for i := 0; i < b.N; i++ {
		scope := p.CreateScope()
		_, _ = scope.GetService(bType)
		_ = scope.Dispose()
	}
}

func BenchmarkResolve_Constructor(b *testing.B) {
	impl := NewImplementation("widget",
		widgetCtor("one", Inject(aType)),
		widgetCtor("two", Inject(aType), Inject(bType)),
	)

	p := benchProvider(b, NewCollection().
		AddFactory(aType, Singleton, valueFactory).
		AddFactory(bType, Singleton, valueFactory).
		AddType(widgetType, Transient, impl))

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = p.GetService(widgetType)
	}
}

func BenchmarkResolve_Generic(b *testing.B) {
	p := benchProvider(b, NewCollection().AddGeneric(repoDef, Singleton, openRepo))
	id := repoDef.Of(Type("Foo"))

	_, _ = p.GetService(id)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = p.GetService(id)
	}
}

func BenchmarkResolve_Concurrent(b *testing.B) {
	p := benchProvider(b, NewCollection().AddFactory(aType, Singleton, valueFactory))

	_, _ = p.GetService(aType)

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = p.GetService(aType)
		}
	})
}

func BenchmarkFuncConstructor(b *testing.B) {
	ctor := MustFuncConstructor(newTestDatabase)
	args := []any{&testConfig{}}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = ctor.New(args)
	}
}
