package kiln

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFactory(Resolver) (any, error) { return struct{}{}, nil }

func TestNewRegistry_Validation(t *testing.T) {
	impl := NewImplementation("x", Constructor{New: func([]any) (any, error) { return nil, nil }})

	tests := []struct {
		name string
		desc Descriptor
	}{
		{"empty type", Descriptor{Lifetime: Singleton, Instance: 1}},
		{"unknown lifetime", Descriptor{ServiceType: aType, Lifetime: Lifetime(9), Instance: 1}},
		{"no source", Descriptor{ServiceType: aType, Lifetime: Singleton}},
		{"two sources", Descriptor{ServiceType: aType, Lifetime: Singleton, Instance: 1, Factory: validFactory}},
		{"definition without open", Descriptor{ServiceType: repoDef, Lifetime: Scoped, Factory: validFactory}},
		{"open without definition", Descriptor{ServiceType: aType, Lifetime: Scoped, Open: openRepo}},
		{"no constructors", Descriptor{ServiceType: aType, Lifetime: Scoped, Implementation: NewImplementation("x")}},
		{"constructor without New", Descriptor{ServiceType: aType, Lifetime: Scoped, Implementation: NewImplementation("x", Constructor{})}},
		{"closed generic with open", Descriptor{ServiceType: repoDef.Of(Type("Foo")), Lifetime: Scoped, Open: openRepo}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry([]Descriptor{tt.desc})
			assert.ErrorIs(t, err, ErrInvalidDescriptorSentinel)
		})
	}

	_, err := NewRegistry([]Descriptor{{ServiceType: aType, Lifetime: Transient, Implementation: impl}})
	assert.NoError(t, err)
}

func TestNewRegistry_FirstRegistrationWins(t *testing.T) {
	first := &plainService{name: "first"}
	second := &plainService{name: "second"}

	reg, err := NewRegistry([]Descriptor{
		{ServiceType: aType, Lifetime: Singleton, Instance: first},
		{ServiceType: aType, Lifetime: Singleton, Instance: second},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())

	p := New(reg)
	defer func() { _ = p.Dispose() }()

	v, err := p.GetService(aType)
	require.NoError(t, err)
	assert.Same(t, first, v)
}

func TestNewRegistry_CopiesInput(t *testing.T) {
	descs := []Descriptor{{ServiceType: aType, Lifetime: Singleton, Instance: "a"}}

	reg, err := NewRegistry(descs)
	require.NoError(t, err)

	descs[0].ServiceType = bType
	assert.True(t, reg.Has(aType))
	assert.False(t, reg.Has(bType))

	out := reg.Descriptors()
	out[0].ServiceType = cType
	assert.True(t, reg.Descriptors()[0].ServiceType.Equal(aType))
}

func TestRegistry_Has(t *testing.T) {
	reg, err := NewCollection().
		AddFactory(aType, Scoped, validFactory).
		AddGeneric(repoDef, Scoped, openRepo).
		Build()
	require.NoError(t, err)

	assert.True(t, reg.Has(aType))
	assert.True(t, reg.Has(repoDef))
	assert.True(t, reg.Has(repoDef.Of(Type("Foo"))))
	assert.False(t, reg.Has(bType))
	assert.False(t, reg.Has(Generic("Other", 1).Of(aType)))
	assert.False(t, reg.Has(TypeID{}))
}

func TestRegistry_Validate(t *testing.T) {
	cyclic := NewCollection().
		AddType(aType, Singleton, NewImplementation("a", widgetCtor("a", Inject(bType)))).
		AddType(bType, Singleton, NewImplementation("b", widgetCtor("b", Inject(aType))))

	_, err := cyclic.Build(ValidateGraph())
	assert.ErrorIs(t, err, ErrCircularDependencySentinel)

	// Without validation the cycle surfaces at resolution time instead.
	reg, err := cyclic.Build()
	require.NoError(t, err)

	p := New(reg)
	defer func() { _ = p.Dispose() }()

	_, err = p.GetService(aType)
	assert.ErrorIs(t, err, ErrCircularDependencySentinel)
}

func TestRegistry_Graph(t *testing.T) {
	reg, err := NewCollection().
		AddFactory(aType, Singleton, validFactory).
		AddType(bType, Scoped, NewImplementation("b", widgetCtor("b", Inject(aType)))).
		AddType(cType, Scoped, NewImplementation("c",
			widgetCtor("c1", Inject(bType)),
			widgetCtor("c2", LazyInject(aType)),
		)).
		Build()
	require.NoError(t, err)

	g := reg.Graph()

	order, err := g.TopologicalSort()
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, order)
	assert.Equal(t, []string{"B"}, g.GetEagerDependencies("C"))
}
