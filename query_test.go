package kiln

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queryRegistry(t *testing.T) *Registry {
	t.Helper()

	reg, err := NewCollection().
		AddInstance(aType, "a").
		AddFactory(bType, Scoped, validFactory).
		AddType(cType, Transient, NewImplementation("c", widgetCtor("c", Inject(aType), OptionalInject(bType)))).
		AddGeneric(repoDef, Scoped, openRepo).
		AddFactory(aType, Transient, validFactory).
		Build()
	require.NoError(t, err)

	return reg
}

func TestRegistry_QueryAll(t *testing.T) {
	infos := queryRegistry(t).Query(ServiceQuery{})

	require.Len(t, infos, 4, "shadowed registration is not reported")
	assert.True(t, infos[0].Type.Equal(aType))
	assert.Equal(t, Singleton, infos[0].Lifetime)
	assert.Equal(t, "instance", infos[0].Source)
	assert.Equal(t, "factory", infos[1].Source)
	assert.Equal(t, "implementation", infos[2].Source)
	assert.Equal(t, []string{"A", "B"}, infos[2].Dependencies)
	assert.Equal(t, "open", infos[3].Source)
	assert.True(t, infos[3].Generic)
}

func TestRegistry_QueryFilters(t *testing.T) {
	reg := queryRegistry(t)

	scoped := Scoped
	types := reg.QueryTypes(ServiceQuery{Lifetime: &scoped})
	require.Len(t, types, 2)
	assert.True(t, types[0].Equal(bType))
	assert.True(t, types[1].Equal(repoDef))

	generic := true
	types = reg.QueryTypes(ServiceQuery{Generic: &generic})
	require.Len(t, types, 1)
	assert.True(t, types[0].Equal(repoDef))

	types = reg.QueryTypes(ServiceQuery{Source: "factory"})
	require.Len(t, types, 1)
	assert.True(t, types[0].Equal(bType))

	singleton := Singleton
	notGeneric := false
	types = reg.QueryTypes(ServiceQuery{Lifetime: &singleton, Generic: &notGeneric, Source: "instance"})
	require.Len(t, types, 1)
	assert.True(t, types[0].Equal(aType))

	assert.Empty(t, reg.QueryTypes(ServiceQuery{Source: "nothing"}))
}

func TestRegistry_Inspect(t *testing.T) {
	reg := queryRegistry(t)

	info, ok := reg.Inspect(repoDef.Of(Type("Foo")))
	require.True(t, ok)
	assert.True(t, info.Type.Equal(repoDef))
	assert.Equal(t, Scoped, info.Lifetime)

	info, ok = reg.Inspect(aType)
	require.True(t, ok)
	assert.Equal(t, "instance", info.Source)

	info, ok = reg.Inspect(dType)
	assert.False(t, ok)
	assert.True(t, info.Type.Equal(dType))
}
