package kiln

import (
	"github.com/xraph/go-utils/di"
)

// Param describes one constructor parameter: the service type it needs and
// how it is injected.
//
// Modes follow di.DepMode:
//   - DepEager: resolved before construction; absent abandons the constructor.
//   - DepOptional: resolved before construction; absent injects nil.
//   - DepLazy: injects a *Lazy[any] bound to the scope; the service must be
//     registered, but is not resolved until Get is called.
//   - DepLazyOptional: injects an *OptionalLazy[any]; never abandons.
type Param struct {
	Type TypeID
	Mode di.DepMode
}

// Inject declares a required parameter.
func Inject(id TypeID) Param {
	return Param{Type: id, Mode: di.DepEager}
}

// OptionalInject declares a parameter that receives nil when the service is
// not registered.
func OptionalInject(id TypeID) Param {
	return Param{Type: id, Mode: di.DepOptional}
}

// LazyInject declares a parameter that receives a *Lazy[any].
// Lazy parameters are the supported way to break a dependency cycle.
func LazyInject(id TypeID) Param {
	return Param{Type: id, Mode: di.DepLazy}
}

// LazyOptionalInject declares a parameter that receives an *OptionalLazy[any].
func LazyOptionalInject(id TypeID) Param {
	return Param{Type: id, Mode: di.DepLazyOptional}
}

// InjectType declares a required parameter on the Go type T.
func InjectType[T any]() Param {
	return Inject(TypeOf[T]())
}

// OptionalType declares an optional parameter on the Go type T.
func OptionalType[T any]() Param {
	return OptionalInject(TypeOf[T]())
}

// dep converts the parameter to the dependency spec used by the graph.
func (p Param) dep() di.Dep {
	return di.Dep{Name: p.Type.Key(), Mode: p.Mode}
}

// Params builds eager parameters for each id, in order.
func Params(ids ...TypeID) []Param {
	params := make([]Param, len(ids))
	for i, id := range ids {
		params[i] = Inject(id)
	}

	return params
}
