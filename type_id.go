package kiln

import (
	"fmt"
	"reflect"
	"strings"
)

// TypeID identifies a service. It is either a plain type, an unparameterized
// generic definition such as Repo[_], or a closed parameterization such as
// Repo[Foo]. TypeIDs are immutable values; compare them with Equal or Key.
type TypeID struct {
	name  string
	arity int
	args  []TypeID
	key   string
}

// Type returns the id of a plain, non-generic service type.
func Type(name string) TypeID {
	return TypeID{name: name, key: name}
}

// Generic returns the id of a generic definition taking arity type arguments.
//
// Example:
//
//	var RepoDef = kiln.Generic("Repo", 1)
//	var UserRepo = RepoDef.Of(kiln.Type("User"))
func Generic(name string, arity int) TypeID {
	if arity < 1 {
		panic(fmt.Sprintf("kiln: generic definition %q needs at least one type parameter", name))
	}

	return TypeID{
		name:  name,
		arity: arity,
		key:   name + "[" + strings.TrimSuffix(strings.Repeat("_,", arity), ",") + "]",
	}
}

// TypeOf returns the id for the Go type T, qualified by package path.
func TypeOf[T any]() TypeID {
	return Type(typeName(reflect.TypeOf((*T)(nil)).Elem()))
}

// typeIDOf returns the id for a reflected Go type, matching TypeOf.
func typeIDOf(t reflect.Type) TypeID {
	return Type(typeName(t))
}

// typeName renders t with full package paths so that equally named types
// from different packages do not collide.
func typeName(t reflect.Type) string {
	if t.Name() != "" {
		if t.PkgPath() == "" {
			return t.Name()
		}

		return t.PkgPath() + "." + t.Name()
	}

	switch t.Kind() {
	case reflect.Ptr:
		return "*" + typeName(t.Elem())
	case reflect.Slice:
		return "[]" + typeName(t.Elem())
	case reflect.Array:
		return fmt.Sprintf("[%d]%s", t.Len(), typeName(t.Elem()))
	case reflect.Map:
		return "map[" + typeName(t.Key()) + "]" + typeName(t.Elem())
	case reflect.Chan:
		return t.ChanDir().String() + " " + typeName(t.Elem())
	default:
		return t.String()
	}
}

// Of closes a generic definition over the given type arguments. It panics if
// the receiver is not a definition or the argument count does not match.
func (t TypeID) Of(args ...TypeID) TypeID {
	if !t.IsDefinition() {
		panic(fmt.Sprintf("kiln: %s is not a generic definition", t))
	}

	if len(args) != t.arity {
		panic(fmt.Sprintf("kiln: %s expects %d type arguments, got %d", t, t.arity, len(args)))
	}

	keys := make([]string, len(args))
	for i, a := range args {
		keys[i] = a.key
	}

	return TypeID{
		name: t.name,
		args: append([]TypeID(nil), args...),
		key:  t.name + "[" + strings.Join(keys, ",") + "]",
	}
}

// Name returns the bare name without type arguments.
func (t TypeID) Name() string {
	return t.name
}

// Key returns the canonical string form used for lookups and caching.
func (t TypeID) Key() string {
	return t.key
}

// String implements fmt.Stringer.
func (t TypeID) String() string {
	if t.key == "" {
		return "<invalid>"
	}

	return t.key
}

// Equal reports whether two ids denote the same service type.
func (t TypeID) Equal(other TypeID) bool {
	return t.key == other.key
}

// IsZero reports whether t is the zero TypeID.
func (t TypeID) IsZero() bool {
	return t.key == ""
}

// IsDefinition reports whether t is an unparameterized generic definition.
func (t TypeID) IsDefinition() bool {
	return t.arity > 0
}

// IsClosedGeneric reports whether t is a generic definition bound to
// concrete type arguments.
func (t TypeID) IsClosedGeneric() bool {
	return len(t.args) > 0
}

// Definition returns the generic definition a closed generic was built from.
// For any other id it returns t unchanged.
func (t TypeID) Definition() TypeID {
	if !t.IsClosedGeneric() {
		return t
	}

	return Generic(t.name, len(t.args))
}

// Args returns a copy of the type arguments of a closed generic.
func (t TypeID) Args() []TypeID {
	if len(t.args) == 0 {
		return nil
	}

	return append([]TypeID(nil), t.args...)
}
