package kiln

import (
	"errors"
	"fmt"
	"reflect"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// funcInfo holds analyzed constructor function metadata.
type funcInfo struct {
	fn       reflect.Value
	fnType   reflect.Type
	params   []reflect.Type
	result   reflect.Type
	hasError bool
}

// analyzeFunc inspects a constructor function. It must return exactly one
// value, optionally followed by an error.
func analyzeFunc(fn any) (*funcInfo, error) {
	if fn == nil {
		return nil, errors.New("constructor must be a function, got nil")
	}

	fnValue := reflect.ValueOf(fn)
	fnType := fnValue.Type()

	if fnType.Kind() != reflect.Func {
		return nil, fmt.Errorf("constructor must be a function, got %s", fnType)
	}

	if fnType.IsVariadic() {
		return nil, errors.New("variadic constructors are not supported")
	}

	info := &funcInfo{
		fn:     fnValue,
		fnType: fnType,
	}

	for i := 0; i < fnType.NumIn(); i++ {
		info.params = append(info.params, fnType.In(i))
	}

	switch fnType.NumOut() {
	case 1:
		info.result = fnType.Out(0)
	case 2:
		if fnType.Out(1) != errorType {
			return nil, errors.New("second return value must be error")
		}

		info.result = fnType.Out(0)
		info.hasError = true
	default:
		return nil, fmt.Errorf("constructor must return (T) or (T, error), got %d results", fnType.NumOut())
	}

	if info.result == errorType {
		return nil, errors.New("constructor must return a non-error value")
	}

	return info, nil
}

// FuncConstructor turns a Go function into a Constructor. Each parameter is
// injected by its Go type (see TypeOf); the function must return T or
// (T, error). The reflection happens once, here, at registration time.
//
// Example:
//
//	func NewUserService(db *Database, logger log.Logger) *UserService { ... }
//
//	ctor, err := kiln.FuncConstructor(NewUserService)
func FuncConstructor(fn any) (Constructor, error) {
	info, err := analyzeFunc(fn)
	if err != nil {
		return Constructor{}, fmt.Errorf("invalid constructor: %w", err)
	}

	return info.constructor(), nil
}

// constructor injects every parameter by its Go type.
func (info *funcInfo) constructor() Constructor {
	params := make([]Param, len(info.params))
	for i, t := range info.params {
		params[i] = Inject(typeIDOf(t))
	}

	return Constructor{
		Params: params,
		New:    info.call,
	}
}

// MustFuncConstructor is FuncConstructor that panics on error.
func MustFuncConstructor(fn any) Constructor {
	ctor, err := FuncConstructor(fn)
	if err != nil {
		panic(err)
	}

	return ctor
}

// ImplementationOf builds an implementation from constructor functions. The
// implementation is named after the result type of the first function.
//
// Example:
//
//	impl, err := kiln.ImplementationOf(NewCache, NewCacheWithTTL)
//	services.AddType(kiln.TypeOf[*Cache](), kiln.Singleton, impl)
func ImplementationOf(fns ...any) (*Implementation, error) {
	if len(fns) == 0 {
		return nil, errors.New("at least one constructor function is required")
	}

	impl := &Implementation{}

	for i, fn := range fns {
		info, err := analyzeFunc(fn)
		if err != nil {
			return nil, fmt.Errorf("constructor %d: %w", i, err)
		}

		if impl.Name == "" {
			impl.Name = typeName(info.result)
		}

		impl.Constructors = append(impl.Constructors, info.constructor())
	}

	return impl, nil
}

// call invokes the function with resolved arguments.
func (info *funcInfo) call(args []any) (any, error) {
	in := make([]reflect.Value, len(args))

	for i, arg := range args {
		paramType := info.params[i]

		if arg == nil {
			in[i] = reflect.Zero(paramType)

			continue
		}

		value := reflect.ValueOf(arg)
		if !value.Type().AssignableTo(paramType) {
			return nil, ErrTypeMismatch(typeIDOf(paramType), arg)
		}

		in[i] = value
	}

	out := info.fn.Call(in)

	if info.hasError {
		if errValue := out[1]; !errValue.IsNil() {
			return nil, errValue.Interface().(error)
		}
	}

	return out[0].Interface(), nil
}
