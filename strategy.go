package di

import (
	"fmt"
	"reflect"

	"github.com/sectrean/component-kit/internal/errors"
)

// StrategyKind identifies how a [Definition] allocates its instance.
type StrategyKind uint8

const (
	// ConstructorStrategy calls a function whose parameters are resolved from the Container.
	// Go constructor functions double as static factories.
	ConstructorStrategy StrategyKind = iota

	// FactoryMethodStrategy calls a method expression on another component,
	// looked up by name, with the remaining parameters resolved from the Container.
	FactoryMethodStrategy

	// ValueStrategy returns a pre-supplied value.
	ValueStrategy

	// SupplierStrategy calls an externally supplied function that takes no parameters.
	SupplierStrategy
)

func (k StrategyKind) String() string {
	switch k {
	case ConstructorStrategy:
		return "Constructor"
	case FactoryMethodStrategy:
		return "FactoryMethod"
	case ValueStrategy:
		return "Value"
	case SupplierStrategy:
		return "Supplier"
	default:
		return fmt.Sprintf("Unknown Strategy %d", k)
	}
}

type strategy struct {
	kind    StrategyKind
	out     reflect.Type
	fn      reflect.Value
	factory string
	value   any
	supply  func() (any, error)
	params  []Dependency
}

func newConstructorStrategy(fn any) (strategy, error) {
	fnType := reflect.TypeOf(fn)

	out, err := validateFuncType(fnType)
	if err != nil {
		return strategy{}, err
	}

	params := make([]Dependency, fnType.NumIn())
	for i := range fnType.NumIn() {
		params[i] = newDependency(fnType.In(i))
	}

	return strategy{
		kind:   ConstructorStrategy,
		out:    out,
		fn:     reflect.ValueOf(fn),
		params: params,
	}, nil
}

func newFactoryMethodStrategy(factory string, method any) (strategy, error) {
	if factory == "" {
		return strategy{}, errors.New("factory name is empty")
	}

	fnType := reflect.TypeOf(method)
	if fnType == nil || fnType.Kind() != reflect.Func {
		return strategy{}, errors.Errorf("expected method expression, got %T", method)
	}
	if fnType.NumIn() == 0 {
		return strategy{}, errors.New("method expression must take the factory as its first parameter")
	}

	out, err := validateFuncType(fnType)
	if err != nil {
		return strategy{}, err
	}

	params := make([]Dependency, fnType.NumIn()-1)
	for i := 1; i < fnType.NumIn(); i++ {
		params[i-1] = newDependency(fnType.In(i))
	}

	return strategy{
		kind:    FactoryMethodStrategy,
		out:     out,
		fn:      reflect.ValueOf(method),
		factory: factory,
		params:  params,
	}, nil
}

func newValueStrategy(val any) (strategy, error) {
	t := reflect.TypeOf(val)
	if err := validateComponentType(t); err != nil {
		return strategy{}, err
	}

	return strategy{
		kind:  ValueStrategy,
		out:   t,
		value: val,
	}, nil
}

func newSupplierStrategy[T any](fn func() (T, error)) (strategy, error) {
	if fn == nil {
		return strategy{}, errors.New("supplier is nil")
	}

	t := reflect.TypeFor[T]()
	if err := validateComponentType(t); err != nil {
		return strategy{}, err
	}

	return strategy{
		kind: SupplierStrategy,
		out:  t,
		supply: func() (any, error) {
			val, err := fn()
			return val, err
		},
	}, nil
}

// validateFuncType returns the component type produced by a constructor
// or factory method.
func validateFuncType(fnType reflect.Type) (reflect.Type, error) {
	if fnType.IsVariadic() {
		return nil, errors.New("variadic functions are not supported")
	}

	var t reflect.Type
	switch {
	case fnType.NumOut() == 1:
		t = fnType.Out(0)
	case fnType.NumOut() == 2 && fnType.Out(1) == typeError:
		t = fnType.Out(0)
	default:
		return nil, errors.New("function must return T or (T, error)")
	}

	if err := validateComponentType(t); err != nil {
		return nil, err
	}

	return t, nil
}

func validateComponentType(t reflect.Type) error {
	if t == nil {
		return errors.New("invalid component type <nil>")
	}

	switch t {
	case typeContext, typeError:
		return errors.Errorf("invalid component type %s", t)
	}

	switch t.Kind() {
	case reflect.Interface,
		reflect.Pointer,
		reflect.Struct:
		return nil
	}

	return errors.Errorf("invalid component type %s", t)
}

// call invokes the constructor or factory method with resolved arguments.
func (s *strategy) call(args []reflect.Value) (any, error) {
	out := s.fn.Call(args)

	val := out[0].Interface()

	var err error
	if len(out) == 2 {
		err, _ = out[1].Interface().(error)
	}

	return val, err
}
