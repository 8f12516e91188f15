package di

import (
	"context"
	"fmt"
	"reflect"

	"github.com/google/uuid"

	"github.com/sectrean/component-kit/internal/errors"
)

// Definition is an immutable description of one constructible component.
//
// Definitions are created with [Define], [DefineMethod] or [DefineSupplier]
// and registered with [Container.Register], [WithComponent] or a [Discovery].
type Definition struct {
	id            uuid.UUID
	name          string
	t             reflect.Type
	lifetime      Lifetime
	primary       bool
	strategy      strategy
	targets       []injectionTarget
	postConstruct func(any) error
	preDestroy    func(context.Context, any) error
}

// injectionTarget is a field or setter populated after allocation.
type injectionTarget struct {
	name string
	dep  Dependency
	set  func(instance any, val reflect.Value) error
}

// Define creates a [Definition] from a constructor function or a value.
//
// If a function is provided, it will be called to create the component when resolved.
// The function can take any number of parameters which are resolved from the Container,
// and must return T or (T, error). Parameters of type [Provider] or [*Lazy] receive
// a deferred handle instead of an instance.
//
// If a value is provided, it is returned as the component when resolved.
// Value components are always singletons.
//
// Available options:
//   - [Singleton] or [PerRequest] set the lifetime.
//   - [WithName] sets the registry name. The default comes from [DefaultName].
//   - [Primary] marks the definition as the preferred candidate for its type.
//   - [As] declares the type the definition satisfies.
//   - [WithParam], [WithParamAt], [WithQualified] configure constructor parameters.
//   - [Inject] and [InjectField] add injection targets.
//   - [WithPostConstruct], [WithPreDestroy] and [WithCloser] add lifecycle hooks.
func Define(funcOrValue any, opts ...DefinitionOption) (*Definition, error) {
	if funcOrValue == nil {
		return nil, errors.New("define: funcOrValue is nil")
	}

	if _, ok := funcOrValue.(DefinitionOption); ok {
		return nil, errors.Errorf("define %T: unexpected DefinitionOption as funcOrValue", funcOrValue)
	}

	var s strategy
	var err error

	if reflect.TypeOf(funcOrValue).Kind() == reflect.Func {
		s, err = newConstructorStrategy(funcOrValue)
	} else {
		s, err = newValueStrategy(funcOrValue)
	}

	if err != nil {
		return nil, errors.Wrapf(err, "define %T", funcOrValue)
	}

	d, err := newDefinition(s, opts)
	return d, errors.Wrapf(err, "define %T", funcOrValue)
}

// DefineMethod creates a [Definition] allocated by calling a method on another
// component. The factory component is looked up by name; method is a method
// expression whose first parameter is the factory.
//
// Example:
//
//	di.DefineMethod("storageConfig", (*StorageConfig).NewStorage, di.WithName("storage"))
func DefineMethod(factory string, method any, opts ...DefinitionOption) (*Definition, error) {
	s, err := newFactoryMethodStrategy(factory, method)
	if err != nil {
		return nil, errors.Wrapf(err, "define method %T", method)
	}

	d, err := newDefinition(s, opts)
	return d, errors.Wrapf(err, "define method %T", method)
}

// DefineSupplier creates a [Definition] allocated by calling fn.
func DefineSupplier[T any](fn func() (T, error), opts ...DefinitionOption) (*Definition, error) {
	s, err := newSupplierStrategy(fn)
	if err != nil {
		return nil, errors.Wrapf(err, "define supplier %s", reflect.TypeFor[T]())
	}

	d, err := newDefinition(s, opts)
	return d, errors.Wrapf(err, "define supplier %s", reflect.TypeFor[T]())
}

// MustDefine is like [Define] but panics if the definition is invalid.
// It is intended for static tables such as a [Catalog].
func MustDefine(funcOrValue any, opts ...DefinitionOption) *Definition {
	d, err := Define(funcOrValue, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

// MustDefineMethod is like [DefineMethod] but panics if the definition is invalid.
func MustDefineMethod(factory string, method any, opts ...DefinitionOption) *Definition {
	d, err := DefineMethod(factory, method, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

func newDefinition(s strategy, opts []DefinitionOption) (*Definition, error) {
	d := &Definition{
		id:       uuid.New(),
		name:     DefaultName(s.out),
		t:        s.out,
		strategy: s,
	}

	err := applyOptions(opts, func(opt DefinitionOption) error {
		return opt.applyDefinition(d)
	})
	if err != nil {
		return nil, err
	}

	return d, nil
}

// ID returns the unique id assigned when the definition was created.
func (d *Definition) ID() uuid.UUID {
	return d.id
}

// Name returns the registry name.
func (d *Definition) Name() string {
	return d.name
}

// Type returns the declared type the definition satisfies.
func (d *Definition) Type() reflect.Type {
	return d.t
}

// Lifetime returns the lifetime of the component.
func (d *Definition) Lifetime() Lifetime {
	return d.lifetime
}

// Primary reports whether the definition is preferred among candidates of the same type.
func (d *Definition) Primary() bool {
	return d.primary
}

// Strategy returns how the instance is allocated.
func (d *Definition) Strategy() StrategyKind {
	return d.strategy.kind
}

// Factory returns the name of the factory component for [FactoryMethodStrategy].
func (d *Definition) Factory() string {
	return d.strategy.factory
}

// Dependencies returns the parameter dependencies followed by the injection targets.
func (d *Definition) Dependencies() []Dependency {
	deps := make([]Dependency, 0, len(d.strategy.params)+len(d.targets))
	deps = append(deps, d.strategy.params...)
	for _, target := range d.targets {
		deps = append(deps, target.dep)
	}
	return deps
}

// HasPostConstruct reports whether a post-construct hook is set.
func (d *Definition) HasPostConstruct() bool {
	return d.postConstruct != nil
}

// HasPreDestroy reports whether a pre-destroy hook is set.
func (d *Definition) HasPreDestroy() bool {
	return d.preDestroy != nil
}

func (d *Definition) String() string {
	return fmt.Sprintf("%s (%s)", d.name, d.t)
}
