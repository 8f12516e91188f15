package di

import (
	"reflect"

	"github.com/sectrean/component-kit/internal/errors"
)

// DefinitionOption is used to configure a definition when calling [Define],
// [DefineMethod], [DefineSupplier] or [WithComponent].
type DefinitionOption interface {
	applyDefinition(*Definition) error
}

type definitionOption func(*Definition) error

func (o definitionOption) applyDefinition(d *Definition) error {
	return o(d)
}

// WithName sets the registry name of a definition. The name also serves as
// the qualifier other components use to select it.
func WithName(name string) DefinitionOption {
	return definitionOption(func(d *Definition) error {
		if name == "" {
			return errors.New("with name: name is empty")
		}
		d.name = name
		return nil
	})
}

// Primary marks a definition as the preferred candidate when several
// definitions satisfy an unqualified lookup.
func Primary() DefinitionOption {
	return definitionOption(func(d *Definition) error {
		d.primary = true
		return nil
	})
}

// As declares the type a definition satisfies.
// The produced type must be assignable to T.
//
// Lookups match definitions whose declared type is assignable to the requested type,
// so As narrows a definition: a constructor returning *FileStore declared
// As[Store] is no longer a candidate for *FileStore.
func As[T any]() DefinitionOption {
	return definitionOption(func(d *Definition) error {
		t := reflect.TypeFor[T]()
		if !d.strategy.out.AssignableTo(t) {
			return errors.Errorf("as %s: type %s not assignable to %s", t, d.strategy.out, t)
		}

		d.t = t
		return nil
	})
}

// Inject adds a setter-like injection target. After the instance is allocated,
// a value of type D is resolved and passed to set along with the instance.
//
// Targets run in the order they are declared, after the constructor and before
// the post-construct hook. Because the instance is already published when targets
// run, singletons may inject each other this way.
//
// Example:
//
//	di.Define(NewService,
//		di.Inject(func(s *Service, r Repository) { s.repo = r }, di.WithQualifier("cached")),
//	)
func Inject[T, D any](set func(T, D), opts ...DependencyOption) DefinitionOption {
	return definitionOption(func(d *Definition) error {
		instType := reflect.TypeFor[T]()
		if set == nil {
			return errors.Errorf("inject %s: setter is nil", reflect.TypeFor[D]())
		}
		if !d.strategy.out.AssignableTo(instType) {
			return errors.Errorf("inject %s: type %s not assignable to %s",
				reflect.TypeFor[D](), d.strategy.out, instType)
		}

		dep := newDependency(reflect.TypeFor[D]())
		if err := applyDependencyOptions(&dep, opts); err != nil {
			return errors.Wrapf(err, "inject %s", dep.Type)
		}

		d.targets = append(d.targets, injectionTarget{
			name: "setter " + dep.Type.String(),
			dep:  dep,
			set: func(instance any, val reflect.Value) error {
				inst, ok := instance.(T)
				if !ok {
					return errors.Errorf("inject %s: instance %T is not %s", dep.Type, instance, instType)
				}

				depVal, _ := val.Interface().(D)
				set(inst, depVal)
				return nil
			},
		})
		return nil
	})
}

// InjectField adds a field-like injection target. The component must be a pointer
// to a struct with an exported field of the given name. The field's type is the
// dependency type.
func InjectField(field string, opts ...DependencyOption) DefinitionOption {
	return definitionOption(func(d *Definition) error {
		t := d.strategy.out
		if t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct {
			return errors.Errorf("inject field %s: %s is not a pointer to a struct", field, t)
		}

		f, ok := t.Elem().FieldByName(field)
		if !ok {
			return errors.Errorf("inject field %s: field not found on %s", field, t)
		}
		if !f.IsExported() {
			return errors.Errorf("inject field %s: field is not exported", field)
		}

		dep := newDependency(f.Type)
		if err := applyDependencyOptions(&dep, opts); err != nil {
			return errors.Wrapf(err, "inject field %s", field)
		}

		index := f.Index
		d.targets = append(d.targets, injectionTarget{
			name: "field " + field,
			dep:  dep,
			set: func(instance any, val reflect.Value) error {
				rv := reflect.ValueOf(instance)
				if !rv.IsValid() || rv.IsNil() {
					return errors.Errorf("inject field %s: instance is nil", field)
				}

				rv.Elem().FieldByIndex(index).Set(val)
				return nil
			},
		})
		return nil
	})
}

// WithPostConstruct sets a hook that runs once per constructed instance, after
// every injection target is populated and before the instance is returned.
// An error from the hook fails the construction.
//
// The produced type must be assignable to T.
func WithPostConstruct[T any](fn func(T) error) DefinitionOption {
	return definitionOption(func(d *Definition) error {
		t := reflect.TypeFor[T]()
		if fn == nil {
			return errors.New("with post construct: hook is nil")
		}
		if !d.strategy.out.AssignableTo(t) {
			return errors.Errorf("with post construct: type %s not assignable to %s", d.strategy.out, t)
		}

		d.postConstruct = func(instance any) error {
			return fn(typedValue[T](instance))
		}
		return nil
	})
}

func applyDependencyOptions(dep *Dependency, opts []DependencyOption) error {
	err := applyOptions(opts, func(opt DependencyOption) error {
		return opt.applyDependency(dep)
	})
	dep.configured = true

	return err
}
