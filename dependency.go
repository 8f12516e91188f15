package di

import (
	"fmt"
	"reflect"

	"github.com/sectrean/component-kit/internal/errors"
)

// Dependency describes one value a component needs: a constructor or factory
// parameter, or an injection target.
type Dependency struct {
	// Type is the declared type of the parameter, field or setter argument.
	Type reflect.Type

	// Qualifier is the name of the exact definition to resolve, if any.
	Qualifier string

	// Optional dependencies resolve to the zero value when nothing matches.
	Optional bool

	// Lazy dependencies are injected as a proxy registered with [WithLazyProxy].
	Lazy bool

	// Deferred is true when Type is a [Provider] or a [*Lazy] handle.
	Deferred bool

	handle     deferredHandle
	configured bool
}

func newDependency(t reflect.Type) Dependency {
	dep := Dependency{Type: t}
	if h := deferredOf(t); h != nil {
		dep.Deferred = true
		dep.handle = h
	}

	return dep
}

// Target returns the component type the dependency resolves.
// For a deferred handle this is the handle's type argument.
func (d Dependency) Target() reflect.Type {
	if d.handle != nil {
		return d.handle.deferredTarget()
	}
	return d.Type
}

func (d Dependency) String() string {
	if d.Qualifier == "" {
		return d.Type.String()
	}
	return fmt.Sprintf("%s (%s)", d.Type, d.Qualifier)
}

// DependencyOption configures a single [Dependency].
//
// Available options:
//   - [WithQualifier] resolves a definition by name.
//   - [WithOptional] resolves to the zero value when nothing matches.
//   - [WithLazy] injects a lazy proxy.
type DependencyOption interface {
	applyDependency(*Dependency) error
}

// ResolveOption is used when calling [Get], [MustGet], [Container.Resolve],
// [Container.Contains], [NewProvider] or [NewLazy].
//
// Available options:
//   - [WithQualifier]
//   - [WithOptional]
type ResolveOption interface {
	applyResolveConfig(*resolveConfig) error
}

type resolveConfig struct {
	qualifier string
	optional  bool
}

func newResolveConfig(opts []ResolveOption) (resolveConfig, error) {
	var config resolveConfig
	err := applyOptions(opts, func(opt ResolveOption) error {
		return opt.applyResolveConfig(&config)
	})

	return config, errors.Wrap(err, "resolve options")
}

// QualifierOption is accepted wherever a dependency or a lookup can be qualified.
type QualifierOption interface {
	DependencyOption
	ResolveOption
}

// WithQualifier resolves the definition registered under name instead of
// arbitrating among all candidates of the requested type.
//
// Example:
//
//	fast, err := di.Get[Storage](c, di.WithQualifier("fastStorage"))
func WithQualifier(name string) QualifierOption {
	return qualifierOption(name)
}

type qualifierOption string

func (o qualifierOption) applyDependency(d *Dependency) error {
	if o == "" {
		return errors.New("with qualifier: name is empty")
	}
	d.Qualifier = string(o)
	return nil
}

func (o qualifierOption) applyResolveConfig(c *resolveConfig) error {
	if o == "" {
		return errors.New("with qualifier: name is empty")
	}
	c.qualifier = string(o)
	return nil
}

// OptionalOption is accepted wherever a dependency or a lookup can be optional.
type OptionalOption interface {
	DependencyOption
	ResolveOption
}

// WithOptional makes a dependency or lookup optional: when no definition
// matches, the zero value is returned instead of a [*NotFoundError].
func WithOptional() OptionalOption {
	return optionalOption{}
}

type optionalOption struct{}

func (optionalOption) applyDependency(d *Dependency) error {
	d.Optional = true
	return nil
}

func (optionalOption) applyResolveConfig(c *resolveConfig) error {
	c.optional = true
	return nil
}

// WithLazy injects the dependency as a lazy proxy: the proxy registered for the
// dependency's interface type with [WithLazyProxy] is handed out immediately,
// and the real component is resolved on first use.
func WithLazy() DependencyOption {
	return lazyOption{}
}

type lazyOption struct{}

func (lazyOption) applyDependency(d *Dependency) error {
	if d.Deferred {
		return errors.Errorf("with lazy: %s is already deferred", d.Type)
	}
	d.Lazy = true
	return nil
}
