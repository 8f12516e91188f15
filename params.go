package di

import (
	"reflect"

	"github.com/sectrean/component-kit/internal/errors"
)

// ParamOption configures a function parameter when calling [Define],
// [DefineMethod] or [Invoke].
type ParamOption interface {
	DefinitionOption
	InvokeOption
}

// WithParam configures the first parameter of type Dep that has not been
// configured yet. Use it once per parameter when a function takes several
// parameters of the same type.
//
// Example:
//
//	c, err := di.NewContainer(
//		di.WithComponent(NewDefaultStorage, di.Primary()),
//		di.WithComponent(NewFastStorage, di.WithName("fastStorage")),
//		di.WithComponent(NewValidationService,
//			di.WithParam[Storage](),
//			di.WithParam[Storage](di.WithQualifier("fastStorage")),
//		),
//	)
//
// This option will return an error if the function does not have a matching parameter.
func WithParam[Dep any](opts ...DependencyOption) ParamOption {
	return paramOption{
		t:    reflect.TypeFor[Dep](),
		opts: opts,
	}
}

// WithQualified is shorthand for WithParam[Dep](WithQualifier(name)).
func WithQualified[Dep any](name string) ParamOption {
	return WithParam[Dep](WithQualifier(name))
}

// WithParamAt configures the parameter at index, counting only the parameters
// resolved from the Container (a factory method's receiver is not counted).
func WithParamAt(index int, opts ...DependencyOption) ParamOption {
	return paramOption{
		index: index,
		opts:  opts,
	}
}

type paramOption struct {
	t     reflect.Type
	index int
	opts  []DependencyOption
}

// applyParams configures the matching parameter in place.
func (o paramOption) applyParams(params []Dependency) error {
	if o.t == nil {
		if o.index < 0 || o.index >= len(params) {
			return errors.Errorf("with param %d: parameter not found", o.index)
		}
		return errors.Wrapf(applyDependencyOptions(&params[o.index], o.opts), "with param %d", o.index)
	}

	for i := range params {
		// Skip past any that have already been configured
		if params[i].Type == o.t && !params[i].configured {
			return errors.Wrapf(applyDependencyOptions(&params[i], o.opts), "with param %s", o.t)
		}
	}

	return errors.Errorf("with param %s: parameter not found", o.t)
}

func (o paramOption) applyDefinition(d *Definition) error {
	return o.applyParams(d.strategy.params)
}

func (o paramOption) applyInvokeConfig(c *invokeConfig) error {
	return o.applyParams(c.params)
}

var _ ParamOption = paramOption{}
