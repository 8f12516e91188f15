package di

import (
	"context"
	"fmt"
	"reflect"

	"github.com/sectrean/component-kit/internal/errors"
)

// Invoke calls the given function with parameters resolved from the Container.
//
// The function may take any number of parameters which will be resolved from the Container,
// and may return any number of results.
// A [context.Context] parameter receives ctx.
// Parameters of type [Provider] or [*Lazy] receive a deferred handle.
// An [error] return parameter will be passed along and any other return parameters are ignored.
//
// Available options:
//   - [WithParam], [WithParamAt], [WithQualified]
func Invoke(ctx context.Context, c *Container, fn any, opts ...InvokeOption) error {
	fnType := reflect.TypeOf(fn)

	// Make sure fn is a function
	if fnType == nil || fnType.Kind() != reflect.Func {
		return errors.Errorf("di.Invoke %T: fn must be a function", fn)
	}
	if fnType.IsVariadic() {
		return errors.Errorf("di.Invoke %T: variadic functions are not supported", fn)
	}

	params := make([]Dependency, fnType.NumIn())
	for i := range fnType.NumIn() {
		params[i] = newDependency(fnType.In(i))
	}

	// Create a config struct so we can apply options
	config := &invokeConfig{
		fn:     reflect.ValueOf(fn),
		params: params,
	}

	err := applyOptions(opts, func(opt InvokeOption) error {
		return opt.applyInvokeConfig(config)
	})
	if err != nil {
		return errors.Wrapf(err, "di.Invoke %T", fn)
	}

	if c.closed.Load() {
		return errors.Wrapf(ErrContainerClosed, "di.Invoke %T", fn)
	}

	v := newResolveVisitor()
	defer v.finish()

	owner := fmt.Sprintf("invoke %T", fn)

	in := make([]reflect.Value, len(config.params))
	for i, dep := range config.params {
		if dep.Type == typeContext {
			in[i] = safeReflectValue(typeContext, ctx)
			continue
		}

		// Stop at the first error
		val, err := c.resolveDependency(v, owner, dep)
		if err != nil {
			return err
		}
		in[i] = val
	}

	// Check for a context error before we invoke the function
	if ctx.Err() != nil {
		return errors.Wrapf(ctx.Err(), "di.Invoke %T", fn)
	}

	out := config.fn.Call(in)

	// Return the first error return value, if any.
	// Don't wrap the error, return it as-is.
	for i := range fnType.NumOut() {
		if fnType.Out(i) == typeError {
			err, _ := out[i].Interface().(error)
			return err
		}
	}

	return nil
}

// InvokeOption is used to configure the behavior of [Invoke].
//
// Available options:
//   - [WithParam]
//   - [WithParamAt]
//   - [WithQualified]
type InvokeOption interface {
	applyInvokeConfig(*invokeConfig) error
}

type invokeConfig struct {
	fn     reflect.Value
	params []Dependency
}
