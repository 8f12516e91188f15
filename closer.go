package di

import (
	"context"
	"reflect"

	"github.com/sectrean/component-kit/internal/errors"
)

// Closer is the pre-destroy signature used by [WithCloser].
//
// Any of these Close method signatures are supported:
//
//	Close(context.Context) error
//	Close(context.Context)
//	Close() error
//	Close()
type Closer interface {
	Close(ctx context.Context) error
}

// WithPreDestroy sets a hook that runs once for a finished singleton when the
// Container is closed.
//
// This is useful if a component has a method called Shutdown or Stop:
//
//	di.WithPreDestroy(func(ctx context.Context, s *http.Server) error {
//		return s.Shutdown(ctx)
//	})
//
// Errors returned by the hook are logged and do not stop other hooks from running.
// This option will return an error if the produced type is not assignable to T.
func WithPreDestroy[T any](fn func(context.Context, T) error) DefinitionOption {
	return definitionOption(func(d *Definition) error {
		t := reflect.TypeFor[T]()
		if fn == nil {
			return errors.New("with pre destroy: hook is nil")
		}
		if !d.strategy.out.AssignableTo(t) {
			return errors.Errorf("with pre destroy: type %s not assignable to %s", d.strategy.out, t)
		}

		d.preDestroy = func(ctx context.Context, instance any) error {
			return fn(ctx, typedValue[T](instance))
		}
		return nil
	})
}

// WithCloser uses the instance's Close method as its pre-destroy hook, if it
// implements [Closer] or one of the other compatible signatures.
//
// Instances without a compatible Close method are skipped when the Container is closed.
func WithCloser() DefinitionOption {
	return definitionOption(func(d *Definition) error {
		d.preDestroy = func(ctx context.Context, instance any) error {
			if closer := getCloser(instance); closer != nil {
				return closer.Close(ctx)
			}
			return nil
		}
		return nil
	})
}

// getCloser returns the Closer interface if the given value implements it,
// or any of the compatible Close function signatures.
func getCloser(val any) Closer {
	switch c := val.(type) {
	case Closer:
		return c
	case closerWithContextNoError:
		return closerWithContextNoErrorWrapper{c}
	case closerNoContextWithError:
		return closerNoContextWithErrorWrapper{c}
	case closerNoContextNoError:
		return closerNoContextNoErrorWrapper{c}

	default:
		return nil
	}
}

type closerWithContextNoError interface {
	Close(ctx context.Context)
}

type closerNoContextWithError interface {
	Close() error
}

type closerNoContextNoError interface {
	Close()
}

type closerNoContextNoErrorWrapper struct {
	c closerNoContextNoError
}

func (w closerNoContextNoErrorWrapper) Close(context.Context) error {
	w.c.Close()
	return nil
}

type closerWithContextNoErrorWrapper struct {
	c closerWithContextNoError
}

func (w closerWithContextNoErrorWrapper) Close(ctx context.Context) error {
	w.c.Close(ctx)
	return nil
}

type closerNoContextWithErrorWrapper struct {
	c closerNoContextWithError
}

func (w closerNoContextWithErrorWrapper) Close(context.Context) error {
	return w.c.Close()
}
