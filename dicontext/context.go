// Package dicontext carries a [di.Resolver] on a [context.Context].
package dicontext

import (
	"context"
	"reflect"

	"github.com/sectrean/component-kit"
	"github.com/sectrean/component-kit/internal/errors"
)

type resolverContextKey struct{}

// WithResolver returns a new [context.Context] that carries the provided [di.Resolver].
func WithResolver(ctx context.Context, r di.Resolver) context.Context {
	return context.WithValue(ctx, resolverContextKey{}, r)
}

// Resolver returns the [di.Resolver] stored on the [context.Context], if present.
func Resolver(ctx context.Context) di.Resolver {
	if r, ok := ctx.Value(resolverContextKey{}).(di.Resolver); ok {
		return r
	}
	return nil
}

// Get resolves a component of type T from the [di.Resolver] stored on the
// [context.Context].
//
// Resolution errors are returned as-is.
func Get[T any](ctx context.Context, opts ...di.ResolveOption) (T, error) {
	r := Resolver(ctx)
	if r == nil {
		var zero T
		return zero, errors.Errorf("get %s from context: resolver not found on context", reflect.TypeFor[T]())
	}

	return di.Get[T](r, opts...)
}

// MustGet is like [Get] but panics if T cannot be resolved.
func MustGet[T any](ctx context.Context, opts ...di.ResolveOption) T {
	val, err := Get[T](ctx, opts...)
	if err != nil {
		panic(err)
	}
	return val
}
