package di

import (
	"reflect"

	"github.com/sectrean/component-kit/internal/errors"
)

// Resolver resolves components. It is implemented by [*Container].
type Resolver interface {
	// Resolve returns an instance of the given type.
	Resolve(t reflect.Type, opts ...ResolveOption) (any, error)

	// Contains returns true if a lookup for the given type would find a definition.
	Contains(t reflect.Type, opts ...ResolveOption) bool
}

// Get is a generic wrapper around [Resolver.Resolve].
//
// An optional lookup that matches nothing returns the zero value of T.
//
// Available options:
//   - [WithQualifier]
//   - [WithOptional]
func Get[T any](r Resolver, opts ...ResolveOption) (T, error) {
	var zero T
	if r == nil {
		return zero, errors.Errorf("di.Get %s: resolver is nil", reflect.TypeFor[T]())
	}

	val, err := r.Resolve(reflect.TypeFor[T](), opts...)
	if err != nil {
		return zero, err
	}

	return typedValue[T](val), nil
}

// MustGet is like [Get] but panics if T cannot be resolved.
func MustGet[T any](r Resolver, opts ...ResolveOption) T {
	val, err := Get[T](r, opts...)
	if err != nil {
		panic(err)
	}
	return val
}
