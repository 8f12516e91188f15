package di

import (
	"bytes"
	"context"
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sectrean/component-kit/internal/errors"
)

// These are commonly used types.
var (
	typeError   = reflect.TypeFor[error]()
	typeContext = reflect.TypeFor[context.Context]()
)

func safeReflectValue(t reflect.Type, val any) reflect.Value {
	if val == nil {
		return reflect.Zero(t)
	}

	return reflect.ValueOf(val)
}

// typedValue converts an untyped resolution result into T.
// A nil or absent value yields the zero value of T.
func typedValue[T any](val any) T {
	var zero T
	if val == nil {
		return zero
	}

	typed, _ := val.(T)
	return typed
}

// Apply functional options and join any errors together.
func applyOptions[O any](opts []O, f func(O) error) error {
	var errs []error

	for _, o := range opts {
		err := f(o)
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// DefaultName returns the name a component of type t is registered under when
// no explicit name is given: the type's simple name with the first letter
// lowercased. Pointers are dereferenced and generic arguments are kept.
//
//	*storage.DefaultStorage -> "defaultStorage"
//	storage.Storage         -> "storage"
func DefaultName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	name := t.Name()
	if name == "" {
		return t.String()
	}

	r, size := utf8.DecodeRuneInString(name)
	var b strings.Builder
	b.Grow(len(name))
	b.WriteRune(unicode.ToLower(r))
	b.WriteString(name[size:])
	return b.String()
}

// goroutineID returns the id of the calling goroutine, parsed from the
// "goroutine N [status]:" header of its stack trace.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	field := bytes.TrimPrefix(buf[:n], []byte("goroutine "))
	if i := bytes.IndexByte(field, ' '); i >= 0 {
		field = field[:i]
	}

	id, _ := strconv.ParseUint(string(field), 10, 64)
	return id
}
