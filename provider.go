package di

import (
	"reflect"
	"sync"

	"github.com/sectrean/component-kit/internal/errors"
)

// resolveFunc performs one deferred resolution.
type resolveFunc func() (val any, found bool, err error)

// deferredHandle is implemented by the handle types a Container can inject
// in place of an instance.
type deferredHandle interface {
	deferredTarget() reflect.Type
	bindDeferred(resolve resolveFunc) reflect.Value
}

// deferredOf returns the handle implementation for t, or nil if t is not
// a [Provider] or [*Lazy].
func deferredOf(t reflect.Type) deferredHandle {
	if t.Kind() != reflect.Struct && t.Kind() != reflect.Pointer {
		return nil
	}

	h, ok := reflect.Zero(t).Interface().(deferredHandle)
	if !ok {
		return nil
	}

	// Ignore types that only embed a handle
	if h.bindDeferred(nil).Type() != t {
		return nil
	}

	return h
}

// Provider is a pull handle: each call to Get performs one resolution.
//
// Declare a constructor parameter, setter argument or field of type Provider[T]
// to receive a Provider instead of an instance. With a PerRequest component,
// each call returns a new instance. The required or optional policy of the
// dependency is applied when Get is called, not when the Provider is injected.
type Provider[T any] struct {
	resolve resolveFunc
}

// NewProvider creates a [Provider] for T backed by c.
//
// Available options:
//   - [WithQualifier]
//   - [WithOptional]
func NewProvider[T any](c *Container, opts ...ResolveOption) (Provider[T], error) {
	config, err := newResolveConfig(opts)
	if err != nil {
		return Provider[T]{}, errors.Wrapf(err, "di.NewProvider %s", reflect.TypeFor[T]())
	}

	return Provider[T]{
		resolve: c.deferredResolve(nil, reflect.TypeFor[T](), config.qualifier, !config.optional),
	}, nil
}

// Get resolves T. An optional dependency with no match returns the zero value.
func (p Provider[T]) Get() (T, error) {
	var zero T
	if p.resolve == nil {
		return zero, errors.Errorf("provider %s: not bound to a container", reflect.TypeFor[T]())
	}

	val, _, err := p.resolve()
	if err != nil {
		return zero, err
	}

	return typedValue[T](val), nil
}

// MustGet is like Get but panics if T cannot be resolved.
func (p Provider[T]) MustGet() T {
	val, err := p.Get()
	if err != nil {
		panic(err)
	}
	return val
}

func (Provider[T]) deferredTarget() reflect.Type {
	return reflect.TypeFor[T]()
}

func (Provider[T]) bindDeferred(resolve resolveFunc) reflect.Value {
	return reflect.ValueOf(Provider[T]{resolve: resolve})
}

// Lazy is a memoized pull handle. The first successful call to Get resolves T
// and later calls return the same value. Failed or absent resolutions are not
// memoized and are retried on the next call.
//
// Lazy is also what a lazy proxy registered with [WithLazyProxy] forwards through.
type Lazy[T any] struct {
	mu       sync.Mutex
	resolve  resolveFunc
	val      T
	resolved bool
}

// NewLazy creates a [*Lazy] for T backed by c.
//
// Available options:
//   - [WithQualifier]
//   - [WithOptional]
func NewLazy[T any](c *Container, opts ...ResolveOption) (*Lazy[T], error) {
	config, err := newResolveConfig(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "di.NewLazy %s", reflect.TypeFor[T]())
	}

	return &Lazy[T]{
		resolve: c.deferredResolve(nil, reflect.TypeFor[T](), config.qualifier, !config.optional),
	}, nil
}

// Get returns the resolved value, resolving it on the first call.
func (l *Lazy[T]) Get() (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.resolved {
		return l.val, nil
	}

	var zero T
	if l.resolve == nil {
		return zero, errors.Errorf("lazy %s: not bound to a container", reflect.TypeFor[T]())
	}

	val, found, err := l.resolve()
	if err != nil {
		return zero, err
	}
	if !found {
		return zero, nil
	}

	l.val = typedValue[T](val)
	l.resolved = true
	return l.val, nil
}

// MustGet is like Get but panics if T cannot be resolved.
func (l *Lazy[T]) MustGet() T {
	val, err := l.Get()
	if err != nil {
		panic(err)
	}
	return val
}

// Resolved reports whether the value has been resolved.
func (l *Lazy[T]) Resolved() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.resolved
}

func (*Lazy[T]) deferredTarget() reflect.Type {
	return reflect.TypeFor[T]()
}

func (*Lazy[T]) bindDeferred(resolve resolveFunc) reflect.Value {
	return reflect.ValueOf(&Lazy[T]{resolve: resolve})
}

var (
	_ deferredHandle = Provider[any]{}
	_ deferredHandle = (*Lazy[any])(nil)
)

type proxyFactory func(resolve resolveFunc) any

// WithLazyProxy registers the proxy used for dependencies of interface type T
// declared with [WithLazy].
//
// Go has no dynamic proxies, so the proxy is a hand-written type that
// implements T by forwarding every method through the [*Lazy] it is given:
//
//	type lazyStorage struct{ l *di.Lazy[Storage] }
//
//	func (s lazyStorage) Name() string { return s.l.MustGet().Name() }
//
//	di.WithLazyProxy(func(l *di.Lazy[Storage]) Storage { return lazyStorage{l} })
//
// When the dependency is also declared with [WithOptional] and nothing matches,
// the Lazy resolves to the zero value of T. A proxy used for optional
// dependencies must check for it before forwarding:
//
//	func (s lazyStorage) Name() string {
//		if st := s.l.MustGet(); st != nil {
//			return st.Name()
//		}
//		return ""
//	}
//
// This option will return an error if T is not an interface.
func WithLazyProxy[T any](newProxy func(*Lazy[T]) T) ContainerOption {
	return newContainerOption(orderSettings, func(c *Container) error {
		t := reflect.TypeFor[T]()
		if t.Kind() != reflect.Interface {
			return errors.Wrapf(ErrLazyRequiresInterface, "with lazy proxy %s", t)
		}
		if newProxy == nil {
			return errors.Errorf("with lazy proxy %s: proxy constructor is nil", t)
		}

		c.proxies[t] = func(resolve resolveFunc) any {
			return newProxy(&Lazy[T]{resolve: resolve})
		}
		return nil
	})
}
