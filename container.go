// Package di is a small component container.
//
// Components are described by [Definition]s: how to allocate an instance, which
// collaborators to inject, and which lifecycle hooks to run. The [Container]
// resolves definitions on demand, caches singletons, breaks injection cycles,
// arbitrates between candidates with qualifiers and primary flags, and hands
// out deferred handles ([Provider], [Lazy]) and lazy proxies.
package di

import (
	"cmp"
	"context"
	"log/slog"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/sectrean/component-kit/internal/errors"
)

// Container holds a flat registry of definitions and the instances built from them.
//
// Register, Scan, Refresh and Close are serialized against each other.
// Resolution may run concurrently from many goroutines.
type Container struct {
	mu        sync.Mutex
	registry  *registry
	cache     *instanceCache
	logger    *slog.Logger
	discovery Discovery
	proxies   map[reflect.Type]proxyFactory
	refreshed bool
	closed    atomic.Bool
}

var _ Resolver = (*Container)(nil)

// NewContainer creates a new [Container] with the provided options.
//
// Available options:
//   - [WithLogger] sets the logger.
//   - [WithDiscovery] sets the collaborator used by [Container.Scan].
//   - [WithLazyProxy] registers a lazy proxy for an interface.
//   - [WithComponent], [WithDefinitions] and [WithModule] register components.
//   - [WithRefresh] refreshes the Container once every component is registered.
func NewContainer(opts ...ContainerOption) (*Container, error) {
	c := &Container{
		registry: newRegistry(),
		cache:    newInstanceCache(),
		logger:   slog.Default(),
		proxies:  make(map[reflect.Type]proxyFactory),
	}

	err := c.applyOptions(opts)
	if err != nil {
		return nil, errors.Wrap(err, "di.NewContainer")
	}

	return c, nil
}

func (c *Container) applyOptions(opts []ContainerOption) error {
	// Use stable sort because the registration order of components matters
	slices.SortStableFunc(opts, func(a, b ContainerOption) int {
		return cmp.Compare(a.order(), b.order())
	})

	var errs errors.MultiError
	for _, o := range opts {
		errs = errs.Append(o.applyContainer(c))
	}

	return errs.Join()
}

// Register adds definitions to the registry.
//
// A definition whose name is already registered is rejected with a
// [*DuplicateNameError]; the others are still registered.
func (c *Container) Register(defs ...*Definition) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return errors.Wrap(ErrContainerClosed, "di.Container.Register")
	}

	return c.register(defs)
}

func (c *Container) register(defs []*Definition) error {
	var errs errors.MultiError
	for _, d := range defs {
		if d == nil {
			errs = errs.Append(errors.New("definition is nil"))
			continue
		}
		errs = errs.Append(c.registry.register(d))
	}

	return errs.Join()
}

// BindInstance registers val as a finished singleton of type T under
// T's default name (see [DefaultName]).
//
// This is used for values that exist before the Container, such as a logger
// or a configuration store.
func BindInstance[T any](c *Container, val T) error {
	t := reflect.TypeFor[T]()

	if err := validateComponentType(t); err != nil {
		return errors.Wrapf(err, "di.BindInstance %s", t)
	}
	if any(val) == nil {
		return errors.Errorf("di.BindInstance %s: value is nil", t)
	}

	d, err := newDefinition(strategy{
		kind:  ValueStrategy,
		out:   t,
		value: val,
	}, nil)
	if err != nil {
		return errors.Wrapf(err, "di.BindInstance %s", t)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return errors.Wrapf(ErrContainerClosed, "di.BindInstance %s", t)
	}

	if err := c.registry.register(d); err != nil {
		return err
	}

	c.cache.promote(d.name, val)
	return nil
}

// BindProvider registers a singleton of type T under T's default name whose
// construction calls fn once, on first resolution.
func BindProvider[T any](c *Container, fn func() (T, error)) error {
	d, err := DefineSupplier(fn)
	if err != nil {
		return errors.Wrap(err, "di.BindProvider")
	}

	return c.Register(d)
}

// Scan asks the configured [Discovery] for the definitions in sources and registers them.
//
// Scan does not re-wire instances that are already finished, so components
// needed by existing singletons must be scanned before [Container.Refresh].
func (c *Container) Scan(sources ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return errors.Wrap(ErrContainerClosed, "di.Container.Scan")
	}
	if len(sources) == 0 {
		return errors.New("di.Container.Scan: at least one source is required")
	}
	if c.discovery == nil {
		return errors.Wrap(ErrNoDiscovery, "di.Container.Scan")
	}

	defs, err := c.discovery.Discover(sources...)
	if err != nil {
		return errors.Wrapf(err, "di.Container.Scan %v", sources)
	}

	c.logger.Debug("scanned sources", "sources", sources, "definitions", len(defs))

	return errors.Wrapf(c.register(defs), "di.Container.Scan %v", sources)
}

// Resolve returns an instance of the given [reflect.Type].
//
// Without a qualifier, every definition whose type is assignable to t is a
// candidate. One candidate is used directly, several are narrowed to the
// single primary one.
//
// Errors are returned unmodified and can be matched with errors.As:
// [*NotFoundError], [*AmbiguousDependencyError], [*AmbiguousPrimaryError],
// [*CircularDependencyError], [*ConstructionError], [*TypeMismatchError].
//
// Resolve is safe for concurrent use. Singletons that depend on each other
// through injection targets must not be constructed for the first time from
// several goroutines at once: each goroutine holds the construction lock of
// the singleton it started with and waits for the other. Call
// [Container.Refresh] before concurrent use to construct them up front.
//
// Available options:
//   - [WithQualifier] resolves the definition with the given name.
//   - [WithOptional] returns nil instead of a [*NotFoundError].
func (c *Container) Resolve(t reflect.Type, opts ...ResolveOption) (any, error) {
	if t == nil {
		return nil, errors.New("di.Container.Resolve: type is nil")
	}

	config, err := newResolveConfig(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "di.Container.Resolve %s", t)
	}

	if c.closed.Load() {
		return nil, errors.Wrapf(ErrContainerClosed, "di.Container.Resolve %s", t)
	}

	v := newResolveVisitor()
	defer v.finish()

	val, _, err := c.resolve(v, t, config.qualifier, !config.optional)
	return val, err
}

// Contains returns true if a lookup for t would find at least one definition.
//
// Available options:
//   - [WithQualifier] checks for the definition with the given name.
func (c *Container) Contains(t reflect.Type, opts ...ResolveOption) bool {
	config, err := newResolveConfig(opts)
	if err != nil {
		return false
	}

	if config.qualifier != "" {
		d, err := c.registry.lookupByName(config.qualifier)
		return err == nil && d.t.AssignableTo(t)
	}

	return len(c.registry.lookupCandidatesByType(t)) > 0
}

// Definitions returns the registered definitions in registration order.
func (c *Container) Definitions() []*Definition {
	return c.registry.all()
}

// Instantiated reports whether the singleton with the given name is finished.
func (c *Container) Instantiated(name string) bool {
	_, ok := c.cache.getFinished(name)
	return ok
}

// Closed reports whether [Container.Close] has been called.
func (c *Container) Closed() bool {
	return c.closed.Load()
}

// Refresh eagerly constructs every [Singleton] definition in registration order,
// so configuration problems surface at startup rather than on first use.
//
// Refresh stops at the first error and returns it unmodified. A successful
// Refresh makes later calls no-ops.
func (c *Container) Refresh() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return errors.Wrap(ErrContainerClosed, "di.Container.Refresh")
	}
	if c.refreshed {
		return nil
	}

	count := 0
	for _, d := range c.registry.all() {
		if d.lifetime != Singleton {
			continue
		}

		v := newResolveVisitor()
		_, err := c.instance(v, d)
		v.finish()

		if err != nil {
			return err
		}
		count++
	}

	c.refreshed = true
	c.logger.Info("container refreshed", "singletons", count)

	return nil
}

// Close runs the pre-destroy hook of every finished singleton, in registration
// order, then discards all instances. The Container cannot be used afterwards.
//
// Hook errors and panics are logged and do not stop the remaining hooks.
// Close will return an error if called more than once.
func (c *Container) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Swap(true) {
		return errors.Wrap(ErrContainerClosed, "di.Container.Close: closed already")
	}

	for _, d := range c.registry.all() {
		if d.preDestroy == nil {
			continue
		}

		instance, ok := c.cache.getFinished(d.name)
		if !ok {
			continue
		}

		c.destroy(ctx, d, instance)
	}

	c.cache.clear()
	c.logger.DebugContext(ctx, "container closed")

	return nil
}

func (c *Container) destroy(ctx context.Context, d *Definition, instance any) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.WarnContext(ctx, "pre destroy panicked", "component", d.name, "panic", r)
		}
	}()

	if err := d.preDestroy(ctx, instance); err != nil {
		c.logger.WarnContext(ctx, "pre destroy failed", "component", d.name, "error", err)
	}
}
