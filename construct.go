package di

import (
	"reflect"

	"github.com/sectrean/component-kit/internal/errors"
)

// instance returns the instance for d, constructing it if needed.
//
// Singletons are cached. Construction of one singleton is serialized by a
// per-name lock, so a second goroutine waits for the first to finish instead of
// seeing a partial instance. Within one resolution, a request for a singleton
// that is still being built returns the in-progress instance; if it has not
// been allocated yet, the cycle cannot be broken.
func (c *Container) instance(v *resolveVisitor, d *Definition) (any, error) {
	if d.lifetime == PerRequest {
		return c.construct(v, d)
	}

	if val, ok := c.cache.getFinished(d.name); ok {
		return val, nil
	}

	if v.Creating(d.name) {
		if early, ok := c.cache.getInProgress(d.name); ok {
			return early, nil
		}
		return nil, &CircularDependencyError{Chain: v.Chain(d.name)}
	}

	mu := c.cache.lockFor(d.name)
	mu.Lock()
	defer mu.Unlock()

	// Check if another goroutine finished it while we waited
	if val, ok := c.cache.getFinished(d.name); ok {
		return val, nil
	}

	return c.construct(v, d)
}

// construct allocates an instance, runs its injection targets and its
// post-construct hook, and publishes singletons to the finished cache.
// On failure no in-progress state is left behind, so a later resolution may retry.
// A panic in user code is returned as a [*ConstructionError].
func (c *Container) construct(v *resolveVisitor, d *Definition) (instance any, err error) {
	if !v.Enter(d.name) {
		return nil, &CircularDependencyError{Chain: v.Chain(d.name)}
	}
	defer v.Leave(d.name)

	defer func() {
		if r := recover(); r != nil {
			instance = nil
			err = &ConstructionError{Name: d.name, Cause: errors.Errorf("panic: %v", r)}
		}
	}()

	singleton := d.lifetime == Singleton
	published := false
	if singleton {
		defer func() {
			if !published {
				c.cache.discard(d.name)
			}
		}()
	}

	instance, err = c.allocate(v, d)
	if err != nil {
		return nil, err
	}

	if singleton {
		c.cache.markInProgress(d.name, instance)
	}

	for _, target := range d.targets {
		val, err := c.resolveDependency(v, d.name, target.dep)
		if err != nil {
			return nil, err
		}

		if err := target.set(instance, val); err != nil {
			return nil, &ConstructionError{Name: d.name, Cause: err}
		}
	}

	if d.postConstruct != nil {
		if err := d.postConstruct(instance); err != nil {
			return nil, &ConstructionError{Name: d.name, Cause: errors.Wrap(err, "post construct")}
		}
	}

	if singleton {
		c.cache.promote(d.name, instance)
		published = true
	}

	c.logger.Debug("constructed component",
		"component", d.name,
		"type", d.t.String(),
		"lifetime", d.lifetime.String(),
	)

	return instance, nil
}

// allocate creates the raw instance using the definition's strategy.
// Parameters are resolved first, in declared order.
func (c *Container) allocate(v *resolveVisitor, d *Definition) (any, error) {
	s := &d.strategy

	switch s.kind {
	case ValueStrategy:
		return s.value, nil

	case SupplierStrategy:
		val, err := s.supply()
		if err != nil {
			return nil, &ConstructionError{Name: d.name, Cause: err}
		}
		return val, nil
	}

	args := make([]reflect.Value, 0, len(s.params)+1)

	if s.kind == FactoryMethodStrategy {
		recv, err := c.factoryReceiver(v, s)
		if err != nil {
			return nil, err
		}
		args = append(args, recv)
	}

	for _, dep := range s.params {
		// Stop at the first error
		val, err := c.resolveDependency(v, d.name, dep)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}

	val, err := s.call(args)
	if err != nil {
		return nil, &ConstructionError{Name: d.name, Cause: err}
	}

	return val, nil
}

func (c *Container) factoryReceiver(v *resolveVisitor, s *strategy) (reflect.Value, error) {
	recvType := s.fn.Type().In(0)

	factory, err := c.registry.lookupByName(s.factory)
	if err != nil {
		return reflect.Value{}, &NotFoundError{Type: recvType, Name: s.factory}
	}

	if !factory.t.AssignableTo(recvType) {
		return reflect.Value{}, &TypeMismatchError{Name: s.factory, Want: recvType, Got: factory.t}
	}

	val, err := c.instance(v, factory)
	if err != nil {
		return reflect.Value{}, err
	}

	return safeReflectValue(recvType, val), nil
}
