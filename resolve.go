package di

import (
	"reflect"

	"github.com/sectrean/component-kit/internal/errors"
)

// resolve selects a definition for t and returns its instance, constructing it
// if needed. found is false when a lookup that is not required matches nothing.
//
// Resolution errors are returned as-is so callers can match them with errors.As.
func (c *Container) resolve(
	v *resolveVisitor,
	t reflect.Type,
	qualifier string,
	required bool,
) (val any, found bool, err error) {
	var def *Definition

	if qualifier != "" {
		def, err = c.registry.lookupByName(qualifier)
		if err != nil {
			if !required {
				return nil, false, nil
			}
			return nil, false, &NotFoundError{Type: t, Name: qualifier}
		}

		if !def.t.AssignableTo(t) {
			return nil, false, &TypeMismatchError{Name: qualifier, Want: t, Got: def.t}
		}
	} else {
		def, err = c.selectCandidate(t)
		if err != nil {
			return nil, false, err
		}

		if def == nil {
			if !required {
				return nil, false, nil
			}
			return nil, false, &NotFoundError{Type: t}
		}
	}

	val, err = c.instance(v, def)
	if err != nil {
		return nil, false, err
	}

	return val, true, nil
}

// selectCandidate arbitrates between every definition satisfying t.
// It returns nil when there are no candidates.
func (c *Container) selectCandidate(t reflect.Type) (*Definition, error) {
	candidates := c.registry.lookupCandidatesByType(t)

	switch len(candidates) {
	case 0:
		return nil, nil
	case 1:
		return candidates[0], nil
	}

	var primary *Definition
	var primaries []string
	for _, candidate := range candidates {
		if candidate.primary {
			primary = candidate
			primaries = append(primaries, candidate.name)
		}
	}

	switch len(primaries) {
	case 0:
		names := make([]string, len(candidates))
		for i, candidate := range candidates {
			names[i] = candidate.name
		}
		return nil, &AmbiguousDependencyError{Type: t, Candidates: names}
	case 1:
		return primary, nil
	default:
		return nil, &AmbiguousPrimaryError{Type: t, Primaries: primaries}
	}
}

// resolveDependency produces the value passed to a parameter or injection target.
// owner names the component (or invoked function) that declared the dependency.
func (c *Container) resolveDependency(v *resolveVisitor, owner string, dep Dependency) (reflect.Value, error) {
	switch {
	case dep.handle != nil:
		resolve := c.deferredResolve(v, dep.Target(), dep.Qualifier, !dep.Optional)
		return dep.handle.bindDeferred(resolve), nil

	case dep.Lazy:
		return c.lazyProxy(v, owner, dep)

	default:
		val, _, err := c.resolve(v, dep.Type, dep.Qualifier, !dep.Optional)
		if err != nil {
			return reflect.Value{}, err
		}
		return safeReflectValue(dep.Type, val), nil
	}
}

func (c *Container) lazyProxy(v *resolveVisitor, owner string, dep Dependency) (reflect.Value, error) {
	if dep.Type.Kind() != reflect.Interface {
		return reflect.Value{}, &ConstructionError{
			Name:  owner,
			Cause: errors.Wrapf(ErrLazyRequiresInterface, "lazy %s", dep.Type),
		}
	}

	newProxy, ok := c.proxies[dep.Type]
	if !ok {
		return reflect.Value{}, &ConstructionError{
			Name:  owner,
			Cause: errors.Wrapf(ErrNoLazyProxy, "lazy %s", dep.Type),
		}
	}

	proxy := newProxy(c.deferredResolve(v, dep.Type, dep.Qualifier, !dep.Optional))
	return safeReflectValue(dep.Type, proxy), nil
}

// deferredResolve returns a function that resolves t when called.
//
// A resolution visitor belongs to the goroutine that created it. While the
// resolution that bound the handle is still running, calls from that goroutine
// reuse its visitor so a handle used inside a constructor still detects cycles.
// Calls from any other goroutine, or made afterwards, are new top-level
// resolutions and wait on the per-name locks instead of seeing partial instances.
func (c *Container) deferredResolve(bound *resolveVisitor, t reflect.Type, qualifier string, required bool) resolveFunc {
	var owner uint64
	if bound != nil {
		owner = goroutineID()
	}

	return func() (any, bool, error) {
		if c.closed.Load() {
			return nil, false, errors.Wrapf(ErrContainerClosed, "resolve %s", t)
		}

		v := bound
		if v == nil || !v.active() || goroutineID() != owner {
			v = newResolveVisitor()
			defer v.finish()
		}

		return c.resolve(v, t, qualifier, required)
	}
}
