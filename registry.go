package di

import (
	"reflect"
	"sync"
)

// registry maps names to definitions. It is append-only.
type registry struct {
	mu    sync.RWMutex
	defs  map[string]*Definition
	order []*Definition
}

func newRegistry() *registry {
	return &registry{
		defs: make(map[string]*Definition),
	}
}

func (r *registry) register(d *Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[d.name]; exists {
		return &DuplicateNameError{Name: d.name}
	}

	r.defs[d.name] = d
	r.order = append(r.order, d)
	return nil
}

func (r *registry) lookupByName(name string) (*Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.defs[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}

	return d, nil
}

// lookupCandidatesByType returns every definition whose type is assignable to t,
// in registration order.
func (r *registry) lookupCandidatesByType(t reflect.Type) []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []*Definition
	for _, d := range r.order {
		if d.t.AssignableTo(t) {
			matches = append(matches, d)
		}
	}

	return matches
}

// all returns a snapshot of the definitions in registration order.
func (r *registry) all() []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]*Definition(nil), r.order...)
}
