package di

import "sync/atomic"

// resolveVisitor tracks the components being constructed by one logical
// resolution, from the top-level call down through its dependencies.
//
// A visitor is used only by the goroutine running that resolution; done may be
// read from any goroutine.
type resolveVisitor struct {
	creating map[string]struct{}
	chain    []string
	done     atomic.Bool
}

func newResolveVisitor() *resolveVisitor {
	return &resolveVisitor{
		creating: make(map[string]struct{}),
	}
}

// Creating reports whether name is being constructed by this resolution.
func (v *resolveVisitor) Creating(name string) bool {
	_, exists := v.creating[name]
	return exists
}

// Enter returns false if name is already being constructed by this resolution.
func (v *resolveVisitor) Enter(name string) bool {
	if v.Creating(name) {
		return false
	}

	v.creating[name] = struct{}{}
	v.chain = append(v.chain, name)
	return true
}

func (v *resolveVisitor) Leave(name string) {
	delete(v.creating, name)
	if n := len(v.chain); n > 0 && v.chain[n-1] == name {
		v.chain = v.chain[:n-1]
	}
}

// Chain returns the construction chain that leads back to name.
func (v *resolveVisitor) Chain(name string) []string {
	chain := make([]string, 0, len(v.chain)+1)
	chain = append(chain, v.chain...)
	return append(chain, name)
}

// finish marks the top-level resolution as returned. Deferred handles bound
// during the resolution start a new visitor from then on.
func (v *resolveVisitor) finish() {
	v.done.Store(true)
}

func (v *resolveVisitor) active() bool {
	return !v.done.Load()
}
