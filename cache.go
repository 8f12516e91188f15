package di

import (
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
)

// instanceCache holds singleton instances by definition name.
//
// finished instances are lifecycle-complete. inProgress instances have been
// allocated but not yet injected or initialized; they are only handed out to
// the resolution that is building them, to close injection cycles.
// PerRequest instances never enter either map.
type instanceCache struct {
	finished   *xsync.MapOf[string, any]
	inProgress *xsync.MapOf[string, any]
	locks      *xsync.MapOf[string, *sync.Mutex]
}

func newInstanceCache() *instanceCache {
	return &instanceCache{
		finished:   xsync.NewMapOf[string, any](),
		inProgress: xsync.NewMapOf[string, any](),
		locks:      xsync.NewMapOf[string, *sync.Mutex](),
	}
}

func (c *instanceCache) getFinished(name string) (any, bool) {
	return c.finished.Load(name)
}

func (c *instanceCache) getInProgress(name string) (any, bool) {
	return c.inProgress.Load(name)
}

func (c *instanceCache) markInProgress(name string, instance any) {
	c.inProgress.Store(name, instance)
}

// promote publishes a finished instance and drops its in-progress entry.
func (c *instanceCache) promote(name string, instance any) {
	c.finished.Store(name, instance)
	c.inProgress.Delete(name)
}

// discard drops in-progress state after a failed construction.
func (c *instanceCache) discard(name string) {
	c.inProgress.Delete(name)
}

// lockFor returns the mutex that serializes construction of one singleton.
func (c *instanceCache) lockFor(name string) *sync.Mutex {
	mu, _ := c.locks.LoadOrCompute(name, func() *sync.Mutex {
		return &sync.Mutex{}
	})
	return mu
}

func (c *instanceCache) clear() {
	c.finished.Clear()
	c.inProgress.Clear()
	c.locks.Clear()
}
