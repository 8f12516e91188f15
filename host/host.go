// Package host keeps one [di.Container] per owner for the lifetime of a process.
//
// An owner is whatever unit of deployment gets its own components, such as a
// plugin or a tenant. Every hosted Container is pre-bound with the host
// environment before its sources are scanned:
//
//	"logger"    *slog.Logger
//	"scheduler" host.Scheduler
//	"config"    *host.Config
package host

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/sectrean/component-kit"
	"github.com/sectrean/component-kit/internal/errors"
)

type hosted struct {
	c         *di.Container
	scheduler *timerScheduler
}

var (
	mu     sync.Mutex
	owners = make(map[string]*hosted)
)

// Register creates, scans and refreshes the Container for owner.
//
// Register is idempotent: if owner already has a Container it is returned and
// opts are ignored. Constructors run by Register must not call back into this package.
//
// Available options:
//   - [WithLogger]
//   - [WithConfig]
//   - [WithDiscovery] and [WithSources]
//   - [WithContainerOptions]
func Register(owner string, opts ...Option) (*di.Container, error) {
	if owner == "" {
		return nil, errors.New("host.Register: owner is empty")
	}

	mu.Lock()
	defer mu.Unlock()

	if h, ok := owners[owner]; ok {
		return h.c, nil
	}

	o := &options{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt.applyHost(o)
	}
	if o.config == nil {
		o.config = NewConfig(nil)
	}

	logger := o.logger.With("owner", owner)
	h := &hosted{
		scheduler: newTimerScheduler(logger),
	}

	var err error
	h.c, err = newContainer(logger, h.scheduler, o)
	if err != nil {
		h.scheduler.Stop()
		return nil, errors.Wrapf(err, "host.Register %s", owner)
	}

	owners[owner] = h
	logger.Info("owner registered", "definitions", len(h.c.Definitions()))

	return h.c, nil
}

func newContainer(logger *slog.Logger, scheduler Scheduler, o *options) (*di.Container, error) {
	opts := []di.ContainerOption{di.WithLogger(logger)}
	if o.discovery != nil {
		opts = append(opts, di.WithDiscovery(o.discovery))
	}
	opts = append(opts, o.containerOpts...)

	c, err := di.NewContainer(opts...)
	if err != nil {
		return nil, err
	}

	err = errors.Join(
		di.BindInstance(c, logger),
		di.BindInstance(c, scheduler),
		di.BindInstance(c, o.config),
	)
	if err != nil {
		return nil, err
	}

	if len(o.sources) > 0 {
		if err := c.Scan(o.sources...); err != nil {
			return nil, err
		}
	}

	if err := c.Refresh(); err != nil {
		// Release whatever was constructed before the failure
		_ = c.Close(context.Background())
		return nil, err
	}

	return c, nil
}

// Lookup returns the Container registered for owner.
func Lookup(owner string) (*di.Container, bool) {
	mu.Lock()
	defer mu.Unlock()

	h, ok := owners[owner]
	if !ok {
		return nil, false
	}
	return h.c, true
}

// Owners returns the registered owners, sorted.
func Owners() []string {
	mu.Lock()
	defer mu.Unlock()

	names := make([]string, 0, len(owners))
	for owner := range owners {
		names = append(names, owner)
	}
	slices.Sort(names)
	return names
}

// Unregister removes owner, then closes its Container and stops its scheduler.
// The entry is removed first so the owner can be registered again even if
// closing fails.
func Unregister(ctx context.Context, owner string) error {
	mu.Lock()
	h, ok := owners[owner]
	delete(owners, owner)
	mu.Unlock()

	if !ok {
		return errors.Errorf("host.Unregister %s: owner not registered", owner)
	}

	return shutdown(ctx, owner, h)
}

// ShutdownAll unregisters every owner. Errors are joined together.
func ShutdownAll(ctx context.Context) error {
	mu.Lock()
	all := owners
	owners = make(map[string]*hosted)
	mu.Unlock()

	var errs errors.MultiError
	for _, owner := range slices.Sorted(maps.Keys(all)) {
		errs = errs.Append(shutdown(ctx, owner, all[owner]))
	}

	return errs.Join()
}

func shutdown(ctx context.Context, owner string, h *hosted) error {
	defer h.scheduler.Stop()

	err := h.c.Close(ctx)
	return errors.Wrapf(err, "host shutdown %s", owner)
}
