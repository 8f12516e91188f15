package host

import (
	"log/slog"

	"github.com/sectrean/component-kit"
)

// Option is used to configure [Register].
type Option interface {
	applyHost(*options)
}

type options struct {
	logger        *slog.Logger
	config        *Config
	discovery     di.Discovery
	sources       []string
	containerOpts []di.ContainerOption
}

type option func(*options)

func (o option) applyHost(c *options) {
	o(c)
}

// WithLogger sets the logger bound as "logger" and used by the Container.
// The default is [slog.Default].
func WithLogger(logger *slog.Logger) Option {
	return option(func(c *options) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithConfig sets the configuration store bound as "config".
// The default is an empty store.
func WithConfig(cfg *Config) Option {
	return option(func(c *options) {
		c.config = cfg
	})
}

// WithDiscovery sets the [di.Discovery] used to scan the owner's sources.
func WithDiscovery(d di.Discovery) Option {
	return option(func(c *options) {
		c.discovery = d
	})
}

// WithSources sets the sources scanned after the host environment is bound.
func WithSources(sources ...string) Option {
	return option(func(c *options) {
		c.sources = append(c.sources, sources...)
	})
}

// WithContainerOptions passes additional options to [di.NewContainer].
func WithContainerOptions(opts ...di.ContainerOption) Option {
	return option(func(c *options) {
		c.containerOpts = append(c.containerOpts, opts...)
	})
}
