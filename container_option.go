package di

import (
	"log/slog"

	"github.com/sectrean/component-kit/internal/errors"
)

// ContainerOption is used to configure a new Container.
type ContainerOption interface {
	order() optionOrder
	applyContainer(*Container) error
}

// optionOrder controls when an option is applied relative to the others.
// Settings go first so that components registered by later options see them.
type optionOrder uint8

const (
	orderSettings optionOrder = iota
	orderComponent
	orderRefresh
)

type containerOption struct {
	o  optionOrder
	fn func(*Container) error
}

func newContainerOption(o optionOrder, fn func(*Container) error) containerOption {
	return containerOption{o: o, fn: fn}
}

func (o containerOption) order() optionOrder {
	return o.o
}

func (o containerOption) applyContainer(c *Container) error {
	return o.fn(c)
}

// WithLogger sets the logger used by the Container.
//
// The default is [slog.Default].
func WithLogger(logger *slog.Logger) ContainerOption {
	return newContainerOption(orderSettings, func(c *Container) error {
		if logger == nil {
			return errors.New("with logger: logger is nil")
		}

		c.logger = logger
		return nil
	})
}

// WithDiscovery sets the [Discovery] used by [Container.Scan].
func WithDiscovery(d Discovery) ContainerOption {
	return newContainerOption(orderSettings, func(c *Container) error {
		if d == nil {
			return errors.New("with discovery: discovery is nil")
		}

		c.discovery = d
		return nil
	})
}

// WithComponent defines and registers a component with the Container.
//
// The funcOrValue argument must be a constructor function or a value.
// See [Define] for details and the available options.
func WithComponent(funcOrValue any, opts ...DefinitionOption) ContainerOption {
	return newContainerOption(orderComponent, func(c *Container) error {
		d, err := Define(funcOrValue, opts...)
		if err != nil {
			return errors.Wrap(err, "with component")
		}

		return c.registry.register(d)
	})
}

// WithDefinitions registers already created definitions with the Container.
func WithDefinitions(defs ...*Definition) ContainerOption {
	return newContainerOption(orderComponent, func(c *Container) error {
		return errors.Wrap(c.register(defs), "with definitions")
	})
}

// WithModule registers every definition of a [Module] with the Container.
func WithModule(m Module) ContainerOption {
	return newContainerOption(orderComponent, func(c *Container) error {
		return errors.Wrap(c.register(m), "with module")
	})
}

// WithRefresh calls [Container.Refresh] once every component is registered,
// so a Container is only returned if all of its singletons can be constructed.
func WithRefresh() ContainerOption {
	return newContainerOption(orderRefresh, func(c *Container) error {
		return c.Refresh()
	})
}
