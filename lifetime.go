package di

import (
	"fmt"
	"strings"

	"github.com/sectrean/component-kit/internal/errors"
)

// Lifetime specifies how instances of a component are created when resolved.
//
// Available lifetimes:
//   - [Singleton] creates one instance and caches it until the Container is closed.
//   - [PerRequest] creates a new instance for each resolution.
type Lifetime uint8

const (
	// Singleton specifies that a component is created once and every later
	// resolution returns the same instance.
	//
	// This is the default lifetime.
	Singleton Lifetime = iota

	// PerRequest specifies that a component is created for each resolution.
	// Instances are never cached and have no pre-destroy hook run for them.
	PerRequest
)

// Lifetime can be used directly as a [DefinitionOption]:
//
//	di.Define(NewTempObject, di.PerRequest)
func (l Lifetime) applyDefinition(d *Definition) error {
	if d.strategy.kind == ValueStrategy && l != Singleton {
		return errors.Errorf("lifetime %s: value components are always singletons", l)
	}

	d.lifetime = l
	return nil
}

var _ DefinitionOption = Singleton

func (l Lifetime) String() string {
	switch l {
	case Singleton:
		return "Singleton"
	case PerRequest:
		return "PerRequest"
	default:
		return fmt.Sprintf("Unknown Lifetime %d", l)
	}
}

// ParseLifetime parses the name of a lifetime, ignoring case.
// "prototype" is accepted as an alias of PerRequest.
func ParseLifetime(s string) (Lifetime, error) {
	switch strings.ToLower(s) {
	case "", "singleton":
		return Singleton, nil
	case "perrequest", "prototype":
		return PerRequest, nil
	default:
		return 0, errors.Errorf("unknown lifetime %q", s)
	}
}
