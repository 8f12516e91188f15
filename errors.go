package di

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/sectrean/component-kit/internal/errors"
)

var (
	// ErrContainerClosed is returned when a closed Container is used.
	ErrContainerClosed = errors.New("container closed")

	// ErrLazyRequiresInterface is returned when a lazy dependency is declared
	// against a type that is not an interface.
	ErrLazyRequiresInterface = errors.New("lazy injection requires an interface type")

	// ErrNoLazyProxy is returned when a lazy dependency is declared against an
	// interface that has no proxy registered with [WithLazyProxy].
	ErrNoLazyProxy = errors.New("no lazy proxy registered")

	// ErrNoDiscovery is returned by [Container.Scan] when no [Discovery] is configured.
	ErrNoDiscovery = errors.New("no discovery configured")

	// ErrUnknownSource is returned by a [Discovery] for a source it does not know.
	ErrUnknownSource = errors.New("unknown source")
)

// DuplicateNameError is returned when a definition name is already registered.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("component name already registered: %s", e.Name)
}

// NotFoundError is returned when a required lookup matches no definition.
//
// Name is set for lookups by qualifier.
type NotFoundError struct {
	Type reflect.Type
	Name string
}

func (e *NotFoundError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("no component named %q", e.Name)
	}
	return fmt.Sprintf("no component found for type %s", e.Type)
}

// AmbiguousDependencyError is returned when several definitions satisfy a type,
// none of them is primary, and no qualifier was given.
type AmbiguousDependencyError struct {
	Type       reflect.Type
	Candidates []string
}

func (e *AmbiguousDependencyError) Error() string {
	return fmt.Sprintf("multiple components found for type %s (%s): use a qualifier or mark one primary",
		e.Type, strings.Join(e.Candidates, ", "))
}

// AmbiguousPrimaryError is returned when more than one candidate for a type is primary.
type AmbiguousPrimaryError struct {
	Type      reflect.Type
	Primaries []string
}

func (e *AmbiguousPrimaryError) Error() string {
	return fmt.Sprintf("multiple primary components for type %s (%s)",
		e.Type, strings.Join(e.Primaries, ", "))
}

// CircularDependencyError is returned when a component is needed again while
// it is still being constructed and no partial instance exists yet.
type CircularDependencyError struct {
	Chain []string
}

func (e *CircularDependencyError) Error() string {
	return "circular dependency detected: " + strings.Join(e.Chain, " -> ")
}

// ConstructionError wraps a failure raised by a constructor, factory,
// supplier, injection setter or lifecycle hook.
type ConstructionError struct {
	Name  string
	Cause error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("construct %s: %v", e.Name, e.Cause)
}

func (e *ConstructionError) Unwrap() error {
	return e.Cause
}

// TypeMismatchError is returned when a qualified lookup finds a definition
// whose type does not satisfy the requested type.
type TypeMismatchError struct {
	Name string
	Want reflect.Type
	Got  reflect.Type
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("component %q is %s, not assignable to %s", e.Name, e.Got, e.Want)
}
