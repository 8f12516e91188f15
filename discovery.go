package di

import (
	"github.com/sectrean/component-kit/internal/errors"
)

// Discovery produces definitions for named sources. It is the collaborator
// behind [Container.Scan]; the Container only registers what it returns.
//
// A source is usually a package path or a manifest name. See [Catalog] for a
// static table and the manifest package for YAML-backed discovery.
type Discovery interface {
	Discover(sources ...string) ([]*Definition, error)
}

// DiscoveryFunc adapts a function to a [Discovery].
type DiscoveryFunc func(sources ...string) ([]*Definition, error)

func (f DiscoveryFunc) Discover(sources ...string) ([]*Definition, error) {
	return f(sources...)
}

// Module is a group of definitions that are registered together.
type Module []*Definition

// Catalog is a [Discovery] backed by a static table of modules keyed by source.
//
// Example:
//
//	catalog := di.Catalog{
//		"app/storage": di.Module{
//			di.MustDefine(NewDefaultStorage, di.Primary()),
//			di.MustDefine(NewFastStorage),
//		},
//	}
type Catalog map[string]Module

// Discover returns the definitions of each source in the order given.
// Every unknown source is reported.
func (c Catalog) Discover(sources ...string) ([]*Definition, error) {
	var defs []*Definition
	var errs errors.MultiError

	for _, source := range sources {
		m, ok := c[source]
		if !ok {
			errs = errs.Append(errors.Wrapf(ErrUnknownSource, "source %q", source))
			continue
		}
		defs = append(defs, m...)
	}

	if err := errs.Join(); err != nil {
		return nil, err
	}

	return defs, nil
}

var (
	_ Discovery = Catalog{}
	_ Discovery = DiscoveryFunc(nil)
)
