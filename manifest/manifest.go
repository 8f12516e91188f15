// Package manifest discovers component definitions from YAML files.
//
// A manifest names the components of one source and which registered Go
// function constructs each of them:
//
//	components:
//	  - name: defaultStorage
//	    constructor: NewDefaultStorage
//	    primary: true
//	  - name: validationService
//	    constructor: NewValidationService
//	    params:
//	      - index: 1
//	        qualifier: fastStorage
//	    fields:
//	      - name: Audit
//	        optional: true
//	    closer: true
//
// Go cannot look functions up by name, so constructors are registered up front
// in a [Constructors] table.
package manifest

import (
	"bytes"
	"io"
	"io/fs"
	"path"

	"gopkg.in/yaml.v3"

	"github.com/sectrean/component-kit"
	"github.com/sectrean/component-kit/internal/errors"
)

// File is the root of a manifest.
type File struct {
	Components []Component `yaml:"components"`
}

// Component describes one definition.
type Component struct {
	Name        string  `yaml:"name"`
	Constructor string  `yaml:"constructor"`
	Factory     string  `yaml:"factory"`
	Lifetime    string  `yaml:"lifetime"`
	Primary     bool    `yaml:"primary"`
	Closer      bool    `yaml:"closer"`
	Params      []Param `yaml:"params"`
	Fields      []Field `yaml:"fields"`
}

// Param configures the constructor parameter at Index.
type Param struct {
	Index     int    `yaml:"index"`
	Qualifier string `yaml:"qualifier"`
	Optional  bool   `yaml:"optional"`
	Lazy      bool   `yaml:"lazy"`
}

// Field adds a field injection target.
type Field struct {
	Name      string `yaml:"name"`
	Qualifier string `yaml:"qualifier"`
	Optional  bool   `yaml:"optional"`
	Lazy      bool   `yaml:"lazy"`
}

// Constructors maps the constructor names used in manifests to Go functions.
// When a component names a factory, the function is a method expression on it.
type Constructors map[string]any

// Parse decodes a manifest. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	// An empty document decodes to an empty manifest
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "parse manifest")
	}

	return &f, nil
}

// Source is a [di.Discovery] that reads "<source>.yaml" from a file system.
type Source struct {
	fsys         fs.FS
	constructors Constructors
}

var _ di.Discovery = (*Source)(nil)

// NewSource creates a [Source] reading manifests from fsys.
func NewSource(fsys fs.FS, constructors Constructors) *Source {
	return &Source{
		fsys:         fsys,
		constructors: constructors,
	}
}

// Discover reads the manifest of each source and returns its definitions
// in file order.
func (s *Source) Discover(sources ...string) ([]*di.Definition, error) {
	var defs []*di.Definition

	for _, source := range sources {
		name := path.Clean(source) + ".yaml"

		data, err := fs.ReadFile(s.fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(di.ErrUnknownSource, "source %q", source)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "source %q", source)
		}

		f, err := Parse(data)
		if err != nil {
			return nil, errors.Wrapf(err, "source %q", source)
		}

		sourceDefs, err := s.Definitions(f)
		if err != nil {
			return nil, errors.Wrapf(err, "source %q", source)
		}

		defs = append(defs, sourceDefs...)
	}

	return defs, nil
}

// Definitions builds a definition for each component of f.
// Errors for every invalid component are joined together.
func (s *Source) Definitions(f *File) ([]*di.Definition, error) {
	defs := make([]*di.Definition, 0, len(f.Components))
	var errs errors.MultiError

	for i, comp := range f.Components {
		d, err := s.define(comp)
		if err != nil {
			errs = errs.Append(errors.Wrapf(err, "component %d (%s)", i, comp.Name))
			continue
		}
		defs = append(defs, d)
	}

	if err := errs.Join(); err != nil {
		return nil, err
	}

	return defs, nil
}

func (s *Source) define(comp Component) (*di.Definition, error) {
	fn, ok := s.constructors[comp.Constructor]
	if !ok {
		return nil, errors.Errorf("unknown constructor %q", comp.Constructor)
	}

	lifetime, err := di.ParseLifetime(comp.Lifetime)
	if err != nil {
		return nil, err
	}

	opts := []di.DefinitionOption{lifetime}
	if comp.Name != "" {
		opts = append(opts, di.WithName(comp.Name))
	}
	if comp.Primary {
		opts = append(opts, di.Primary())
	}
	if comp.Closer {
		opts = append(opts, di.WithCloser())
	}
	for _, p := range comp.Params {
		opts = append(opts, di.WithParamAt(p.Index, dependencyOptions(p.Qualifier, p.Optional, p.Lazy)...))
	}
	for _, f := range comp.Fields {
		opts = append(opts, di.InjectField(f.Name, dependencyOptions(f.Qualifier, f.Optional, f.Lazy)...))
	}

	if comp.Factory != "" {
		return di.DefineMethod(comp.Factory, fn, opts...)
	}
	return di.Define(fn, opts...)
}

func dependencyOptions(qualifier string, optional, lazy bool) []di.DependencyOption {
	var opts []di.DependencyOption
	if qualifier != "" {
		opts = append(opts, di.WithQualifier(qualifier))
	}
	if optional {
		opts = append(opts, di.WithOptional())
	}
	if lazy {
		opts = append(opts, di.WithLazy())
	}
	return opts
}
