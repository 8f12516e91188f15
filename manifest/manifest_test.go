package manifest_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sectrean/component-kit"
	"github.com/sectrean/component-kit/internal/testtypes"
	"github.com/sectrean/component-kit/manifest"
)

var constructors = manifest.Constructors{
	"NewDefaultStorage": testtypes.NewDefaultStorage,
	"NewFastStorage":    testtypes.NewFastStorage,
	"NewStorageUser":    testtypes.NewStorageUser,
	"NewInterfaceA":     testtypes.NewInterfaceA,
	"NewFactory":        testtypes.NewFactory,
	"NewStructA":        (*testtypes.Factory).NewStructA,
	"NewStructB":        func() *testtypes.StructB { return &testtypes.StructB{} },
}

const storageManifest = `
components:
  - name: defaultStorage
    constructor: NewDefaultStorage
    primary: true
  - name: fastStorage
    constructor: NewFastStorage
  - name: user
    constructor: NewStorageUser
    lifetime: prototype
    params:
      - index: 0
        qualifier: fastStorage
`

func Test_Parse(t *testing.T) {
	t.Run("components", func(t *testing.T) {
		f, err := manifest.Parse([]byte(storageManifest))
		require.NoError(t, err)

		require.Len(t, f.Components, 3)
		assert.Equal(t, manifest.Component{
			Name:        "user",
			Constructor: "NewStorageUser",
			Lifetime:    "prototype",
			Params:      []manifest.Param{{Index: 0, Qualifier: "fastStorage"}},
		}, f.Components[2])
	})

	t.Run("empty", func(t *testing.T) {
		f, err := manifest.Parse(nil)
		require.NoError(t, err)
		assert.Empty(t, f.Components)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := manifest.Parse([]byte("components:\n  - name: a\n    bogus: true\n"))
		assert.ErrorContains(t, err, "parse manifest")
		assert.ErrorContains(t, err, "field bogus not found")
	})
}

func Test_Source_Discover(t *testing.T) {
	fsys := fstest.MapFS{
		"app/storage.yaml": {Data: []byte(storageManifest)},
		"app/broken.yaml":  {Data: []byte("components: [")},
		"app/bad.yaml": {Data: []byte(`
components:
  - constructor: Missing
  - constructor: NewInterfaceA
    lifetime: sometimes
`)},
	}
	source := manifest.NewSource(fsys, constructors)

	t.Run("definitions", func(t *testing.T) {
		defs, err := source.Discover("app/storage")
		require.NoError(t, err)
		require.Len(t, defs, 3)

		assert.Equal(t, "defaultStorage", defs[0].Name())
		assert.True(t, defs[0].Primary())
		assert.Equal(t, di.PerRequest, defs[2].Lifetime())
		assert.Equal(t, "fastStorage", defs[2].Dependencies()[0].Qualifier)
	})

	t.Run("cleaned source", func(t *testing.T) {
		defs, err := source.Discover("app/./storage")
		require.NoError(t, err)
		assert.Len(t, defs, 3)
	})

	t.Run("unknown source", func(t *testing.T) {
		_, err := source.Discover("app/storage", "app/missing")
		assert.ErrorIs(t, err, di.ErrUnknownSource)
		assert.EqualError(t, err, `source "app/missing": unknown source`)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := source.Discover("app/broken")
		assert.ErrorContains(t, err, `source "app/broken": parse manifest`)
	})

	t.Run("invalid components", func(t *testing.T) {
		_, err := source.Discover("app/bad")
		assert.EqualError(t, err, `source "app/bad": component 0 (): unknown constructor "Missing"`+"\n"+
			`component 1 (): unknown lifetime "sometimes"`)
	})
}

func Test_Source_Definitions(t *testing.T) {
	source := manifest.NewSource(fstest.MapFS{}, constructors)

	t.Run("factory method", func(t *testing.T) {
		defs, err := source.Definitions(&manifest.File{
			Components: []manifest.Component{
				{Name: "factory", Constructor: "NewFactory"},
				{Name: "tagged", Constructor: "NewStructA", Factory: "factory", Lifetime: "PerRequest"},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, di.FactoryMethodStrategy, defs[1].Strategy())
		assert.Equal(t, "factory", defs[1].Factory())

		c, err := di.NewContainer(di.WithDefinitions(defs...))
		require.NoError(t, err)

		a0 := di.MustGet[*testtypes.StructA](c, di.WithQualifier("tagged"))
		a1 := di.MustGet[*testtypes.StructA](c, di.WithQualifier("tagged"))
		assert.Equal(t, testtypes.ExpectStructA(2), []*testtypes.StructA{a0, a1})
	})

	t.Run("fields", func(t *testing.T) {
		defs, err := source.Definitions(&manifest.File{
			Components: []manifest.Component{
				{Constructor: "NewInterfaceA"},
				{Name: "b", Constructor: "NewStructB", Fields: []manifest.Field{{Name: "A"}}},
			},
		})
		require.NoError(t, err)

		c, err := di.NewContainer(di.WithDefinitions(defs...))
		require.NoError(t, err)

		b, err := di.Get[*testtypes.StructB](c)
		require.NoError(t, err)
		assert.Equal(t, &testtypes.StructA{}, b.A)
	})

	t.Run("closer", func(t *testing.T) {
		defs, err := source.Definitions(&manifest.File{
			Components: []manifest.Component{
				{Constructor: "NewInterfaceA", Closer: true},
			},
		})
		require.NoError(t, err)
		assert.True(t, defs[0].HasPreDestroy())
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := source.Definitions(&manifest.File{
			Components: []manifest.Component{
				{Name: "b", Constructor: "NewStructB", Fields: []manifest.Field{{Name: "Missing"}}},
			},
		})
		assert.ErrorContains(t, err, "component 0 (b)")
		assert.ErrorContains(t, err, "field not found")
	})
}

func Test_Source_Scan(t *testing.T) {
	fsys := fstest.MapFS{
		"storage.yaml": {Data: []byte(storageManifest)},
	}

	c, err := di.NewContainer(
		di.WithDiscovery(manifest.NewSource(fsys, constructors)),
	)
	require.NoError(t, err)
	require.NoError(t, c.Scan("storage"))

	s, err := di.Get[testtypes.Storage](c)
	require.NoError(t, err)
	assert.Equal(t, "default-storage", s.Name())

	u1, err := di.Get[*testtypes.StorageUser](c)
	require.NoError(t, err)
	u2, err := di.Get[*testtypes.StorageUser](c)
	require.NoError(t, err)

	assert.NotSame(t, u1, u2)
	assert.Equal(t, "fast-storage", u1.Storage.Name())
}
