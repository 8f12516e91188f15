package di_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sectrean/component-kit"
	"github.com/sectrean/component-kit/internal/errors"
	"github.com/sectrean/component-kit/internal/testtypes"
	"github.com/sectrean/component-kit/internal/testutils"
)

type mockDiscovery struct {
	mock.Mock
}

func (m *mockDiscovery) Discover(sources ...string) ([]*di.Definition, error) {
	args := m.Called(sources)

	defs, _ := args.Get(0).([]*di.Definition)
	return defs, args.Error(1)
}

func Test_Container_Scan(t *testing.T) {
	t.Run("registers discovered definitions", func(t *testing.T) {
		discovery := &mockDiscovery{}
		discovery.
			On("Discover", []string{"app/storage"}).
			Return([]*di.Definition{
				di.MustDefine(testtypes.NewDefaultStorage, di.Primary()),
				di.MustDefine(testtypes.NewFastStorage),
			}, nil).
			Once()

		c, err := di.NewContainer(
			di.WithDiscovery(discovery),
		)
		require.NoError(t, err)

		err = c.Scan("app/storage")
		require.NoError(t, err)

		got, err := di.Get[testtypes.Storage](c)
		assert.NoError(t, err)
		assert.Equal(t, "default-storage", got.Name())

		discovery.AssertExpectations(t)
	})

	t.Run("discovery error", func(t *testing.T) {
		discovery := &mockDiscovery{}
		discovery.
			On("Discover", []string{"broken"}).
			Return(nil, errors.New("cannot read source"))

		c, err := di.NewContainer(
			di.WithDiscovery(discovery),
		)
		require.NoError(t, err)

		err = c.Scan("broken")
		testutils.LogError(t, err)

		assert.EqualError(t, err, "di.Container.Scan [broken]: cannot read source")
		assert.Empty(t, c.Definitions())
	})

	t.Run("duplicate names", func(t *testing.T) {
		discovery := &mockDiscovery{}
		discovery.
			On("Discover", mock.Anything).
			Return([]*di.Definition{di.MustDefine(testtypes.NewFastStorage)}, nil)

		c, err := di.NewContainer(
			di.WithDiscovery(discovery),
			di.WithComponent(testtypes.NewFastStorage),
		)
		require.NoError(t, err)

		err = c.Scan("a")
		testutils.LogError(t, err)

		var dupErr *di.DuplicateNameError
		assert.ErrorAs(t, err, &dupErr)
	})

	t.Run("no discovery", func(t *testing.T) {
		c, err := di.NewContainer()
		require.NoError(t, err)

		err = c.Scan("app")
		assert.ErrorIs(t, err, di.ErrNoDiscovery)
	})

	t.Run("no sources", func(t *testing.T) {
		c, err := di.NewContainer(
			di.WithDiscovery(&mockDiscovery{}),
		)
		require.NoError(t, err)

		err = c.Scan()
		assert.EqualError(t, err, "di.Container.Scan: at least one source is required")
	})
}

func Test_Catalog(t *testing.T) {
	catalog := di.Catalog{
		"a": di.Module{di.MustDefine(testtypes.NewFastStorage)},
		"b": di.Module{di.MustDefine(testtypes.NewSlowStorage), di.MustDefine(testtypes.NewInterfaceA)},
	}

	t.Run("in source order", func(t *testing.T) {
		defs, err := catalog.Discover("b", "a")
		require.NoError(t, err)

		names := make([]string, len(defs))
		for i, d := range defs {
			names[i] = d.Name()
		}
		assert.Equal(t, []string{"slowStorage", "interfaceA", "fastStorage"}, names)
	})

	t.Run("unknown sources", func(t *testing.T) {
		defs, err := catalog.Discover("a", "x", "y")
		testutils.LogError(t, err)

		assert.Nil(t, defs)
		assert.ErrorIs(t, err, di.ErrUnknownSource)
		assert.EqualError(t, err, "source \"x\": unknown source\nsource \"y\": unknown source")
	})

	t.Run("scan", func(t *testing.T) {
		c, err := di.NewContainer(
			di.WithDiscovery(catalog),
		)
		require.NoError(t, err)

		require.NoError(t, c.Scan("a", "b"))
		assert.Len(t, c.Definitions(), 3)
	})

	t.Run("func", func(t *testing.T) {
		var got []string
		discovery := di.DiscoveryFunc(func(sources ...string) ([]*di.Definition, error) {
			got = sources
			return nil, nil
		})

		c, err := di.NewContainer(
			di.WithDiscovery(discovery),
		)
		require.NoError(t, err)

		require.NoError(t, c.Scan("x"))
		assert.Equal(t, []string{"x"}, got)
	})
}

func Test_WithModule(t *testing.T) {
	m := di.Module{
		di.MustDefine(testtypes.NewInterfaceA),
		di.MustDefine(testtypes.NewInterfaceB),
		di.MustDefine(testtypes.NewInterfaceC),
		di.MustDefine(testtypes.NewInterfaceD),
	}

	c, err := di.NewContainer(
		di.WithModule(m),
		di.WithRefresh(),
	)
	require.NoError(t, err)

	for _, name := range []string{"interfaceA", "interfaceB", "interfaceC", "interfaceD"} {
		assert.True(t, c.Instantiated(name), name)
	}
}
