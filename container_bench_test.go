package di_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sectrean/component-kit"
	"github.com/sectrean/component-kit/internal/testtypes"
)

func BenchmarkContainer_Contains(b *testing.B) {
	c, err := di.NewContainer(
		di.WithComponent(testtypes.NewInterfaceA),
	)
	require.NoError(b, err)

	for i := 0; i < b.N; i++ {
		_ = c.Contains(testtypes.TypeInterfaceA)
	}
}

func BenchmarkContainer_Contains_WithQualifier(b *testing.B) {
	c, err := di.NewContainer(
		di.WithComponent(testtypes.NewDefaultStorage),
		di.WithComponent(testtypes.NewFastStorage, di.WithName("fast")),
	)
	require.NoError(b, err)

	for i := 0; i < b.N; i++ {
		_ = c.Contains(testtypes.TypeStorage, di.WithQualifier("fast"))
	}
}

func BenchmarkContainer_Resolve_Value(b *testing.B) {
	c, err := di.NewContainer(
		di.WithComponent(&testtypes.StructA{}),
		di.WithRefresh(),
	)
	require.NoError(b, err)

	for i := 0; i < b.N; i++ {
		_, _ = di.Get[*testtypes.StructA](c)
	}
}

func BenchmarkContainer_Resolve_Singleton(b *testing.B) {
	c, err := di.NewContainer(
		di.WithComponent(testtypes.NewInterfaceA),
	)
	require.NoError(b, err)

	for i := 0; i < b.N; i++ {
		_, _ = di.Get[testtypes.InterfaceA](c)
	}
}

func BenchmarkContainer_Resolve_PerRequest(b *testing.B) {
	c, err := di.NewContainer(
		di.WithComponent(testtypes.NewInterfaceA, di.PerRequest),
	)
	require.NoError(b, err)

	for i := 0; i < b.N; i++ {
		_, _ = di.Get[testtypes.InterfaceA](c)
	}
}

func BenchmarkContainer_Resolve_PerRequest_Chain(b *testing.B) {
	c, err := di.NewContainer(
		di.WithComponent(testtypes.NewInterfaceA, di.PerRequest),
		di.WithComponent(testtypes.NewInterfaceB, di.PerRequest),
		di.WithComponent(testtypes.NewInterfaceC, di.PerRequest),
		di.WithComponent(testtypes.NewInterfaceD, di.PerRequest),
	)
	require.NoError(b, err)

	for i := 0; i < b.N; i++ {
		_, _ = di.Get[testtypes.InterfaceD](c)
	}
}

func BenchmarkContainer_Resolve_Primary(b *testing.B) {
	c, err := di.NewContainer(
		di.WithComponent(testtypes.NewDefaultStorage, di.Primary()),
		di.WithComponent(testtypes.NewFastStorage),
		di.WithComponent(testtypes.NewSlowStorage),
	)
	require.NoError(b, err)

	for i := 0; i < b.N; i++ {
		_, _ = di.Get[testtypes.Storage](c)
	}
}

func BenchmarkProvider_Get(b *testing.B) {
	c, err := di.NewContainer(
		di.WithComponent(testtypes.NewInterfaceA, di.PerRequest),
	)
	require.NoError(b, err)

	p, err := di.NewProvider[testtypes.InterfaceA](c)
	require.NoError(b, err)

	for i := 0; i < b.N; i++ {
		_, _ = p.Get()
	}
}
