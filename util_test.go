package di

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type defaultStorage struct{}

type Generic[T any] struct{}

func Test_DefaultName(t *testing.T) {
	tests := []struct {
		name string
		t    reflect.Type
		want string
	}{
		{
			name: "pointer",
			t:    reflect.TypeFor[*Container](),
			want: "container",
		},
		{
			name: "interface",
			t:    reflect.TypeFor[Resolver](),
			want: "resolver",
		},
		{
			name: "already lowercase",
			t:    reflect.TypeFor[*defaultStorage](),
			want: "defaultStorage",
		},
		{
			name: "double pointer",
			t:    reflect.TypeFor[**Definition](),
			want: "definition",
		},
		{
			name: "generic",
			t:    reflect.TypeFor[Generic[int]](),
			want: "generic[int]",
		},
		{
			name: "unnamed",
			t:    reflect.TypeFor[struct{}](),
			want: "struct {}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DefaultName(tt.t)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_typedValue(t *testing.T) {
	assert.Nil(t, typedValue[Resolver](nil))
	assert.Equal(t, 0, typedValue[int](nil))

	c := &Container{}
	assert.Same(t, c, typedValue[Resolver](c))
}

func Test_safeReflectValue(t *testing.T) {
	v := safeReflectValue(reflect.TypeFor[Resolver](), nil)
	require.True(t, v.IsValid())
	assert.True(t, v.IsNil())

	v = safeReflectValue(reflect.TypeFor[*Container](), &Container{})
	assert.False(t, v.IsNil())
}

type closerWithContext struct{ closed bool }

func (c *closerWithContext) Close(context.Context) error {
	c.closed = true
	return nil
}

type closerNoContext struct{ closed bool }

func (c *closerNoContext) Close() {
	c.closed = true
}

func Test_getCloser(t *testing.T) {
	ctx := context.Background()

	t.Run("closer", func(t *testing.T) {
		c := &closerWithContext{}
		closer := getCloser(c)
		require.NotNil(t, closer)
		assert.NoError(t, closer.Close(ctx))
		assert.True(t, c.closed)
	})

	t.Run("no context no error", func(t *testing.T) {
		c := &closerNoContext{}
		closer := getCloser(c)
		require.NotNil(t, closer)
		assert.NoError(t, closer.Close(ctx))
		assert.True(t, c.closed)
	})

	t.Run("not a closer", func(t *testing.T) {
		assert.Nil(t, getCloser(&defaultStorage{}))
	})
}

func Test_registry(t *testing.T) {
	r := newRegistry()

	d1 := MustDefine(func() *defaultStorage { return nil })
	d2 := MustDefine(func() *closerNoContext { return nil }, WithName("second"))

	require.NoError(t, r.register(d1))
	require.NoError(t, r.register(d2))

	err := r.register(MustDefine(func() *defaultStorage { return nil }))
	assert.EqualError(t, err, "component name already registered: defaultStorage")

	got, err := r.lookupByName("second")
	assert.NoError(t, err)
	assert.Same(t, d2, got)

	_, err = r.lookupByName("missing")
	assert.EqualError(t, err, `no component named "missing"`)

	candidates := r.lookupCandidatesByType(reflect.TypeFor[*defaultStorage]())
	assert.Equal(t, []*Definition{d1}, candidates)

	closers := r.lookupCandidatesByType(reflect.TypeFor[closerNoContextNoError]())
	assert.Equal(t, []*Definition{d2}, closers)

	assert.Equal(t, []*Definition{d1, d2}, r.all())
}

func Test_instanceCache(t *testing.T) {
	c := newInstanceCache()

	c.markInProgress("a", 1)
	_, ok := c.getFinished("a")
	assert.False(t, ok)

	val, ok := c.getInProgress("a")
	assert.True(t, ok)
	assert.Equal(t, 1, val)

	c.promote("a", 1)
	_, ok = c.getInProgress("a")
	assert.False(t, ok)

	val, ok = c.getFinished("a")
	assert.True(t, ok)
	assert.Equal(t, 1, val)

	c.markInProgress("b", 2)
	c.discard("b")
	_, ok = c.getInProgress("b")
	assert.False(t, ok)

	assert.Same(t, c.lockFor("a"), c.lockFor("a"))
	assert.NotSame(t, c.lockFor("a"), c.lockFor("b"))

	c.clear()
	_, ok = c.getFinished("a")
	assert.False(t, ok)
}

func Test_resolveVisitor(t *testing.T) {
	v := newResolveVisitor()
	assert.True(t, v.active())

	assert.True(t, v.Enter("a"))
	assert.True(t, v.Enter("b"))
	assert.False(t, v.Enter("a"))
	assert.True(t, v.Creating("a"))

	assert.Equal(t, []string{"a", "b", "a"}, v.Chain("a"))

	v.Leave("b")
	assert.False(t, v.Creating("b"))
	assert.Equal(t, []string{"a", "c"}, v.Chain("c"))

	v.finish()
	assert.False(t, v.active())
}

func Test_goroutineID(t *testing.T) {
	id := goroutineID()
	assert.NotZero(t, id)
	assert.Equal(t, id, goroutineID())

	other := make(chan uint64)
	go func() {
		other <- goroutineID()
	}()

	got := <-other
	assert.NotZero(t, got)
	assert.NotEqual(t, id, got)
}
