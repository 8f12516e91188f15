package dihttp_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sectrean/component-kit"
	"github.com/sectrean/component-kit/dicontext"
	"github.com/sectrean/component-kit/dihttp"
	"github.com/sectrean/component-kit/internal/testtypes"
)

func Test_ContainerMiddleware(t *testing.T) {
	t.Run("resolver on context", func(t *testing.T) {
		c, err := di.NewContainer(
			di.WithComponent(testtypes.NewFastStorage),
		)
		require.NoError(t, err)

		var called bool
		handler := dihttp.ContainerMiddleware(c)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true

			assert.Same(t, c, dicontext.Resolver(r.Context()))

			s := dicontext.MustGet[testtypes.Storage](r.Context())
			_, _ = w.Write([]byte(s.Name()))
		}))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		handler.ServeHTTP(rec, req)

		assert.True(t, called)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "fast-storage", rec.Body.String())
	})

	t.Run("container closed", func(t *testing.T) {
		c, err := di.NewContainer()
		require.NoError(t, err)
		require.NoError(t, c.Close(context.Background()))

		handler := dihttp.ContainerMiddleware(c)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			assert.Fail(t, "next handler should not be called")
		}))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("custom closed handler", func(t *testing.T) {
		c, err := di.NewContainer()
		require.NoError(t, err)
		require.NoError(t, c.Close(context.Background()))

		var gotErr error
		handler := dihttp.ContainerMiddleware(c,
			dihttp.WithClosedHandler(func(w http.ResponseWriter, _ *http.Request, err error) {
				gotErr = err
				w.WriteHeader(http.StatusTeapot)
			}),
		)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			assert.Fail(t, "next handler should not be called")
		}))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.ErrorIs(t, gotErr, di.ErrContainerClosed)
	})

	t.Run("nil closed handler keeps default", func(t *testing.T) {
		c, err := di.NewContainer()
		require.NoError(t, err)
		require.NoError(t, c.Close(context.Background()))

		handler := dihttp.ContainerMiddleware(c, dihttp.WithClosedHandler(nil))(http.NotFoundHandler())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
