package dihttp

import (
	"log/slog"
	"net/http"

	"github.com/sectrean/component-kit"
	"github.com/sectrean/component-kit/dicontext"
)

// ContainerMiddleware stores c on each request context.
//
// Handlers can resolve components with [dicontext.Get] or [dicontext.MustGet].
// Once c is closed, requests are passed to the error handler with
// [di.ErrContainerClosed] instead of the next handler.
//
// Available options:
//   - [WithClosedHandler]
func ContainerMiddleware(c *di.Container, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	mw := middleware{
		c:             c,
		closedHandler: defaultClosedHandler,
	}
	for _, opt := range opts {
		opt.applyMiddleware(&mw)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if mw.c.Closed() {
				mw.closedHandler(w, r, di.ErrContainerClosed)
				return
			}

			ctx := dicontext.WithResolver(r.Context(), mw.c)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ErrorHandler writes an error response to the client.
type ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error)

// The default handler logs the error to [slog.Default()] and writes a 503 Service Unavailable response.
func defaultClosedHandler(w http.ResponseWriter, r *http.Request, err error) {
	slog.WarnContext(r.Context(), "request received after container closed", "error", err)
	http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
}

type middleware struct {
	c             *di.Container
	closedHandler ErrorHandler
}

// MiddlewareOption is used to configure [ContainerMiddleware].
type MiddlewareOption interface {
	applyMiddleware(*middleware)
}

type middlewareOption func(*middleware)

func (o middlewareOption) applyMiddleware(m *middleware) {
	o(m)
}

// WithClosedHandler sets the handler used for requests received after the
// Container is closed. A nil handler keeps the default.
func WithClosedHandler(h ErrorHandler) MiddlewareOption {
	return middlewareOption(func(m *middleware) {
		if h != nil {
			m.closedHandler = h
		}
	})
}
