/*
Package dihttp connects a [di.Container] to net/http.

[ContainerMiddleware] stores the Container on each request context so handlers
can resolve components with [dicontext.Get]. [NewInspector] serves the
Container's definitions as JSON for diagnostics.

Example:

	package main

	import (
		"net/http"

		"github.com/go-chi/chi/v5"
		"github.com/sectrean/component-kit"
		"github.com/sectrean/component-kit/dicontext"
		"github.com/sectrean/component-kit/dihttp"
	)

	func main() {
		c, err := di.NewContainer(
			di.WithComponent(NewDefaultStorage, di.Primary()),
			di.WithComponent(NewTempObject, di.PerRequest),
		)
		if err != nil {
			panic(err)
		}

		r := chi.NewRouter()
		r.Use(dihttp.ContainerMiddleware(c))
		r.Mount("/debug/di", dihttp.NewInspector(c))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			obj := dicontext.MustGet[*TempObject](r.Context())
			obj.ServeHTTP(w, r)
		})

		http.ListenAndServe(":8080", r)
	}
*/
package dihttp
