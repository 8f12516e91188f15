package dihttp

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/sectrean/component-kit"
)

// DefinitionView is the JSON form of a [di.Definition] served by [NewInspector].
type DefinitionView struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Type          string           `json:"type"`
	Lifetime      string           `json:"lifetime"`
	Strategy      string           `json:"strategy"`
	Factory       string           `json:"factory,omitempty"`
	Primary       bool             `json:"primary"`
	Instantiated  bool             `json:"instantiated"`
	PostConstruct bool             `json:"postConstruct"`
	PreDestroy    bool             `json:"preDestroy"`
	Dependencies  []DependencyView `json:"dependencies"`
}

// DependencyView is the JSON form of a [di.Dependency].
type DependencyView struct {
	Type      string `json:"type"`
	Qualifier string `json:"qualifier,omitempty"`
	Optional  bool   `json:"optional,omitempty"`
	Lazy      bool   `json:"lazy,omitempty"`
	Deferred  bool   `json:"deferred,omitempty"`
}

// NewInspector returns a read-only handler describing the definitions of c.
//
//	GET /definitions         every definition in registration order
//	GET /definitions/{name}  one definition, or 404
//
// Mount it under a prefix with chi's Router.Mount or http.StripPrefix.
func NewInspector(c *di.Container) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.SetHeader("Content-Type", "application/json"))

	r.Get("/definitions", func(w http.ResponseWriter, _ *http.Request) {
		defs := c.Definitions()

		views := make([]DefinitionView, len(defs))
		for i, d := range defs {
			views[i] = newDefinitionView(c, d)
		}

		writeJSON(w, http.StatusOK, views)
	})

	r.Get("/definitions/{name}", func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")

		for _, d := range c.Definitions() {
			if d.Name() == name {
				writeJSON(w, http.StatusOK, newDefinitionView(c, d))
				return
			}
		}

		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": (&di.NotFoundError{Name: name}).Error(),
		})
	})

	return r
}

func newDefinitionView(c *di.Container, d *di.Definition) DefinitionView {
	deps := d.Dependencies()

	view := DefinitionView{
		ID:            d.ID().String(),
		Name:          d.Name(),
		Type:          d.Type().String(),
		Lifetime:      d.Lifetime().String(),
		Strategy:      d.Strategy().String(),
		Factory:       d.Factory(),
		Primary:       d.Primary(),
		Instantiated:  c.Instantiated(d.Name()),
		PostConstruct: d.HasPostConstruct(),
		PreDestroy:    d.HasPreDestroy(),
		Dependencies:  make([]DependencyView, len(deps)),
	}

	for i, dep := range deps {
		view.Dependencies[i] = DependencyView{
			Type:      dep.Type.String(),
			Qualifier: dep.Qualifier,
			Optional:  dep.Optional,
			Lazy:      dep.Lazy,
			Deferred:  dep.Deferred,
		}
	}

	return view
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
