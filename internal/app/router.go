// Package app wires the HTTP router and server together.
package app

import (
	"net/http"
	"time"

	"sfcoverage/internal/config"
	"sfcoverage/internal/handlers"
	"sfcoverage/internal/web"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// InitMiddleware - initializes middleware handlers for the router.
func InitMiddleware(r *chi.Mux, conf *config.Config, ctrl *handlers.Controller) {
	r.Use(ctrl.PanicRecoveryMiddleware)
	r.Use(middleware.Timeout(time.Duration(conf.RequestTimeout) * time.Second))
	r.Use(ctrl.RequestIDMiddleware)
	r.Use(ctrl.LoggingMiddleware)
}

// Routing - registers routes for the coverage controller.
// Registered routes:
//   - GET "/": org list page through ctrl.HomePage().
//   - GET "/coverage/{org}": coverage page for one org through ctrl.CoveragePage().
//   - GET "/api/orgs": org list as JSON through ctrl.APIOrgs().
//   - GET "/api/coverage/{org}": coverage report as JSON through ctrl.APICoverage().
//   - GET "/static/*": embedded CSS/JS assets.
//   - anything else: the 404 page through ctrl.NotFound().
func Routing(r *chi.Mux, ctrl *handlers.Controller) error {
	staticFS, err := web.StaticFS()
	if err != nil {
		return err
	}

	r.Get("/", ctrl.HomePage())
	r.Get("/coverage/{org}", ctrl.CoveragePage())
	r.Get("/api/orgs", ctrl.APIOrgs())
	r.Get("/api/coverage/{org}", ctrl.APICoverage())
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	r.NotFound(ctrl.NotFound())

	return nil
}
