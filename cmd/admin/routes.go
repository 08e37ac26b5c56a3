package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// routes sets up the HTTP router for the admin application.
func (app *adminApplication) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/", app.dashboardHandler)

	r.Post("/admin/modules/new", app.moduleCreateHandler)
	r.Post("/admin/modules/duplicate/{moduleID}", app.moduleDuplicateHandler)
	r.Post("/admin/modules/delete/{moduleID}", app.moduleDeleteHandler)

	r.Get("/admin/modules/edit/{moduleID}", app.moduleEditFormHandler)
	r.Post("/admin/modules/edit/{moduleID}", app.moduleUpdateHandler)
	r.Post("/admin/modules/edit/{moduleID}/restore/{historyID}", app.moduleRestoreHandler)

	r.Post("/admin/reset", app.resetHandler)

	// Read-only JSON view of the collection, for the detail page script.
	r.Get("/api/admin/modules", app.modulesJSONHandler)
	r.Get("/api/admin/modules/{moduleID}", app.moduleJSONHandler)

	return r
}
