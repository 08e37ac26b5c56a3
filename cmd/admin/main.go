package main

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"course-content-manager/internal/storage"
	"course-content-manager/internal/store"
	"course-content-manager/pkg/config"

	"github.com/justinas/nosurf"
)

// adminApplication holds the application-wide dependencies for the admin server.
type adminApplication struct {
	logger        *slog.Logger
	contentStore  *store.ContentStore
	projectRoot   string
	templateCache map[string]*template.Template
}

// newTemplateData creates the base map of data passed to every template,
// including the CSRF token and the active nav item.
func (app *adminApplication) newTemplateData(r *http.Request, activeNav string) map[string]any {
	return map[string]any{
		"CSRFToken": nosurf.Token(r),
		"ActiveNav": activeNav,
		"Status":    r.URL.Query().Get("status"),
	}
}

func newTemplateCache(projectRoot string) (map[string]*template.Template, error) {
	cache := map[string]*template.Template{}

	// Pages that use layout.html as a base and define their own "content" block.
	pages := []string{
		"dashboard.html",
		"module_form.html",
	}

	adminTemplatesDir := filepath.Join(projectRoot, "web", "admin", "templates")

	for _, page := range pages {
		ts, err := template.ParseFiles(filepath.Join(adminTemplatesDir, "layout.html"))
		if err != nil {
			return nil, fmt.Errorf("error parsing layout template: %w", err)
		}
		ts, err = ts.ParseFiles(filepath.Join(adminTemplatesDir, page))
		if err != nil {
			return nil, fmt.Errorf("error parsing page template %s: %w", page, err)
		}
		cache[page] = ts
	}
	return cache, nil
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	wd, err := os.Getwd()
	if err != nil {
		logger.Error("Failed to get working directory", "error", err)
		os.Exit(1)
	}

	backend, err := storage.NewFileStore(cfg.DataFile)
	if err != nil {
		logger.Error("Failed to initialize collection storage", "error", err)
		os.Exit(1)
	}
	logger.Info("Using collection file", "path", backend.Location())

	contentStore := store.NewContentStore(backend, logger)

	templateCache, err := newTemplateCache(wd)
	if err != nil {
		logger.Error("Failed to create template cache", "error", err)
		os.Exit(1)
	}
	logger.Info("Admin UI templates cached successfully")

	app := &adminApplication{
		logger:        logger,
		contentStore:  contentStore,
		projectRoot:   wd,
		templateCache: templateCache,
	}

	addr := ":" + cfg.AdminPort
	logger.Info("Starting admin server", "address", fmt.Sprintf("http://localhost%s", addr))

	// nosurf wraps the whole router so every POST form carries a CSRF token.
	err = http.ListenAndServe(addr, nosurf.New(app.routes()))
	if err != nil {
		logger.Error("Admin server failed to start", "error", err)
		os.Exit(1)
	}
}
