package main

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"course-content-manager/internal/model"
	"course-content-manager/internal/store"

	"github.com/go-chi/chi/v5"
)

// DashboardPageData holds all data needed for the dashboard template.
type DashboardPageData struct {
	CurrentYear int
	Modules     []model.Module
	SearchTerm  string
	Total       int
}

// EditorPageData holds all data needed for the module form template.
type EditorPageData struct {
	CurrentYear  int
	Module       model.Module
	History      []model.HistoryEntry
	KeyConcepts  string // newline-joined for the textarea
	Tags         string // comma-joined for the input
	LastModule   bool   // delete is blocked on the last remaining module
}

// dashboardHandler serves the module list, optionally filtered by the "q"
// search parameter across title, day, id and tags.
func (app *adminApplication) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	modules := app.contentStore.List()
	total := len(modules)

	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if term != "" {
		filtered := make([]model.Module, 0, len(modules))
		for _, m := range modules {
			if matchSearch(m, term) {
				filtered = append(filtered, m)
			}
		}
		modules = filtered
	}

	data := app.newTemplateData(r, "dashboard")
	data["Page"] = DashboardPageData{
		CurrentYear: time.Now().Year(),
		Modules:     modules,
		SearchTerm:  term,
		Total:       total,
	}
	app.render(w, "dashboard.html", data)
}

// matchSearch mirrors the content manager's module search: a case-insensitive
// substring match over the id, day, both titles and every tag.
func matchSearch(m model.Module, term string) bool {
	lower := strings.ToLower(term)
	if strings.Contains(strings.ToLower(m.ID), lower) ||
		strings.Contains(strings.ToLower(m.Day), lower) ||
		strings.Contains(strings.ToLower(m.Title.Fr), lower) ||
		strings.Contains(strings.ToLower(m.Title.En), lower) {
		return true
	}
	for _, tag := range m.Tags {
		if strings.Contains(strings.ToLower(tag), lower) {
			return true
		}
	}
	return false
}

// moduleEditFormHandler loads a module and renders the editor page.
func (app *adminApplication) moduleEditFormHandler(w http.ResponseWriter, r *http.Request) {
	moduleID := chi.URLParam(r, "moduleID")
	module, ok := app.contentStore.Get(moduleID)
	if !ok {
		app.logger.Warn("Module not found for editing", "moduleID", moduleID)
		http.NotFound(w, r)
		return
	}

	data := app.newTemplateData(r, "edit")
	data["Page"] = EditorPageData{
		CurrentYear: time.Now().Year(),
		Module:      module,
		History:     module.History,
		KeyConcepts: strings.Join(module.KeyConcepts.Fr, "\n"),
		Tags:        strings.Join(module.Tags, ", "),
		LastModule:  len(app.contentStore.List()) <= 1,
	}
	app.render(w, "module_form.html", data)
}

// moduleUpdateHandler merges the submitted form onto the module and records a
// revision.
func (app *adminApplication) moduleUpdateHandler(w http.ResponseWriter, r *http.Request) {
	moduleID := chi.URLParam(r, "moduleID")
	if err := r.ParseForm(); err != nil {
		app.logger.Error("Error parsing module form", "error", err, "moduleID", moduleID)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	form := r.PostForm
	draft := store.Draft{
		Day:          store.String(form.Get("day")),
		Duration:     store.String(form.Get("duration")),
		Level:        store.String(form.Get("level")),
		Owner:        store.String(form.Get("owner")),
		Status:       store.String(form.Get("status")),
		Title:        store.Text(form.Get("title_fr"), form.Get("title_en")),
		Objectives:   store.Text(form.Get("objectives_fr"), form.Get("objectives_en")),
		Content:      store.Text(form.Get("content_fr"), form.Get("content_en")),
		Activities:   store.Text(form.Get("activities_fr"), form.Get("activities_en")),
		Deliverables: store.Text(form.Get("deliverables_fr"), form.Get("deliverables_en")),
		Skills:       store.Text(form.Get("skills_fr"), form.Get("skills_en")),
		KeyConcepts: &model.KeyConcepts{
			Fr: splitLines(form.Get("key_concepts_fr")),
			En: splitLines(form.Get("key_concepts_en")),
		},
		Tags: splitCommaList(form.Get("tags")),
	}

	if !app.contentStore.Apply(moduleID, draft, store.UpdateOptions{}) {
		app.logger.Warn("Update targeted an unknown module", "moduleID", moduleID)
		http.NotFound(w, r)
		return
	}
	app.redirectToEditor(w, r, moduleID, "saved")
}

// moduleCreateHandler creates a new module, optionally titled from the form,
// and opens it in the editor.
func (app *adminApplication) moduleCreateHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.logger.Error("Error parsing create form", "error", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	overrides := store.Draft{}
	if title := strings.TrimSpace(r.PostForm.Get("title")); title != "" {
		overrides.Title = store.Text(title, "")
	}

	newID := app.contentStore.Create(overrides)
	app.logger.Info("Created module from admin UI", "moduleID", newID)
	app.redirectToEditor(w, r, newID, "created")
}

// moduleDuplicateHandler duplicates a module and opens the copy.
func (app *adminApplication) moduleDuplicateHandler(w http.ResponseWriter, r *http.Request) {
	moduleID := chi.URLParam(r, "moduleID")
	newID := app.contentStore.Duplicate(moduleID)
	if newID == "" {
		app.logger.Warn("Duplicate targeted an unknown module", "moduleID", moduleID)
		http.NotFound(w, r)
		return
	}
	app.redirectToEditor(w, r, newID, "duplicated")
}

// moduleDeleteHandler removes a module. Deleting the last remaining module is
// refused here: that guard is a UI policy, the store itself would allow it.
func (app *adminApplication) moduleDeleteHandler(w http.ResponseWriter, r *http.Request) {
	moduleID := chi.URLParam(r, "moduleID")

	if len(app.contentStore.List()) <= 1 {
		app.logger.Warn("Refusing to delete the last module", "moduleID", moduleID)
		app.redirectToEditor(w, r, moduleID, "last-module")
		return
	}

	if !app.contentStore.Delete(moduleID) {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/?status=deleted", http.StatusSeeOther)
}

// moduleRestoreHandler restores a history entry of a module.
func (app *adminApplication) moduleRestoreHandler(w http.ResponseWriter, r *http.Request) {
	moduleID := chi.URLParam(r, "moduleID")
	historyID := chi.URLParam(r, "historyID")

	if !app.contentStore.RestoreVersion(moduleID, historyID) {
		app.logger.Warn("Restore targeted an unknown module or revision", "moduleID", moduleID, "historyID", historyID)
		http.NotFound(w, r)
		return
	}
	app.redirectToEditor(w, r, moduleID, "restored")
}

// resetHandler discards all local edits and reloads the seed dataset. The
// confirmation prompt lives client-side in the dashboard template.
func (app *adminApplication) resetHandler(w http.ResponseWriter, r *http.Request) {
	app.contentStore.Reset()
	http.Redirect(w, r, "/?status=reset", http.StatusSeeOther)
}

// modulesJSONHandler exposes the sanitized collection as JSON.
func (app *adminApplication) modulesJSONHandler(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, app.contentStore.List())
}

// moduleJSONHandler exposes a single sanitized module as JSON.
func (app *adminApplication) moduleJSONHandler(w http.ResponseWriter, r *http.Request) {
	module, ok := app.contentStore.Get(chi.URLParam(r, "moduleID"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	app.writeJSON(w, module)
}

func (app *adminApplication) writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		app.logger.Error("Error writing JSON response", "error", err)
	}
}

func (app *adminApplication) render(w http.ResponseWriter, page string, data map[string]any) {
	ts, ok := app.templateCache[page]
	if !ok {
		app.logger.Error("Template not found in cache", "page", page)
		http.Error(w, "Internal Server Error - Template not found", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := ts.ExecuteTemplate(w, "layout.html", data); err != nil {
		app.logger.Error("Error executing admin layout template", "page", page, "error", err)
		// Avoid writing the header again if already sent
	}
}

func (app *adminApplication) redirectToEditor(w http.ResponseWriter, r *http.Request, moduleID, status string) {
	http.Redirect(w, r, "/admin/modules/edit/"+url.PathEscape(moduleID)+"?status="+status, http.StatusSeeOther)
}

// splitLines turns a textarea value into a trimmed, empty-filtered list.
func splitLines(value string) []string {
	lines := strings.Split(value, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// splitCommaList turns a comma-separated input into a trimmed list.
func splitCommaList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
