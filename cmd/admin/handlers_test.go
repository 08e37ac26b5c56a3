package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"course-content-manager/internal/model"
	"course-content-manager/internal/storage"
	"course-content-manager/internal/store"
)

func newTestApplication(t *testing.T) *adminApplication {
	t.Helper()
	backend, err := storage.NewFileStore(filepath.Join(t.TempDir(), "modules.json"))
	if err != nil {
		t.Fatalf("failed to create test backend: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &adminApplication{
		logger:       logger,
		contentStore: store.NewContentStore(backend, logger),
	}
}

func TestMatchSearch(t *testing.T) {
	m := model.Module{
		ID:    "J3",
		Day:   "Jour 3",
		Title: model.BilingualText{Fr: "Mise en page CSS", En: "CSS layout"},
		Tags:  []string{"css", "flexbox"},
	}
	cases := []struct {
		term string
		want bool
	}{
		{"j3", true},
		{"jour 3", true},
		{"mise en page", true},
		{"CSS LAYOUT", true},
		{"flexbox", true},
		{"javascript", false},
	}
	for _, tc := range cases {
		if got := matchSearch(m, tc.term); got != tc.want {
			t.Errorf("matchSearch(%q) = %v, want %v", tc.term, got, tc.want)
		}
	}
}

func TestSplitLines(t *testing.T) {
	got := splitLines("Logique projet\n  Métiers du web  \n\n\nSEO\n")
	want := []string{"Logique projet", "Métiers du web", "SEO"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitLines = %v, want %v", got, want)
	}
	if got := splitLines(""); len(got) != 0 {
		t.Errorf("splitLines on empty input = %v, want empty", got)
	}
}

func TestSplitCommaList(t *testing.T) {
	got := splitCommaList("css, flexbox ,, grid,")
	want := []string{"css", "flexbox", "grid"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitCommaList = %v, want %v", got, want)
	}
}

func TestModulesJSONEndpoint(t *testing.T) {
	app := newTestApplication(t)
	ts := httptest.NewServer(app.routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/admin/modules")
	if err != nil {
		t.Fatalf("GET /api/admin/modules failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("content type = %q", ct)
	}
	var modules []model.Module
	if err := json.NewDecoder(resp.Body).Decode(&modules); err != nil {
		t.Fatalf("response does not decode: %v", err)
	}
	if len(modules) != 10 {
		t.Errorf("endpoint returned %d modules, want the 10 seed modules", len(modules))
	}
}

func TestModuleJSONEndpoint(t *testing.T) {
	app := newTestApplication(t)
	ts := httptest.NewServer(app.routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/admin/modules/J1")
	if err != nil {
		t.Fatalf("GET /api/admin/modules/J1 failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var m model.Module
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		t.Fatalf("response does not decode: %v", err)
	}
	if m.ID != "J1" {
		t.Errorf("module id = %q, want J1", m.ID)
	}

	resp, err = http.Get(ts.URL + "/api/admin/modules/J999")
	if err != nil {
		t.Fatalf("GET /api/admin/modules/J999 failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown module status = %d, want 404", resp.StatusCode)
	}
}

func TestModuleUpdateEndpoint(t *testing.T) {
	app := newTestApplication(t)
	ts := httptest.NewServer(app.routes())
	defer ts.Close()

	client := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	form := url.Values{
		"title_fr":        {"Titre modifié"},
		"title_en":        {"Edited title"},
		"day":             {"Jour 1"},
		"level":           {"débutant"},
		"owner":           {"Alex"},
		"status":          {"published"},
		"key_concepts_fr": {"Un\nDeux"},
		"tags":            {"html, css"},
	}
	resp, err := client.PostForm(ts.URL+"/admin/modules/edit/J1", form)
	if err != nil {
		t.Fatalf("POST edit form failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); !strings.Contains(loc, "status=saved") {
		t.Errorf("redirect location = %q, want a saved flash", loc)
	}

	m, _ := app.contentStore.Get("J1")
	if m.Title.Fr != "Titre modifié" {
		t.Errorf("title = %q after form update", m.Title.Fr)
	}
	if !reflect.DeepEqual(m.KeyConcepts.Fr, []string{"Un", "Deux"}) {
		t.Errorf("key concepts = %v", m.KeyConcepts.Fr)
	}
	if !reflect.DeepEqual(m.Tags, []string{"html", "css"}) {
		t.Errorf("tags = %v", m.Tags)
	}
	if len(m.History) != 1 {
		t.Errorf("history length = %d after one update, want 1", len(m.History))
	}
}

func TestDeleteLastModuleIsRefused(t *testing.T) {
	app := newTestApplication(t)
	for _, m := range app.contentStore.List()[1:] {
		app.contentStore.Delete(m.ID)
	}
	if remaining := len(app.contentStore.List()); remaining != 1 {
		t.Fatalf("test setup left %d modules, want 1", remaining)
	}
	lastID := app.contentStore.List()[0].ID

	ts := httptest.NewServer(app.routes())
	defer ts.Close()
	client := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := client.PostForm(ts.URL+"/admin/modules/delete/"+lastID, nil)
	if err != nil {
		t.Fatalf("POST delete failed: %v", err)
	}
	defer resp.Body.Close()

	if loc := resp.Header.Get("Location"); !strings.Contains(loc, "status=last-module") {
		t.Errorf("redirect location = %q, want a last-module flash", loc)
	}
	if len(app.contentStore.List()) != 1 {
		t.Error("the last module was deleted")
	}
}
