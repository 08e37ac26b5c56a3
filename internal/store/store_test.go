package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"

	"course-content-manager/internal/model"
)

// memoryBackend is an in-memory storage.Backend for tests.
type memoryBackend struct {
	data    []byte
	loadErr error
	saveErr error
	saves   int
}

func (b *memoryBackend) Load() ([]byte, error) {
	if b.loadErr != nil {
		return nil, b.loadErr
	}
	if b.data == nil {
		return nil, fmt.Errorf("open: %w", os.ErrNotExist)
	}
	return b.data, nil
}

func (b *memoryBackend) Save(data []byte) error {
	b.saves++
	if b.saveErr != nil {
		return b.saveErr
	}
	b.data = data
	return nil
}

func (b *memoryBackend) Location() string { return "memory" }

func newTestStore(t *testing.T, persisted string) (*ContentStore, *memoryBackend) {
	t.Helper()
	backend := &memoryBackend{}
	if persisted != "" {
		backend.data = []byte(persisted)
	}
	return NewContentStore(backend, nil), backend
}

const smallCollection = `[{"id": "J1", "title": {"fr": "Découverte", "en": "Discovery"}, "day": "Jour 1"}]`

func TestNewContentStoreFallsBackToSeed(t *testing.T) {
	cases := []struct {
		name      string
		persisted string
	}{
		{"missing file", ""},
		{"unparsable", `{not json`},
		{"not a list", `{"modules": []}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, _ := newTestStore(t, tc.persisted)
			modules := s.List()
			if len(modules) == 0 {
				t.Fatal("expected the seed collection, got nothing")
			}
			if modules[0].ID != "J1" {
				t.Errorf("first seed module id = %q, want J1", modules[0].ID)
			}
		})
	}
}

func TestNewContentStoreSanitizesPersistedData(t *testing.T) {
	s, _ := newTestStore(t, `[{"id": "J1", "resources": [{"url": "http://x"}], "history": "garbage"}]`)
	m, ok := s.Get("J1")
	if !ok {
		t.Fatal("persisted module not loaded")
	}
	if len(m.Program) == 0 {
		t.Error("loaded module has no program")
	}
	if len(m.Resources) != 1 || m.Resources[0].Type != model.ResourceLink {
		t.Errorf("resources not sanitized: %+v", m.Resources)
	}
}

func TestListReturnsIndependentCopies(t *testing.T) {
	s, _ := newTestStore(t, smallCollection)
	first := s.List()
	first[0].Title.Fr = "Écrasé"
	first[0].Tags = append(first[0].Tags, "mutation")

	second := s.List()
	if second[0].Title.Fr != "Découverte" {
		t.Errorf("mutating a List result leaked into the store: %q", second[0].Title.Fr)
	}
}

func TestGetUnknownModule(t *testing.T) {
	s, _ := newTestStore(t, smallCollection)
	if _, ok := s.Get("J999"); ok {
		t.Error("Get reported an unknown module as found")
	}
}

func TestUpdateMergesAndPushesHistory(t *testing.T) {
	s, backend := newTestStore(t, smallCollection)

	ok := s.Apply("J1", Draft{
		Title: Text("Découverte v2", "Discovery v2"),
		Owner: String("Alex"),
	}, UpdateOptions{HistoryID: "rev-a"})
	if !ok {
		t.Fatal("Update reported no mutation")
	}

	m, _ := s.Get("J1")
	if m.Title.Fr != "Découverte v2" {
		t.Errorf("title = %q, want the merged value", m.Title.Fr)
	}
	if m.Day != "Jour 1" {
		t.Errorf("day = %q; untouched fields must survive the merge", m.Day)
	}
	if m.Metadata.Responsible != "Alex" {
		t.Errorf("responsible = %q, want the draft owner", m.Metadata.Responsible)
	}
	if len(m.History) != 1 {
		t.Fatalf("history length = %d, want 1", len(m.History))
	}
	entry := m.History[0]
	if entry.ID != "rev-a" {
		t.Errorf("history id = %q, want the override", entry.ID)
	}
	if entry.Snapshot.Title.Fr != "Découverte" {
		t.Errorf("snapshot title = %q, want the pre-update value", entry.Snapshot.Title.Fr)
	}
	if len(entry.Snapshot.History) != 0 {
		t.Error("snapshot carries nested history")
	}
	if backend.saves == 0 {
		t.Error("update did not persist")
	}
}

func TestUpdateUnknownModuleIsNoOp(t *testing.T) {
	s, backend := newTestStore(t, smallCollection)
	saves := backend.saves
	if s.Apply("J999", Draft{Title: Text("X", "")}, UpdateOptions{}) {
		t.Error("Update reported a mutation for an unknown id")
	}
	if backend.saves != saves {
		t.Error("no-op update persisted")
	}
}

func TestUpdateSkipHistory(t *testing.T) {
	s, _ := newTestStore(t, smallCollection)
	s.Apply("J1", Draft{Day: String("Jour 1 bis")}, UpdateOptions{SkipHistory: true})
	m, _ := s.Get("J1")
	if len(m.History) != 0 {
		t.Errorf("history length = %d after a skip-history update, want 0", len(m.History))
	}
}

func TestHistoryIsBoundedMostRecentFirst(t *testing.T) {
	s, _ := newTestStore(t, smallCollection)
	for i := 1; i <= 8; i++ {
		s.Apply("J1", Draft{
			Title: Text(fmt.Sprintf("Titre %d", i), ""),
		}, UpdateOptions{HistoryID: fmt.Sprintf("rev-%d", i)})
	}

	m, _ := s.Get("J1")
	if len(m.History) != model.HistoryLimit {
		t.Fatalf("history length = %d, want %d", len(m.History), model.HistoryLimit)
	}
	// The newest entry snapshots the state before update 8, i.e. "Titre 7".
	for i, entry := range m.History {
		wantID := fmt.Sprintf("rev-%d", 8-i)
		if entry.ID != wantID {
			t.Errorf("history[%d].ID = %q, want %q", i, entry.ID, wantID)
		}
	}
	if m.History[0].Snapshot.Title.Fr != "Titre 7" {
		t.Errorf("newest snapshot title = %q, want Titre 7", m.History[0].Snapshot.Title.Fr)
	}
}

func TestRestoreVersionRoundTrip(t *testing.T) {
	s, _ := newTestStore(t, smallCollection)
	s.Apply("J1", Draft{Title: Text("Version A", "")}, UpdateOptions{HistoryID: "rev-a"})
	s.Apply("J1", Draft{Title: Text("Version B", "")}, UpdateOptions{HistoryID: "rev-b"})

	// rev-b snapshots "Version A"; restoring it must bring that title back.
	if !s.RestoreVersion("J1", "rev-b") {
		t.Fatal("RestoreVersion reported no mutation")
	}

	m, _ := s.Get("J1")
	if m.Title.Fr != "Version A" {
		t.Errorf("restored title = %q, want Version A", m.Title.Fr)
	}
	if m.ID != "J1" {
		t.Errorf("restored module id = %q, want J1", m.ID)
	}
	if len(m.History) == 0 {
		t.Fatal("restore left no history")
	}
	if m.History[0].Snapshot.Title.Fr != "Version B" {
		t.Errorf("pre-restore snapshot title = %q, want Version B", m.History[0].Snapshot.Title.Fr)
	}
	for _, entry := range m.History {
		if entry.ID == "rev-b" {
			t.Error("restored entry still present in history")
		}
	}
}

func TestRestoreVersionUnknownTargets(t *testing.T) {
	s, _ := newTestStore(t, smallCollection)
	s.Apply("J1", Draft{Title: Text("Version A", "")}, UpdateOptions{HistoryID: "rev-a"})

	if s.RestoreVersion("J999", "rev-a") {
		t.Error("restore succeeded for an unknown module")
	}
	if s.RestoreVersion("J1", "rev-missing") {
		t.Error("restore succeeded for an unknown history entry")
	}
	m, _ := s.Get("J1")
	if m.Title.Fr != "Version A" {
		t.Errorf("failed restores must not mutate, title = %q", m.Title.Fr)
	}
}

func TestCreateDefaultsAndSequencing(t *testing.T) {
	s, _ := newTestStore(t, `[{"id": "J1"}, {"id": "J3"}, {"id": "J7"}]`)

	id := s.Create(Draft{})
	if id != "J8" {
		t.Fatalf("created id = %q, want J8", id)
	}
	m, ok := s.Get(id)
	if !ok {
		t.Fatal("created module not retrievable")
	}
	if m.Title.Fr != "Nouveau module" {
		t.Errorf("title = %q, want the default", m.Title.Fr)
	}
	if m.Status != model.StatusDraft || m.Level != "intermédiaire" {
		t.Errorf("defaults not applied: status=%q level=%q", m.Status, m.Level)
	}
	if len(m.History) != 0 {
		t.Errorf("new module carries %d history entries", len(m.History))
	}
	if len(m.Program) == 0 {
		t.Error("new module has no program")
	}
}

func TestCreateHonorsOverrides(t *testing.T) {
	s, _ := newTestStore(t, smallCollection)
	id := s.Create(Draft{ID: "custom-id", Title: Text("Atelier", "Workshop")})
	if id != "custom-id" {
		t.Fatalf("created id = %q, want custom-id", id)
	}
	m, _ := s.Get(id)
	if m.Title.Fr != "Atelier" {
		t.Errorf("title override not applied: %q", m.Title.Fr)
	}
}

func TestDuplicateIsIndependent(t *testing.T) {
	s, _ := newTestStore(t, smallCollection)
	s.Apply("J1", Draft{Status: String(model.StatusPublished)}, UpdateOptions{HistoryID: "rev-a"})

	copyID := s.Duplicate("J1")
	if copyID != "J2" {
		t.Fatalf("duplicate id = %q, want J2", copyID)
	}
	duplicate, _ := s.Get(copyID)
	if duplicate.Title.Fr != "Découverte (copie)" {
		t.Errorf("duplicate title = %q", duplicate.Title.Fr)
	}
	if duplicate.Day != "Jour 1 bis" {
		t.Errorf("duplicate day = %q", duplicate.Day)
	}
	if duplicate.Status != model.StatusDraft {
		t.Errorf("duplicate status = %q, want draft", duplicate.Status)
	}
	if len(duplicate.History) != 0 {
		t.Errorf("duplicate carries %d history entries", len(duplicate.History))
	}

	// Edits to the source must not reach the copy, and vice versa.
	s.Apply("J1", Draft{Title: Text("Source modifiée", "")}, UpdateOptions{SkipHistory: true})
	duplicate, _ = s.Get(copyID)
	if duplicate.Title.Fr != "Découverte (copie)" {
		t.Errorf("source edit leaked into the duplicate: %q", duplicate.Title.Fr)
	}

	s.Apply(copyID, Draft{Title: Text("Copie modifiée", "")}, UpdateOptions{SkipHistory: true})
	source, _ := s.Get("J1")
	if source.Title.Fr != "Source modifiée" {
		t.Errorf("duplicate edit leaked into the source: %q", source.Title.Fr)
	}
}

func TestDuplicateUntitledSource(t *testing.T) {
	s, _ := newTestStore(t, `[{"id": "J1"}]`)
	copyID := s.Duplicate("J1")
	duplicate, _ := s.Get(copyID)
	if duplicate.Title.Fr != "Module "+copyID {
		t.Errorf("untitled duplicate title = %q, want %q", duplicate.Title.Fr, "Module "+copyID)
	}
}

func TestDuplicateUnknownModule(t *testing.T) {
	s, _ := newTestStore(t, smallCollection)
	if id := s.Duplicate("J999"); id != "" {
		t.Errorf("duplicate of an unknown module returned %q", id)
	}
}

func TestDeleteRemovesModule(t *testing.T) {
	s, _ := newTestStore(t, `[{"id": "J1"}, {"id": "J2"}]`)
	if !s.Delete("J1") {
		t.Fatal("Delete reported no removal")
	}
	if _, ok := s.Get("J1"); ok {
		t.Error("deleted module still retrievable")
	}
	if len(s.List()) != 1 {
		t.Errorf("collection length = %d after delete, want 1", len(s.List()))
	}
	if s.Delete("J1") {
		t.Error("second delete of the same id reported a removal")
	}
}

func TestDeletePermitsEmptyCollection(t *testing.T) {
	s, _ := newTestStore(t, `[{"id": "J1"}]`)
	if !s.Delete("J1") {
		t.Fatal("Delete reported no removal")
	}
	if len(s.List()) != 0 {
		t.Errorf("collection length = %d, want 0", len(s.List()))
	}
}

func TestResetRestoresSeed(t *testing.T) {
	s, _ := newTestStore(t, smallCollection)
	s.Create(Draft{})
	s.Delete("J1")

	s.Reset()
	modules := s.List()
	if len(modules) == 0 {
		t.Fatal("reset produced an empty collection")
	}
	if modules[0].ID != "J1" {
		t.Errorf("first module after reset = %q, want J1", modules[0].ID)
	}
}

func TestPersistenceFailureDoesNotBlockMutations(t *testing.T) {
	backend := &memoryBackend{data: []byte(smallCollection), saveErr: errors.New("disk full")}
	s := NewContentStore(backend, nil)

	if !s.Apply("J1", Draft{Title: Text("Toujours là", "")}, UpdateOptions{}) {
		t.Fatal("update failed because persistence failed")
	}
	m, _ := s.Get("J1")
	if m.Title.Fr != "Toujours là" {
		t.Errorf("in-memory state not updated, title = %q", m.Title.Fr)
	}
}

func TestPersistedPayloadRoundTrips(t *testing.T) {
	s, backend := newTestStore(t, smallCollection)
	s.Apply("J1", Draft{Title: Text("Persisté", "")}, UpdateOptions{})

	var decoded []map[string]any
	if err := json.Unmarshal(backend.data, &decoded); err != nil {
		t.Fatalf("persisted payload does not parse: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("persisted %d modules, want 1", len(decoded))
	}

	reloaded := NewContentStore(backend, nil)
	m, ok := reloaded.Get("J1")
	if !ok {
		t.Fatal("module lost across a reload")
	}
	if m.Title.Fr != "Persisté" {
		t.Errorf("reloaded title = %q", m.Title.Fr)
	}
	if len(m.History) != 1 {
		t.Errorf("reloaded history length = %d, want 1", len(m.History))
	}
}

func TestNilStoreDegradesToSeed(t *testing.T) {
	var s *ContentStore

	modules := s.List()
	if len(modules) == 0 {
		t.Fatal("nil store returned an empty collection")
	}
	if _, ok := s.Get(modules[0].ID); !ok {
		t.Error("nil store Get could not find a seed module")
	}
	if s.Create(Draft{}) != "" {
		t.Error("nil store Create returned an id")
	}
	if s.Duplicate(modules[0].ID) != "" {
		t.Error("nil store Duplicate returned an id")
	}
	if s.Delete(modules[0].ID) {
		t.Error("nil store Delete reported a removal")
	}
	if s.Apply(modules[0].ID, Draft{Title: Text("X", "")}, UpdateOptions{}) {
		t.Error("nil store Update reported a mutation")
	}
	s.Reset() // must not panic
}
