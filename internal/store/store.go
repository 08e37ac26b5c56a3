// Package store owns the authoritative module collection. All reads and
// writes by consumers (admin handlers, CLI) go through the ContentStore; every
// successful state transition is mirrored to the persistence backend in the
// same call, and a persistence failure never blocks the in-memory mutation.
package store

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"course-content-manager/internal/genid"
	"course-content-manager/internal/model"
	"course-content-manager/internal/sanitize"
	"course-content-manager/internal/seed"
	"course-content-manager/internal/storage"
)

// ContentStore is the sole authority for the live module collection.
// Construct one at application start with NewContentStore and inject it into
// whatever consumes it; there is no package-level instance.
type ContentStore struct {
	backend storage.Backend
	logger  *slog.Logger

	mu      sync.Mutex
	modules []model.Module
}

// warnUninitializedOnce keeps the nil-store warning to one line per process
// so a misconfigured consumer fails soft without flooding the log.
var warnUninitializedOnce sync.Once

// UpdateOptions tune a single Update call.
type UpdateOptions struct {
	// SkipHistory suppresses the history entry this update would push.
	SkipHistory bool
	// HistoryID overrides the generated revision id.
	HistoryID string
	// HistoryLabel overrides the default "Révision du …" label.
	HistoryLabel string
}

// NewContentStore builds a store backed by the given persistence backend.
// It reads and decodes the persisted collection; if that is absent,
// unparsable or not a list, it falls back to the bundled seed dataset.
func NewContentStore(backend storage.Backend, logger *slog.Logger) *ContentStore {
	if logger == nil {
		// Provide a default discard logger if none is provided
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &ContentStore{backend: backend, logger: logger}
	s.modules = s.loadInitial()
	return s
}

func (s *ContentStore) loadInitial() []model.Module {
	if s.backend == nil {
		return seed.Modules()
	}
	data, err := s.backend.Load()
	if err != nil {
		s.logger.Warn("No persisted collection, starting from the seed dataset", "location", s.backend.Location(), "error", err)
		return seed.Modules()
	}
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		s.logger.Error("Persisted collection is unparsable, starting from the seed dataset", "location", s.backend.Location(), "error", err)
		return seed.Modules()
	}
	if _, isList := decoded.([]any); !isList {
		s.logger.Error("Persisted collection is not a list, starting from the seed dataset", "location", s.backend.Location())
		return seed.Modules()
	}
	return sanitize.FromRawList(decoded)
}

// persist mirrors the in-memory collection to the backend. Failures are
// logged and swallowed: the in-memory state stays authoritative for the rest
// of the session even if persistence keeps failing (e.g., disk full).
func (s *ContentStore) persist() {
	if s.backend == nil {
		return
	}
	data, err := json.MarshalIndent(s.modules, "", "  ")
	if err != nil {
		s.logger.Error("Failed to marshal module collection", "error", err)
		return
	}
	if err := s.backend.Save(data); err != nil {
		s.logger.Error("Failed to persist module collection", "location", s.backend.Location(), "error", err)
	}
}

func (s *ContentStore) uninitialized() bool {
	if s != nil {
		return false
	}
	warnUninitializedOnce.Do(func() {
		slog.Warn("ContentStore is not initialized; serving the default collection read-only, local changes will not be persisted")
	})
	return true
}

// List returns the current collection, already sanitized and deep-copied, in
// display order. On an uninitialized (nil) store it degrades to the seed
// collection so a misconfigured consumer still renders.
func (s *ContentStore) List() []model.Module {
	if s.uninitialized() {
		return seed.Modules()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Module, len(s.modules))
	for i, m := range s.modules {
		out[i] = m.Clone()
	}
	return out
}

// Get returns a deep copy of the module with the given id.
func (s *ContentStore) Get(moduleID string) (model.Module, bool) {
	if s.uninitialized() {
		for _, m := range seed.Modules() {
			if m.ID == moduleID {
				return m, true
			}
		}
		return model.Module{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.modules {
		if m.ID == moduleID {
			return m.Clone(), true
		}
	}
	return model.Module{}, false
}

// Update merges the draft produced by updater onto the module with the given
// id, pushes a history entry capturing the pre-merge state (unless skipped),
// re-sanitizes and persists. Unknown ids are a silent no-op. Reports whether
// a module was mutated.
func (s *ContentStore) Update(moduleID string, updater func(current model.Module) Draft, opts UpdateOptions) bool {
	if s.uninitialized() || updater == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, m := range s.modules {
		if m.ID != moduleID {
			continue
		}

		current := sanitize.Normalize(m, sanitize.Options{TrustHistory: true})
		draft := updater(current.Clone())

		now := time.Now()
		nowISO := sanitize.NowISO()

		history := current.History
		if !opts.SkipHistory {
			entry := model.HistoryEntry{
				ID:        opts.HistoryID,
				Label:     opts.HistoryLabel,
				UpdatedAt: nowISO,
				Snapshot:  sanitize.Normalize(current, sanitize.Options{ForHistory: true}),
			}
			if entry.ID == "" {
				entry.ID = fmt.Sprintf("%s-rev-%d", moduleID, now.UnixMilli())
			}
			if entry.Label == "" {
				entry.Label = "Révision du " + now.Format("02/01/2006 15:04:05")
			}
			history = append([]model.HistoryEntry{entry}, history...)
			if len(history) > model.HistoryLimit {
				history = history[:model.HistoryLimit]
			}
		}

		merged := merge(current, draft)
		merged.Metadata = model.Metadata{
			CreatedAt:   current.Metadata.CreatedAt,
			UpdatedAt:   nowISO,
			Responsible: responsibleFor(draft, current),
			Status:      merged.Status,
		}
		merged.UpdatedAt = nowISO
		merged.History = history

		s.modules[i] = sanitize.Normalize(merged, sanitize.Options{TrustHistory: true})
		s.persist()
		s.logger.Info("Updated module", "moduleID", moduleID, "historySkipped", opts.SkipHistory)
		return true
	}
	return false
}

// Apply is a convenience wrapper around Update for callers holding a
// ready-made draft fragment.
func (s *ContentStore) Apply(moduleID string, draft Draft, opts UpdateOptions) bool {
	return s.Update(moduleID, func(model.Module) Draft { return draft }, opts)
}

func responsibleFor(draft Draft, current model.Module) string {
	if draft.Owner != nil && *draft.Owner != "" {
		return *draft.Owner
	}
	if current.Owner != "" {
		return current.Owner
	}
	return sanitize.DefaultOwner
}

// Create appends a new module built from the overrides and returns its id.
// The id is computed before the state transition so the caller always gets it
// back synchronously. An explicit overrides.ID bypasses generation entirely.
func (s *ContentStore) Create(overrides Draft) string {
	if s.uninitialized() {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	identifier := overrides.ID
	if identifier == "" {
		identifier = genid.NextModuleID(s.ids())
	}

	now := sanitize.NowISO()
	draftModule := merge(model.Module{
		ID:     identifier,
		Title:  model.BilingualText{Fr: "Nouveau module"},
		Status: sanitize.DefaultStatus,
		Owner:  sanitize.DefaultOwner,
		Level:  sanitize.DefaultLevel,
	}, overrides)
	draftModule.ID = identifier
	draftModule.Metadata = model.Metadata{
		CreatedAt:   now,
		UpdatedAt:   now,
		Responsible: draftModule.Owner,
		Status:      draftModule.Status,
	}
	draftModule.UpdatedAt = now
	draftModule.History = []model.HistoryEntry{}

	s.modules = append(s.modules, sanitize.Normalize(draftModule, sanitize.Options{TrustHistory: true}))
	s.persist()
	s.logger.Info("Created module", "moduleID", identifier)
	return identifier
}

// Duplicate copies the source module under a fresh id: " (copie)" appended to
// the French title, " bis" to the day, status reset to draft, history reset,
// fresh timestamps. Returns the new id, or "" when the source is unknown.
func (s *ContentStore) Duplicate(moduleID string) string {
	if s.uninitialized() {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var source *model.Module
	for i := range s.modules {
		if s.modules[i].ID == moduleID {
			source = &s.modules[i]
			break
		}
	}
	if source == nil {
		return ""
	}

	identifier := genid.NextModuleID(s.ids())
	base := sanitize.Normalize(*source, sanitize.Options{TrustHistory: true})
	now := sanitize.NowISO()

	duplicate := base.Clone()
	duplicate.ID = identifier
	if duplicate.Day != "" {
		duplicate.Day += " bis"
	}
	if duplicate.Title.Fr != "" {
		duplicate.Title.Fr += " (copie)"
	} else {
		duplicate.Title.Fr = "Module " + identifier
	}
	duplicate.Status = sanitize.DefaultStatus
	duplicate.Metadata = model.Metadata{
		CreatedAt:   now,
		UpdatedAt:   now,
		Responsible: firstNonEmpty(base.Owner, sanitize.DefaultOwner),
		Status:      sanitize.DefaultStatus,
	}
	duplicate.UpdatedAt = now
	duplicate.History = []model.HistoryEntry{}

	s.modules = append(s.modules, sanitize.Normalize(duplicate, sanitize.Options{TrustHistory: true}))
	s.persist()
	s.logger.Info("Duplicated module", "sourceID", moduleID, "moduleID", identifier)
	return identifier
}

// Delete removes the module unconditionally. The "never delete the last
// module" rule is a consumer-level policy, not a store invariant: the store
// itself permits an empty collection. Reports whether a module was removed.
func (s *ContentStore) Delete(moduleID string) bool {
	if s.uninitialized() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, m := range s.modules {
		if m.ID == moduleID {
			s.modules = append(s.modules[:i], s.modules[i+1:]...)
			s.persist()
			s.logger.Info("Deleted module", "moduleID", moduleID)
			return true
		}
	}
	return false
}

// RestoreVersion replaces the module's content with the named history entry's
// snapshot (keeping the module's id) and pushes a fresh entry capturing the
// pre-restore state, so a restore is itself undoable. Unknown module or
// history ids are a silent no-op.
func (s *ContentStore) RestoreVersion(moduleID, historyID string) bool {
	if s.uninitialized() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, m := range s.modules {
		if m.ID != moduleID {
			continue
		}

		var target *model.HistoryEntry
		for j := range m.History {
			if m.History[j].ID == historyID {
				target = &m.History[j]
				break
			}
		}
		if target == nil {
			return false
		}

		now := time.Now()
		nowISO := sanitize.NowISO()

		preRestore := model.HistoryEntry{
			ID:        fmt.Sprintf("%s-rev-%d", moduleID, now.UnixMilli()),
			Label:     fmt.Sprintf("Avant restauration (%s)", now.Format("15:04:05")),
			UpdatedAt: nowISO,
			Snapshot:  sanitize.Normalize(m, sanitize.Options{ForHistory: true}),
		}

		history := make([]model.HistoryEntry, 0, len(m.History))
		history = append(history, preRestore)
		for _, entry := range m.History {
			if entry.ID != historyID {
				history = append(history, entry.Clone())
			}
		}
		if len(history) > model.HistoryLimit {
			history = history[:model.HistoryLimit]
		}

		restored := target.Snapshot.Clone()
		restored.ID = moduleID
		restored.History = history
		restored.Metadata.UpdatedAt = nowISO
		restored.Metadata.Responsible = firstNonEmpty(restored.Owner, sanitize.DefaultOwner)
		restored.UpdatedAt = nowISO

		s.modules[i] = sanitize.Normalize(restored, sanitize.Options{TrustHistory: true})
		s.persist()
		s.logger.Info("Restored module version", "moduleID", moduleID, "historyID", historyID)
		return true
	}
	return false
}

// Reset replaces the whole collection with a freshly sanitized copy of the
// seed dataset, discarding all local edits and history irreversibly.
func (s *ContentStore) Reset() {
	if s.uninitialized() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modules = seed.Modules()
	s.persist()
	s.logger.Info("Reset module collection to the seed dataset", "count", len(s.modules))
}

func (s *ContentStore) ids() []string {
	ids := make([]string, len(s.modules))
	for i, m := range s.modules {
		ids[i] = m.ID
	}
	return ids
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
