// Package sanitize normalizes arbitrary module-like data into the canonical
// Module shape. Every function is pure and total: malformed input is repaired
// field by field with documented defaults, never rejected.
package sanitize

import (
	"fmt"
	"time"

	"course-content-manager/internal/genid"
	"course-content-manager/internal/model"
)

// Defaults applied when a field cannot be derived from the input.
const (
	DefaultOwner = "Formateur référent"
	DefaultLevel = model.LevelIntermediate
	DefaultStatus = model.StatusDraft
)

// Options control how the history field of the result is produced.
type Options struct {
	// ForHistory forces the resulting module's history to an empty list,
	// making the result safe to embed as a HistoryEntry snapshot.
	ForHistory bool
	// TrustHistory copies the input's history through verbatim (entries
	// cloned) instead of re-deriving it. Used mid-pipeline once a mutation
	// step has already built a correct history ring.
	TrustHistory bool
}

// NowISO returns the current UTC time in the ISO-8601 layout used across the
// persisted collection.
func NowISO() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}

// Normalize repairs an already-typed module so it satisfies every Module
// invariant: defaults filled in, enum fields validated, label-less resources
// dropped, a non-empty program (synthesized if needed), history bounded and
// most-recent-first, and UpdatedAt mirrored from the metadata.
//
// Normalize is idempotent: applying it twice yields the same value.
func Normalize(m model.Module, opts Options) model.Module {
	now := NowISO()

	out := m.Clone()
	if out.ID == "" {
		out.ID = genid.Random()
	}
	if out.Level == "" {
		out.Level = DefaultLevel
	}
	if out.Owner == "" {
		out.Owner = DefaultOwner
	}
	if out.Status == "" {
		out.Status = DefaultStatus
	}

	createdAt := firstNonEmpty(out.Metadata.CreatedAt, out.UpdatedAt, out.Metadata.UpdatedAt, now)
	updatedAt := firstNonEmpty(out.UpdatedAt, out.Metadata.UpdatedAt, createdAt)
	out.Metadata = model.Metadata{
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
		Responsible: firstNonEmpty(out.Metadata.Responsible, out.Owner),
		Status:      out.Status,
	}
	out.UpdatedAt = updatedAt

	out.KeyConcepts.Fr = filterStrings(out.KeyConcepts.Fr)
	out.KeyConcepts.En = filterStrings(out.KeyConcepts.En)
	out.Tags = filterStrings(out.Tags)

	out.HeroMedia = normalizeMedia(out.HeroMedia)
	out.Resources = normalizeResources(out.Resources, out.ID)
	out.Program = normalizeProgram(out.Program, out)

	switch {
	case opts.ForHistory:
		out.History = []model.HistoryEntry{}
	case opts.TrustHistory:
		if out.History == nil {
			out.History = []model.HistoryEntry{}
		}
	default:
		out.History = normalizeHistory(out.History, out.ID)
	}

	return out
}

func normalizeMedia(media model.Media) model.Media {
	if !model.IsValidMediaType(media.Type) {
		media.Type = model.MediaNone
	}
	return media
}

// normalizeResources validates resource types (inferring one from the
// available fields when invalid) and drops entries with no label. The drop is
// deliberate: blank rows from storage noise should never reach an editor.
func normalizeResources(resources []model.Resource, moduleID string) []model.Resource {
	out := make([]model.Resource, 0, len(resources))
	for i, entry := range resources {
		if entry.Label == "" {
			entry.Label = firstNonEmpty(entry.URL)
		}
		if entry.Label == "" {
			continue
		}
		if entry.ID == "" {
			entry.ID = fmt.Sprintf("%s-resource-%d", moduleID, i)
		}
		if !model.IsValidResourceType(entry.Type) {
			entry.Type = inferResourceType(entry.URL, entry.DownloadFilename)
		}
		out = append(out, entry)
	}
	return out
}

func inferResourceType(url, downloadFilename string) string {
	switch {
	case downloadFilename != "":
		return model.ResourcePDF
	case url != "":
		return model.ResourceLink
	default:
		return model.ResourceText
	}
}

func normalizeProgram(blocks []model.ProgramBlock, m model.Module) []model.ProgramBlock {
	out := make([]model.ProgramBlock, 0, len(blocks))
	for i, block := range blocks {
		out = append(out, normalizeBlock(block, m.ID, i))
	}
	if len(out) == 0 {
		return fallbackProgram(m)
	}
	return out
}

func normalizeBlock(block model.ProgramBlock, moduleID string, index int) model.ProgramBlock {
	if block.ID == "" {
		block.ID = fmt.Sprintf("%s-block-%d", moduleID, index)
	}
	if !model.IsValidBlockType(block.Type) {
		block.Type = model.BlockLesson
	}
	block.Media = normalizeMedia(block.Media)

	resources := make([]model.BlockResource, 0, len(block.Resources))
	for j, resource := range block.Resources {
		if resource.Label == "" {
			continue
		}
		if resource.ID == "" {
			resource.ID = fmt.Sprintf("%s-block-%d-resource-%d", moduleID, index, j)
		}
		resources = append(resources, resource)
	}
	block.Resources = resources
	return block
}

// fallbackProgram synthesizes a structured program from the flat legacy
// fields of a module that carries no program of its own, so content authored
// in the old format still renders as lessons without manual migration.
func fallbackProgram(m model.Module) []model.ProgramBlock {
	blocks := make([]model.ProgramBlock, 0, len(m.KeyConcepts.Fr)+3)
	for i, concept := range m.KeyConcepts.Fr {
		if concept == "" {
			continue
		}
		blocks = append(blocks, model.ProgramBlock{
			ID:        fmt.Sprintf("%s-fallback-%d", m.ID, i),
			Type:      model.BlockLesson,
			Title:     concept,
			Content:   "- " + concept,
			Resources: []model.BlockResource{},
			Media:     model.Media{Type: model.MediaNone},
		})
	}
	if m.Activities.Fr != "" {
		blocks = append(blocks, model.ProgramBlock{
			ID:        m.ID + "-fallback-activity",
			Type:      model.BlockExercise,
			Title:     "Mise en pratique",
			Content:   m.Activities.Fr,
			Resources: []model.BlockResource{},
			Media:     model.Media{Type: model.MediaNone},
		})
	}
	if m.Deliverables.Fr != "" {
		blocks = append(blocks, model.ProgramBlock{
			ID:        m.ID + "-fallback-deliverable",
			Type:      model.BlockTips,
			Title:     "Livrable attendu",
			Content:   m.Deliverables.Fr,
			Resources: []model.BlockResource{},
			Media:     model.Media{Type: model.MediaNone},
		})
	}
	if m.CodeExample.Content != "" {
		blocks = append(blocks, model.ProgramBlock{
			ID:           m.ID + "-fallback-code",
			Type:         model.BlockCode,
			Title:        firstNonEmpty(m.CodeExample.Title, "Exemple illustratif"),
			Code:         m.CodeExample.Content,
			CodeLanguage: firstNonEmpty(m.CodeExample.Lang, "html"),
			Resources:    []model.BlockResource{},
			Media:        model.Media{Type: model.MediaNone},
		})
	}
	if len(blocks) == 0 {
		blocks = append(blocks, model.ProgramBlock{
			ID:        m.ID + "-fallback-intro",
			Type:      model.BlockLesson,
			Title:     "Nouvelle section",
			Resources: []model.BlockResource{},
			Media:     model.Media{Type: model.MediaNone},
		})
	}
	return blocks
}

func normalizeHistory(entries []model.HistoryEntry, moduleID string) []model.HistoryEntry {
	out := make([]model.HistoryEntry, 0, len(entries))
	for i, entry := range entries {
		if len(out) == model.HistoryLimit {
			break
		}
		snapshot := Normalize(entry.Snapshot, Options{ForHistory: true})
		if entry.ID == "" {
			entry.ID = fmt.Sprintf("%s-rev-%d", moduleID, i+1)
		}
		if entry.Label == "" {
			entry.Label = fmt.Sprintf("Version %d", i+1)
		}
		if entry.UpdatedAt == "" {
			entry.UpdatedAt = snapshot.UpdatedAt
		}
		entry.Snapshot = snapshot
		out = append(out, entry)
	}
	return out
}

// filterStrings drops empty entries while preserving order.
func filterStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, entry := range in {
		if entry != "" {
			out = append(out, entry)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
