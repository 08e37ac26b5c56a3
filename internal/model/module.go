package model

// Module represents one unit of course content (a "day" of training),
// including its bilingual text fields, resources, structured program and
// bounded revision history, exactly as persisted in the JSON collection file.
type Module struct {
	ID           string         `json:"id"`       // Unique identifier (e.g., "J1", "J12")
	Day          string         `json:"day"`      // Display label for the training day (e.g., "Jour 1")
	Duration     string         `json:"duration"` // Free-form duration label (e.g., "7h")
	Level        string         `json:"level"`    // One of the Level* constants; defaulted, not enforced
	Owner        string         `json:"owner"`    // Instructor responsible for the module
	Status       string         `json:"status"`   // One of the Status* constants
	Title        BilingualText  `json:"title"`
	Objectives   BilingualText  `json:"objectives"`
	Content      BilingualText  `json:"content"`
	Activities   BilingualText  `json:"activities"`
	Deliverables BilingualText  `json:"deliverables"`
	Skills       BilingualText  `json:"skills"`
	KeyConcepts  KeyConcepts    `json:"keyConcepts"`
	Tags         []string       `json:"tags"` // Display order is meaningful, duplicates allowed
	HeroMedia    Media          `json:"heroMedia"`
	Resources    []Resource     `json:"resources"`
	Program      []ProgramBlock `json:"program"` // Never empty after sanitization
	CodeExample  CodeExample    `json:"codeExample"`
	Metadata     Metadata       `json:"metadata"`
	History      []HistoryEntry `json:"history"`   // Most-recent-first, at most HistoryLimit entries
	UpdatedAt    string         `json:"updatedAt"` // Mirror of Metadata.UpdatedAt for convenient access
}

// BilingualText holds a French/English pair. A missing language is the empty
// string, never a fallback to the other language.
type BilingualText struct {
	Fr string `json:"fr"`
	En string `json:"en"`
}

// KeyConcepts holds the ordered concept lists per language.
type KeyConcepts struct {
	Fr []string `json:"fr"`
	En []string `json:"en"`
}

// Media describes the hero media of a module or the media attached to a
// program block.
type Media struct {
	Type    string `json:"type"` // One of the Media* constants
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

// CodeExample is the optional standalone code sample attached to a module.
type CodeExample struct {
	Lang    string `json:"lang"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Resource is a downloadable or linkable attachment owned by a module.
type Resource struct {
	ID               string `json:"id"`
	Label            string `json:"label"` // Never empty; label-less entries are dropped by the sanitizer
	URL              string `json:"url"`
	Type             string `json:"type"` // One of the Resource* constants
	Description      string `json:"description"`
	DownloadFilename string `json:"downloadFilename"`
}

// BlockResource is the lightweight resource reference scoped to a single
// program block.
type BlockResource struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	URL   string `json:"url"`
}

// ProgramBlock is one typed segment of a module's curriculum. Order within
// Module.Program is significant and editable.
type ProgramBlock struct {
	ID           string          `json:"id"`
	Type         string          `json:"type"` // One of the Block* constants; unknown types become BlockLesson
	Title        string          `json:"title"`
	Content      string          `json:"content"` // Lightweight markdown-like text, opaque here
	Code         string          `json:"code"`
	CodeLanguage string          `json:"codeLanguage"`
	Duration     string          `json:"duration"`
	Resources    []BlockResource `json:"resources"`
	Media        Media           `json:"media"`
}

// Metadata carries the administrative fields of a module.
type Metadata struct {
	CreatedAt   string `json:"createdAt"` // ISO-8601
	UpdatedAt   string `json:"updatedAt"` // ISO-8601, always equal to Module.UpdatedAt
	Responsible string `json:"responsible"`
	Status      string `json:"status"`
}

// HistoryEntry is one revision of a module. The snapshot is a full copy of the
// module as it existed immediately before the mutation that created the entry,
// with its own history forced empty so snapshots never nest.
type HistoryEntry struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	UpdatedAt string `json:"updatedAt"`
	Snapshot  Module `json:"snapshot"`
}

// HistoryLimit bounds the per-module revision ring.
const HistoryLimit = 5

// Clone returns a deep copy of the module. Snapshots stored in history must
// never share slices with the live module.
func (m Module) Clone() Module {
	out := m
	out.KeyConcepts = KeyConcepts{
		Fr: cloneStrings(m.KeyConcepts.Fr),
		En: cloneStrings(m.KeyConcepts.En),
	}
	out.Tags = cloneStrings(m.Tags)
	if m.Resources != nil {
		out.Resources = make([]Resource, len(m.Resources))
		copy(out.Resources, m.Resources)
	}
	if m.Program != nil {
		out.Program = make([]ProgramBlock, len(m.Program))
		for i, block := range m.Program {
			out.Program[i] = block.Clone()
		}
	}
	if m.History != nil {
		out.History = make([]HistoryEntry, len(m.History))
		for i, entry := range m.History {
			out.History[i] = entry.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the program block.
func (b ProgramBlock) Clone() ProgramBlock {
	out := b
	if b.Resources != nil {
		out.Resources = make([]BlockResource, len(b.Resources))
		copy(out.Resources, b.Resources)
	}
	return out
}

// Clone returns a deep copy of the history entry, including its snapshot.
func (e HistoryEntry) Clone() HistoryEntry {
	out := e
	out.Snapshot = e.Snapshot.Clone()
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
