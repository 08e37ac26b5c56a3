package store

import "course-content-manager/internal/model"

// Draft is a partial module fragment. Nil fields mean "keep the current
// value"; set fields win during the merge performed by Update. Metadata is
// never supplied directly: the store recomputes it from Status and Owner so
// the administrative fields cannot drift from the content fields.
type Draft struct {
	ID           string // Only honored by Create; callers supplying it own uniqueness
	Day          *string
	Duration     *string
	Level        *string
	Owner        *string
	Status       *string
	Title        *model.BilingualText
	Objectives   *model.BilingualText
	Content      *model.BilingualText
	Activities   *model.BilingualText
	Deliverables *model.BilingualText
	Skills       *model.BilingualText
	KeyConcepts  *model.KeyConcepts
	Tags         []string
	HeroMedia    *model.Media
	Resources    []model.Resource
	Program      []model.ProgramBlock
	CodeExample  *model.CodeExample
}

// merge applies the draft's set fields onto a copy of current and returns it.
// Metadata and history are left untouched here; Update recomputes them.
func merge(current model.Module, draft Draft) model.Module {
	out := current
	applyString(&out.Day, draft.Day)
	applyString(&out.Duration, draft.Duration)
	applyString(&out.Level, draft.Level)
	applyString(&out.Owner, draft.Owner)
	applyString(&out.Status, draft.Status)
	applyText(&out.Title, draft.Title)
	applyText(&out.Objectives, draft.Objectives)
	applyText(&out.Content, draft.Content)
	applyText(&out.Activities, draft.Activities)
	applyText(&out.Deliverables, draft.Deliverables)
	applyText(&out.Skills, draft.Skills)
	if draft.KeyConcepts != nil {
		out.KeyConcepts = *draft.KeyConcepts
	}
	if draft.Tags != nil {
		out.Tags = draft.Tags
	}
	if draft.HeroMedia != nil {
		out.HeroMedia = *draft.HeroMedia
	}
	if draft.Resources != nil {
		out.Resources = draft.Resources
	}
	if draft.Program != nil {
		out.Program = draft.Program
	}
	if draft.CodeExample != nil {
		out.CodeExample = *draft.CodeExample
	}
	return out
}

func applyString(target *string, value *string) {
	if value != nil {
		*target = *value
	}
}

func applyText(target *model.BilingualText, value *model.BilingualText) {
	if value != nil {
		*target = *value
	}
}

// String returns a pointer to s, for building drafts inline.
func String(s string) *string { return &s }

// Text returns a pointer to a bilingual pair, for building drafts inline.
func Text(fr, en string) *model.BilingualText {
	return &model.BilingualText{Fr: fr, En: en}
}
