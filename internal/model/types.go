package model

// Canonical status identifiers. Stored in Module.Status and Metadata.Status.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Canonical level labels. Levels are defaulted by the sanitizer but not
// enforced, so free-form values survive round-trips.
const (
	LevelBeginner     = "débutant"
	LevelIntermediate = "intermédiaire"
	LevelAdvanced     = "avancé"
)

// Canonical media type identifiers for hero and block media.
const (
	MediaImage = "image"
	MediaVideo = "video"
	MediaEmbed = "embed"
	MediaNone  = "none"
)

// Canonical module resource type identifiers.
const (
	ResourcePDF  = "pdf"
	ResourceFile = "file"
	ResourceLink = "link"
	ResourceText = "text"
)

// Canonical program block type identifiers.
const (
	BlockLesson    = "lesson"
	BlockExercise  = "exercise"
	BlockCode      = "code"
	BlockTips      = "tips"
	BlockResourceT = "resource"
	BlockChecklist = "checklist"
)

// ProgramBlockTypes is the full set of allowed block types, used by the
// sanitizer to validate incoming data.
var ProgramBlockTypes = []string{
	BlockLesson,
	BlockExercise,
	BlockCode,
	BlockTips,
	BlockResourceT,
	BlockChecklist,
}

// MediaTypes is the full set of allowed media types.
var MediaTypes = []string{MediaImage, MediaVideo, MediaEmbed, MediaNone}

// ResourceTypes is the full set of allowed module resource types.
var ResourceTypes = []string{ResourcePDF, ResourceFile, ResourceLink, ResourceText}

// IsValidBlockType reports whether t is one of the canonical block types.
func IsValidBlockType(t string) bool { return contains(ProgramBlockTypes, t) }

// IsValidMediaType reports whether t is one of the canonical media types.
func IsValidMediaType(t string) bool { return contains(MediaTypes, t) }

// IsValidResourceType reports whether t is one of the canonical resource types.
func IsValidResourceType(t string) bool { return contains(ResourceTypes, t) }

func contains(set []string, value string) bool {
	for _, entry := range set {
		if entry == value {
			return true
		}
	}
	return false
}
