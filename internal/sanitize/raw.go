package sanitize

import (
	"fmt"

	"course-content-manager/internal/genid"
	"course-content-manager/internal/model"
)

// FromRaw parses an untyped JSON-like tree (the result of decoding persisted
// storage or the seed dataset with encoding/json into any) into a canonical
// Module. It is total: nil, non-object and deeply malformed input all produce
// a fully-defaulted module rather than an error.
//
// Legacy field aliases from older data formats are honored here and only
// here: resource entries may be bare strings or use title/href/downloadUrl/
// filename keys, and history entries may themselves be the snapshot.
func FromRaw(v any, opts Options) model.Module {
	obj, ok := v.(map[string]any)
	if !ok {
		return Normalize(model.Module{ID: genid.Random()}, opts)
	}

	moduleID := str(obj["id"])
	if moduleID == "" {
		moduleID = genid.Random()
	}

	m := model.Module{
		ID:           moduleID,
		Day:          str(obj["day"]),
		Duration:     str(obj["duration"]),
		Level:        str(obj["level"]),
		Owner:        str(obj["owner"]),
		Status:       str(obj["status"]),
		Title:        biText(obj["title"]),
		Objectives:   biText(obj["objectives"]),
		Content:      biText(obj["content"]),
		Activities:   biText(obj["activities"]),
		Deliverables: biText(obj["deliverables"]),
		Skills:       biText(obj["skills"]),
		KeyConcepts:  keyConcepts(obj["keyConcepts"]),
		Tags:         strList(obj["tags"]),
		HeroMedia:    rawMedia(obj["heroMedia"]),
		Resources:    rawResources(obj["resources"], moduleID),
		Program:      rawProgram(obj["program"], moduleID),
		CodeExample:  rawCodeExample(obj["codeExample"]),
		UpdatedAt:    str(obj["updatedAt"]),
	}

	meta, _ := obj["metadata"].(map[string]any)
	m.Metadata = model.Metadata{
		CreatedAt:   firstNonEmpty(str(obj["createdAt"]), str(meta["createdAt"])),
		UpdatedAt:   str(meta["updatedAt"]),
		Responsible: str(meta["responsible"]),
	}

	if !opts.ForHistory {
		m.History = rawHistory(obj["history"], moduleID)
	}

	// Raw trees never carry a pre-built trusted history; always re-derive.
	opts.TrustHistory = false
	return Normalize(m, opts)
}

// FromRawList parses a decoded JSON array of module-like values. Non-array
// input yields an empty collection.
func FromRawList(v any) []model.Module {
	entries, ok := v.([]any)
	if !ok {
		return []model.Module{}
	}
	out := make([]model.Module, 0, len(entries))
	for _, entry := range entries {
		out = append(out, FromRaw(entry, Options{}))
	}
	return out
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func strList(v any) []string {
	entries, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		if s := str(entry); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func biText(v any) model.BilingualText {
	obj, ok := v.(map[string]any)
	if !ok {
		return model.BilingualText{}
	}
	return model.BilingualText{Fr: str(obj["fr"]), En: str(obj["en"])}
}

func keyConcepts(v any) model.KeyConcepts {
	obj, _ := v.(map[string]any)
	return model.KeyConcepts{Fr: strList(obj["fr"]), En: strList(obj["en"])}
}

func rawMedia(v any) model.Media {
	obj, ok := v.(map[string]any)
	if !ok {
		return model.Media{Type: model.MediaNone}
	}
	return model.Media{
		Type:    str(obj["type"]), // validated in Normalize
		URL:     str(obj["url"]),
		Caption: str(obj["caption"]),
	}
}

func rawCodeExample(v any) model.CodeExample {
	obj, ok := v.(map[string]any)
	if !ok {
		return model.CodeExample{}
	}
	return model.CodeExample{
		Lang:    str(obj["lang"]),
		Title:   str(obj["title"]),
		Content: str(obj["content"]),
	}
}

func rawResources(v any, moduleID string) []model.Resource {
	entries, ok := v.([]any)
	if !ok {
		return []model.Resource{}
	}
	out := make([]model.Resource, 0, len(entries))
	for i, entry := range entries {
		obj, isObject := entry.(map[string]any)
		if !isObject {
			// Bare string entries become text resources labeled by the string.
			label := str(entry)
			if label == "" {
				continue
			}
			out = append(out, model.Resource{
				ID:    fmt.Sprintf("%s-resource-%d", moduleID, i),
				Label: label,
				Type:  model.ResourceText,
			})
			continue
		}

		resource := model.Resource{
			ID:               firstNonEmpty(str(obj["id"]), fmt.Sprintf("%s-resource-%d", moduleID, i)),
			Label:            firstNonEmpty(str(obj["label"]), str(obj["title"]), str(obj["url"])),
			URL:              firstNonEmpty(str(obj["url"]), str(obj["href"]), str(obj["downloadUrl"])),
			Description:      str(obj["description"]),
			DownloadFilename: firstNonEmpty(str(obj["downloadFilename"]), str(obj["filename"])),
		}
		if resource.Label == "" {
			continue
		}
		resource.Type = str(obj["type"])
		if !model.IsValidResourceType(resource.Type) {
			if str(obj["downloadFilename"]) != "" || str(obj["downloadUrl"]) != "" || str(obj["filename"]) != "" {
				resource.Type = model.ResourcePDF
			} else if str(obj["url"]) != "" {
				resource.Type = model.ResourceLink
			} else {
				resource.Type = model.ResourceText
			}
		}
		out = append(out, resource)
	}
	return out
}

func rawProgram(v any, moduleID string) []model.ProgramBlock {
	entries, ok := v.([]any)
	if !ok {
		return []model.ProgramBlock{}
	}
	out := make([]model.ProgramBlock, 0, len(entries))
	for i, entry := range entries {
		obj, isObject := entry.(map[string]any)
		if !isObject {
			continue
		}
		block := model.ProgramBlock{
			ID:           firstNonEmpty(str(obj["id"]), fmt.Sprintf("%s-block-%d", moduleID, i)),
			Type:         str(obj["type"]), // validated in Normalize
			Title:        str(obj["title"]),
			Content:      str(obj["content"]),
			Code:         str(obj["code"]),
			CodeLanguage: str(obj["codeLanguage"]),
			Duration:     str(obj["duration"]),
			Resources:    rawBlockResources(obj["resources"], moduleID, i),
			Media:        rawMedia(obj["media"]),
		}
		out = append(out, block)
	}
	return out
}

func rawBlockResources(v any, moduleID string, blockIndex int) []model.BlockResource {
	entries, ok := v.([]any)
	if !ok {
		return []model.BlockResource{}
	}
	out := make([]model.BlockResource, 0, len(entries))
	for j, entry := range entries {
		obj, isObject := entry.(map[string]any)
		if !isObject {
			label := str(entry)
			if label == "" {
				continue
			}
			out = append(out, model.BlockResource{
				ID:    fmt.Sprintf("%s-block-%d-resource-%d", moduleID, blockIndex, j),
				Label: label,
			})
			continue
		}
		resource := model.BlockResource{
			ID:    firstNonEmpty(str(obj["id"]), fmt.Sprintf("%s-block-%d-resource-%d", moduleID, blockIndex, j)),
			Label: str(obj["label"]),
			URL:   str(obj["url"]),
		}
		if resource.Label == "" {
			continue
		}
		out = append(out, resource)
	}
	return out
}

func rawHistory(v any, moduleID string) []model.HistoryEntry {
	entries, ok := v.([]any)
	if !ok {
		return []model.HistoryEntry{}
	}
	out := make([]model.HistoryEntry, 0, len(entries))
	for i, entry := range entries {
		if len(out) == model.HistoryLimit {
			break
		}
		obj, isObject := entry.(map[string]any)
		if !isObject {
			continue
		}
		snapshotSource, hasSnapshot := obj["snapshot"]
		if !hasSnapshot {
			// Legacy entries stored the snapshot fields inline.
			snapshotSource = entry
		}
		snapshot := FromRaw(snapshotSource, Options{ForHistory: true})
		out = append(out, model.HistoryEntry{
			ID:        firstNonEmpty(str(obj["id"]), fmt.Sprintf("%s-rev-%d", moduleID, i+1)),
			Label:     firstNonEmpty(str(obj["label"]), fmt.Sprintf("Version %d", i+1)),
			UpdatedAt: firstNonEmpty(str(obj["updatedAt"]), snapshot.UpdatedAt),
			Snapshot:  snapshot,
		})
	}
	return out
}
