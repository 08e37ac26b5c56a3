// Package seed bundles the default "Formation Création Web" module collection
// used to populate the store on first run or on explicit reset. The dataset is
// kept in its original pre-sanitized shape and treated as untrusted input.
package seed

import (
	_ "embed"
	"encoding/json"

	"course-content-manager/internal/model"
	"course-content-manager/internal/sanitize"
)

//go:embed modules-formation-web.json
var rawDataset []byte

// Modules returns a freshly sanitized copy of the bundled default collection.
// Each call re-sanitizes from the raw dataset so callers can never alias or
// corrupt the seed.
func Modules() []model.Module {
	var decoded map[string]any
	if err := json.Unmarshal(rawDataset, &decoded); err != nil {
		// The dataset is compiled in; a decode failure would be a build
		// defect, but the sanitizer contract is "never throw".
		return []model.Module{}
	}
	return sanitize.FromRawList(decoded["modules"])
}
