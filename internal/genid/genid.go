// Package genid produces identifiers for modules and their embedded entities.
package genid

import (
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
)

var numericRun = regexp.MustCompile(`\d+`)

// Random returns a unique token for generic entities (resources, history
// entries, block resources). It prefers a random UUID and falls back to a
// timestamp + pseudo-random composite if the system's random source fails.
// Collisions are accepted as negligible at single-editor scale.
func Random() string {
	id, err := uuid.NewRandom()
	if err != nil {
		return fmt.Sprintf("id-%d-%d", rand.Intn(1_000_000), time.Now().UnixMilli())
	}
	return id.String()
}

// NextModuleID scans the existing ids, extracts the trailing numeric run of
// each (ids without digits contribute nothing), and returns "J<max+1>".
// Suffixes increase monotonically regardless of deletions.
func NextModuleID(ids []string) string {
	highest := 0
	for _, id := range ids {
		value, ok := numericSuffix(id)
		if ok && value > highest {
			highest = value
		}
	}
	return fmt.Sprintf("J%d", highest+1)
}

func numericSuffix(id string) (int, bool) {
	matches := numericRun.FindAllString(id, -1)
	if len(matches) == 0 {
		return 0, false
	}
	value, err := strconv.Atoi(matches[len(matches)-1])
	if err != nil {
		return 0, false
	}
	return value, true
}
