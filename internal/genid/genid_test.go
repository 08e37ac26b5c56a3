package genid

import "testing"

func TestNextModuleID(t *testing.T) {
	cases := []struct {
		name string
		ids  []string
		want string
	}{
		{"empty collection", nil, "J1"},
		{"sequential", []string{"J1", "J2", "J3"}, "J4"},
		{"gaps keep monotonic", []string{"J1", "J3", "J7"}, "J8"},
		{"unordered", []string{"J7", "J1", "J3"}, "J8"},
		{"non-numeric ids ignored", []string{"atelier", "J2"}, "J3"},
		{"only non-numeric ids", []string{"atelier", "intro"}, "J1"},
		{"last numeric run wins", []string{"J2-copy-9"}, "J10"},
		{"foreign prefixes still counted", []string{"module-12"}, "J13"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NextModuleID(tc.ids); got != tc.want {
				t.Errorf("NextModuleID(%v) = %q, want %q", tc.ids, got, tc.want)
			}
		})
	}
}

func TestRandomIsNonEmptyAndUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := Random()
		if id == "" {
			t.Fatal("Random returned an empty id")
		}
		if seen[id] {
			t.Fatalf("Random produced a duplicate: %q", id)
		}
		seen[id] = true
	}
}
