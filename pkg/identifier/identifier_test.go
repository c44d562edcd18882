package identifier

import (
	"sort"
	"testing"
)

func TestNewUniqueUnderRapidCreation(t *testing.T) {
	g := NewGenerator()
	seen := make(map[string]bool)
	for i := 0; i < 10000; i++ {
		id := g.New()
		if seen[id] {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = true
	}
}

func TestNewMonotonicWithinProcess(t *testing.T) {
	g := NewGenerator()
	ids := make([]string, 100)
	for i := range ids {
		ids[i] = g.New()
	}
	if !sort.StringsAreSorted(ids) {
		t.Fatal("expected generated ids to be lexicographically increasing")
	}
}
