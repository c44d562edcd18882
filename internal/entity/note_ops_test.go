package entity

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func testNote(sectionCount int) Note {
	n := NewDefaultNote(uuid.New())
	n.Sections = nil
	for i := 0; i < sectionCount; i++ {
		n = n.WithSectionAdded(NewSection("Section"), -1)
	}
	return n
}

func sectionIds(n Note) []string {
	ids := make([]string, len(n.Sections))
	for i, s := range n.Sections {
		ids[i] = s.Id
	}
	return ids
}

func TestNewDefaultNote(t *testing.T) {
	owner := uuid.New()
	n := NewDefaultNote(owner)

	if n.UserId != owner {
		t.Errorf("owner = %s, want %s", n.UserId, owner)
	}
	if n.Title != DefaultTitle {
		t.Errorf("title = %q, want %q", n.Title, DefaultTitle)
	}
	if len(n.Sections) != 1 {
		t.Fatalf("section count = %d, want 1", len(n.Sections))
	}
	if n.Sections[0].Title != DefaultSectionTitle {
		t.Errorf("section title = %q, want %q", n.Sections[0].Title, DefaultSectionTitle)
	}
	if len(n.Sections[0].Content) != 0 {
		t.Errorf("default section should have no blocks, got %d", len(n.Sections[0].Content))
	}
	if n.Background.Type != BackgroundSolid || n.Background.Value != DefaultBackground {
		t.Errorf("background = %+v, want solid %s", n.Background, DefaultBackground)
	}
}

func TestWithSectionMoved(t *testing.T) {
	tests := []struct {
		name      string
		sections  int
		from      int
		direction int
		wantOrder []int // indexes of the original order
	}{
		{"move down swaps adjacent", 3, 0, 1, []int{1, 0, 2}},
		{"move up swaps adjacent", 3, 2, -1, []int{0, 2, 1}},
		{"first up is identity", 3, 0, -1, []int{0, 1, 2}},
		{"last down is identity", 3, 2, 1, []int{0, 1, 2}},
		{"source out of bounds is identity", 3, 5, -1, []int{0, 1, 2}},
		{"negative source is identity", 3, -1, 1, []int{0, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := testNote(tt.sections)
			before := sectionIds(n)

			got := n.WithSectionMoved(tt.from, tt.direction)

			want := make([]string, len(tt.wantOrder))
			for i, idx := range tt.wantOrder {
				want[i] = before[idx]
			}
			if !reflect.DeepEqual(sectionIds(got), want) {
				t.Errorf("order = %v, want %v", sectionIds(got), want)
			}
			// Input must never be mutated.
			if !reflect.DeepEqual(sectionIds(n), before) {
				t.Errorf("input note mutated: %v != %v", sectionIds(n), before)
			}
		})
	}
}

func TestWithSectionAddedAtIndex(t *testing.T) {
	n := testNote(2)
	sec := NewSection("Middle")

	got := n.WithSectionAdded(sec, 1)
	if len(got.Sections) != 3 {
		t.Fatalf("section count = %d, want 3", len(got.Sections))
	}
	if got.Sections[1].Id != sec.Id {
		t.Errorf("inserted section id = %s at index 1, want %s", got.Sections[1].Id, sec.Id)
	}

	appended := n.WithSectionAdded(sec, -1)
	if appended.Sections[len(appended.Sections)-1].Id != sec.Id {
		t.Error("negative index should append")
	}
	past := n.WithSectionAdded(sec, 99)
	if past.Sections[len(past.Sections)-1].Id != sec.Id {
		t.Error("index past the end should append")
	}
}

func TestWithSectionUpdatedMergesStyle(t *testing.T) {
	n := testNote(1)
	id := n.Sections[0].Id

	n = n.WithSectionUpdated(id, SectionPatch{TitleStyle: &TextStylePatch{Color: strPtr("#dc2626")}})
	n = n.WithSectionUpdated(id, SectionPatch{TitleStyle: &TextStylePatch{FontFamily: strPtr("Georgia")}})

	style := n.Sections[0].TitleStyle
	if style.Color != "#dc2626" {
		t.Errorf("color dropped by later patch: %q", style.Color)
	}
	if style.FontFamily != "Georgia" {
		t.Errorf("fontFamily = %q, want Georgia", style.FontFamily)
	}
	// Untouched fields survive both patches.
	if style.FontSize == "" {
		t.Error("fontSize dropped by style patches")
	}
}

func TestWithSectionUpdatedIdempotent(t *testing.T) {
	n := testNote(1)
	id := n.Sections[0].Id
	patch := SectionPatch{Title: strPtr("Renamed"), TitleStyle: &TextStylePatch{Color: strPtr("#2563eb")}}

	once := n.WithSectionUpdated(id, patch)
	twice := once.WithSectionUpdated(id, patch)

	if !reflect.DeepEqual(once.Sections, twice.Sections) {
		t.Error("applying the same patch twice changed the result")
	}
}

func TestWithBlockAddedAndRemoved(t *testing.T) {
	n := testNote(1)
	secId := n.Sections[0].Id

	code := NewBlock(BlockTypeCode)
	if code.Language != DefaultCodeLanguage {
		t.Errorf("code block language = %q, want %q", code.Language, DefaultCodeLanguage)
	}
	text := NewBlock(BlockTypeText)
	if text.Language != "" {
		t.Errorf("text block should have no language, got %q", text.Language)
	}

	n = n.WithBlockAdded(secId, text, -1)
	n = n.WithBlockAdded(secId, code, 0)

	sec, _ := n.SectionByID(secId)
	if len(sec.Content) != 2 || sec.Content[0].Id != code.Id {
		t.Fatalf("unexpected block order: %+v", sec.Content)
	}

	n = n.WithBlockRemoved(secId, code.Id)
	sec, _ = n.SectionByID(secId)
	if len(sec.Content) != 1 || sec.Content[0].Id != text.Id {
		t.Errorf("removal left %+v", sec.Content)
	}
}

func TestWithBlockMoved(t *testing.T) {
	n := testNote(1)
	secId := n.Sections[0].Id
	a, b, c := NewBlock(BlockTypeText), NewBlock(BlockTypeBullet), NewBlock(BlockTypeSubheading)
	n = n.WithBlockAdded(secId, a, -1)
	n = n.WithBlockAdded(secId, b, -1)
	n = n.WithBlockAdded(secId, c, -1)

	moved := n.WithBlockMoved(secId, 0, 1)
	sec, _ := moved.SectionByID(secId)
	if sec.Content[0].Id != b.Id || sec.Content[1].Id != a.Id || sec.Content[2].Id != c.Id {
		t.Errorf("unexpected order after move: %v %v %v", sec.Content[0].Id, sec.Content[1].Id, sec.Content[2].Id)
	}

	same := n.WithBlockMoved(secId, 2, 1)
	if !reflect.DeepEqual(same, n) {
		t.Error("out-of-bounds block move should be identity")
	}
	unknown := n.WithBlockMoved("missing", 0, 1)
	if !reflect.DeepEqual(unknown, n) {
		t.Error("move in unknown section should be identity")
	}
}

func TestWithBlockUpdatedMergesStylePartials(t *testing.T) {
	n := testNote(1)
	secId := n.Sections[0].Id
	blk := NewBlock(BlockTypeText)
	n = n.WithBlockAdded(secId, blk, -1)

	n = n.WithBlockUpdated(secId, blk.Id, BlockPatch{Style: &BlockStylePatch{Bold: boolPtr(true)}})
	n = n.WithBlockUpdated(secId, blk.Id, BlockPatch{Style: &BlockStylePatch{Color: strPtr("#7c3aed")}})
	n = n.WithBlockUpdated(secId, blk.Id, BlockPatch{Content: strPtr("Hello")})

	sec, _ := n.SectionByID(secId)
	got := sec.Content[0]
	if !got.Style.Bold {
		t.Error("bold flag dropped by later patches")
	}
	if got.Style.Color != "#7c3aed" {
		t.Errorf("color = %q, want #7c3aed", got.Style.Color)
	}
	if got.Content != "Hello" {
		t.Errorf("content = %q, want Hello", got.Content)
	}
}

func TestWithBlockUpdatedLanguageOnlyForCode(t *testing.T) {
	n := testNote(1)
	secId := n.Sections[0].Id
	text := NewBlock(BlockTypeText)
	code := NewBlock(BlockTypeCode)
	n = n.WithBlockAdded(secId, text, -1)
	n = n.WithBlockAdded(secId, code, -1)

	n = n.WithBlockUpdated(secId, text.Id, BlockPatch{Language: strPtr("python")})
	n = n.WithBlockUpdated(secId, code.Id, BlockPatch{Language: strPtr("python")})

	sec, _ := n.SectionByID(secId)
	if sec.Content[0].Language != "" {
		t.Errorf("text block gained a language: %q", sec.Content[0].Language)
	}
	if sec.Content[1].Language != "python" {
		t.Errorf("code block language = %q, want python", sec.Content[1].Language)
	}
}

func TestWithSectionRemovedKeepsOthers(t *testing.T) {
	n := testNote(3)
	removed := n.Sections[1].Id

	got := n.WithSectionRemoved(removed)
	if len(got.Sections) != 2 {
		t.Fatalf("section count = %d, want 2", len(got.Sections))
	}
	if got.Sections[0].Id != n.Sections[0].Id || got.Sections[1].Id != n.Sections[2].Id {
		t.Error("remaining sections out of order")
	}
}

func TestCloneIsolation(t *testing.T) {
	n := testNote(1)
	secId := n.Sections[0].Id
	blk := NewBlock(BlockTypeText)
	n = n.WithBlockAdded(secId, blk, -1)

	c := n.Clone()
	c.Sections[0].Title = "changed"
	c.Sections[0].Content[0].Content = "changed"
	c.Sections[0].TitleStyle.Color = "#000000"

	if n.Sections[0].Title == "changed" || n.Sections[0].Content[0].Content == "changed" {
		t.Error("clone shares section/block storage with original")
	}
	if n.Sections[0].TitleStyle.Color == "#000000" {
		t.Error("clone shares style pointer with original")
	}
}
