package richtext

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"notescraft-be/internal/entity"
)

func sampleNote() entity.Note {
	code := entity.NewBlock(entity.BlockTypeCode)
	code.Content = "fmt.Println(\"hi\")"
	code.Language = "go"

	bullet := entity.NewBlock(entity.BlockTypeBullet)
	bullet.Content = "pack passport"

	styled := entity.NewBlock(entity.BlockTypeText)
	styled.Content = "important"
	styled.Style = &entity.BlockStyle{Bold: true, Italic: true}

	sec := entity.NewSection("Checklist")
	sec.Content = []entity.Block{bullet, styled, code}

	note := entity.NewDefaultNote(uuid.New())
	note.Title = "Trip Plan"
	note.Sections = []entity.Section{sec}
	return note
}

func TestRenderHeadings(t *testing.T) {
	md := NewRenderer().Render(sampleNote())

	if !strings.HasPrefix(md, "# Trip Plan\n") {
		t.Fatalf("missing title heading, got %q", md)
	}
	if !strings.Contains(md, "## Checklist\n") {
		t.Errorf("missing section heading, got %q", md)
	}
}

func TestRenderBlockTypes(t *testing.T) {
	md := NewRenderer().Render(sampleNote())

	checks := []string{
		"- pack passport",
		"_**important**_",
		"```go\nfmt.Println(\"hi\")\n```",
	}
	for _, want := range checks {
		if !strings.Contains(md, want) {
			t.Errorf("rendered markdown missing %q:\n%s", want, md)
		}
	}
}

func TestRenderCodeDefaultsLanguage(t *testing.T) {
	code := entity.NewBlock(entity.BlockTypeCode)
	code.Content = "x = 1"
	code.Language = ""

	sec := entity.NewSection("Snippets")
	sec.Content = []entity.Block{code}
	note := entity.NewDefaultNote(uuid.New())
	note.Sections = []entity.Section{sec}

	md := NewRenderer().Render(note)
	if !strings.Contains(md, "```"+entity.DefaultCodeLanguage+"\n") {
		t.Errorf("code fence did not fall back to the default language:\n%s", md)
	}
}

func TestRenderColorAnnotation(t *testing.T) {
	block := entity.NewBlock(entity.BlockTypeText)
	block.Content = "warning"
	block.Style = &entity.BlockStyle{Color: "#ef4444"}

	sec := entity.NewSection("Notes")
	sec.Content = []entity.Block{block}
	note := entity.NewDefaultNote(uuid.New())
	note.Sections = []entity.Section{sec}

	md := NewRenderer().Render(note)
	if !strings.Contains(md, `<span style="color:#ef4444">warning</span>`) {
		t.Errorf("color annotation missing:\n%s", md)
	}
}

func TestFlattenAndMatches(t *testing.T) {
	note := sampleNote()

	flat := Flatten(note)
	for _, want := range []string{"Trip Plan", "Checklist", "pack passport", "fmt.Println"} {
		if !strings.Contains(flat, want) {
			t.Errorf("flattened text missing %q:\n%s", want, flat)
		}
	}

	cases := []struct {
		query string
		want  bool
	}{
		{"PASSPORT", true},
		{"trip", true},
		{"println", true},
		{"missing words", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := Matches(note, tc.query); got != tc.want {
			t.Errorf("Matches(%q) = %v, want %v", tc.query, got, tc.want)
		}
	}
}
