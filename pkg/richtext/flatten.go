package richtext

import (
	"strings"

	"notescraft-be/internal/entity"
)

// Flatten joins the note's searchable text: title, section titles and block
// contents, one item per line. Styling is dropped.
func Flatten(note entity.Note) string {
	var sb strings.Builder
	sb.WriteString(note.Title)
	for _, sec := range note.Sections {
		sb.WriteString("\n")
		sb.WriteString(sec.Title)
		for _, block := range sec.Content {
			if block.Content == "" {
				continue
			}
			sb.WriteString("\n")
			sb.WriteString(block.Content)
		}
	}
	return sb.String()
}

// Matches reports whether the note's flattened text contains the query,
// case-insensitively. An empty query matches nothing.
func Matches(note entity.Note, query string) bool {
	if query == "" {
		return false
	}
	return strings.Contains(
		strings.ToLower(Flatten(note)),
		strings.ToLower(query),
	)
}
