package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notescraft-be/internal/entity"
)

func TestStripUndefinedTopLevel(t *testing.T) {
	fields := Fields{
		"title":      "Hello",
		"titleStyle": Undefined,
		"background": nil,
		"note":       "",
	}

	got := StripUndefined(fields)

	assert.Equal(t, Fields{
		"title":      "Hello",
		"background": nil,
		"note":       "",
	}, got)
	// The input is untouched.
	assert.Contains(t, fields, "titleStyle")
}

func TestStripUndefinedRecursesIntoMapsAndSlices(t *testing.T) {
	fields := Fields{
		"sections": []interface{}{
			map[string]interface{}{
				"id":         "s1",
				"title":      "",
				"titleStyle": Undefined,
				"content": []interface{}{
					Undefined,
					map[string]interface{}{"id": "b1", "language": Undefined, "content": nil},
				},
			},
		},
	}

	got := StripUndefined(fields)

	sections := got["sections"].([]interface{})
	require.Len(t, sections, 1)
	sec := sections[0].(map[string]interface{})
	assert.NotContains(t, sec, "titleStyle")
	assert.Equal(t, "", sec["title"])

	content := sec["content"].([]interface{})
	require.Len(t, content, 1)
	blk := content[0].(map[string]interface{})
	assert.NotContains(t, blk, "language")
	assert.Contains(t, blk, "content")
	assert.Nil(t, blk["content"])
}

func TestNoteFieldsIsWholeDocument(t *testing.T) {
	n := entity.NewDefaultNote(uuidNew(t))

	fields := NoteFields(n)

	assert.Equal(t, n.Title, fields[FieldTitle])
	assert.Equal(t, n.TitleStyle, fields[FieldTitleStyle])
	assert.Equal(t, n.Background, fields[FieldBackground])
	assert.Equal(t, n.Sections, fields[FieldSections])
	assert.Len(t, fields, 4)
}
