package store

import "notescraft-be/internal/entity"

// Fields is a partial document update keyed by top-level field name.
type Fields map[string]interface{}

// Field names accepted by Update.
const (
	FieldTitle      = "title"
	FieldTitleStyle = "titleStyle"
	FieldBackground = "background"
	FieldSections   = "sections"
)

type undefined struct{}

// Undefined marks a field that must be omitted entirely from a store write.
// It is distinct from nil: nil (and empty strings) are legitimate values the
// store persists, Undefined never reaches the store at all.
var Undefined = undefined{}

// StripUndefined returns a copy of the payload with every Undefined value
// removed, recursing through nested maps and slices. Nil and empty values
// are preserved.
func StripUndefined(fields Fields) Fields {
	out := make(Fields, len(fields))
	for k, v := range fields {
		if v == Undefined {
			continue
		}
		out[k] = stripValue(v)
	}
	return out
}

func stripValue(v interface{}) interface{} {
	switch val := v.(type) {
	case Fields:
		return StripUndefined(val)
	case map[string]interface{}:
		return map[string]interface{}(StripUndefined(val))
	case []interface{}:
		items := make([]interface{}, 0, len(val))
		for _, item := range val {
			if item == Undefined {
				continue
			}
			items = append(items, stripValue(item))
		}
		return items
	default:
		return v
	}
}

// NoteFields builds the whole-document persist payload of a working copy:
// the full title, title style, background and sections, never a diff.
func NoteFields(n entity.Note) Fields {
	return Fields{
		FieldTitle:      n.Title,
		FieldTitleStyle: n.TitleStyle,
		FieldBackground: n.Background,
		FieldSections:   n.Sections,
	}
}
