package entity

import (
	"time"

	"github.com/google/uuid"

	"notescraft-be/pkg/identifier"
)

type BlockType string

const (
	BlockTypeText       BlockType = "text"
	BlockTypeCode       BlockType = "code"
	BlockTypeBullet     BlockType = "bullet"
	BlockTypeSubheading BlockType = "subheading"
)

const (
	BackgroundSolid    = "solid"
	BackgroundGradient = "gradient"
)

// Default presentation constants, matching what the web client renders when
// no explicit style has been chosen.
const (
	DefaultTitle        = "Untitled Note"
	DefaultSectionTitle = "Introduction"
	DefaultFontFamily   = "Inter"
	DefaultBackground   = "#ffffff"
	DefaultCodeLanguage = "javascript"
	defaultTitleSize    = "32px"
	defaultTitleColor   = "#1e293b"
	defaultTitleWeight  = "700"
	defaultSectionSize  = "24px"
	defaultSectionColor = "#334155"
)

// TextStyle styles a note or section title.
type TextStyle struct {
	FontFamily string `json:"fontFamily,omitempty"`
	FontSize   string `json:"fontSize,omitempty"`
	Color      string `json:"color,omitempty"`
	FontWeight string `json:"fontWeight,omitempty"`
}

// BlockStyle styles the body of a text or bullet block.
type BlockStyle struct {
	Bold       bool   `json:"bold,omitempty"`
	Italic     bool   `json:"italic,omitempty"`
	Underline  bool   `json:"underline,omitempty"`
	Color      string `json:"color,omitempty"`
	FontFamily string `json:"fontFamily,omitempty"`
}

// Background is a solid color or gradient descriptor.
type Background struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Block is the atomic content unit inside a section. Language is only
// meaningful when Type is code.
type Block struct {
	Id       string      `json:"id"`
	Type     BlockType   `json:"type"`
	Content  string      `json:"content"`
	Style    *BlockStyle `json:"style,omitempty"`
	Language string      `json:"language,omitempty"`
}

// Section is a named, ordered subdivision of a note. Block ids are unique
// within their section; slice order is display order.
type Section struct {
	Id         string     `json:"id"`
	Title      string     `json:"title"`
	TitleStyle *TextStyle `json:"titleStyle,omitempty"`
	Content    []Block    `json:"content"`
}

// Note is the top-level user document. Id is store-assigned and stable for
// the note's lifetime; UserId never changes after creation.
type Note struct {
	Id         uuid.UUID  `json:"id"`
	UserId     uuid.UUID  `json:"userId"`
	Title      string     `json:"title"`
	TitleStyle *TextStyle `json:"titleStyle,omitempty"`
	Background Background `json:"background"`
	Sections   []Section  `json:"sections"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// NewSection returns an empty section with a fresh id.
func NewSection(title string) Section {
	return Section{
		Id:    identifier.New(),
		Title: title,
		TitleStyle: &TextStyle{
			FontFamily: DefaultFontFamily,
			FontSize:   defaultSectionSize,
			Color:      defaultSectionColor,
		},
		Content: []Block{},
	}
}

// NewBlock returns an empty block of the given type. Code blocks start with
// a default language so the client's language picker has a value.
func NewBlock(t BlockType) Block {
	b := Block{
		Id:      identifier.New(),
		Type:    t,
		Content: "",
		Style:   &BlockStyle{},
	}
	if t == BlockTypeCode {
		b.Language = DefaultCodeLanguage
	}
	return b
}

// NewDefaultNote produces the note a user gets on "+ New Note": default
// title and styling, one "Introduction" section with no blocks. The id is
// left zero; the document store assigns it on create.
func NewDefaultNote(ownerId uuid.UUID) Note {
	now := time.Now()
	return Note{
		UserId: ownerId,
		Title:  DefaultTitle,
		TitleStyle: &TextStyle{
			FontFamily: DefaultFontFamily,
			FontSize:   defaultTitleSize,
			Color:      defaultTitleColor,
			FontWeight: defaultTitleWeight,
		},
		Background: Background{Type: BackgroundSolid, Value: DefaultBackground},
		Sections:   []Section{NewSection(DefaultSectionTitle)},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// SectionByID returns a copy of the section with the given id.
func (n Note) SectionByID(id string) (Section, bool) {
	for i := range n.Sections {
		if n.Sections[i].Id == id {
			return n.Sections[i], true
		}
	}
	return Section{}, false
}

// FirstSectionID returns the id of the first section, or "" if the note has
// no sections.
func (n Note) FirstSectionID() string {
	if len(n.Sections) == 0 {
		return ""
	}
	return n.Sections[0].Id
}
