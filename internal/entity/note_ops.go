package entity

// Pure note-tree operations. Every With* method returns a new Note value and
// never mutates its receiver; partial updates merge field-wise and never drop
// fields they do not mention. Moves whose target index falls out of bounds
// return the input unchanged.

// TextStylePatch is a partial TextStyle update. Nil fields are left as-is.
type TextStylePatch struct {
	FontFamily *string `json:"fontFamily,omitempty"`
	FontSize   *string `json:"fontSize,omitempty"`
	Color      *string `json:"color,omitempty"`
	FontWeight *string `json:"fontWeight,omitempty"`
}

// BlockStylePatch is a partial BlockStyle update. Nil fields are left as-is.
type BlockStylePatch struct {
	Bold       *bool   `json:"bold,omitempty"`
	Italic     *bool   `json:"italic,omitempty"`
	Underline  *bool   `json:"underline,omitempty"`
	Color      *string `json:"color,omitempty"`
	FontFamily *string `json:"fontFamily,omitempty"`
}

// SectionPatch is a partial section update.
type SectionPatch struct {
	Title      *string         `json:"title,omitempty"`
	TitleStyle *TextStylePatch `json:"titleStyle,omitempty"`
}

// BlockPatch is a partial block update.
type BlockPatch struct {
	Content  *string          `json:"content,omitempty"`
	Style    *BlockStylePatch `json:"style,omitempty"`
	Language *string          `json:"language,omitempty"`
}

// Merged applies the patch on top of s and returns the result. A nil base
// starts from the zero style, so a patch never gets silently lost.
func (s *TextStyle) Merged(p *TextStylePatch) *TextStyle {
	var out TextStyle
	if s != nil {
		out = *s
	}
	if p == nil {
		return &out
	}
	if p.FontFamily != nil {
		out.FontFamily = *p.FontFamily
	}
	if p.FontSize != nil {
		out.FontSize = *p.FontSize
	}
	if p.Color != nil {
		out.Color = *p.Color
	}
	if p.FontWeight != nil {
		out.FontWeight = *p.FontWeight
	}
	return &out
}

// Merged applies the patch on top of s and returns the result.
func (s *BlockStyle) Merged(p *BlockStylePatch) *BlockStyle {
	var out BlockStyle
	if s != nil {
		out = *s
	}
	if p == nil {
		return &out
	}
	if p.Bold != nil {
		out.Bold = *p.Bold
	}
	if p.Italic != nil {
		out.Italic = *p.Italic
	}
	if p.Underline != nil {
		out.Underline = *p.Underline
	}
	if p.Color != nil {
		out.Color = *p.Color
	}
	if p.FontFamily != nil {
		out.FontFamily = *p.FontFamily
	}
	return &out
}

func cloneStyle(s *TextStyle) *TextStyle {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func cloneBlockStyle(s *BlockStyle) *BlockStyle {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func cloneBlocks(blocks []Block) []Block {
	out := make([]Block, len(blocks))
	for i, b := range blocks {
		b.Style = cloneBlockStyle(b.Style)
		out[i] = b
	}
	return out
}

func cloneSections(sections []Section) []Section {
	out := make([]Section, len(sections))
	for i, s := range sections {
		s.TitleStyle = cloneStyle(s.TitleStyle)
		s.Content = cloneBlocks(s.Content)
		out[i] = s
	}
	return out
}

// Clone returns a deep copy of the note.
func (n Note) Clone() Note {
	n.TitleStyle = cloneStyle(n.TitleStyle)
	n.Sections = cloneSections(n.Sections)
	return n
}

// WithTitle returns the note with a new title.
func (n Note) WithTitle(title string) Note {
	out := n.Clone()
	out.Title = title
	return out
}

// WithTitleStyle merges the patch into the note's title style.
func (n Note) WithTitleStyle(p *TextStylePatch) Note {
	out := n.Clone()
	out.TitleStyle = out.TitleStyle.Merged(p)
	return out
}

// WithBackground returns the note with a new background descriptor.
func (n Note) WithBackground(bg Background) Note {
	out := n.Clone()
	out.Background = bg
	return out
}

// WithSectionAdded inserts the section at the given index. A negative index
// or one past the end appends.
func (n Note) WithSectionAdded(sec Section, at int) Note {
	out := n.Clone()
	if at < 0 || at > len(out.Sections) {
		at = len(out.Sections)
	}
	sections := make([]Section, 0, len(out.Sections)+1)
	sections = append(sections, out.Sections[:at]...)
	sections = append(sections, sec)
	sections = append(sections, out.Sections[at:]...)
	out.Sections = sections
	return out
}

// WithSectionRemoved removes the section with the given id. Selecting a
// replacement for a removed selected section is the editing session's
// policy, not the model's.
func (n Note) WithSectionRemoved(sectionId string) Note {
	out := n.Clone()
	sections := make([]Section, 0, len(out.Sections))
	for _, s := range out.Sections {
		if s.Id != sectionId {
			sections = append(sections, s)
		}
	}
	out.Sections = sections
	return out
}

// WithSectionMoved swaps the section at from with its neighbor at
// from+direction. Out-of-bounds source or target is a no-op.
func (n Note) WithSectionMoved(from, direction int) Note {
	to := from + direction
	if from < 0 || from >= len(n.Sections) || to < 0 || to >= len(n.Sections) {
		return n
	}
	out := n.Clone()
	out.Sections[from], out.Sections[to] = out.Sections[to], out.Sections[from]
	return out
}

// WithSectionUpdated merges the patch into the matching section. Unknown
// section ids are a no-op.
func (n Note) WithSectionUpdated(sectionId string, p SectionPatch) Note {
	out := n.Clone()
	for i := range out.Sections {
		if out.Sections[i].Id != sectionId {
			continue
		}
		if p.Title != nil {
			out.Sections[i].Title = *p.Title
		}
		if p.TitleStyle != nil {
			out.Sections[i].TitleStyle = out.Sections[i].TitleStyle.Merged(p.TitleStyle)
		}
		break
	}
	return out
}

// WithBlockAdded inserts the block into the section at the given index. A
// negative index or one past the end appends.
func (n Note) WithBlockAdded(sectionId string, b Block, at int) Note {
	out := n.Clone()
	for i := range out.Sections {
		if out.Sections[i].Id != sectionId {
			continue
		}
		content := out.Sections[i].Content
		if at < 0 || at > len(content) {
			at = len(content)
		}
		blocks := make([]Block, 0, len(content)+1)
		blocks = append(blocks, content[:at]...)
		blocks = append(blocks, b)
		blocks = append(blocks, content[at:]...)
		out.Sections[i].Content = blocks
		break
	}
	return out
}

// WithBlockRemoved removes the block from the section. Removal shifts
// positions but never rewrites the ids of the remaining blocks.
func (n Note) WithBlockRemoved(sectionId, blockId string) Note {
	out := n.Clone()
	for i := range out.Sections {
		if out.Sections[i].Id != sectionId {
			continue
		}
		blocks := make([]Block, 0, len(out.Sections[i].Content))
		for _, b := range out.Sections[i].Content {
			if b.Id != blockId {
				blocks = append(blocks, b)
			}
		}
		out.Sections[i].Content = blocks
		break
	}
	return out
}

// WithBlockUpdated merges the patch into the matching block.
func (n Note) WithBlockUpdated(sectionId, blockId string, p BlockPatch) Note {
	out := n.Clone()
	for i := range out.Sections {
		if out.Sections[i].Id != sectionId {
			continue
		}
		for j := range out.Sections[i].Content {
			b := &out.Sections[i].Content[j]
			if b.Id != blockId {
				continue
			}
			if p.Content != nil {
				b.Content = *p.Content
			}
			if p.Style != nil {
				b.Style = b.Style.Merged(p.Style)
			}
			if p.Language != nil && b.Type == BlockTypeCode {
				b.Language = *p.Language
			}
			break
		}
		break
	}
	return out
}

// WithBlockMoved swaps the block at from with its neighbor at from+direction
// within the section. Out-of-bounds source or target is a no-op.
func (n Note) WithBlockMoved(sectionId string, from, direction int) Note {
	sec, ok := n.SectionByID(sectionId)
	if !ok {
		return n
	}
	to := from + direction
	if from < 0 || from >= len(sec.Content) || to < 0 || to >= len(sec.Content) {
		return n
	}
	out := n.Clone()
	for i := range out.Sections {
		if out.Sections[i].Id == sectionId {
			c := out.Sections[i].Content
			c[from], c[to] = c[to], c[from]
			break
		}
	}
	return out
}
