package richtext

import (
	"fmt"
	"strings"

	"notescraft-be/internal/entity"
)

// Renderer converts a note's section/block tree to Markdown.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render produces a Markdown document: the note title as H1, each section
// title as H2, then the section's blocks in order.
func (r *Renderer) Render(note entity.Note) string {
	var sb strings.Builder

	sb.WriteString("# " + note.Title + "\n\n")
	for _, sec := range note.Sections {
		r.renderSection(sec, &sb)
	}
	return sb.String()
}

func (r *Renderer) renderSection(sec entity.Section, sb *strings.Builder) {
	sb.WriteString("## " + sec.Title + "\n\n")
	for _, block := range sec.Content {
		r.renderBlock(block, sb)
	}
}

func (r *Renderer) renderBlock(block entity.Block, sb *strings.Builder) {
	switch block.Type {
	case entity.BlockTypeCode:
		lang := block.Language
		if lang == "" {
			lang = entity.DefaultCodeLanguage
		}
		sb.WriteString(fmt.Sprintf("```%s\n%s\n```\n\n", lang, block.Content))

	case entity.BlockTypeBullet:
		sb.WriteString("- " + r.styledText(block) + "\n\n")

	case entity.BlockTypeSubheading:
		sb.WriteString("### " + r.styledText(block) + "\n\n")

	case entity.BlockTypeText:
		sb.WriteString(r.styledText(block) + "\n\n")

	default:
		// Unknown block types degrade to their raw content.
		sb.WriteString(block.Content + "\n\n")
	}
}

// styledText wraps the block content with its inline decorations.
// Markdown has no native underline, so <u> is used.
func (r *Renderer) styledText(block entity.Block) string {
	text := block.Content
	if text == "" {
		return ""
	}
	style := block.Style
	if style == nil {
		return text
	}

	if style.Underline {
		text = "<u>" + text + "</u>"
	}
	if style.Italic {
		text = "_" + text + "_"
	}
	if style.Bold {
		text = "**" + text + "**"
	}
	if openTag := colorOpenTag(style); openTag != "" {
		text = openTag + text + "</span>"
	}
	return text
}

// colorOpenTag annotates non-default presentation that Markdown cannot carry.
func colorOpenTag(style *entity.BlockStyle) string {
	var relevant []string
	if style.Color != "" {
		relevant = append(relevant, "color:"+style.Color)
	}
	if style.FontFamily != "" && style.FontFamily != entity.DefaultFontFamily {
		relevant = append(relevant, "font-family:"+style.FontFamily)
	}
	if len(relevant) == 0 {
		return ""
	}
	return "<span style=\"" + strings.Join(relevant, "; ") + "\">"
}
