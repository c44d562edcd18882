package dto

import (
	"time"

	"github.com/google/uuid"

	"notescraft-be/internal/entity"
)

type CreateNoteRequest struct {
	Title string `json:"title" validate:"omitempty,max=255"`
}

type CreateNoteResponse struct {
	Id uuid.UUID `json:"id"`
}

type ShowNoteResponse struct {
	Note entity.Note `json:"note"`
}

// NoteSummaryResponse is one card on the home screen.
type NoteSummaryResponse struct {
	Id           uuid.UUID          `json:"id"`
	Title        string             `json:"title"`
	TitleStyle   *entity.TextStyle  `json:"titleStyle,omitempty"`
	Background   *entity.Background `json:"background,omitempty"`
	SectionCount int                `json:"sectionCount"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

type ListNotesResponse struct {
	Notes []NoteSummaryResponse `json:"notes"`
}

type SearchNotesRequest struct {
	Query string `json:"query" validate:"required,min=1"`
}

type SearchNoteResult struct {
	Id    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

type ExportNoteResponse struct {
	Id       uuid.UUID `json:"id"`
	Markdown string    `json:"markdown"`
}
