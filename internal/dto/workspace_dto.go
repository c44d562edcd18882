package dto

import (
	"github.com/google/uuid"

	"notescraft-be/internal/entity"
)

// Workspace command actions, sent by the client over the editing socket.
const (
	ActionOpenNote      = "open_note"
	ActionSetTitle      = "set_title"
	ActionSetTitleStyle = "set_title_style"
	ActionSetBackground = "set_background"
	ActionAddSection    = "add_section"
	ActionMoveSection   = "move_section"
	ActionUpdateSection = "update_section"
	ActionRemoveSection = "remove_section"
	ActionSelectSection = "select_section"
	ActionAddBlock      = "add_block"
	ActionMoveBlock     = "move_block"
	ActionUpdateBlock   = "update_block"
	ActionRemoveBlock   = "remove_block"
)

// WorkspaceCommand is one client message. Action selects the operation;
// the other fields are read per action.
type WorkspaceCommand struct {
	Action string `json:"action" validate:"required"`

	NoteId uuid.UUID `json:"note_id,omitempty"`

	Title      string                  `json:"title,omitempty"`
	TitleStyle *entity.TextStylePatch  `json:"title_style,omitempty"`
	Background *entity.Background      `json:"background,omitempty"`

	SectionId    string               `json:"section_id,omitempty"`
	SectionPatch *entity.SectionPatch `json:"section_patch,omitempty"`

	BlockId    string             `json:"block_id,omitempty"`
	BlockType  entity.BlockType   `json:"block_type,omitempty"`
	BlockPatch *entity.BlockPatch `json:"block_patch,omitempty"`

	// At is the insertion index for add operations; negative appends.
	At *int `json:"at,omitempty"`

	Index     int `json:"index,omitempty"`
	Direction int `json:"direction,omitempty"`
}

// Server message types pushed over the editing socket.
const (
	MessageTypeNote      = "note"
	MessageTypeStatus    = "status"
	MessageTypeSummaries = "summaries"
	MessageTypeEvent     = "event"
	MessageTypeError     = "error"
)

type NoteMessage struct {
	Type              string      `json:"type"`
	Note              entity.Note `json:"note"`
	SelectedSectionId string      `json:"selected_section_id"`
}

type StatusMessage struct {
	Type  string `json:"type"`
	State string `json:"state"`
	Error string `json:"error,omitempty"`
}

type SummariesMessage struct {
	Type  string                `json:"type"`
	Items []NoteSummaryResponse `json:"items"`
}

// EventMessage relays a domain event to the owner's connected devices.
type EventMessage struct {
	Type  string                 `json:"type"`
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data,omitempty"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
