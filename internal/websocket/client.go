package websocket

import (
	"context"
	"encoding/json"
	"time"

	"notescraft-be/internal/dto"
	"notescraft-be/internal/entity"
	"notescraft-be/internal/session"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// Client owns one editing connection: it decodes workspace commands from
// the socket and applies them to the user's open session. Session callbacks
// and hub messages flow back out through Send.
type Client struct {
	Hub *Hub

	Conn *websocket.Conn

	UserID uuid.UUID

	// Buffered channel of outbound messages.
	Send chan []byte

	manager *session.Manager
}

// push marshals an outbound message onto the send queue; full queues drop.
func (c *Client) push(message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

func (c *Client) pushError(message string) {
	c.push(dto.ErrorMessage{Type: dto.MessageTypeError, Message: message})
}

// readPump pumps commands from the websocket connection into the session.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.manager.Close()
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("Workspace", "Unexpected socket close", map[string]interface{}{"user_id": c.UserID, "error": err.Error()})
			}
			break
		}

		var cmd dto.WorkspaceCommand
		if err := json.Unmarshal(raw, &cmd); err != nil {
			c.pushError("invalid command payload")
			continue
		}
		c.dispatch(ctx, cmd)
	}
}

func (c *Client) dispatch(ctx context.Context, cmd dto.WorkspaceCommand) {
	if cmd.Action == dto.ActionOpenNote {
		c.openNote(ctx, cmd.NoteId)
		return
	}

	sess := c.manager.Current()
	if sess == nil {
		c.pushError("no note is open")
		return
	}

	at := -1
	if cmd.At != nil {
		at = *cmd.At
	}

	switch cmd.Action {
	case dto.ActionSetTitle:
		sess.SetTitle(cmd.Title)
	case dto.ActionSetTitleStyle:
		sess.SetTitleStyle(cmd.TitleStyle)
	case dto.ActionSetBackground:
		if cmd.Background != nil {
			sess.SetBackground(*cmd.Background)
		}
	case dto.ActionAddSection:
		sess.AddSection(cmd.Title, at)
	case dto.ActionMoveSection:
		sess.MoveSection(cmd.Index, cmd.Direction)
	case dto.ActionUpdateSection:
		if cmd.SectionPatch != nil {
			sess.UpdateSection(cmd.SectionId, *cmd.SectionPatch)
		}
	case dto.ActionRemoveSection:
		sess.RemoveSection(cmd.SectionId)
	case dto.ActionSelectSection:
		sess.SelectSection(cmd.SectionId)
	case dto.ActionAddBlock:
		sess.AddBlock(cmd.SectionId, cmd.BlockType, at)
	case dto.ActionMoveBlock:
		sess.MoveBlock(cmd.SectionId, cmd.Index, cmd.Direction)
	case dto.ActionUpdateBlock:
		if cmd.BlockPatch != nil {
			sess.UpdateBlock(cmd.SectionId, cmd.BlockId, *cmd.BlockPatch)
		}
	case dto.ActionRemoveBlock:
		sess.RemoveBlock(cmd.SectionId, cmd.BlockId)
	default:
		c.pushError("unknown action: " + cmd.Action)
	}
}

func (c *Client) openNote(ctx context.Context, noteId uuid.UUID) {
	if noteId == uuid.Nil {
		c.pushError("note_id is required")
		return
	}

	sess, err := c.manager.Open(ctx, noteId, &clientWatcher{client: c})
	if err != nil {
		c.pushError("failed to open note: " + err.Error())
		return
	}

	info := sess.Inspect()
	c.push(dto.NoteMessage{
		Type:              dto.MessageTypeNote,
		Note:              info.Note,
		SelectedSectionId: info.SelectedSectionId,
	})
}

// clientWatcher forwards session callbacks to the socket.
type clientWatcher struct {
	client *Client
}

func (w *clientWatcher) OnNote(note entity.Note, selectedSectionId string) {
	w.client.push(dto.NoteMessage{
		Type:              dto.MessageTypeNote,
		Note:              note,
		SelectedSectionId: selectedSectionId,
	})
}

func (w *clientWatcher) OnStatus(state session.State, err error) {
	msg := dto.StatusMessage{
		Type:  dto.MessageTypeStatus,
		State: string(state),
	}
	if err != nil {
		msg.Error = err.Error()
	}
	w.client.push(msg)
}

// writePump pumps messages from the send queue to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
