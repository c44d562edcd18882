package websocket

import (
	"context"
	"time"

	"notescraft-be/internal/dto"
	"notescraft-be/internal/pkg/logger"
	"notescraft-be/internal/session"
	"notescraft-be/internal/store"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// Deps are the collaborators one editing connection needs.
type Deps struct {
	Store        store.DocumentStore
	Log          logger.ILogger
	SaveDebounce time.Duration
}

// ServeWs runs one editing connection until the peer disconnects. The
// connection carries workspace commands inbound and note snapshots, save
// status and home-screen summaries outbound.
func ServeWs(hub *Hub, c *websocket.Conn, userID uuid.UUID, deps Deps) {
	manager := session.NewManager(deps.Store, deps.Log, func() session.Options {
		return session.Options{DebounceWindow: deps.SaveDebounce}
	})

	client := &Client{
		Hub:     hub,
		Conn:    c,
		UserID:  userID,
		Send:    make(chan []byte, 256),
		manager: manager,
	}
	hub.register <- client

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go client.writePump()
	go forwardSummaries(ctx, client, deps)

	client.readPump(ctx)
}

// forwardSummaries streams the owner's summary list to the client, keeping
// the home screen live while a note is edited elsewhere.
func forwardSummaries(ctx context.Context, client *Client, deps Deps) {
	sub, err := deps.Store.SubscribeByOwner(ctx, client.UserID)
	if err != nil {
		deps.Log.Warn("Workspace", "Summary subscription failed", map[string]interface{}{"user_id": client.UserID, "error": err.Error()})
		return
	}
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case summaries, ok := <-sub.Summaries():
			if !ok {
				return
			}
			client.push(toSummariesMessage(summaries))
		}
	}
}

func toSummariesMessage(summaries []store.Summary) dto.SummariesMessage {
	msg := dto.SummariesMessage{
		Type:  dto.MessageTypeSummaries,
		Items: make([]dto.NoteSummaryResponse, 0, len(summaries)),
	}
	for _, s := range summaries {
		bg := s.Background
		msg.Items = append(msg.Items, dto.NoteSummaryResponse{
			Id:           s.Id,
			Title:        s.Title,
			TitleStyle:   s.TitleStyle,
			Background:   &bg,
			SectionCount: s.SectionCount,
			UpdatedAt:    s.UpdatedAt,
		})
	}
	return msg
}
