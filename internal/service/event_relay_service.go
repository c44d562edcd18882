package service

import (
	"context"
	"strings"

	"notescraft-be/internal/dto"
	"notescraft-be/internal/pkg/logger"
	"notescraft-be/internal/websocket"
	"notescraft-be/pkg/events"
	pktNats "notescraft-be/pkg/nats"

	"github.com/google/uuid"
)

type IEventRelayService interface {
	Start()
}

// eventRelayService bridges the NATS event stream to connected websocket
// clients: a note created or deleted on one instance refreshes the owner's
// devices everywhere.
type eventRelayService struct {
	subscriber *pktNats.Subscriber
	hub        *websocket.Hub
	logger     logger.ILogger
}

func NewEventRelayService(subscriber *pktNats.Subscriber, hub *websocket.Hub, log logger.ILogger) IEventRelayService {
	return &eventRelayService{
		subscriber: subscriber,
		hub:        hub,
		logger:     log,
	}
}

func (s *eventRelayService) Start() {
	err := s.subscriber.Subscribe("events.>", "workspace-relay", s.handle)
	if err != nil {
		s.logger.Error("EventRelay", "Failed to subscribe", map[string]interface{}{"error": err.Error()})
	}
}

func (s *eventRelayService) handle(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	rawUserId, ok := payload["user_id"].(string)
	if !ok {
		// Events without an owner have no websocket audience.
		return nil
	}
	userId, err := uuid.Parse(rawUserId)
	if err != nil {
		return nil
	}

	// The subject arrives as events.<TYPE>; relay only the type code.
	eventType := strings.TrimPrefix(event.EventType(), "events.")

	s.hub.SendToUser(userId, dto.EventMessage{
		Type:  dto.MessageTypeEvent,
		Event: eventType,
		Data:  payload,
	})
	return nil
}
