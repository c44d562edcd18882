package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"notescraft-be/internal/entity"
	"notescraft-be/internal/pkg/logger"
	"notescraft-be/internal/repository/specification"
	"notescraft-be/internal/repository/unitofwork"
)

const (
	summaryCacheTTL     = 5 * time.Minute
	summaryCachePurge   = 10 * time.Minute
	snapshotTopicPrefix = "note.snapshot."
	summaryTopicPrefix  = "note.summary."
)

// GormStore is the database-backed DocumentStore. Live subscriptions are
// fanned out over an in-process watermill bus: every successful write
// publishes the canonical snapshot to the note's topic and the refreshed
// summary list to the owner's topic.
type GormStore struct {
	uowFactory unitofwork.RepositoryFactory
	bus        *gochannel.GoChannel
	summaries  *cache.Cache
	log        logger.ILogger
}

func NewGormStore(uowFactory unitofwork.RepositoryFactory, bus *gochannel.GoChannel, log logger.ILogger) *GormStore {
	return &GormStore{
		uowFactory: uowFactory,
		bus:        bus,
		summaries:  cache.New(summaryCacheTTL, summaryCachePurge),
		log:        log,
	}
}

func snapshotTopic(id uuid.UUID) string {
	return snapshotTopicPrefix + id.String()
}

func summaryTopic(ownerId uuid.UUID) string {
	return summaryTopicPrefix + ownerId.String()
}

func (s *GormStore) Create(ctx context.Context, note entity.Note) (uuid.UUID, error) {
	if note.Id == uuid.Nil {
		note.Id = uuid.New()
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NoteRepository().Create(ctx, &note); err != nil {
		return uuid.Nil, err
	}

	s.summaries.Delete(note.UserId.String())
	s.publishSummaries(ctx, note.UserId)
	return note.Id, nil
}

func (s *GormStore) Get(ctx context.Context, id uuid.UUID) (*entity.Note, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NoteRepository().FindOne(ctx, specification.ByID{ID: id})
}

// Update merges the given top-level fields into the stored document. The
// payload must already be free of Undefined values (StripUndefined); a
// sentinel reaching this point is a programming error.
func (s *GormStore) Update(ctx context.Context, id uuid.UUID, fields Fields) error {
	values := make(map[string]interface{}, len(fields)+1)
	for name, v := range fields {
		if v == Undefined {
			return fmt.Errorf("field %q is undefined; strip before updating", name)
		}
		switch name {
		case FieldTitle:
			values["title"] = v
		case FieldTitleStyle, FieldBackground, FieldSections:
			raw, err := json.Marshal(v)
			if err != nil {
				return err
			}
			values[columnFor(name)] = raw
		default:
			return fmt.Errorf("unknown document field %q", name)
		}
	}
	// Last-modified is server-set, never taken from the payload.
	values["updated_at"] = time.Now()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NoteRepository().UpdateFields(ctx, id, values); err != nil {
		return err
	}

	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil || note == nil {
		return err
	}
	s.summaries.Delete(note.UserId.String())
	s.publishSnapshot(*note)
	s.publishSummaries(ctx, note.UserId)
	return nil
}

func columnFor(field string) string {
	switch field {
	case FieldTitleStyle:
		return "title_style"
	case FieldBackground:
		return "background"
	case FieldSections:
		return "sections"
	}
	return field
}

func (s *GormStore) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if note == nil {
		return nil
	}
	if err := uow.NoteRepository().Delete(ctx, id); err != nil {
		return err
	}
	s.summaries.Delete(note.UserId.String())
	s.publishSummaries(ctx, note.UserId)
	return nil
}

func (s *GormStore) publishSnapshot(note entity.Note) {
	data, err := json.Marshal(note)
	if err != nil {
		s.log.Error("DocumentStore", "Failed to marshal snapshot", map[string]interface{}{"error": err.Error(), "note_id": note.Id})
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	if err := s.bus.Publish(snapshotTopic(note.Id), msg); err != nil {
		s.log.Error("DocumentStore", "Failed to publish snapshot", map[string]interface{}{"error": err.Error(), "note_id": note.Id})
	}
}

func (s *GormStore) publishSummaries(ctx context.Context, ownerId uuid.UUID) {
	summaries, err := s.summariesFor(ctx, ownerId)
	if err != nil {
		s.log.Error("DocumentStore", "Failed to load summaries", map[string]interface{}{"error": err.Error(), "owner_id": ownerId})
		return
	}
	data, err := json.Marshal(summaries)
	if err != nil {
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	if err := s.bus.Publish(summaryTopic(ownerId), msg); err != nil {
		s.log.Error("DocumentStore", "Failed to publish summaries", map[string]interface{}{"error": err.Error(), "owner_id": ownerId})
	}
}

// summariesFor returns the owner's note summaries, newest first, from cache
// when warm.
func (s *GormStore) summariesFor(ctx context.Context, ownerId uuid.UUID) ([]Summary, error) {
	if cached, found := s.summaries.Get(ownerId.String()); found {
		return cached.([]Summary), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	notes, err := uow.NoteRepository().FindAll(ctx,
		specification.OwnedBy{UserID: ownerId},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, len(notes))
	for i, n := range notes {
		summaries[i] = Summary{
			Id:           n.Id,
			Title:        n.Title,
			TitleStyle:   n.TitleStyle,
			Background:   n.Background,
			SectionCount: len(n.Sections),
			UpdatedAt:    n.UpdatedAt,
		}
	}
	s.summaries.Set(ownerId.String(), summaries, cache.DefaultExpiration)
	return summaries, nil
}

// ListSummaries exposes the owner projection to the REST home screen.
func (s *GormStore) ListSummaries(ctx context.Context, ownerId uuid.UUID) ([]Summary, error) {
	return s.summariesFor(ctx, ownerId)
}

type busSubscription struct {
	out    chan entity.Note
	cancel context.CancelFunc
}

func (s *busSubscription) Snapshots() <-chan entity.Note { return s.out }
func (s *busSubscription) Close()                        { s.cancel() }

// SubscribeToDocument streams full snapshots of one note. The current state
// is delivered immediately, then every remote change follows.
func (s *GormStore) SubscribeToDocument(ctx context.Context, id uuid.UUID) (Subscription, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("note %s not found", id)
	}

	subCtx, cancel := context.WithCancel(ctx)
	msgs, err := s.bus.Subscribe(subCtx, snapshotTopic(id))
	if err != nil {
		cancel()
		return nil, err
	}

	sub := &busSubscription{out: make(chan entity.Note, 8), cancel: cancel}
	go func() {
		defer close(sub.out)
		sub.out <- *current
		for msg := range msgs {
			var note entity.Note
			if err := json.Unmarshal(msg.Payload, &note); err != nil {
				s.log.Warn("DocumentStore", "Dropping malformed snapshot", map[string]interface{}{"error": err.Error(), "note_id": id})
				msg.Ack()
				continue
			}
			msg.Ack()
			select {
			case sub.out <- note:
			case <-subCtx.Done():
				return
			}
		}
	}()
	return sub, nil
}

type summarySubscription struct {
	out    chan []Summary
	cancel context.CancelFunc
}

func (s *summarySubscription) Summaries() <-chan []Summary { return s.out }
func (s *summarySubscription) Close()                      { s.cancel() }

// SubscribeByOwner streams the owner's full summary list, current state
// first.
func (s *GormStore) SubscribeByOwner(ctx context.Context, ownerId uuid.UUID) (SummarySubscription, error) {
	current, err := s.summariesFor(ctx, ownerId)
	if err != nil {
		return nil, err
	}

	subCtx, cancel := context.WithCancel(ctx)
	msgs, err := s.bus.Subscribe(subCtx, summaryTopic(ownerId))
	if err != nil {
		cancel()
		return nil, err
	}

	sub := &summarySubscription{out: make(chan []Summary, 8), cancel: cancel}
	go func() {
		defer close(sub.out)
		sub.out <- current
		for msg := range msgs {
			var summaries []Summary
			if err := json.Unmarshal(msg.Payload, &summaries); err != nil {
				msg.Ack()
				continue
			}
			msg.Ack()
			select {
			case sub.out <- summaries:
			case <-subCtx.Done():
				return
			}
		}
	}()
	return sub, nil
}
