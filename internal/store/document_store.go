package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"notescraft-be/internal/entity"
)

// Summary is the per-note projection the home screen renders as a card.
type Summary struct {
	Id           uuid.UUID         `json:"id"`
	Title        string            `json:"title"`
	TitleStyle   *entity.TextStyle `json:"titleStyle,omitempty"`
	Background   entity.Background `json:"background"`
	SectionCount int               `json:"sectionCount"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// Subscription is a live stream of full note snapshots. Snapshots fires once
// immediately with the current state, then on every remote change. Close
// detaches the stream; the channel is closed afterwards.
type Subscription interface {
	Snapshots() <-chan entity.Note
	Close()
}

// SummarySubscription streams the full summary list for one owner.
type SummarySubscription interface {
	Summaries() <-chan []Summary
	Close()
}

// DocumentStore is the persistence collaborator for notes. Update merges
// top-level fields only; nested values such as the sections array are
// opaque blobs to the store and are always written whole.
type DocumentStore interface {
	Create(ctx context.Context, note entity.Note) (uuid.UUID, error)
	Get(ctx context.Context, id uuid.UUID) (*entity.Note, error)
	Update(ctx context.Context, id uuid.UUID, fields Fields) error
	Delete(ctx context.Context, id uuid.UUID) error

	SubscribeToDocument(ctx context.Context, id uuid.UUID) (Subscription, error)
	SubscribeByOwner(ctx context.Context, ownerId uuid.UUID) (SummarySubscription, error)
}
