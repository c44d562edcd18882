package contract

import (
	"context"

	"github.com/google/uuid"

	"notescraft-be/internal/entity"
	"notescraft-be/internal/repository/specification"
)

type NoteRepository interface {
	Create(ctx context.Context, note *entity.Note) error
	Update(ctx context.Context, note *entity.Note) error
	// UpdateFields merges top-level columns only; values must already be
	// column-ready (JSON blobs for jsonb columns).
	UpdateFields(ctx context.Context, id uuid.UUID, values map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
