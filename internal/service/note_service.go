package service

import (
	"context"
	"errors"
	"fmt"

	"notescraft-be/internal/dto"
	"notescraft-be/internal/entity"
	"notescraft-be/internal/repository/specification"
	"notescraft-be/internal/repository/unitofwork"
	"notescraft-be/internal/store"
	"notescraft-be/pkg/events"
	pktNats "notescraft-be/pkg/nats"
	"notescraft-be/pkg/richtext"

	"github.com/google/uuid"
)

var ErrDeleteNotConfirmed = errors.New("delete requires confirmation")

type INoteService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.CreateNoteResponse, error)
	List(ctx context.Context, userId uuid.UUID) (*dto.ListNotesResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowNoteResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID, confirmed bool) error
	Search(ctx context.Context, userId uuid.UUID, query string) ([]*dto.SearchNoteResult, error)
	Export(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ExportNoteResponse, error)
}

// documentCatalog is the slice of the store the note service needs: document
// CRUD plus the summary projection.
type documentCatalog interface {
	store.DocumentStore
	ListSummaries(ctx context.Context, ownerId uuid.UUID) ([]store.Summary, error)
}

type noteService struct {
	uowFactory     unitofwork.RepositoryFactory
	docStore       documentCatalog
	renderer       *richtext.Renderer
	eventPublisher *pktNats.Publisher
}

func NewNoteService(
	uowFactory unitofwork.RepositoryFactory,
	docStore documentCatalog,
	eventPublisher *pktNats.Publisher,
) INoteService {
	return &noteService{
		uowFactory:     uowFactory,
		docStore:       docStore,
		renderer:       richtext.NewRenderer(),
		eventPublisher: eventPublisher,
	}
}

func (c *noteService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.CreateNoteResponse, error) {
	note := entity.NewDefaultNote(userId)
	if req.Title != "" {
		note.Title = req.Title
	}

	id, err := c.docStore.Create(ctx, note)
	if err != nil {
		return nil, err
	}

	if c.eventPublisher != nil {
		evt := events.NewNoteCreated(id, userId, note.Title)
		if err := c.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish NOTE_CREATED event: %v\n", err)
		}
	}

	return &dto.CreateNoteResponse{Id: id}, nil
}

func (c *noteService) List(ctx context.Context, userId uuid.UUID) (*dto.ListNotesResponse, error) {
	summaries, err := c.docStore.ListSummaries(ctx, userId)
	if err != nil {
		return nil, err
	}

	res := &dto.ListNotesResponse{Notes: make([]dto.NoteSummaryResponse, 0, len(summaries))}
	for _, s := range summaries {
		res.Notes = append(res.Notes, toSummaryResponse(s))
	}
	return res, nil
}

func (c *noteService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowNoteResponse, error) {
	note, err := c.findOwned(ctx, userId, id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, nil
	}
	return &dto.ShowNoteResponse{Note: *note}, nil
}

// Delete refuses to act unless the caller confirmed; removing a note
// destroys all of its sections and blocks.
func (c *noteService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID, confirmed bool) error {
	if !confirmed {
		return ErrDeleteNotConfirmed
	}

	note, err := c.findOwned(ctx, userId, id)
	if err != nil {
		return err
	}
	if note == nil {
		return errors.New("note not found")
	}

	if err := c.docStore.Delete(ctx, id); err != nil {
		return err
	}

	if c.eventPublisher != nil {
		evt := events.NewNoteDeleted(id, userId)
		if err := c.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish NOTE_DELETED event: %v\n", err)
		}
	}
	return nil
}

// Search is a literal, case-insensitive match over titles, section titles
// and block contents. Title hits come first, via the database; the rest of
// the owner's notes are scanned flattened.
func (c *noteService) Search(ctx context.Context, userId uuid.UUID, query string) ([]*dto.SearchNoteResult, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	repo := uow.NoteRepository()

	titleHits, err := repo.FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.TitleContains{Term: query},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]bool, len(titleHits))
	results := make([]*dto.SearchNoteResult, 0, len(titleHits))
	for _, note := range titleHits {
		seen[note.Id] = true
		results = append(results, &dto.SearchNoteResult{Id: note.Id, Title: note.Title})
	}

	rest, err := repo.FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	for _, note := range rest {
		if seen[note.Id] {
			continue
		}
		if richtext.Matches(*note, query) {
			results = append(results, &dto.SearchNoteResult{Id: note.Id, Title: note.Title})
		}
	}
	return results, nil
}

func (c *noteService) Export(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ExportNoteResponse, error) {
	note, err := c.findOwned(ctx, userId, id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, errors.New("note not found")
	}

	return &dto.ExportNoteResponse{
		Id:       id,
		Markdown: c.renderer.Render(*note),
	}, nil
}

func (c *noteService) findOwned(ctx context.Context, userId, id uuid.UUID) (*entity.Note, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	return uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: userId},
	)
}

func toSummaryResponse(s store.Summary) dto.NoteSummaryResponse {
	res := dto.NoteSummaryResponse{
		Id:           s.Id,
		Title:        s.Title,
		TitleStyle:   s.TitleStyle,
		SectionCount: s.SectionCount,
		UpdatedAt:    s.UpdatedAt,
	}
	bg := s.Background
	res.Background = &bg
	return res
}
