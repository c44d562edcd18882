package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"notescraft-be/internal/entity"
)

// MemoryStore is a DocumentStore held entirely in memory. It backs tests and
// local development; semantics match GormStore, including the
// snapshot-on-write echo to document subscribers.
type MemoryStore struct {
	mu    sync.Mutex
	notes map[uuid.UUID]entity.Note

	docSubs     map[uuid.UUID][]chan entity.Note
	summarySubs map[uuid.UUID][]chan []Summary

	updateCount int
	updateErr   error
	updateDelay time.Duration
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		notes:       make(map[uuid.UUID]entity.Note),
		docSubs:     make(map[uuid.UUID][]chan entity.Note),
		summarySubs: make(map[uuid.UUID][]chan []Summary),
	}
}

// FailUpdatesWith makes every subsequent Update return err until reset with
// nil. Used to simulate persist failures.
func (s *MemoryStore) FailUpdatesWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateErr = err
}

// SetUpdateDelay makes every subsequent Update take at least d, simulating
// a slow backend.
func (s *MemoryStore) SetUpdateDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateDelay = d
}

// UpdateCount reports how many Update calls reached the store.
func (s *MemoryStore) UpdateCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateCount
}

func (s *MemoryStore) Create(ctx context.Context, note entity.Note) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if note.Id == uuid.Nil {
		note.Id = uuid.New()
	}
	now := time.Now()
	note.CreatedAt = now
	note.UpdatedAt = now
	s.notes[note.Id] = note.Clone()
	s.broadcastSummariesLocked(note.UserId)
	return note.Id, nil
}

func (s *MemoryStore) Get(ctx context.Context, id uuid.UUID) (*entity.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	note, ok := s.notes[id]
	if !ok {
		return nil, nil
	}
	c := note.Clone()
	return &c, nil
}

func (s *MemoryStore) Update(ctx context.Context, id uuid.UUID, fields Fields) error {
	s.mu.Lock()
	delay := s.updateDelay
	s.mu.Unlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.updateCount++
	if s.updateErr != nil {
		return s.updateErr
	}

	note, ok := s.notes[id]
	if !ok {
		return fmt.Errorf("note %s not found", id)
	}

	for name, v := range fields {
		if v == Undefined {
			return fmt.Errorf("field %q is undefined; strip before updating", name)
		}
		switch name {
		case FieldTitle:
			note.Title = v.(string)
		case FieldTitleStyle:
			switch style := v.(type) {
			case *entity.TextStyle:
				note.TitleStyle = style
			case entity.TextStyle:
				note.TitleStyle = &style
			case nil:
				note.TitleStyle = nil
			}
		case FieldBackground:
			note.Background = v.(entity.Background)
		case FieldSections:
			note.Sections = v.([]entity.Section)
		default:
			return fmt.Errorf("unknown document field %q", name)
		}
	}
	note.UpdatedAt = time.Now()
	s.notes[id] = note.Clone()

	s.broadcastSnapshotLocked(note)
	s.broadcastSummariesLocked(note.UserId)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	note, ok := s.notes[id]
	if !ok {
		return nil
	}
	delete(s.notes, id)
	s.broadcastSummariesLocked(note.UserId)
	return nil
}

// Push overwrites the stored note and notifies subscribers, simulating a
// concurrent remote session's write.
func (s *MemoryStore) Push(note entity.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()

	note.UpdatedAt = time.Now()
	s.notes[note.Id] = note.Clone()
	s.broadcastSnapshotLocked(note)
	s.broadcastSummariesLocked(note.UserId)
}

func (s *MemoryStore) ListSummaries(ctx context.Context, ownerId uuid.UUID) ([]Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summariesLocked(ownerId), nil
}

type memorySubscription struct {
	once  sync.Once
	close func()
	out   chan entity.Note
}

func (m *memorySubscription) Snapshots() <-chan entity.Note { return m.out }
func (m *memorySubscription) Close()                        { m.once.Do(m.close) }

func (s *MemoryStore) SubscribeToDocument(ctx context.Context, id uuid.UUID) (Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	note, ok := s.notes[id]
	if !ok {
		return nil, fmt.Errorf("note %s not found", id)
	}

	ch := make(chan entity.Note, 16)
	ch <- note.Clone()
	s.docSubs[id] = append(s.docSubs[id], ch)

	sub := &memorySubscription{out: ch}
	sub.close = func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		subs := s.docSubs[id]
		for i, c := range subs {
			if c == ch {
				s.docSubs[id] = append(subs[:i], subs[i+1:]...)
				close(ch)
				break
			}
		}
	}
	return sub, nil
}

type memorySummarySubscription struct {
	once  sync.Once
	close func()
	out   chan []Summary
}

func (m *memorySummarySubscription) Summaries() <-chan []Summary { return m.out }
func (m *memorySummarySubscription) Close()                      { m.once.Do(m.close) }

func (s *MemoryStore) SubscribeByOwner(ctx context.Context, ownerId uuid.UUID) (SummarySubscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan []Summary, 16)
	ch <- s.summariesLocked(ownerId)
	s.summarySubs[ownerId] = append(s.summarySubs[ownerId], ch)

	sub := &memorySummarySubscription{out: ch}
	sub.close = func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		subs := s.summarySubs[ownerId]
		for i, c := range subs {
			if c == ch {
				s.summarySubs[ownerId] = append(subs[:i], subs[i+1:]...)
				close(ch)
				break
			}
		}
	}
	return sub, nil
}

func (s *MemoryStore) broadcastSnapshotLocked(note entity.Note) {
	for _, ch := range s.docSubs[note.Id] {
		select {
		case ch <- note.Clone():
		default:
			// Subscriber is not draining; drop rather than block the store.
		}
	}
}

func (s *MemoryStore) broadcastSummariesLocked(ownerId uuid.UUID) {
	if len(s.summarySubs[ownerId]) == 0 {
		return
	}
	summaries := s.summariesLocked(ownerId)
	for _, ch := range s.summarySubs[ownerId] {
		select {
		case ch <- summaries:
		default:
		}
	}
}

func (s *MemoryStore) summariesLocked(ownerId uuid.UUID) []Summary {
	summaries := make([]Summary, 0)
	for _, n := range s.notes {
		if n.UserId != ownerId {
			continue
		}
		summaries = append(summaries, Summary{
			Id:           n.Id,
			Title:        n.Title,
			TitleStyle:   n.TitleStyle,
			Background:   n.Background,
			SectionCount: len(n.Sections),
			UpdatedAt:    n.UpdatedAt,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries
}
