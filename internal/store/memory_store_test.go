package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notescraft-be/internal/entity"
)

func uuidNew(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.New()
}

func waitSnapshot(t *testing.T, sub Subscription) entity.Note {
	t.Helper()
	select {
	case n, ok := <-sub.Snapshots():
		require.True(t, ok, "subscription closed unexpectedly")
		return n
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
		return entity.Note{}
	}
}

func TestPersistRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	owner := uuid.New()

	id, err := s.Create(ctx, entity.NewDefaultNote(owner))
	require.NoError(t, err)

	note, err := s.Get(ctx, id)
	require.NoError(t, err)

	working := note.WithTitle("Trip Plan")
	working = working.WithBlockAdded(working.FirstSectionID(), entity.NewBlock(entity.BlockTypeText), -1)
	require.NoError(t, s.Update(ctx, id, NoteFields(working)))

	sub, err := s.SubscribeToDocument(ctx, id)
	require.NoError(t, err)
	defer sub.Close()

	got := waitSnapshot(t, sub)
	assert.Equal(t, "Trip Plan", got.Title)
	assert.Equal(t, working.Background, got.Background)
	assert.Equal(t, working.Sections, got.Sections)
}

func TestSubscribeToDocumentFiresImmediatelyThenOnChange(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	owner := uuid.New()

	id, err := s.Create(ctx, entity.NewDefaultNote(owner))
	require.NoError(t, err)

	sub, err := s.SubscribeToDocument(ctx, id)
	require.NoError(t, err)
	defer sub.Close()

	first := waitSnapshot(t, sub)
	assert.Equal(t, entity.DefaultTitle, first.Title)

	note, _ := s.Get(ctx, id)
	require.NoError(t, s.Update(ctx, id, NoteFields(note.WithTitle("Changed"))))

	second := waitSnapshot(t, sub)
	assert.Equal(t, "Changed", second.Title)
}

func TestUpdateRejectsUndefined(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	id, err := s.Create(ctx, entity.NewDefaultNote(uuid.New()))
	require.NoError(t, err)

	err = s.Update(ctx, id, Fields{FieldTitle: Undefined})
	assert.Error(t, err)
}

func TestFailUpdatesWith(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	id, err := s.Create(ctx, entity.NewDefaultNote(uuid.New()))
	require.NoError(t, err)

	boom := errors.New("store unavailable")
	s.FailUpdatesWith(boom)
	err = s.Update(ctx, id, Fields{FieldTitle: "x"})
	assert.ErrorIs(t, err, boom)

	s.FailUpdatesWith(nil)
	assert.NoError(t, s.Update(ctx, id, Fields{FieldTitle: "x"}))
	assert.Equal(t, 2, s.UpdateCount())
}

func TestSubscribeByOwnerSummaries(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	owner := uuid.New()
	other := uuid.New()

	_, err := s.Create(ctx, entity.NewDefaultNote(owner))
	require.NoError(t, err)
	_, err = s.Create(ctx, entity.NewDefaultNote(other))
	require.NoError(t, err)

	sub, err := s.SubscribeByOwner(ctx, owner)
	require.NoError(t, err)
	defer sub.Close()

	select {
	case summaries := <-sub.Summaries():
		require.Len(t, summaries, 1)
		assert.Equal(t, entity.DefaultTitle, summaries[0].Title)
		assert.Equal(t, 1, summaries[0].SectionCount)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for summaries")
	}

	// A second note for the owner refreshes the stream.
	_, err = s.Create(ctx, entity.NewDefaultNote(owner))
	require.NoError(t, err)

	select {
	case summaries := <-sub.Summaries():
		assert.Len(t, summaries, 2)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for refreshed summaries")
	}
}
