package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notescraft-be/internal/entity"
	"notescraft-be/internal/session"
	"notescraft-be/internal/store"
)

const testWindow = 40 * time.Millisecond

type recordingWatcher struct {
	mu       sync.Mutex
	statuses []session.State
	errs     []error
}

func (w *recordingWatcher) OnNote(entity.Note, string) {}

func (w *recordingWatcher) OnStatus(state session.State, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.statuses = append(w.statuses, state)
	w.errs = append(w.errs, err)
}

func (w *recordingWatcher) seen(state session.State) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, s := range w.statuses {
		if s == state {
			return true
		}
	}
	return false
}

func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func openTestSession(t *testing.T, opts session.Options) (*store.MemoryStore, *session.Session, uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	s := store.NewMemoryStore()
	id, err := s.Create(ctx, entity.NewDefaultNote(uuid.New()))
	require.NoError(t, err)

	if opts.DebounceWindow == 0 {
		opts.DebounceWindow = testWindow
	}
	sess, err := session.Open(ctx, s, id, opts)
	require.NoError(t, err)
	t.Cleanup(sess.Close)
	return s, sess, id
}

func TestOpenStartsClean(t *testing.T) {
	_, sess, _ := openTestSession(t, session.Options{})

	info := sess.Inspect()
	assert.Equal(t, session.StateClean, info.State)
	assert.Equal(t, info.Note.FirstSectionID(), info.SelectedSectionId)
	require.Len(t, info.Note.Sections, 1)
	assert.Equal(t, entity.DefaultSectionTitle, info.Note.Sections[0].Title)
}

func TestOpenUnknownNote(t *testing.T) {
	s := store.NewMemoryStore()
	_, err := session.Open(context.Background(), s, uuid.New(), session.Options{})
	assert.ErrorIs(t, err, session.ErrNoteNotFound)
}

func TestDebounceCoalescesBurstIntoOnePersist(t *testing.T) {
	s, sess, id := openTestSession(t, session.Options{})

	titles := []string{"T", "Tr", "Tri", "Trip", "Trip ", "Trip P", "Trip Pl", "Trip Pla", "Trip Plan"}
	for _, title := range titles {
		sess.SetTitle(title)
	}

	eventually(t, func() bool { return s.UpdateCount() > 0 }, "no persist happened")
	// Give a second window to catch extra writes that should not happen.
	time.Sleep(3 * testWindow)

	assert.Equal(t, 1, s.UpdateCount(), "burst of edits must coalesce into one persist")
	note, err := s.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Trip Plan", note.Title)
}

func TestEditedBlockContentIsPersisted(t *testing.T) {
	s, sess, id := openTestSession(t, session.Options{})

	info := sess.Inspect()
	secId := info.Note.FirstSectionID()

	sess.AddBlock(secId, entity.BlockTypeText, -1)
	info = sess.Inspect()
	blockId := info.Note.Sections[0].Content[0].Id
	sess.UpdateBlock(secId, blockId, entity.BlockPatch{Content: strPtr("Hello")})

	eventually(t, func() bool { return s.UpdateCount() > 0 }, "no persist happened")
	eventually(t, func() bool {
		note, _ := s.Get(context.Background(), id)
		return len(note.Sections[0].Content) == 1 && note.Sections[0].Content[0].Content == "Hello"
	}, "persisted document does not carry the block content")
}

func TestMoveSectionSwapsAdjacent(t *testing.T) {
	_, sess, _ := openTestSession(t, session.Options{})

	sess.AddSection("Second", -1)
	before := sess.Inspect().Note
	require.Len(t, before.Sections, 2)

	sess.MoveSection(0, 1)

	after := sess.Inspect().Note
	assert.Equal(t, before.Sections[1].Id, after.Sections[0].Id)
	assert.Equal(t, before.Sections[0].Id, after.Sections[1].Id)
}

func TestRemoveSelectedSectionReassignsSelection(t *testing.T) {
	_, sess, _ := openTestSession(t, session.Options{})

	sess.AddSection("Second", -1)
	info := sess.Inspect()
	require.Len(t, info.Note.Sections, 2)
	// AddSection selects the new section.
	assert.Equal(t, info.Note.Sections[1].Id, info.SelectedSectionId)

	sess.RemoveSection(info.SelectedSectionId)
	info = sess.Inspect()
	require.Len(t, info.Note.Sections, 1)
	assert.Equal(t, info.Note.Sections[0].Id, info.SelectedSectionId,
		"selection must move to the first remaining section")

	sess.RemoveSection(info.SelectedSectionId)
	info = sess.Inspect()
	assert.Empty(t, info.Note.Sections)
	assert.Empty(t, info.SelectedSectionId, "no sections left means no selection")
}

func TestPersistFailureEntersErrorAndRetriesOnNextMutation(t *testing.T) {
	watcher := &recordingWatcher{}
	s, sess, id := openTestSession(t, session.Options{Watcher: watcher})

	boom := errors.New("store unavailable")
	s.FailUpdatesWith(boom)

	sess.SetTitle("will fail")
	eventually(t, func() bool { return watcher.seen(session.StateError) }, "session never entered Error")
	assert.Equal(t, session.StateError, sess.Inspect().State)
	// The working copy is retained, not reverted.
	assert.Equal(t, "will fail", sess.Inspect().Note.Title)

	s.FailUpdatesWith(nil)
	// A single further mutation re-triggers the persist; no manual retry.
	sess.SetTitle("recovered")
	eventually(t, func() bool {
		note, _ := s.Get(context.Background(), id)
		return note.Title == "recovered"
	}, "mutation after Error did not re-persist")
	eventually(t, func() bool { return sess.Inspect().State == session.StateClean }, "session did not return to Clean")
}

func TestMutationWhileSavingQueuesFollowUpPersist(t *testing.T) {
	s, sess, id := openTestSession(t, session.Options{})
	s.SetUpdateDelay(4 * testWindow)

	sess.SetTitle("first")
	// Wait until the first persist is in flight, then mutate again.
	eventually(t, func() bool { return sess.Inspect().State == session.StateSaving }, "first persist never started")
	sess.SetTitle("second")

	// The late success of the first persist must not revert the newer
	// state; the follow-up persist carries it once its window elapses.
	eventually(t, func() bool {
		note, _ := s.Get(context.Background(), id)
		return note.Title == "second"
	}, "superseding state never persisted")
	eventually(t, func() bool { return sess.Inspect().State == session.StateClean }, "session did not settle Clean")
	assert.Equal(t, "second", sess.Inspect().Note.Title)
	assert.Equal(t, 2, s.UpdateCount())
}

func TestRemoteSnapshotOverwritesWorkingCopy(t *testing.T) {
	s, sess, id := openTestSession(t, session.Options{})

	note, err := s.Get(context.Background(), id)
	require.NoError(t, err)
	remote := note.WithTitle("edited elsewhere").
		WithBackground(entity.Background{Type: entity.BackgroundGradient, Value: "linear-gradient(135deg, #667eea 0%, #764ba2 100%)"})
	s.Push(remote)

	eventually(t, func() bool {
		info := sess.Inspect()
		return info.Note.Title == "edited elsewhere" && info.Note.Background.Type == entity.BackgroundGradient
	}, "remote snapshot did not overwrite the working copy")
}

func TestRemoteSectionRemovalReassignsSelection(t *testing.T) {
	s, sess, id := openTestSession(t, session.Options{})

	info := sess.Inspect()
	selected := info.SelectedSectionId

	note, err := s.Get(context.Background(), id)
	require.NoError(t, err)
	remote := note.WithSectionAdded(entity.NewSection("Remote"), -1).WithSectionRemoved(selected)
	s.Push(remote)

	eventually(t, func() bool {
		info := sess.Inspect()
		return len(info.Note.Sections) == 1 && info.SelectedSectionId == info.Note.Sections[0].Id
	}, "selection not reassigned after remote removal")
}

func TestSelectSectionDoesNotPersist(t *testing.T) {
	s, sess, _ := openTestSession(t, session.Options{})

	sess.AddSection("Second", -1)
	eventually(t, func() bool { return s.UpdateCount() == 1 }, "structural edit not persisted")

	first := sess.Inspect().Note.FirstSectionID()
	sess.SelectSection(first)
	assert.Equal(t, first, sess.Inspect().SelectedSectionId)

	time.Sleep(3 * testWindow)
	assert.Equal(t, 1, s.UpdateCount(), "selection must never schedule a persist")
}

func TestCloseCancelsPendingDebounce(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	id, err := s.Create(ctx, entity.NewDefaultNote(uuid.New()))
	require.NoError(t, err)

	sess, err := session.Open(ctx, s, id, session.Options{DebounceWindow: 300 * time.Millisecond})
	require.NoError(t, err)

	sess.SetTitle("never saved")
	sess.Close()

	time.Sleep(500 * time.Millisecond)
	assert.Equal(t, 0, s.UpdateCount(), "closed session must not fire its pending persist")
}

func TestManagerSwitchDetachesPreviousNote(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	owner := uuid.New()
	first, err := s.Create(ctx, entity.NewDefaultNote(owner))
	require.NoError(t, err)
	second, err := s.Create(ctx, entity.NewDefaultNote(owner))
	require.NoError(t, err)

	m := session.NewManager(s, nil, func() session.Options {
		return session.Options{DebounceWindow: 300 * time.Millisecond}
	})
	defer m.Close()

	sessA, err := m.Open(ctx, first, session.NopWatcher{})
	require.NoError(t, err)
	sessA.SetTitle("about to be abandoned")

	sessB, err := m.Open(ctx, second, session.NopWatcher{})
	require.NoError(t, err)

	select {
	case <-sessA.Done():
	case <-time.After(time.Second):
		t.Fatal("previous session not closed on switch")
	}
	assert.Same(t, sessB, m.Current())

	// The abandoned debounce never fires, and a remote push to the first
	// note must not leak into the second note's working copy.
	note, _ := s.Get(ctx, first)
	s.Push(note.WithTitle("stale"))
	time.Sleep(500 * time.Millisecond)
	assert.Equal(t, 0, s.UpdateCount())
	assert.Equal(t, entity.DefaultTitle, sessB.Inspect().Note.Title)
}

func strPtr(s string) *string { return &s }
