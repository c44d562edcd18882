package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"notescraft-be/internal/entity"
	"notescraft-be/internal/pkg/logger"
	"notescraft-be/internal/store"
)

// State is the save pipeline state of an open note.
type State string

const (
	// StateClean: working copy equals the last persisted copy.
	StateClean State = "clean"
	// StateDirty: local mutations applied since the last persist attempt.
	StateDirty State = "dirty"
	// StateSaving: a persist request is in flight.
	StateSaving State = "saving"
	// StateError: the last persist failed; the working copy is retained and
	// the next mutation or armed timer retries.
	StateError State = "error"
)

// DefaultDebounceWindow bounds write amplification under rapid typing while
// keeping staleness to about one window.
const DefaultDebounceWindow = time.Second

// Watcher receives the session's outbound updates. Both methods are invoked
// from the session's own goroutine and must not block for long.
type Watcher interface {
	// OnNote is called with the working copy after every applied mutation
	// and after every remote snapshot.
	OnNote(note entity.Note, selectedSectionId string)
	// OnStatus is called on every save-state transition. err is non-nil
	// only for StateError.
	OnStatus(state State, err error)
}

// NopWatcher ignores all updates.
type NopWatcher struct{}

func (NopWatcher) OnNote(entity.Note, string) {}
func (NopWatcher) OnStatus(State, error)      {}

// Options configures a session.
type Options struct {
	DebounceWindow time.Duration
	Watcher        Watcher
	Logger         logger.ILogger
}

type command struct {
	apply func()
	dirty bool
}

type persistResult struct {
	seq uint64
	err error
}

// Info is a consistent view of the session, taken on its goroutine.
type Info struct {
	Note              entity.Note
	SelectedSectionId string
	State             State
}

// Session is the single authority for the note currently open on one
// connection: it holds the working copy, applies every mutation through the
// pure note operations, and owns the debounce-and-persist pipeline against
// the document store. All session state lives on one goroutine; public
// methods only enqueue work, so mutation, timer and reconciliation logic
// never run concurrently with each other.
type Session struct {
	noteId  uuid.UUID
	store   store.DocumentStore
	sub     store.Subscription
	watcher Watcher
	log     logger.ILogger
	window  time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	cmds    chan command
	results chan persistResult
	closed  chan struct{}

	// Owned by the run loop.
	note      entity.Note
	selected  string
	state     State
	seq       uint64
	inFlight  bool
	timer     *time.Timer
	timerC    <-chan time.Time
	snapshots <-chan entity.Note
}

// Open loads the note, attaches its live subscription and starts the
// session loop. The session starts Clean with the first section selected.
func Open(ctx context.Context, docStore store.DocumentStore, noteId uuid.UUID, opts Options) (*Session, error) {
	if opts.DebounceWindow <= 0 {
		opts.DebounceWindow = DefaultDebounceWindow
	}
	if opts.Watcher == nil {
		opts.Watcher = NopWatcher{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.NopLogger{}
	}

	note, err := docStore.Get(ctx, noteId)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}

	sub, err := docStore.SubscribeToDocument(ctx, noteId)
	if err != nil {
		return nil, err
	}

	sessCtx, cancel := context.WithCancel(ctx)
	s := &Session{
		noteId:    noteId,
		store:     docStore,
		sub:       sub,
		watcher:   opts.Watcher,
		log:       opts.Logger,
		window:    opts.DebounceWindow,
		ctx:       sessCtx,
		cancel:    cancel,
		cmds:      make(chan command, 64),
		results:   make(chan persistResult, 1),
		closed:    make(chan struct{}),
		note:      note.Clone(),
		selected:  note.FirstSectionID(),
		state:     StateClean,
		snapshots: sub.Snapshots(),
	}
	go s.run()
	return s, nil
}

// NoteId returns the id of the note this session owns.
func (s *Session) NoteId() uuid.UUID { return s.noteId }

// Close cancels the pending debounce timer, detaches the live subscription
// and stops the loop. An in-flight persist is left to finish on its own; its
// result is discarded. Close is idempotent and returns once the loop exited.
func (s *Session) Close() {
	s.cancel()
	<-s.closed
}

// Done is closed when the session loop has exited.
func (s *Session) Done() <-chan struct{} { return s.closed }

func (s *Session) run() {
	defer close(s.closed)
	defer s.sub.Close()
	defer s.stopTimer()

	// The subscription fires once immediately with current state; the
	// working copy was loaded from the same store, so the first snapshot is
	// just the echo of what we already hold.
	for {
		select {
		case <-s.ctx.Done():
			return

		case cmd := <-s.cmds:
			s.handleCommand(cmd)

		case <-s.timerC:
			s.timerC = nil
			s.beginPersist()

		case res := <-s.results:
			s.finishPersist(res)

		case remote, ok := <-s.snapshots:
			if !ok {
				// Subscription failure: treat as no update received.
				s.snapshots = nil
				s.log.Warn("Session", "Live subscription closed", map[string]interface{}{"note_id": s.noteId})
				continue
			}
			s.reconcile(remote)
		}
	}
}

func (s *Session) handleCommand(cmd command) {
	cmd.apply()
	if !cmd.dirty {
		return
	}
	s.seq++
	switch s.state {
	case StateClean, StateError:
		s.setState(StateDirty, nil)
	case StateSaving:
		// Keep Saving; the armed timer queues a follow-up persist.
	}
	s.armTimer()
	s.watcher.OnNote(s.note.Clone(), s.selected)
}

func (s *Session) armTimer() {
	if s.timer == nil {
		s.timer = time.NewTimer(s.window)
		s.timerC = s.timer.C
		return
	}
	if !s.timer.Stop() && s.timerC != nil {
		select {
		case <-s.timer.C:
		default:
		}
	}
	s.timer.Reset(s.window)
	s.timerC = s.timer.C
}

func (s *Session) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timerC = nil
}

func (s *Session) beginPersist() {
	if s.inFlight {
		// Only one persist per note at a time; try again a window later.
		s.armTimer()
		return
	}
	s.inFlight = true
	seq := s.seq
	snapshot := s.note.Clone()
	s.setState(StateSaving, nil)

	go func() {
		fields := store.StripUndefined(store.NoteFields(snapshot))
		err := s.store.Update(s.ctx, s.noteId, fields)
		select {
		case s.results <- persistResult{seq: seq, err: err}:
		case <-s.ctx.Done():
		}
	}()
}

func (s *Session) finishPersist(res persistResult) {
	s.inFlight = false
	if res.err != nil {
		s.log.Warn("Session", "Persist failed", map[string]interface{}{"error": res.err.Error(), "note_id": s.noteId})
		s.setState(StateError, res.err)
		return
	}
	if res.seq == s.seq {
		s.setState(StateClean, nil)
		return
	}
	// Newer local mutations arrived while the request was in flight; the
	// working copy is never reverted by a late success. The re-armed timer
	// will persist the superseding state.
	s.setState(StateDirty, nil)
}

// reconcile applies a canonical snapshot from the store: remote overwrites
// the working copy's model fields wholesale, last write wins, no field-level
// merge. The note id, owner and creation time are immutable and kept.
//
// Snapshots arriving while local edits are pending are dropped. The store
// echoes every write back to subscribers, so a session's own persist (or a
// concurrent writer's) would otherwise revert edits that are about to
// overwrite the store anyway.
func (s *Session) reconcile(remote entity.Note) {
	if s.state == StateDirty || s.state == StateSaving {
		return
	}
	remote = remote.Clone()
	s.note.Title = remote.Title
	s.note.TitleStyle = remote.TitleStyle
	s.note.Background = remote.Background
	s.note.Sections = remote.Sections
	s.note.UpdatedAt = remote.UpdatedAt

	if _, ok := s.note.SectionByID(s.selected); !ok {
		s.selected = s.note.FirstSectionID()
	}

	// The remote copy is now the working copy; a failed persist no longer
	// has anything to retry.
	if s.state == StateError {
		s.setState(StateClean, nil)
	}
	s.watcher.OnNote(s.note.Clone(), s.selected)
}

func (s *Session) setState(state State, err error) {
	if s.state == state && err == nil {
		return
	}
	s.state = state
	s.watcher.OnStatus(state, err)
}

func (s *Session) enqueue(dirty bool, apply func()) {
	select {
	case s.cmds <- command{apply: apply, dirty: dirty}:
	case <-s.ctx.Done():
	}
}

// Inspect returns a consistent view of the working copy, selection and save
// state, taken on the session goroutine.
func (s *Session) Inspect() Info {
	reply := make(chan Info, 1)
	s.enqueue(false, func() {
		reply <- Info{Note: s.note.Clone(), SelectedSectionId: s.selected, State: s.state}
	})
	select {
	case info := <-reply:
		return info
	case <-s.ctx.Done():
		return Info{}
	}
}

// Mutation API. Every operation applies a pure note operation to the
// working copy and schedules a persist; none performs synchronous I/O and
// none reports failure to the caller. Out-of-bounds indexes and unknown ids
// are absorbed as no-ops by the pure operations.

func (s *Session) SetTitle(title string) {
	s.enqueue(true, func() { s.note = s.note.WithTitle(title) })
}

func (s *Session) SetTitleStyle(patch *entity.TextStylePatch) {
	s.enqueue(true, func() { s.note = s.note.WithTitleStyle(patch) })
}

func (s *Session) SetBackground(bg entity.Background) {
	s.enqueue(true, func() { s.note = s.note.WithBackground(bg) })
}

// AddSection inserts a fresh section (at the end when atIndex is negative)
// and selects it.
func (s *Session) AddSection(title string, atIndex int) {
	s.enqueue(true, func() {
		sec := entity.NewSection(title)
		s.note = s.note.WithSectionAdded(sec, atIndex)
		s.selected = sec.Id
	})
}

func (s *Session) MoveSection(index, direction int) {
	s.enqueue(true, func() { s.note = s.note.WithSectionMoved(index, direction) })
}

func (s *Session) UpdateSection(sectionId string, patch entity.SectionPatch) {
	s.enqueue(true, func() { s.note = s.note.WithSectionUpdated(sectionId, patch) })
}

// RemoveSection deletes the section. When the removed section was selected,
// selection moves to the first remaining section, or to none. The caller
// must have obtained explicit user confirmation; the session does not ask.
func (s *Session) RemoveSection(sectionId string) {
	s.enqueue(true, func() {
		s.note = s.note.WithSectionRemoved(sectionId)
		if s.selected == sectionId {
			s.selected = s.note.FirstSectionID()
		}
	})
}

// SelectSection is presentation state only: it never dirties the note and
// never schedules a persist.
func (s *Session) SelectSection(sectionId string) {
	s.enqueue(false, func() {
		if _, ok := s.note.SectionByID(sectionId); ok {
			s.selected = sectionId
			s.watcher.OnNote(s.note.Clone(), s.selected)
		}
	})
}

func (s *Session) AddBlock(sectionId string, blockType entity.BlockType, atIndex int) {
	s.enqueue(true, func() {
		s.note = s.note.WithBlockAdded(sectionId, entity.NewBlock(blockType), atIndex)
	})
}

func (s *Session) MoveBlock(sectionId string, index, direction int) {
	s.enqueue(true, func() { s.note = s.note.WithBlockMoved(sectionId, index, direction) })
}

func (s *Session) UpdateBlock(sectionId, blockId string, patch entity.BlockPatch) {
	s.enqueue(true, func() { s.note = s.note.WithBlockUpdated(sectionId, blockId, patch) })
}

// RemoveBlock deletes the block. Same confirmation contract as
// RemoveSection.
func (s *Session) RemoveBlock(sectionId, blockId string) {
	s.enqueue(true, func() { s.note = s.note.WithBlockRemoved(sectionId, blockId) })
}
