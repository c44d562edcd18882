package session

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"notescraft-be/internal/pkg/logger"
	"notescraft-be/internal/store"
)

var ErrNoteNotFound = errors.New("note not found")

// Manager holds the one open session of a connection. Opening a note closes
// the previous session first: its debounce timer is cancelled and its live
// subscription detached before the new one attaches, so a stale stream can
// never overwrite the next note's working copy.
type Manager struct {
	store  store.DocumentStore
	log    logger.ILogger
	window OptionsFn

	mu      sync.Mutex
	current *Session
}

// OptionsFn lets the manager stamp per-session options (debounce window,
// watcher) at open time.
type OptionsFn func() Options

func NewManager(docStore store.DocumentStore, log logger.ILogger, opts OptionsFn) *Manager {
	if opts == nil {
		opts = func() Options { return Options{} }
	}
	return &Manager{
		store:  docStore,
		log:    log,
		window: opts,
	}
}

// Open switches the connection to the given note. The previous session, if
// any, is fully closed before the new subscription attaches.
func (m *Manager) Open(ctx context.Context, noteId uuid.UUID, watcher Watcher) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		m.current.Close()
		m.current = nil
	}

	opts := m.window()
	opts.Watcher = watcher
	if opts.Logger == nil {
		opts.Logger = m.log
	}

	s, err := Open(ctx, m.store, noteId, opts)
	if err != nil {
		return nil, err
	}
	m.current = s
	return s, nil
}

// Current returns the open session, or nil.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Close closes the open session, if any.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		m.current.Close()
		m.current = nil
	}
}
