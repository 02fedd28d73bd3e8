package server

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mobile-next/fingers/recorder"
	"github.com/mobile-next/fingers/source"
	"github.com/mobile-next/fingers/surface"
	"github.com/mobile-next/fingers/touch"
	"github.com/mobile-next/fingers/types"
	"github.com/mobile-next/fingers/utils"
)

var ErrSessionNotFound = errors.New("session not found")

// trackedSession is one client's touch session. Frames for a session are
// processed one at a time.
type trackedSession struct {
	id string

	mu      sync.Mutex
	surface *surface.Surface
	session *touch.Session
	log     *recorder.Log
	closed  bool
}

func (ts *trackedSession) frame(ev source.RawEvent) (*types.FrameResult, error) {
	fr, err := source.Normalize(ev)
	if err != nil {
		return nil, invalidParams(err)
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.closed {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, ts.id)
	}

	event := surface.NewEvent(fr)
	if err := ts.surface.Dispatch(event); err != nil {
		// events of an aborted frame are not reported with the next one
		ts.log.Drain()
		err = fmt.Errorf("session %s: %w", ts.id, err)
		if errors.Is(err, touch.ErrUnknownContact) {
			return nil, invalidParams(err)
		}
		return nil, err
	}

	return &types.FrameResult{
		Events:           ts.log.Drain(),
		DefaultPrevented: event.DefaultPrevented(),
	}, nil
}

func (ts *trackedSession) state() *types.SessionState {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	return &types.SessionState{
		Main:  types.Snapshot(ts.session.MainHand()),
		Multi: types.Snapshot(ts.session.MultiHand()),
	}
}

func (ts *trackedSession) close() {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.closed {
		return
	}
	ts.closed = true
	ts.session.Close()
}

// Store keeps the most recently used sessions. The least recently used
// session is closed when the store is full.
type Store struct {
	cache *lru.Cache[string, *trackedSession]
}

func NewStore(size int) (*Store, error) {
	cache, err := lru.NewWithEvict[string, *trackedSession](size, func(id string, ts *trackedSession) {
		utils.Verbose("Closing session %s", id)
		ts.close()
	})
	if err != nil {
		return nil, err
	}
	return &Store{cache: cache}, nil
}

// Create opens a session whose surface bubbles to surface.Window.
func (st *Store) Create(arities []int) string {
	log := recorder.New(arities...)
	surf := surface.New(surface.Window)

	ts := &trackedSession{
		id:      uuid.NewString(),
		surface: surf,
		session: touch.NewSession(surf, log.Config()),
		log:     log,
	}

	st.cache.Add(ts.id, ts)
	utils.Verbose("Created session %s", ts.id)
	return ts.id
}

func (st *Store) get(id string) (*trackedSession, error) {
	ts, ok := st.cache.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return ts, nil
}

// Frame feeds a raw event to the session with the given id.
func (st *Store) Frame(id string, ev source.RawEvent) (*types.FrameResult, error) {
	ts, err := st.get(id)
	if err != nil {
		return nil, err
	}
	return ts.frame(ev)
}

func (st *Store) State(id string) (*types.SessionState, error) {
	ts, err := st.get(id)
	if err != nil {
		return nil, err
	}
	return ts.state(), nil
}

// Remove closes and forgets a session.
func (st *Store) Remove(id string) error {
	if !st.cache.Remove(id) {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return nil
}

func (st *Store) Len() int {
	return st.cache.Len()
}

// Purge closes every session.
func (st *Store) Purge() {
	st.cache.Purge()
}
