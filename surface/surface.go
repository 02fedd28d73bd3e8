// Package surface delivers normalized touch frames to bound listeners.
// Surfaces form a chain: an event dispatched on a surface runs the
// surface's own listeners and then bubbles to its parent, ending at Window.
package surface

import (
	"sync"

	"github.com/mobile-next/fingers/touch"
)

// Event wraps a frame while it travels through the surface chain.
type Event struct {
	Frame     touch.Frame
	prevented bool
}

func NewEvent(fr touch.Frame) *Event {
	return &Event{Frame: fr}
}

// PreventDefault marks the platform's default handling (scrolling,
// overscroll bounce) as suppressed for this event.
func (e *Event) PreventDefault() {
	e.prevented = true
}

func (e *Event) DefaultPrevented() bool {
	return e.prevented
}

// Listener receives events dispatched on a surface.
type Listener func(e *Event) error

type Surface struct {
	parent *Surface

	mu      sync.Mutex
	entries []*entry
}

type entry struct {
	fn Listener
}

// Window is the process-wide root surface.
var Window = New(nil)

// New creates a surface whose events bubble to parent. A nil parent makes
// a root surface.
func New(parent *Surface) *Surface {
	return &Surface{parent: parent}
}

// Intercept attaches fn and returns the handle that detaches it.
func (s *Surface) Intercept(fn Listener) *Binding {
	e := &entry{fn: fn}

	s.mu.Lock()
	s.entries = append(s.entries, e)
	s.mu.Unlock()

	return &Binding{surface: s, entry: e}
}

// Bind attaches a frame handler, satisfying touch.Target.
func (s *Surface) Bind(h touch.Handler) touch.Unbinder {
	return s.Intercept(func(e *Event) error {
		return h(e.Frame)
	})
}

// Dispatch runs the surface's listeners in attach order and then bubbles
// to the parent. The first error stops propagation.
func (s *Surface) Dispatch(e *Event) error {
	s.mu.Lock()
	entries := make([]*entry, len(s.entries))
	copy(entries, s.entries)
	s.mu.Unlock()

	for _, en := range entries {
		if err := en.fn(e); err != nil {
			return err
		}
	}

	if s.parent != nil {
		return s.parent.Dispatch(e)
	}
	return nil
}

// Listeners returns the number of listeners currently attached.
func (s *Surface) Listeners() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Surface) remove(e *entry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, en := range s.entries {
		if en == e {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Binding is the handle returned by Intercept and Bind. It carries what is
// needed to detach its own listener.
type Binding struct {
	surface *Surface
	entry   *entry
}

// Unbind detaches the listener. Calling it again is a no-op.
func (b *Binding) Unbind() {
	b.surface.remove(b.entry)
}
