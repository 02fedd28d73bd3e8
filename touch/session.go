package touch

import (
	"fmt"

	"github.com/mobile-next/fingers/utils"
)

// Session routes frames to a persistent main hand, which holds one Finger per
// contact for the contact's lifetime, and to a transient multi hand that is
// rebuilt whenever a contact starts or ends.
//
// A Session is not safe for concurrent use.
type Session struct {
	cfg     Config
	main    *Hand
	multi   *Hand
	binding Unbinder
}

// NewSession creates a session and, if target is non-nil, binds it so that
// every frame the target delivers is passed to Handle.
func NewSession(target Target, cfg Config) *Session {
	s := &Session{
		cfg:  cfg,
		main: NewHand(),
	}
	if target != nil {
		s.binding = target.Bind(s.Handle)
	}
	return s
}

// MainHand returns the hand holding every currently-down contact.
func (s *Session) MainHand() *Hand {
	return s.main
}

// MultiHand returns the current multi hand, or nil when no contact is down.
func (s *Session) MultiHand() *Hand {
	return s.multi
}

// Close detaches the session from its target. It is safe to call more than once.
func (s *Session) Close() {
	if s.binding != nil {
		s.binding.Unbind()
		s.binding = nil
	}
}

// Handle processes one frame. A listener error aborts the rest of the
// frame and is returned; state changed before the error is kept.
func (s *Session) Handle(fr Frame) error {
	switch fr.Kind {
	case Start:
		return s.start(fr)
	case Move:
		return s.move(fr)
	case End:
		return s.end(fr)
	}
	return fmt.Errorf("%w: %v", ErrUnknownKind, fr.Kind)
}

func (s *Session) start(fr Frame) error {
	created := make([]*Finger, 0, len(fr.Changed))
	for _, p := range fr.Changed {
		f := newFinger(p)
		s.main.Add(f)
		created = append(created, f)
	}

	for _, f := range created {
		if s.cfg.any != nil {
			if err := s.cfg.any(s.main, f); err != nil {
				return err
			}
		}
		if err := f.Trigger(Start, f.Last()); err != nil {
			return err
		}
	}

	if err := s.main.Trigger(Start, fr.Changed); err != nil {
		return err
	}

	// a new contact always replaces the multi hand, even at the same arity
	if err := s.destroyMulti(); err != nil {
		return err
	}
	return s.rebuildMulti(fr.Active)
}

func (s *Session) move(fr Frame) error {
	fingers, err := lookup(s.main, fr)
	if err != nil {
		return err
	}

	for i, f := range fingers {
		p := fr.Changed[i]
		f.record(p)
		if err := f.Trigger(Move, p); err != nil {
			return err
		}
	}

	if err := s.main.Trigger(Move, fr.Changed); err != nil {
		return err
	}

	if s.multi == nil {
		return nil
	}

	fingers, err = lookup(s.multi, fr)
	if err != nil {
		return err
	}

	for i, f := range fingers {
		p := fr.Changed[i]
		f.record(p)
		if err := f.Trigger(Move, p); err != nil {
			return err
		}
	}

	return s.multi.Trigger(Move, fr.Changed)
}

func (s *Session) end(fr Frame) error {
	fingers, err := lookup(s.main, fr)
	if err != nil {
		return err
	}

	for i, f := range fingers {
		p := fr.Changed[i]
		f.record(p)
		if err := f.Trigger(End, p); err != nil {
			return err
		}
		s.main.Remove(f)
	}

	if err := s.main.Trigger(End, fr.Changed); err != nil {
		return err
	}

	if err := s.destroyMulti(); err != nil {
		return err
	}

	lifted := make(map[int]bool, len(fr.Changed))
	for _, p := range fr.Changed {
		lifted[p.ID] = true
	}

	remaining := make([]Point, 0, len(fr.Active))
	for _, p := range fr.Active {
		if !lifted[p.ID] {
			remaining = append(remaining, p)
		}
	}

	return s.rebuildMulti(remaining)
}

// rebuildMulti forms a fresh multi hand from points. No hand is created
// when points is empty.
func (s *Session) rebuildMulti(points []Point) error {
	if len(points) == 0 {
		return nil
	}

	h := NewHand()
	fingers := make([]*Finger, 0, len(points))
	for _, p := range points {
		f := newFinger(p)
		h.Add(f)
		fingers = append(fingers, f)
	}

	utils.Verbose("multi hand formed with %d finger(s)", len(fingers))

	if fn := s.cfg.forArity(len(fingers)); fn != nil {
		if err := fn(h, fingers...); err != nil {
			return err
		}
	}

	for _, f := range fingers {
		if err := f.Trigger(Start, f.Last()); err != nil {
			return err
		}
	}

	if err := h.Trigger(Start, points); err != nil {
		return err
	}

	s.multi = h
	return nil
}

// destroyMulti ends every finger of the multi hand at its last known
// position, then ends the hand itself.
func (s *Session) destroyMulti() error {
	if s.multi == nil {
		return nil
	}

	h := s.multi
	finals := make([]Point, 0, h.Len())
	// End listeners may remove fingers from h
	for _, f := range h.Fingers() {
		p := f.Last()
		f.record(p)
		if err := f.Trigger(End, p); err != nil {
			return err
		}
		finals = append(finals, p)
	}

	if err := h.Trigger(End, finals); err != nil {
		return err
	}

	utils.Verbose("multi hand with %d finger(s) destroyed", len(finals))
	s.multi = nil
	return nil
}

// lookup resolves every changed point of fr to a member of h before any
// state is touched.
func lookup(h *Hand, fr Frame) ([]*Finger, error) {
	fingers := make([]*Finger, 0, len(fr.Changed))
	for _, p := range fr.Changed {
		f := h.Get(p.ID)
		if f == nil {
			return nil, fmt.Errorf("%s frame: %w: id %d", fr.Kind, ErrUnknownContact, p.ID)
		}
		fingers = append(fingers, f)
	}
	return fingers, nil
}
