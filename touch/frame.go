package touch

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownContact is returned when a move or end frame references a
	// contact id that is not currently down.
	ErrUnknownContact = errors.New("unknown contact")

	// ErrUnknownKind is returned for frames whose kind is not start, move or end.
	ErrUnknownKind = errors.New("unknown frame kind")
)

// Kind identifies a lifecycle event: start, move or end.
type Kind int

const (
	Start Kind = iota
	Move
	End
)

func (k Kind) String() string {
	switch k {
	case Start:
		return "start"
	case Move:
		return "move"
	case End:
		return "end"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind converts "start", "move" or "end" into a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "start":
		return Start, nil
	case "move":
		return Move, nil
	case "end":
		return End, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Point is one contact's position at one frame. Points are values and are
// never mutated after creation.
type Point struct {
	ID   int     `json:"id"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Time int64   `json:"time"`
}

// Frame is one normalized batch of input.
//
// Active holds the contacts currently down. For end frames this is the set
// still down after the lift. Changed holds the contacts that started, moved
// or lifted in this frame.
type Frame struct {
	Kind    Kind
	Time    int64
	Active  []Point
	Changed []Point
}

// Handler consumes frames from a Target.
type Handler func(Frame) error

// Unbinder reverses a binding made on a Target.
type Unbinder interface {
	Unbind()
}

// Target is a surface that delivers frames to bound handlers.
type Target interface {
	Bind(h Handler) Unbinder
}
