// Package source normalizes external touch input into touch.Frame values.
package source

import (
	"errors"
	"fmt"
	"math"

	"github.com/mobile-next/fingers/touch"
)

// ErrUnknownEventType is returned for raw events that are not one of the
// touchstart, touchmove, touchend or touchcancel types.
var ErrUnknownEventType = errors.New("unknown touch event type")

// RawTouch is one contact as reported by a browser-style touch event.
type RawTouch struct {
	Identifier int     `json:"identifier"`
	PageX      float64 `json:"pageX"`
	PageY      float64 `json:"pageY"`
}

// RawEvent mirrors the shape of a DOM TouchEvent. Touches holds every
// contact still on the surface and ChangedTouches the contacts this event
// is about.
type RawEvent struct {
	Type           string     `json:"type"`
	TimeStamp      float64    `json:"timeStamp"`
	Touches        []RawTouch `json:"touches"`
	ChangedTouches []RawTouch `json:"changedTouches"`
}

func kindOf(eventType string) (touch.Kind, error) {
	switch eventType {
	case "touchstart":
		return touch.Start, nil
	case "touchmove":
		return touch.Move, nil
	case "touchend", "touchcancel":
		return touch.End, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEventType, eventType)
}

// Normalize converts a raw event into a frame. A touchcancel is treated
// as an end.
func Normalize(ev RawEvent) (touch.Frame, error) {
	kind, err := kindOf(ev.Type)
	if err != nil {
		return touch.Frame{}, err
	}

	// frames carry whole milliseconds
	now := int64(math.Round(ev.TimeStamp))
	return touch.Frame{
		Kind:    kind,
		Time:    now,
		Active:  points(ev.Touches, now),
		Changed: points(ev.ChangedTouches, now),
	}, nil
}

// NormalizeAll converts a recorded event stream. The returned error names
// the index of the offending event.
func NormalizeAll(events []RawEvent) ([]touch.Frame, error) {
	frames := make([]touch.Frame, 0, len(events))
	for i, ev := range events {
		fr, err := Normalize(ev)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		frames = append(frames, fr)
	}
	return frames, nil
}

func points(touches []RawTouch, now int64) []touch.Point {
	out := make([]touch.Point, 0, len(touches))
	for _, t := range touches {
		out = append(out, touch.Point{
			ID:   t.Identifier,
			X:    t.PageX,
			Y:    t.PageY,
			Time: now,
		})
	}
	return out
}
