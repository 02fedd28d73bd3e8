package types

import (
	"github.com/mobile-next/fingers/recorder"
	"github.com/mobile-next/fingers/source"
	"github.com/mobile-next/fingers/touch"
)

// SessionCreateParams selects which multi hand arities ("one".."five") are
// reported. An empty list reports all of them.
type SessionCreateParams struct {
	Arities []string `json:"arities,omitempty"`
}

type SessionCreateResult struct {
	SessionID string `json:"sessionId"`
}

type SessionParams struct {
	SessionID string `json:"sessionId"`
}

type SessionFrameParams struct {
	SessionID string           `json:"sessionId"`
	Event     *source.RawEvent `json:"event"`
}

// FrameResult lists the listener events a frame produced.
type FrameResult struct {
	Events           []recorder.Record `json:"events"`
	DefaultPrevented bool              `json:"defaultPrevented"`
}

// FingerState is a finger and its point history.
type FingerState struct {
	ID     int           `json:"id"`
	Points []touch.Point `json:"points"`
}

// SessionState is a snapshot of both hands. Multi is nil when no multi
// hand exists.
type SessionState struct {
	Main  []FingerState `json:"main"`
	Multi []FingerState `json:"multi"`
}

// ReplayParams carries a recording inline: either raw events or pointer
// action sequences.
type ReplayParams struct {
	Events  []source.RawEvent `json:"events,omitempty"`
	Actions []source.Pointer  `json:"actions,omitempty"`
	Arities []string          `json:"arities,omitempty"`
}

// ReplayResult is the outcome of replaying a recording through a fresh
// session.
type ReplayResult struct {
	Frames int               `json:"frames"`
	Events []recorder.Record `json:"events"`
}

// Snapshot builds a FingerState list from a hand. A nil hand yields nil.
func Snapshot(h *touch.Hand) []FingerState {
	if h == nil {
		return nil
	}

	out := make([]FingerState, 0, h.Len())
	for _, f := range h.Fingers() {
		out = append(out, FingerState{ID: f.ID(), Points: f.Points()})
	}
	return out
}
