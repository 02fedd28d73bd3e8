// Package recorder turns the listener callbacks of a touch session into an
// ordered event log.
package recorder

import (
	"github.com/mobile-next/fingers/touch"
)

const (
	TargetFinger = "finger"
	TargetHand   = "hand"

	HandMain  = "main"
	HandMulti = "multi"
)

// Record is one fired listener.
type Record struct {
	Seq      int           `json:"seq"`
	Target   string        `json:"target"`
	Hand     string        `json:"hand"`
	Kind     string        `json:"kind"`
	Arity    int           `json:"arity,omitempty"`
	FingerID *int          `json:"fingerId,omitempty"`
	Points   []touch.Point `json:"points"`
}

// Log accumulates records. It is not safe for concurrent use.
type Log struct {
	arities []int
	records []Record
	seq     int
	main    *touch.Hand
}

// New creates a log that follows multi hands of the given arities, or of
// every arity from one to five when none are given.
func New(arities ...int) *Log {
	if len(arities) == 0 {
		for n := 1; n <= touch.MaxArity; n++ {
			arities = append(arities, n)
		}
	}
	return &Log{arities: arities}
}

// Config returns the session configuration that feeds this log.
func (l *Log) Config() touch.Config {
	cfg := touch.CatchAll(l.onFinger)
	for _, n := range l.arities {
		cfg = cfg.WithArity(n, l.onMulti)
	}
	return cfg
}

// Records returns a copy of everything recorded and not yet drained.
func (l *Log) Records() []Record {
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Drain returns the pending records and clears them.
func (l *Log) Drain() []Record {
	out := l.records
	l.records = nil
	if out == nil {
		out = []Record{}
	}
	return out
}

func (l *Log) onFinger(main *touch.Hand, f *touch.Finger) error {
	if l.main != main {
		l.main = main
		l.watchHand(main, HandMain, 0)
	}
	l.watchFinger(f, HandMain, 0)
	return nil
}

func (l *Log) onMulti(h *touch.Hand, fingers ...*touch.Finger) error {
	arity := len(fingers)
	for _, f := range fingers {
		l.watchFinger(f, HandMulti, arity)
	}
	l.watchHand(h, HandMulti, arity)
	return nil
}

func (l *Log) watchFinger(f *touch.Finger, hand string, arity int) {
	for _, kind := range []touch.Kind{touch.Start, touch.Move, touch.End} {
		kind := kind
		f.On(kind, func(f *touch.Finger, p touch.Point) error {
			id := f.ID()
			l.add(Record{
				Target:   TargetFinger,
				Hand:     hand,
				Kind:     kind.String(),
				Arity:    arity,
				FingerID: &id,
				Points:   []touch.Point{p},
			})
			return nil
		})
	}
}

func (l *Log) watchHand(h *touch.Hand, hand string, arity int) {
	for _, kind := range []touch.Kind{touch.Start, touch.Move, touch.End} {
		kind := kind
		h.On(kind, func(h *touch.Hand, points []touch.Point) error {
			l.add(Record{
				Target: TargetHand,
				Hand:   hand,
				Kind:   kind.String(),
				Arity:  arity,
				Points: append([]touch.Point(nil), points...),
			})
			return nil
		})
	}
}

func (l *Log) add(r Record) {
	l.seq++
	r.Seq = l.seq
	l.records = append(l.records, r)
}
