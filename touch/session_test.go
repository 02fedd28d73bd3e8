package touch

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pt(id int, x, y float64, time int64) Point {
	return Point{ID: id, X: x, Y: y, Time: time}
}

func ids(h *Hand) []int {
	var out []int
	for _, f := range h.Fingers() {
		out = append(out, f.ID())
	}
	sort.Ints(out)
	return out
}

func TestSession_Scenario(t *testing.T) {
	var ones, twos [][]*Finger

	s := NewSession(nil, PerArity(Callbacks{
		One: func(h *Hand, fingers ...*Finger) error {
			ones = append(ones, fingers)
			return nil
		},
		Two: func(h *Hand, fingers ...*Finger) error {
			twos = append(twos, fingers)
			return nil
		},
	}))

	// id=1 starts at (0,0)
	p1 := pt(1, 0, 0, 1)
	require.NoError(t, s.Handle(Frame{Kind: Start, Time: 1, Active: []Point{p1}, Changed: []Point{p1}}))

	assert.Equal(t, []int{1}, ids(s.MainHand()))
	require.Len(t, ones, 1)
	require.Len(t, ones[0], 1)
	first := ones[0][0]
	assert.Equal(t, 1, first.ID())

	var firstEnds []Point
	first.On(End, func(f *Finger, p Point) error {
		firstEnds = append(firstEnds, p)
		return nil
	})

	// id=2 starts at (10,10) while id=1 is down
	p2 := pt(2, 10, 10, 2)
	require.NoError(t, s.Handle(Frame{Kind: Start, Time: 2, Active: []Point{p1, p2}, Changed: []Point{p2}}))

	assert.Equal(t, []Point{p1}, firstEnds, "synthetic end repeats the last point")
	assert.Equal(t, []Point{p1, p1}, first.Points())
	require.Len(t, twos, 1)
	require.Len(t, twos[0], 2)
	one, two := twos[0][0], twos[0][1]
	assert.Equal(t, 1, one.ID())
	assert.Equal(t, 2, two.ID())
	assert.NotSame(t, first, one)
	assert.Equal(t, 2, s.MultiHand().Len())

	var mainMoves, multiMoves, otherMoves []Point
	s.MainHand().Get(1).On(Move, func(f *Finger, p Point) error {
		mainMoves = append(mainMoves, p)
		return nil
	})
	one.On(Move, func(f *Finger, p Point) error {
		multiMoves = append(multiMoves, p)
		return nil
	})
	two.On(Move, func(f *Finger, p Point) error {
		otherMoves = append(otherMoves, p)
		return nil
	})

	// id=1 moves to (5,5)
	m1 := pt(1, 5, 5, 3)
	require.NoError(t, s.Handle(Frame{Kind: Move, Time: 3, Active: []Point{m1, p2}, Changed: []Point{m1}}))

	assert.Equal(t, []Point{m1}, mainMoves)
	assert.Equal(t, []Point{m1}, multiMoves)
	assert.Empty(t, otherMoves)

	var ended []int
	for _, f := range []*Finger{one, two} {
		f.On(End, func(f *Finger, p Point) error {
			ended = append(ended, f.ID())
			return nil
		})
	}

	// id=2 ends
	e2 := pt(2, 10, 10, 4)
	require.NoError(t, s.Handle(Frame{Kind: End, Time: 4, Active: []Point{m1}, Changed: []Point{e2}}))

	assert.Equal(t, []int{1, 2}, ended)
	assert.Equal(t, []int{1}, ids(s.MainHand()))
	require.Len(t, ones, 2)
	assert.Equal(t, m1, ones[1][0].Last())
	assert.Equal(t, 1, s.MultiHand().Len())

	// last contact lifts, leaving no multi hand
	e1 := pt(1, 5, 5, 5)
	require.NoError(t, s.Handle(Frame{Kind: End, Time: 5, Changed: []Point{e1}}))
	assert.Empty(t, ids(s.MainHand()))
	assert.Nil(t, s.MultiHand())
}

func TestSession_AnyFiresOncePerNewFinger(t *testing.T) {
	var seen []int
	var arity int

	s := NewSession(nil, PerArity(Callbacks{
		Any: func(main *Hand, f *Finger) error {
			assert.NotNil(t, main.Get(f.ID()), "finger is in the main hand when any fires")
			seen = append(seen, f.ID())
			return nil
		},
		Two: func(h *Hand, fingers ...*Finger) error {
			arity = len(fingers)
			return nil
		},
	}))

	a, b := pt(1, 0, 0, 1), pt(2, 1, 1, 1)
	require.NoError(t, s.Handle(Frame{Kind: Start, Active: []Point{a, b}, Changed: []Point{a, b}}))
	assert.Equal(t, []int{1, 2}, seen)
	assert.Equal(t, 2, arity)

	// moves and ends never create main-hand fingers
	require.NoError(t, s.Handle(Frame{Kind: Move, Active: []Point{a, b}, Changed: []Point{a}}))
	require.NoError(t, s.Handle(Frame{Kind: End, Active: []Point{b}, Changed: []Point{a}}))
	assert.Equal(t, []int{1, 2}, seen)
}

func TestSession_CatchAllIgnoresArity(t *testing.T) {
	var calls int
	s := NewSession(nil, CatchAll(func(main *Hand, f *Finger) error {
		calls++
		return nil
	}))

	p := pt(1, 0, 0, 0)
	require.NoError(t, s.Handle(Frame{Kind: Start, Active: []Point{p}, Changed: []Point{p}}))
	assert.Equal(t, 1, calls)
	require.NotNil(t, s.MultiHand())
	assert.Equal(t, 1, s.MultiHand().Len())
}

func TestSession_MoreThanFiveFingers(t *testing.T) {
	var fired []int
	cb := func(n int) ArityFunc {
		return func(h *Hand, fingers ...*Finger) error {
			fired = append(fired, n)
			return nil
		}
	}

	s := NewSession(nil, PerArity(Callbacks{
		One: cb(1), Two: cb(2), Three: cb(3), Four: cb(4), Five: cb(5),
	}))

	var active []Point
	for i := 1; i <= 6; i++ {
		p := pt(i, float64(i), 0, int64(i))
		active = append(active, p)
		require.NoError(t, s.Handle(Frame{Kind: Start, Active: append([]Point(nil), active...), Changed: []Point{p}}))
	}

	assert.Equal(t, []int{1, 2, 3, 4, 5}, fired)
	require.NotNil(t, s.MultiHand())
	assert.Equal(t, 6, s.MultiHand().Len())
}

func TestSession_SameArityStillRebuilds(t *testing.T) {
	var twos int
	s := NewSession(nil, PerArity(Callbacks{
		Two: func(h *Hand, fingers ...*Finger) error {
			twos++
			return nil
		},
	}))

	a, b, c := pt(1, 0, 0, 1), pt(2, 0, 0, 1), pt(3, 0, 0, 3)
	require.NoError(t, s.Handle(Frame{Kind: Start, Active: []Point{a, b}, Changed: []Point{a, b}}))
	before := s.MultiHand()

	require.NoError(t, s.Handle(Frame{Kind: Start, Active: []Point{a, b, c}, Changed: []Point{c}}))
	require.NoError(t, s.Handle(Frame{Kind: End, Active: []Point{a, b}, Changed: []Point{c}}))

	assert.Equal(t, 2, twos)
	assert.NotSame(t, before, s.MultiHand())
}

func TestSession_EndFiltersLiftedFromActive(t *testing.T) {
	s := NewSession(nil, Config{})

	a, b := pt(1, 0, 0, 1), pt(2, 0, 0, 1)
	require.NoError(t, s.Handle(Frame{Kind: Start, Active: []Point{a, b}, Changed: []Point{a, b}}))

	// the collaborator wrongly leaves the lifted contact in the active set
	require.NoError(t, s.Handle(Frame{Kind: End, Active: []Point{a, b}, Changed: []Point{b}}))

	require.NotNil(t, s.MultiHand())
	assert.Equal(t, []int{1}, ids(s.MultiHand()))
}

func TestSession_Ordering(t *testing.T) {
	var log []string
	fingerListener := func(tag string) FingerListener {
		return func(f *Finger, p Point) error {
			log = append(log, fmt.Sprintf("%s:finger%d", tag, f.ID()))
			return nil
		}
	}
	handListener := func(tag string) HandListener {
		return func(h *Hand, points []Point) error {
			log = append(log, fmt.Sprintf("%s:hand", tag))
			return nil
		}
	}
	attach := func(prefix string, h *Hand, fingers []*Finger) {
		for _, k := range []Kind{Start, Move, End} {
			for _, f := range fingers {
				f.On(k, fingerListener(prefix+"-"+k.String()))
			}
			h.On(k, handListener(prefix+"-"+k.String()))
		}
	}

	arity := func(h *Hand, fingers ...*Finger) error {
		attach("multi", h, fingers)
		return nil
	}

	s := NewSession(nil, PerArity(Callbacks{One: arity, Two: arity}))

	a := pt(1, 0, 0, 1)
	require.NoError(t, s.Handle(Frame{Kind: Start, Active: []Point{a}, Changed: []Point{a}}))
	assert.Equal(t, []string{"multi-start:finger1", "multi-start:hand"}, log)

	log = nil
	b := pt(2, 0, 0, 2)
	require.NoError(t, s.Handle(Frame{Kind: Start, Active: []Point{a, b}, Changed: []Point{b}}))
	assert.Equal(t, []string{
		"multi-end:finger1", "multi-end:hand",
		"multi-start:finger1", "multi-start:finger2", "multi-start:hand",
	}, log)

	log = nil
	s.MainHand().Get(1).On(Move, fingerListener("main-move"))
	s.MainHand().On(Move, handListener("main-move"))
	m := pt(1, 3, 3, 3)
	require.NoError(t, s.Handle(Frame{Kind: Move, Active: []Point{m, b}, Changed: []Point{m}}))
	assert.Equal(t, []string{
		"main-move:finger1", "main-move:hand",
		"multi-move:finger1", "multi-move:hand",
	}, log)
}

func TestSession_ListenerErrorAbortsFrame(t *testing.T) {
	boom := errors.New("boom")
	s := NewSession(nil, Config{})

	a := pt(1, 0, 0, 1)
	require.NoError(t, s.Handle(Frame{Kind: Start, Active: []Point{a}, Changed: []Point{a}}))

	var handMoves int
	s.MainHand().On(Move, func(h *Hand, points []Point) error {
		handMoves++
		return nil
	})
	f := s.MainHand().Get(1)
	f.On(Move, func(f *Finger, p Point) error { return boom })

	m := pt(1, 1, 1, 2)
	err := s.Handle(Frame{Kind: Move, Active: []Point{m}, Changed: []Point{m}})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, handMoves)
	// no rollback of the appended point
	assert.Equal(t, []Point{a, m}, f.Points())
}

func TestSession_UnknownContact(t *testing.T) {
	s := NewSession(nil, Config{})

	a := pt(1, 0, 0, 1)
	require.NoError(t, s.Handle(Frame{Kind: Start, Active: []Point{a}, Changed: []Point{a}}))

	ghost := pt(9, 0, 0, 2)
	err := s.Handle(Frame{Kind: Move, Active: []Point{a, ghost}, Changed: []Point{a, ghost}})
	assert.ErrorIs(t, err, ErrUnknownContact)
	// the known contact was not touched either
	assert.Len(t, s.MainHand().Get(1).Points(), 1)

	err = s.Handle(Frame{Kind: End, Changed: []Point{ghost}})
	assert.ErrorIs(t, err, ErrUnknownContact)
	assert.Equal(t, []int{1}, ids(s.MainHand()))
}

func TestSession_UnknownKind(t *testing.T) {
	s := NewSession(nil, Config{})
	assert.ErrorIs(t, s.Handle(Frame{Kind: Kind(42)}), ErrUnknownKind)
}

type fakeTarget struct {
	handler Handler
	unbinds int
}

func (t *fakeTarget) Bind(h Handler) Unbinder {
	t.handler = h
	return t
}

func (t *fakeTarget) Unbind() {
	t.unbinds++
	t.handler = nil
}

func TestSession_BindsToTarget(t *testing.T) {
	target := &fakeTarget{}
	s := NewSession(target, Config{})
	require.NotNil(t, target.handler)

	a := pt(1, 0, 0, 1)
	require.NoError(t, target.handler(Frame{Kind: Start, Active: []Point{a}, Changed: []Point{a}}))
	assert.Equal(t, []int{1}, ids(s.MainHand()))

	s.Close()
	s.Close()
	assert.Equal(t, 1, target.unbinds)
}

// TestSession_RandomStreams drives random start/move/end streams and checks
// the main hand membership and point history invariants after every frame.
func TestSession_RandomStreams(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for run := 0; run < 50; run++ {
		var destroyed, created int
		countHand := func(h *Hand, fingers ...*Finger) error {
			created++
			h.On(End, func(h *Hand, points []Point) error {
				destroyed++
				return nil
			})
			return nil
		}
		s := NewSession(nil, PerArity(Callbacks{
			One: countHand, Two: countHand, Three: countHand, Four: countHand, Five: countHand,
		}))

		down := map[int]Point{}
		var order []int
		touches := map[*Finger]int{}
		nextID := 1

		active := func() []Point {
			out := make([]Point, 0, len(order))
			for _, id := range order {
				out = append(out, down[id])
			}
			return out
		}

		for step := 0; step < 60; step++ {
			now := int64(step)
			var fr Frame

			switch op := rng.Intn(3); {
			case op == 0 || len(order) == 0:
				if len(order) >= MaxArity {
					continue
				}
				p := pt(nextID, rng.Float64()*100, rng.Float64()*100, now)
				nextID++
				down[p.ID] = p
				order = append(order, p.ID)
				fr = Frame{Kind: Start, Time: now, Active: active(), Changed: []Point{p}}
			case op == 1:
				id := order[rng.Intn(len(order))]
				p := pt(id, rng.Float64()*100, rng.Float64()*100, now)
				down[id] = p
				fr = Frame{Kind: Move, Time: now, Active: active(), Changed: []Point{p}}
			default:
				i := rng.Intn(len(order))
				id := order[i]
				p := down[id]
				p.Time = now
				delete(down, id)
				order = append(order[:i:i], order[i+1:]...)
				fr = Frame{Kind: End, Time: now, Active: active(), Changed: []Point{p}}
			}

			for _, f := range s.MainHand().Fingers() {
				touches[f] = len(f.Points())
			}

			prevMulti := 0
			if s.MultiHand() != nil {
				prevMulti = s.MultiHand().Len()
			}
			destroyedBefore := destroyed

			require.NoError(t, s.Handle(fr))

			want := append([]int(nil), order...)
			sort.Ints(want)
			assert.Equal(t, want, ids(s.MainHand()))

			for _, p := range fr.Changed {
				if f := s.MainHand().Get(p.ID); f != nil && fr.Kind == Move {
					assert.Equal(t, touches[f]+1, len(f.Points()))
				}
			}

			if fr.Kind != Move && prevMulti > 0 {
				assert.Equal(t, destroyedBefore+1, destroyed)
			}
			if len(order) == 0 {
				assert.Nil(t, s.MultiHand())
			} else {
				require.NotNil(t, s.MultiHand())
				assert.Equal(t, len(order), s.MultiHand().Len())
			}
		}
		assert.GreaterOrEqual(t, created, destroyed)
	}
}

func TestSession_DestroyMultiSurvivesRemoveFromListener(t *testing.T) {
	ends := map[int]int{}
	var handEnd []Point

	s := NewSession(nil, PerArity(Callbacks{
		Two: func(h *Hand, fingers ...*Finger) error {
			for _, f := range fingers {
				f.On(End, func(self *Finger, p Point) error {
					ends[self.ID()]++
					h.Remove(self)
					return nil
				})
			}
			h.On(End, func(h *Hand, points []Point) error {
				handEnd = points
				return nil
			})
			return nil
		},
	}))

	p1, p2 := pt(1, 0, 0, 1), pt(2, 5, 5, 1)
	require.NoError(t, s.Handle(Frame{Kind: Start, Time: 1, Active: []Point{p1, p2}, Changed: []Point{p1, p2}}))
	require.Equal(t, 2, s.MultiHand().Len())

	p3 := pt(3, 9, 9, 2)
	require.NoError(t, s.Handle(Frame{Kind: Start, Time: 2, Active: []Point{p1, p2, p3}, Changed: []Point{p3}}))

	assert.Equal(t, map[int]int{1: 1, 2: 1}, ends)
	assert.Equal(t, []Point{p1, p2}, handEnd)
	assert.Equal(t, 3, s.MultiHand().Len())
}
