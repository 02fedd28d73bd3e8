package source

import (
	"fmt"
)

// Action is one step of a W3C-style pointer action sequence. The short
// "press", "move" and "release" forms carry their own coordinates.
type Action struct {
	Type     string `json:"type"`
	Duration int    `json:"duration,omitempty"`
	X        int    `json:"x,omitempty"`
	Y        int    `json:"y,omitempty"`
	Button   int    `json:"button,omitempty"`
}

type PointerParameters struct {
	PointerType string `json:"pointerType"`
}

// Pointer is one input source of an actions request, for example
// {"type":"pointer","id":"finger1","parameters":{"pointerType":"touch"}}.
type Pointer struct {
	Type       string            `json:"type"`
	ID         string            `json:"id"`
	Parameters PointerParameters `json:"parameters"`
	Actions    []Action          `json:"actions"`
}

// ActionsRequest is the document layout accepted by FromActions.
type ActionsRequest struct {
	Actions []Pointer `json:"actions"`
}

type pointerState struct {
	x, y float64
	down bool
}

type pending struct {
	index int
	x, y  float64
}

// FromActions replays pointer action sequences as raw touch events. Tick
// i runs action i of every pointer; the clock advances by the longest
// duration in the tick. Within a tick, presses are reported first, then
// moves, then releases, each as a single event. Pointer n (0-based) becomes
// contact n+1.
func FromActions(pointers []Pointer) ([]RawEvent, error) {
	ticks := 0
	for _, p := range pointers {
		if p.Type != "" && p.Type != "pointer" {
			return nil, fmt.Errorf("input source %q: unsupported type %q", p.ID, p.Type)
		}
		if len(p.Actions) > ticks {
			ticks = len(p.Actions)
		}
	}

	states := make([]pointerState, len(pointers))
	var events []RawEvent
	clock := 0

	for tick := 0; tick < ticks; tick++ {
		var starts, moves, ends []pending
		longest := 0

		for i, p := range pointers {
			if tick >= len(p.Actions) {
				continue
			}

			a := p.Actions[tick]
			st := &states[i]
			if a.Duration > longest {
				longest = a.Duration
			}

			switch a.Type {
			case "pointerMove", "move":
				if !st.down {
					st.x, st.y = float64(a.X), float64(a.Y)
					continue
				}
				moves = append(moves, pending{index: i, x: float64(a.X), y: float64(a.Y)})

			case "pointerDown", "press":
				if st.down {
					return nil, fmt.Errorf("input source %q action %d: pointer already down", p.ID, tick)
				}
				x, y := st.x, st.y
				if a.Type == "press" {
					x, y = float64(a.X), float64(a.Y)
				}
				starts = append(starts, pending{index: i, x: x, y: y})

			case "pointerUp", "release":
				if !st.down {
					return nil, fmt.Errorf("input source %q action %d: pointer is not down", p.ID, tick)
				}
				ends = append(ends, pending{index: i, x: st.x, y: st.y})

			case "pause":

			default:
				return nil, fmt.Errorf("input source %q action %d: unknown action type %q", p.ID, tick, a.Type)
			}
		}

		clock += longest
		stamp := float64(clock)

		if len(starts) > 0 {
			for _, s := range starts {
				states[s.index] = pointerState{x: s.x, y: s.y, down: true}
			}
			events = append(events, RawEvent{
				Type:           "touchstart",
				TimeStamp:      stamp,
				Touches:        activeTouches(states),
				ChangedTouches: changedTouches(starts),
			})
		}

		if len(moves) > 0 {
			for _, m := range moves {
				states[m.index].x, states[m.index].y = m.x, m.y
			}
			events = append(events, RawEvent{
				Type:           "touchmove",
				TimeStamp:      stamp,
				Touches:        activeTouches(states),
				ChangedTouches: changedTouches(moves),
			})
		}

		if len(ends) > 0 {
			for _, e := range ends {
				states[e.index].down = false
			}
			events = append(events, RawEvent{
				Type:           "touchend",
				TimeStamp:      stamp,
				Touches:        activeTouches(states),
				ChangedTouches: changedTouches(ends),
			})
		}
	}

	return events, nil
}

func activeTouches(states []pointerState) []RawTouch {
	out := make([]RawTouch, 0, len(states))
	for i, st := range states {
		if st.down {
			out = append(out, RawTouch{Identifier: i + 1, PageX: st.x, PageY: st.y})
		}
	}
	return out
}

func changedTouches(list []pending) []RawTouch {
	out := make([]RawTouch, 0, len(list))
	for _, p := range list {
		out = append(out, RawTouch{Identifier: p.index + 1, PageX: p.x, PageY: p.y})
	}
	return out
}
