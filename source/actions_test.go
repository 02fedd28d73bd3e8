package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func finger(id string, actions ...Action) Pointer {
	return Pointer{
		Type:       "pointer",
		ID:         id,
		Parameters: PointerParameters{PointerType: "touch"},
		Actions:    actions,
	}
}

func TestFromActions_SingleTap(t *testing.T) {
	events, err := FromActions([]Pointer{
		finger("finger1",
			Action{Type: "pointerMove", X: 10, Y: 20},
			Action{Type: "pointerDown"},
			Action{Type: "pause", Duration: 100},
			Action{Type: "pointerUp"},
		),
	})
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "touchstart", events[0].Type)
	assert.Equal(t, []RawTouch{{Identifier: 1, PageX: 10, PageY: 20}}, events[0].ChangedTouches)
	assert.Equal(t, events[0].ChangedTouches, events[0].Touches)

	assert.Equal(t, "touchend", events[1].Type)
	assert.Equal(t, float64(100), events[1].TimeStamp)
	assert.Empty(t, events[1].Touches)
}

func TestFromActions_TwoFingersGroupedPerTick(t *testing.T) {
	events, err := FromActions([]Pointer{
		finger("finger1",
			Action{Type: "press", X: 0, Y: 0},
			Action{Type: "move", X: 5, Y: 5, Duration: 50},
			Action{Type: "release"},
		),
		finger("finger2",
			Action{Type: "press", X: 10, Y: 10},
			Action{Type: "move", X: 15, Y: 15, Duration: 80},
			Action{Type: "pause"},
		),
	})
	require.NoError(t, err)

	var types []string
	for _, ev := range events {
		types = append(types, ev.Type)
	}
	assert.Equal(t, []string{"touchstart", "touchmove", "touchend"}, types)

	assert.Len(t, events[0].ChangedTouches, 2)
	assert.Len(t, events[1].ChangedTouches, 2)
	assert.Equal(t, float64(80), events[1].TimeStamp)

	end := events[2]
	assert.Equal(t, []RawTouch{{Identifier: 1, PageX: 5, PageY: 5}}, end.ChangedTouches)
	assert.Equal(t, []RawTouch{{Identifier: 2, PageX: 15, PageY: 15}}, end.Touches)
}

func TestFromActions_Errors(t *testing.T) {
	tests := []struct {
		name     string
		pointers []Pointer
	}{
		{"double down", []Pointer{finger("f", Action{Type: "pointerDown"}, Action{Type: "pointerDown"})}},
		{"up without down", []Pointer{finger("f", Action{Type: "pointerUp"})}},
		{"unknown action", []Pointer{finger("f", Action{Type: "scroll"})}},
		{"key source", []Pointer{{Type: "key", ID: "k"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromActions(tt.pointers)
			assert.Error(t, err)
		})
	}
}
