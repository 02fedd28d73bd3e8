package source

import (
	"strings"
	"testing"

	"github.com/mobile-next/fingers/touch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		eventType string
		want      touch.Kind
	}{
		{"touchstart", touch.Start},
		{"touchmove", touch.Move},
		{"touchend", touch.End},
		{"touchcancel", touch.End},
	}

	for _, tt := range tests {
		t.Run(tt.eventType, func(t *testing.T) {
			fr, err := Normalize(RawEvent{
				Type:           tt.eventType,
				TimeStamp:      12.7,
				Touches:        []RawTouch{{Identifier: 1, PageX: 3, PageY: 4}},
				ChangedTouches: []RawTouch{{Identifier: 1, PageX: 3, PageY: 4}},
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, fr.Kind)
			assert.Equal(t, int64(13), fr.Time)
			assert.Equal(t, []touch.Point{{ID: 1, X: 3, Y: 4, Time: 13}}, fr.Changed)
			assert.Equal(t, fr.Changed, fr.Active)
		})
	}
}

func TestNormalize_RoundsTimeStamp(t *testing.T) {
	tests := []struct {
		stamp float64
		want  int64
	}{
		{12.4, 12},
		{12.5, 13},
		{999.9999, 1000},
		{0, 0},
	}

	for _, tt := range tests {
		fr, err := Normalize(RawEvent{Type: "touchmove", TimeStamp: tt.stamp})
		require.NoError(t, err)
		assert.Equal(t, tt.want, fr.Time, "timeStamp %v", tt.stamp)
	}
}

func TestNormalize_UnknownType(t *testing.T) {
	_, err := Normalize(RawEvent{Type: "mousedown"})
	assert.ErrorIs(t, err, ErrUnknownEventType)

	_, err = NormalizeAll([]RawEvent{{Type: "touchstart"}, {Type: "click"}})
	require.ErrorIs(t, err, ErrUnknownEventType)
	assert.Contains(t, err.Error(), "event 1")
}

func TestDecodeJSONL(t *testing.T) {
	input := `{"type":"touchstart","timeStamp":1,"touches":[{"identifier":1,"pageX":0,"pageY":0}],"changedTouches":[{"identifier":1,"pageX":0,"pageY":0}]}

{"type":"touchend","timeStamp":2,"touches":[],"changedTouches":[{"identifier":1,"pageX":0,"pageY":0}]}
`
	events, err := DecodeJSONL(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "touchstart", events[0].Type)
	assert.Equal(t, "touchend", events[1].Type)
	assert.Empty(t, events[1].Touches)
}

func TestDecodeJSONL_Errors(t *testing.T) {
	_, err := DecodeJSONL(strings.NewReader("{\"type\":\"touchstart\"}\nnot json\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	_, err = DecodeJSONL(strings.NewReader("{\"type\":\"wheel\"}\n"))
	assert.ErrorIs(t, err, ErrUnknownEventType)
}
