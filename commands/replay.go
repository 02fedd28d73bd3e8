package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/mobile-next/fingers/client"
	"github.com/mobile-next/fingers/recorder"
	"github.com/mobile-next/fingers/source"
	"github.com/mobile-next/fingers/surface"
	"github.com/mobile-next/fingers/touch"
	"github.com/mobile-next/fingers/types"
	"github.com/mobile-next/fingers/utils"
)

const (
	FormatJSONL   = "jsonl"
	FormatActions = "actions"
)

// ReplayRequest represents the parameters for a replay command
type ReplayRequest struct {
	Path    string
	Format  string // "jsonl" or "actions"; empty picks by file extension
	Arities []string
	Remote  string // server address; empty replays in-process
	Token   string
}

// ReplayCommand replays a recorded touch stream through a fresh session
// and returns every listener event it produced.
func ReplayCommand(req ReplayRequest) *CommandResponse {
	if req.Path == "" {
		return NewErrorResponse(fmt.Errorf("input file is required"))
	}

	events, err := LoadEvents(req.Path, req.Format)
	if err != nil {
		return NewErrorResponse(fmt.Errorf("error loading %s: %w", req.Path, err))
	}

	arities, err := ParseArities(req.Arities)
	if err != nil {
		return NewErrorResponse(err)
	}

	var result *types.ReplayResult
	if req.Remote != "" {
		result, err = ReplayRemote(req.Remote, req.Token, events, req.Arities)
	} else {
		result, err = Replay(events, arities)
	}
	if err != nil {
		return NewErrorResponse(fmt.Errorf("replay failed: %w", err))
	}

	return NewSuccessResponse(result)
}

// Replay feeds events to a new session bound to a surface under
// surface.Window.
func Replay(events []source.RawEvent, arities []int) (*types.ReplayResult, error) {
	frames, err := source.NormalizeAll(events)
	if err != nil {
		return nil, err
	}

	log := recorder.New(arities...)
	surf := surface.New(surface.Window)
	session := touch.NewSession(surf, log.Config())
	defer session.Close()

	for i, fr := range frames {
		if err := surf.Dispatch(surface.NewEvent(fr)); err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
	}

	utils.Verbose("Replayed %d frames", len(frames))

	return &types.ReplayResult{
		Frames: len(frames),
		Events: log.Drain(),
	}, nil
}

// ReplayRemote streams events to the server at addr, one session.frame
// call per event.
func ReplayRemote(addr, token string, events []source.RawEvent, arities []string) (*types.ReplayResult, error) {
	c := client.New(addr, token)
	defer c.Close()

	sessionID, err := c.CreateSession(arities)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	utils.Verbose("Created remote session %s", sessionID)

	result := &types.ReplayResult{Events: []recorder.Record{}}
	for i, ev := range events {
		res, err := c.SendFrame(sessionID, ev)
		if err != nil {
			_ = c.CloseSession(sessionID)
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		result.Frames++
		result.Events = append(result.Events, res.Events...)
	}

	if err := c.CloseSession(sessionID); err != nil {
		return nil, fmt.Errorf("failed to close session: %w", err)
	}

	return result, nil
}

// LoadEvents reads a recording from path ("-" for stdin).
func LoadEvents(path, format string) ([]source.RawEvent, error) {
	if format == "" {
		format = formatFromPath(path)
	}

	rc, err := utils.OpenInput(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return DecodeEvents(rc, format)
}

// DecodeEvents parses a recording in the given format.
func DecodeEvents(r io.Reader, format string) ([]source.RawEvent, error) {
	switch format {
	case FormatJSONL:
		return source.DecodeJSONL(r)
	case FormatActions:
		var req source.ActionsRequest
		if err := json.NewDecoder(r).Decode(&req); err != nil {
			return nil, fmt.Errorf("invalid actions document: %w", err)
		}
		return source.FromActions(req.Actions)
	}
	return nil, fmt.Errorf("unsupported format %q, expected %s or %s", format, FormatJSONL, FormatActions)
}

func formatFromPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatActions
	}
	return FormatJSONL
}
