package server

import (
	"encoding/json"
	"fmt"

	"github.com/mobile-next/fingers/commands"
	"github.com/mobile-next/fingers/source"
	"github.com/mobile-next/fingers/surface"
	"github.com/mobile-next/fingers/types"
)

// HandlerFunc is the signature for JSON-RPC method handlers
type HandlerFunc func(params json.RawMessage) (interface{}, error)

// paramsError marks errors caused by the caller's params.
type paramsError struct {
	err error
}

func (e *paramsError) Error() string {
	return e.err.Error()
}

func (e *paramsError) Unwrap() error {
	return e.err
}

func invalidParams(err error) error {
	return &paramsError{err: err}
}

// methods returns a map of method names to handler functions
func (s *Server) methods() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		"session.create":     s.handleSessionCreate,
		"session.frame":      s.handleSessionFrame,
		"session.state":      s.handleSessionState,
		"session.close":      s.handleSessionClose,
		"replay":             handleReplay,
		"overscroll.enable":  handleOverscrollEnable,
		"overscroll.disable": handleOverscrollDisable,
		"server.shutdown":    s.handleShutdown,
	}
}

// Execute dispatches a method call using the registry. This is the entry
// point for embedded callers.
func (s *Server) Execute(method string, params json.RawMessage) (interface{}, error) {
	handler, exists := s.methods()[method]
	if !exists {
		return nil, fmt.Errorf("method not found: %s", method)
	}

	return handler(params)
}

func decodeParams(params json.RawMessage, v interface{}, fields string) error {
	if len(params) == 0 {
		return invalidParams(fmt.Errorf("'params' is required with fields: %s", fields))
	}

	if err := json.Unmarshal(params, v); err != nil {
		return invalidParams(fmt.Errorf("invalid parameters: %v. Expected fields: %s", err, fields))
	}
	return nil
}

func (s *Server) handleSessionCreate(params json.RawMessage) (interface{}, error) {
	var createParams types.SessionCreateParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &createParams); err != nil {
			return nil, invalidParams(fmt.Errorf("invalid parameters: %v. Expected fields: arities", err))
		}
	}

	arities, err := commands.ParseArities(createParams.Arities)
	if err != nil {
		return nil, invalidParams(err)
	}

	return types.SessionCreateResult{SessionID: s.sessions.Create(arities)}, nil
}

func (s *Server) handleSessionFrame(params json.RawMessage) (interface{}, error) {
	var frameParams types.SessionFrameParams
	if err := decodeParams(params, &frameParams, "sessionId, event"); err != nil {
		return nil, err
	}

	if frameParams.SessionID == "" {
		return nil, invalidParams(fmt.Errorf("'sessionId' is required"))
	}

	if frameParams.Event == nil {
		return nil, invalidParams(fmt.Errorf("'event' is required"))
	}

	return s.sessions.Frame(frameParams.SessionID, *frameParams.Event)
}

func (s *Server) handleSessionState(params json.RawMessage) (interface{}, error) {
	var sessionParams types.SessionParams
	if err := decodeParams(params, &sessionParams, "sessionId"); err != nil {
		return nil, err
	}

	return s.sessions.State(sessionParams.SessionID)
}

func (s *Server) handleSessionClose(params json.RawMessage) (interface{}, error) {
	var sessionParams types.SessionParams
	if err := decodeParams(params, &sessionParams, "sessionId"); err != nil {
		return nil, err
	}

	if err := s.sessions.Remove(sessionParams.SessionID); err != nil {
		return nil, err
	}

	return okResponse, nil
}

func handleReplay(params json.RawMessage) (interface{}, error) {
	var replayParams types.ReplayParams
	if err := decodeParams(params, &replayParams, "events or actions"); err != nil {
		return nil, err
	}

	arities, err := commands.ParseArities(replayParams.Arities)
	if err != nil {
		return nil, invalidParams(err)
	}

	events := replayParams.Events
	if len(replayParams.Actions) > 0 {
		if len(events) > 0 {
			return nil, invalidParams(fmt.Errorf("'events' and 'actions' are mutually exclusive"))
		}

		events, err = source.FromActions(replayParams.Actions)
		if err != nil {
			return nil, invalidParams(err)
		}
	}

	return commands.Replay(events, arities)
}

func handleOverscrollEnable(params json.RawMessage) (interface{}, error) {
	surface.EnableOverscrollSuppression()
	return okResponse, nil
}

func handleOverscrollDisable(params json.RawMessage) (interface{}, error) {
	surface.DisableOverscrollSuppression()
	return okResponse, nil
}

func (s *Server) handleShutdown(params json.RawMessage) (interface{}, error) {
	s.requestShutdown()
	return okResponse, nil
}
