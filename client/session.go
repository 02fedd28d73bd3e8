package client

import (
	"github.com/mobile-next/fingers/source"
	"github.com/mobile-next/fingers/types"
)

// CreateSession opens a tracking session on the server and returns its id.
func (c *Client) CreateSession(arities []string) (string, error) {
	var result types.SessionCreateResult
	err := c.callInto("session.create", types.SessionCreateParams{Arities: arities}, &result)
	if err != nil {
		return "", err
	}
	return result.SessionID, nil
}

// SendFrame feeds one raw event to a session and returns the listener
// events it produced.
func (c *Client) SendFrame(sessionID string, ev source.RawEvent) (*types.FrameResult, error) {
	var result types.FrameResult
	params := types.SessionFrameParams{SessionID: sessionID, Event: &ev}
	if err := c.callInto("session.frame", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) State(sessionID string) (*types.SessionState, error) {
	var result types.SessionState
	if err := c.callInto("session.state", types.SessionParams{SessionID: sessionID}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) CloseSession(sessionID string) error {
	return c.callInto("session.close", types.SessionParams{SessionID: sessionID}, nil)
}
