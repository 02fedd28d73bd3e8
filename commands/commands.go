package commands

import (
	"fmt"

	"github.com/mobile-next/fingers/touch"
)

// CommandResponse represents a standardized response format for all commands
type CommandResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) *CommandResponse {
	return &CommandResponse{
		Status: "ok",
		Data:   data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(err error) *CommandResponse {
	return &CommandResponse{
		Status: "error",
		Error:  err.Error(),
	}
}

// ParseArities converts arity names ("one".."five") into finger counts.
// An empty list yields nil, which selects every arity.
func ParseArities(names []string) ([]int, error) {
	var out []int
	for _, name := range names {
		n := touch.ParseArity(name)
		if n == 0 {
			return nil, fmt.Errorf("unknown arity %q, expected one of: one, two, three, four, five", name)
		}
		out = append(out, n)
	}
	return out, nil
}
