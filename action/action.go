// Package action implements the capability subsystem that lets agents invoke
// structured operations (queries, computations, side effects) with schema
// validated arguments and consistent error handling.
package action

import (
	"fmt"

	"github.com/AIter-Team/Flo/internal/util"
)

// Action defines one named capability an agent may request during a turn.
//
// Implementations should:
//   - Provide clear, descriptive names (snake_case recommended)
//   - Define a proper JSON schema for parameters
//   - Handle errors gracefully
//   - Be safe for concurrent use
type Action interface {
	// Name returns the unique identifier for this action.
	Name() string

	// Description returns a human-readable description provided to the model
	// so it understands when and how to request the action.
	Description() string

	// Parameters returns a JSON schema describing the expected arguments.
	Parameters() map[string]any

	// Execute runs the action with parsed arguments and an invocation
	// context giving access to session state and the progress channel.
	Execute(actx *Context, args map[string]any) (any, error)
}

// ValidationError represents parameter validation errors with detailed information.
type ValidationError = util.ValidationError

// Error codes attached to action failures.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeExecution  = "EXECUTION_ERROR"
)

// Error represents a failure during action execution. It is recoverable: the
// invoker converts it into an error result fed back to the requesting agent
// rather than aborting the turn.
type Error struct {
	Action  string `json:"action"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("action error [%s] in %s: %s", e.Code, e.Action, e.Message)
	}
	return fmt.Sprintf("action error in %s: %s", e.Action, e.Message)
}

// NewError creates a new Error with the specified details.
func NewError(action, message, code string) *Error {
	return &Error{
		Action:  action,
		Message: message,
		Code:    code,
	}
}
