package core

import (
	"errors"
	"fmt"
)

// Sentinel errors of the orchestration protocol. External-call failures
// (model, action) are recoverable within a turn; protocol violations abort
// it.
var (
	// ErrModelCall indicates the completion call failed after the retry
	// budget was exhausted.
	ErrModelCall = errors.New("model call failed")

	// ErrUnauthorizedAction indicates an agent requested an action outside
	// its declared capability set.
	ErrUnauthorizedAction = errors.New("unauthorized action")

	// ErrUnknownAgent indicates a handoff named an unregistered target.
	ErrUnknownAgent = errors.New("unknown agent")

	// ErrStepLimit indicates a turn exceeded its configured step budget.
	ErrStepLimit = errors.New("turn step limit exceeded")

	// ErrPersistence indicates session state could not be saved; no partial
	// state is considered committed.
	ErrPersistence = errors.New("persistence failed")
)

// UnknownAgentError wraps ErrUnknownAgent with the offending target name.
type UnknownAgentError struct {
	Name string
}

func (e *UnknownAgentError) Error() string {
	return fmt.Sprintf("unknown agent %q", e.Name)
}

func (e *UnknownAgentError) Unwrap() error { return ErrUnknownAgent }

// UnauthorizedActionError wraps ErrUnauthorizedAction with the issuing
// agent and the rejected action name.
type UnauthorizedActionError struct {
	Agent  string
	Action string
}

func (e *UnauthorizedActionError) Error() string {
	return fmt.Sprintf("agent %q is not allowed to invoke action %q", e.Agent, e.Action)
}

func (e *UnauthorizedActionError) Unwrap() error { return ErrUnauthorizedAction }
