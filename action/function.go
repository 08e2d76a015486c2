package action

import (
	"fmt"
	"time"

	"github.com/AIter-Team/Flo/internal/util"
)

// FuncAction is a generic adapter that exposes a plain Go function as an
// action.
//
// Responsibilities:
//   - Holds a lightweight JSON-Schema-like parameter specification
//   - Validates model supplied arguments against that schema before execution
//   - Invokes the wrapped function with the invocation *Context
//   - Normalizes error handling so callers receive *Error with consistent
//     codes: VALIDATION_ERROR for schema mismatches, EXECUTION_ERROR for
//     plain errors from the function, custom codes preserved when the
//     function returns *Error directly
//
// A FuncAction has no internal mutable state after construction and is safe
// for concurrent use.
type FuncAction struct {
	name        string
	description string
	parameters  map[string]any
	fn          func(actx *Context, args map[string]any) (any, error)
}

// NewFuncAction constructs a FuncAction from explicit schema and function.
func NewFuncAction(
	name, description string,
	parameters map[string]any,
	fn func(actx *Context, args map[string]any) (any, error),
) *FuncAction {
	return &FuncAction{
		name:        name,
		description: description,
		parameters:  parameters,
		fn:          fn,
	}
}

// NewFuncActionFromStruct derives the parameter schema from a struct using
// reflection, equivalent to util.CreateSchema(structType).
func NewFuncActionFromStruct(
	name, description string,
	structType any,
	fn func(actx *Context, args map[string]any) (any, error),
) *FuncAction {
	return NewFuncAction(name, description, util.CreateSchema(structType), fn)
}

// Name returns the unique action name used in call declarations and routing.
func (a *FuncAction) Name() string { return a.name }

// Description returns the short natural language description exposed to models.
func (a *FuncAction) Description() string { return a.description }

// Parameters returns the (minimal) JSON schema describing expected arguments.
func (a *FuncAction) Parameters() map[string]any { return a.parameters }

// Execute validates the provided args against the declared schema then
// invokes the underlying function. Validation or execution failures are
// wrapped (or passed through) as *Error for uniform downstream handling.
func (a *FuncAction) Execute(actx *Context, args map[string]any) (any, error) {
	logger := actx.Logger()
	start := time.Now()

	logger.Debug("action.execute.start", "action", a.name, "call_id", actx.CallID())

	if err := util.ValidateParameters(args, a.parameters); err != nil {
		logger.Warn("action.execute.validation_failed", "action", a.name, "error", err.Error())

		return nil, &Error{
			Action:  a.name,
			Message: fmt.Sprintf("parameter validation failed: %v", err),
			Code:    CodeValidation,
			Details: err,
		}
	}

	result, err := a.fn(actx, args)
	if err != nil {
		if actionErr, ok := err.(*Error); ok {
			logger.Error("action.execute.error", "action", a.name, "error", actionErr.Message)

			return nil, actionErr
		}

		logger.Error("action.execute.error", "action", a.name, "error", err.Error())

		return nil, &Error{
			Action:  a.name,
			Message: err.Error(),
			Code:    CodeExecution,
		}
	}

	logger.Info("action.execute.success", "action", a.name, "duration_ms", time.Since(start).Milliseconds())

	return result, nil
}
