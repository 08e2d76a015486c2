package router

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AIter-Team/Flo/action"
	"github.com/AIter-Team/Flo/agent"
	"github.com/AIter-Team/Flo/core"
)

// invoke executes one ordinary action call on behalf of unit. The action is
// looked up in the issuing unit's declared set only; a miss is a protocol
// violation surfaced as UnauthorizedActionError. Execution failures never
// abort the turn: they are converted into an error result fed back to the
// issuing agent.
func (r *Router) invoke(
	ctx context.Context,
	sess *core.Session,
	unit *agent.Unit,
	call core.ActionCall,
	progress func(string),
) (core.ActionResult, error) {
	act, ok := unit.Action(call.Name)
	if !ok {
		r.metrics.countAction("unauthorized")
		return core.ActionResult{}, &core.UnauthorizedActionError{Agent: unit.Name(), Action: call.Name}
	}

	result := core.ActionResult{ID: call.ID, Name: call.Name}

	args := map[string]any{}
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			r.logger.Warn("router.invoke.bad_args", "action", call.Name, "error", err.Error())
			r.metrics.countAction("error")
			result.Error = fmt.Sprintf("invalid arguments: %v", err)
			return result, nil
		}
	}

	actx := action.NewContext(ctx, action.ContextConfig{
		Session:   sess,
		CallID:    call.ID,
		AgentName: unit.Name(),
		Progress:  progress,
		Logger:    r.logger,
	})

	response, err := r.execute(act, actx, args)
	if err != nil {
		r.metrics.countAction("error")
		result.Error = err.Error()
		return result, nil
	}

	r.metrics.countAction("success")
	result.Response = response
	return result, nil
}

// execute runs the action with panic recovery so a misbehaving implementation
// degrades into an error result instead of tearing down the turn.
func (r *Router) execute(act action.Action, actx *action.Context, args map[string]any) (response any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("router.invoke.panic", "action", act.Name(), "panic", fmt.Sprintf("%v", rec))
			err = fmt.Errorf("action %s panicked: %v", act.Name(), rec)
		}
	}()

	return act.Execute(actx, args)
}
