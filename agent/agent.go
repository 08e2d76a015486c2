// Package agent implements the model-backed conversational unit: it renders
// personalized instructions, issues one completion call per step and
// classifies the result into a closed set of step outputs the router can
// dispatch on.
package agent

import (
	"context"
	"fmt"

	"github.com/AIter-Team/Flo/action"
	"github.com/AIter-Team/Flo/core"
	"github.com/AIter-Team/Flo/logging"
	"github.com/AIter-Team/Flo/model"
)

// Options configure a Unit instance.
//
// Use functional options with New to override defaults.
type Options struct {
	Description   string
	Instruction   Instruction
	Actions       []action.Action
	MaxHistory    int
	AllowTransfer bool
	Streaming     bool
	Logger        logging.Logger
}

// Unit is one registered agent: a name, an instruction, a model and a
// declared action set. It is stateless between steps; all conversational
// state lives on the session.
type Unit struct {
	name          string
	description   string
	llm           model.Model
	instruction   Instruction
	actions       map[string]action.Action
	order         []string
	maxHistory    int
	allowTransfer bool
	streaming     bool
	logger        logging.Logger
}

// New creates a Unit with sensible defaults: streaming enabled, transfer
// enabled and a 20-message history window.
func New(name string, llm model.Model, optFns ...func(o *Options)) *Unit {
	opts := Options{
		Instruction:   NewInstructionFromText(fmt.Sprintf("You are %s, a helpful assistant.", name)),
		MaxHistory:    20,
		AllowTransfer: true,
		Streaming:     true,
		Logger:        logging.NewNoOpLogger(),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	u := &Unit{
		name:          name,
		description:   opts.Description,
		llm:           llm,
		instruction:   opts.Instruction,
		actions:       make(map[string]action.Action, len(opts.Actions)),
		maxHistory:    opts.MaxHistory,
		allowTransfer: opts.AllowTransfer,
		streaming:     opts.Streaming,
		logger:        opts.Logger,
	}
	for _, a := range opts.Actions {
		u.Register(a)
	}
	return u
}

// Name returns the unit's unique identifier.
func (u *Unit) Name() string { return u.name }

// Description returns the short capability summary shown to the coordinator.
func (u *Unit) Description() string { return u.description }

// AllowsTransfer reports whether this unit may issue handoffs.
func (u *Unit) AllowsTransfer() bool { return u.allowTransfer }

// Register adds an action to the unit's declared capability set.
func (u *Unit) Register(a action.Action) {
	if _, exists := u.actions[a.Name()]; !exists {
		u.order = append(u.order, a.Name())
	}
	u.actions[a.Name()] = a
}

// Action retrieves a declared action by name.
func (u *Unit) Action(name string) (action.Action, bool) {
	a, exists := u.actions[name]
	return a, exists
}

// ActionNames returns the declared action names in registration order.
func (u *Unit) ActionNames() []string {
	names := make([]string, len(u.order))
	copy(names, u.order)
	return names
}

// Definitions returns the action surface declared to the model, including
// the reserved transfer action when the unit allows handoffs.
func (u *Unit) Definitions() []model.ActionDefinition {
	defs := make([]model.ActionDefinition, 0, len(u.order)+1)
	for _, name := range u.order {
		a := u.actions[name]
		defs = append(defs, model.ActionDefinition{
			Name:        a.Name(),
			Description: a.Description(),
			Parameters:  a.Parameters(),
		})
	}
	if u.allowTransfer {
		defs = append(defs, model.ActionDefinition{
			Name:        action.TransferName,
			Description: action.TransferDescription,
			Parameters:  action.TransferParameters(),
		})
	}
	return defs
}

// Step performs one completion call against the current session state and
// classifies the result. Partial text deltas are forwarded to emit as they
// arrive; emit may be nil.
//
// Classification:
//   - a lone transfer call        -> Handoff
//   - any ordinary calls          -> Requests (transfer, if present, parked)
//   - no calls                    -> Final
func (u *Unit) Step(ctx context.Context, sess *core.Session, emit func(chunk string)) (Output, error) {
	instructions, err := u.instruction.Resolve(sess)
	if err != nil {
		return nil, fmt.Errorf("resolve instructions for %s: %w", u.name, err)
	}

	req := model.Request{
		Instructions: instructions,
		Messages:     sess.RecentHistory(u.maxHistory),
		Actions:      u.Definitions(),
		Stream:       u.streaming,
	}

	u.logger.Debug("agent.step.start", "agent", u.name, "history", len(req.Messages))

	respCh, errCh := u.llm.Generate(ctx, req)

	var final *model.Response
	for resp := range respCh {
		if resp.Partial {
			if emit != nil && resp.Text != "" {
				emit(resp.Text)
			}
			continue
		}
		r := resp
		final = &r
	}
	if err := <-errCh; err != nil {
		u.logger.Warn("agent.step.model_error", "agent", u.name, "error", err.Error())
		return nil, fmt.Errorf("%w: %v", core.ErrModelCall, err)
	}
	if final == nil {
		return nil, fmt.Errorf("%w: no final response", core.ErrModelCall)
	}

	return u.classify(*final), nil
}

// classify maps a final model response onto the step output union. Ordinary
// calls keep the order produced by the model; a transfer in a mixed step is
// parked so it is processed only after every ordinary call completed.
func (u *Unit) classify(resp model.Response) Output {
	var ordinary []core.ActionCall
	var transfer *core.ActionCall
	for _, call := range resp.Calls {
		if call.Name == action.TransferName {
			if transfer == nil {
				c := call
				transfer = &c
			}
			continue
		}
		ordinary = append(ordinary, call)
	}

	if len(ordinary) > 0 {
		return Requests{Calls: ordinary, Handoff: transfer}
	}
	if transfer != nil {
		target, reason, err := action.ParseTransferArgs(transfer.Arguments)
		if err != nil {
			u.logger.Warn("agent.step.bad_transfer_args", "agent", u.name, "error", err.Error())
		}
		return Handoff{Call: *transfer, Target: target, Reason: reason}
	}
	return Final{Content: resp.Text}
}
