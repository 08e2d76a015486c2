// Package router implements the top-level turn state machine: it selects the
// active agent for a session, runs the step loop (agent, maybe actions,
// maybe handoff, repeat) and terminates the turn when a final message with
// no pending requests is produced.
package router

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/AIter-Team/Flo/action"
	"github.com/AIter-Team/Flo/agent"
	"github.com/AIter-Team/Flo/core"
	"github.com/AIter-Team/Flo/logging"
)

// Defaults applied by New.
const (
	DefaultMaxStepsPerTurn    = 25
	DefaultChunkBuffer        = 64
	DefaultProgressBuffer     = 16
	DefaultRetryBackoff       = 500 * time.Millisecond
	DefaultMaxConcurrentTurns = 64
)

// DefaultApology is emitted when the model fails past its retry budget.
const DefaultApology = "I'm sorry, I'm having trouble responding right now. Please try again in a moment."

// genericFailureText is emitted on protocol violations before the turn is
// surfaced as failed.
const genericFailureText = "Something went wrong on our side. Please try again."

// Options configure a Router instance.
type Options struct {
	// MaxStepsPerTurn bounds the step loop; exceeding it aborts the turn
	// without saving so retried input starts clean.
	MaxStepsPerTurn int
	// ChunkBuffer sizes the per-turn output chunk channel.
	ChunkBuffer int
	// ProgressBuffer sizes the best-effort progress side channel.
	ProgressBuffer int
	// MaxConcurrentTurns caps turns in flight across all sessions. Zero
	// means unlimited.
	MaxConcurrentTurns int
	// RetryBackoff is the delay before the single model-call retry.
	RetryBackoff time.Duration
	// ApologyText overrides the final message emitted when the model fails
	// past its retry budget.
	ApologyText string
	// Metrics receives router instrumentation; nil disables it.
	Metrics *Metrics
	// Logger receives router diagnostics.
	Logger logging.Logger
}

// Router owns turn execution. Turns for the same session id are serialized;
// distinct sessions run concurrently up to MaxConcurrentTurns.
type Router struct {
	units       map[string]*agent.Unit
	coordinator string
	store       core.Store
	opts        Options
	metrics     *Metrics
	logger      logging.Logger
	sem         *semaphore.Weighted

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

// New creates a Router with the given store and coordinator unit. The
// coordinator is registered and owns every session by default.
func New(store core.Store, coordinator *agent.Unit, optFns ...func(o *Options)) *Router {
	opts := Options{
		MaxStepsPerTurn:    DefaultMaxStepsPerTurn,
		ChunkBuffer:        DefaultChunkBuffer,
		ProgressBuffer:     DefaultProgressBuffer,
		MaxConcurrentTurns: DefaultMaxConcurrentTurns,
		RetryBackoff:       DefaultRetryBackoff,
		ApologyText:        DefaultApology,
		Logger:             logging.NewNoOpLogger(),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	r := &Router{
		units:       map[string]*agent.Unit{coordinator.Name(): coordinator},
		coordinator: coordinator.Name(),
		store:       store,
		opts:        opts,
		metrics:     opts.Metrics,
		logger:      opts.Logger,
		locks:       map[string]*sync.Mutex{},
	}
	if opts.MaxConcurrentTurns > 0 {
		r.sem = semaphore.NewWeighted(int64(opts.MaxConcurrentTurns))
	}
	return r
}

// Register adds specialist units to the routing table.
func (r *Router) Register(units ...*agent.Unit) {
	for _, u := range units {
		r.units[u.Name()] = u
	}
}

// Coordinator returns the name of the coordinator unit.
func (r *Router) Coordinator() string { return r.coordinator }

// Unit retrieves a registered unit by name.
func (r *Router) Unit(name string) (*agent.Unit, bool) {
	u, ok := r.units[name]
	return u, ok
}

// Turn is the caller-facing handle for one submitted input: a lazy sequence
// of output chunks terminated by channel close, an out-of-band progress
// stream, and the turn outcome via Wait.
type Turn struct {
	ID       string
	Chunks   <-chan string
	Progress <-chan string

	done chan struct{}
	err  error
}

// Wait blocks until the turn finished and returns its outcome.
func (t *Turn) Wait() error {
	<-t.done
	return t.err
}

// Submit starts one turn for the given session. The returned Turn's channels
// must be drained; they close when the turn ends.
func (r *Router) Submit(ctx context.Context, sessionID, text string) (*Turn, error) {
	if sessionID == "" {
		return nil, errors.New("session id is required")
	}
	if text == "" {
		return nil, errors.New("user message is required")
	}

	chunks := make(chan string, r.opts.ChunkBuffer)
	progress := make(chan string, r.opts.ProgressBuffer)
	t := &Turn{
		ID:       core.NewID(),
		Chunks:   chunks,
		Progress: progress,
		done:     make(chan struct{}),
	}

	go func() {
		defer close(t.done)
		defer close(progress)
		defer close(chunks)
		t.err = r.runTurn(ctx, t.ID, sessionID, text, chunks, progress)
	}()

	return t, nil
}

// runTurn executes the turn state machine for one input. It loads the
// session exactly once, walks the step loop and saves exactly once on
// normal termination. Aborted turns never save, so their state rolls back.
func (r *Router) runTurn(
	ctx context.Context,
	turnID, sessionID, text string,
	chunks chan<- string,
	progress chan<- string,
) error {
	if r.sem != nil {
		if err := r.sem.Acquire(ctx, 1); err != nil {
			r.metrics.countTurn("canceled")
			return err
		}
		defer r.sem.Release(1)
	}

	mu := r.sessionLock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	sendChunk := func(s string) {
		if ctx.Err() != nil {
			return
		}
		select {
		case chunks <- s:
		case <-ctx.Done():
		}
	}
	sendProgress := func(s string) {
		if ctx.Err() != nil {
			return
		}
		select {
		case progress <- s:
		default: // best effort; slow consumers drop notices
		}
	}

	sess, err := r.store.Load(ctx, sessionID)
	if err != nil {
		r.metrics.countTurn("load_failed")
		return fmt.Errorf("load session %s: %w", sessionID, err)
	}

	sess.AppendMessage(core.NewUserMessage(text))
	limiter := core.NewStepLimiter(r.opts.MaxStepsPerTurn)

	r.logger.Info("router.turn.start", "turn", turnID, "session", sessionID)

	for {
		if err := ctx.Err(); err != nil {
			r.metrics.countTurn("canceled")
			return err
		}

		name := sess.GetActiveAgent()
		if name == "" {
			name = r.coordinator
		}
		unit, ok := r.units[name]
		if !ok {
			r.logger.Error("router.turn.unknown_active_agent", "turn", turnID, "agent", name)
			r.metrics.countTurn("error")
			sendChunk(genericFailureText)
			return &core.UnknownAgentError{Name: name}
		}

		if err := limiter.Increment(); err != nil {
			r.logger.Error("router.turn.step_limit", "turn", turnID, "agent", name, "steps", limiter.Count())
			r.metrics.countTurn("step_limit")
			return fmt.Errorf("turn %s: %w", turnID, err)
		}
		r.metrics.countStep()

		chunked := false
		emit := func(s string) {
			chunked = true
			sendChunk(s)
		}

		out, err := r.stepWithRetry(ctx, unit, sess, emit)
		if err != nil {
			if ctx.Err() != nil {
				r.metrics.countTurn("canceled")
				return ctx.Err()
			}
			if errors.Is(err, core.ErrModelCall) {
				apology := r.opts.ApologyText
				sess.AppendMessage(core.NewAssistantMessage(unit.Name(), apology))
				sendChunk(apology)
				break
			}
			r.logger.Error("router.turn.step_failed", "turn", turnID, "agent", name, "error", err.Error())
			r.metrics.countTurn("error")
			sendChunk(genericFailureText)
			return err
		}

		terminal, err := r.dispatch(ctx, sess, unit, out, sendProgress)
		if err != nil {
			if ctx.Err() != nil {
				r.metrics.countTurn("canceled")
				return ctx.Err()
			}
			r.logger.Error("router.turn.dispatch_failed", "turn", turnID, "agent", name, "error", err.Error())
			r.metrics.countTurn("error")
			sendChunk(genericFailureText)
			return err
		}
		if terminal {
			if final, ok := out.(agent.Final); ok && final.Content != "" && !chunked {
				sendChunk(final.Content)
			}
			break
		}
	}

	if err := r.store.Save(ctx, sess); err != nil {
		r.metrics.countTurn("save_failed")
		if errors.Is(err, core.ErrPersistence) {
			return err
		}
		return fmt.Errorf("%w: %v", core.ErrPersistence, err)
	}

	r.logger.Info("router.turn.complete", "turn", turnID, "session", sessionID, "steps", limiter.Count())
	r.metrics.countTurn("success")
	return nil
}

// stepWithRetry runs one agent step, retrying exactly once with backoff when
// the model call failed.
func (r *Router) stepWithRetry(
	ctx context.Context,
	unit *agent.Unit,
	sess *core.Session,
	sendChunk func(string),
) (agent.Output, error) {
	out, err := unit.Step(ctx, sess, sendChunk)
	if err == nil || !errors.Is(err, core.ErrModelCall) || ctx.Err() != nil {
		return out, err
	}

	r.logger.Warn("router.step.retry", "agent", unit.Name(), "error", err.Error())
	r.metrics.countModelRetry()

	select {
	case <-time.After(r.opts.RetryBackoff):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return unit.Step(ctx, sess, sendChunk)
}

// dispatch applies one classified step output to the session. It returns
// terminal=true when the turn should end.
func (r *Router) dispatch(
	ctx context.Context,
	sess *core.Session,
	unit *agent.Unit,
	out agent.Output,
	progress func(string),
) (terminal bool, err error) {
	switch o := out.(type) {
	case agent.Final:
		sess.AppendMessage(core.NewAssistantMessage(unit.Name(), o.Content))
		return true, nil

	case agent.Requests:
		calls := make([]core.ActionCall, 0, len(o.Calls)+1)
		calls = append(calls, o.Calls...)
		if o.Handoff != nil {
			calls = append(calls, *o.Handoff)
		}
		sess.AppendMessage(core.NewActionCallMessage(unit.Name(), calls...))

		for _, call := range o.Calls {
			// Cancellation observed between actions stops the turn; the
			// in-flight action already ran to completion.
			if err := ctx.Err(); err != nil {
				return false, err
			}
			result, err := r.invoke(ctx, sess, unit, call, progress)
			if err != nil {
				return false, err
			}
			sess.AppendMessage(core.NewActionResultMessage(unit.Name(), result))
		}

		if o.Handoff != nil {
			if err := r.processHandoff(sess, unit, *o.Handoff); err != nil {
				return false, err
			}
		}
		return false, nil

	case agent.Handoff:
		sess.AppendMessage(core.NewActionCallMessage(unit.Name(), o.Call))
		if err := r.processHandoff(sess, unit, o.Call); err != nil {
			return false, err
		}
		return false, nil

	default:
		return false, fmt.Errorf("unknown agent output %T", out)
	}
}

// processHandoff validates and applies one transfer request. Unknown targets
// feed an error result back to the issuing agent and leave the active agent
// unchanged; the turn continues. A transfer from a unit that does not allow
// handoffs is a protocol violation.
func (r *Router) processHandoff(sess *core.Session, unit *agent.Unit, call core.ActionCall) error {
	if !unit.AllowsTransfer() {
		return &core.UnauthorizedActionError{Agent: unit.Name(), Action: action.TransferName}
	}

	result := core.ActionResult{ID: call.ID, Name: call.Name}

	target, reason, err := action.ParseTransferArgs(call.Arguments)
	if err == nil {
		if _, known := r.units[target]; !known {
			err = &core.UnknownAgentError{Name: target}
		}
	}
	if err != nil {
		r.logger.Warn("router.handoff.rejected", "from", unit.Name(), "error", err.Error())
		r.metrics.countHandoff("rejected")
		result.Error = err.Error()
		sess.AppendMessage(core.NewActionResultMessage(unit.Name(), result))
		return nil
	}

	scope := core.ScopeLocal
	if target == r.coordinator {
		scope = core.ScopeToCoordinator
	}

	result.Response = map[string]any{"status": "success", "transferred": true, "agent": target}
	sess.AppendMessage(core.NewActionResultMessage(unit.Name(), result))
	sess.AppendMessage(core.NewHandoffMessage(core.HandoffRecord{
		From:   unit.Name(),
		To:     target,
		Reason: reason,
		Scope:  scope,
	}))
	sess.SetActiveAgent(target)

	r.logger.Info("router.handoff", "from", unit.Name(), "to", target, "scope", string(scope))
	r.metrics.countHandoff(string(scope))
	return nil
}

func (r *Router) sessionLock(sessionID string) *sync.Mutex {
	r.lockMu.Lock()
	defer r.lockMu.Unlock()
	mu, ok := r.locks[sessionID]
	if !ok {
		mu = &sync.Mutex{}
		r.locks[sessionID] = mu
	}
	return mu
}
