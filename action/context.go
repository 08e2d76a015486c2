package action

import (
	"context"
	"fmt"

	"github.com/AIter-Team/Flo/core"
	"github.com/AIter-Team/Flo/logging"
)

// Context is the constrained surface an action implementation sees during
// one invocation: the working session snapshot, the identifiers correlating
// the invocation with its model request, and the best-effort progress
// channel.
type Context struct {
	ctx       context.Context
	session   *core.Session
	callID    string
	agentName string
	progress  func(string)
	logger    logging.Logger
}

// ContextConfig carries the fields the invoker binds into a new Context.
type ContextConfig struct {
	Session   *core.Session
	CallID    string
	AgentName string
	Progress  func(string)
	Logger    logging.Logger
}

// NewContext constructs an invocation context. A nil Progress function and a
// nil Logger are replaced with no-ops.
func NewContext(ctx context.Context, cfg ContextConfig) *Context {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &Context{
		ctx:       ctx,
		session:   cfg.Session,
		callID:    cfg.CallID,
		agentName: cfg.AgentName,
		progress:  cfg.Progress,
		logger:    logger,
	}
}

// Context returns the context associated with the invocation.
func (c *Context) Context() context.Context { return c.ctx }

// SessionID returns the session ID associated with the invocation.
func (c *Context) SessionID() string { return c.session.ID }

// CallID returns the model call ID that requested this invocation.
func (c *Context) CallID() string { return c.callID }

// AgentName returns the name of the agent that requested this invocation.
func (c *Context) AgentName() string { return c.agentName }

// Logger returns the logger associated with the invocation.
func (c *Context) Logger() logging.Logger { return c.logger }

// Get retrieves the session state value stored under key, or def when absent.
func (c *Context) Get(key string, def any) any { return c.session.Get(key, def) }

// Set stores a key/value pair in the working session state.
func (c *Context) Set(key string, value any) { c.session.Set(key, value) }

// Profile returns a copy of the session's user profile.
func (c *Context) Profile() core.Profile { return c.session.GetProfile() }

// SetProfile replaces the session's user profile.
func (c *Context) SetProfile(p core.Profile) { c.session.SetProfile(p) }

// SetBalance updates the cached balance on the session profile.
func (c *Context) SetBalance(balance int64) { c.session.SetBalance(balance) }

// Progress emits a human-readable progress notice on the turn's side
// channel. Delivery is best effort; a full or absent channel drops the
// notice without blocking the action.
func (c *Context) Progress(notice string) {
	if c.progress != nil {
		c.progress(notice)
	}
}

// Progressf formats and emits a progress notice.
func (c *Context) Progressf(format string, args ...any) {
	c.Progress(fmt.Sprintf(format, args...))
}
