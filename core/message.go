package core

import (
	"time"

	"github.com/google/uuid"
)

// Conversation roles carried on messages.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
	RoleSystem    = "system"
)

// Part represents a polymorphic segment of a message. Concrete part types
// implement the unexported isPart marker, keeping the set closed.
type Part interface{ isPart() }

// TextPart is a plain text segment.
type TextPart struct {
	Text string `json:"text"`
}

func (TextPart) isPart() {}

// ActionCall describes a request, produced by a completion call, to execute
// a named action with serialized JSON arguments.
type ActionCall struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Arguments string `json:"arguments,omitempty"`
}

// ActionCallPart wraps an ActionCall as a message part.
type ActionCallPart struct {
	Call ActionCall `json:"call"`
}

func (ActionCallPart) isPart() {}

// ActionResult captures the outcome of an action invocation. Response holds
// the structured success payload; Error is populated instead when the
// action failed.
type ActionResult struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Response any    `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ActionResultPart wraps an ActionResult as a message part.
type ActionResultPart struct {
	Result ActionResult `json:"result"`
}

func (ActionResultPart) isPart() {}

// HandoffScope distinguishes a transfer that stays inside the current turn
// loop from one that returns control to the coordinator.
type HandoffScope string

const (
	// ScopeLocal marks a transfer to a specialist: the turn loop re-enters
	// immediately with the new active agent.
	ScopeLocal HandoffScope = "local"
	// ScopeToCoordinator marks a transfer back to the coordinator.
	ScopeToCoordinator HandoffScope = "to_coordinator"
)

// HandoffRecord is the auditable record of one control transfer.
type HandoffRecord struct {
	From   string       `json:"from"`
	To     string       `json:"to"`
	Reason string       `json:"reason,omitempty"`
	Scope  HandoffScope `json:"scope"`
}

// HandoffPart wraps a HandoffRecord as a message part.
type HandoffPart struct {
	Record HandoffRecord `json:"record"`
}

func (HandoffPart) isPart() {}

// Message is one entry of the session history. After being appended it is
// treated as immutable.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
	Parts     []Part    `json:"parts"`
}

// NewID generates a unique identifier for messages, calls and turns.
func NewID() string { return uuid.NewString() }

// NewMessage creates a bare message with the given role and author.
func NewMessage(role, author string) Message {
	return Message{ID: NewID(), Role: role, Author: author, Timestamp: time.Now().UTC()}
}

// NewUserMessage creates a user-authored text message.
func NewUserMessage(text string) Message {
	m := NewMessage(RoleUser, RoleUser)
	m.Parts = []Part{TextPart{Text: text}}
	return m
}

// NewAssistantMessage creates an assistant text message authored by the
// named agent.
func NewAssistantMessage(author, text string) Message {
	m := NewMessage(RoleAssistant, author)
	m.Parts = []Part{TextPart{Text: text}}
	return m
}

// NewActionCallMessage creates an assistant message carrying one or more
// action call parts in the order produced by the model.
func NewActionCallMessage(author string, calls ...ActionCall) Message {
	m := NewMessage(RoleAssistant, author)
	for _, c := range calls {
		m.Parts = append(m.Parts, ActionCallPart{Call: c})
	}
	return m
}

// NewActionResultMessage records the completion result of an action call.
func NewActionResultMessage(author string, result ActionResult) Message {
	m := NewMessage(RoleTool, author)
	m.Parts = []Part{ActionResultPart{Result: result}}
	return m
}

// NewHandoffMessage records a control transfer attributed to the issuing
// agent.
func NewHandoffMessage(record HandoffRecord) Message {
	m := NewMessage(RoleTool, record.From)
	m.Parts = []Part{HandoffPart{Record: record}}
	return m
}

// Text concatenates the message's text parts.
func (m Message) Text() string {
	var out string
	for _, p := range m.Parts {
		if tp, ok := p.(TextPart); ok {
			out += tp.Text
		}
	}
	return out
}

// ActionCalls returns any action call parts in original order.
func (m Message) ActionCalls() []ActionCall {
	var calls []ActionCall
	for _, p := range m.Parts {
		if cp, ok := p.(ActionCallPart); ok {
			calls = append(calls, cp.Call)
		}
	}
	return calls
}

// ActionResults returns any action result parts in original order.
func (m Message) ActionResults() []ActionResult {
	var results []ActionResult
	for _, p := range m.Parts {
		if rp, ok := p.(ActionResultPart); ok {
			results = append(results, rp.Result)
		}
	}
	return results
}

// Handoff returns the handoff record carried by this message, if any.
func (m Message) Handoff() (HandoffRecord, bool) {
	for _, p := range m.Parts {
		if hp, ok := p.(HandoffPart); ok {
			return hp.Record, true
		}
	}
	return HandoffRecord{}, false
}
