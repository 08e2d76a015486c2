package agent

import "github.com/AIter-Team/Flo/core"

// Output is the classified result of one agent step. The set is closed:
// Final, Requests and Handoff are the only implementations.
type Output interface{ isOutput() }

// Final carries the assistant text that ends the turn.
type Final struct {
	Content string
}

func (Final) isOutput() {}

// Requests carries the ordinary action calls the agent wants executed. When
// the same step also requested a transfer, the transfer call is parked on
// Handoff and processed only after every ordinary call has completed.
type Requests struct {
	Calls   []core.ActionCall
	Handoff *core.ActionCall
}

func (Requests) isOutput() {}

// Handoff carries a transfer request issued without any ordinary calls.
type Handoff struct {
	Call   core.ActionCall
	Target string
	Reason string
}

func (Handoff) isOutput() {}
