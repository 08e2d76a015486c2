// Package flo is a multi-agent personal-finance assistant engine.
//
// A coordinator agent ("flo") routes each conversation turn to one of
// several specialist agents. Every agent is a language-model completion
// binding plus a bounded set of callable actions; control moves between
// agents through an explicit handoff protocol recorded in the session
// history. The router package contains the turn state machine, the agent
// package the specialist abstraction, the action package the invocation
// subsystem and the assistant package the concrete finance team.
package flo

// Version is the current release of the engine.
const Version = "0.3.0"
