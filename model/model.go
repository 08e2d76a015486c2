// Package model defines the provider-agnostic completion interface used by
// agents, plus adapters for concrete providers in subpackages.
package model

import (
	"context"

	"github.com/AIter-Team/Flo/core"
)

// ActionDefinition describes one action the model may request, in the shape
// providers expect for tool declarations.
type ActionDefinition struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Request is a single completion request: rendered instructions, the visible
// history window and the declared action surface of the calling agent.
type Request struct {
	Instructions string
	Messages     []core.Message
	Actions      []ActionDefinition
	Stream       bool
}

// Response is one element of a completion stream. Partial responses carry
// text deltas; the final response carries the full text, any requested
// action calls and the provider finish reason.
type Response struct {
	Partial      bool
	Text         string
	Calls        []core.ActionCall
	FinishReason string
}

// Info identifies a model implementation.
type Info struct {
	Provider string
	Name     string
}

// Model is the completion interface agents call. Generate returns a response
// channel and an error channel; both close when the call completes. A
// non-streaming call yields exactly one final Response.
type Model interface {
	Generate(ctx context.Context, req Request) (<-chan Response, <-chan error)
	Info() Info
}
