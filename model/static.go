package model

import (
	"context"
	"fmt"
	"sync"
)

// StaticModel replays a scripted sequence of responses, one script entry per
// Generate call. It exists for tests and offline demos.
type StaticModel struct {
	script []ScriptStep
	calls  int
	mu     sync.Mutex

	// Requests records every request received, in order.
	Requests []Request
}

// ScriptStep is one scripted Generate outcome. When Err is set the error
// channel yields it instead of any responses. ChunkSize > 0 splits the final
// text into partial responses of that many bytes before the final response.
type ScriptStep struct {
	Response  Response
	Err       error
	ChunkSize int
}

// NewStaticModel creates a model that replays the given script. Calls past
// the end of the script fail.
func NewStaticModel(script ...ScriptStep) *StaticModel {
	return &StaticModel{script: script}
}

// Generate implements the Model interface.
func (m *StaticModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response)
	errCh := make(chan error, 1)

	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	idx := m.calls
	m.calls++
	m.mu.Unlock()

	go func() {
		defer close(respCh)
		defer close(errCh)

		if idx >= len(m.script) {
			errCh <- fmt.Errorf("static model script exhausted after %d calls", len(m.script))
			return
		}

		step := m.script[idx]
		if step.Err != nil {
			errCh <- step.Err
			return
		}

		if req.Stream && step.ChunkSize > 0 {
			text := step.Response.Text
			for i := 0; i < len(text); i += step.ChunkSize {
				end := i + step.ChunkSize
				if end > len(text) {
					end = len(text)
				}
				select {
				case respCh <- Response{Partial: true, Text: text[i:end]}:
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				}
			}
		}

		select {
		case respCh <- step.Response:
		case <-ctx.Done():
			errCh <- ctx.Err()
		}
	}()

	return respCh, errCh
}

// Info implements the Model interface.
func (m *StaticModel) Info() Info {
	return Info{Provider: "static", Name: "scripted"}
}

// Calls returns how many Generate calls the model has served.
func (m *StaticModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
