package core

import (
	"encoding/json"
	"fmt"
	"time"
)

// Wire envelope for polymorphic message parts. Each part serializes with a
// type discriminator so histories survive a store round trip.
type wirePart struct {
	Type   string         `json:"type"`
	Text   string         `json:"text,omitempty"`
	Call   *ActionCall    `json:"call,omitempty"`
	Result *ActionResult  `json:"result,omitempty"`
	Record *HandoffRecord `json:"record,omitempty"`
}

const (
	partText         = "text"
	partActionCall   = "action_call"
	partActionResult = "action_result"
	partHandoff      = "handoff"
)

type wireMessage struct {
	ID        string     `json:"id"`
	Role      string     `json:"role"`
	Author    string     `json:"author"`
	Timestamp time.Time  `json:"timestamp"`
	Parts     []wirePart `json:"parts,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (m Message) MarshalJSON() ([]byte, error) {
	wire := wireMessage{
		ID:        m.ID,
		Role:      m.Role,
		Author:    m.Author,
		Timestamp: m.Timestamp,
	}
	for _, p := range m.Parts {
		switch part := p.(type) {
		case TextPart:
			wire.Parts = append(wire.Parts, wirePart{Type: partText, Text: part.Text})
		case ActionCallPart:
			call := part.Call
			wire.Parts = append(wire.Parts, wirePart{Type: partActionCall, Call: &call})
		case ActionResultPart:
			result := part.Result
			wire.Parts = append(wire.Parts, wirePart{Type: partActionResult, Result: &result})
		case HandoffPart:
			record := part.Record
			wire.Parts = append(wire.Parts, wirePart{Type: partHandoff, Record: &record})
		default:
			return nil, fmt.Errorf("unknown message part type %T", p)
		}
	}
	return json.Marshal(wire)
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Message) UnmarshalJSON(data []byte) error {
	var wire wireMessage
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	m.ID = wire.ID
	m.Role = wire.Role
	m.Author = wire.Author
	m.Timestamp = wire.Timestamp
	m.Parts = nil
	for _, wp := range wire.Parts {
		switch wp.Type {
		case partText:
			m.Parts = append(m.Parts, TextPart{Text: wp.Text})
		case partActionCall:
			if wp.Call == nil {
				return fmt.Errorf("action_call part missing call payload")
			}
			m.Parts = append(m.Parts, ActionCallPart{Call: *wp.Call})
		case partActionResult:
			if wp.Result == nil {
				return fmt.Errorf("action_result part missing result payload")
			}
			m.Parts = append(m.Parts, ActionResultPart{Result: *wp.Result})
		case partHandoff:
			if wp.Record == nil {
				return fmt.Errorf("handoff part missing record payload")
			}
			m.Parts = append(m.Parts, HandoffPart{Record: *wp.Record})
		default:
			return fmt.Errorf("unknown message part type %q", wp.Type)
		}
	}
	return nil
}
