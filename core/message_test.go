package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageHelpers(t *testing.T) {
	m := NewUserMessage("hello")
	assert.Equal(t, RoleUser, m.Role)
	assert.Equal(t, "hello", m.Text())
	assert.Empty(t, m.ActionCalls())

	call := ActionCall{ID: "c1", Name: "get_balance", Arguments: `{}`}
	cm := NewActionCallMessage("quant", call)
	require.Len(t, cm.ActionCalls(), 1)
	assert.Equal(t, "get_balance", cm.ActionCalls()[0].Name)
	assert.Equal(t, RoleAssistant, cm.Role)
	assert.Equal(t, "quant", cm.Author)

	rm := NewActionResultMessage("quant", ActionResult{ID: "c1", Name: "get_balance", Response: "ok"})
	require.Len(t, rm.ActionResults(), 1)
	assert.Equal(t, "ok", rm.ActionResults()[0].Response)

	record := HandoffRecord{From: "flo", To: "quant", Reason: "transactions", Scope: ScopeLocal}
	hm := NewHandoffMessage(record)
	got, ok := hm.Handoff()
	require.True(t, ok)
	assert.Equal(t, record, got)
	assert.Equal(t, "flo", hm.Author)

	_, ok = m.Handoff()
	assert.False(t, ok)
}

func TestMessageJSONRoundTrip(t *testing.T) {
	original := NewActionCallMessage("quant", ActionCall{ID: "c1", Name: "record_transaction", Arguments: `{"amount":50000}`})
	original.Parts = append(original.Parts,
		TextPart{Text: "recording"},
		ActionResultPart{Result: ActionResult{ID: "c1", Name: "record_transaction", Error: "boom"}},
		HandoffPart{Record: HandoffRecord{From: "quant", To: "flo", Scope: ScopeToCoordinator}},
	)

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Message
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, original.ID, decoded.ID)
	assert.Equal(t, original.Author, decoded.Author)
	require.Len(t, decoded.Parts, 4)
	assert.Equal(t, "recording", decoded.Text())
	require.Len(t, decoded.ActionCalls(), 1)
	assert.Equal(t, `{"amount":50000}`, decoded.ActionCalls()[0].Arguments)
	require.Len(t, decoded.ActionResults(), 1)
	assert.Equal(t, "boom", decoded.ActionResults()[0].Error)
	record, ok := decoded.Handoff()
	require.True(t, ok)
	assert.Equal(t, ScopeToCoordinator, record.Scope)
}

func TestMessageUnmarshalRejectsUnknownPart(t *testing.T) {
	var m Message
	err := json.Unmarshal([]byte(`{"id":"x","role":"user","parts":[{"type":"bogus"}]}`), &m)
	assert.Error(t, err)
}
