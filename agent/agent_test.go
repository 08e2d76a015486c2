package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AIter-Team/Flo/action"
	"github.com/AIter-Team/Flo/core"
	"github.com/AIter-Team/Flo/model"
)

func noopAction(name string) action.Action {
	return action.NewFuncAction(name, name+" test action",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(actx *action.Context, args map[string]any) (any, error) {
			return map[string]any{"ok": true}, nil
		})
}

func TestStepFinal(t *testing.T) {
	llm := model.NewStaticModel(model.ScriptStep{
		Response: model.Response{Text: "All done."},
	})
	u := New("quant", llm)
	sess := core.NewSession("s1")
	sess.AppendMessage(core.NewUserMessage("hello"))

	out, err := u.Step(context.Background(), sess, nil)
	require.NoError(t, err)

	final, ok := out.(Final)
	require.True(t, ok, "expected Final, got %T", out)
	assert.Equal(t, "All done.", final.Content)
}

func TestStepForwardsPartialChunks(t *testing.T) {
	llm := model.NewStaticModel(model.ScriptStep{
		Response:  model.Response{Text: "chunked reply"},
		ChunkSize: 4,
	})
	u := New("quant", llm)
	sess := core.NewSession("s1")

	var streamed string
	out, err := u.Step(context.Background(), sess, func(chunk string) { streamed += chunk })
	require.NoError(t, err)

	assert.Equal(t, "chunked reply", streamed)
	assert.IsType(t, Final{}, out)
}

func TestStepRequestsKeepModelOrder(t *testing.T) {
	llm := model.NewStaticModel(model.ScriptStep{
		Response: model.Response{Calls: []core.ActionCall{
			{ID: "c1", Name: "record_transaction", Arguments: `{}`},
			{ID: "c2", Name: "get_balance", Arguments: `{}`},
		}},
	})
	u := New("quant", llm, func(o *Options) {
		o.Actions = []action.Action{noopAction("record_transaction"), noopAction("get_balance")}
	})

	out, err := u.Step(context.Background(), core.NewSession("s1"), nil)
	require.NoError(t, err)

	reqs, ok := out.(Requests)
	require.True(t, ok, "expected Requests, got %T", out)
	require.Len(t, reqs.Calls, 2)
	assert.Equal(t, "record_transaction", reqs.Calls[0].Name)
	assert.Equal(t, "get_balance", reqs.Calls[1].Name)
	assert.Nil(t, reqs.Handoff)
}

func TestStepMixedCallsParkTransfer(t *testing.T) {
	llm := model.NewStaticModel(model.ScriptStep{
		Response: model.Response{Calls: []core.ActionCall{
			{ID: "c1", Name: action.TransferName, Arguments: `{"agent":"flo"}`},
			{ID: "c2", Name: "get_balance", Arguments: `{}`},
		}},
	})
	u := New("quant", llm, func(o *Options) {
		o.Actions = []action.Action{noopAction("get_balance")}
	})

	out, err := u.Step(context.Background(), core.NewSession("s1"), nil)
	require.NoError(t, err)

	reqs, ok := out.(Requests)
	require.True(t, ok, "expected Requests, got %T", out)
	require.Len(t, reqs.Calls, 1)
	assert.Equal(t, "get_balance", reqs.Calls[0].Name)
	require.NotNil(t, reqs.Handoff)
	assert.Equal(t, action.TransferName, reqs.Handoff.Name)
}

func TestStepLoneTransferIsHandoff(t *testing.T) {
	llm := model.NewStaticModel(model.ScriptStep{
		Response: model.Response{Calls: []core.ActionCall{
			{ID: "c1", Name: action.TransferName, Arguments: `{"agent":"quant","reason":"income question"}`},
		}},
	})
	u := New("flo", llm)

	out, err := u.Step(context.Background(), core.NewSession("s1"), nil)
	require.NoError(t, err)

	handoff, ok := out.(Handoff)
	require.True(t, ok, "expected Handoff, got %T", out)
	assert.Equal(t, "quant", handoff.Target)
	assert.Equal(t, "income question", handoff.Reason)
}

func TestStepBadTransferArgsYieldEmptyTarget(t *testing.T) {
	llm := model.NewStaticModel(model.ScriptStep{
		Response: model.Response{Calls: []core.ActionCall{
			{ID: "c1", Name: action.TransferName, Arguments: `{broken`},
		}},
	})
	u := New("flo", llm)

	out, err := u.Step(context.Background(), core.NewSession("s1"), nil)
	require.NoError(t, err)

	handoff, ok := out.(Handoff)
	require.True(t, ok)
	assert.Empty(t, handoff.Target)
}

func TestStepModelErrorIsClassified(t *testing.T) {
	llm := model.NewStaticModel(model.ScriptStep{Err: errors.New("upstream 500")})
	u := New("quant", llm)

	_, err := u.Step(context.Background(), core.NewSession("s1"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrModelCall)
}

func TestStepSendsActionSurface(t *testing.T) {
	llm := model.NewStaticModel(model.ScriptStep{
		Response: model.Response{Text: "ok"},
	})
	u := New("quant", llm, func(o *Options) {
		o.Actions = []action.Action{noopAction("get_balance")}
	})

	_, err := u.Step(context.Background(), core.NewSession("s1"), nil)
	require.NoError(t, err)

	require.Len(t, llm.Requests, 1)
	names := make([]string, 0, len(llm.Requests[0].Actions))
	for _, d := range llm.Requests[0].Actions {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"get_balance", action.TransferName}, names)
}

func TestStepOmitsTransferWhenDisabled(t *testing.T) {
	llm := model.NewStaticModel(model.ScriptStep{
		Response: model.Response{Text: "ok"},
	})
	u := New("steward", llm, func(o *Options) {
		o.AllowTransfer = false
	})

	_, err := u.Step(context.Background(), core.NewSession("s1"), nil)
	require.NoError(t, err)

	require.Len(t, llm.Requests, 1)
	assert.Empty(t, llm.Requests[0].Actions)
	assert.False(t, u.AllowsTransfer())
}

func TestStepRespectsHistoryWindow(t *testing.T) {
	llm := model.NewStaticModel(model.ScriptStep{
		Response: model.Response{Text: "ok"},
	})
	u := New("quant", llm, func(o *Options) { o.MaxHistory = 2 })

	sess := core.NewSession("s1")
	for i := 0; i < 5; i++ {
		sess.AppendMessage(core.NewUserMessage("msg"))
	}

	_, err := u.Step(context.Background(), sess, nil)
	require.NoError(t, err)
	assert.Len(t, llm.Requests[0].Messages, 2)
}
