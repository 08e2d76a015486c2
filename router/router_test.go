package router

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AIter-Team/Flo/action"
	"github.com/AIter-Team/Flo/agent"
	"github.com/AIter-Team/Flo/core"
	"github.com/AIter-Team/Flo/model"
	"github.com/AIter-Team/Flo/session"
)

func scriptedUnit(name string, actions []action.Action, steps ...model.ScriptStep) (*agent.Unit, *model.StaticModel) {
	llm := model.NewStaticModel(steps...)
	u := agent.New(name, llm, func(o *agent.Options) {
		o.Actions = actions
	})
	return u, llm
}

func transferCall(target, reason string) core.ActionCall {
	return core.ActionCall{
		ID:        core.NewID(),
		Name:      action.TransferName,
		Arguments: `{"agent":"` + target + `","reason":"` + reason + `"}`,
	}
}

func runTurn(t *testing.T, r *Router, sessionID, text string) ([]string, []string, error) {
	t.Helper()
	turn, err := r.Submit(context.Background(), sessionID, text)
	require.NoError(t, err)

	var notices []string
	noticesDone := make(chan struct{})
	go func() {
		defer close(noticesDone)
		for n := range turn.Progress {
			notices = append(notices, n)
		}
	}()

	var chunks []string
	for c := range turn.Chunks {
		chunks = append(chunks, c)
	}
	<-noticesDone
	return chunks, notices, turn.Wait()
}

func fastRetry(o *Options) { o.RetryBackoff = time.Millisecond }

func TestTurnFinalTerminatesInOneStep(t *testing.T) {
	store := session.NewInMemoryStore()
	flo, llm := scriptedUnit("flo", nil, model.ScriptStep{
		Response: model.Response{Text: "Hello! How can I help with your finances?"},
	})
	r := New(store, flo, fastRetry)

	chunks, _, err := runTurn(t, r, "s1", "hi")
	require.NoError(t, err)
	assert.Equal(t, 1, llm.Calls())
	require.Len(t, chunks, 1)
	assert.Equal(t, "Hello! How can I help with your finances?", chunks[0])

	sess, err := store.Load(context.Background(), "s1")
	require.NoError(t, err)
	history := sess.History()
	require.Len(t, history, 2)
	assert.Equal(t, core.RoleUser, history[0].Role)
	assert.Equal(t, "hi", history[0].Text())
	assert.Equal(t, core.RoleAssistant, history[1].Role)
	assert.Equal(t, "flo", history[1].Author)
}

func TestTurnAppendsAfterExistingHistory(t *testing.T) {
	store := session.NewInMemoryStore()
	seed, err := store.Load(context.Background(), "s1")
	require.NoError(t, err)
	seed.AppendMessage(core.NewUserMessage("earlier"))
	seed.AppendMessage(core.NewAssistantMessage("flo", "noted"))
	require.NoError(t, store.Save(context.Background(), seed))

	flo, _ := scriptedUnit("flo", nil, model.ScriptStep{
		Response: model.Response{Text: "still here"},
	})
	r := New(store, flo, fastRetry)

	_, _, err = runTurn(t, r, "s1", "again")
	require.NoError(t, err)

	sess, _ := store.Load(context.Background(), "s1")
	history := sess.History()
	require.Len(t, history, 4)
	assert.Equal(t, "earlier", history[0].Text())
	assert.Equal(t, "noted", history[1].Text())
	assert.Equal(t, "again", history[2].Text())
}

func TestTurnStreamedFinalNotRepeated(t *testing.T) {
	store := session.NewInMemoryStore()
	flo, _ := scriptedUnit("flo", nil, model.ScriptStep{
		Response:  model.Response{Text: "streamed answer"},
		ChunkSize: 5,
	})
	r := New(store, flo, fastRetry)

	chunks, _, err := runTurn(t, r, "s1", "hi")
	require.NoError(t, err)

	var joined string
	for _, c := range chunks {
		joined += c
	}
	assert.Equal(t, "streamed answer", joined)
}

func TestTurnHandoffScenario(t *testing.T) {
	store := session.NewInMemoryStore()

	record := action.NewFuncAction("record_transaction", "Record a transaction.",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(actx *action.Context, args map[string]any) (any, error) {
			actx.Progressf("recording %v %v", args["amount"], args["currency"])
			return map[string]any{"status": "success", "id": int64(1)}, nil
		})

	flo, _ := scriptedUnit("flo", nil,
		model.ScriptStep{Response: model.Response{Calls: []core.ActionCall{transferCall("quant", "expense entry")}}},
		model.ScriptStep{Response: model.Response{Text: "Logged your lunch, 50000 IDR."}},
	)
	quant, _ := scriptedUnit("quant", []action.Action{record},
		model.ScriptStep{Response: model.Response{Calls: []core.ActionCall{
			{ID: "c1", Name: "record_transaction", Arguments: `{"amount":50000,"currency":"IDR","category":"food"}`},
		}}},
		model.ScriptStep{Response: model.Response{Calls: []core.ActionCall{transferCall("flo", "done")}}},
	)

	r := New(store, flo, fastRetry)
	r.Register(quant)

	chunks, notices, err := runTurn(t, r, "s1", "I spent 50000 IDR on lunch")
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	assert.Equal(t, "Logged your lunch, 50000 IDR.", chunks[len(chunks)-1])
	assert.NotEmpty(t, notices)

	sess, _ := store.Load(context.Background(), "s1")
	assert.Equal(t, "flo", sess.GetActiveAgent())

	var handoffs []core.HandoffRecord
	var results []core.ActionResult
	for _, m := range sess.History() {
		if rec, ok := m.Handoff(); ok {
			handoffs = append(handoffs, rec)
		}
		results = append(results, m.ActionResults()...)
	}

	require.Len(t, handoffs, 2)
	assert.Equal(t, "flo", handoffs[0].From)
	assert.Equal(t, "quant", handoffs[0].To)
	assert.Equal(t, core.ScopeLocal, handoffs[0].Scope)
	assert.Equal(t, "quant", handoffs[1].From)
	assert.Equal(t, "flo", handoffs[1].To)
	assert.Equal(t, core.ScopeToCoordinator, handoffs[1].Scope)

	var recorded bool
	for _, res := range results {
		if res.Name == "record_transaction" {
			recorded = true
			assert.Empty(t, res.Error)
		}
	}
	assert.True(t, recorded, "expected a record_transaction result in history")
}

func TestTurnActionErrorFedBack(t *testing.T) {
	store := session.NewInMemoryStore()

	failing := action.NewFuncAction("get_balance", "Fails once.",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(actx *action.Context, args map[string]any) (any, error) {
			return nil, errors.New("database locked")
		})

	flo, _ := scriptedUnit("flo", []action.Action{failing},
		model.ScriptStep{Response: model.Response{Calls: []core.ActionCall{
			{ID: "c1", Name: "get_balance", Arguments: `{}`},
		}}},
		model.ScriptStep{Response: model.Response{Text: "I couldn't read your balance just now."}},
	)
	r := New(store, flo, fastRetry)

	chunks, _, err := runTurn(t, r, "s1", "balance?")
	require.NoError(t, err)
	assert.Equal(t, "I couldn't read your balance just now.", chunks[len(chunks)-1])

	sess, _ := store.Load(context.Background(), "s1")
	var found bool
	for _, m := range sess.History() {
		for _, res := range m.ActionResults() {
			if res.Name == "get_balance" {
				found = true
				assert.Contains(t, res.Error, "database locked")
			}
		}
	}
	assert.True(t, found)
}

func TestTurnUnknownHandoffTargetContinues(t *testing.T) {
	store := session.NewInMemoryStore()
	flo, _ := scriptedUnit("flo", nil,
		model.ScriptStep{Response: model.Response{Calls: []core.ActionCall{transferCall("ghost", "oops")}}},
		model.ScriptStep{Response: model.Response{Text: "Let me handle that myself."}},
	)
	r := New(store, flo, fastRetry)

	chunks, _, err := runTurn(t, r, "s1", "help")
	require.NoError(t, err)
	assert.Equal(t, "Let me handle that myself.", chunks[len(chunks)-1])

	sess, _ := store.Load(context.Background(), "s1")
	assert.Empty(t, sess.GetActiveAgent(), "active agent must not change on a rejected handoff")

	var rejected bool
	for _, m := range sess.History() {
		for _, res := range m.ActionResults() {
			if res.Name == action.TransferName && res.Error != "" {
				rejected = true
				assert.Contains(t, res.Error, "ghost")
			}
		}
		_, hasRecord := m.Handoff()
		assert.False(t, hasRecord, "rejected handoffs leave no handoff record")
	}
	assert.True(t, rejected)
}

func TestTurnUnauthorizedActionAborts(t *testing.T) {
	store := session.NewInMemoryStore()
	flo, _ := scriptedUnit("flo", nil,
		model.ScriptStep{Response: model.Response{Calls: []core.ActionCall{
			{ID: "c1", Name: "delete_everything", Arguments: `{}`},
		}}},
	)
	r := New(store, flo, fastRetry)

	chunks, _, err := runTurn(t, r, "s1", "do it")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnauthorizedAction)
	require.NotEmpty(t, chunks)
	assert.Equal(t, genericFailureText, chunks[len(chunks)-1])

	sess, _ := store.Load(context.Background(), "s1")
	assert.Empty(t, sess.History(), "aborted turns must not persist state")
}

func TestTurnUnknownActiveAgentFails(t *testing.T) {
	store := session.NewInMemoryStore()
	seed, _ := store.Load(context.Background(), "s1")
	seed.SetActiveAgent("ghost")
	require.NoError(t, store.Save(context.Background(), seed))

	flo, _ := scriptedUnit("flo", nil)
	r := New(store, flo, fastRetry)

	chunks, _, err := runTurn(t, r, "s1", "hello?")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnknownAgent)
	require.NotEmpty(t, chunks)
	assert.Equal(t, genericFailureText, chunks[0])
}

func TestTurnStepLimitRollsBack(t *testing.T) {
	store := session.NewInMemoryStore()

	ping := make([]model.ScriptStep, 0, 8)
	pong := make([]model.ScriptStep, 0, 8)
	for i := 0; i < 8; i++ {
		ping = append(ping, model.ScriptStep{Response: model.Response{Calls: []core.ActionCall{transferCall("quant", "loop")}}})
		pong = append(pong, model.ScriptStep{Response: model.Response{Calls: []core.ActionCall{transferCall("flo", "loop")}}})
	}
	flo, floLLM := scriptedUnit("flo", nil, ping...)
	quant, _ := scriptedUnit("quant", nil, pong...)

	r := New(store, flo, fastRetry, func(o *Options) { o.MaxStepsPerTurn = 4 })
	r.Register(quant)

	_, _, err := runTurn(t, r, "s1", "loop forever")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrStepLimit)
	assert.LessOrEqual(t, floLLM.Calls(), 4)

	sess, _ := store.Load(context.Background(), "s1")
	assert.Empty(t, sess.History(), "aborted turns must not persist state")
	assert.Empty(t, sess.GetActiveAgent())
}

func TestTurnModelRetrySucceeds(t *testing.T) {
	store := session.NewInMemoryStore()
	flo, llm := scriptedUnit("flo", nil,
		model.ScriptStep{Err: errors.New("upstream 503")},
		model.ScriptStep{Response: model.Response{Text: "recovered"}},
	)
	r := New(store, flo, fastRetry)

	chunks, _, err := runTurn(t, r, "s1", "hi")
	require.NoError(t, err)
	assert.Equal(t, 2, llm.Calls())
	assert.Equal(t, "recovered", chunks[len(chunks)-1])
}

func TestTurnModelFailureApologizes(t *testing.T) {
	store := session.NewInMemoryStore()
	flo, llm := scriptedUnit("flo", nil,
		model.ScriptStep{Err: errors.New("upstream 503")},
		model.ScriptStep{Err: errors.New("upstream 503 again")},
	)
	r := New(store, flo, fastRetry)

	chunks, _, err := runTurn(t, r, "s1", "hi")
	require.NoError(t, err, "a model outage ends the turn gracefully")
	assert.Equal(t, 2, llm.Calls(), "exactly one retry")
	require.NotEmpty(t, chunks)
	assert.Equal(t, DefaultApology, chunks[len(chunks)-1])

	sess, _ := store.Load(context.Background(), "s1")
	history := sess.History()
	require.Len(t, history, 2)
	assert.Equal(t, DefaultApology, history[1].Text())
}

func TestTurnCancellation(t *testing.T) {
	store := session.NewInMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())

	slow := action.NewFuncAction("slow", "Cancels mid-flight.",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(actx *action.Context, args map[string]any) (any, error) {
			cancel()
			return map[string]any{"status": "success"}, nil
		})

	flo, _ := scriptedUnit("flo", []action.Action{slow},
		model.ScriptStep{Response: model.Response{Calls: []core.ActionCall{
			{ID: "c1", Name: "slow", Arguments: `{}`},
			{ID: "c2", Name: "slow", Arguments: `{}`},
		}}},
	)
	r := New(store, flo, fastRetry)

	turn, err := r.Submit(ctx, "s1", "go")
	require.NoError(t, err)
	for range turn.Chunks {
	}
	for range turn.Progress {
	}
	err = turn.Wait()
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	sess, _ := store.Load(context.Background(), "s1")
	assert.Empty(t, sess.History(), "canceled turns must not persist state")
}

// failingSaveStore delegates loads but refuses every save.
type failingSaveStore struct {
	*session.InMemoryStore
	saveErr error
}

func (s *failingSaveStore) Save(ctx context.Context, sess *core.Session) error {
	return s.saveErr
}

func TestTurnSaveFailureFailsTurn(t *testing.T) {
	store := &failingSaveStore{
		InMemoryStore: session.NewInMemoryStore(),
		saveErr:       errors.New("disk full"),
	}
	flo, _ := scriptedUnit("flo", nil, model.ScriptStep{
		Response: model.Response{Text: "about to be lost"},
	})
	r := New(store, flo, fastRetry)

	_, _, err := runTurn(t, r, "s1", "hi")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrPersistence)

	sess, loadErr := store.InMemoryStore.Load(context.Background(), "s1")
	require.NoError(t, loadErr)
	assert.Empty(t, sess.History(), "no partial state is committed on save failure")
}

func TestSubmitValidation(t *testing.T) {
	flo, _ := scriptedUnit("flo", nil)
	r := New(session.NewInMemoryStore(), flo)

	_, err := r.Submit(context.Background(), "", "hi")
	assert.Error(t, err)
	_, err = r.Submit(context.Background(), "s1", "")
	assert.Error(t, err)
}

func TestTurnsSerializedPerSession(t *testing.T) {
	store := session.NewInMemoryStore()
	flo, _ := scriptedUnit("flo", nil,
		model.ScriptStep{Response: model.Response{Text: "one"}},
		model.ScriptStep{Response: model.Response{Text: "two"}},
	)
	r := New(store, flo, fastRetry)

	_, _, err := runTurn(t, r, "s1", "first")
	require.NoError(t, err)
	_, _, err = runTurn(t, r, "s1", "second")
	require.NoError(t, err)

	sess, _ := store.Load(context.Background(), "s1")
	history := sess.History()
	require.Len(t, history, 4)
	assert.Equal(t, "first", history[0].Text())
	assert.Equal(t, "one", history[1].Text())
	assert.Equal(t, "second", history[2].Text())
	assert.Equal(t, "two", history[3].Text())
}
