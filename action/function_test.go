package action

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AIter-Team/Flo/core"
)

func testContext(t *testing.T) *Context {
	t.Helper()
	return NewContext(context.Background(), ContextConfig{
		Session:   core.NewSession("s1"),
		CallID:    "call-1",
		AgentName: "quant",
	})
}

func echoSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"value": map[string]any{"type": "string"},
		},
		"required": []string{"value"},
	}
}

func TestFuncActionSuccess(t *testing.T) {
	act := NewFuncAction("echo", "Echo the value.", echoSchema(),
		func(actx *Context, args map[string]any) (any, error) {
			return args["value"], nil
		})

	result, err := act.Execute(testContext(t), map[string]any{"value": "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi", result)
}

func TestFuncActionValidationError(t *testing.T) {
	act := NewFuncAction("echo", "Echo the value.", echoSchema(),
		func(actx *Context, args map[string]any) (any, error) {
			t.Fatal("function must not run on validation failure")
			return nil, nil
		})

	_, err := act.Execute(testContext(t), map[string]any{})
	require.Error(t, err)

	var actErr *Error
	require.ErrorAs(t, err, &actErr)
	assert.Equal(t, CodeValidation, actErr.Code)
	assert.Equal(t, "echo", actErr.Action)
}

func TestFuncActionExecutionErrorWrapped(t *testing.T) {
	act := NewFuncAction("fail", "Always fails.", echoSchema(),
		func(actx *Context, args map[string]any) (any, error) {
			return nil, errors.New("storage offline")
		})

	_, err := act.Execute(testContext(t), map[string]any{"value": "x"})
	var actErr *Error
	require.ErrorAs(t, err, &actErr)
	assert.Equal(t, CodeExecution, actErr.Code)
	assert.Contains(t, actErr.Message, "storage offline")
}

func TestFuncActionCustomErrorPassthrough(t *testing.T) {
	custom := NewError("fail", "quota exhausted", "RATE_LIMITED")
	act := NewFuncAction("fail", "Always fails.", echoSchema(),
		func(actx *Context, args map[string]any) (any, error) {
			return nil, custom
		})

	_, err := act.Execute(testContext(t), map[string]any{"value": "x"})
	var actErr *Error
	require.ErrorAs(t, err, &actErr)
	assert.Equal(t, "RATE_LIMITED", actErr.Code)
}

func TestFuncActionFromStruct(t *testing.T) {
	type args struct {
		Amount float64 `json:"amount"`
	}
	act := NewFuncActionFromStruct("sum", "Add amounts.", args{},
		func(actx *Context, a map[string]any) (any, error) {
			return a["amount"], nil
		})

	properties := act.Parameters()["properties"].(map[string]any)
	assert.Contains(t, properties, "amount")

	_, err := act.Execute(testContext(t), map[string]any{"amount": 2.0})
	assert.NoError(t, err)
}

func TestContextSessionAccess(t *testing.T) {
	sess := core.NewSession("s1")
	var notices []string
	actx := NewContext(context.Background(), ContextConfig{
		Session:   sess,
		CallID:    "call-1",
		AgentName: "quant",
		Progress:  func(s string) { notices = append(notices, s) },
	})

	actx.Set("k", 1)
	assert.Equal(t, 1, actx.Get("k", nil))

	actx.SetBalance(500)
	assert.Equal(t, int64(500), actx.Profile().Balance)

	actx.Progressf("working on %s", "it")
	require.Len(t, notices, 1)
	assert.Equal(t, "working on it", notices[0])
}
