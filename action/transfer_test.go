package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTransferArgs(t *testing.T) {
	target, reason, err := ParseTransferArgs(`{"agent":"quant","reason":"transactions"}`)
	require.NoError(t, err)
	assert.Equal(t, "quant", target)
	assert.Equal(t, "transactions", reason)
}

func TestParseTransferArgsMissingAgent(t *testing.T) {
	_, _, err := ParseTransferArgs(`{"reason":"nope"}`)
	assert.Error(t, err)

	_, _, err = ParseTransferArgs("")
	assert.Error(t, err)
}

func TestParseTransferArgsMalformed(t *testing.T) {
	_, _, err := ParseTransferArgs(`{not json`)
	assert.Error(t, err)
}

func TestTransferParametersShape(t *testing.T) {
	params := TransferParameters()
	properties := params["properties"].(map[string]any)
	assert.Contains(t, properties, "agent")
	assert.Contains(t, properties, "reason")
	assert.Equal(t, []string{"agent"}, params["required"])
}
