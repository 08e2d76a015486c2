package action

import (
	"encoding/json"
	"fmt"
)

// TransferName is the reserved action name that requests a control transfer.
// The router intercepts calls with this name; they never reach an Action
// implementation.
const TransferName = "transfer_to_agent"

// TransferDescription is the guidance shown to models for the transfer action.
const TransferDescription = "Request transfer of control to another agent by name. " +
	"Use when another agent is better suited to handle the request."

// TransferParameters returns the JSON schema declared for the transfer action.
func TransferParameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"agent": map[string]any{"type": "string", "description": "Target agent name"},
			"reason": map[string]any{
				"type":        "string",
				"description": "Short reason for the transfer, recorded for auditing",
			},
		},
		"required": []string{"agent"},
	}
}

// ParseTransferArgs decodes the serialized arguments of a transfer call and
// returns the target agent name and the optional reason.
func ParseTransferArgs(arguments string) (target, reason string, err error) {
	var args struct {
		Agent  string `json:"agent"`
		Reason string `json:"reason"`
	}
	if arguments != "" {
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			return "", "", fmt.Errorf("invalid transfer arguments: %w", err)
		}
	}
	if args.Agent == "" {
		return "", "", fmt.Errorf("transfer requires a non-empty 'agent' field")
	}
	return args.Agent, args.Reason, nil
}
