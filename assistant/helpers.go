// Package assistant assembles the personal-finance agent team: the
// coordinator, the four specialists, their prompts and the actions binding
// them to the finance store.
package assistant

import (
	"fmt"

	"github.com/AIter-Team/Flo/action"
)

// success builds the conventional success payload actions feed back to the
// model.
func success(fields map[string]any) map[string]any {
	if fields == nil {
		fields = map[string]any{}
	}
	fields["status"] = "success"
	return fields
}

func argString(args map[string]any, key, def string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return def
}

func argInt(args map[string]any, key string, def int64) int64 {
	switch v := args[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}
	return def
}

func argFloat(args map[string]any, key string, def float64) float64 {
	switch v := args[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return def
}

// requireInt extracts a mandatory integer argument.
func requireInt(actionName string, args map[string]any, key string) (int64, error) {
	switch v := args[key].(type) {
	case float64:
		return int64(v), nil
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	}
	return 0, action.NewError(actionName, fmt.Sprintf("missing or invalid %q", key), action.CodeValidation)
}

// currencyOr falls back to the session's preferred currency.
func currencyOr(actx *action.Context, args map[string]any) string {
	if v, ok := args["currency"].(string); ok && v != "" {
		return v
	}
	return actx.Profile().Currency
}
