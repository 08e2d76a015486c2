package assistant

import (
	"time"

	"github.com/AIter-Team/Flo/action"
	"github.com/AIter-Team/Flo/finance"
)

type currentTimeArgs struct{}

// NewCurrentTimeAction reports the current time in UTC.
func NewCurrentTimeAction() action.Action {
	return action.NewFuncActionFromStruct(
		"get_current_time",
		"Get the current date and time.",
		currentTimeArgs{},
		func(actx *action.Context, args map[string]any) (any, error) {
			now := time.Now().UTC()
			return success(map[string]any{
				"iso":     now.Format(time.RFC3339),
				"weekday": now.Weekday().String(),
			}), nil
		},
	)
}

type updatePreferencesArgs struct {
	Name     string `json:"name,omitempty" description:"The user's preferred name"`
	Language string `json:"language,omitempty" description:"The user's preferred language"`
	Currency string `json:"currency,omitempty" description:"The user's preferred ISO currency code"`
}

// NewUpdatePreferencesAction writes the user-profile fields that personalize
// every agent's instructions. Changes take effect on the next step within
// the same turn.
func NewUpdatePreferencesAction() action.Action {
	return action.NewFuncActionFromStruct(
		"update_user_preferences",
		"Update the user's preferred name, language or currency.",
		updatePreferencesArgs{},
		func(actx *action.Context, args map[string]any) (any, error) {
			profile := actx.Profile()
			if v := argString(args, "name", ""); v != "" {
				profile.Name = v
			}
			if v := argString(args, "language", ""); v != "" {
				profile.Language = v
			}
			if v := argString(args, "currency", ""); v != "" {
				profile.Currency = v
			}
			actx.SetProfile(profile)
			return success(map[string]any{
				"name":     profile.Name,
				"language": profile.Language,
				"currency": profile.Currency,
			}), nil
		},
	)
}

type overviewArgs struct{}

// NewOverviewAction assembles a read-only snapshot across every finance
// area. It never writes.
func NewOverviewAction(store *finance.Store) action.Action {
	return action.NewFuncActionFromStruct(
		"get_financial_overview",
		"Get a read-only overview of balance, liabilities, investments, goals and wishlist.",
		overviewArgs{},
		func(actx *action.Context, args map[string]any) (any, error) {
			actx.Progressf("Putting together your financial overview...")

			profile := actx.Profile()
			overview := map[string]any{"currency": profile.Currency}

			balance, err := store.Balance(profile.Currency)
			if err != nil {
				return nil, err
			}
			overview["balance"] = balance

			budgets, err := store.CheckBudgets(profile.Currency)
			if err != nil {
				return nil, err
			}
			overview["budgets"] = budgets

			liabilities, err := store.ListLiabilities()
			if err != nil {
				return nil, err
			}
			overview["liabilities"] = liabilities

			investments, err := store.ListInvestments()
			if err != nil {
				return nil, err
			}
			overview["investments"] = investments

			goals, err := store.ListGoals()
			if err != nil {
				return nil, err
			}
			overview["goals"] = goals

			wishlist, err := store.ListWishlist()
			if err != nil {
				return nil, err
			}
			overview["wishlist"] = wishlist

			return success(map[string]any{"overview": overview}), nil
		},
	)
}
