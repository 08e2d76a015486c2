package assistant

import (
	"github.com/AIter-Team/Flo/action"
	"github.com/AIter-Team/Flo/finance"
)

type updateBudgetArgs struct {
	Category     string  `json:"category" description:"Spending category the limit applies to, e.g. food"`
	MonthlyLimit float64 `json:"monthly_limit" description:"Monthly spending limit in minor units"`
	Currency     string  `json:"currency,omitempty" description:"ISO currency code; defaults to the user's preferred currency"`
}

// NewUpdateBudgetAction creates or replaces the monthly limit for a category.
func NewUpdateBudgetAction(store *finance.Store) action.Action {
	return action.NewFuncActionFromStruct(
		"update_budget",
		"Set or change the user's monthly spending limit for a category.",
		updateBudgetArgs{},
		func(actx *action.Context, args map[string]any) (any, error) {
			limit, err := requireInt("update_budget", args, "monthly_limit")
			if err != nil {
				return nil, err
			}
			category := argString(args, "category", "")
			currency := currencyOr(actx, args)

			id, err := store.SetBudget(finance.Budget{
				Category:     category,
				Currency:     currency,
				MonthlyLimit: limit,
			})
			if err != nil {
				return nil, err
			}
			return success(map[string]any{
				"budget_id":     id,
				"category":      category,
				"monthly_limit": limit,
				"currency":      currency,
			}), nil
		},
	)
}

type checkBudgetArgs struct {
	Currency string `json:"currency,omitempty" description:"ISO currency code; defaults to the user's preferred currency"`
}

// NewCheckBudgetAction reports every budget against the last 30 days of
// spending.
func NewCheckBudgetAction(store *finance.Store) action.Action {
	return action.NewFuncActionFromStruct(
		"check_budget",
		"Compare the user's category budgets against recent spending.",
		checkBudgetArgs{},
		func(actx *action.Context, args map[string]any) (any, error) {
			currency := currencyOr(actx, args)
			statuses, err := store.CheckBudgets(currency)
			if err != nil {
				return nil, err
			}
			return success(map[string]any{
				"budgets":  statuses,
				"currency": currency,
				"count":    len(statuses),
			}), nil
		},
	)
}

type updateBalanceArgs struct {
	Balance float64 `json:"balance" description:"New balance in minor units of the user's preferred currency"`
}

// NewUpdateBalanceAction overrides the cached balance on the profile, for
// when the ledger drifted from reality (cash holdings, untracked accounts).
func NewUpdateBalanceAction() action.Action {
	return action.NewFuncActionFromStruct(
		"update_balance",
		"Manually set the user's cached balance when it drifted from the real figure.",
		updateBalanceArgs{},
		func(actx *action.Context, args map[string]any) (any, error) {
			balance, err := requireInt("update_balance", args, "balance")
			if err != nil {
				return nil, err
			}
			actx.SetBalance(balance)
			return success(map[string]any{
				"balance":  balance,
				"currency": actx.Profile().Currency,
			}), nil
		},
	)
}
