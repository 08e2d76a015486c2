package assistant

import (
	"time"

	"github.com/AIter-Team/Flo/action"
	"github.com/AIter-Team/Flo/finance"
)

type recordTransactionArgs struct {
	Kind        string  `json:"kind" description:"Either 'income' or 'expense'"`
	Amount      float64 `json:"amount" description:"Amount in minor units of the currency"`
	Currency    string  `json:"currency,omitempty" description:"ISO currency code; defaults to the user's preferred currency"`
	Category    string  `json:"category,omitempty" description:"Spending or income category, e.g. food, salary"`
	Description string  `json:"description,omitempty" description:"Free-form note"`
}

// NewRecordTransactionAction records an income or expense and refreshes the
// cached balance on the user profile when the transaction is in the user's
// preferred currency.
func NewRecordTransactionAction(store *finance.Store) action.Action {
	return action.NewFuncActionFromStruct(
		"record_transaction",
		"Record an income or expense transaction for the user.",
		recordTransactionArgs{},
		func(actx *action.Context, args map[string]any) (any, error) {
			kind := argString(args, "kind", "")
			amount, err := requireInt("record_transaction", args, "amount")
			if err != nil {
				return nil, err
			}
			currency := currencyOr(actx, args)

			actx.Progressf("Recording your %s of %d %s...", kind, amount, currency)

			id, err := store.InsertTransaction(finance.Transaction{
				Kind:        kind,
				Amount:      amount,
				Currency:    currency,
				Category:    argString(args, "category", ""),
				Description: argString(args, "description", ""),
				OccurredAt:  time.Now().UTC(),
			})
			if err != nil {
				return nil, err
			}

			if currency == actx.Profile().Currency {
				if balance, err := store.Balance(currency); err == nil {
					actx.SetBalance(balance)
				}
			}

			return success(map[string]any{
				"transaction_id": id,
				"kind":           kind,
				"amount":         amount,
				"currency":       currency,
			}), nil
		},
	)
}

type listTransactionsArgs struct {
	Limit float64 `json:"limit,omitempty" description:"Maximum rows to return; defaults to 20"`
}

// NewListTransactionsAction returns recent transactions, newest first.
func NewListTransactionsAction(store *finance.Store) action.Action {
	return action.NewFuncActionFromStruct(
		"list_transactions",
		"List the user's most recent transactions.",
		listTransactionsArgs{},
		func(actx *action.Context, args map[string]any) (any, error) {
			limit := int(argInt(args, "limit", 20))
			txs, err := store.ListTransactions(limit)
			if err != nil {
				return nil, err
			}
			return success(map[string]any{"transactions": txs, "count": len(txs)}), nil
		},
	)
}

type balanceArgs struct {
	Currency string `json:"currency,omitempty" description:"ISO currency code; defaults to the user's preferred currency"`
}

// NewGetBalanceAction computes the balance for one currency and refreshes
// the cached profile balance for the preferred currency.
func NewGetBalanceAction(store *finance.Store) action.Action {
	return action.NewFuncActionFromStruct(
		"get_balance",
		"Get the user's current balance (income minus expenses) for a currency.",
		balanceArgs{},
		func(actx *action.Context, args map[string]any) (any, error) {
			currency := currencyOr(actx, args)
			balance, err := store.Balance(currency)
			if err != nil {
				return nil, err
			}
			if currency == actx.Profile().Currency {
				actx.SetBalance(balance)
			}
			return success(map[string]any{"balance": balance, "currency": currency}), nil
		},
	)
}

type averageIncomeArgs struct {
	Months   float64 `json:"months,omitempty" description:"Trailing window in months; defaults to 6"`
	Currency string  `json:"currency,omitempty" description:"ISO currency code; defaults to the user's preferred currency"`
}

// NewAverageIncomeAction reports the mean monthly income over a trailing
// window.
func NewAverageIncomeAction(store *finance.Store) action.Action {
	return action.NewFuncActionFromStruct(
		"get_average_income",
		"Compute the user's average monthly income over a trailing window.",
		averageIncomeArgs{},
		func(actx *action.Context, args map[string]any) (any, error) {
			currency := currencyOr(actx, args)
			months := int(argInt(args, "months", 6))
			avg, err := store.AverageMonthlyIncome(currency, months)
			if err != nil {
				return nil, err
			}
			return success(map[string]any{
				"average_monthly_income": avg,
				"currency":               currency,
				"months":                 months,
			}), nil
		},
	)
}

type spendingSummaryArgs struct {
	Days     float64 `json:"days,omitempty" description:"Trailing window in days; defaults to 30"`
	Currency string  `json:"currency,omitempty" description:"ISO currency code; defaults to the user's preferred currency"`
}

// NewSpendingSummaryAction aggregates expenses per category.
func NewSpendingSummaryAction(store *finance.Store) action.Action {
	return action.NewFuncActionFromStruct(
		"get_spending_summary",
		"Summarize the user's spending by category over a trailing window.",
		spendingSummaryArgs{},
		func(actx *action.Context, args map[string]any) (any, error) {
			currency := currencyOr(actx, args)
			days := int(argInt(args, "days", 30))
			byCategory, err := store.SpendingByCategory(currency, days)
			if err != nil {
				return nil, err
			}
			return success(map[string]any{
				"spending_by_category": byCategory,
				"currency":             currency,
				"days":                 days,
			}), nil
		},
	)
}
