package assistant

import (
	"github.com/AIter-Team/Flo/action"
	"github.com/AIter-Team/Flo/finance"
)

type addDebtArgs struct {
	Name        string  `json:"name" description:"Short name for the debt"`
	Lender      string  `json:"lender,omitempty" description:"Who the money is owed to"`
	Principal   float64 `json:"principal" description:"Original amount in minor units"`
	Outstanding float64 `json:"outstanding,omitempty" description:"Remaining amount; defaults to the principal"`
	Currency    string  `json:"currency,omitempty" description:"ISO currency code; defaults to the user's preferred currency"`
}

// NewAddDebtAction records a lump-sum debt.
func NewAddDebtAction(store *finance.Store) action.Action {
	return action.NewFuncActionFromStruct(
		"add_debt",
		"Record a debt the user owes.",
		addDebtArgs{},
		func(actx *action.Context, args map[string]any) (any, error) {
			principal, err := requireInt("add_debt", args, "principal")
			if err != nil {
				return nil, err
			}
			outstanding := argInt(args, "outstanding", principal)

			actx.Progressf("Adding your debt...")

			id, err := store.InsertDebt(finance.Debt{
				Name:        argString(args, "name", ""),
				Lender:      argString(args, "lender", ""),
				Principal:   principal,
				Outstanding: outstanding,
				Currency:    currencyOr(actx, args),
			})
			if err != nil {
				return nil, err
			}
			return success(map[string]any{"debt_id": id}), nil
		},
	)
}

type addInstallmentArgs struct {
	Name          string  `json:"name" description:"Short name for the installment plan"`
	MonthlyAmount float64 `json:"monthly_amount" description:"Monthly payment in minor units"`
	MonthsTotal   float64 `json:"months_total" description:"Total number of monthly payments"`
	MonthsPaid    float64 `json:"months_paid,omitempty" description:"Payments already made"`
	Currency      string  `json:"currency,omitempty" description:"ISO currency code; defaults to the user's preferred currency"`
}

// NewAddInstallmentAction records a fixed monthly payment plan.
func NewAddInstallmentAction(store *finance.Store) action.Action {
	return action.NewFuncActionFromStruct(
		"add_installment",
		"Record an installment plan with fixed monthly payments.",
		addInstallmentArgs{},
		func(actx *action.Context, args map[string]any) (any, error) {
			monthly, err := requireInt("add_installment", args, "monthly_amount")
			if err != nil {
				return nil, err
			}
			id, err := store.InsertInstallment(finance.Installment{
				Name:          argString(args, "name", ""),
				MonthlyAmount: monthly,
				Currency:      currencyOr(actx, args),
				MonthsTotal:   int(argInt(args, "months_total", 0)),
				MonthsPaid:    int(argInt(args, "months_paid", 0)),
			})
			if err != nil {
				return nil, err
			}
			return success(map[string]any{"installment_id": id}), nil
		},
	)
}

type addSubscriptionArgs struct {
	Name          string  `json:"name" description:"Service name"`
	MonthlyAmount float64 `json:"monthly_amount" description:"Monthly charge in minor units"`
	Currency      string  `json:"currency,omitempty" description:"ISO currency code; defaults to the user's preferred currency"`
}

// NewAddSubscriptionAction records a recurring subscription.
func NewAddSubscriptionAction(store *finance.Store) action.Action {
	return action.NewFuncActionFromStruct(
		"add_subscription",
		"Record a recurring monthly subscription.",
		addSubscriptionArgs{},
		func(actx *action.Context, args map[string]any) (any, error) {
			monthly, err := requireInt("add_subscription", args, "monthly_amount")
			if err != nil {
				return nil, err
			}
			id, err := store.InsertSubscription(finance.Subscription{
				Name:          argString(args, "name", ""),
				MonthlyAmount: monthly,
				Currency:      currencyOr(actx, args),
				Active:        true,
			})
			if err != nil {
				return nil, err
			}
			return success(map[string]any{"subscription_id": id}), nil
		},
	)
}

type cancelSubscriptionArgs struct {
	SubscriptionID float64 `json:"subscription_id" description:"Identifier of the subscription to cancel"`
}

// NewCancelSubscriptionAction marks a subscription inactive.
func NewCancelSubscriptionAction(store *finance.Store) action.Action {
	return action.NewFuncActionFromStruct(
		"cancel_subscription",
		"Cancel one of the user's subscriptions.",
		cancelSubscriptionArgs{},
		func(actx *action.Context, args map[string]any) (any, error) {
			id, err := requireInt("cancel_subscription", args, "subscription_id")
			if err != nil {
				return nil, err
			}
			if err := store.CancelSubscription(id); err != nil {
				return nil, err
			}
			return success(map[string]any{"subscription_id": id, "active": false}), nil
		},
	)
}

type listLiabilitiesArgs struct{}

// NewListLiabilitiesAction reports every open obligation.
func NewListLiabilitiesAction(store *finance.Store) action.Action {
	return action.NewFuncActionFromStruct(
		"list_liabilities",
		"List the user's debts, installment plans and active subscriptions.",
		listLiabilitiesArgs{},
		func(actx *action.Context, args map[string]any) (any, error) {
			actx.Progressf("Fetching your liabilities...")
			liabilities, err := store.ListLiabilities()
			if err != nil {
				return nil, err
			}
			return success(map[string]any{"liabilities": liabilities}), nil
		},
	)
}
