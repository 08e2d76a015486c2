package assistant

import (
	"fmt"
	"time"

	"github.com/AIter-Team/Flo/action"
	"github.com/AIter-Team/Flo/finance"
)

type addAssetArgs struct {
	Name      string  `json:"name" description:"Asset name, e.g. ticker or fund name"`
	Kind      string  `json:"kind,omitempty" description:"Asset kind, e.g. stock, fund, crypto"`
	Units     float64 `json:"units" description:"Number of units held"`
	UnitPrice float64 `json:"unit_price" description:"Price per unit in minor units"`
	Currency  string  `json:"currency,omitempty" description:"ISO currency code; defaults to the user's preferred currency"`
}

// NewAddAssetAction records a priced holding.
func NewAddAssetAction(store *finance.Store) action.Action {
	return action.NewFuncActionFromStruct(
		"add_asset",
		"Record an investment asset such as a stock or fund position.",
		addAssetArgs{},
		func(actx *action.Context, args map[string]any) (any, error) {
			unitPrice, err := requireInt("add_asset", args, "unit_price")
			if err != nil {
				return nil, err
			}
			id, err := store.InsertAsset(finance.Asset{
				Name:      argString(args, "name", ""),
				Kind:      argString(args, "kind", ""),
				Units:     argFloat(args, "units", 0),
				UnitPrice: unitPrice,
				Currency:  currencyOr(actx, args),
			})
			if err != nil {
				return nil, err
			}
			return success(map[string]any{"asset_id": id}), nil
		},
	)
}

type updateAssetArgs struct {
	AssetID   float64 `json:"asset_id" description:"Identifier of the asset to update"`
	Units     float64 `json:"units" description:"New number of units held"`
	UnitPrice float64 `json:"unit_price" description:"New price per unit in minor units"`
}

// NewUpdateAssetAction adjusts an existing holding.
func NewUpdateAssetAction(store *finance.Store) action.Action {
	return action.NewFuncActionFromStruct(
		"update_asset",
		"Update the units and unit price of an existing asset.",
		updateAssetArgs{},
		func(actx *action.Context, args map[string]any) (any, error) {
			id, err := requireInt("update_asset", args, "asset_id")
			if err != nil {
				return nil, err
			}
			unitPrice, err := requireInt("update_asset", args, "unit_price")
			if err != nil {
				return nil, err
			}
			if err := store.UpdateAsset(id, argFloat(args, "units", 0), unitPrice); err != nil {
				return nil, err
			}
			return success(map[string]any{"asset_id": id}), nil
		},
	)
}

type addFixedDepositArgs struct {
	Bank      string  `json:"bank" description:"Bank holding the deposit"`
	Principal float64 `json:"principal" description:"Deposited amount in minor units"`
	RatePct   float64 `json:"rate_pct" description:"Annual interest rate in percent"`
	Currency  string  `json:"currency,omitempty" description:"ISO currency code; defaults to the user's preferred currency"`
}

// NewAddFixedDepositAction records a term deposit.
func NewAddFixedDepositAction(store *finance.Store) action.Action {
	return action.NewFuncActionFromStruct(
		"add_fixed_deposit",
		"Record a fixed-term bank deposit.",
		addFixedDepositArgs{},
		func(actx *action.Context, args map[string]any) (any, error) {
			principal, err := requireInt("add_fixed_deposit", args, "principal")
			if err != nil {
				return nil, err
			}
			id, err := store.InsertFixedDeposit(finance.FixedDeposit{
				Bank:      argString(args, "bank", ""),
				Principal: principal,
				RatePct:   argFloat(args, "rate_pct", 0),
				Currency:  currencyOr(actx, args),
			})
			if err != nil {
				return nil, err
			}
			return success(map[string]any{"fixed_deposit_id": id}), nil
		},
	)
}

type updateFixedDepositArgs struct {
	FixedDepositID float64 `json:"fixed_deposit_id" description:"Identifier of the fixed deposit to update"`
	Principal      float64 `json:"principal,omitempty" description:"New principal in minor units; omit to keep"`
	RatePct        float64 `json:"rate_pct,omitempty" description:"New annual rate in percent; omit to keep"`
	MaturesAt      string  `json:"matures_at,omitempty" description:"New maturity date (YYYY-MM-DD); omit to keep"`
}

// NewUpdateFixedDepositAction adjusts an existing term deposit. Omitted
// fields keep their stored value.
func NewUpdateFixedDepositAction(store *finance.Store) action.Action {
	return action.NewFuncActionFromStruct(
		"update_fixed_deposit",
		"Update the principal, rate or maturity date of a fixed deposit.",
		updateFixedDepositArgs{},
		func(actx *action.Context, args map[string]any) (any, error) {
			id, err := requireInt("update_fixed_deposit", args, "fixed_deposit_id")
			if err != nil {
				return nil, err
			}

			var principal *int64
			if _, ok := args["principal"]; ok {
				v := argInt(args, "principal", 0)
				principal = &v
			}
			var ratePct *float64
			if _, ok := args["rate_pct"]; ok {
				v := argFloat(args, "rate_pct", 0)
				ratePct = &v
			}
			var maturesAt *time.Time
			if raw := argString(args, "matures_at", ""); raw != "" {
				parsed, err := time.Parse("2006-01-02", raw)
				if err != nil {
					return nil, action.NewError("update_fixed_deposit",
						fmt.Sprintf("invalid matures_at %q, want YYYY-MM-DD", raw), action.CodeValidation)
				}
				maturesAt = &parsed
			}

			if err := store.UpdateFixedDeposit(id, principal, ratePct, maturesAt); err != nil {
				return nil, err
			}
			return success(map[string]any{"fixed_deposit_id": id}), nil
		},
	)
}

type listInvestmentsArgs struct{}

// NewListInvestmentsAction reports all holdings.
func NewListInvestmentsAction(store *finance.Store) action.Action {
	return action.NewFuncActionFromStruct(
		"list_investments",
		"List the user's investment assets and fixed deposits.",
		listInvestmentsArgs{},
		func(actx *action.Context, args map[string]any) (any, error) {
			actx.Progressf("Fetching your investments...")
			investments, err := store.ListInvestments()
			if err != nil {
				return nil, err
			}
			return success(map[string]any{"investments": investments}), nil
		},
	)
}
