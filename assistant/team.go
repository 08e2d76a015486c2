package assistant

import (
	"github.com/AIter-Team/Flo/action"
	"github.com/AIter-Team/Flo/agent"
	"github.com/AIter-Team/Flo/core"
	"github.com/AIter-Team/Flo/finance"
	"github.com/AIter-Team/Flo/logging"
	"github.com/AIter-Team/Flo/model"
	"github.com/AIter-Team/Flo/router"
)

// TeamOptions configure NewTeam.
type TeamOptions struct {
	// Library supplies procedural task instructions; nil disables the
	// instruction actions.
	Library *InstructionLibrary
	// Logger is shared by the router and every unit.
	Logger logging.Logger
	// Metrics receives router instrumentation; nil disables it.
	Metrics *router.Metrics
	// MaxStepsPerTurn overrides the router default when > 0.
	MaxStepsPerTurn int
}

// NewTeam wires the full assistant: the coordinator plus the four
// specialists, each with its prompt and allowed action set, registered on a
// router over the given session store and finance store.
func NewTeam(llm model.Model, store core.Store, fin *finance.Store, optFns ...func(o *TeamOptions)) *router.Router {
	opts := TeamOptions{Logger: logging.NewNoOpLogger()}
	for _, fn := range optFns {
		fn(&opts)
	}

	withLibrary := func(actions []action.Action) []action.Action {
		if opts.Library == nil {
			return actions
		}
		return append(actions,
			NewAvailableInstructionsAction(opts.Library),
			NewTaskInstructionAction(opts.Library),
		)
	}

	coordinator := agent.New(CoordinatorName, llm, func(o *agent.Options) {
		o.Description = "Coordinates the team and handles greetings and preferences."
		o.Instruction = agent.NewInstructionFromText(coordinatorPrompt)
		o.Actions = withLibrary([]action.Action{
			NewCurrentTimeAction(),
			NewUpdatePreferencesAction(),
		})
		o.Logger = opts.Logger
	})

	quant := agent.New(QuantName, llm, func(o *agent.Options) {
		o.Description = "Records transactions and reports balances and budgets."
		o.Instruction = agent.NewInstructionFromText(quantPrompt)
		o.Actions = []action.Action{
			NewRecordTransactionAction(fin),
			NewListTransactionsAction(fin),
			NewGetBalanceAction(fin),
			NewUpdateBalanceAction(),
			NewCheckBudgetAction(fin),
			NewUpdateBudgetAction(fin),
			NewAverageIncomeAction(fin),
			NewSpendingSummaryAction(fin),
			NewCurrentTimeAction(),
		}
		o.Logger = opts.Logger
	})

	capitalist := agent.New(CapitalistName, llm, func(o *agent.Options) {
		o.Description = "Tracks liabilities and investments."
		o.Instruction = agent.NewInstructionFromText(capitalistPrompt)
		o.Actions = []action.Action{
			NewAddDebtAction(fin),
			NewAddInstallmentAction(fin),
			NewAddSubscriptionAction(fin),
			NewCancelSubscriptionAction(fin),
			NewListLiabilitiesAction(fin),
			NewAddAssetAction(fin),
			NewUpdateAssetAction(fin),
			NewAddFixedDepositAction(fin),
			NewUpdateFixedDepositAction(fin),
			NewListInvestmentsAction(fin),
		}
		o.Logger = opts.Logger
	})

	strategist := agent.New(StrategistName, llm, func(o *agent.Options) {
		o.Description = "Manages savings goals and the wishlist."
		o.Instruction = agent.NewInstructionFromText(strategistPrompt)
		o.Actions = []action.Action{
			NewCreateGoalAction(fin),
			NewUpdateGoalProgressAction(fin),
			NewListGoalsAction(fin),
			NewAddWishlistItemAction(fin),
			NewUpdateWishlistStatusAction(fin),
			NewListWishlistAction(fin),
			NewAverageIncomeAction(fin),
		}
		o.Logger = opts.Logger
	})

	steward := agent.New(StewardName, llm, func(o *agent.Options) {
		o.Description = "Read-only reporting across all finance areas."
		o.Instruction = agent.NewInstructionFromText(stewardPrompt)
		o.Actions = withLibrary([]action.Action{
			NewOverviewAction(fin),
			NewListTransactionsAction(fin),
			NewCheckBudgetAction(fin),
			NewListLiabilitiesAction(fin),
			NewListInvestmentsAction(fin),
			NewListGoalsAction(fin),
			NewListWishlistAction(fin),
		})
		o.Logger = opts.Logger
	})

	r := router.New(store, coordinator, func(o *router.Options) {
		o.Logger = opts.Logger
		o.Metrics = opts.Metrics
		if opts.MaxStepsPerTurn > 0 {
			o.MaxStepsPerTurn = opts.MaxStepsPerTurn
		}
	})
	r.Register(quant, capitalist, strategist, steward)
	return r
}
