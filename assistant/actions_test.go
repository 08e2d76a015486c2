package assistant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AIter-Team/Flo/action"
	"github.com/AIter-Team/Flo/core"
	"github.com/AIter-Team/Flo/finance"
)

func newActionContext(t *testing.T) (*action.Context, *core.Session, []string) {
	t.Helper()
	sess := core.NewSession("s1")
	sess.SetProfile(core.Profile{Name: "Ari", Language: "Indonesian", Currency: "IDR"})

	var notices []string
	actx := action.NewContext(context.Background(), action.ContextConfig{
		Session:   sess,
		CallID:    "c1",
		AgentName: "quant",
		Progress:  func(s string) { notices = append(notices, s) },
	})
	return actx, sess, notices
}

func newFinanceStore(t *testing.T) *finance.Store {
	t.Helper()
	store, err := finance.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordTransactionRefreshesBalance(t *testing.T) {
	store := newFinanceStore(t)
	actx, sess, _ := newActionContext(t)

	act := NewRecordTransactionAction(store)
	out, err := act.Execute(actx, map[string]any{
		"kind":     "income",
		"amount":   float64(5000000),
		"category": "salary",
	})
	require.NoError(t, err)

	payload := out.(map[string]any)
	assert.Equal(t, "success", payload["status"])
	assert.Equal(t, "IDR", payload["currency"], "defaults to the profile currency")
	assert.Equal(t, int64(5000000), sess.GetProfile().Balance)
}

func TestRecordTransactionForeignCurrencyKeepsBalance(t *testing.T) {
	store := newFinanceStore(t)
	actx, sess, _ := newActionContext(t)

	act := NewRecordTransactionAction(store)
	_, err := act.Execute(actx, map[string]any{
		"kind":     "expense",
		"amount":   float64(100),
		"currency": "USD",
	})
	require.NoError(t, err)
	assert.Zero(t, sess.GetProfile().Balance, "foreign-currency entries leave the cached balance alone")
}

func TestRecordTransactionMissingAmount(t *testing.T) {
	store := newFinanceStore(t)
	actx, _, _ := newActionContext(t)

	act := NewRecordTransactionAction(store)
	_, err := act.Execute(actx, map[string]any{"kind": "expense"})
	require.Error(t, err)

	var actErr *action.Error
	require.ErrorAs(t, err, &actErr)
	assert.Equal(t, action.CodeValidation, actErr.Code)
}

func TestGetBalance(t *testing.T) {
	store := newFinanceStore(t)
	actx, sess, _ := newActionContext(t)

	_, err := store.InsertTransaction(finance.Transaction{Kind: finance.KindIncome, Amount: 100000, Currency: "IDR"})
	require.NoError(t, err)

	act := NewGetBalanceAction(store)
	out, err := act.Execute(actx, map[string]any{})
	require.NoError(t, err)

	payload := out.(map[string]any)
	assert.Equal(t, int64(100000), payload["balance"])
	assert.Equal(t, int64(100000), sess.GetProfile().Balance)
}

func TestUpdatePreferences(t *testing.T) {
	actx, sess, _ := newActionContext(t)

	act := NewUpdatePreferencesAction()
	_, err := act.Execute(actx, map[string]any{"language": "English", "currency": "USD"})
	require.NoError(t, err)

	profile := sess.GetProfile()
	assert.Equal(t, "Ari", profile.Name, "unset fields keep their value")
	assert.Equal(t, "English", profile.Language)
	assert.Equal(t, "USD", profile.Currency)
}

func TestOverviewAggregates(t *testing.T) {
	store := newFinanceStore(t)
	actx, _, _ := newActionContext(t)

	_, err := store.InsertTransaction(finance.Transaction{Kind: finance.KindIncome, Amount: 1000000, Currency: "IDR"})
	require.NoError(t, err)
	_, err = store.InsertDebt(finance.Debt{Name: "loan", Principal: 100, Outstanding: 50, Currency: "IDR"})
	require.NoError(t, err)
	_, err = store.InsertGoal(finance.Goal{Name: "fund", TargetAmount: 100, Currency: "IDR"})
	require.NoError(t, err)

	act := NewOverviewAction(store)
	out, err := act.Execute(actx, map[string]any{})
	require.NoError(t, err)

	payload := out.(map[string]any)
	overview := payload["overview"].(map[string]any)
	assert.Equal(t, "IDR", overview["currency"])
	assert.Equal(t, int64(1000000), overview["balance"])
	assert.NotNil(t, overview["liabilities"])
	assert.NotNil(t, overview["goals"])
}

func TestBudgetActions(t *testing.T) {
	store := newFinanceStore(t)
	actx, _, _ := newActionContext(t)

	update := NewUpdateBudgetAction(store)
	out, err := update.Execute(actx, map[string]any{
		"category":      "food",
		"monthly_limit": float64(100000),
	})
	require.NoError(t, err)
	payload := out.(map[string]any)
	assert.Equal(t, "success", payload["status"])
	assert.Equal(t, "IDR", payload["currency"], "defaults to the profile currency")

	_, err = store.InsertTransaction(finance.Transaction{Kind: finance.KindExpense, Amount: 30000, Currency: "IDR", Category: "food"})
	require.NoError(t, err)

	check := NewCheckBudgetAction(store)
	out, err = check.Execute(actx, map[string]any{})
	require.NoError(t, err)
	payload = out.(map[string]any)
	statuses := payload["budgets"].([]finance.BudgetStatus)
	require.Len(t, statuses, 1)
	assert.Equal(t, int64(30000), statuses[0].Spent)
	assert.Equal(t, int64(70000), statuses[0].Remaining)
}

func TestUpdateBalanceOverride(t *testing.T) {
	actx, sess, _ := newActionContext(t)

	act := NewUpdateBalanceAction()
	out, err := act.Execute(actx, map[string]any{"balance": float64(250000)})
	require.NoError(t, err)

	payload := out.(map[string]any)
	assert.Equal(t, int64(250000), payload["balance"])
	assert.Equal(t, int64(250000), sess.GetProfile().Balance)
}

func TestUpdateFixedDepositAction(t *testing.T) {
	store := newFinanceStore(t)
	actx, _, _ := newActionContext(t)

	id, err := store.InsertFixedDeposit(finance.FixedDeposit{Bank: "BCA", Principal: 10000000, RatePct: 4.5, Currency: "IDR"})
	require.NoError(t, err)

	act := NewUpdateFixedDepositAction(store)
	_, err = act.Execute(actx, map[string]any{
		"fixed_deposit_id": float64(id),
		"rate_pct":         5.25,
		"matures_at":       "2027-08-28",
	})
	require.NoError(t, err)

	investments, err := store.ListInvestments()
	require.NoError(t, err)
	fd := investments.FixedDeposits[0]
	assert.Equal(t, int64(10000000), fd.Principal, "omitted principal keeps its value")
	assert.Equal(t, 5.25, fd.RatePct)
	require.NotNil(t, fd.MaturesAt)

	_, err = act.Execute(actx, map[string]any{
		"fixed_deposit_id": float64(id),
		"matures_at":       "tomorrow",
	})
	require.Error(t, err)
	var actErr *action.Error
	require.ErrorAs(t, err, &actErr)
	assert.Equal(t, action.CodeValidation, actErr.Code)
}

func TestGoalActions(t *testing.T) {
	store := newFinanceStore(t)
	actx, _, _ := newActionContext(t)

	create := NewCreateGoalAction(store)
	out, err := create.Execute(actx, map[string]any{
		"name":          "emergency fund",
		"target_amount": float64(30000000),
	})
	require.NoError(t, err)
	payload := out.(map[string]any)
	goalID := payload["goal_id"].(int64)

	update := NewUpdateGoalProgressAction(store)
	_, err = update.Execute(actx, map[string]any{
		"goal_id":      float64(goalID),
		"saved_amount": float64(30000000),
	})
	require.NoError(t, err)

	list := NewListGoalsAction(store)
	out, err = list.Execute(actx, map[string]any{})
	require.NoError(t, err)
	payload = out.(map[string]any)
	goals := payload["goals"].([]finance.Goal)
	require.Len(t, goals, 1)
	assert.Equal(t, finance.GoalAchieved, goals[0].Status)
}
