package finance

import (
	"fmt"
)

// Budget is a monthly spending limit for one category, in minor units of its
// currency.
type Budget struct {
	ID           int64  `json:"id"`
	Category     string `json:"category"`
	Currency     string `json:"currency"`
	MonthlyLimit int64  `json:"monthly_limit"`
}

// BudgetStatus pairs a budget with the spending charged against it over the
// current window.
type BudgetStatus struct {
	Budget
	Spent     int64 `json:"spent"`
	Remaining int64 `json:"remaining"`
}

// SetBudget creates or replaces the monthly limit for a category and returns
// the budget id.
func (s *Store) SetBudget(b Budget) (int64, error) {
	if b.Category == "" {
		return 0, fmt.Errorf("budget category is required")
	}
	// RETURNING keeps the row id reliable across the insert and the
	// conflict-update path; LastInsertId is not meaningful after an upsert.
	var id int64
	err := s.db.QueryRow(
		`INSERT INTO budgets (category, currency, monthly_limit) VALUES (?, ?, ?)
		 ON CONFLICT (category, currency) DO UPDATE SET monthly_limit = excluded.monthly_limit
		 RETURNING id`,
		b.Category, b.Currency, b.MonthlyLimit,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("set budget: %w", err)
	}
	return id, nil
}

// ListBudgets returns all budgets for one currency, by category.
func (s *Store) ListBudgets(currency string) ([]Budget, error) {
	rows, err := s.db.Query(
		`SELECT id, category, currency, monthly_limit FROM budgets
		 WHERE currency = ? ORDER BY category`,
		currency,
	)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []Budget
	for rows.Next() {
		var b Budget
		if err := rows.Scan(&b.ID, &b.Category, &b.Currency, &b.MonthlyLimit); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// CheckBudgets reports each budget for the currency against the expenses of
// the trailing 30 days.
func (s *Store) CheckBudgets(currency string) ([]BudgetStatus, error) {
	budgets, err := s.ListBudgets(currency)
	if err != nil {
		return nil, err
	}
	spending, err := s.SpendingByCategory(currency, 30)
	if err != nil {
		return nil, err
	}

	out := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		spent := spending[b.Category]
		out = append(out, BudgetStatus{
			Budget:    b,
			Spent:     spent,
			Remaining: b.MonthlyLimit - spent,
		})
	}
	return out, nil
}
