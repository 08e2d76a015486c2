package finance

import (
	"fmt"
	"time"
)

// Transaction kinds.
const (
	KindIncome  = "income"
	KindExpense = "expense"
)

// Transaction is one recorded income or expense, tagged with the currency it
// happened in. Amount is in minor units.
type Transaction struct {
	ID          int64     `json:"id"`
	Kind        string    `json:"kind"`
	Amount      int64     `json:"amount"`
	Currency    string    `json:"currency"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// InsertTransaction records a transaction and returns its id.
func (s *Store) InsertTransaction(tx Transaction) (int64, error) {
	if tx.Kind != KindIncome && tx.Kind != KindExpense {
		return 0, fmt.Errorf("invalid transaction kind %q", tx.Kind)
	}
	if tx.OccurredAt.IsZero() {
		tx.OccurredAt = time.Now().UTC()
	}
	if tx.Category == "" {
		tx.Category = "uncategorized"
	}

	result, err := s.db.Exec(
		`INSERT INTO transactions (kind, amount, currency, category, description, occurred_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		tx.Kind, tx.Amount, tx.Currency, tx.Category, tx.Description, tx.OccurredAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	return result.LastInsertId()
}

// ListTransactions returns the most recent transactions, newest first. A
// limit <= 0 returns all rows.
func (s *Store) ListTransactions(limit int) ([]Transaction, error) {
	query := `SELECT id, kind, amount, currency, category, description, occurred_at
		FROM transactions ORDER BY occurred_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var tx Transaction
		if err := rows.Scan(&tx.ID, &tx.Kind, &tx.Amount, &tx.Currency, &tx.Category, &tx.Description, &tx.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

// Balance returns income minus expenses for one currency, in minor units.
func (s *Store) Balance(currency string) (int64, error) {
	var balance int64
	err := s.db.QueryRow(
		`SELECT COALESCE(SUM(CASE WHEN kind = 'income' THEN amount ELSE -amount END), 0)
		 FROM transactions WHERE currency = ?`,
		currency,
	).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("compute balance: %w", err)
	}
	return balance, nil
}

// AverageMonthlyIncome returns the mean monthly income for one currency over
// the trailing months window.
func (s *Store) AverageMonthlyIncome(currency string, months int) (int64, error) {
	if months <= 0 {
		months = 6
	}
	since := time.Now().UTC().AddDate(0, -months, 0)

	var total int64
	err := s.db.QueryRow(
		`SELECT COALESCE(SUM(amount), 0) FROM transactions
		 WHERE kind = 'income' AND currency = ? AND occurred_at >= ?`,
		currency, since,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("compute average income: %w", err)
	}
	return total / int64(months), nil
}

// SpendingByCategory aggregates expenses per category for one currency over
// the trailing days window.
func (s *Store) SpendingByCategory(currency string, days int) (map[string]int64, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	rows, err := s.db.Query(
		`SELECT category, COALESCE(SUM(amount), 0) FROM transactions
		 WHERE kind = 'expense' AND currency = ? AND occurred_at >= ?
		 GROUP BY category`,
		currency, since,
	)
	if err != nil {
		return nil, fmt.Errorf("spending by category: %w", err)
	}
	defer rows.Close()

	out := map[string]int64{}
	for rows.Next() {
		var category string
		var total int64
		if err := rows.Scan(&category, &total); err != nil {
			return nil, fmt.Errorf("scan spending row: %w", err)
		}
		out[category] = total
	}
	return out, rows.Err()
}
