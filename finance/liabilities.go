package finance

import (
	"database/sql"
	"fmt"
	"time"
)

// Debt is a lump-sum liability with an outstanding amount.
type Debt struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Lender      string     `json:"lender,omitempty"`
	Principal   int64      `json:"principal"`
	Outstanding int64      `json:"outstanding"`
	Currency    string     `json:"currency"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// Installment is a fixed monthly payment plan.
type Installment struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	MonthlyAmount int64  `json:"monthly_amount"`
	Currency      string `json:"currency"`
	MonthsTotal   int    `json:"months_total"`
	MonthsPaid    int    `json:"months_paid"`
}

// Subscription is a recurring monthly charge.
type Subscription struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	MonthlyAmount int64  `json:"monthly_amount"`
	Currency      string `json:"currency"`
	Active        bool   `json:"active"`
}

// Liabilities groups every open obligation for reporting.
type Liabilities struct {
	Debts         []Debt         `json:"debts"`
	Installments  []Installment  `json:"installments"`
	Subscriptions []Subscription `json:"subscriptions"`
}

// InsertDebt records a debt and returns its id.
func (s *Store) InsertDebt(d Debt) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO debts (name, lender, principal, outstanding, currency, due_date)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		d.Name, d.Lender, d.Principal, d.Outstanding, d.Currency, d.DueDate,
	)
	if err != nil {
		return 0, fmt.Errorf("insert debt: %w", err)
	}
	return result.LastInsertId()
}

// UpdateDebtOutstanding sets the outstanding amount on a debt.
func (s *Store) UpdateDebtOutstanding(id, outstanding int64) error {
	result, err := s.db.Exec(`UPDATE debts SET outstanding = ? WHERE id = ?`, outstanding, id)
	if err != nil {
		return fmt.Errorf("update debt: %w", err)
	}
	return requireRow(result, "debt", id)
}

// InsertInstallment records an installment plan and returns its id.
func (s *Store) InsertInstallment(i Installment) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO installments (name, monthly_amount, currency, months_total, months_paid)
		 VALUES (?, ?, ?, ?, ?)`,
		i.Name, i.MonthlyAmount, i.Currency, i.MonthsTotal, i.MonthsPaid,
	)
	if err != nil {
		return 0, fmt.Errorf("insert installment: %w", err)
	}
	return result.LastInsertId()
}

// InsertSubscription records a subscription and returns its id.
func (s *Store) InsertSubscription(sub Subscription) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO subscriptions (name, monthly_amount, currency, active)
		 VALUES (?, ?, ?, ?)`,
		sub.Name, sub.MonthlyAmount, sub.Currency, sub.Active,
	)
	if err != nil {
		return 0, fmt.Errorf("insert subscription: %w", err)
	}
	return result.LastInsertId()
}

// CancelSubscription marks a subscription inactive.
func (s *Store) CancelSubscription(id int64) error {
	result, err := s.db.Exec(`UPDATE subscriptions SET active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("cancel subscription: %w", err)
	}
	return requireRow(result, "subscription", id)
}

// ListLiabilities returns all debts, installment plans and active
// subscriptions.
func (s *Store) ListLiabilities() (*Liabilities, error) {
	out := &Liabilities{}

	rows, err := s.db.Query(
		`SELECT id, name, lender, principal, outstanding, currency, due_date FROM debts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}
	for rows.Next() {
		var d Debt
		if err := rows.Scan(&d.ID, &d.Name, &d.Lender, &d.Principal, &d.Outstanding, &d.Currency, &d.DueDate); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan debt: %w", err)
		}
		out.Debts = append(out.Debts, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.Query(
		`SELECT id, name, monthly_amount, currency, months_total, months_paid FROM installments ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list installments: %w", err)
	}
	for rows.Next() {
		var i Installment
		if err := rows.Scan(&i.ID, &i.Name, &i.MonthlyAmount, &i.Currency, &i.MonthsTotal, &i.MonthsPaid); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan installment: %w", err)
		}
		out.Installments = append(out.Installments, i)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.Query(
		`SELECT id, name, monthly_amount, currency, active FROM subscriptions WHERE active = 1 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	for rows.Next() {
		var sub Subscription
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.MonthlyAmount, &sub.Currency, &sub.Active); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		out.Subscriptions = append(out.Subscriptions, sub)
	}
	rows.Close()
	return out, rows.Err()
}

// requireRow converts a zero-row update into a not-found error.
func requireRow(result sql.Result, entity string, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %d not found", entity, id)
	}
	return nil
}
