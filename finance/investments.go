package finance

import (
	"fmt"
	"time"
)

// Asset is a priced holding such as a stock or fund position.
type Asset struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Kind      string  `json:"kind"`
	Units     float64 `json:"units"`
	UnitPrice int64   `json:"unit_price"`
	Currency  string  `json:"currency"`
}

// FixedDeposit is a term deposit accruing at a fixed rate.
type FixedDeposit struct {
	ID        int64      `json:"id"`
	Bank      string     `json:"bank"`
	Principal int64      `json:"principal"`
	RatePct   float64    `json:"rate_pct"`
	Currency  string     `json:"currency"`
	MaturesAt *time.Time `json:"matures_at,omitempty"`
}

// Investments groups all holdings for reporting.
type Investments struct {
	Assets        []Asset        `json:"assets"`
	FixedDeposits []FixedDeposit `json:"fixed_deposits"`
}

// InsertAsset records an asset and returns its id.
func (s *Store) InsertAsset(a Asset) (int64, error) {
	if a.Kind == "" {
		a.Kind = "stock"
	}
	result, err := s.db.Exec(
		`INSERT INTO assets (name, kind, units, unit_price, currency)
		 VALUES (?, ?, ?, ?, ?)`,
		a.Name, a.Kind, a.Units, a.UnitPrice, a.Currency,
	)
	if err != nil {
		return 0, fmt.Errorf("insert asset: %w", err)
	}
	return result.LastInsertId()
}

// UpdateAsset adjusts the units and unit price of a holding.
func (s *Store) UpdateAsset(id int64, units float64, unitPrice int64) error {
	result, err := s.db.Exec(
		`UPDATE assets SET units = ?, unit_price = ?, updated_at = ? WHERE id = ?`,
		units, unitPrice, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update asset: %w", err)
	}
	return requireRow(result, "asset", id)
}

// InsertFixedDeposit records a term deposit and returns its id.
func (s *Store) InsertFixedDeposit(fd FixedDeposit) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO fixed_deposits (bank, principal, rate_pct, currency, matures_at)
		 VALUES (?, ?, ?, ?, ?)`,
		fd.Bank, fd.Principal, fd.RatePct, fd.Currency, fd.MaturesAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert fixed deposit: %w", err)
	}
	return result.LastInsertId()
}

// UpdateFixedDeposit adjusts a term deposit. Nil fields keep their stored
// value, so callers can change the principal, rate or maturity independently.
func (s *Store) UpdateFixedDeposit(id int64, principal *int64, ratePct *float64, maturesAt *time.Time) error {
	result, err := s.db.Exec(
		`UPDATE fixed_deposits SET
			principal = COALESCE(?, principal),
			rate_pct = COALESCE(?, rate_pct),
			matures_at = COALESCE(?, matures_at)
		 WHERE id = ?`,
		principal, ratePct, maturesAt, id,
	)
	if err != nil {
		return fmt.Errorf("update fixed deposit: %w", err)
	}
	return requireRow(result, "fixed deposit", id)
}

// ListInvestments returns all assets and fixed deposits.
func (s *Store) ListInvestments() (*Investments, error) {
	out := &Investments{}

	rows, err := s.db.Query(
		`SELECT id, name, kind, units, unit_price, currency FROM assets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	for rows.Next() {
		var a Asset
		if err := rows.Scan(&a.ID, &a.Name, &a.Kind, &a.Units, &a.UnitPrice, &a.Currency); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		out.Assets = append(out.Assets, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.Query(
		`SELECT id, bank, principal, rate_pct, currency, matures_at FROM fixed_deposits ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list fixed deposits: %w", err)
	}
	for rows.Next() {
		var fd FixedDeposit
		if err := rows.Scan(&fd.ID, &fd.Bank, &fd.Principal, &fd.RatePct, &fd.Currency, &fd.MaturesAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan fixed deposit: %w", err)
		}
		out.FixedDeposits = append(out.FixedDeposits, fd)
	}
	rows.Close()
	return out, rows.Err()
}
