package finance

import (
	"fmt"
	"time"
)

// Goal statuses.
const (
	GoalActive    = "active"
	GoalAchieved  = "achieved"
	GoalAbandoned = "abandoned"
)

// Wishlist item statuses.
const (
	WishStatusWished    = "wished"
	WishStatusPurchased = "purchased"
	WishStatusDropped   = "dropped"
)

// Goal is a savings target with progress tracking.
type Goal struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	TargetAmount int64      `json:"target_amount"`
	SavedAmount  int64      `json:"saved_amount"`
	Currency     string     `json:"currency"`
	TargetDate   *time.Time `json:"target_date,omitempty"`
	Status       string     `json:"status"`
}

// WishlistItem is a desired purchase awaiting affordability.
type WishlistItem struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	EstimatedCost int64  `json:"estimated_cost"`
	Currency      string `json:"currency"`
	Priority      int    `json:"priority"`
	Status        string `json:"status"`
}

// InsertGoal records a financial goal and returns its id.
func (s *Store) InsertGoal(g Goal) (int64, error) {
	if g.Status == "" {
		g.Status = GoalActive
	}
	result, err := s.db.Exec(
		`INSERT INTO financial_goals (name, target_amount, saved_amount, currency, target_date, status)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		g.Name, g.TargetAmount, g.SavedAmount, g.Currency, g.TargetDate, g.Status,
	)
	if err != nil {
		return 0, fmt.Errorf("insert goal: %w", err)
	}
	return result.LastInsertId()
}

// UpdateGoalProgress sets the saved amount on a goal, marking it achieved
// when the target is reached.
func (s *Store) UpdateGoalProgress(id, saved int64) error {
	result, err := s.db.Exec(
		`UPDATE financial_goals SET saved_amount = ?,
		 status = CASE WHEN ? >= target_amount THEN 'achieved' ELSE status END
		 WHERE id = ?`,
		saved, saved, id,
	)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return requireRow(result, "goal", id)
}

// ListGoals returns all goals, active first.
func (s *Store) ListGoals() ([]Goal, error) {
	rows, err := s.db.Query(
		`SELECT id, name, target_amount, saved_amount, currency, target_date, status
		 FROM financial_goals
		 ORDER BY CASE status WHEN 'active' THEN 0 ELSE 1 END, id`)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []Goal
	for rows.Next() {
		var g Goal
		if err := rows.Scan(&g.ID, &g.Name, &g.TargetAmount, &g.SavedAmount, &g.Currency, &g.TargetDate, &g.Status); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// AppendWishlistItem records a wishlist entry and returns its id.
func (s *Store) AppendWishlistItem(item WishlistItem) (int64, error) {
	if item.Status == "" {
		item.Status = WishStatusWished
	}
	if item.Priority == 0 {
		item.Priority = 2
	}
	result, err := s.db.Exec(
		`INSERT INTO wishlists (name, estimated_cost, currency, priority, status)
		 VALUES (?, ?, ?, ?, ?)`,
		item.Name, item.EstimatedCost, item.Currency, item.Priority, item.Status,
	)
	if err != nil {
		return 0, fmt.Errorf("insert wishlist item: %w", err)
	}
	return result.LastInsertId()
}

// UpdateWishlistStatus transitions a wishlist item.
func (s *Store) UpdateWishlistStatus(id int64, status string) error {
	switch status {
	case WishStatusWished, WishStatusPurchased, WishStatusDropped:
	default:
		return fmt.Errorf("invalid wishlist status %q", status)
	}
	result, err := s.db.Exec(`UPDATE wishlists SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("update wishlist item: %w", err)
	}
	return requireRow(result, "wishlist item", id)
}

// ListWishlist returns wishlist items, highest priority first.
func (s *Store) ListWishlist() ([]WishlistItem, error) {
	rows, err := s.db.Query(
		`SELECT id, name, estimated_cost, currency, priority, status
		 FROM wishlists ORDER BY priority, id`)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	defer rows.Close()

	var out []WishlistItem
	for rows.Next() {
		var item WishlistItem
		if err := rows.Scan(&item.ID, &item.Name, &item.EstimatedCost, &item.Currency, &item.Priority, &item.Status); err != nil {
			return nil, fmt.Errorf("scan wishlist item: %w", err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
