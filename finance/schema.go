package finance

// Schema defines the finance database. Amounts are stored as integer minor
// units of the row's currency.
const Schema = `
CREATE TABLE IF NOT EXISTS transactions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	kind TEXT NOT NULL CHECK (kind IN ('income', 'expense')),
	amount INTEGER NOT NULL,
	currency TEXT NOT NULL,
	category TEXT NOT NULL DEFAULT 'uncategorized',
	description TEXT NOT NULL DEFAULT '',
	occurred_at DATETIME NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_transactions_occurred
	ON transactions (occurred_at);

CREATE TABLE IF NOT EXISTS debts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	lender TEXT NOT NULL DEFAULT '',
	principal INTEGER NOT NULL,
	outstanding INTEGER NOT NULL,
	currency TEXT NOT NULL,
	due_date DATETIME,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS installments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	monthly_amount INTEGER NOT NULL,
	currency TEXT NOT NULL,
	months_total INTEGER NOT NULL,
	months_paid INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS subscriptions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	monthly_amount INTEGER NOT NULL,
	currency TEXT NOT NULL,
	active INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS assets (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	kind TEXT NOT NULL DEFAULT 'stock',
	units REAL NOT NULL,
	unit_price INTEGER NOT NULL,
	currency TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS fixed_deposits (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	bank TEXT NOT NULL,
	principal INTEGER NOT NULL,
	rate_pct REAL NOT NULL,
	currency TEXT NOT NULL,
	matures_at DATETIME,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS financial_goals (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	target_amount INTEGER NOT NULL,
	saved_amount INTEGER NOT NULL DEFAULT 0,
	currency TEXT NOT NULL,
	target_date DATETIME,
	status TEXT NOT NULL DEFAULT 'active',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS budgets (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	category TEXT NOT NULL,
	currency TEXT NOT NULL,
	monthly_limit INTEGER NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (category, currency)
);

CREATE TABLE IF NOT EXISTS wishlists (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	estimated_cost INTEGER NOT NULL,
	currency TEXT NOT NULL,
	priority INTEGER NOT NULL DEFAULT 2,
	status TEXT NOT NULL DEFAULT 'wished',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
