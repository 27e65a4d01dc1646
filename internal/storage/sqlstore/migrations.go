package sqlstore

// schema sets up the database. It runs on startup and only uses types
// understood by both SQLite and PostgreSQL. Decimal amounts are stored as
// TEXT to keep them exact.
// Groups must be created before participants and expenses due to foreign keys.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS expense_groups (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    image_url TEXT NOT NULL DEFAULT '',
    created_at BIGINT NOT NULL,
    revision BIGINT NOT NULL DEFAULT 0
)`,
	`CREATE TABLE IF NOT EXISTS participants (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL REFERENCES expense_groups(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    user_id TEXT NOT NULL DEFAULT '',
    sort_order INTEGER NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS expenses (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL REFERENCES expense_groups(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    payer_id TEXT NOT NULL REFERENCES participants(id),
    total TEXT NOT NULL,
    currency TEXT NOT NULL,
    undistributed TEXT,
    split_type TEXT NOT NULL,
    expense_type TEXT NOT NULL,
    status TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT '',
    spent_at BIGINT NOT NULL,
    created_at BIGINT NOT NULL,
    updated_at BIGINT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS shares (
    expense_id TEXT NOT NULL REFERENCES expenses(id) ON DELETE CASCADE,
    participant_id TEXT NOT NULL REFERENCES participants(id),
    sort_order INTEGER NOT NULL,
    amount TEXT NOT NULL,
    weight TEXT NOT NULL,
    PRIMARY KEY (expense_id, participant_id)
)`,
	`CREATE TABLE IF NOT EXISTS fx_rates (
    fetched_at BIGINT NOT NULL,
    base TEXT NOT NULL,
    code TEXT NOT NULL,
    rate DOUBLE PRECISION NOT NULL,
    PRIMARY KEY (fetched_at, code)
)`,
	`CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL DEFAULT '',
    last_used_currency TEXT NOT NULL DEFAULT '',
    created_at BIGINT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_participants_group_id ON participants(group_id)`,
	`CREATE INDEX IF NOT EXISTS idx_participants_user_id ON participants(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_group_id ON expenses(group_id)`,
	`CREATE INDEX IF NOT EXISTS idx_shares_participant_id ON shares(participant_id)`,
}

// runMigrations executes the schema setup.
func (s *SQLStore) runMigrations() error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
