package sqlite

// schemaStatements create the events, categories and link tables. Every
// statement is idempotent.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		display_name TEXT NOT NULL UNIQUE,
		distance_km REAL NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_categories_name ON categories (name)`,
	`CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		country TEXT NOT NULL DEFAULT '',
		venue TEXT NOT NULL DEFAULT '',
		start_date TIMESTAMP NOT NULL,
		end_date TIMESTAMP,
		registration_open TIMESTAMP NOT NULL,
		registration_deadline TIMESTAMP NOT NULL,
		status TEXT NOT NULL,
		popularity_score INTEGER NOT NULL DEFAULT 0,
		participant_limit INTEGER NOT NULL DEFAULT 0,
		registered_count INTEGER NOT NULL DEFAULT 0,
		featured INTEGER NOT NULL DEFAULT 0,
		banner_image TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_events_status ON events (status)`,
	`CREATE TABLE IF NOT EXISTS event_categories (
		event_id INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		category_id INTEGER NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
		PRIMARY KEY (event_id, category_id)
	)`,
}
