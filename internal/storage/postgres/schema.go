package postgres

// schemaStatements create the events, categories and link tables. Every
// statement is idempotent.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		display_name VARCHAR(100) NOT NULL UNIQUE,
		distance_km NUMERIC(8,2) NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_categories_name ON categories (name)`,
	`CREATE TABLE IF NOT EXISTS events (
		id BIGSERIAL PRIMARY KEY,
		title VARCHAR(255) NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		city VARCHAR(255) NOT NULL DEFAULT '',
		country VARCHAR(100) NOT NULL DEFAULT '',
		venue VARCHAR(255) NOT NULL DEFAULT '',
		start_date DATE NOT NULL,
		end_date DATE,
		registration_open DATE NOT NULL,
		registration_deadline DATE NOT NULL,
		status VARCHAR(20) NOT NULL,
		popularity_score INTEGER NOT NULL DEFAULT 0,
		participant_limit INTEGER NOT NULL DEFAULT 0,
		registered_count INTEGER NOT NULL DEFAULT 0,
		featured BOOLEAN NOT NULL DEFAULT FALSE,
		banner_image VARCHAR(500) NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_events_status ON events (status)`,
	`CREATE TABLE IF NOT EXISTS event_categories (
		event_id BIGINT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		category_id BIGINT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
		PRIMARY KEY (event_id, category_id)
	)`,
}
