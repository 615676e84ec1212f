package mysql

// schemaStatements create the events, categories and link tables. Every
// statement is idempotent.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		display_name VARCHAR(100) NOT NULL,
		distance_km DECIMAL(8,2) NOT NULL DEFAULT 0,
		UNIQUE KEY uq_categories_display_name (display_name),
		KEY idx_categories_name (name)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS events (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		city VARCHAR(255) NOT NULL DEFAULT '',
		country VARCHAR(100) NOT NULL DEFAULT '',
		venue VARCHAR(255) NOT NULL DEFAULT '',
		start_date DATE NOT NULL,
		end_date DATE NULL,
		registration_open DATE NOT NULL,
		registration_deadline DATE NOT NULL,
		status VARCHAR(20) NOT NULL,
		popularity_score INT NOT NULL DEFAULT 0,
		participant_limit INT NOT NULL DEFAULT 0,
		registered_count INT NOT NULL DEFAULT 0,
		featured TINYINT(1) NOT NULL DEFAULT 0,
		banner_image VARCHAR(500) NOT NULL DEFAULT '',
		UNIQUE KEY uq_events_title (title),
		KEY idx_events_status (status)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS event_categories (
		event_id BIGINT NOT NULL,
		category_id BIGINT NOT NULL,
		PRIMARY KEY (event_id, category_id),
		CONSTRAINT fk_ec_event FOREIGN KEY (event_id) REFERENCES events (id) ON DELETE CASCADE,
		CONSTRAINT fk_ec_category FOREIGN KEY (category_id) REFERENCES categories (id) ON DELETE CASCADE
	) ENGINE=InnoDB`,
}
