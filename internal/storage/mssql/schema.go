package mssql

// schemaStatements create the events, categories and link tables. SQL Server
// has no CREATE TABLE IF NOT EXISTS, so each statement guards on OBJECT_ID.
var schemaStatements = []string{
	`IF OBJECT_ID('categories', 'U') IS NULL
	CREATE TABLE categories (
		id BIGINT IDENTITY(1,1) PRIMARY KEY,
		name NVARCHAR(100) NOT NULL,
		display_name NVARCHAR(100) NOT NULL CONSTRAINT uq_categories_display_name UNIQUE,
		distance_km DECIMAL(8,2) NOT NULL CONSTRAINT df_categories_distance DEFAULT 0
	)`,
	`IF OBJECT_ID('events', 'U') IS NULL
	CREATE TABLE events (
		id BIGINT IDENTITY(1,1) PRIMARY KEY,
		title NVARCHAR(255) NOT NULL CONSTRAINT uq_events_title UNIQUE,
		description NVARCHAR(MAX) NOT NULL,
		city NVARCHAR(255) NOT NULL CONSTRAINT df_events_city DEFAULT '',
		country NVARCHAR(100) NOT NULL CONSTRAINT df_events_country DEFAULT '',
		venue NVARCHAR(255) NOT NULL CONSTRAINT df_events_venue DEFAULT '',
		start_date DATE NOT NULL,
		end_date DATE NULL,
		registration_open DATE NOT NULL,
		registration_deadline DATE NOT NULL,
		status NVARCHAR(20) NOT NULL,
		popularity_score INT NOT NULL CONSTRAINT df_events_popularity DEFAULT 0,
		participant_limit INT NOT NULL CONSTRAINT df_events_limit DEFAULT 0,
		registered_count INT NOT NULL CONSTRAINT df_events_registered DEFAULT 0,
		featured BIT NOT NULL CONSTRAINT df_events_featured DEFAULT 0,
		banner_image NVARCHAR(500) NOT NULL CONSTRAINT df_events_banner DEFAULT ''
	)`,
	`IF OBJECT_ID('event_categories', 'U') IS NULL
	CREATE TABLE event_categories (
		event_id BIGINT NOT NULL,
		category_id BIGINT NOT NULL,
		CONSTRAINT pk_event_categories PRIMARY KEY (event_id, category_id),
		CONSTRAINT fk_ec_event FOREIGN KEY (event_id) REFERENCES events (id) ON DELETE CASCADE,
		CONSTRAINT fk_ec_category FOREIGN KEY (category_id) REFERENCES categories (id) ON DELETE CASCADE
	)`,
}
