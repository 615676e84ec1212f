// Package sqlite implements a SQLite-backed storage.Repository using
// database/sql. It is the default backend: a single-file database is enough
// for local imports and needs no running server.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	_ "modernc.org/sqlite" // pure-Go driver, no cgo

	"github.com/PBPF11/vacathon/internal/races"
	"github.com/PBPF11/vacathon/internal/storage"
)

// Config holds SQLite repository configuration.
type Config struct {
	DSN string // file path or file: URI passed to database/sql
}

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	db *sql.DB
}

// NewRepository opens a SQLite connection using the provided DSN and returns
// a Repository plus a Close function for cleanup.
//
// DSN is passed directly to database/sql; for example:
//
//	"file:vacathon.db?cache=shared"
//	"vacathon.db"
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN must not be empty")
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	// Enable foreign keys; ignore error if the driver doesn't support it.
	_, _ = db.ExecContext(ctx, "PRAGMA foreign_keys = ON;")

	closeFn := func() { db.Close() }
	return &Repository{db: db}, closeFn, nil
}

// UpsertEvent writes the event keyed by title and replaces its category
// links, all inside one transaction.
func (r *Repository) UpsertEvent(ctx context.Context, ev storage.EventRow, categoryIDs []int64) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("sqlite: begin tx: %w", err)
	}
	defer tx.Rollback()

	var id int64
	created := false
	err = tx.QueryRowContext(ctx, `SELECT id FROM events WHERE title = ?`, ev.Title).Scan(&id)
	switch {
	case err == sql.ErrNoRows:
		res, err := tx.ExecContext(ctx, `
			INSERT INTO events (
				title, description, city, country, venue,
				start_date, end_date, registration_open, registration_deadline,
				status, popularity_score, participant_limit, registered_count,
				featured, banner_image
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			ev.Title, ev.Description, ev.City, ev.Country, ev.Venue,
			ev.StartDate, nullDate(ev.EndDate), ev.RegistrationOpen, ev.RegistrationDeadline,
			ev.Status, ev.PopularityScore, ev.ParticipantLimit, ev.RegisteredCount,
			ev.Featured, ev.BannerImage,
		)
		if err != nil {
			return false, fmt.Errorf("sqlite: insert event: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return false, fmt.Errorf("sqlite: insert event id: %w", err)
		}
		created = true
	case err != nil:
		return false, fmt.Errorf("sqlite: find event: %w", err)
	default:
		_, err = tx.ExecContext(ctx, `
			UPDATE events SET
				description = ?, city = ?, country = ?, venue = ?,
				start_date = ?, end_date = ?, registration_open = ?, registration_deadline = ?,
				status = ?, popularity_score = ?, participant_limit = ?, registered_count = ?,
				featured = ?, banner_image = ?
			WHERE id = ?`,
			ev.Description, ev.City, ev.Country, ev.Venue,
			ev.StartDate, nullDate(ev.EndDate), ev.RegistrationOpen, ev.RegistrationDeadline,
			ev.Status, ev.PopularityScore, ev.ParticipantLimit, ev.RegisteredCount,
			ev.Featured, ev.BannerImage, id,
		)
		if err != nil {
			return false, fmt.Errorf("sqlite: update event: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM event_categories WHERE event_id = ?`, id); err != nil {
		return false, fmt.Errorf("sqlite: clear category links: %w", err)
	}
	for _, cid := range categoryIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO event_categories (event_id, category_id) VALUES (?, ?)`, id, cid); err != nil {
			return false, fmt.Errorf("sqlite: link category %d: %w", cid, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("sqlite: commit: %w", err)
	}
	return created, nil
}

// GetOrCreateCategory looks a category up by display name, inserting it with
// the given defaults when absent.
func (r *Repository) GetOrCreateCategory(ctx context.Context, displayName string, defaults races.Category) (races.Category, bool, error) {
	var (
		cat races.Category
		km  float64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, display_name, distance_km FROM categories WHERE display_name = ?`,
		displayName).Scan(&cat.ID, &cat.Name, &cat.DisplayName, &km)
	switch {
	case err == sql.ErrNoRows:
		res, err := r.db.ExecContext(ctx,
			`INSERT INTO categories (name, display_name, distance_km) VALUES (?, ?, ?)`,
			defaults.Name, displayName, defaults.DistanceKM.Float64())
		if err != nil {
			return races.Category{}, false, fmt.Errorf("sqlite: insert category: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return races.Category{}, false, fmt.Errorf("sqlite: insert category id: %w", err)
		}
		cat = defaults
		cat.ID = id
		cat.DisplayName = displayName
		return cat, true, nil
	case err != nil:
		return races.Category{}, false, fmt.Errorf("sqlite: find category: %w", err)
	}
	cat.DistanceKM = kmFromFloat(km)
	return cat, false, nil
}

// UpdateCategoryDistance overwrites the stored distance for a category.
func (r *Repository) UpdateCategoryDistance(ctx context.Context, id int64, km races.DistanceKM) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE categories SET distance_km = ? WHERE id = ?`, km.Float64(), id); err != nil {
		return fmt.Errorf("sqlite: update category distance: %w", err)
	}
	return nil
}

// ActiveEventForCategory returns the single non-completed event linked to
// the category, or nil when there is none or more than one.
func (r *Repository) ActiveEventForCategory(ctx context.Context, categoryID int64) (*storage.EventRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT e.id, e.title, e.description, e.city, e.country, e.venue,
		       e.start_date, e.end_date, e.registration_open, e.registration_deadline,
		       e.status, e.popularity_score, e.participant_limit, e.registered_count,
		       e.featured, e.banner_image
		FROM events e
		JOIN event_categories ec ON ec.event_id = e.id
		WHERE ec.category_id = ? AND e.status <> ?`,
		categoryID, races.StatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("sqlite: active events: %w", err)
	}
	defer rows.Close()

	var found []storage.EventRow
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan event: %w", err)
		}
		found = append(found, ev)
		if len(found) > 1 {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: active events: %w", err)
	}
	if len(found) != 1 {
		return nil, nil
	}
	return &found[0], nil
}

// Exec executes an arbitrary SQL statement (typically DDL).
func (r *Repository) Exec(ctx context.Context, query string, args ...any) error {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("sqlite: exec: %w", err)
	}
	return nil
}

func scanEvent(rows *sql.Rows) (storage.EventRow, error) {
	var (
		ev  storage.EventRow
		end sql.NullTime
	)
	err := rows.Scan(
		&ev.ID, &ev.Title, &ev.Description, &ev.City, &ev.Country, &ev.Venue,
		&ev.StartDate, &end, &ev.RegistrationOpen, &ev.RegistrationDeadline,
		&ev.Status, &ev.PopularityScore, &ev.ParticipantLimit, &ev.RegisteredCount,
		&ev.Featured, &ev.BannerImage,
	)
	if err != nil {
		return storage.EventRow{}, err
	}
	if end.Valid {
		ev.EndDate = end.Time
	}
	return ev, nil
}

func nullDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func kmFromFloat(f float64) races.DistanceKM {
	return races.DistanceKM(math.Round(f * 100))
}
