// Package mysql implements a MySQL-backed storage.Repository using
// database/sql and the go-sql-driver driver.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/PBPF11/vacathon/internal/races"
	"github.com/PBPF11/vacathon/internal/storage"
)

// Config holds MySQL repository configuration.
type Config struct {
	DSN string // go-sql-driver DSN, e.g. "user:pass@tcp(host:3306)/vacathon?parseTime=true"
}

// Repository is a MySQL-backed implementation of storage.Repository.
type Repository struct {
	db *sql.DB
}

// NewRepository opens a MySQL connection pool and returns a Repository plus
// a Close function for cleanup. The DSN should include parseTime=true so
// DATE columns scan into time.Time.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("mysql: DSN must not be empty")
	}

	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("mysql: open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("mysql: ping: %w", err)
	}

	closeFn := func() { db.Close() }
	return &Repository{db: db}, closeFn, nil
}

// UpsertEvent writes the event keyed by title and replaces its category
// links, all inside one transaction.
func (r *Repository) UpsertEvent(ctx context.Context, ev storage.EventRow, categoryIDs []int64) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("mysql: begin tx: %w", err)
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
			return false, fmt.Errorf("mysql: insert event: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return false, fmt.Errorf("mysql: insert event id: %w", err)
		}
		created = true
	case err != nil:
		return false, fmt.Errorf("mysql: find event: %w", err)
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
			return false, fmt.Errorf("mysql: update event: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM event_categories WHERE event_id = ?`, id); err != nil {
		return false, fmt.Errorf("mysql: clear category links: %w", err)
	}
	for _, cid := range categoryIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO event_categories (event_id, category_id) VALUES (?, ?)`, id, cid); err != nil {
			return false, fmt.Errorf("mysql: link category %d: %w", cid, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("mysql: commit: %w", err)
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
			return races.Category{}, false, fmt.Errorf("mysql: insert category: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return races.Category{}, false, fmt.Errorf("mysql: insert category id: %w", err)
		}
		cat = defaults
		cat.ID = id
		cat.DisplayName = displayName
		return cat, true, nil
	case err != nil:
		return races.Category{}, false, fmt.Errorf("mysql: find category: %w", err)
	}
	cat.DistanceKM = races.DistanceKM(math.Round(km * 100))
	return cat, false, nil
}

// UpdateCategoryDistance overwrites the stored distance for a category.
func (r *Repository) UpdateCategoryDistance(ctx context.Context, id int64, km races.DistanceKM) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE categories SET distance_km = ? WHERE id = ?`, km.Float64(), id); err != nil {
		return fmt.Errorf("mysql: update category distance: %w", err)
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
		return nil, fmt.Errorf("mysql: active events: %w", err)
	}
	defer rows.Close()

	var found []storage.EventRow
	for rows.Next() {
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
			return nil, fmt.Errorf("mysql: scan event: %w", err)
		}
		if end.Valid {
			ev.EndDate = end.Time
		}
		found = append(found, ev)
		if len(found) > 1 {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("mysql: active events: %w", err)
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
		return fmt.Errorf("mysql: exec: %w", err)
	}
	return nil
}

func nullDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
