// Package postgres implements a Postgres repository using pgx v5. Writes go
// through a pgxpool; each event upsert runs in its own transaction.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PBPF11/vacathon/internal/races"
	"github.com/PBPF11/vacathon/internal/storage"
)

// Config holds Postgres repository configuration.
type Config struct {
	DSN string // connection string for pgxpool
}

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository and returns a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres: ping: %w", err)
	}
	closeFn := func() { pool.Close() }
	return &Repository{pool: pool}, closeFn, nil
}

// UpsertEvent writes the event keyed by title and replaces its category
// links, all inside one transaction.
func (r *Repository) UpsertEvent(ctx context.Context, ev storage.EventRow, categoryIDs []int64) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("postgres: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	created := false
	err = tx.QueryRow(ctx, `SELECT id FROM events WHERE title = $1`, ev.Title).Scan(&id)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		err = tx.QueryRow(ctx, `
			INSERT INTO events (
				title, description, city, country, venue,
				start_date, end_date, registration_open, registration_deadline,
				status, popularity_score, participant_limit, registered_count,
				featured, banner_image
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			RETURNING id`,
			ev.Title, ev.Description, ev.City, ev.Country, ev.Venue,
			ev.StartDate, nullDate(ev.EndDate), ev.RegistrationOpen, ev.RegistrationDeadline,
			ev.Status, ev.PopularityScore, ev.ParticipantLimit, ev.RegisteredCount,
			ev.Featured, ev.BannerImage,
		).Scan(&id)
		if err != nil {
			return false, fmt.Errorf("postgres: insert event: %w", err)
		}
		created = true
	case err != nil:
		return false, fmt.Errorf("postgres: find event: %w", err)
	default:
		_, err = tx.Exec(ctx, `
			UPDATE events SET
				description = $1, city = $2, country = $3, venue = $4,
				start_date = $5, end_date = $6, registration_open = $7, registration_deadline = $8,
				status = $9, popularity_score = $10, participant_limit = $11, registered_count = $12,
				featured = $13, banner_image = $14
			WHERE id = $15`,
			ev.Description, ev.City, ev.Country, ev.Venue,
			ev.StartDate, nullDate(ev.EndDate), ev.RegistrationOpen, ev.RegistrationDeadline,
			ev.Status, ev.PopularityScore, ev.ParticipantLimit, ev.RegisteredCount,
			ev.Featured, ev.BannerImage, id,
		)
		if err != nil {
			return false, fmt.Errorf("postgres: update event: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM event_categories WHERE event_id = $1`, id); err != nil {
		return false, fmt.Errorf("postgres: clear category links: %w", err)
	}
	for _, cid := range categoryIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO event_categories (event_id, category_id) VALUES ($1, $2)`, id, cid); err != nil {
			return false, fmt.Errorf("postgres: link category %d: %w", cid, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("postgres: commit: %w", err)
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
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, display_name, distance_km FROM categories WHERE display_name = $1`,
		displayName).Scan(&cat.ID, &cat.Name, &cat.DisplayName, &km)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		cat = defaults
		cat.DisplayName = displayName
		err = r.pool.QueryRow(ctx,
			`INSERT INTO categories (name, display_name, distance_km) VALUES ($1, $2, $3) RETURNING id`,
			defaults.Name, displayName, defaults.DistanceKM.Float64()).Scan(&cat.ID)
		if err != nil {
			return races.Category{}, false, fmt.Errorf("postgres: insert category: %w", err)
		}
		return cat, true, nil
	case err != nil:
		return races.Category{}, false, fmt.Errorf("postgres: find category: %w", err)
	}
	cat.DistanceKM = races.DistanceKM(math.Round(km * 100))
	return cat, false, nil
}

// UpdateCategoryDistance overwrites the stored distance for a category.
func (r *Repository) UpdateCategoryDistance(ctx context.Context, id int64, km races.DistanceKM) error {
	if _, err := r.pool.Exec(ctx,
		`UPDATE categories SET distance_km = $1 WHERE id = $2`, km.Float64(), id); err != nil {
		return fmt.Errorf("postgres: update category distance: %w", err)
	}
	return nil
}

// ActiveEventForCategory returns the single non-completed event linked to
// the category, or nil when there is none or more than one.
func (r *Repository) ActiveEventForCategory(ctx context.Context, categoryID int64) (*storage.EventRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT e.id, e.title, e.description, e.city, e.country, e.venue,
		       e.start_date, e.end_date, e.registration_open, e.registration_deadline,
		       e.status, e.popularity_score, e.participant_limit, e.registered_count,
		       e.featured, e.banner_image
		FROM events e
		JOIN event_categories ec ON ec.event_id = e.id
		WHERE ec.category_id = $1 AND e.status <> $2`,
		categoryID, races.StatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("postgres: active events: %w", err)
	}
	defer rows.Close()

	var found []storage.EventRow
	for rows.Next() {
		var (
			ev  storage.EventRow
			end *time.Time
		)
		err := rows.Scan(
			&ev.ID, &ev.Title, &ev.Description, &ev.City, &ev.Country, &ev.Venue,
			&ev.StartDate, &end, &ev.RegistrationOpen, &ev.RegistrationDeadline,
			&ev.Status, &ev.PopularityScore, &ev.ParticipantLimit, &ev.RegisteredCount,
			&ev.Featured, &ev.BannerImage,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan event: %w", err)
		}
		if end != nil {
			ev.EndDate = *end
		}
		found = append(found, ev)
		if len(found) > 1 {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: active events: %w", err)
	}
	if len(found) != 1 {
		return nil, nil
	}
	return &found[0], nil
}

// Exec executes an arbitrary SQL statement (typically DDL).
func (r *Repository) Exec(ctx context.Context, query string, args ...any) error {
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("postgres: exec: %w", err)
	}
	return nil
}

func nullDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
