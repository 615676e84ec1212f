// Package storage contains storage-agnostic contracts for persisting derived
// events. Concrete backends (postgres, sqlite, mysql, mssql) register
// themselves with the factory here at init time; the importer stays fully
// backend-agnostic and depends only on the Repository interface.
package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/PBPF11/vacathon/internal/races"
)

// Config selects and configures a storage backend.
type Config struct {
	// Kind selects the registered backend, e.g. "sqlite" or "postgres".
	Kind string

	// DSN is the backend connection string.
	DSN string
}

// EventRow is one persisted event, keyed by its unique title. The fields
// mirror the events table; the importer assembles rows from aggregated
// records and their synthesized schedules.
type EventRow struct {
	ID          int64
	Title       string
	Description string
	City        string
	Country     string
	Venue       string

	StartDate time.Time
	// EndDate is the zero time for single-day events; stored as NULL.
	EndDate              time.Time
	RegistrationOpen     time.Time
	RegistrationDeadline time.Time

	Status           string
	PopularityScore  int
	ParticipantLimit int
	RegisteredCount  int
	Featured         bool
	BannerImage      string
}

// Repository is the persistence surface of the importer. Every method must
// be safe to call repeatedly: the importer is an idempotent, re-runnable
// batch job that updates existing records rather than duplicating them.
type Repository interface {
	// CategoryStore provides category get-or-create and distance healing
	// for the resolver.
	races.CategoryStore

	// UpsertEvent writes the event and replaces its category links, keyed
	// by title, inside one transaction: an event is never left linked to a
	// partial category set. It reports whether a new record was created.
	UpsertEvent(ctx context.Context, ev EventRow, categoryIDs []int64) (created bool, err error)

	// ActiveEventForCategory returns the single non-completed event linked
	// to the category, or nil when there is none or more than one. The
	// inverse lookup is inherently ambiguous for shared categories; the
	// ambiguity is surfaced as nil rather than resolved here.
	ActiveEventForCategory(ctx context.Context, categoryID int64) (*EventRow, error)

	// Exec executes an arbitrary statement, typically schema DDL.
	Exec(ctx context.Context, query string, args ...any) error

	// Close releases the underlying connection pool.
	Close()
}

// Factory constructs a Repository for a storage kind.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for a storage kind. It is
// typically called from backend packages' init functions; importing
// internal/storage/all wires every built-in backend.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens a Repository for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown storage kind %q (registered: %s)", cfg.Kind, strings.Join(Kinds(), ", "))
	}
	return f(ctx, cfg)
}

// Kinds lists the registered storage kinds, sorted.
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
