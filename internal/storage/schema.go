package storage

import (
	"context"
	"fmt"
	"sync"
)

// SchemaFunc applies a backend's schema statements through the repository.
type SchemaFunc func(ctx context.Context, repo Repository) error

var (
	schemaMu sync.RWMutex
	schemas  = map[string]SchemaFunc{}
)

// RegisterSchema registers the schema bootstrapper for a storage kind.
// Backends register alongside their factory so that auto-migration works
// for whichever kind the run selects.
func RegisterSchema(kind string, fn SchemaFunc) {
	schemaMu.Lock()
	defer schemaMu.Unlock()
	schemas[kind] = fn
}

// EnsureSchema creates the events, categories and link tables for the kind
// if they do not exist. Statements are idempotent; running against an
// existing schema is a no-op.
func EnsureSchema(ctx context.Context, kind string, repo Repository) error {
	schemaMu.RLock()
	fn, ok := schemas[kind]
	schemaMu.RUnlock()
	if !ok {
		return fmt.Errorf("no schema registered for storage kind %q", kind)
	}
	if err := fn(ctx, repo); err != nil {
		return fmt.Errorf("ensure schema (%s): %w", kind, err)
	}
	return nil
}
