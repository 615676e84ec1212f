package storage_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/PBPF11/vacathon/internal/races"
	"github.com/PBPF11/vacathon/internal/storage"
)

type fakeRepo struct{ kind string }

func (f *fakeRepo) GetOrCreateCategory(ctx context.Context, displayName string, defaults races.Category) (races.Category, bool, error) {
	return races.Category{}, false, nil
}
func (f *fakeRepo) UpdateCategoryDistance(ctx context.Context, id int64, km races.DistanceKM) error {
	return nil
}
func (f *fakeRepo) UpsertEvent(ctx context.Context, ev storage.EventRow, categoryIDs []int64) (bool, error) {
	return false, nil
}
func (f *fakeRepo) ActiveEventForCategory(ctx context.Context, categoryID int64) (*storage.EventRow, error) {
	return nil, nil
}
func (f *fakeRepo) Exec(ctx context.Context, query string, args ...any) error { return nil }
func (f *fakeRepo) Close()                                                    {}

func TestNewUsesRegisteredFactory(t *testing.T) {
	storage.Register("fake-a", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return &fakeRepo{kind: cfg.Kind}, nil
	})

	repo, err := storage.New(context.Background(), storage.Config{Kind: "fake-a", DSN: "x"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	fr, ok := repo.(*fakeRepo)
	if !ok {
		t.Fatalf("New returned %T, want *fakeRepo", repo)
	}
	if fr.kind != "fake-a" {
		t.Fatalf("factory got kind %q", fr.kind)
	}
}

func TestNewUnknownKind(t *testing.T) {
	_, err := storage.New(context.Background(), storage.Config{Kind: "does-not-exist"})
	if err == nil {
		t.Fatalf("expected error for unknown kind")
	}
	if !strings.Contains(err.Error(), "does-not-exist") {
		t.Fatalf("error should name the kind: %v", err)
	}
}

func TestNewPropagatesFactoryError(t *testing.T) {
	want := errors.New("dial failed")
	storage.Register("fake-b", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return nil, want
	})

	_, err := storage.New(context.Background(), storage.Config{Kind: "fake-b"})
	if !errors.Is(err, want) {
		t.Fatalf("New error = %v, want %v", err, want)
	}
}

func TestEnsureSchema(t *testing.T) {
	called := false
	storage.RegisterSchema("fake-c", func(ctx context.Context, repo storage.Repository) error {
		called = true
		return nil
	})

	if err := storage.EnsureSchema(context.Background(), "fake-c", &fakeRepo{}); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if !called {
		t.Fatalf("schema func not invoked")
	}
	if err := storage.EnsureSchema(context.Background(), "fake-d", &fakeRepo{}); err == nil {
		t.Fatalf("expected error for unregistered schema kind")
	}
}
