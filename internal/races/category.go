package races

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/zeebo/xxh3"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Category is a named race distance or format ("42km", "6h") linked to one
// or more events. The core resolves categories but never owns the store.
type Category struct {
	ID          int64
	Name        string // slug-safe short name
	DisplayName string // unique identity, the raw distance label
	DistanceKM  DistanceKM
}

// CategoryStore is the persistence surface the resolver needs. It is
// satisfied by storage.Repository; tests plug in an in-memory fake.
type CategoryStore interface {
	// GetOrCreateCategory looks up the category with the given display
	// label, creating it from defaults when absent. It reports whether a
	// new record was created.
	GetOrCreateCategory(ctx context.Context, displayName string, defaults Category) (Category, bool, error)

	// UpdateCategoryDistance overwrites the stored distance of a category.
	UpdateCategoryDistance(ctx context.Context, id int64, km DistanceKM) error
}

// CategoryResolver maps distance labels to categories, caching lookups for
// the duration of one import run. The cache is owned by the resolver rather
// than being process-wide, so runs stay re-entrant and testable.
type CategoryResolver struct {
	store CategoryStore
	cache map[string]Category
}

// NewCategoryResolver returns a resolver backed by store with an empty
// per-run cache.
func NewCategoryResolver(store CategoryStore) *CategoryResolver {
	return &CategoryResolver{store: store, cache: make(map[string]Category)}
}

// Resolve maps the event's distance labels to categories in lexicographic
// label order. Cache misses compute the distance, derive a slug name, and
// get-or-create the record keyed by the exact display label.
//
// Healing rule: a pre-existing category whose stored distance is exactly
// zero gets the freshly computed distance, so earlier "distance unknown"
// placeholders recover once a parseable label shows up. A legitimately
// non-zero stored distance is never overwritten.
func (r *CategoryResolver) Resolve(ctx context.Context, ev *EventRecord) ([]Category, error) {
	labels := ev.DistanceLabels()
	out := make([]Category, 0, len(labels))

	for _, label := range labels {
		if cached, ok := r.cache[label]; ok {
			out = append(out, cached)
			continue
		}

		km, known := ParseDistanceKM(label)
		if !known {
			km = 0
		}

		cat, created, err := r.store.GetOrCreateCategory(ctx, label, Category{
			Name:        CategorySlug(label),
			DisplayName: label,
			DistanceKM:  km,
		})
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", label, err)
		}

		if !created && known && cat.DistanceKM == 0 {
			if err := r.store.UpdateCategoryDistance(ctx, cat.ID, km); err != nil {
				return nil, fmt.Errorf("category %q: update distance: %w", label, err)
			}
			cat.DistanceKM = km
		}

		r.cache[label] = cat
		out = append(out, cat)
	}

	return out, nil
}

// maxSlugLen bounds the stored short name.
const maxSlugLen = 100

// CategorySlug derives a slug-safe short name from a distance label. When
// the label slugifies to nothing it retries with colons replaced, and as a
// last resort synthesizes a hash-based name so the record always gets a
// non-empty short name.
func CategorySlug(label string) string {
	if s := slugify(label); s != "" {
		return s
	}
	if s := slugify(strings.ReplaceAll(label, ":", "-")); s != "" {
		return s
	}
	return truncate(fmt.Sprintf("distance-%d", xxh3.HashString(label)), maxSlugLen)
}

// stripMarks removes combining marks after NFD decomposition, folding
// accented letters to ASCII ("crète" → "crete").
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// slugify lowercases, folds diacritics, and reduces everything outside
// [a-z0-9] to single hyphens.
func slugify(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	lastHyphen := true // suppress leading hyphens
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return truncate(strings.Trim(b.String(), "-"), maxSlugLen)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
