package races

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Key identifies a logical event: all rows for the same year, name, country,
// and original date range merge into one record. Dates are carried as
// ISO-8601 strings so the struct stays comparable.
type Key struct {
	Year    int
	Name    string // lowercased base name
	Country string // country code or ""
	Start   string
	End     string
}

// KeyFor derives the aggregation key for a fact.
func KeyFor(f *Fact) Key {
	return Key{
		Year:    f.Year,
		Name:    strings.ToLower(f.BaseName),
		Country: f.CountryCode,
		Start:   isoDate(f.OriginalStart),
		End:     isoDate(f.OriginalEnd),
	}
}

func isoDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// EventRecord accumulates every fact contributing to one logical event.
// Records are created and mutated exclusively by the Aggregator and handed
// off read-only to schedule synthesis and category resolution.
type EventRecord struct {
	Year          int
	BaseName      string
	CountryCode   string
	Country       string
	OriginalName  string
	DateLabel     string
	OriginalStart time.Time
	OriginalEnd   time.Time
	Finishers     int // maximum across contributing rows
	Rows          int

	distanceLabels map[string]struct{}
}

// Title is the upsert identity of the persisted event.
func (e *EventRecord) Title() string { return fmt.Sprintf("%s %d", e.BaseName, e.Year) }

// City and Venue mirror the base name; the dataset has no finer location.
func (e *EventRecord) City() string  { return e.BaseName }
func (e *EventRecord) Venue() string { return e.BaseName }

// AddDistance records a distance label; empty labels are ignored.
func (e *EventRecord) AddDistance(label string) {
	label = strings.TrimSpace(label)
	if label == "" {
		return
	}
	if e.distanceLabels == nil {
		e.distanceLabels = make(map[string]struct{})
	}
	e.distanceLabels[label] = struct{}{}
}

// RaiseFinishers lifts the finisher count to value when it is higher.
// Counts are maxima, not sums: the dataset repeats the total per row.
func (e *EventRecord) RaiseFinishers(value int) {
	if value > e.Finishers {
		e.Finishers = value
	}
}

// DistanceLabels returns the distinct labels in lexicographic order, the
// order categories are resolved in.
func (e *EventRecord) DistanceLabels() []string {
	out := make([]string, 0, len(e.distanceLabels))
	for l := range e.distanceLabels {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Aggregator merges facts into insertion-ordered event records. Order
// matters: it makes imports reproducible and gives --limit a stable cutoff.
type Aggregator struct {
	limit  int
	keys   []Key
	events map[Key]*EventRecord
}

// NewAggregator returns an Aggregator. A limit > 0 caps the number of
// distinct keys admitted; rows for already-admitted keys keep merging after
// the cap is hit, rows introducing new keys are dropped.
func NewAggregator(limit int) *Aggregator {
	return &Aggregator{limit: limit, events: make(map[Key]*EventRecord)}
}

// Add merges one fact. It reports false only when the fact was dropped by
// the distinct-key limit.
func (a *Aggregator) Add(f *Fact) bool {
	key := KeyFor(f)

	rec, ok := a.events[key]
	if !ok {
		if a.limit > 0 && len(a.events) >= a.limit {
			return false
		}
		rec = &EventRecord{
			Year:          f.Year,
			BaseName:      f.BaseName,
			CountryCode:   f.CountryCode,
			Country:       f.Country,
			OriginalName:  f.OriginalName,
			DateLabel:     f.DateLabel,
			OriginalStart: f.OriginalStart,
			OriginalEnd:   f.OriginalEnd,
			Finishers:     f.Finishers,
		}
		a.events[key] = rec
		a.keys = append(a.keys, key)
	} else {
		rec.RaiseFinishers(f.Finishers)
	}

	rec.AddDistance(f.DistanceLabel)
	rec.Rows++
	return true
}

// Len reports the number of distinct events admitted so far.
func (a *Aggregator) Len() int { return len(a.events) }

// Events returns the aggregated records in first-seen order.
func (a *Aggregator) Events() []*EventRecord {
	out := make([]*EventRecord, 0, len(a.keys))
	for _, k := range a.keys {
		out = append(out, a.events[k])
	}
	return out
}
