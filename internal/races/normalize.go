// Package races implements the core of the UM races importer: row
// normalization, date-range and distance parsing, event aggregation,
// deterministic schedule synthesis, and category resolution.
//
// The package is persistence-free. It consumes raw CSV cells and produces
// value types that the storage layer upserts; the only external touchpoint
// is the CategoryStore interface used by the resolver.
package races

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// RawRow carries the cells of one CSV record that the importer cares about.
// Values are raw text exactly as read; normalization happens here.
type RawRow struct {
	Year      string // "Year of event"
	Name      string // "Event name"
	Dates     string // "Event dates"
	Finishers string // "Event number of finishers"
	Distance  string // "Event distance/length"
}

// Fact is one successfully normalized row.
type Fact struct {
	Year          int
	BaseName      string // event name with the trailing country code stripped
	CountryCode   string // "" when the name carried no parenthesized code
	Country       string // resolved display name, "Unknown" when absent
	OriginalName  string
	DateLabel     string
	OriginalStart time.Time
	OriginalEnd   time.Time
	Finishers     int
	DistanceLabel string
}

// Normalize parses a raw CSV row into a Fact. It returns nil when the row is
// unusable: missing or non-numeric year, empty name or date label, or a date
// label from which no start date can be derived. Unusable rows are skipped
// silently by the importer; a bad finisher count alone never fails a row.
func Normalize(row RawRow) *Fact {
	year, okYear := ParseYear(row.Year)
	rawName := strings.TrimSpace(row.Name)
	dateLabel := strings.TrimSpace(row.Dates)

	if !okYear || rawName == "" || dateLabel == "" {
		return nil
	}

	baseName, countryCode := SplitEventName(rawName)
	country := NormalizeCountry(countryCode)

	start, end, ok := ParseEventDates(dateLabel, year)
	if !ok {
		return nil
	}

	// Finisher counts are never negative; a bad cell degrades to zero.
	finishers, _ := ParseCount(row.Finishers)
	if finishers < 0 {
		finishers = 0
	}

	return &Fact{
		Year:          year,
		BaseName:      baseName,
		CountryCode:   countryCode,
		Country:       country,
		OriginalName:  rawName,
		DateLabel:     dateLabel,
		OriginalStart: start,
		OriginalEnd:   end,
		Finishers:     finishers,
		DistanceLabel: strings.TrimSpace(row.Distance),
	}
}

// ParseYear parses a year cell. The dataset occasionally writes years as
// floats ("2018.0"); those parse to their integer floor. A zero year is a
// parse failure, not a valid year.
func ParseYear(value string) (int, bool) {
	year, ok := ParseCount(value)
	if !ok || year == 0 {
		return 0, false
	}
	return year, true
}

// ParseCount parses a numeric cell to an integer floor. Empty, non-numeric,
// or non-finite text ("nan", "inf") reports ok=false; callers treat that as
// zero rather than a row failure.
func ParseCount(value string) (int, bool) {
	text := strings.TrimSpace(value)
	if text == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(text); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

// SplitEventName strips a trailing parenthesized country code from an event
// name. Only a 2–3 letter alphabetic token counts as a code; anything else,
// e.g. "(night run)", stays part of the name.
func SplitEventName(rawName string) (base, countryCode string) {
	name := strings.TrimSpace(rawName)
	if !strings.HasSuffix(name, ")") {
		return name, ""
	}
	idx := strings.LastIndex(name, "(")
	if idx < 0 {
		return name, ""
	}

	candidate := strings.TrimSpace(strings.TrimSuffix(name[idx+1:], ")"))
	if len(candidate) < 2 || len(candidate) > 3 || !isAlpha(candidate) {
		return name, ""
	}
	return strings.TrimSpace(name[:idx]), strings.ToUpper(candidate)
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}
