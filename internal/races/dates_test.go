package races_test

import (
	"testing"
	"time"

	"github.com/PBPF11/vacathon/internal/races"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseEventDates(t *testing.T) {
	cases := []struct {
		label    string
		fallback int
		start    time.Time
		end      time.Time
	}{
		{"06.01.2018", 2018, day(2018, 1, 6), day(2018, 1, 6)},
		{"05.-06.01.2018", 2018, day(2018, 1, 5), day(2018, 1, 6)},
		{"23.-25.03.2018", 2018, day(2018, 3, 23), day(2018, 3, 25)},
		{"23.03.-08.04.2018", 2018, day(2018, 3, 23), day(2018, 4, 8)},
		// Cross-year range: start year rewound by one.
		{"28.12.-02.01.2019", 2019, day(2018, 12, 28), day(2019, 1, 2)},
		// Separator variants: en dash, spaces, slashes.
		{"23.–25.03.2018", 2018, day(2018, 3, 23), day(2018, 3, 25)},
		{"23. - 25.03.2018", 2018, day(2018, 3, 23), day(2018, 3, 25)},
		{"06/01/2018", 2018, day(2018, 1, 6), day(2018, 1, 6)},
		// Two-part fragment inherits the fallback year.
		{"06.01.", 2017, day(2017, 1, 6), day(2017, 1, 6)},
	}

	for _, tc := range cases {
		start, end, ok := races.ParseEventDates(tc.label, tc.fallback)
		if !ok {
			t.Fatalf("%q: parse failed", tc.label)
		}
		if !start.Equal(tc.start) || !end.Equal(tc.end) {
			t.Fatalf("%q: got %s - %s, want %s - %s",
				tc.label, start.Format("2006-01-02"), end.Format("2006-01-02"),
				tc.start.Format("2006-01-02"), tc.end.Format("2006-01-02"))
		}
	}
}

func TestParseEventDatesUnparseable(t *testing.T) {
	for _, label := range []string{"", "xx.yy.zzzz", "??", "32.13.2018"} {
		if _, _, ok := races.ParseEventDates(label, 2018); ok {
			t.Fatalf("%q: expected parse failure", label)
		}
	}
}

func TestParseEventDatesCollapsesToSingleDay(t *testing.T) {
	// End fragment carries the full date; unparseable start collapses the
	// range to the end day.
	start, end, ok := races.ParseEventDates("xx.-25.03.2018", 2018)
	if !ok {
		t.Fatalf("parse failed")
	}
	if !start.Equal(day(2018, 3, 25)) || !end.Equal(day(2018, 3, 25)) {
		t.Fatalf("got %s - %s, want collapse to 2018-03-25", start, end)
	}
}
