package races_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/PBPF11/vacathon/internal/races"
)

func sampleEvent(t *testing.T, name string) *races.EventRecord {
	t.Helper()
	agg := races.NewAggregator(0)
	agg.Add(fact(t, races.RawRow{Year: "2018", Name: name, Dates: "16.06.2018", Finishers: "100", Distance: "50km"}))
	return agg.Events()[0]
}

func TestSynthesizeIsDeterministic(t *testing.T) {
	today := day(2026, 8, 31)
	ev := sampleEvent(t, "Mozart 100 (AUT)")

	a := races.Synthesize(ev, today)
	b := races.Synthesize(ev, today)
	if a != b {
		t.Fatalf("two invocations differ:\n%+v\n%+v", a, b)
	}
}

func TestSynthesizeInvariants(t *testing.T) {
	today := day(2026, 8, 31)

	// Many distinct seeds exercise every scheduling phase.
	for i := 0; i < 200; i++ {
		ev := sampleEvent(t, fmt.Sprintf("Race %03d (AUT)", i))
		s := races.Synthesize(ev, today)

		if !s.RegistrationDeadline.Before(s.Start) {
			t.Fatalf("seed %d: deadline %s not before start %s", i, s.RegistrationDeadline, s.Start)
		}
		if !s.RegistrationOpen.Before(s.RegistrationDeadline) {
			t.Fatalf("seed %d: open %s not before deadline %s", i, s.RegistrationOpen, s.RegistrationDeadline)
		}
		if !s.End.IsZero() && s.End.Before(s.Start) {
			t.Fatalf("seed %d: end %s before start %s", i, s.End, s.Start)
		}
		if got := races.ClassifyStatus(s.Start, s.End, today); got != s.Status {
			t.Fatalf("seed %d: status %q, classification says %q", i, s.Status, got)
		}
	}
}

func TestSynthesizeSeedIgnoresNameCase(t *testing.T) {
	today := day(2026, 8, 31)
	a := races.Synthesize(sampleEvent(t, "Mozart 100 (AUT)"), today)
	b := races.Synthesize(sampleEvent(t, "MOZART 100 (AUT)"), today)
	if a != b {
		t.Fatalf("seed should lowercase the base name")
	}
}

func TestClassifyStatus(t *testing.T) {
	today := day(2026, 8, 31)
	cases := []struct {
		start, end time.Time
		want       races.Status
	}{
		{day(2026, 9, 10), time.Time{}, races.StatusUpcoming},
		{day(2026, 8, 31), time.Time{}, races.StatusOngoing},
		{day(2026, 8, 29), day(2026, 9, 1), races.StatusOngoing},
		{day(2026, 8, 29), day(2026, 8, 31), races.StatusOngoing},
		{day(2026, 8, 20), day(2026, 8, 22), races.StatusCompleted},
		{day(2026, 8, 30), time.Time{}, races.StatusCompleted},
	}
	for i, tc := range cases {
		if got := races.ClassifyStatus(tc.start, tc.end, today); got != tc.want {
			t.Fatalf("case %d: got %q want %q", i, got, tc.want)
		}
	}
}
