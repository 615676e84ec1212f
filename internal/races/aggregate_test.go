package races_test

import (
	"reflect"
	"testing"

	"github.com/PBPF11/vacathon/internal/races"
)

func fact(t *testing.T, row races.RawRow) *races.Fact {
	t.Helper()
	f := races.Normalize(row)
	if f == nil {
		t.Fatalf("fixture row did not normalize: %+v", row)
	}
	return f
}

func TestAggregatorMergesByKey(t *testing.T) {
	agg := races.NewAggregator(0)

	agg.Add(fact(t, races.RawRow{Year: "2018", Name: "Mozart 100 (AUT)", Dates: "16.06.2018", Finishers: "10", Distance: "21km"}))
	agg.Add(fact(t, races.RawRow{Year: "2018", Name: "mozart 100 (AUT)", Dates: "16.06.2018", Finishers: "25", Distance: "42km"}))
	agg.Add(fact(t, races.RawRow{Year: "2018", Name: "Mozart 100 (AUT)", Dates: "16.06.2018", Finishers: "5", Distance: "42km"}))

	events := agg.Events()
	if len(events) != 1 {
		t.Fatalf("events=%d want 1", len(events))
	}

	ev := events[0]
	if ev.Finishers != 25 {
		t.Fatalf("finishers=%d want max 25, not sum", ev.Finishers)
	}
	if got, want := ev.DistanceLabels(), []string{"21km", "42km"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("labels=%v want %v", got, want)
	}
	if ev.Rows != 3 {
		t.Fatalf("rows=%d want 3", ev.Rows)
	}
}

func TestAggregatorDistinguishesKeys(t *testing.T) {
	agg := races.NewAggregator(0)

	agg.Add(fact(t, races.RawRow{Year: "2018", Name: "Mozart 100 (AUT)", Dates: "16.06.2018"}))
	agg.Add(fact(t, races.RawRow{Year: "2019", Name: "Mozart 100 (AUT)", Dates: "16.06.2019"}))
	agg.Add(fact(t, races.RawRow{Year: "2018", Name: "Mozart 100 (GER)", Dates: "16.06.2018"}))
	agg.Add(fact(t, races.RawRow{Year: "2018", Name: "Mozart 100 (AUT)", Dates: "17.06.2018"}))

	if agg.Len() != 4 {
		t.Fatalf("len=%d want 4 distinct events", agg.Len())
	}
}

func TestAggregatorPreservesInsertionOrder(t *testing.T) {
	agg := races.NewAggregator(0)
	names := []string{"Charlie Run", "Alpha Run", "Bravo Run"}
	for _, n := range names {
		agg.Add(fact(t, races.RawRow{Year: "2018", Name: n, Dates: "06.01.2018"}))
	}

	events := agg.Events()
	for i, ev := range events {
		if ev.BaseName != names[i] {
			t.Fatalf("order[%d]=%q want %q", i, ev.BaseName, names[i])
		}
	}
}

func TestAggregatorLimit(t *testing.T) {
	agg := races.NewAggregator(2)

	agg.Add(fact(t, races.RawRow{Year: "2018", Name: "A", Dates: "06.01.2018", Finishers: "1"}))
	agg.Add(fact(t, races.RawRow{Year: "2018", Name: "B", Dates: "06.01.2018", Finishers: "1"}))

	// New key beyond the cap is dropped.
	if agg.Add(fact(t, races.RawRow{Year: "2018", Name: "C", Dates: "06.01.2018", Finishers: "1"})) {
		t.Fatalf("expected third distinct key to be dropped")
	}

	// An admitted key keeps merging after the cap is hit.
	if !agg.Add(fact(t, races.RawRow{Year: "2018", Name: "A", Dates: "06.01.2018", Finishers: "9", Distance: "50km"})) {
		t.Fatalf("existing key should still merge")
	}

	if agg.Len() != 2 {
		t.Fatalf("len=%d want 2", agg.Len())
	}
	if ev := agg.Events()[0]; ev.Finishers != 9 {
		t.Fatalf("finishers=%d want 9", ev.Finishers)
	}
}

func TestEventRecordTitle(t *testing.T) {
	agg := races.NewAggregator(0)
	agg.Add(fact(t, races.RawRow{Year: "2018", Name: "Mozart 100 (AUT)", Dates: "16.06.2018"}))
	ev := agg.Events()[0]
	if ev.Title() != "Mozart 100 2018" {
		t.Fatalf("title=%q", ev.Title())
	}
	if ev.City() != "Mozart 100" || ev.Venue() != "Mozart 100" {
		t.Fatalf("city/venue should mirror the base name")
	}
}
