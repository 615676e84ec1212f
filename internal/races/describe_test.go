package races_test

import (
	"strings"
	"testing"

	"github.com/PBPF11/vacathon/internal/races"
)

func TestJoinLabels(t *testing.T) {
	cases := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"42km"}, "42km"},
		{[]string{"21km", "42km"}, "21km and 42km"},
		{[]string{"21km", "42km", "6h"}, "21km, 42km, and 6h"},
	}
	for _, tc := range cases {
		if got := races.JoinLabels(tc.in); got != tc.want {
			t.Fatalf("%v: got %q want %q", tc.in, got, tc.want)
		}
	}
}

func TestBuildDescription(t *testing.T) {
	ev := sampleEvent(t, "Mozart 100 (AUT)")
	sched := races.Schedule{
		Start:                day(2026, 10, 10),
		End:                  day(2026, 10, 12),
		RegistrationOpen:     day(2026, 6, 1),
		RegistrationDeadline: day(2026, 9, 30),
		Status:               races.StatusUpcoming,
	}

	desc := races.BuildDescription(ev, sched)

	for _, want := range []string{
		"Mozart 100 (AUT) welcomes endurance athletes to Mozart 100, Austria.",
		"runs from October 10, 2026 to October 12, 2026",
		"Choose from 50km challenges",
		"100 recorded finishers",
		"Registration opens June 01, 2026 and remains available until September 30, 2026",
	} {
		if !strings.Contains(desc, want) {
			t.Fatalf("description missing %q:\n%s", want, desc)
		}
	}
}

func TestBuildDescriptionSingleDayUnknownCountry(t *testing.T) {
	ev := sampleEvent(t, "Desert Crossing")
	sched := races.Schedule{Start: day(2026, 10, 10), Status: races.StatusUpcoming}

	desc := races.BuildDescription(ev, sched)
	if !strings.Contains(desc, "takes place on October 10, 2026") {
		t.Fatalf("single-day phrasing missing:\n%s", desc)
	}
	if strings.Contains(desc, "Unknown") {
		t.Fatalf("an unknown country must not appear in the location line:\n%s", desc)
	}
}
