package races

import (
	"fmt"
	"sort"
	"strings"
)

// proseDate is the long-form date layout used in generated descriptions.
const proseDate = "January 02, 2006"

// BuildDescription assembles the templated event prose from the aggregated
// record and its synthesized schedule. Purely textual; the sentences mirror
// the marketing copy the web app renders on event pages.
func BuildDescription(ev *EventRecord, sched Schedule) string {
	var locationBits []string
	if ev.BaseName != "" {
		locationBits = append(locationBits, ev.BaseName)
	}
	if ev.Country != "" && ev.Country != "Unknown" {
		locationBits = append(locationBits, ev.Country)
	}
	location := "this destination"
	if len(locationBits) > 0 {
		location = strings.Join(locationBits, ", ")
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("%s welcomes endurance athletes to %s.", ev.OriginalName, location))

	switch {
	case sched.Start.IsZero():
		lines = append(lines, fmt.Sprintf("The %d edition promises a refreshed course experience.", ev.Year))
	case !sched.End.IsZero() && !sched.End.Equal(sched.Start):
		lines = append(lines, fmt.Sprintf(
			"The %d edition runs from %s to %s, delivering multi-day racing energy.",
			ev.Year, sched.Start.Format(proseDate), sched.End.Format(proseDate)))
	default:
		lines = append(lines, fmt.Sprintf(
			"The %d edition takes place on %s, perfect for a focused race weekend.",
			ev.Year, sched.Start.Format(proseDate)))
	}

	if distances := displayLabels(ev); len(distances) > 0 {
		lines = append(lines, fmt.Sprintf(
			"Choose from %s challenges crafted for both seasoned ultra runners and ambitious newcomers.",
			JoinLabels(distances)))
	} else {
		lines = append(lines, "Look forward to a curated set of race categories tailored for diverse running goals.")
	}

	if ev.Finishers > 0 {
		lines = append(lines, fmt.Sprintf(
			"Historical results highlight %d recorded finishers, underscoring supportive crews and dependable race logistics.",
			ev.Finishers))
	} else {
		lines = append(lines, "Historic records highlight a tight-knit community of trail athletes backing every stride.")
	}

	if !sched.RegistrationOpen.IsZero() && !sched.RegistrationDeadline.IsZero() {
		lines = append(lines, fmt.Sprintf(
			"Registration opens %s and remains available until %s, giving you ample time to plan travel and training.",
			sched.RegistrationOpen.Format(proseDate), sched.RegistrationDeadline.Format(proseDate)))
	}

	lines = append(lines, "Expect attentive aid support, scenic sections worthy of a run-cation, and camaraderie that turns every kilometer into a shared adventure.")

	return strings.Join(lines, "\n\n")
}

// displayLabels orders distance labels for prose: shortest first, then
// case-insensitive alphabetical, so "50km" reads before "100km marathon".
func displayLabels(ev *EventRecord) []string {
	labels := ev.DistanceLabels()
	sort.SliceStable(labels, func(i, j int) bool {
		if len(labels[i]) != len(labels[j]) {
			return len(labels[i]) < len(labels[j])
		}
		return strings.ToLower(labels[i]) < strings.ToLower(labels[j])
	})
	return labels
}

// JoinLabels renders a list with English conjunctions: "X", "X and Y",
// "X, Y, and Z".
func JoinLabels(labels []string) string {
	switch len(labels) {
	case 0:
		return ""
	case 1:
		return labels[0]
	case 2:
		return labels[0] + " and " + labels[1]
	}
	return strings.Join(labels[:len(labels)-1], ", ") + ", and " + labels[len(labels)-1]
}
