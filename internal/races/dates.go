package races

import (
	"strconv"
	"strings"
	"time"
)

// ParseEventDates parses the shorthand date-range labels used by the UM races
// dataset:
//
//	06.01.2018              single date
//	05.-06.01.2018          same-month range
//	23.03.-08.04.2018       cross-month range
//	28.12.-02.01.2019       range crossing the year boundary
//
// The end fragment is parsed first because it is the side most likely to
// carry the fully qualified day.month.year; the start fragment then inherits
// month and year from it. When the parsed start lands after the end, the
// start year is rewound by one to handle Dec→Jan ranges. If only one side
// parses, both dates collapse to that single day.
//
// ok is false when no start date could be derived at all.
func ParseEventDates(label string, fallbackYear int) (start, end time.Time, ok bool) {
	if label == "" {
		return time.Time{}, time.Time{}, false
	}

	cleaned := strings.TrimSpace(label)
	cleaned = strings.ReplaceAll(cleaned, "–", "-")
	cleaned = strings.ReplaceAll(cleaned, "—", "-")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "/", ".")

	parts := strings.Split(cleaned, "-")
	if len(parts) == 1 {
		single, okStart := parseDateFragment(parts[0], fallbackYear, 0)
		if !okStart {
			return time.Time{}, time.Time{}, false
		}
		return single, single, true
	}

	startFrag := parts[0]
	endFrag := parts[len(parts)-1]

	endDate, okEnd := parseDateFragment(endFrag, fallbackYear, 0)

	startYear := fallbackYear
	inheritMonth := 0
	if okEnd {
		startYear = endDate.Year()
		inheritMonth = int(endDate.Month())
	}
	startDate, okStart := parseDateFragment(startFrag, startYear, inheritMonth)

	if okStart && okEnd && startDate.After(endDate) {
		// Year-boundary crossing, e.g. 28.12.-02.01.2019. When the rewound
		// date is not a valid calendar day (29.02 on a non-leap year) the
		// original date is kept.
		if adjusted, valid := makeDate(startDate.Year()-1, int(startDate.Month()), startDate.Day()); valid {
			startDate = adjusted
		}
	}

	switch {
	case okStart && !okEnd:
		return startDate, startDate, true
	case okEnd && !okStart:
		return endDate, endDate, true
	case !okStart && !okEnd:
		return time.Time{}, time.Time{}, false
	}
	return startDate, endDate, true
}

// parseDateFragment parses one side of a range. A three-part fragment is a
// full day.month.year; two parts inherit the fallback year; a single part is
// a bare day inheriting both month (when known) and year.
func parseDateFragment(fragment string, fallbackYear, inheritMonth int) (time.Time, bool) {
	token := strings.Trim(fragment, ".")
	if token == "" {
		return time.Time{}, false
	}

	var bits []string
	for _, p := range strings.Split(token, ".") {
		if p != "" {
			bits = append(bits, p)
		}
	}

	var dayTxt, monthTxt, yearTxt string
	switch len(bits) {
	case 3:
		dayTxt, monthTxt, yearTxt = bits[0], bits[1], bits[2]
	case 2:
		dayTxt, monthTxt = bits[0], bits[1]
		yearTxt = strconv.Itoa(fallbackYear)
	case 1:
		dayTxt = bits[0]
		m := inheritMonth
		if m == 0 {
			m = 1
		}
		monthTxt = strconv.Itoa(m)
		yearTxt = strconv.Itoa(fallbackYear)
	default:
		return time.Time{}, false
	}

	day, err := strconv.Atoi(dayTxt)
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(monthTxt)
	if err != nil {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(yearTxt)
	if err != nil {
		return time.Time{}, false
	}

	return makeDate(year, month, day)
}

// makeDate builds a UTC-midnight date and reports whether the components
// named a real calendar day. time.Date silently normalizes overflow (32.01
// becomes 01.02), so the result is checked against the inputs.
func makeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}
