package races

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DistanceKM is a race distance in hundredths of a kilometre. The dataset
// expresses distances with at most two decimal places, and mile conversion
// quantizes to the same precision, so integer hundredths keep every value
// exact and comparable without float drift.
type DistanceKM int64

// String renders the distance with two decimal places, e.g. "42.16".
func (d DistanceKM) String() string {
	sign := ""
	v := int64(d)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Float64 returns the distance in kilometres.
func (d DistanceKM) Float64() float64 { return float64(d) / 100 }

// kmPerMile is the mile conversion factor scaled by 1e5 (1.60934).
const kmPerMileE5 = 160934

var distanceRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)(km|mi|h)$`)

// ParseDistanceKM converts a distance label into kilometres.
//
//	"42km"   → 42.00
//	"26.2mi" → 42.16   (26.2 × 1.60934, rounded half-up to 2 places)
//	"6h"     → 0.00    (hour-based events keep the label, distance is nominal)
//
// Labels that match no pattern but contain an "h" also resolve to zero;
// anything else reports ok=false (distance unknown).
func ParseDistanceKM(label string) (DistanceKM, bool) {
	text := strings.ToLower(strings.TrimSpace(label))
	if text == "" {
		return 0, false
	}

	m := distanceRe.FindStringSubmatch(text)
	if m == nil {
		if strings.Contains(text, "h") {
			return 0, true
		}
		return 0, false
	}

	num, denom, ok := parseDecimal(m[1])
	if !ok {
		return 0, false
	}

	switch m[2] {
	case "km":
		return DistanceKM(roundHalfUpDiv(num*100, denom)), true
	case "mi":
		// value × 1.60934 in hundredths: num/denom × 160934/1e5 × 100.
		return DistanceKM(roundHalfUpDiv(num*kmPerMileE5, denom*1000)), true
	}
	// Hour-based events get a nominal zero distance.
	return 0, true
}

// parseDecimal splits a non-negative decimal literal into an integer
// numerator and power-of-ten denominator, so conversions stay exact.
func parseDecimal(s string) (num, denom int64, ok bool) {
	intPart, fracPart, _ := strings.Cut(s, ".")
	denom = 1
	for range fracPart {
		denom *= 10
	}
	n, err := strconv.ParseInt(intPart+fracPart, 10, 64)
	if err != nil {
		return 0, 0, false
	}
	return n, denom, true
}

// roundHalfUpDiv divides a by b rounding half away from zero; a and b must
// be non-negative with b > 0.
func roundHalfUpDiv(a, b int64) int64 {
	return (2*a + b) / (2 * b)
}
