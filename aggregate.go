package certdel

import (
	"fmt"
	"strings"
)

// stageSeparator joins the two outcome strings of a combined two-stage
// measurement, first stage leftmost.
const stageSeparator = " "

// SplitCounts partitions a combined two-stage count table into two
// independent tables, splitting each key at its separator and re-aggregating
// counts under each half. Keys without exactly two stages are isolated as
// faults; both outputs preserve the total shots of the well-formed subset.
func SplitCounts(raw MeasurementCounts) (first, second MeasurementCounts, faults []Fault) {
	first = make(MeasurementCounts, len(raw))
	second = make(MeasurementCounts, len(raw))
	for combined, count := range raw {
		a, b, err := splitKey(combined)
		if err != nil {
			faults = append(faults, Fault{Measurement: combined, Err: err})
			continue
		}
		first[a] += count
		second[b] += count
	}
	return first, second, faults
}

// Correlate restricts a combined two-stage count table to the trials whose
// first-stage measurement is in acceptedFirst, re-keyed and re-aggregated by
// the second-stage measurement alone. It answers the scheme's central
// question: given that the first stage was accepted, how does the second
// distribute?
func Correlate(raw MeasurementCounts, acceptedFirst map[string]struct{}) (MeasurementCounts, []Fault) {
	filtered := make(MeasurementCounts)
	var faults []Fault
	for combined, count := range raw {
		a, b, err := splitKey(combined)
		if err != nil {
			faults = append(faults, Fault{Measurement: combined, Err: err})
			continue
		}
		if _, ok := acceptedFirst[a]; !ok {
			continue
		}
		filtered[b] += count
	}
	return filtered, faults
}

func splitKey(combined string) (first, second string, err error) {
	halves := strings.Split(combined, stageSeparator)
	if len(halves) != 2 {
		return "", "", fmt.Errorf("key has %d stages, want 2: %w", len(halves), ErrMalformedMeasurement)
	}
	return halves[0], halves[1], nil
}
