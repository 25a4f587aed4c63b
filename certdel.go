// Package certdel implements the classical protocol engine of the BI20
// quantum encryption scheme with certified deletion: key generation, the
// GF(2) universal hashes used for privacy amplification and error-correction
// verification, the encryption and decryption transforms, the
// deletion-certificate verification test, and the aggregation of multi-shot
// measurement outcomes.
//
// Preparation and measurement of quantum states belong to an external
// backend; see the backend package for the boundary.
package certdel

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks.
var (
	// ErrInvalidParameters is returned when scheme parameters are internally
	// inconsistent.
	ErrInvalidParameters = errors.New("invalid scheme parameters")

	// ErrLengthMismatch is returned when a message, pad, or measurement
	// string disagrees with the scheme dimensions.
	ErrLengthMismatch = errors.New("length disagrees with scheme dimensions")

	// ErrMalformedMeasurement is returned for a measurement string of
	// unexpected length or content.
	ErrMalformedMeasurement = errors.New("malformed measurement string")
)

// MeasurementCounts maps an observed measurement string, as reported by the
// quantum backend, to the number of shots that produced it. Keys of combined
// two-stage tables are the two outcome strings joined by a single space.
type MeasurementCounts map[string]int

// Shots returns the total number of shots in the table.
func (mc MeasurementCounts) Shots() int {
	total := 0
	for _, c := range mc {
		total += c
	}
	return total
}

// A Fault records a count-table entry that could not be processed. Batch
// operations collect faults instead of aborting, so one malformed entry
// cannot poison the rest of a table.
type Fault struct {
	Measurement string
	Err         error
}

func (f Fault) String() string {
	return fmt.Sprintf("%q: %v", f.Measurement, f.Err)
}

// A Basis tags the encoding basis of a single position.
type Basis uint8

const (
	// Computational is the 0/1 basis; positions in it carry the bits that
	// one-time-pad the message.
	Computational Basis = iota
	// Hadamard is the conjugate +/- basis; positions in it carry the
	// deletion certificate.
	Hadamard
)

func (b Basis) String() string {
	switch b {
	case Computational:
		return "computational"
	case Hadamard:
		return "hadamard"
	}
	return fmt.Sprintf("Basis(%d)", uint8(b))
}
