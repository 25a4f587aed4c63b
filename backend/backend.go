// Package backend defines the boundary to the quantum backend that prepares
// and measures the encoded positions of a ciphertext. The protocol core never
// reasons about amplitudes or gates; it hands the backend a basis tag and a
// classical bit per position and receives measurement count tables back.
package backend

import (
	"github.com/qdel-labs/certdel/bitarray"
)

// An Encoding is an opaque reference to a set of prepared positions, owned by
// the backend that prepared them.
type Encoding interface {
	// Positions returns the number of encoded positions.
	Positions() int
}

// A Preparer encodes classical bits into quantum positions.
type Preparer interface {
	// Prepare encodes one bit per position. A set bit in bases selects the
	// Hadamard (conjugate) basis for that position; a clear bit selects the
	// computational basis. bits carries the classical value to encode.
	Prepare(bases, bits bitarray.Dense) (Encoding, error)
}

// A Measurer measures prepared positions in per-position bases and reports
// multi-shot outcome counts.
type Measurer interface {
	// Measure measures every position of enc, in the Hadamard basis where
	// bases is set and the computational basis where it is clear. It returns
	// a map from observed bit string to the number of shots that produced it;
	// counts sum to shots.
	Measure(enc Encoding, bases bitarray.Dense, shots int) (map[string]int, error)
}
