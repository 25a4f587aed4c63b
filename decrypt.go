package certdel

import (
	"fmt"

	"github.com/qdel-labs/certdel/bitarray"
)

// An Outcome classifies one decryption attempt. Correctness and the
// hash-mismatch flag are independent signals: the flag is the scheme's only
// tamper evidence and a mismatch does not block decryption.
type Outcome struct {
	// Correct reports whether the decrypted string equals the expected
	// message.
	Correct bool
	// Flagged reports whether the error-correction verification hash
	// disagreed with the ciphertext's.
	Flagged bool
	// Decrypted is the candidate plaintext.
	Decrypted bitarray.Dense
}

// Decrypt recovers a candidate plaintext from a measurement of the
// ciphertext's quantum encoding in the bases declared by key.Theta, and
// classifies it against expectedMessage. The measurement may cover all M
// positions or only the S computational ones; any other length is
// ErrMalformedMeasurement. With errorCorrect set, the computational bits are
// first corrected against the ciphertext's syndrome.
func Decrypt(measured bitarray.Dense, key *Key, ct *Ciphertext, expectedMessage bitarray.Dense, params *SchemeParameters, errorCorrect bool) (Outcome, error) {
	r, err := relevantBits(measured, key, params)
	if err != nil {
		return Outcome{}, err
	}
	if errorCorrect {
		syn, err := bitarray.XOr(ct.Q, key.E)
		if err != nil {
			return Outcome{}, err
		}
		r, err = params.Corr(r, syn)
		if err != nil {
			return Outcome{}, err
		}
	}
	ecHash, err := key.ErrorCorrection.MulVec(r)
	if err != nil {
		return Outcome{}, err
	}
	p, err := bitarray.XOr(ecHash, key.D)
	if err != nil {
		return Outcome{}, err
	}
	x, err := key.PrivacyAmplification.MulVec(r)
	if err != nil {
		return Outcome{}, err
	}
	decrypted, err := bitarray.XOr(ct.C, x, key.U)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{
		Correct:   bitarray.Equal(decrypted, expectedMessage),
		Flagged:   !bitarray.Equal(p, ct.P),
		Decrypted: decrypted,
	}, nil
}

// relevantBits extracts the computational-basis substring from a measurement
// of either M or S bits.
func relevantBits(measured bitarray.Dense, key *Key, params *SchemeParameters) (bitarray.Dense, error) {
	switch measured.Size() {
	case params.S:
		// Only the computational positions were measured.
		return measured, nil
	case params.M:
		return measured.Select(key.ComputationalMask()), nil
	default:
		return bitarray.Empty(), fmt.Errorf("measurement has %d bits, want %d or %d: %w",
			measured.Size(), params.S, params.M, ErrMalformedMeasurement)
	}
}

// A DecryptTally sums weighted decryption outcomes into the four mutually
// exclusive buckets of correctness crossed with the tamper flag.
type DecryptTally struct {
	CorrectUnflagged   int
	CorrectFlagged     int
	IncorrectUnflagged int
	IncorrectFlagged   int

	// Faults lists entries that could not be decrypted at all; their shots
	// appear in no bucket.
	Faults []Fault
}

// Correct returns the shots that decrypted to the expected message.
func (t DecryptTally) Correct() int {
	return t.CorrectUnflagged + t.CorrectFlagged
}

// Incorrect returns the shots that decrypted to anything else.
func (t DecryptTally) Incorrect() int {
	return t.IncorrectUnflagged + t.IncorrectFlagged
}

// Flagged returns the shots whose verification hash mismatched.
func (t DecryptTally) Flagged() int {
	return t.CorrectFlagged + t.IncorrectFlagged
}

// Classified returns the shots that landed in any bucket.
func (t DecryptTally) Classified() int {
	return t.Correct() + t.Incorrect()
}

// DecryptCounts applies Decrypt to every distinct measurement string in
// counts, weighted by its occurrence count. Malformed entries are isolated as
// Faults; the remaining entries still tally.
func DecryptCounts(counts MeasurementCounts, key *Key, ct *Ciphertext, expectedMessage bitarray.Dense, params *SchemeParameters, errorCorrect bool) DecryptTally {
	var tally DecryptTally
	for measurement, count := range counts {
		bits, err := bitarray.FromString(measurement)
		if err != nil {
			tally.Faults = append(tally.Faults, Fault{Measurement: measurement,
				Err: fmt.Errorf("%v: %w", err, ErrMalformedMeasurement)})
			continue
		}
		outcome, err := Decrypt(bits, key, ct, expectedMessage, params, errorCorrect)
		if err != nil {
			tally.Faults = append(tally.Faults, Fault{Measurement: measurement, Err: err})
			continue
		}
		switch {
		case outcome.Correct && outcome.Flagged:
			tally.CorrectFlagged += count
		case outcome.Correct:
			tally.CorrectUnflagged += count
		case outcome.Flagged:
			tally.IncorrectFlagged += count
		default:
			tally.IncorrectUnflagged += count
		}
	}
	return tally
}
