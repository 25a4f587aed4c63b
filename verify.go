package certdel

import (
	"fmt"

	"github.com/qdel-labs/certdel/bitarray"
)

// Verify checks a candidate deletion certificate against the key: the
// substring at the Hadamard positions is compared to the expected string
// RBar, and the certificate is accepted iff the Hamming distance is strictly
// below delta*k. The distance is returned either way so callers can build
// rejection histograms.
//
// This is a statistical test: honest deletion under noise lands at small
// positive distances, while the optimal non-deleting strategy concentrates
// near k*sin^2(pi/8). Calibrating delta to separate the two is the caller's
// responsibility.
func Verify(key *Key, certificate bitarray.Dense, delta float64) (accepted bool, distance int, err error) {
	if certificate.Size() != len(key.Theta) {
		return false, 0, fmt.Errorf("certificate has %d bits, want %d: %w",
			certificate.Size(), len(key.Theta), ErrMalformedMeasurement)
	}
	restricted := certificate.Select(key.HadamardMask())
	distance, err = bitarray.Distance(key.RBar, restricted)
	if err != nil {
		return false, 0, err
	}
	k := restricted.Size()
	return float64(distance) < delta*float64(k), distance, nil
}

// A VerifyTally sums weighted verification outcomes over a certificate count
// table.
type VerifyTally struct {
	Accepted int
	Rejected int

	// RejectedDistances histograms the Hamming distances of rejected
	// certificates, keyed by distance.
	RejectedDistances map[int]int

	// AcceptedCertificates retains the verbatim accepted certificate
	// strings, so combined tests can correlate acceptance with a second
	// measurement from the same trial.
	AcceptedCertificates map[string]struct{}

	// Faults lists entries that could not be verified; their shots appear in
	// neither count.
	Faults []Fault
}

// VerifyCounts runs Verify for every distinct certificate string in
// certificates, weighted by occurrence. Malformed entries are isolated as
// Faults; the remaining entries still tally.
func VerifyCounts(certificates MeasurementCounts, key *Key, params *SchemeParameters) VerifyTally {
	tally := VerifyTally{
		RejectedDistances:    make(map[int]int),
		AcceptedCertificates: make(map[string]struct{}),
	}
	for certificate, count := range certificates {
		bits, err := bitarray.FromString(certificate)
		if err != nil {
			tally.Faults = append(tally.Faults, Fault{Measurement: certificate,
				Err: fmt.Errorf("%v: %w", err, ErrMalformedMeasurement)})
			continue
		}
		accepted, distance, err := Verify(key, bits, params.Delta)
		if err != nil {
			tally.Faults = append(tally.Faults, Fault{Measurement: certificate, Err: err})
			continue
		}
		if accepted {
			tally.Accepted += count
			tally.AcceptedCertificates[certificate] = struct{}{}
		} else {
			tally.Rejected += count
			tally.RejectedDistances[distance] += count
		}
	}
	return tally
}
