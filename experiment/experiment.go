// Package experiment runs the scheme's five standard multi-shot tests against
// a quantum backend and aggregates the outcomes into human-readable
// statistics: honest deletion, honest decryption, deletion followed by
// decryption, the Breidbart attack, and decryption followed by deletion.
package experiment

import (
	"fmt"
	"strings"

	"github.com/qdel-labs/certdel"
	"github.com/qdel-labs/certdel/bitarray"
)

// Properties identifies one experiment: a free-form ID, the backend it ran
// on, and the number of shots per test.
type Properties struct {
	ID      string
	Backend string
	Shots   int
}

// An Experiment holds one encryption and the raw count tables of the five
// tests measured against its quantum encoding. Tests 3-5 are two-stage
// tables with space-joined keys, first stage leftmost.
type Experiment struct {
	Properties Properties

	Params     *certdel.SchemeParameters
	Key        *certdel.Key
	Ciphertext *certdel.Ciphertext
	Message    bitarray.Dense

	// DeletionCounts measures every position in the Hadamard basis.
	DeletionCounts certdel.MeasurementCounts
	// DecryptionCounts measures every position in its declared basis.
	DecryptionCounts certdel.MeasurementCounts
	// DeleteDecryptCounts deletes first, then measures in the declared bases.
	DeleteDecryptCounts certdel.MeasurementCounts
	// BreidbartCounts measures everything in the Breidbart basis first, then
	// in the declared bases.
	BreidbartCounts certdel.MeasurementCounts
	// DecryptDeleteCounts measures in the declared bases first, then deletes.
	DecryptDeleteCounts certdel.MeasurementCounts
}

// DeletionStats summarizes the verification outcomes of one test's
// certificates against the expected acceptance rate.
type DeletionStats struct {
	Accepted          int
	Rejected          int
	RejectedDistances map[int]int
	Faults            []certdel.Fault
	ExpectedRate      float64
}

// SuccessRate returns the accepted percentage of the classified shots.
func (s DeletionStats) SuccessRate() float64 {
	total := s.Accepted + s.Rejected
	if total == 0 {
		return 0
	}
	return float64(s.Accepted) / float64(total) * 100
}

func (s DeletionStats) String() string {
	out := fmt.Sprintf("accepted %d/%d (%.1f%%), expected %.1f%%",
		s.Accepted, s.Accepted+s.Rejected, s.SuccessRate(), s.ExpectedRate)
	if len(s.RejectedDistances) > 0 {
		out += fmt.Sprintf(", rejected distances %v", s.RejectedDistances)
	}
	return out
}

// DecryptionStats summarizes the decryption outcomes of one test against the
// expected success range.
type DecryptionStats struct {
	Tally         certdel.DecryptTally
	ExpectedLower float64
	ExpectedUpper float64
}

// SuccessRate returns the correct percentage of the classified shots.
func (s DecryptionStats) SuccessRate() float64 {
	total := s.Tally.Classified()
	if total == 0 {
		return 0
	}
	return float64(s.Tally.Correct()) / float64(total) * 100
}

func (s DecryptionStats) String() string {
	return fmt.Sprintf("correct %d/%d (%.1f%%), expected %.1f%%-%.1f%%, flagged %d",
		s.Tally.Correct(), s.Tally.Classified(), s.SuccessRate(),
		s.ExpectedLower, s.ExpectedUpper, s.Tally.Flagged())
}

// CombinedStats pairs the two halves of a two-stage test.
type CombinedStats struct {
	Deletion   DeletionStats
	Decryption DecryptionStats
}

// Test1 verifies the honest-deletion certificates.
func (e *Experiment) Test1() DeletionStats {
	tally := certdel.VerifyCounts(e.DeletionCounts, e.Key, e.Params)
	return deletionStats(tally, e.Params.ExpectedHonestDeletionRate())
}

// Test2 classifies the honest decryptions, with error correction.
func (e *Experiment) Test2() DecryptionStats {
	tally := certdel.DecryptCounts(e.DecryptionCounts, e.Key, e.Ciphertext, e.Message, e.Params, true)
	lower, upper := e.Params.ExpectedHonestDecryptionRange()
	return DecryptionStats{Tally: tally, ExpectedLower: lower, ExpectedUpper: upper}
}

// Test3 verifies the first-stage deletions and classifies the second-stage
// decryptions of the shots whose deletion was accepted. A correctly deleted
// ciphertext should decrypt at chance level.
func (e *Experiment) Test3() CombinedStats {
	expDel, expLower, expUpper := e.Params.ExpectedDeleteThenDecryptRates()
	return e.combined(e.DeleteDecryptCounts, expDel, expLower, expUpper)
}

// Test4 treats the first-stage Breidbart outcomes as deletion certificates
// and classifies the second-stage decryptions of the accepted shots. The
// Breidbart basis is the optimal simultaneous cheating strategy.
func (e *Experiment) Test4() CombinedStats {
	expDel, expLower, expUpper := e.Params.ExpectedBreidbartRates()
	return e.combined(e.BreidbartCounts, expDel, expLower, expUpper)
}

// Test5 classifies the first-stage decryptions and verifies the second-stage
// deletions. Measuring in the declared bases first collapses the Hadamard
// positions too, so an honest run still deletes successfully afterward.
func (e *Experiment) Test5() CombinedStats {
	first, second, faults := certdel.SplitCounts(e.DecryptDeleteCounts)
	tally := certdel.DecryptCounts(first, e.Key, e.Ciphertext, e.Message, e.Params, true)
	lower, upper := e.Params.ExpectedHonestDecryptionRange()
	vtally := certdel.VerifyCounts(second, e.Key, e.Params)
	del := deletionStats(vtally, e.Params.ExpectedHonestDeletionRate())
	del.Faults = append(del.Faults, faults...)
	return CombinedStats{
		Deletion:   del,
		Decryption: DecryptionStats{Tally: tally, ExpectedLower: lower, ExpectedUpper: upper},
	}
}

// combined verifies the first stage of a two-stage table and decrypts the
// second stage of the accepted shots only.
func (e *Experiment) combined(raw certdel.MeasurementCounts, expDel, expLower, expUpper float64) CombinedStats {
	first, _, faults := certdel.SplitCounts(raw)
	vtally := certdel.VerifyCounts(first, e.Key, e.Params)
	del := deletionStats(vtally, expDel)
	del.Faults = append(del.Faults, faults...)
	correlated, cfaults := certdel.Correlate(raw, vtally.AcceptedCertificates)
	tally := certdel.DecryptCounts(correlated, e.Key, e.Ciphertext, e.Message, e.Params, true)
	tally.Faults = append(tally.Faults, cfaults...)
	return CombinedStats{
		Deletion:   del,
		Decryption: DecryptionStats{Tally: tally, ExpectedLower: expLower, ExpectedUpper: expUpper},
	}
}

func deletionStats(tally certdel.VerifyTally, expected float64) DeletionStats {
	return DeletionStats{
		Accepted:          tally.Accepted,
		Rejected:          tally.Rejected,
		RejectedDistances: tally.RejectedDistances,
		Faults:            tally.Faults,
		ExpectedRate:      expected,
	}
}

// Report renders all five tests as a human-readable summary.
func (e *Experiment) Report() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Experiment %s (%s backend, %d shots per test)\n",
		e.Properties.ID, e.Properties.Backend, e.Properties.Shots)
	fmt.Fprintf(&b, "  parameters: n=%d m=%d k=%d s=%d tau=%d mu=%d delta=%v code=%s\n",
		e.Params.N, e.Params.M, e.Params.K, e.Params.S, e.Params.Tau, e.Params.Mu,
		e.Params.Delta, e.Params.CodeName)
	fmt.Fprintf(&b, "  test 1, honest deletion: %s\n", e.Test1())
	fmt.Fprintf(&b, "  test 2, honest decryption: %s\n", e.Test2())
	t3 := e.Test3()
	fmt.Fprintf(&b, "  test 3, deletion then decryption: %s; decryption of accepted: %s\n",
		t3.Deletion, t3.Decryption)
	t4 := e.Test4()
	fmt.Fprintf(&b, "  test 4, breidbart attack: %s; decryption of accepted: %s\n",
		t4.Deletion, t4.Decryption)
	t5 := e.Test5()
	fmt.Fprintf(&b, "  test 5, decryption then deletion: %s; deletion: %s\n",
		t5.Decryption, t5.Deletion)
	return b.String()
}
