package backend

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/qdel-labs/certdel/bitarray"
)

// BreidbartErrorRate is the per-position error rate of a Breidbart
// (intermediate-basis) measurement against either conjugate basis,
// sin^2(pi/8). It is the best single-measurement cheating strategy against
// the deletion test.
var BreidbartErrorRate = math.Pow(math.Sin(math.Pi/8), 2)

// A Stage describes one measurement pass over every position. Exactly one of
// Bases or Breidbart applies: a Breidbart stage measures every position in
// the intermediate basis and ignores Bases.
type Stage struct {
	Bases     bitarray.Dense
	Breidbart bool
}

// A Simulator is a classical stand-in for a quantum backend. It tracks basis
// collapse exactly: re-measuring in the recorded basis reproduces the
// recorded bit, measuring in the conjugate basis is uniformly random, and a
// Breidbart measurement errs with probability BreidbartErrorRate. FlipProb
// adds symmetric readout noise to every reported bit.
type Simulator struct {
	Rand     *rand.Rand
	FlipProb float64
}

// NewSimulator returns a noise-free simulator drawing from r.
func NewSimulator(r *rand.Rand) *Simulator {
	return &Simulator{Rand: r}
}

// the per-position collapse record: which basis the position last resolved
// in, and to which bit.
type posState struct {
	basis simBasis
	bit   bool
}

type simBasis uint8

const (
	basisComputational simBasis = iota
	basisHadamard
	basisBreidbart
)

type simEncoding struct {
	states []posState
}

// Positions implements the Encoding interface.
func (e *simEncoding) Positions() int {
	return len(e.states)
}

// Prepare implements the Preparer interface.
func (s *Simulator) Prepare(bases, bits bitarray.Dense) (Encoding, error) {
	if bases.Size() != bits.Size() {
		return nil, fmt.Errorf("preparing %d bases for %d bits: %w",
			bases.Size(), bits.Size(), bitarray.ErrLengthMismatch)
	}
	states := make([]posState, bases.Size())
	for i := range states {
		b := basisComputational
		if bases.Get(i) {
			b = basisHadamard
		}
		states[i] = posState{basis: b, bit: bits.Get(i)}
	}
	return &simEncoding{states: states}, nil
}

// Measure implements the Measurer interface.
func (s *Simulator) Measure(enc Encoding, bases bitarray.Dense, shots int) (map[string]int, error) {
	return s.MeasureSequence(enc, shots, Stage{Bases: bases})
}

// MeasureBreidbart measures every position of enc in the Breidbart basis.
func (s *Simulator) MeasureBreidbart(enc Encoding, shots int) (map[string]int, error) {
	return s.MeasureSequence(enc, shots, Stage{Breidbart: true})
}

// MeasureSequence measures enc repeatedly within each shot, one pass per
// stage, collapsing the simulated state between passes. The count table keys
// are the per-stage outcome strings joined by single spaces, first stage
// leftmost. The prepared encoding itself is not consumed; every shot starts
// from the prepared state.
func (s *Simulator) MeasureSequence(enc Encoding, shots int, stages ...Stage) (map[string]int, error) {
	se, ok := enc.(*simEncoding)
	if !ok {
		return nil, fmt.Errorf("encoding %T was not prepared by this simulator", enc)
	}
	if len(stages) == 0 {
		return nil, fmt.Errorf("measurement sequence has no stages")
	}
	for i, st := range stages {
		if !st.Breidbart && st.Bases.Size() != len(se.states) {
			return nil, fmt.Errorf("stage %d measures %d bases over %d positions: %w",
				i, st.Bases.Size(), len(se.states), bitarray.ErrLengthMismatch)
		}
	}
	counts := make(map[string]int)
	scratch := make([]posState, len(se.states))
	outcomes := make([]string, len(stages))
	for shot := 0; shot < shots; shot++ {
		copy(scratch, se.states)
		for si, st := range stages {
			var sb strings.Builder
			sb.Grow(len(scratch))
			for i := range scratch {
				target := basisBreidbart
				if !st.Breidbart {
					target = basisComputational
					if st.Bases.Get(i) {
						target = basisHadamard
					}
				}
				bit := s.measureOne(&scratch[i], target)
				if s.FlipProb > 0 && s.Rand.Float64() < s.FlipProb {
					bit = !bit
				}
				if bit {
					sb.WriteByte('1')
				} else {
					sb.WriteByte('0')
				}
			}
			outcomes[si] = sb.String()
		}
		counts[strings.Join(outcomes, " ")]++
	}
	return counts, nil
}

// measureOne resolves a single position in the target basis and collapses
// the recorded state to the observed outcome.
func (s *Simulator) measureOne(st *posState, target simBasis) bool {
	var bit bool
	switch {
	case st.basis == target:
		bit = st.bit
	case st.basis == basisBreidbart || target == basisBreidbart:
		// Breidbart sits between the conjugate bases; overlap with either
		// eigenstate is cos^2(pi/8).
		bit = st.bit
		if s.Rand.Float64() < BreidbartErrorRate {
			bit = !bit
		}
	default:
		// Conjugate bases resolve uniformly at random.
		bit = s.Rand.Intn(2) == 1
	}
	st.basis = target
	st.bit = bit
	return bit
}
