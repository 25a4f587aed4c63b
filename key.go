package certdel

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/qdel-labs/certdel/bitarray"
)

// A Key is the shared secret for a single encryption: the basis choice per
// position, the expected deletion certificate, the one-time pads, and the two
// independent hash matrices. Keys are generated fresh per message and never
// reused; every field is drawn independently from the supplied randomness.
type Key struct {
	// Theta tags the basis of each of the M positions. Exactly K entries are
	// Hadamard.
	Theta []Basis
	// RBar is the expected value of the K Hadamard positions upon honest
	// deletion. Index i corresponds to the i-th Hadamard entry of Theta.
	RBar bitarray.Dense
	// U one-time-pads the message (length N).
	U bitarray.Dense
	// D one-time-pads the error-correction verification hash (length Tau).
	D bitarray.Dense
	// E one-time-pads the error syndrome (length Mu).
	E bitarray.Dense
	// PrivacyAmplification is an S x N member of the 2-universal hash family.
	PrivacyAmplification bitarray.Matrix
	// ErrorCorrection is an independent S x Tau member of the same family.
	ErrorCorrection bitarray.Matrix
}

// GenerateKey draws a fresh key for params from random. Pass crypto/rand's
// Reader in production; tests obtain reproducibility by seeding a math/rand
// source explicitly.
func GenerateKey(params *SchemeParameters, random io.Reader) (*Key, error) {
	theta, err := generateTheta(params.M, params.K, random)
	if err != nil {
		return nil, err
	}
	rBar, err := bitarray.Random(random, params.K)
	if err != nil {
		return nil, err
	}
	u, err := bitarray.Random(random, params.N)
	if err != nil {
		return nil, err
	}
	d, err := bitarray.Random(random, params.Tau)
	if err != nil {
		return nil, err
	}
	e, err := bitarray.Random(random, params.Mu)
	if err != nil {
		return nil, err
	}
	pa, err := bitarray.NewRandomMatrix(random, params.S, params.N)
	if err != nil {
		return nil, err
	}
	ec, err := bitarray.NewRandomMatrix(random, params.S, params.Tau)
	if err != nil {
		return nil, err
	}
	return &Key{
		Theta:                theta,
		RBar:                 rBar,
		U:                    u,
		D:                    d,
		E:                    e,
		PrivacyAmplification: pa,
		ErrorCorrection:      ec,
	}, nil
}

// NewKey validates a fully-specified key against params: Theta must carry
// exactly K Hadamard tags over M positions, and every pad and matrix must
// have its declared dimensions.
func NewKey(params *SchemeParameters, theta []Basis, rBar, u, d, e bitarray.Dense, pa, ec bitarray.Matrix) (*Key, error) {
	if len(theta) != params.M {
		return nil, fmt.Errorf("theta has %d positions, want %d: %w", len(theta), params.M, ErrLengthMismatch)
	}
	hadamard := 0
	for _, b := range theta {
		if b == Hadamard {
			hadamard++
		}
	}
	if hadamard != params.K {
		return nil, fmt.Errorf("theta has %d hadamard positions, want %d: %w", hadamard, params.K, ErrInvalidParameters)
	}
	for _, dim := range []struct {
		name string
		got  int
		want int
	}{
		{"r_bar", rBar.Size(), params.K},
		{"u", u.Size(), params.N},
		{"d", d.Size(), params.Tau},
		{"e", e.Size(), params.Mu},
	} {
		if dim.got != dim.want {
			return nil, fmt.Errorf("%s has %d bits, want %d: %w", dim.name, dim.got, dim.want, ErrLengthMismatch)
		}
	}
	if pa.Rows() != params.S || pa.Cols() != params.N {
		return nil, fmt.Errorf("privacy amplification matrix is %dx%d, want %dx%d: %w",
			pa.Rows(), pa.Cols(), params.S, params.N, ErrLengthMismatch)
	}
	if ec.Rows() != params.S || ec.Cols() != params.Tau {
		return nil, fmt.Errorf("error correction matrix is %dx%d, want %dx%d: %w",
			ec.Rows(), ec.Cols(), params.S, params.Tau, ErrLengthMismatch)
	}
	return &Key{Theta: theta, RBar: rBar, U: u, D: d, E: e, PrivacyAmplification: pa, ErrorCorrection: ec}, nil
}

// HadamardMask returns a length-M bit mask with the Hadamard positions set.
func (k *Key) HadamardMask() bitarray.Dense {
	var mask bitarray.Dense
	for _, b := range k.Theta {
		mask.AppendBit(b == Hadamard)
	}
	return mask
}

// ComputationalMask returns a length-M bit mask with the computational
// positions set.
func (k *Key) ComputationalMask() bitarray.Dense {
	var mask bitarray.Dense
	for _, b := range k.Theta {
		mask.AppendBit(b == Computational)
	}
	return mask
}

// generateTheta samples exactly k of m positions uniformly without
// replacement, growing the chosen set by rejection until it reaches k.
func generateTheta(m, k int, random io.Reader) ([]Basis, error) {
	chosen := make(map[int]bool, k)
	for len(chosen) < k {
		i, err := uniformInt(random, m)
		if err != nil {
			return nil, err
		}
		chosen[i] = true
	}
	theta := make([]Basis, m)
	for i := range chosen {
		theta[i] = Hadamard
	}
	return theta, nil
}

// uniformInt draws an unbiased uniform integer in [0, n) from random.
func uniformInt(random io.Reader, n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("uniform draw over %d values", n)
	}
	bound := uint32(n)
	limit := (1 << 32 / uint64(bound)) * uint64(bound)
	var buf [4]byte
	for {
		if _, err := io.ReadFull(random, buf[:]); err != nil {
			return 0, fmt.Errorf("drawing random int: %w", err)
		}
		v := binary.LittleEndian.Uint32(buf[:])
		if uint64(v) < limit {
			return int(v % bound), nil
		}
	}
}
