package bitarray

import (
	"errors"
	"fmt"
	"math/bits"
)

// ErrLengthMismatch is returned when an operation requires operands of equal
// length and they disagree.
var ErrLengthMismatch = errors.New("bit vector lengths differ")

// XOr computes the position-wise XOR of one or more equal-length bit vectors.
func XOr(vs ...Dense) (Dense, error) {
	if len(vs) == 0 {
		return Dense{}, errors.New("xor of zero bit vectors")
	}
	r := NewDense(vs[0].bits, vs[0].len)
	for _, v := range vs[1:] {
		if v.len != r.len {
			return Dense{}, fmt.Errorf("xor of %d and %d bits: %w", r.len, v.len, ErrLengthMismatch)
		}
		for i := range v.bits {
			r.bits[i] ^= v.bits[i]
		}
	}
	return r, nil
}

// And computes the position-wise AND of two equal-length bit vectors.
func And(a, b Dense) (Dense, error) {
	if a.len != b.len {
		return Dense{}, fmt.Errorf("and of %d and %d bits: %w", a.len, b.len, ErrLengthMismatch)
	}
	r := NewDense(a.bits, a.len)
	for i := range b.bits {
		r.bits[i] &= b.bits[i]
	}
	return r, nil
}

// Parity returns the overall parity of d, with true corresponding to 1 and
// false to 0.
func Parity(d Dense) bool {
	var sum byte
	for _, b := range d.bits {
		sum ^= b
	}
	return bits.OnesCount8(sum)%2 == 1
}

// CountOnes returns the Hamming weight of d.
func CountOnes(d Dense) int {
	var sum int
	for _, b := range d.bits {
		sum += bits.OnesCount8(b)
	}
	return sum
}

// Distance returns the Hamming distance between two equal-length bit vectors.
func Distance(a, b Dense) (int, error) {
	x, err := XOr(a, b)
	if err != nil {
		return 0, err
	}
	return CountOnes(x), nil
}

// Equal returns true iff a and b have the same length and contents.
func Equal(a, b Dense) bool {
	if a.len != b.len {
		return false
	}
	for i := range a.bits {
		if a.bits[i] != b.bits[i] {
			return false
		}
	}
	return true
}

// xorIn accumulates other into d in place. Lengths must already agree.
func (d *Dense) xorIn(other Dense) {
	for i := range other.bits {
		d.bits[i] ^= other.bits[i]
	}
}
