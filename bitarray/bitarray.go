// Package bitarray provides densely-packed bit vectors and bit matrices over
// GF(2), the arithmetic substrate for the certified deletion scheme.
package bitarray

import (
	"fmt"
	"io"
	"math/rand"
	"strings"
)

// TODO: this could be more efficient on many architectures if we used larger
//   blocks than 8-bit bytes.

const blockSize = 8

// A Dense is a bit vector where every bit is explicitly represented.
//
// The zero value is an empty vector, ready to use. Bits beyond the logical
// length are always stored as zero, so byte-wise operations never see stale
// high bits.
type Dense struct {
	bits []byte
	len  int
}

// NewDense returns a new Dense whose data is a copy of data, and whose length
// is bitLen. If bitLen is longer than data, then trailing zeros are added. If
// bitLen is negative, then it is inferred from data.
func NewDense(data []byte, bitLen int) Dense {
	if bitLen < 0 {
		bitLen = len(data) * blockSize
	}
	bits := make([]byte, BytesFor(bitLen))
	copy(bits, data)
	d := Dense{bits: bits, len: bitLen}
	d.maskTail()
	return d
}

// Empty returns an empty, dense bit vector.
func Empty() Dense {
	return Dense{}
}

// FromString converts a string of '1's and '0's to a Dense. Spaces are
// skipped, so measurement strings containing register separators parse
// directly.
func FromString(s string) (Dense, error) {
	d := Dense{}
	for _, c := range s {
		switch c {
		case '1':
			d.AppendBit(true)
		case '0':
			d.AppendBit(false)
		case ' ':
			continue
		default:
			return Dense{}, fmt.Errorf("invalid bit string rep: %q", s)
		}
	}
	return d, nil
}

// Random returns a uniformly random bit vector of length bitLen, drawn from
// random. Callers needing cryptographic quality should pass crypto/rand's
// Reader; tests may pass a seeded math/rand source.
func Random(random io.Reader, bitLen int) (Dense, error) {
	buf := make([]byte, BytesFor(bitLen))
	if _, err := io.ReadFull(random, buf); err != nil {
		return Dense{}, fmt.Errorf("drawing %d random bits: %w", bitLen, err)
	}
	return NewDense(buf, bitLen), nil
}

// Size returns the number of bits in d.
func (d Dense) Size() int {
	return d.len
}

// SizeBytes returns the number of bytes necessary to represent d.
func (d Dense) SizeBytes() int {
	return BytesFor(d.len)
}

// Data returns a copy of the bytes underlying d.
func (d Dense) Data() []byte {
	data := make([]byte, len(d.bits))
	copy(data, d.bits)
	return data
}

// Get returns the bit at idx. Bits beyond the end of d read as zero.
func (d Dense) Get(idx int) bool {
	if idx < 0 || idx >= d.len {
		return false
	}
	block := d.bits[idx/blockSize]
	pos := idx % blockSize
	return 0 < block&(1<<pos)
}

// Flip inverts the bit at idx.
func (d *Dense) Flip(idx int) {
	d.bits[idx/blockSize] ^= 1 << (idx % blockSize)
}

// AppendBit adds a single bit to the end of d.
func (d *Dense) AppendBit(bit bool) {
	pos := d.len % blockSize
	d.len++
	if pos == 0 {
		d.bits = append(d.bits, 0)
	}
	if bit {
		d.bits[len(d.bits)-1] |= 1 << pos
	}
}

// Append adds the contents of other to the end of d.
func (d *Dense) Append(other Dense) {
	for i := 0; i < other.len; i++ {
		d.AppendBit(other.Get(i))
	}
}

// Slice returns a copy of bits [start, end) of d.
func (d Dense) Slice(start, end int) (Dense, error) {
	if start < 0 {
		return Dense{}, fmt.Errorf("slicing bit vector with negative start: %d", start)
	}
	if end < start {
		return Dense{}, fmt.Errorf("slicing bit vector to negative length: %d", end-start)
	}
	if end > d.len {
		return Dense{}, fmt.Errorf("slicing bit vector of len %d up to %d", d.len, end)
	}
	r := Dense{}
	for i := start; i < end; i++ {
		r.AppendBit(d.Get(i))
	}
	return r, nil
}

// Select selects a subset of bits from d, according to which bits are set in
// mask.
func (d Dense) Select(mask Dense) Dense {
	var r Dense
	for i := 0; i < d.len; i++ {
		if !mask.Get(i) {
			continue
		}
		r.AppendBit(d.Get(i))
	}
	return r
}

// Shuffle randomly permutes the contents of d, using r as a source of
// randomness.
func (d *Dense) Shuffle(r *rand.Rand) {
	r.Shuffle(d.len, d.swap)
}

func (d *Dense) swap(i, j int) {
	a, b := d.Get(i), d.Get(j)
	if a == b {
		return
	}
	d.Flip(i)
	d.Flip(j)
}

// String renders d as a string of '0's and '1's, lowest index first.
func (d Dense) String() string {
	var sb strings.Builder
	sb.Grow(d.len)
	for i := 0; i < d.len; i++ {
		if d.Get(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// maskTail zeroes any bits stored beyond the logical length.
func (d *Dense) maskTail() {
	over := len(d.bits)*blockSize - d.len
	if over == 0 || len(d.bits) == 0 {
		return
	}
	last := len(d.bits) - 1
	d.bits[last] = d.bits[last] << over >> over
}

// BytesFor returns the number of bytes necessary to hold the provided number
// of bits.
func BytesFor(bits int) int {
	return (bits + blockSize - 1) / blockSize
}
