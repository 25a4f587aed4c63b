// Package ecc provides the linear error-correcting codes used to reconcile
// measurement noise: parity-check syndromes and best-effort syndrome-table
// correction over GF(2).
package ecc

import (
	"errors"
	"fmt"

	"github.com/qdel-labs/certdel/bitarray"
)

// ErrUnknownCode is returned when a code name does not resolve to a
// registered code.
var ErrUnknownCode = errors.New("unknown error-correcting code")

// A Code is a binary linear code described by its parity-check matrix and a
// syndrome decoding table.
//
// The parity-check matrix is held transposed (codeword length x syndrome
// length), so that the syndrome of a block is the block-times-matrix product.
// The table maps a syndrome, rendered as a bit string, to the error vector
// judged most likely to have produced it. Syndromes absent from the table are
// not correctable; Corr leaves such blocks unchanged rather than failing, and
// the scheme's hash-mismatch flag is the user-visible signal.
type Code struct {
	name    string
	ht      bitarray.Matrix
	table   map[string]bitarray.Dense
	codeLen int
	synLen  int
}

// None is the degenerate code with empty syndromes. Synd returns the empty
// vector and Corr is the identity; schemes with mu == 0 use it.
var None = &Code{name: "none"}

// New builds a Code from its transposed parity-check matrix and syndrome
// table. Table keys are syndrome bit strings; values must be codeword-length
// error vectors.
func New(name string, ht bitarray.Matrix, table map[string]bitarray.Dense) (*Code, error) {
	c := &Code{
		name:    name,
		ht:      ht,
		table:   table,
		codeLen: ht.Rows(),
		synLen:  ht.Cols(),
	}
	if c.codeLen == 0 {
		return nil, fmt.Errorf("code %q has no codeword positions", name)
	}
	for syn, ev := range table {
		if len(syn) != c.synLen {
			return nil, fmt.Errorf("code %q table key %q is not a %d-bit syndrome", name, syn, c.synLen)
		}
		if ev.Size() != c.codeLen {
			return nil, fmt.Errorf("code %q error vector for %q has %d bits, want %d", name, syn, ev.Size(), c.codeLen)
		}
	}
	return c, nil
}

// Name returns the registry name of c.
func (c *Code) Name() string {
	return c.name
}

// CodewordLength returns the number of bits per codeword block.
func (c *Code) CodewordLength() int {
	return c.codeLen
}

// SyndromeLength returns the number of syndrome bits per codeword block.
func (c *Code) SyndromeLength() int {
	return c.synLen
}

// SyndromeBits returns the total syndrome length for an input of bitLen bits.
func (c *Code) SyndromeBits(bitLen int) int {
	if c.codeLen == 0 {
		return 0
	}
	return bitLen / c.codeLen * c.synLen
}

// Synd computes the blockwise syndrome of bits: each codeword-length block is
// multiplied into the transposed parity-check matrix and the per-block
// syndromes are concatenated. The input length must be a multiple of the
// codeword length.
func (c *Code) Synd(inp bitarray.Dense) (bitarray.Dense, error) {
	if c.codeLen == 0 {
		return bitarray.Empty(), nil
	}
	if inp.Size()%c.codeLen != 0 {
		return bitarray.Empty(), fmt.Errorf(
			"syndrome of %d bits with %d-bit codewords: %w", inp.Size(), c.codeLen, bitarray.ErrLengthMismatch)
	}
	r := bitarray.Empty()
	for i := 0; i < inp.Size(); i += c.codeLen {
		block, err := inp.Slice(i, i+c.codeLen)
		if err != nil {
			return bitarray.Empty(), err
		}
		syn, err := c.ht.MulVec(block)
		if err != nil {
			return bitarray.Empty(), err
		}
		r.Append(syn)
	}
	return r, nil
}

// Corr applies best-effort error correction to bits against a target
// syndrome, block by block. For each block it computes the difference between
// the block's syndrome and the target; if the difference appears in the
// syndrome table the block is XORed with the table's error vector, otherwise
// the block passes through unchanged.
func (c *Code) Corr(inp, syndrome bitarray.Dense) (bitarray.Dense, error) {
	if c.codeLen == 0 {
		return inp, nil
	}
	if inp.Size()%c.codeLen != 0 {
		return bitarray.Empty(), fmt.Errorf(
			"correcting %d bits with %d-bit codewords: %w", inp.Size(), c.codeLen, bitarray.ErrLengthMismatch)
	}
	if syndrome.Size() != c.SyndromeBits(inp.Size()) {
		return bitarray.Empty(), fmt.Errorf(
			"correcting %d bits against %d syndrome bits, want %d: %w",
			inp.Size(), syndrome.Size(), c.SyndromeBits(inp.Size()), bitarray.ErrLengthMismatch)
	}
	r := bitarray.Empty()
	for i, j := 0, 0; i < inp.Size(); i, j = i+c.codeLen, j+c.synLen {
		block, err := inp.Slice(i, i+c.codeLen)
		if err != nil {
			return bitarray.Empty(), err
		}
		target, err := syndrome.Slice(j, j+c.synLen)
		if err != nil {
			return bitarray.Empty(), err
		}
		corrected, err := c.corrBlock(block, target)
		if err != nil {
			return bitarray.Empty(), err
		}
		r.Append(corrected)
	}
	return r, nil
}

func (c *Code) corrBlock(block, target bitarray.Dense) (bitarray.Dense, error) {
	syn, err := c.ht.MulVec(block)
	if err != nil {
		return bitarray.Empty(), err
	}
	diff, err := bitarray.XOr(syn, target)
	if err != nil {
		return bitarray.Empty(), err
	}
	ev, ok := c.table[diff.String()]
	if !ok {
		// Correction failed; the hash check downstream reports it.
		return block, nil
	}
	return bitarray.XOr(block, ev)
}
