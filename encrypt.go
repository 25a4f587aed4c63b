package certdel

import (
	"fmt"
	"io"

	"github.com/qdel-labs/certdel/backend"
	"github.com/qdel-labs/certdel/bitarray"
)

// A Ciphertext is the hybrid result of encrypting one message: the classical
// payload c/p/q and an opaque reference to the quantum encoding held by the
// backend. The classical fields alone reveal nothing about the message
// without the key.
type Ciphertext struct {
	// C is the message XORed with the privacy-amplified hash of the
	// computational-basis bits and with the pad u (length N).
	C bitarray.Dense
	// P is the error-correction verification hash of the same bits, XORed
	// with the pad d (length Tau).
	P bitarray.Dense
	// Q is the error syndrome of the same bits, XORed with the pad e
	// (length Mu).
	Q bitarray.Dense
	// Encoding references the prepared quantum positions.
	Encoding backend.Encoding
}

// Encrypt encrypts message under key, preparing the quantum positions
// through prep. A fresh computational-basis string r of length S is drawn
// from random; the transform is deterministic given r and the key.
func Encrypt(message bitarray.Dense, key *Key, params *SchemeParameters, random io.Reader, prep backend.Preparer) (*Ciphertext, error) {
	if message.Size() != params.N {
		return nil, fmt.Errorf("message has %d bits, want %d: %w", message.Size(), params.N, ErrLengthMismatch)
	}

	// The classical values for the computational-basis positions.
	r, err := bitarray.Random(random, params.S)
	if err != nil {
		return nil, err
	}

	x, err := key.PrivacyAmplification.MulVec(r)
	if err != nil {
		return nil, err
	}
	ecHash, err := key.ErrorCorrection.MulVec(r)
	if err != nil {
		return nil, err
	}
	p, err := bitarray.XOr(ecHash, key.D)
	if err != nil {
		return nil, err
	}
	syn, err := params.Synd(r)
	if err != nil {
		return nil, err
	}
	q, err := bitarray.XOr(syn, key.E)
	if err != nil {
		return nil, err
	}
	c, err := bitarray.XOr(message, x, key.U)
	if err != nil {
		return nil, err
	}

	enc, err := prepareQubits(key, r, prep)
	if err != nil {
		return nil, err
	}
	return &Ciphertext{C: c, P: p, Q: q, Encoding: enc}, nil
}

// prepareQubits interleaves r (computational positions) with the key's
// expected certificate (Hadamard positions) into a single per-position bit
// string and hands it to the backend with the basis mask.
func prepareQubits(key *Key, r bitarray.Dense, prep backend.Preparer) (backend.Encoding, error) {
	var bases, bits bitarray.Dense
	ri, hi := 0, 0
	for _, b := range key.Theta {
		switch b {
		case Computational:
			bases.AppendBit(false)
			bits.AppendBit(r.Get(ri))
			ri++
		case Hadamard:
			bases.AppendBit(true)
			bits.AppendBit(key.RBar.Get(hi))
			hi++
		}
	}
	return prep.Prepare(bases, bits)
}
