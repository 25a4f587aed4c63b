package experiment

import (
	"fmt"
	"io"

	"github.com/qdel-labs/certdel"
	"github.com/qdel-labs/certdel/backend"
	"github.com/qdel-labs/certdel/bitarray"
)

// Run generates a fresh key and message, encrypts, and measures all five
// standard tests against sim, props.Shots shots each. Every test starts from
// the same prepared encoding; the simulator does not consume it.
func Run(props Properties, params *certdel.SchemeParameters, random io.Reader, sim *backend.Simulator) (*Experiment, error) {
	key, err := certdel.GenerateKey(params, random)
	if err != nil {
		return nil, fmt.Errorf("generating key: %w", err)
	}
	message, err := bitarray.Random(random, params.N)
	if err != nil {
		return nil, fmt.Errorf("drawing message: %w", err)
	}
	ct, err := certdel.Encrypt(message, key, params, random, sim)
	if err != nil {
		return nil, fmt.Errorf("encrypting: %w", err)
	}

	theta := key.HadamardMask()
	allHadamard := bitarray.Empty()
	for i := 0; i < params.M; i++ {
		allHadamard.AppendBit(true)
	}

	e := &Experiment{
		Properties: props,
		Params:     params,
		Key:        key,
		Ciphertext: ct,
		Message:    message,
	}

	deletion, err := sim.Measure(ct.Encoding, allHadamard, props.Shots)
	if err != nil {
		return nil, fmt.Errorf("test 1: %w", err)
	}
	e.DeletionCounts = certdel.MeasurementCounts(deletion)

	decryption, err := sim.Measure(ct.Encoding, theta, props.Shots)
	if err != nil {
		return nil, fmt.Errorf("test 2: %w", err)
	}
	e.DecryptionCounts = certdel.MeasurementCounts(decryption)

	deleteDecrypt, err := sim.MeasureSequence(ct.Encoding, props.Shots,
		backend.Stage{Bases: allHadamard}, backend.Stage{Bases: theta})
	if err != nil {
		return nil, fmt.Errorf("test 3: %w", err)
	}
	e.DeleteDecryptCounts = certdel.MeasurementCounts(deleteDecrypt)

	breidbart, err := sim.MeasureSequence(ct.Encoding, props.Shots,
		backend.Stage{Breidbart: true}, backend.Stage{Bases: theta})
	if err != nil {
		return nil, fmt.Errorf("test 4: %w", err)
	}
	e.BreidbartCounts = certdel.MeasurementCounts(breidbart)

	decryptDelete, err := sim.MeasureSequence(ct.Encoding, props.Shots,
		backend.Stage{Bases: theta}, backend.Stage{Bases: allHadamard})
	if err != nil {
		return nil, fmt.Errorf("test 5: %w", err)
	}
	e.DecryptDeleteCounts = certdel.MeasurementCounts(decryptDelete)

	return e, nil
}
