package certdel

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/qdel-labs/certdel/backend"
	"github.com/qdel-labs/certdel/bitarray"
	"github.com/qdel-labs/certdel/ecc"
)

// SchemeParameters is the static configuration of a certified deletion
// scheme instance. Construct with NewSchemeParameters; read-only afterward.
type SchemeParameters struct {
	// Lambda is the security parameter.
	Lambda float64
	// N is the length of the messages that will be encrypted.
	N int
	// M is the total number of encoded positions, always K + S.
	M int
	// K is the number of positions reserved for the deletion certificate.
	K int
	// S is the number of positions used as a one-time-pad basis for the
	// message.
	S int
	// Tau is the length of the error-correction verification hash.
	Tau int
	// Mu is the length of the error syndrome.
	Mu int
	// Delta is the acceptance threshold fraction: a certificate is accepted
	// iff its Hamming distance from the expected string is strictly below
	// Delta*K.
	Delta float64
	// CodeName identifies the error-correcting code.
	CodeName string

	code *ecc.Code
}

// NewSchemeParameters validates and resolves a parameter set. The code name
// resolves through the ecc registry; mu must equal the code's total syndrome
// length over s bits.
func NewSchemeParameters(lambda float64, n, k, s, tau, mu int, delta float64, codeName string) (*SchemeParameters, error) {
	if n <= 0 || k <= 0 || s <= 0 || tau < 0 || mu < 0 {
		return nil, fmt.Errorf("dimensions n=%d k=%d s=%d tau=%d mu=%d: %w", n, k, s, tau, mu, ErrInvalidParameters)
	}
	if delta <= 0 || delta >= 1 {
		return nil, fmt.Errorf("delta %v outside (0,1): %w", delta, ErrInvalidParameters)
	}
	code, err := ecc.ByName(codeName)
	if err != nil {
		return nil, err
	}
	if code.CodewordLength() > 0 && s%code.CodewordLength() != 0 {
		return nil, fmt.Errorf("s=%d is not a whole number of %d-bit codewords: %w",
			s, code.CodewordLength(), ErrInvalidParameters)
	}
	if got := code.SyndromeBits(s); got != mu {
		return nil, fmt.Errorf("mu=%d but code %q produces %d syndrome bits over %d positions: %w",
			mu, codeName, got, s, ErrInvalidParameters)
	}
	return &SchemeParameters{
		Lambda:   lambda,
		N:        n,
		M:        k + s,
		K:        k,
		S:        s,
		Tau:      tau,
		Mu:       mu,
		Delta:    delta,
		CodeName: codeName,
		code:     code,
	}, nil
}

// Code returns the resolved error-correcting code.
func (p *SchemeParameters) Code() *ecc.Code {
	return p.code
}

// Synd computes the blockwise error syndrome of bits under the scheme's code.
func (p *SchemeParameters) Synd(bits bitarray.Dense) (bitarray.Dense, error) {
	return p.code.Synd(bits)
}

// Corr applies the scheme's best-effort syndrome correction to bits.
func (p *SchemeParameters) Corr(bits, syndrome bitarray.Dense) (bitarray.Dense, error) {
	return p.code.Corr(bits, syndrome)
}

// minCorrectCertificateBits returns the smallest number of correct
// certificate positions that still verifies: K minus the largest tolerable
// Hamming distance under the strict Delta*K threshold.
func (p *SchemeParameters) minCorrectCertificateBits() int {
	maxTolerated := int(math.Ceil(float64(p.K)*p.Delta)) - 1
	if maxTolerated > p.K-1 {
		maxTolerated = p.K - 1
	}
	if maxTolerated < 0 {
		maxTolerated = 0
	}
	return p.K - maxTolerated
}

// ExpectedDeletionSuccessRate returns the percentage of honest deletion
// attempts expected to verify when each certificate bit errs independently
// with errorRate.
func (p *SchemeParameters) ExpectedDeletionSuccessRate(errorRate float64) float64 {
	if errorRate == 0 {
		return 100
	}
	b := distuv.Binomial{N: float64(p.K), P: 1 - errorRate}
	return (1 - b.CDF(float64(p.minCorrectCertificateBits()-1))) * 100
}

// ExpectedDecryptionSuccessRange returns lower and upper bounds, in percent,
// on the expected decryption success rate when each relevant position errs
// independently with errorRate. The upper bound adds the chance that an
// erroneous string collides under privacy amplification.
func (p *SchemeParameters) ExpectedDecryptionSuccessRange(errorRate float64) (lower, upper float64) {
	if errorRate == 0 {
		return 100, 100
	}
	b := distuv.Binomial{N: float64(p.S), P: 1 - errorRate}
	lower = b.Prob(float64(p.S))
	upper = lower + b.CDF(float64(p.S-1))/math.Exp2(float64(p.N))
	return lower * 100, upper * 100
}

// ExpectedHonestDeletionRate is the expected success rate for the plain
// honest-deletion test.
func (p *SchemeParameters) ExpectedHonestDeletionRate() float64 {
	return p.ExpectedDeletionSuccessRate(0)
}

// ExpectedHonestDecryptionRange is the expected success range for the plain
// decryption test.
func (p *SchemeParameters) ExpectedHonestDecryptionRange() (lower, upper float64) {
	return p.ExpectedDecryptionSuccessRange(0)
}

// ExpectedDeleteThenDecryptRates returns the expected deletion success rate
// and decryption success range when an honest deletion precedes the
// decryption attempt: the residual computational-basis information is
// uniformly random.
func (p *SchemeParameters) ExpectedDeleteThenDecryptRates() (deletion float64, decLower, decUpper float64) {
	deletion = p.ExpectedDeletionSuccessRate(0)
	decLower, decUpper = p.ExpectedDecryptionSuccessRange(0.5)
	return deletion, decLower, decUpper
}

// ExpectedBreidbartRates returns the expected deletion success rate and
// decryption success range for a receiver measuring everything in the
// Breidbart basis, the optimal simultaneous cheating strategy.
func (p *SchemeParameters) ExpectedBreidbartRates() (deletion float64, decLower, decUpper float64) {
	deletion = p.ExpectedDeletionSuccessRate(backend.BreidbartErrorRate)
	decLower, decUpper = p.ExpectedDecryptionSuccessRange(backend.BreidbartErrorRate)
	return deletion, decLower, decUpper
}
