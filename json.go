package certdel

import (
	"encoding/json"
	"fmt"

	"github.com/qdel-labs/certdel/bitarray"
)

// The JSON layouts below match the scheme's interchange files field for
// field: bit strings as '0'/'1' strings, matrices as arrays of 0/1 integer
// rows, basis tags as 0/1 integers. A ciphertext serializes its classical
// payload only; the quantum encoding stays with the backend that owns it.

type paramsJSON struct {
	Lambda   float64 `json:"security_parameter_lambda"`
	N        int     `json:"n"`
	M        int     `json:"m"`
	K        int     `json:"k"`
	S        int     `json:"s"`
	Tau      int     `json:"tau"`
	Mu       int     `json:"mu"`
	Delta    float64 `json:"delta"`
	CodeName string  `json:"error_correcting_code_name"`
}

// MarshalJSON implements json.Marshaler.
func (p *SchemeParameters) MarshalJSON() ([]byte, error) {
	return json.Marshal(paramsJSON{
		Lambda:   p.Lambda,
		N:        p.N,
		M:        p.M,
		K:        p.K,
		S:        p.S,
		Tau:      p.Tau,
		Mu:       p.Mu,
		Delta:    p.Delta,
		CodeName: p.CodeName,
	})
}

// UnmarshalJSON implements json.Unmarshaler, revalidating the parameters and
// re-resolving the code tables.
func (p *SchemeParameters) UnmarshalJSON(data []byte) error {
	var pj paramsJSON
	if err := json.Unmarshal(data, &pj); err != nil {
		return err
	}
	built, err := NewSchemeParameters(pj.Lambda, pj.N, pj.K, pj.S, pj.Tau, pj.Mu, pj.Delta, pj.CodeName)
	if err != nil {
		return err
	}
	*p = *built
	return nil
}

type keyJSON struct {
	Theta                []int           `json:"theta"`
	RBar                 bitarray.Dense  `json:"r_restricted_i_bar"`
	U                    bitarray.Dense  `json:"u"`
	D                    bitarray.Dense  `json:"d"`
	E                    bitarray.Dense  `json:"e"`
	PrivacyAmplification bitarray.Matrix `json:"privacy_amplification_matrix"`
	ErrorCorrection      bitarray.Matrix `json:"error_correction_matrix"`
}

// MarshalJSON implements json.Marshaler.
func (k *Key) MarshalJSON() ([]byte, error) {
	theta := make([]int, len(k.Theta))
	for i, b := range k.Theta {
		theta[i] = int(b)
	}
	return json.Marshal(keyJSON{
		Theta:                theta,
		RBar:                 k.RBar,
		U:                    k.U,
		D:                    k.D,
		E:                    k.E,
		PrivacyAmplification: k.PrivacyAmplification,
		ErrorCorrection:      k.ErrorCorrection,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (k *Key) UnmarshalJSON(data []byte) error {
	var kj keyJSON
	if err := json.Unmarshal(data, &kj); err != nil {
		return err
	}
	theta := make([]Basis, len(kj.Theta))
	for i, v := range kj.Theta {
		switch v {
		case 0:
			theta[i] = Computational
		case 1:
			theta[i] = Hadamard
		default:
			return fmt.Errorf("theta entry %d is not a basis tag", v)
		}
	}
	*k = Key{
		Theta:                theta,
		RBar:                 kj.RBar,
		U:                    kj.U,
		D:                    kj.D,
		E:                    kj.E,
		PrivacyAmplification: kj.PrivacyAmplification,
		ErrorCorrection:      kj.ErrorCorrection,
	}
	return nil
}

type ciphertextJSON struct {
	C bitarray.Dense `json:"c"`
	P bitarray.Dense `json:"p"`
	Q bitarray.Dense `json:"q"`
}

// MarshalJSON implements json.Marshaler.
func (ct *Ciphertext) MarshalJSON() ([]byte, error) {
	return json.Marshal(ciphertextJSON{C: ct.C, P: ct.P, Q: ct.Q})
}

// UnmarshalJSON implements json.Unmarshaler. The decoded ciphertext carries
// no quantum encoding; it supports decryption verification only.
func (ct *Ciphertext) UnmarshalJSON(data []byte) error {
	var cj ciphertextJSON
	if err := json.Unmarshal(data, &cj); err != nil {
		return err
	}
	*ct = Ciphertext{C: cj.C, P: cj.P, Q: cj.Q}
	return nil
}
