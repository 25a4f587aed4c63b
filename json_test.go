package certdel

import (
	"encoding/json"
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"github.com/qdel-labs/certdel/bitarray"
)

func TestSchemeParametersJSONRoundTrip(t *testing.T) {
	params := mustParams(t, 4, 3, 7, 2, 3, 0.25, "hamming_3")
	data, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for _, field := range []string{
		"security_parameter_lambda", "error_correcting_code_name", `"m":10`,
	} {
		if !strings.Contains(string(data), field) {
			t.Errorf("serialized parameters missing %q: %s", field, data)
		}
	}
	var got SchemeParameters
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(&got, params) {
		t.Errorf("round trip changed parameters: got %+v, want %+v", got, *params)
	}
	if got.Code() == nil || got.Code().Name() != "hamming_3" {
		t.Errorf("round trip lost the resolved code")
	}
}

func TestSchemeParametersJSONRejectsInvalid(t *testing.T) {
	bad := `{"security_parameter_lambda": 1, "n": 4, "m": 12, "k": 6, "s": 6,
		"tau": 0, "mu": 0, "delta": 2, "error_correcting_code_name": "none"}`
	var p SchemeParameters
	if err := json.Unmarshal([]byte(bad), &p); err == nil {
		t.Errorf("expected validation error for delta outside (0,1)")
	}
}

func TestKeyJSONRoundTrip(t *testing.T) {
	params := mustParams(t, 4, 3, 7, 2, 3, 0.25, "hamming_3")
	r := rand.New(rand.NewSource(55))
	key, err := GenerateKey(params, r)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	data, err := json.Marshal(key)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), "r_restricted_i_bar") {
		t.Errorf("serialized key missing r_restricted_i_bar: %s", data)
	}
	var got Key
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(got.Theta, key.Theta) {
		t.Errorf("theta changed: got %v, want %v", got.Theta, key.Theta)
	}
	for _, pair := range []struct {
		name      string
		got, want bitarray.Dense
	}{
		{"r_bar", got.RBar, key.RBar},
		{"u", got.U, key.U},
		{"d", got.D, key.D},
		{"e", got.E, key.E},
	} {
		if !bitarray.Equal(pair.got, pair.want) {
			t.Errorf("%s changed: got %v, want %v", pair.name, pair.got, pair.want)
		}
	}
	for i := 0; i < params.S; i++ {
		if !bitarray.Equal(got.PrivacyAmplification.Row(i), key.PrivacyAmplification.Row(i)) {
			t.Errorf("privacy amplification row %d changed", i)
		}
		if !bitarray.Equal(got.ErrorCorrection.Row(i), key.ErrorCorrection.Row(i)) {
			t.Errorf("error correction row %d changed", i)
		}
	}
}

func TestCiphertextJSONRoundTrip(t *testing.T) {
	params := mustParams(t, 4, 6, 6, 0, 0, 0.1, "none")
	_, ct, _, _ := noiseFreeRoundTrip(t, params, "1011", 60)
	data, err := json.Marshal(ct)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got Ciphertext
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !bitarray.Equal(got.C, ct.C) || !bitarray.Equal(got.P, ct.P) || !bitarray.Equal(got.Q, ct.Q) {
		t.Errorf("round trip changed the classical payload")
	}
	if got.Encoding != nil {
		t.Errorf("decoded ciphertext carries a quantum encoding")
	}
}
