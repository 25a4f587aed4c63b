package ecc

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/qdel-labs/certdel/bitarray"
)

func mustBits(t *testing.T, s string) bitarray.Dense {
	t.Helper()
	d, err := bitarray.FromString(s)
	if err != nil {
		t.Fatalf("FromString(%q): %v", s, err)
	}
	return d
}

func TestByName(t *testing.T) {
	tcs := []struct {
		name     string
		codeLen  int
		synLen   int
		wantErr  bool
	}{
		{name: "hamming_2", codeLen: 3, synLen: 2},
		{name: "hamming_3", codeLen: 7, synLen: 3},
		{name: "hamming_4", codeLen: 15, synLen: 4},
		{name: "none", codeLen: 0, synLen: 0},
		{name: "golay_23", wantErr: true},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			c, err := ByName(tc.name)
			if tc.wantErr {
				if !errors.Is(err, ErrUnknownCode) {
					t.Fatalf("err == %v, want ErrUnknownCode", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.CodewordLength() != tc.codeLen || c.SyndromeLength() != tc.synLen {
				t.Errorf("code is [%d,%d], want [%d,%d]",
					c.CodewordLength(), c.SyndromeLength(), tc.codeLen, tc.synLen)
			}
		})
	}
}

func TestHammingSyndrome(t *testing.T) {
	c, err := ByName("hamming_3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tcs := []struct {
		in   string
		want string
	}{
		{in: "0000000", want: "000"},
		{in: "0000100", want: "101"}, // single error at position 4 reads off as 5
		{in: "1000000", want: "100"},
		{in: "00000000000100", want: "000101"}, // second block, error at block position 4
	}
	for _, tc := range tcs {
		t.Run(tc.in, func(t *testing.T) {
			syn, err := c.Synd(mustBits(t, tc.in))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if syn.String() != tc.want {
				t.Errorf("Synd == %s, want %s", syn, tc.want)
			}
		})
	}
}

func TestSyndRejectsPartialBlocks(t *testing.T) {
	c, err := ByName("hamming_3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Synd(mustBits(t, "10110")); !errors.Is(err, bitarray.ErrLengthMismatch) {
		t.Errorf("err == %v, want ErrLengthMismatch", err)
	}
}

func TestCorrFixesSingleBitErrors(t *testing.T) {
	c, err := ByName("hamming_3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := rand.New(rand.NewSource(11))
	for trial := 0; trial < 50; trial++ {
		blocks := 1 + r.Intn(3)
		sent, err := bitarray.Random(r, blocks*c.CodewordLength())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		target, err := c.Synd(sent)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// One error per block is within the code's correction radius.
		received := bitarray.NewDense(sent.Data(), sent.Size())
		for b := 0; b < blocks; b++ {
			received.Flip(b*c.CodewordLength() + r.Intn(c.CodewordLength()))
		}
		corrected, err := c.Corr(received, target)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !bitarray.Equal(corrected, sent) {
			t.Fatalf("corrected %s, want %s", corrected, sent)
		}
		// A corrected word is a fixed point.
		again, err := c.Corr(corrected, target)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !bitarray.Equal(again, corrected) {
			t.Fatalf("Corr is not idempotent: %s != %s", again, corrected)
		}
	}
}

func TestCorrLeavesUncorrectableBlocks(t *testing.T) {
	// hamming_2's table only knows single-bit errors; a two-bit error maps to
	// some single-bit syndrome, so build a code with a pruned table instead.
	ht, err := bitarray.NewMatrix([]bitarray.Dense{
		mustBits(t, "10"), mustBits(t, "01"), mustBits(t, "11"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, err := New("pruned", ht, map[string]bitarray.Dense{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	inp := mustBits(t, "110")
	out, err := c.Corr(inp, mustBits(t, "00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bitarray.Equal(out, inp) {
		t.Errorf("uncorrectable block changed: %s != %s", out, inp)
	}
}

func TestNoneCode(t *testing.T) {
	syn, err := None.Synd(mustBits(t, "101101"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if syn.Size() != 0 {
		t.Errorf("Synd == %s, want empty", syn)
	}
	inp := mustBits(t, "101101")
	out, err := None.Corr(inp, bitarray.Empty())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bitarray.Equal(out, inp) {
		t.Errorf("Corr == %s, want %s", out, inp)
	}
}

func TestLoad(t *testing.T) {
	def := []byte(`
name: repetition_3
parity_check:
  - "110"
  - "011"
table:
  "00": "000"
  "10": "100"
  "11": "010"
  "01": "001"
`)
	c, err := Load(def)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.CodewordLength() != 3 || c.SyndromeLength() != 2 {
		t.Fatalf("code is [%d,%d], want [3,2]", c.CodewordLength(), c.SyndromeLength())
	}
	got, err := c.Corr(mustBits(t, "010"), mustBits(t, "00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "000" {
		t.Errorf("Corr == %s, want 000", got)
	}
	if _, err := ByName("repetition_3"); err != nil {
		t.Errorf("loaded code did not register: %v", err)
	}
}
