package ecc

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v2"

	"github.com/qdel-labs/certdel/bitarray"
)

var (
	regMu    sync.RWMutex
	registry = map[string]*Code{}
)

func init() {
	// The Hamming family covers the preset schemes; larger or exotic codes
	// (e.g. Reed-Muller tables precomputed offline) register via Load.
	for r := 2; r <= 6; r++ {
		c, err := hammingCode(r)
		if err != nil {
			panic(fmt.Sprintf("building hamming_%d: %v", r, err))
		}
		registry[c.name] = c
	}
	registry[None.name] = None
}

// ByName resolves a registered code by name. The name "none" resolves to the
// degenerate empty-syndrome code.
func ByName(name string) (*Code, error) {
	regMu.RLock()
	defer regMu.RUnlock()
	c, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownCode)
	}
	return c, nil
}

// Register adds c to the registry, replacing any code with the same name.
func Register(c *Code) {
	regMu.Lock()
	defer regMu.Unlock()
	registry[c.name] = c
}

// hammingCode builds the [2^r - 1, 2^r - 1 - r] Hamming code with r parity
// bits. Column i of the parity-check matrix is the binary numeral i+1, so the
// syndrome of a single-bit error at position i reads off as i+1; the syndrome
// table corrects exactly those errors.
func hammingCode(r int) (*Code, error) {
	codeLen := 1<<r - 1
	rows := make([]bitarray.Dense, codeLen)
	for i := 0; i < codeLen; i++ {
		var row bitarray.Dense
		for p := 0; p < r; p++ {
			row.AppendBit((i+1)&(1<<p) != 0)
		}
		rows[i] = row
	}
	ht, err := bitarray.NewMatrix(rows)
	if err != nil {
		return nil, err
	}
	table := map[string]bitarray.Dense{
		bitarray.NewDense(nil, r).String(): bitarray.NewDense(nil, codeLen),
	}
	for i := 0; i < codeLen; i++ {
		ev := bitarray.NewDense(nil, codeLen)
		ev.Flip(i)
		table[rows[i].String()] = ev
	}
	return New(fmt.Sprintf("hamming_%d", r), ht, table)
}

// A fileDef is the on-disk YAML form of a code definition: the parity-check
// matrix as syndrome-length rows of codeword-length bit strings, and the
// syndrome table keyed by syndrome bit strings.
type fileDef struct {
	Name        string            `yaml:"name"`
	ParityCheck []string          `yaml:"parity_check"`
	Table       map[string]string `yaml:"table"`
}

// Load parses a YAML code definition and registers the resulting code.
func Load(data []byte) (*Code, error) {
	var def fileDef
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing code definition: %w", err)
	}
	if def.Name == "" {
		return nil, fmt.Errorf("code definition has no name")
	}
	if len(def.ParityCheck) == 0 {
		return nil, fmt.Errorf("code %q has no parity-check matrix", def.Name)
	}
	hRows := make([]bitarray.Dense, len(def.ParityCheck))
	for i, s := range def.ParityCheck {
		row, err := bitarray.FromString(s)
		if err != nil {
			return nil, fmt.Errorf("code %q parity-check row %d: %w", def.Name, i, err)
		}
		hRows[i] = row
	}
	h, err := bitarray.NewMatrix(hRows)
	if err != nil {
		return nil, fmt.Errorf("code %q parity-check matrix: %w", def.Name, err)
	}
	// Transpose: storage is codeword length x syndrome length.
	tRows := make([]bitarray.Dense, h.Cols())
	for j := 0; j < h.Cols(); j++ {
		var row bitarray.Dense
		for i := 0; i < h.Rows(); i++ {
			row.AppendBit(h.Row(i).Get(j))
		}
		tRows[j] = row
	}
	ht, err := bitarray.NewMatrix(tRows)
	if err != nil {
		return nil, err
	}
	table := make(map[string]bitarray.Dense, len(def.Table))
	for syn, evs := range def.Table {
		ev, err := bitarray.FromString(evs)
		if err != nil {
			return nil, fmt.Errorf("code %q error vector for %q: %w", def.Name, syn, err)
		}
		table[syn] = ev
	}
	c, err := New(def.Name, ht, table)
	if err != nil {
		return nil, err
	}
	Register(c)
	return c, nil
}

// LoadFile reads and registers a YAML code definition from path.
func LoadFile(path string) (*Code, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading code definition: %w", err)
	}
	return Load(data)
}
