package bitarray

import (
	"encoding/json"
	"fmt"
	"io"
)

// A Matrix is a rows x cols bit matrix over GF(2) with bit-packed rows. The
// scheme uses uniformly random instances as members of the 2-universal hash
// family H_3 of Carter and Wegman.
type Matrix struct {
	rows []Dense
	cols int
}

// NewMatrix builds a matrix from its rows, which must all have equal length.
func NewMatrix(rows []Dense) (Matrix, error) {
	m := Matrix{rows: rows}
	if len(rows) > 0 {
		m.cols = rows[0].Size()
	}
	for i, r := range rows {
		if r.Size() != m.cols {
			return Matrix{}, fmt.Errorf("matrix row %d has %d bits, want %d: %w", i, r.Size(), m.cols, ErrLengthMismatch)
		}
	}
	return m, nil
}

// NewRandomMatrix draws a uniformly random rows x cols bit matrix from random.
func NewRandomMatrix(random io.Reader, rows, cols int) (Matrix, error) {
	rs := make([]Dense, rows)
	for i := range rs {
		r, err := Random(random, cols)
		if err != nil {
			return Matrix{}, err
		}
		rs[i] = r
	}
	return Matrix{rows: rs, cols: cols}, nil
}

// Rows returns the number of rows in m.
func (m Matrix) Rows() int {
	return len(m.rows)
}

// Cols returns the number of columns in m.
func (m Matrix) Cols() int {
	return m.cols
}

// Row returns a copy of row i.
func (m Matrix) Row(i int) Dense {
	return NewDense(m.rows[i].bits, m.rows[i].len)
}

// MulVec computes the product v*M of a 1 x rows bit vector with m, over GF(2).
// The result has length Cols. Since scalars are bits, the product is the XOR
// of the rows of m selected by the set bits of v.
func (m Matrix) MulVec(v Dense) (Dense, error) {
	if v.Size() != len(m.rows) {
		return Dense{}, fmt.Errorf("multiplying %d-dim vector into %dx%d matrix: %w",
			v.Size(), len(m.rows), m.cols, ErrLengthMismatch)
	}
	r := NewDense(nil, m.cols)
	for i := range m.rows {
		if v.Get(i) {
			r.xorIn(m.rows[i])
		}
	}
	return r, nil
}

// MarshalJSON encodes m as an array of 0/1 integer rows, the layout the
// scheme's interchange files use for hash matrices.
func (m Matrix) MarshalJSON() ([]byte, error) {
	rows := make([][]int, len(m.rows))
	for i, r := range m.rows {
		row := make([]int, r.Size())
		for j := range row {
			if r.Get(j) {
				row[j] = 1
			}
		}
		rows[i] = row
	}
	return json.Marshal(rows)
}

// UnmarshalJSON decodes the layout produced by MarshalJSON.
func (m *Matrix) UnmarshalJSON(data []byte) error {
	var rows [][]int
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	ds := make([]Dense, len(rows))
	for i, row := range rows {
		var d Dense
		for _, v := range row {
			switch v {
			case 0:
				d.AppendBit(false)
			case 1:
				d.AppendBit(true)
			default:
				return fmt.Errorf("matrix entry %d is not a bit", v)
			}
		}
		ds[i] = d
	}
	built, err := NewMatrix(ds)
	if err != nil {
		return err
	}
	*m = built
	return nil
}
