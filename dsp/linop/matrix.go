package linop

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

// Matrix is a dense rows×cols operator stored column-major.
type Matrix struct {
	rows, cols int
	data       []float64
}

// NewMatrix wraps column-major data of length rows*cols.
func NewMatrix(rows, cols int, data []float64) (*Matrix, error) {
	if rows <= 0 || cols <= 0 || len(data) != rows*cols {
		return nil, fmt.Errorf("%w: %d values for a %dx%d matrix", ErrDimension, len(data), rows, cols)
	}
	return &Matrix{rows: rows, cols: cols, data: append([]float64(nil), data...)}, nil
}

// FromColumns builds a matrix whose j-th column is columns[j].
func FromColumns(columns [][]float64) (*Matrix, error) {
	if len(columns) == 0 || len(columns[0]) == 0 {
		return nil, fmt.Errorf("%w: empty matrix", ErrDimension)
	}
	rows := len(columns[0])
	data := make([]float64, 0, rows*len(columns))
	for j, col := range columns {
		if len(col) != rows {
			return nil, fmt.Errorf("%w: column %d has %d rows, want %d", ErrDimension, j, len(col), rows)
		}
		data = append(data, col...)
	}
	return &Matrix{rows: rows, cols: len(columns), data: data}, nil
}

// Dims returns the matrix shape.
func (m *Matrix) Dims() (rows, cols int) { return m.rows, m.cols }

// At returns the element at row i, column j.
func (m *Matrix) At(i, j int) float64 { return m.data[j*m.rows+i] }

// Column returns a view of column j.
func (m *Matrix) Column(j int) []float64 { return m.data[j*m.rows : (j+1)*m.rows] }

func (m *Matrix) InDim() int  { return m.cols }
func (m *Matrix) OutDim() int { return m.rows }

func (m *Matrix) Op(x []float64) []float64 {
	checkLen("matrix", len(x), m.cols)
	out := make([]float64, m.rows)
	tmp := make([]float64, m.rows)
	for j, v := range x {
		if v == 0 {
			continue
		}
		vecmath.ScaleBlock(tmp, m.Column(j), v)
		vecmath.AddBlockInPlace(out, tmp)
	}
	return out
}

func (m *Matrix) Adj(y []float64) []float64 {
	checkLen("matrix adjoint", len(y), m.rows)
	out := make([]float64, m.cols)
	for j := range out {
		out[j] = vecmath.DotProduct(m.Column(j), y)
	}
	return out
}
