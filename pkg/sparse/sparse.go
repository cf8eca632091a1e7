// Package sparse implements compressed sparse row and column matrices that
// satisfy gonum's mat.Matrix, so they can be passed to mat.Col and mat.Row
// and densified the same way as a *mat.Dense.
//
// Index order within a row (CSR) or column (CSC) is not required to be
// sorted and duplicate entries are summed, matching the conventions of the
// files these matrices are loaded from.
package sparse

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// compressed is the shared storage of CSR and CSC. major is the compressed
// axis: rows for CSR, columns for CSC.
type compressed struct {
	major, minor int
	indptr       []int
	indices      []int
	data         []float64
}

func newCompressed(major, minor int, indptr, indices []int, data []float64) (compressed, error) {
	if major < 0 || minor < 0 {
		return compressed{}, fmt.Errorf("negative dimension %dx%d", major, minor)
	}
	if len(indptr) != major+1 {
		return compressed{}, fmt.Errorf("indptr has length %d, want %d", len(indptr), major+1)
	}
	if len(indices) != len(data) {
		return compressed{}, fmt.Errorf("indices has length %d but data has length %d", len(indices), len(data))
	}
	if indptr[0] != 0 {
		return compressed{}, fmt.Errorf("indptr must start at 0, got %d", indptr[0])
	}
	for k := 1; k < len(indptr); k++ {
		if indptr[k] < indptr[k-1] {
			return compressed{}, fmt.Errorf("indptr is not monotonic at %d", k)
		}
	}
	if last := indptr[major]; last != len(data) {
		return compressed{}, fmt.Errorf("indptr ends at %d but there are %d stored values", last, len(data))
	}
	for k, idx := range indices {
		if idx < 0 || idx >= minor {
			return compressed{}, fmt.Errorf("index %d at position %d out of range [0, %d)", idx, k, minor)
		}
	}
	return compressed{
		major:   major,
		minor:   minor,
		indptr:  indptr,
		indices: indices,
		data:    data,
	}, nil
}

func (c *compressed) at(outer, inner int) float64 {
	var v float64
	for k := c.indptr[outer]; k < c.indptr[outer+1]; k++ {
		if c.indices[k] == inner {
			v += c.data[k]
		}
	}
	return v
}

// NNZ returns the number of stored values, duplicates included.
func (c *compressed) NNZ() int {
	return len(c.data)
}

// CSR is a compressed sparse row matrix.
type CSR struct {
	compressed
}

// NewCSR returns an r×c CSR matrix. The slices are retained, not copied.
func NewCSR(r, c int, indptr, indices []int, data []float64) (*CSR, error) {
	s, err := newCompressed(r, c, indptr, indices, data)
	if err != nil {
		return nil, fmt.Errorf("csr: %w", err)
	}
	return &CSR{s}, nil
}

func (m *CSR) Dims() (r, c int) {
	return m.major, m.minor
}

func (m *CSR) At(i, j int) float64 {
	if uint(i) >= uint(m.major) {
		panic(mat.ErrRowAccess)
	}
	if uint(j) >= uint(m.minor) {
		panic(mat.ErrColAccess)
	}
	return m.at(i, j)
}

func (m *CSR) T() mat.Matrix {
	return mat.Transpose{Matrix: m}
}

// CSC is a compressed sparse column matrix.
type CSC struct {
	compressed
}

// NewCSC returns an r×c CSC matrix. The slices are retained, not copied.
func NewCSC(r, c int, indptr, indices []int, data []float64) (*CSC, error) {
	s, err := newCompressed(c, r, indptr, indices, data)
	if err != nil {
		return nil, fmt.Errorf("csc: %w", err)
	}
	return &CSC{s}, nil
}

func (m *CSC) Dims() (r, c int) {
	return m.minor, m.major
}

func (m *CSC) At(i, j int) float64 {
	if uint(i) >= uint(m.minor) {
		panic(mat.ErrRowAccess)
	}
	if uint(j) >= uint(m.major) {
		panic(mat.ErrColAccess)
	}
	return m.at(j, i)
}

func (m *CSC) T() mat.Matrix {
	return mat.Transpose{Matrix: m}
}

var (
	_ mat.Matrix = (*CSR)(nil)
	_ mat.Matrix = (*CSC)(nil)
)
