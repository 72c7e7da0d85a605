package sparse

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// CSC is a complex-valued matrix in compressed-sparse-column form.
//
// Storage invariants, enforced by New and Builder.Build:
//
//   - len(colPtr) == cols+1, colPtr[0] == 0, colPtr[cols] == nnz,
//     and colPtr is non-decreasing;
//   - rowInd and values have length nnz;
//   - within each column the row indices are strictly increasing and
//     inside [0, rows).
//
// A CSC is treated as immutable once constructed. Solver adapters rely on
// that: a factorization cached for a CSC stays valid for the value's
// lifetime.
type CSC struct {
	rows, cols int
	colPtr     []int
	rowInd     []int
	values     []complex128
}

// New builds a CSC from raw compressed-column storage, validating every
// structural invariant up front. The slices are retained, not copied.
//
// Returns ErrBadShape or ErrBadStructure (wrapped with detail) on
// malformed input.
func New(rows, cols int, colPtr, rowInd []int, values []complex128) (*CSC, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("sparse: %dx%d: %w", rows, cols, ErrBadShape)
	}
	if len(colPtr) != cols+1 {
		return nil, fmt.Errorf("sparse: len(colPtr)=%d, want %d: %w", len(colPtr), cols+1, ErrBadStructure)
	}
	if colPtr[0] != 0 {
		return nil, fmt.Errorf("sparse: colPtr[0]=%d, want 0: %w", colPtr[0], ErrBadStructure)
	}
	nnz := colPtr[cols]
	if len(rowInd) != nnz || len(values) != nnz {
		return nil, fmt.Errorf("sparse: nnz=%d but len(rowInd)=%d, len(values)=%d: %w",
			nnz, len(rowInd), len(values), ErrBadStructure)
	}
	for j := 0; j < cols; j++ {
		if colPtr[j+1] < colPtr[j] {
			return nil, fmt.Errorf("sparse: colPtr decreases at column %d: %w", j, ErrBadStructure)
		}
		prev := -1
		for p := colPtr[j]; p < colPtr[j+1]; p++ {
			r := rowInd[p]
			if r < 0 || r >= rows {
				return nil, fmt.Errorf("sparse: row index %d in column %d: %w", r, j, ErrOutOfRange)
			}
			if r <= prev {
				return nil, fmt.Errorf("sparse: row indices not strictly increasing in column %d: %w", j, ErrBadStructure)
			}
			prev = r
		}
	}
	return &CSC{rows: rows, cols: cols, colPtr: colPtr, rowInd: rowInd, values: values}, nil
}

// Identity returns the n×n identity matrix in CSC form.
func Identity(n int) (*CSC, error) {
	if n <= 0 {
		return nil, fmt.Errorf("sparse: identity of order %d: %w", n, ErrBadShape)
	}
	colPtr := make([]int, n+1)
	rowInd := make([]int, n)
	values := make([]complex128, n)
	for j := 0; j < n; j++ {
		colPtr[j+1] = j + 1
		rowInd[j] = j
		values[j] = 1
	}
	return &CSC{rows: n, cols: n, colPtr: colPtr, rowInd: rowInd, values: values}, nil
}

// FromCDense converts a dense complex matrix to CSC, keeping only the
// exactly non-zero entries. Intended for small matrices in tests and
// client setup code; large systems should be assembled with a Builder.
func FromCDense(m mat.CMatrix) (*CSC, error) {
	rows, cols := m.Dims()
	b, err := NewBuilder(rows, cols)
	if err != nil {
		return nil, err
	}
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			if v := m.At(i, j); v != 0 {
				if err := b.Add(i, j, v); err != nil {
					return nil, err
				}
			}
		}
	}
	return b.Build(), nil
}

// Dims returns the matrix dimensions (rows, cols).
func (m *CSC) Dims() (rows, cols int) { return m.rows, m.cols }

// NNZ returns the number of stored entries.
func (m *CSC) NNZ() int { return len(m.values) }

// At returns the entry at (i, j), or zero when no entry is stored there.
func (m *CSC) At(i, j int) (complex128, error) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		return 0, fmt.Errorf("sparse: At(%d, %d) on %dx%d: %w", i, j, m.rows, m.cols, ErrOutOfRange)
	}
	lo, hi := m.colPtr[j], m.colPtr[j+1]
	p := lo + sort.SearchInts(m.rowInd[lo:hi], i)
	if p < hi && m.rowInd[p] == i {
		return m.values[p], nil
	}
	return 0, nil
}

// ColVector densifies column j into a fresh slice of length rows.
func (m *CSC) ColVector(j int) ([]complex128, error) {
	if j < 0 || j >= m.cols {
		return nil, fmt.Errorf("sparse: column %d of %dx%d: %w", j, m.rows, m.cols, ErrOutOfRange)
	}
	col := make([]complex128, m.rows)
	for p := m.colPtr[j]; p < m.colPtr[j+1]; p++ {
		col[m.rowInd[p]] = m.values[p]
	}
	return col, nil
}

// ToCDense expands the matrix into a gonum dense complex matrix.
func (m *CSC) ToCDense() *mat.CDense {
	out := mat.NewCDense(m.rows, m.cols, nil)
	for j := 0; j < m.cols; j++ {
		for p := m.colPtr[j]; p < m.colPtr[j+1]; p++ {
			out.Set(m.rowInd[p], j, m.values[p])
		}
	}
	return out
}

// ColPtr returns the column pointer array (length cols+1).
// The slice aliases internal storage; callers must not mutate it.
func (m *CSC) ColPtr() []int { return m.colPtr }

// RowInd returns the row index array (length NNZ).
// The slice aliases internal storage; callers must not mutate it.
func (m *CSC) RowInd() []int { return m.rowInd }

// Values returns the stored entries (length NNZ).
// The slice aliases internal storage; callers must not mutate it.
func (m *CSC) Values() []complex128 { return m.values }
