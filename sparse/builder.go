package sparse

import (
	"fmt"
	"sort"
)

// Builder accumulates matrix entries in coordinate form and compiles them
// into a canonical CSC. Repeated Add calls for the same (row, col) sum
// their values, matching the usual finite-element assembly convention.
//
// A Builder may be reused after Build; subsequent Adds keep accumulating
// into the same entry set.
type Builder struct {
	rows, cols int
	entries    map[coord]complex128
}

type coord struct{ row, col int }

// NewBuilder returns an empty Builder for a rows×cols matrix.
func NewBuilder(rows, cols int) (*Builder, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("sparse: builder %dx%d: %w", rows, cols, ErrBadShape)
	}
	return &Builder{rows: rows, cols: cols, entries: make(map[coord]complex128)}, nil
}

// Add accumulates v into entry (i, j).
func (b *Builder) Add(i, j int, v complex128) error {
	if i < 0 || i >= b.rows || j < 0 || j >= b.cols {
		return fmt.Errorf("sparse: Add(%d, %d) on %dx%d: %w", i, j, b.rows, b.cols, ErrOutOfRange)
	}
	b.entries[coord{i, j}] += v
	return nil
}

// Dims returns the target matrix dimensions.
func (b *Builder) Dims() (rows, cols int) { return b.rows, b.cols }

// Build compiles the accumulated entries into a CSC. Entries that summed
// to exactly zero are kept: their positions are part of the structure the
// caller assembled, and direct solvers treat explicit zeros as pattern.
//
// Deterministic: entries are emitted column-major, rows ascending.
func (b *Builder) Build() *CSC {
	keys := make([]coord, 0, len(b.entries))
	for k := range b.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(p, q int) bool {
		if keys[p].col != keys[q].col {
			return keys[p].col < keys[q].col
		}
		return keys[p].row < keys[q].row
	})

	colPtr := make([]int, b.cols+1)
	rowInd := make([]int, len(keys))
	values := make([]complex128, len(keys))
	for p, k := range keys {
		colPtr[k.col+1]++
		rowInd[p] = k.row
		values[p] = b.entries[k]
	}
	for j := 0; j < b.cols; j++ {
		colPtr[j+1] += colPtr[j]
	}
	return &CSC{rows: b.rows, cols: b.cols, colPtr: colPtr, rowInd: rowInd, values: values}
}
