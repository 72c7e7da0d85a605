package sparse

import "errors"

// Sentinel errors for sparse-matrix construction and access.
// All are matched with errors.Is; context is added with %w at call sites.
var (
	// ErrBadShape indicates non-positive row or column counts.
	ErrBadShape = errors.New("sparse: dimensions must be > 0")

	// ErrBadStructure indicates malformed CSC structure: wrong slice
	// lengths, a non-monotonic column pointer, or unsorted / duplicate
	// row indices within a column.
	ErrBadStructure = errors.New("sparse: malformed compressed-column structure")

	// ErrOutOfRange indicates a row or column index outside the bounds.
	ErrOutOfRange = errors.New("sparse: index out of range")
)
