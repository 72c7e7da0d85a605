package solver

import "errors"

// Sentinel errors returned by the solver adapter. All are matched with
// errors.Is; call sites add context via %w wrapping.
var (
	// ErrNilBackend indicates New was given no backend. A Solver without
	// a single-vector solve primitive is a programming defect, so this is
	// rejected at construction rather than on first solve.
	ErrNilBackend = errors.New("solver: backend is nil")

	// ErrMatrixNotSet indicates the system matrix has not been set.
	ErrMatrixNotSet = errors.New("solver: system matrix has not been set")

	// ErrNonSquare indicates a factorization was requested for a
	// rectangular system matrix.
	ErrNonSquare = errors.New("solver: system matrix is not square")

	// ErrUnsupportedRHS indicates the right-hand-side batch is neither a
	// *sparse.CSC nor a gonum mat.CMatrix.
	ErrUnsupportedRHS = errors.New("solver: unsupported right-hand-side type")

	// ErrDimensionMismatch indicates the right-hand-side row count does
	// not equal the system dimension.
	ErrDimensionMismatch = errors.New("solver: dimension mismatch")

	// ErrClosed indicates use of a Solver after Close.
	ErrClosed = errors.New("solver: solver is closed")
)
