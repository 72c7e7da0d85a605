package solver

import "github.com/bsmithyman/problemo/sparse"

// Backend supplies the two backend-specific leaf operations. Everything
// else — matrix registration, caching, batch decomposition — lives in
// Solver and is shared verbatim across backends.
type Backend interface {
	// Name identifies the backend in error messages ("mumps",
	// "mklpardiso", "splu", ...).
	Name() string

	// Factorize builds a factorization of the square matrix a. It is
	// invoked at most once per matrix registered on a Solver.
	Factorize(a *sparse.CSC) (Factorization, error)
}

// Factorization is the cached inverse operator produced by a Backend.
//
// Solve applies it to one dense right-hand-side vector and returns the
// dense complex solution. It is the single-vector primitive Solver loops
// over; client code should go through Solver.Solve instead.
type Factorization interface {
	Solve(rhs []complex128) ([]complex128, error)
}

// Releaser is optionally implemented by a Factorization whose native
// resources need deterministic teardown. Release must be idempotent.
// Solver calls it when a factorization is invalidated and on Close.
type Releaser interface {
	Release() error
}

// RHS is the right-hand-side batch accepted by Solver.Solve: a matrix
// whose columns are individual right-hand-side vectors. Both *sparse.CSC
// and gonum's mat.CMatrix satisfy it; any other dynamic type is rejected
// with ErrUnsupportedRHS.
type RHS interface {
	Dims() (rows, cols int)
}

// options collects adapter configuration; fields are unexported and set
// only through With* constructors.
type options struct {
	matrix *sparse.CSC
	serial bool
}

// Option configures a Solver at construction.
type Option func(*options)

// WithMatrix registers the system matrix at construction time, the
// construct-with-A form. A nil matrix is a no-op, same as SetMatrix(nil).
func WithMatrix(a *sparse.CSC) Option {
	return func(o *options) { o.matrix = a }
}

// WithSerialSolve makes Solve hold an adapter-level lock for the duration
// of each batch, enforcing at most one in-flight solve per Solver. Use it
// when the chosen backend's solve phase is not known to be reentrant.
func WithSerialSolve() Option {
	return func(o *options) { o.serial = true }
}
