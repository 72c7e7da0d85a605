// Package solver defines the common calling convention shared by every
// problemo backend: set a sparse system matrix once, factorize it lazily
// exactly once, then apply the cached inverse operator to whole batches of
// right-hand-side columns.
//
// What:
//
//   - Backend — the two leaf operations a backend must supply: a name and
//     a factorization constructor taking the system matrix.
//   - Factorization — the single-vector solve primitive produced by a
//     Backend. Clients should not call it directly; Solver drives it.
//   - Releaser — optional on a Factorization; deterministic teardown of
//     native resources (the MKL PARDISO binding implements it).
//   - Solver — the adapter itself: matrix registration, lazy cached
//     factorization, batch solves, Close.
//
// Semantics worth knowing before use:
//
//   - Shape reports the TRANSPOSE shape of the system matrix. The solve is
//     of the transposed system in the underlying convention and existing
//     callers depend on the transposed report; it is intentional.
//   - Solve accepts either a *sparse.CSC or any gonum mat.CMatrix as the
//     right-hand-side batch. Columns are solved strictly in index order,
//     one native call per column — there is no cross-column batching, and
//     batching a set of columns is observably identical to solving them
//     one at a time.
//   - SetMatrix with nil is a no-op; it never clears an existing matrix.
//     Registering a different matrix invalidates (and releases, when
//     supported) any cached factorization, so a stale factorization can
//     never be applied to the wrong system.
//   - The lazy factorization is built under a mutex: concurrent first
//     access constructs it exactly once. Whether concurrent Solve calls on
//     one Solver are safe depends on the backend; WithSerialSolve enforces
//     at-most-one-in-flight when the backend is not known to be reentrant.
//
// Errors (sentinels, matched with errors.Is):
//
//   - ErrNilBackend, ErrMatrixNotSet, ErrNonSquare, ErrUnsupportedRHS,
//     ErrDimensionMismatch, ErrClosed.
//   - Errors raised by a native backend during factorization or solve
//     propagate to the caller unmodified in cause (wrapped only with %w
//     context); this layer never masks, retries, or reinterprets them.
package solver
