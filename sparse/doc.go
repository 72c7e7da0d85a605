// Package sparse holds the one sparse-matrix representation accepted by
// the problemo solver adapters: a compressed-sparse-column (CSC) matrix
// with complex128 values.
//
// What:
//
//   - CSC — validated, immutable-by-convention compressed column storage.
//   - Builder — coordinate-format accumulation (duplicates sum) compiled
//     into a canonical CSC.
//   - Identity / FromCDense — convenience constructors for tests and
//     client code migrating from dense data.
//
// Why CSC:
//
//   - It is the native input layout of SuperLU, converts to CSR (PARDISO)
//     and 1-based COO (MUMPS) in one linear pass, and lets a solver adapter
//     densify individual right-hand-side columns cheaply.
//
// The package deliberately offers no format conversions, arithmetic, or
// iterative kernels; it exists solely to carry a system matrix and
// right-hand-side columns across the adapter boundary. Raw storage
// accessors (ColPtr, RowInd, Values) alias internal slices so backend
// bindings can marshal without copying — callers must not mutate them.
//
// Errors:
//
//   - ErrBadShape: non-positive dimensions.
//   - ErrBadStructure: malformed colPtr/rowInd (length, monotonicity,
//     per-column row ordering).
//   - ErrOutOfRange: an index outside the matrix bounds.
//
// Complexity: construction validates in O(cols + nnz); At is O(log nnz_j)
// within one column; ColVector is O(rows + nnz_j).
package sparse
