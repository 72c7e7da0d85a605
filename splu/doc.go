// Package splu binds the SuperLU single-threaded sparse LU solver
// (libsuperlu, complex double precision) as a problemo backend.
//
// The binding loads the shared library via dlopen at first use and runs
// the standard expert-path factorization once per matrix:
//
//   - get_perm_c (COLAMD) + sp_preorder — column ordering and symbolic
//     permutation;
//   - zgstrf — numerical LU factorization into supernodal L and
//     compressed-column U;
//   - zgstrs (NOTRANS) — one triangular solve per right-hand-side column.
//
// SuperLU's native input layout is compressed column, so the adapter's
// CSC matrix is handed over without structural conversion (indices are
// narrowed to the library's int width).
//
// Like the multifrontal backend, the factorization needs no explicit
// teardown at the adapter layer: L, U and the solver statistics are
// destroyed through a finalizer once the factorization is unreachable.
// zgstrs mutates shared statistics state, so a factorization serializes
// its native calls internally.
package splu
