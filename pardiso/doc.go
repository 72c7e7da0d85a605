// Package pardiso binds the MKL PARDISO direct solver (libmkl_rt) as a
// problemo backend.
//
// The binding loads the runtime library via dlopen at first use and
// drives the classic pardiso entry point with a fixed matrix type 13
// (complex, non-symmetric) through three phases:
//
//   - phase 12 — analysis + numerical factorization, run once when the
//     adapter factorizes;
//   - phase 33 — forward/backward solve, run once per right-hand-side
//     column;
//   - phase -1 — release of all internal solver memory, run by Release.
//
// Release is deterministic and idempotent, and is skipped entirely when
// no factorization was ever built. A released factorization refuses
// further solves with ErrReleased instead of exercising freed native
// state. PARDISO's solve phase shares internal handle state, so a
// factorization serializes its own native calls.
//
// The system matrix arrives as CSC and is marshalled once into the
// 1-based CSR layout PARDISO expects; solver output is muted (msglvl 0),
// matching the adapter's silent-library discipline.
package pardiso
