// Package mumps binds the MUMPS multifrontal direct solver (sequential
// libzmumps build, complex double precision) as a problemo backend.
//
// The binding loads the shared library via dlopen at first use, verifies
// it reports version 5.5 or later (older releases lay the instance struct
// out differently and cannot be driven safely; they fail the probe with
// ErrUnsupportedVersion), and drives the zmumps_c entry point through the
// standard job sequence:
//
//   - JOB=-1 — initialize one solver instance (par=1, sym=0, sequential
//     communicator);
//   - JOB=4  — analysis + numerical factorization of the assembled,
//     centralized matrix (1-based coordinate format);
//   - JOB=3  — solve against one centralized right-hand side, in place;
//   - JOB=-2 — terminate the instance.
//
// MUMPS manages the factorization's lifetime itself: the adapter layer
// requires no explicit teardown, and the binding schedules JOB=-2 through
// a finalizer so a dropped factorization eventually returns its native
// memory. Diagnostic streams are muted (ICNTL(1..3) disabled), matching
// the adapter's silent-library discipline.
//
// The zmumps instance is not reentrant, so a factorization serializes its
// native calls internally.
package mumps
