// Package problemo is a uniform front over several direct sparse-system
// solvers, so numerical code can factorize a sparse matrix once and apply
// the resulting inverse operator to many right-hand sides without knowing
// which backend happens to be installed.
//
// What problemo provides:
//
//   - Backend registry: probes, in a fixed priority order, for each of the
//     supported native solver libraries being loadable in the current
//     environment, and exposes the survivors as an ordered capability list.
//   - One adapter contract (package solver): set a sparse system matrix,
//     factorize it lazily exactly once, then solve whole batches of
//     right-hand-side columns through the cached factorization.
//   - Three backend bindings: mumps (multifrontal), pardiso (MKL vendor
//     kernel) and splu (SuperLU single-threaded sparse LU), each loaded at
//     runtime via dlopen — no cgo, no link-time dependency.
//
// Priority order is Mumps > MKLPardiso > SPLU, reflecting expected
// numerical robustness and performance of the backends. The first
// available backend is the process default:
//
//	reg, err := problemo.Probe()
//	if err != nil {
//	    log.Fatal(err) // problemo.ErrNoBackend: no solver library found
//	}
//	s, err := solver.New(reg.Best()(), solver.WithMatrix(A))
//	...
//	X, err := s.Solve(B) // X is dense complex; column j solves A·x = B[:,j]
//
// Or, when the default backend is all you need:
//
//	s, err := problemo.NewSolver(A)
//
// problemo implements no factorization itself; every numerical decision is
// delegated to the native library behind the chosen backend. Errors raised
// by a native solver propagate to the caller unmodified.
package problemo
