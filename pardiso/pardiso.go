package pardiso

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/bsmithyman/problemo/internal/nativelib"
	"github.com/bsmithyman/problemo/solver"
	"github.com/bsmithyman/problemo/sparse"
)

// Sentinel errors for the PARDISO backend.
var (
	// ErrNotLoaded indicates libmkl_rt could not be loaded in this process.
	ErrNotLoaded = errors.New("pardiso: MKL runtime library not loaded")

	// ErrReleased indicates a solve was attempted on a released factorization.
	ErrReleased = errors.New("pardiso: factorization has been released")

	// ErrNative carries a non-zero PARDISO error code; the code and phase
	// are reported in the wrapping message.
	ErrNative = errors.New("pardiso: native solver error")
)

// PARDISO phase and matrix-type codes used by this backend.
const (
	mtypeComplexNonsym = 13 // complex, structurally non-symmetric
	phaseAnalyzeFactor = 12
	phaseSolve         = 33
	phaseRelease       = -1
)

var (
	loadOnce sync.Once
	loadErr  error

	pardisoinit func(pt unsafe.Pointer, mtype, iparm *int32)
	pardisoCall func(pt unsafe.Pointer, maxfct, mnum, mtype, phase, n *int32,
		a unsafe.Pointer, ia, ja, perm, nrhs, iparm, msglvl *int32,
		b, x unsafe.Pointer, errcode *int32)
)

func load() error {
	loadOnce.Do(func() {
		lib, err := nativelib.Open(
			"libmkl_rt.so.2", "libmkl_rt.so.1", "libmkl_rt.so",
			"libmkl_rt.2.dylib", "libmkl_rt.dylib",
		)
		if err != nil {
			loadErr = err
			return
		}
		if err := nativelib.Register(&pardisoinit, lib, "pardisoinit"); err != nil {
			loadErr = err
			return
		}
		loadErr = nativelib.Register(&pardisoCall, lib, "pardiso")
	})
	return loadErr
}

// Available reports whether the MKL runtime is loadable in this process.
// The probe runs once; subsequent calls are free.
func Available() bool { return load() == nil }

// Backend is the PARDISO problemo backend. The zero value is usable.
type Backend struct{}

// New returns a PARDISO backend.
func New() *Backend { return &Backend{} }

// Name implements solver.Backend.
func (*Backend) Name() string { return "mklpardiso" }

// Factorize runs the PARDISO analysis and numerical factorization
// (phase 12) on a, returning a factorization that solves one vector per
// call and releases its native memory via Release.
func (*Backend) Factorize(a *sparse.CSC) (solver.Factorization, error) {
	if err := load(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotLoaded, err)
	}
	rows, cols := a.Dims()
	if rows != cols {
		return nil, fmt.Errorf("pardiso: %dx%d matrix: %w", rows, cols, solver.ErrNonSquare)
	}
	if a.NNZ() == 0 {
		return nil, fmt.Errorf("pardiso: matrix has no stored entries (structurally singular): %w", ErrNative)
	}

	f := &factorization{n: int32(rows), mtype: mtypeComplexNonsym}
	f.ia, f.ja, f.av = toCSR(a)
	pardisoinit(unsafe.Pointer(&f.pt[0]), &f.mtype, &f.iparm[0])
	if err := f.call(phaseAnalyzeFactor, nil, nil); err != nil {
		return nil, err
	}
	return f, nil
}

var (
	_ solver.Factorization = (*factorization)(nil)
	_ solver.Releaser      = (*factorization)(nil)
)

// factorization owns one PARDISO internal handle (pt) plus the CSR copy
// of the matrix, which PARDISO re-reads during the solve phase.
type factorization struct {
	mu       sync.Mutex
	released bool

	pt    [64]uintptr // opaque solver handle, zero-initialized per the MKL contract
	iparm [64]int32
	mtype int32
	n     int32

	ia, ja []int32 // 1-based CSR structure
	av     []complex128
}

// Solve applies the factorization to one right-hand-side vector
// (phase 33). The input is not modified; the solution is returned in a
// fresh slice.
func (f *factorization) Solve(rhs []complex128) ([]complex128, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.released {
		return nil, ErrReleased
	}
	if len(rhs) != int(f.n) {
		return nil, fmt.Errorf("pardiso: right-hand side has %d rows, system dimension is %d: %w",
			len(rhs), f.n, solver.ErrDimensionMismatch)
	}
	x := make([]complex128, f.n)
	if err := f.call(phaseSolve, rhs, x); err != nil {
		return nil, err
	}
	return x, nil
}

// Release frees PARDISO's internal memory (phase -1). Idempotent; a
// second Release, or a Release on a factorization that was never built,
// does nothing.
func (f *factorization) Release() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.released {
		return nil
	}
	f.released = true
	return f.call(phaseRelease, nil, nil)
}

// call drives one pardiso phase. b and x are nil except for the solve
// phase, where exactly one right-hand side is passed (nrhs=1, iparm(6)=0
// keeps b intact and writes the solution to x).
func (f *factorization) call(phase int32, b, x []complex128) error {
	var (
		maxfct = int32(1)
		mnum   = int32(1)
		nrhs   int32
		msglvl int32 // mute solver output
		perm   int32
		code   int32
		bp, xp unsafe.Pointer
	)
	if b != nil {
		nrhs = 1
		bp = unsafe.Pointer(&b[0])
		xp = unsafe.Pointer(&x[0])
	}
	pardisoCall(unsafe.Pointer(&f.pt[0]), &maxfct, &mnum, &f.mtype, &phase, &f.n,
		unsafe.Pointer(&f.av[0]), &f.ia[0], &f.ja[0], &perm, &nrhs, &f.iparm[0], &msglvl,
		bp, xp, &code)
	if code != 0 {
		return fmt.Errorf("pardiso: phase %d failed with code %d: %w", phase, code, ErrNative)
	}
	return nil
}

// toCSR transposes the CSC structure into the 1-based CSR layout PARDISO
// expects. One linear pass over the entries; values are copied so the
// caller's matrix stays untouched by the native library.
func toCSR(a *sparse.CSC) (ia, ja []int32, av []complex128) {
	rows, cols := a.Dims()
	colPtr, rowInd, values := a.ColPtr(), a.RowInd(), a.Values()
	nnz := a.NNZ()

	ia = make([]int32, rows+1)
	ja = make([]int32, nnz)
	av = make([]complex128, nnz)

	// count entries per row, then prefix-sum into row starts
	for _, r := range rowInd {
		ia[r+1]++
	}
	for i := 0; i < rows; i++ {
		ia[i+1] += ia[i]
	}
	next := make([]int32, rows)
	copy(next, ia[:rows])
	for j := 0; j < cols; j++ {
		for p := colPtr[j]; p < colPtr[j+1]; p++ {
			r := rowInd[p]
			q := next[r]
			next[r]++
			ja[q] = int32(j)
			av[q] = values[p]
		}
	}
	// shift to Fortran 1-based indexing
	for i := range ia {
		ia[i]++
	}
	for q := range ja {
		ja[q]++
	}
	return ia, ja, av
}
