package mumps

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/bsmithyman/problemo/internal/nativelib"
	"github.com/bsmithyman/problemo/solver"
	"github.com/bsmithyman/problemo/sparse"
)

// Sentinel errors for the MUMPS backend.
var (
	// ErrNotLoaded indicates libzmumps could not be loaded in this process.
	ErrNotLoaded = errors.New("mumps: solver library not loaded")

	// ErrNative carries a negative MUMPS INFO(1); the code and companion
	// INFO(2) are reported in the wrapping message.
	ErrNative = errors.New("mumps: native solver error")

	// ErrUnsupportedVersion indicates the loaded library predates the
	// 5.5.0 struct layout this binding mirrors.
	ErrUnsupportedVersion = errors.New("mumps: unsupported library version")
)

// MUMPS job codes used by this backend.
const (
	jobInit           = -1
	jobTerminate      = -2
	jobAnalyzeFactor  = 4
	jobSolve          = 3
	useCommWorld      = -987654 // sequential placeholder communicator
	hostParticipating = 1
	symUnsymmetric    = 0
)

var (
	loadOnce sync.Once
	loadErr  error

	zmumpsC func(id unsafe.Pointer)
)

func load() error {
	loadOnce.Do(func() {
		lib, err := nativelib.Open(
			"libzmumps_seq.so.5", "libzmumps_seq.so",
			"libzmumps.so.5", "libzmumps.so",
			"libzmumps.dylib",
		)
		if err != nil {
			loadErr = err
			return
		}
		if err := nativelib.Register(&zmumpsC, lib, "zmumps_c"); err != nil {
			loadErr = err
			return
		}
		loadErr = checkVersion()
	})
	return loadErr
}

// checkVersion initializes a throwaway instance and reads the version
// string JOB=-1 writes into it. zmumpsStruc mirrors the layout MUMPS has
// shipped since 5.5.0 (nblk and the block-format fields were inserted
// mid-struct then), so older libraries are refused here instead of being
// driven through misaligned fields. Only the leading sym/par/job/
// comm_fortran block, stable across every 5.x release, is touched before
// the version is known; an unsupported library's probe instance is
// deliberately leaked because JOB=-2 would read a shifted field.
func checkVersion() error {
	id := &zmumpsStruc{
		sym:         symUnsymmetric,
		par:         hostParticipating,
		job:         jobInit,
		commFortran: useCommWorld,
	}
	zmumpsC(unsafe.Pointer(id))
	major, minor, ok := libraryVersion(id)
	if !ok {
		runtime.KeepAlive(id)
		return fmt.Errorf("%w: no version string after init", ErrUnsupportedVersion)
	}
	if !versionSupported(major, minor) {
		runtime.KeepAlive(id)
		return fmt.Errorf("%w: found %d.%d, need 5.5 through 5.x", ErrUnsupportedVersion, major, minor)
	}
	id.job = jobTerminate
	zmumpsC(unsafe.Pointer(id))
	runtime.KeepAlive(id)
	return nil
}

// versionSupported reports whether a library version matches the struct
// layout. Releases past the 5 series are refused until their layout is
// verified.
func versionSupported(major, minor int) bool {
	return major == 5 && minor >= 5
}

// Available reports whether a sequential complex MUMPS build is loadable
// in this process. The probe runs once; subsequent calls are free.
func Available() bool { return load() == nil }

// Backend is the MUMPS problemo backend. The zero value is usable.
type Backend struct{}

// New returns a MUMPS backend.
func New() *Backend { return &Backend{} }

// Name implements solver.Backend.
func (*Backend) Name() string { return "mumps" }

// Factorize initializes one MUMPS instance, feeds it the matrix in
// 1-based coordinate form, and runs analysis + factorization (JOB=4).
// The returned factorization needs no explicit teardown: the instance is
// terminated through a finalizer once the factorization is unreachable.
func (*Backend) Factorize(a *sparse.CSC) (solver.Factorization, error) {
	if err := load(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotLoaded, err)
	}
	rows, cols := a.Dims()
	if rows != cols {
		return nil, fmt.Errorf("mumps: %dx%d matrix: %w", rows, cols, solver.ErrNonSquare)
	}
	if a.NNZ() == 0 {
		return nil, fmt.Errorf("mumps: matrix has no stored entries (structurally singular): %w", ErrNative)
	}

	f := &factorization{n: rows}
	f.irn, f.jcn, f.av = toCOO(a)

	f.id = &zmumpsStruc{
		sym:         symUnsymmetric,
		par:         hostParticipating,
		job:         jobInit,
		commFortran: useCommWorld,
	}
	if err := f.call(jobInit); err != nil {
		return nil, err
	}
	f.live = true
	runtime.SetFinalizer(f, (*factorization).terminate)

	// mute diagnostic, statistics and warning streams
	f.id.icntl[0] = -1
	f.id.icntl[1] = -1
	f.id.icntl[2] = -1
	f.id.icntl[3] = 0

	f.id.n = int32(f.n)
	f.id.nnz = int64(len(f.av))
	f.id.irn = uintptr(unsafe.Pointer(&f.irn[0]))
	f.id.jcn = uintptr(unsafe.Pointer(&f.jcn[0]))
	f.id.a = uintptr(unsafe.Pointer(&f.av[0]))
	if err := f.call(jobAnalyzeFactor); err != nil {
		f.terminate()
		return nil, err
	}
	return f, nil
}

var _ solver.Factorization = (*factorization)(nil)

// factorization owns one initialized zmumps instance. The Go slices
// referenced from the native struct are kept here so they stay reachable
// for the instance's whole lifetime.
type factorization struct {
	mu   sync.Mutex
	live bool

	id *zmumpsStruc
	n  int

	irn, jcn []int32 // 1-based coordinates
	av       []complex128
}

// Solve runs the MUMPS solve phase (JOB=3) against one right-hand side.
// MUMPS solves in place on the centralized RHS buffer, so the input is
// copied and the solution returned in the copy.
func (f *factorization) Solve(rhs []complex128) ([]complex128, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.live {
		return nil, fmt.Errorf("mumps: instance terminated: %w", ErrNative)
	}
	if len(rhs) != f.n {
		return nil, fmt.Errorf("mumps: right-hand side has %d rows, system dimension is %d: %w",
			len(rhs), f.n, solver.ErrDimensionMismatch)
	}
	x := make([]complex128, f.n)
	copy(x, rhs)
	f.id.rhs = uintptr(unsafe.Pointer(&x[0]))
	f.id.nrhs = 1
	f.id.lrhs = int32(f.n)
	err := f.call(jobSolve)
	f.id.rhs = 0
	if err != nil {
		return nil, err
	}
	return x, nil
}

// terminate runs JOB=-2, returning the instance's native memory.
// Idempotent; safe to call from the finalizer and from error paths.
func (f *factorization) terminate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.live {
		return
	}
	f.live = false
	runtime.SetFinalizer(f, nil)
	_ = f.call(jobTerminate)
}

// call invokes zmumps_c with the given job and checks INFO(1).
func (f *factorization) call(job int32) error {
	f.id.job = job
	zmumpsC(unsafe.Pointer(f.id))
	runtime.KeepAlive(f)
	if f.id.info[0] < 0 {
		return fmt.Errorf("mumps: job %d failed with INFO(1)=%d, INFO(2)=%d: %w",
			job, f.id.info[0], f.id.info[1], ErrNative)
	}
	return nil
}

// toCOO expands the CSC structure into the 1-based coordinate triplet
// MUMPS ingests.
func toCOO(a *sparse.CSC) (irn, jcn []int32, av []complex128) {
	colPtr, rowInd, values := a.ColPtr(), a.RowInd(), a.Values()
	nnz := a.NNZ()
	_, cols := a.Dims()

	irn = make([]int32, nnz)
	jcn = make([]int32, nnz)
	av = make([]complex128, nnz)
	for j := 0; j < cols; j++ {
		for p := colPtr[j]; p < colPtr[j+1]; p++ {
			irn[p] = int32(rowInd[p] + 1)
			jcn[p] = int32(j + 1)
			av[p] = values[p]
		}
	}
	return irn, jcn, av
}
