package splu

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

// Sentinel errors for the SuperLU backend.
var (
	// ErrNotLoaded indicates libsuperlu could not be loaded in this process.
	ErrNotLoaded = errors.New("splu: SuperLU library not loaded")

	// ErrNative carries a non-zero SuperLU info code; the failing routine
	// and code are reported in the wrapping message. A positive code from
	// zgstrf names the first exactly-singular diagonal.
	ErrNative = errors.New("splu: native solver error")
)

var (
	loadOnce sync.Once
	loadErr  error

	setDefaultOptions func(opts *superluOptions)
	statInit          func(stat *superluStat)
	statFree          func(stat *superluStat)
	zCreateCompCol    func(a *superMatrix, m, n, nnz int32,
		nzval unsafe.Pointer, rowind, colptr *int32, stype, dtype, mtype int32)
	zCreateDense func(b *superMatrix, m, n int32,
		x unsafe.Pointer, ldx int32, stype, dtype, mtype int32)
	getPermC   func(ispec int32, a *superMatrix, permC *int32)
	spPreorder func(opts *superluOptions, a *superMatrix, permC, etree *int32, ac *superMatrix)
	spIenv     func(ispec int32) int32
	zgstrf     func(opts *superluOptions, ac *superMatrix, relax, panelSize int32,
		etree *int32, work unsafe.Pointer, lwork int32, permC, permR *int32,
		l, u *superMatrix, glu *globalLU, stat *superluStat, info *int32)
	zgstrs func(trans int32, l, u *superMatrix, permC, permR *int32,
		b *superMatrix, stat *superluStat, info *int32)
	destroyStore        func(a *superMatrix)
	destroySuperNode    func(l *superMatrix)
	destroyCompCol      func(u *superMatrix)
	destroyCompColPermd func(ac *superMatrix)
)

func load() error {
	loadOnce.Do(func() {
		lib, err := nativelib.Open(
			"libsuperlu.so.6", "libsuperlu.so.5", "libsuperlu.so",
			"libsuperlu.dylib",
		)
		if err != nil {
			loadErr = err
			return
		}
		for _, sym := range []struct {
			fptr any
			name string
		}{
			{&setDefaultOptions, "set_default_options"},
			{&statInit, "StatInit"},
			{&statFree, "StatFree"},
			{&zCreateCompCol, "zCreate_CompCol_Matrix"},
			{&zCreateDense, "zCreate_Dense_Matrix"},
			{&getPermC, "get_perm_c"},
			{&spPreorder, "sp_preorder"},
			{&spIenv, "sp_ienv"},
			{&zgstrf, "zgstrf"},
			{&zgstrs, "zgstrs"},
			{&destroyStore, "Destroy_SuperMatrix_Store"},
			{&destroySuperNode, "Destroy_SuperNode_Matrix"},
			{&destroyCompCol, "Destroy_CompCol_Matrix"},
			{&destroyCompColPermd, "Destroy_CompCol_Permuted"},
		} {
			if err := nativelib.Register(sym.fptr, lib, sym.name); err != nil {
				loadErr = err
				return
			}
		}
	})
	return loadErr
}

// Available reports whether SuperLU is loadable in this process. The
// probe runs once; subsequent calls are free.
func Available() bool { return load() == nil }

// Backend is the SuperLU problemo backend. The zero value is usable.
type Backend struct{}

// New returns a SuperLU backend.
func New() *Backend { return &Backend{} }

// Name implements solver.Backend.
func (*Backend) Name() string { return "splu" }

// Factorize computes the sparse LU decomposition of a via the SuperLU
// expert path (get_perm_c, sp_preorder, zgstrf). The returned
// factorization solves one vector per zgstrs call; its native L/U
// matrices are destroyed through a finalizer once it is unreachable.
func (*Backend) Factorize(a *sparse.CSC) (solver.Factorization, error) {
	if err := load(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotLoaded, err)
	}
	rows, cols := a.Dims()
	if rows != cols {
		return nil, fmt.Errorf("splu: %dx%d matrix: %w", rows, cols, solver.ErrNonSquare)
	}
	if a.NNZ() == 0 {
		return nil, fmt.Errorf("splu: matrix has no stored entries (structurally singular): %w", ErrNative)
	}

	n := int32(rows)
	f := &factorization{
		n:      rows,
		nzval:  append([]complex128(nil), a.Values()...),
		rowind: narrow(a.RowInd()),
		colptr: narrow(a.ColPtr()),
		permC:  make([]int32, rows),
		permR:  make([]int32, rows),
	}
	zCreateCompCol(&f.a, n, n, int32(a.NNZ()),
		unsafe.Pointer(&f.nzval[0]), &f.rowind[0], &f.colptr[0], sluNC, sluZ, sluGE)
	setDefaultOptions(&f.opts)
	statInit(&f.stat)
	f.live = true

	etree := make([]int32, rows)
	var ac superMatrix
	getPermC(permSpecColamd, &f.a, &f.permC[0])
	spPreorder(&f.opts, &f.a, &f.permC[0], &etree[0], &ac)

	var info int32
	zgstrf(&f.opts, &ac, spIenv(2), spIenv(1), &etree[0], nil, 0,
		&f.permC[0], &f.permR[0], &f.l, &f.u, &f.glu, &f.stat, &info)
	destroyCompColPermd(&ac)
	runtime.KeepAlive(f)
	if info != 0 {
		if info > 0 {
			// a zero pivot still leaves allocated (possibly partial) L/U
			// stores behind; mark them so release destroys them too
			f.factored = true
		}
		f.release()
		if info > 0 {
			return nil, fmt.Errorf("splu: zgstrf: U(%d,%d) is exactly zero, matrix is singular: %w",
				info, info, ErrNative)
		}
		return nil, fmt.Errorf("splu: zgstrf failed with info %d: %w", info, ErrNative)
	}
	f.factored = true
	runtime.SetFinalizer(f, (*factorization).release)
	return f, nil
}

var _ solver.Factorization = (*factorization)(nil)

// factorization owns the SuperLU L/U pair plus the compressed-column copy
// of the input. The Go slices referenced from native stores are kept here
// so they stay reachable for the factorization's whole lifetime.
type factorization struct {
	mu       sync.Mutex
	live     bool
	factored bool

	n      int
	a      superMatrix
	l, u   superMatrix
	opts   superluOptions
	glu    globalLU
	stat   superluStat
	permC  []int32
	permR  []int32
	nzval  []complex128
	rowind []int32
	colptr []int32
}

// Solve runs one zgstrs triangular solve. SuperLU solves in place on the
// dense right-hand side, so the input is copied and the solution returned
// in the copy.
func (f *factorization) Solve(rhs []complex128) ([]complex128, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.live || !f.factored {
		return nil, fmt.Errorf("splu: factorization destroyed: %w", ErrNative)
	}
	if len(rhs) != f.n {
		return nil, fmt.Errorf("splu: right-hand side has %d rows, system dimension is %d: %w",
			len(rhs), f.n, solver.ErrDimensionMismatch)
	}
	x := make([]complex128, f.n)
	copy(x, rhs)

	var b superMatrix
	zCreateDense(&b, int32(f.n), 1, unsafe.Pointer(&x[0]), int32(f.n), sluDN, sluZ, sluGE)
	var info int32
	zgstrs(noTrans, &f.l, &f.u, &f.permC[0], &f.permR[0], &b, &f.stat, &info)
	destroyStore(&b)
	runtime.KeepAlive(f)
	if info != 0 {
		return nil, fmt.Errorf("splu: zgstrs failed with info %d: %w", info, ErrNative)
	}
	return x, nil
}

// release destroys the native stores. Idempotent; safe to call from the
// finalizer and from the zgstrf error path.
func (f *factorization) release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.live {
		return
	}
	f.live = false
	runtime.SetFinalizer(f, nil)
	if f.factored {
		f.factored = false
		destroySuperNode(&f.l)
		destroyCompCol(&f.u)
	}
	destroyStore(&f.a)
	statFree(&f.stat)
}

func narrow(idx []int) []int32 {
	out := make([]int32, len(idx))
	for i, v := range idx {
		out[i] = int32(v)
	}
	return out
}
