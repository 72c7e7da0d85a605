package mumps

import "unsafe"

// zmumpsStruc mirrors ZMUMPS_STRUC_C from zmumps_c.h (MUMPS 5.5.0 and
// later, complex double precision; 5.5 inserted nblk and the block-format
// fields mid-struct, so earlier 5.x layouts do not match and load()
// refuses them). Only the assembled, centralized entry points are used:
// the control prefix, the COO matrix fields, the dense RHS fields, and
// the INFO/INFOG blocks. Fields this binding never touches are kept in
// place so the used fields land at their native offsets, and the struct
// ends with a generous tail so the native library can write its trailing
// bookkeeping (OOC paths, version tag) inside memory we own.
type zmumpsStruc struct {
	sym, par, job int32
	commFortran   int32

	icntl [60]int32
	keep  [500]int32
	cntl  [15]float64
	dkeep [230]float64
	keep8 [150]int64

	n    int32
	nblk int32

	// assembled centralized input
	nz  int32
	_   int32
	nnz int64
	irn uintptr
	jcn uintptr
	a   uintptr

	// assembled distributed input (unused)
	nzLoc  int32
	_      int32
	nnzLoc int64
	irnLoc uintptr
	jcnLoc uintptr
	aLoc   uintptr

	// elemental input (unused)
	nelt   int32
	_      int32
	eltptr uintptr
	eltvar uintptr
	aElt   uintptr

	// block format (unused)
	blkfmt int32
	_      int32
	blkptr uintptr
	blkvar uintptr

	// orderings and scalings (unused)
	permIn          uintptr
	symPerm         uintptr
	unsPerm         uintptr
	colsca          uintptr
	rowsca          uintptr
	colscaFromMumps int32
	rowscaFromMumps int32

	// dense / sparse right-hand sides and solutions
	rhs        uintptr
	redrhs     uintptr
	rhsSparse  uintptr
	solLoc     uintptr
	rhsLoc     uintptr
	irhsSparse uintptr
	irhsPtr    uintptr
	isolLoc    uintptr
	irhsLoc    uintptr

	nrhs    int32
	lrhs    int32
	lredrhs int32
	nzRhs   int32
	lsolLoc int32
	lrhsLoc int32
	nlocRhs int32

	// Schur complement controls (unused)
	schurMloc int32
	schurNloc int32
	schurLld  int32
	mblock    int32
	nblock    int32
	nprow     int32
	npcol     int32
	_         int32

	info   [80]int32
	infog  [80]int32
	rinfo  [40]float64
	rinfog [40]float64

	// trailing native fields (deficiency, pivnul list, mapping, Schur
	// pointers, OOC/save paths, version string) — untouched here, sized
	// to cover every 5.x layout so zmumps_c never writes past our buffer.
	_ [65536]byte
}

// libraryVersion recovers the "major.minor.patch" string JOB=-1 writes
// into the instance. The version field's offset moved across releases, so
// the instance bytes are scanned rather than addressed; the scan is what
// lets an old, layout-incompatible library be identified safely.
func libraryVersion(id *zmumpsStruc) (major, minor int, ok bool) {
	return scanVersion(unsafe.Slice((*byte)(unsafe.Pointer(id)), unsafe.Sizeof(*id)))
}

// scanVersion finds the first NUL-terminated ASCII dotted triplet in b
// and returns its leading two components.
func scanVersion(b []byte) (major, minor int, ok bool) {
	for i := 0; i < len(b); i++ {
		if i > 0 && isDigit(b[i-1]) {
			continue // mid-number
		}
		maj, p, ok1 := scanNumber(b, i)
		if !ok1 || p >= len(b) || b[p] != '.' {
			continue
		}
		min, q, ok2 := scanNumber(b, p+1)
		if !ok2 || q >= len(b) || b[q] != '.' {
			continue
		}
		_, r, ok3 := scanNumber(b, q+1)
		if !ok3 || r >= len(b) || b[r] != 0 {
			continue
		}
		return maj, min, true
	}
	return 0, 0, false
}

func scanNumber(b []byte, i int) (v, next int, ok bool) {
	start := i
	for i < len(b) && isDigit(b[i]) && i-start < 3 {
		v = v*10 + int(b[i]-'0')
		i++
	}
	return v, i, i > start
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }
