package splu

// Native struct mirrors and enum values from SuperLU 5.x headers
// (slu_util.h, supermatrix.h). Only structs whose fields we read or whose
// layout the library fills in place are mirrored exactly; pure scratch
// containers are opaque, oversized buffers the library initializes itself.

// superMatrix mirrors SuperMatrix: three storage/type tags, the shape,
// and an opaque Store the library allocates.
type superMatrix struct {
	stype int32 // storage layout (Stype_t)
	dtype int32 // scalar type (Dtype_t)
	mtype int32 // mathematical shape (Mtype_t)
	nrow  int32
	ncol  int32
	store uintptr
}

// Stype_t / Dtype_t / Mtype_t values used by this binding.
const (
	sluNC int32 = 0 // compressed column
	sluDN int32 = 6 // dense column-major
	sluZ  int32 = 3 // complex double
	sluGE int32 = 0 // general
)

// trans_t: no transposition during zgstrs.
const noTrans int32 = 0

// COLAMD column-ordering selector for get_perm_c.
const permSpecColamd int32 = 3

// superluStat mirrors SuperLUStat_t; StatInit allocates the pointer
// members, StatFree returns them.
type superluStat struct {
	panelHisto  uintptr
	utime       uintptr
	ops         uintptr
	tinyPivots  int32
	refineSteps int32
	expansions  int32
}

// superluOptions stands in for superlu_options_t. set_default_options
// fills the whole struct and this binding never reads or writes a field,
// so an oversized opaque buffer is used instead of a field-exact mirror
// (the struct grew ILU parameters across 5.x releases).
type superluOptions struct {
	_ [64]int32
	_ [16]float64
}

// globalLU stands in for GlobalLU_t, zgstrf's cross-call scratch. Opaque
// for the same reason as superluOptions.
type globalLU struct {
	_ [512]byte
}
