// Package solver_test contains shared fixtures: an in-memory dense
// elimination backend standing in for a native solver (with call
// counters), release-recording factorizations, and a well-conditioned
// 4x4 complex system.
package solver_test

import (
	"errors"
	"fmt"
	"math/cmplx"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/bsmithyman/problemo/solver"
	"github.com/bsmithyman/problemo/sparse"
)

const tol = 1e-10

// testSystem returns a diagonally dominant 4x4 complex matrix.
func testSystem(t *testing.T) *sparse.CSC {
	t.Helper()
	b, err := sparse.NewBuilder(4, 4)
	require.NoError(t, err)
	entries := []struct {
		i, j int
		v    complex128
	}{
		{0, 0, 4 + 1i}, {0, 1, 1},
		{1, 1, 3}, {1, 2, 1i},
		{2, 0, 1}, {2, 2, 5}, {2, 3, 1},
		{3, 1, 2i}, {3, 3, 6},
	}
	for _, e := range entries {
		require.NoError(t, b.Add(e.i, e.j, e.v))
	}
	return b.Build()
}

// denseBackend densifies the system matrix at Factorize and solves each
// vector by Gaussian elimination. factorized counts Factorize calls so
// tests can assert the construction-count invariant; solves counts
// single-vector solves.
type denseBackend struct {
	factorized atomic.Int32
	solves     atomic.Int32
}

func (b *denseBackend) Name() string { return "dense-test" }

func (b *denseBackend) Factorize(a *sparse.CSC) (solver.Factorization, error) {
	b.factorized.Add(1)
	rows, cols := a.Dims()
	if rows != cols {
		return nil, fmt.Errorf("dense-test: %dx%d matrix is not square", rows, cols)
	}
	d := make([][]complex128, rows)
	for i := range d {
		d[i] = make([]complex128, cols)
	}
	colPtr, rowInd, values := a.ColPtr(), a.RowInd(), a.Values()
	for j := 0; j < cols; j++ {
		for p := colPtr[j]; p < colPtr[j+1]; p++ {
			d[rowInd[p]][j] = values[p]
		}
	}
	return &denseFactorization{backend: b, a: d}, nil
}

type denseFactorization struct {
	backend *denseBackend
	a       [][]complex128
}

var errSingular = errors.New("dense-test: singular matrix")

// Solve runs Gaussian elimination with partial pivoting on a scratch copy.
func (f *denseFactorization) Solve(rhs []complex128) ([]complex128, error) {
	if f.backend != nil {
		f.backend.solves.Add(1)
	}
	n := len(f.a)
	if len(rhs) != n {
		return nil, fmt.Errorf("dense-test: rhs has %d rows, want %d", len(rhs), n)
	}
	w := make([][]complex128, n)
	for i := range w {
		w[i] = append(append([]complex128(nil), f.a[i]...), rhs[i])
	}
	for k := 0; k < n; k++ {
		pivot := k
		for i := k + 1; i < n; i++ {
			if cmplx.Abs(w[i][k]) > cmplx.Abs(w[pivot][k]) {
				pivot = i
			}
		}
		if cmplx.Abs(w[pivot][k]) < 1e-14 {
			return nil, errSingular
		}
		w[k], w[pivot] = w[pivot], w[k]
		for i := k + 1; i < n; i++ {
			factor := w[i][k] / w[k][k]
			for j := k; j <= n; j++ {
				w[i][j] -= factor * w[k][j]
			}
		}
	}
	x := make([]complex128, n)
	for i := n - 1; i >= 0; i-- {
		sum := w[i][n]
		for j := i + 1; j < n; j++ {
			sum -= w[i][j] * x[j]
		}
		x[i] = sum / w[i][i]
	}
	return x, nil
}

// releasingBackend wraps denseBackend so every factorization records
// Release calls.
type releasingBackend struct {
	denseBackend
	released atomic.Int32
}

func (b *releasingBackend) Factorize(a *sparse.CSC) (solver.Factorization, error) {
	fact, err := b.denseBackend.Factorize(a)
	if err != nil {
		return nil, err
	}
	return &releasingFactorization{Factorization: fact, backend: b}, nil
}

type releasingFactorization struct {
	solver.Factorization
	backend  *releasingBackend
	released atomic.Bool
}

func (f *releasingFactorization) Release() error {
	if f.released.CompareAndSwap(false, true) {
		f.backend.released.Add(1)
	}
	return nil
}

// failingBackend fails every operation with a fixed sentinel, for
// error-propagation tests.
type failingBackend struct{ err error }

func (b *failingBackend) Name() string { return "failing-test" }

func (b *failingBackend) Factorize(*sparse.CSC) (solver.Factorization, error) {
	return nil, b.err
}

// failingSolveBackend factorizes fine but fails every single-vector solve.
type failingSolveBackend struct{ err error }

func (b *failingSolveBackend) Name() string { return "failing-solve-test" }

func (b *failingSolveBackend) Factorize(*sparse.CSC) (solver.Factorization, error) {
	return failingFactorization{err: b.err}, nil
}

type failingFactorization struct{ err error }

func (f failingFactorization) Solve([]complex128) ([]complex128, error) { return nil, f.err }

// bogusRHS satisfies solver.RHS but is neither sparse nor a gonum matrix.
type bogusRHS struct{ rows, cols int }

func (b bogusRHS) Dims() (int, int) { return b.rows, b.cols }

// residual returns max_ij |(A·X - B)[i,j]| for dense B.
func residual(t *testing.T, a *sparse.CSC, x *mat.CDense, want *mat.CDense) float64 {
	t.Helper()
	ad := a.ToCDense()
	ar, ac := ad.Dims()
	_, xc := x.Dims()
	var worst float64
	for i := 0; i < ar; i++ {
		for j := 0; j < xc; j++ {
			var sum complex128
			for k := 0; k < ac; k++ {
				sum += ad.At(i, k) * x.At(k, j)
			}
			if r := cmplx.Abs(sum - want.At(i, j)); r > worst {
				worst = r
			}
		}
	}
	return worst
}

// identityCDense returns I_n as a dense complex matrix.
func identityCDense(n int) *mat.CDense {
	eye := mat.NewCDense(n, n, nil)
	for i := 0; i < n; i++ {
		eye.Set(i, i, 1)
	}
	return eye
}
