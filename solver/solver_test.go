package solver_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/bsmithyman/problemo/solver"
	"github.com/bsmithyman/problemo/sparse"
)

func TestNewNilBackend(t *testing.T) {
	_, err := solver.New(nil)
	require.ErrorIs(t, err, solver.ErrNilBackend)
}

func TestSolveAgainstIdentityReproducesInverse(t *testing.T) {
	a := testSystem(t)
	s, err := solver.New(&denseBackend{}, solver.WithMatrix(a))
	require.NoError(t, err)

	// X = A^{-1}·I, so A·X must reproduce the identity.
	x, err := s.Solve(identityCDense(4))
	require.NoError(t, err)

	r, c := x.Dims()
	require.Equal(t, 4, r)
	require.Equal(t, 4, c)
	require.Less(t, residual(t, a, x, identityCDense(4)), tol)
}

func TestBatchEqualsColumnwise(t *testing.T) {
	a := testSystem(t)
	s, err := solver.New(&denseBackend{}, solver.WithMatrix(a))
	require.NoError(t, err)

	rhs := mat.NewCDense(4, 3, []complex128{
		1, 0, 2 + 1i,
		0, 1, 0,
		0, 0, -3,
		1i, 0, 1,
	})
	batch, err := s.Solve(rhs)
	require.NoError(t, err)

	for j := 0; j < 3; j++ {
		col := mat.NewCDense(4, 1, nil)
		for i := 0; i < 4; i++ {
			col.Set(i, 0, rhs.At(i, j))
		}
		single, err := s.Solve(col)
		require.NoError(t, err)
		for i := 0; i < 4; i++ {
			require.Equal(t, single.At(i, 0), batch.At(i, j),
				"batching changed column %d, row %d", j, i)
		}
	}
}

func TestSparseRHSMatchesDense(t *testing.T) {
	a := testSystem(t)
	s, err := solver.New(&denseBackend{}, solver.WithMatrix(a))
	require.NoError(t, err)

	// rhs columns e1, e2, e3 as a 4x3 dense matrix
	dense := mat.NewCDense(4, 3, nil)
	for j := 0; j < 3; j++ {
		dense.Set(j, j, 1)
	}
	sparseRHS, err := sparse.FromCDense(dense)
	require.NoError(t, err)

	fromDense, err := s.Solve(dense)
	require.NoError(t, err)
	fromSparse, err := s.Solve(sparseRHS)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		for j := 0; j < 3; j++ {
			require.Equal(t, fromDense.At(i, j), fromSparse.At(i, j),
				"representation changed result at (%d, %d)", i, j)
		}
	}

	// and the three columns are the first three columns of A^{-1}
	inv, err := s.Solve(identityCDense(4))
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		for j := 0; j < 3; j++ {
			require.InDelta(t, real(inv.At(i, j)), real(fromDense.At(i, j)), tol)
			require.InDelta(t, imag(inv.At(i, j)), imag(fromDense.At(i, j)), tol)
		}
	}
}

func TestFactorizationBuiltOnce(t *testing.T) {
	backend := &denseBackend{}
	s, err := solver.New(backend, solver.WithMatrix(testSystem(t)))
	require.NoError(t, err)

	require.Equal(t, int32(0), backend.factorized.Load(), "factorization must be lazy")

	for k := 0; k < 5; k++ {
		_, err := s.Solve(identityCDense(4))
		require.NoError(t, err)
	}
	f1, err := s.Factorization()
	require.NoError(t, err)
	f2, err := s.Factorization()
	require.NoError(t, err)

	require.Equal(t, int32(1), backend.factorized.Load())
	require.Same(t, f1, f2)
}

func TestMatrixNotSet(t *testing.T) {
	s, err := solver.New(&denseBackend{})
	require.NoError(t, err)

	_, err = s.Matrix()
	require.ErrorIs(t, err, solver.ErrMatrixNotSet)
	_, _, err = s.Shape()
	require.ErrorIs(t, err, solver.ErrMatrixNotSet)
	_, err = s.Factorization()
	require.ErrorIs(t, err, solver.ErrMatrixNotSet)
	_, err = s.Solve(identityCDense(4))
	require.ErrorIs(t, err, solver.ErrMatrixNotSet)
}

func TestSetMatrixNilIsNoOp(t *testing.T) {
	a := testSystem(t)
	s, err := solver.New(&denseBackend{}, solver.WithMatrix(a))
	require.NoError(t, err)

	require.NoError(t, s.SetMatrix(nil))
	got, err := s.Matrix()
	require.NoError(t, err)
	require.Same(t, a, got, "nil assignment must not clear the matrix")

	// nil before any matrix keeps the unset state too
	s2, err := solver.New(&denseBackend{})
	require.NoError(t, err)
	require.NoError(t, s2.SetMatrix(nil))
	_, err = s2.Matrix()
	require.ErrorIs(t, err, solver.ErrMatrixNotSet)
}

func TestShapeIsTransposed(t *testing.T) {
	// a rectangular matrix makes the transposed report observable
	b, err := sparse.NewBuilder(2, 3)
	require.NoError(t, err)
	require.NoError(t, b.Add(0, 0, 1))
	require.NoError(t, b.Add(1, 2, 1))

	s, err := solver.New(&denseBackend{}, solver.WithMatrix(b.Build()))
	require.NoError(t, err)

	rows, cols, err := s.Shape()
	require.NoError(t, err)
	require.Equal(t, 3, rows, "Shape reports the transpose")
	require.Equal(t, 2, cols, "Shape reports the transpose")

	// but factorizing a rectangular system is rejected
	_, err = s.Factorization()
	require.ErrorIs(t, err, solver.ErrNonSquare)
}

func TestSetMatrixInvalidatesFactorization(t *testing.T) {
	backend := &releasingBackend{}
	s, err := solver.New(backend, solver.WithMatrix(testSystem(t)))
	require.NoError(t, err)

	_, err = s.Solve(identityCDense(4))
	require.NoError(t, err)
	require.Equal(t, int32(1), backend.factorized.Load())

	// a fresh matrix drops and releases the cached factorization
	b, err := sparse.Identity(4)
	require.NoError(t, err)
	require.NoError(t, s.SetMatrix(b))
	require.Equal(t, int32(1), backend.released.Load(), "old factorization must be released")

	x, err := s.Solve(identityCDense(4))
	require.NoError(t, err)
	require.Equal(t, int32(2), backend.factorized.Load(), "new matrix must refactorize")
	require.Less(t, residual(t, b, x, identityCDense(4)), tol)

	// re-registering the same matrix value keeps the cache
	require.NoError(t, s.SetMatrix(b))
	require.Equal(t, int32(1), backend.released.Load())
	_, err = s.Solve(identityCDense(4))
	require.NoError(t, err)
	require.Equal(t, int32(2), backend.factorized.Load())
}

func TestUnsupportedRHS(t *testing.T) {
	s, err := solver.New(&denseBackend{}, solver.WithMatrix(testSystem(t)))
	require.NoError(t, err)

	_, err = s.Solve(bogusRHS{rows: 4, cols: 1})
	require.ErrorIs(t, err, solver.ErrUnsupportedRHS)
	require.Contains(t, err.Error(), "bogusRHS", "error must name the offending type")

	_, err = s.Solve(nil)
	require.ErrorIs(t, err, solver.ErrUnsupportedRHS)
}

func TestDimensionMismatch(t *testing.T) {
	backend := &denseBackend{}
	s, err := solver.New(backend, solver.WithMatrix(testSystem(t)))
	require.NoError(t, err)

	_, err = s.Solve(mat.NewCDense(3, 2, nil))
	require.ErrorIs(t, err, solver.ErrDimensionMismatch)
	require.Equal(t, int32(0), backend.factorized.Load(),
		"a mismatched batch must be rejected before factorizing")
}

func TestNativeErrorsPropagate(t *testing.T) {
	sentinel := errors.New("backend exploded")

	s, err := solver.New(&failingBackend{err: sentinel}, solver.WithMatrix(testSystem(t)))
	require.NoError(t, err)
	_, err = s.Factorization()
	require.ErrorIs(t, err, sentinel, "factorize errors must pass through")

	s2, err := solver.New(&failingSolveBackend{err: sentinel}, solver.WithMatrix(testSystem(t)))
	require.NoError(t, err)
	_, err = s2.Solve(identityCDense(4))
	require.ErrorIs(t, err, sentinel, "solve errors must pass through")
}

func TestCloseIsIdempotentAndPoisons(t *testing.T) {
	backend := &releasingBackend{}
	s, err := solver.New(backend, solver.WithMatrix(testSystem(t)))
	require.NoError(t, err)
	_, err = s.Solve(identityCDense(4))
	require.NoError(t, err)

	require.NoError(t, s.Close())
	require.Equal(t, int32(1), backend.released.Load())
	require.NoError(t, s.Close(), "Close must be idempotent")
	require.Equal(t, int32(1), backend.released.Load(), "second Close must not re-release")

	_, err = s.Solve(identityCDense(4))
	require.ErrorIs(t, err, solver.ErrClosed)
	_, err = s.Factorization()
	require.ErrorIs(t, err, solver.ErrClosed)
	_, err = s.Matrix()
	require.ErrorIs(t, err, solver.ErrClosed)
	err = s.SetMatrix(testSystem(t))
	require.ErrorIs(t, err, solver.ErrClosed)
}

func TestCloseWithoutFactorization(t *testing.T) {
	backend := &releasingBackend{}
	s, err := solver.New(backend, solver.WithMatrix(testSystem(t)))
	require.NoError(t, err)

	// never solved: nothing to release
	require.NoError(t, s.Close())
	require.Equal(t, int32(0), backend.released.Load())
}
