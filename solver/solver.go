package solver

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/bsmithyman/problemo/sparse"
)

// Solver adapts one backend to the common factorize-once, solve-many
// calling convention. The zero value is not usable; construct with New.
type Solver struct {
	backend Backend

	mu     sync.Mutex // guards a, fact, closed
	a      *sparse.CSC
	fact   Factorization
	closed bool

	serial  bool
	solveMu sync.Mutex // held across a batch when serial
}

// New builds a Solver over backend b. The system matrix may be supplied
// now via WithMatrix or later via SetMatrix, but must be set before any
// Shape, Factorization or Solve call.
func New(b Backend, opts ...Option) (*Solver, error) {
	if b == nil {
		return nil, ErrNilBackend
	}
	var cfg options
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &Solver{backend: b, serial: cfg.serial}
	if err := s.SetMatrix(cfg.matrix); err != nil {
		return nil, err
	}
	return s, nil
}

// SetMatrix registers the system matrix. A nil matrix is a no-op and
// never clears an existing registration. Registering a different matrix
// drops any cached factorization — releasing it when the backend supports
// explicit teardown — so the next solve factorizes the new system.
func (s *Solver) SetMatrix(a *sparse.CSC) error {
	if a == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.a == a {
		return nil // same matrix value: the cached factorization stays valid
	}
	s.a = a
	return s.dropFactorizationLocked()
}

// Matrix returns the registered system matrix, or ErrMatrixNotSet.
func (s *Solver) Matrix() (*sparse.CSC, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	if s.a == nil {
		return nil, ErrMatrixNotSet
	}
	return s.a, nil
}

// Shape reports the transpose shape of the system matrix: for an r×c
// matrix it returns (c, r). The solve is of the transposed system in the
// underlying convention and callers depend on the transposed report.
func (s *Solver) Shape() (rows, cols int, err error) {
	a, err := s.Matrix()
	if err != nil {
		return 0, 0, err
	}
	r, c := a.Dims()
	return c, r, nil
}

// Factorization returns the cached factorization, constructing it on
// first access. Construction happens exactly once per registered matrix,
// no matter how many goroutines race here. Fails with ErrMatrixNotSet
// before SetMatrix and with ErrNonSquare for rectangular systems; backend
// factorization errors propagate in cause.
func (s *Solver) Factorization() (Factorization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, _, err := s.factorizationLocked()
	return f, err
}

func (s *Solver) factorizationLocked() (Factorization, int, error) {
	n, err := s.systemDimLocked()
	if err != nil {
		return nil, 0, err
	}
	if s.fact != nil {
		return s.fact, n, nil
	}
	fact, err := s.backend.Factorize(s.a)
	if err != nil {
		return nil, 0, fmt.Errorf("solver: factorize with %s: %w", s.backend.Name(), err)
	}
	s.fact = fact
	return fact, n, nil
}

// systemDimLocked validates the registered system and returns its
// dimension without touching the factorization cache.
func (s *Solver) systemDimLocked() (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if s.a == nil {
		return 0, ErrMatrixNotSet
	}
	r, c := s.a.Dims()
	if r != c {
		return 0, fmt.Errorf("solver: %dx%d system matrix: %w", r, c, ErrNonSquare)
	}
	return r, nil
}

func (s *Solver) dropFactorizationLocked() error {
	fact := s.fact
	s.fact = nil
	if rel, ok := fact.(Releaser); ok {
		return rel.Release()
	}
	return nil
}

// Solve applies the inverse operator to every column of rhs and returns a
// dense complex matrix of identical shape: column j of the result solves
// the system against column j of rhs. Columns are processed strictly in
// index order through the single-vector primitive, one backend call per
// column; sparse columns are densified one at a time.
//
// rhs must have as many rows as the system dimension
// (ErrDimensionMismatch otherwise) and be either a *sparse.CSC or a gonum
// mat.CMatrix (ErrUnsupportedRHS otherwise). The first failing column
// aborts the batch; backend errors propagate in cause.
func (s *Solver) Solve(rhs RHS) (*mat.CDense, error) {
	if rhs == nil {
		return nil, fmt.Errorf("solver: nil right-hand side: %w", ErrUnsupportedRHS)
	}
	column, err := columnReader(rhs)
	if err != nil {
		return nil, err
	}

	rows, cols := rhs.Dims()

	// the batch shape is checked first, so a mismatched batch never pays
	// for a factorization it cannot use
	s.mu.Lock()
	n, err := s.systemDimLocked()
	if err == nil && rows != n {
		err = fmt.Errorf("solver: right-hand side has %d rows, system dimension is %d: %w",
			rows, n, ErrDimensionMismatch)
	}
	var fact Factorization
	if err == nil {
		fact, _, err = s.factorizationLocked()
	}
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if s.serial {
		s.solveMu.Lock()
		defer s.solveMu.Unlock()
	}

	out := mat.NewCDense(rows, cols, nil)
	for j := 0; j < cols; j++ {
		q, err := column(j)
		if err != nil {
			return nil, err
		}
		x, err := fact.Solve(q)
		if err != nil {
			return nil, fmt.Errorf("solver: column %d: %w", j, err)
		}
		if len(x) != rows {
			return nil, fmt.Errorf("solver: column %d: backend returned %d rows, want %d: %w",
				j, len(x), rows, ErrDimensionMismatch)
		}
		for i := 0; i < rows; i++ {
			out.Set(i, j, x[i])
		}
	}
	return out, nil
}

// Close invalidates the Solver, releasing the cached factorization when
// the backend supports explicit teardown. Close is idempotent; every
// operation after it fails with ErrClosed, so a released native handle
// can never be exercised through a stale adapter.
func (s *Solver) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.dropFactorizationLocked()
}

// columnReader picks the column-extraction strategy for the supported
// right-hand-side representations. The *sparse.CSC case densifies one
// column per call; the dense case slices columns directly.
func columnReader(rhs RHS) (func(j int) ([]complex128, error), error) {
	switch m := rhs.(type) {
	case *sparse.CSC:
		return m.ColVector, nil
	case mat.CMatrix:
		r, _ := m.Dims()
		return func(j int) ([]complex128, error) {
			q := make([]complex128, r)
			for i := range q {
				q[i] = m.At(i, j)
			}
			return q, nil
		}, nil
	default:
		return nil, fmt.Errorf("solver: cannot use %T as a right-hand side: %w", rhs, ErrUnsupportedRHS)
	}
}
