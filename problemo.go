package problemo

import (
	"slices"
	"sync"

	"github.com/bsmithyman/problemo/mumps"
	"github.com/bsmithyman/problemo/pardiso"
	"github.com/bsmithyman/problemo/solver"
	"github.com/bsmithyman/problemo/sparse"
	"github.com/bsmithyman/problemo/splu"
)

// ID identifies one solver backend.
type ID string

// Supported backend identifiers, in priority order: the ordering ranks
// expected numerical robustness and performance, and decides which
// available backend becomes the default.
const (
	Mumps      ID = "mumps"
	MKLPardiso ID = "mklpardiso"
	SPLU       ID = "splu"
)

// Factory constructs a fresh backend instance.
type Factory func() solver.Backend

// probeEntry pairs an identifier with its availability probe and factory.
type probeEntry struct {
	id        ID
	available func() bool
	factory   Factory
}

// defaultProbes lists the supported backends in priority order.
func defaultProbes() []probeEntry {
	return []probeEntry{
		{Mumps, mumps.Available, func() solver.Backend { return mumps.New() }},
		{MKLPardiso, pardiso.Available, func() solver.Backend { return pardiso.New() }},
		{SPLU, splu.Available, func() solver.Backend { return splu.New() }},
	}
}

// Registry records which backends survived the availability probe. It is
// immutable after construction; query it, don't mutate it.
type Registry struct {
	order     []ID
	factories map[ID]Factory
}

// newRegistry runs each probe once, in order, recording the successes.
// Probes must not panic or block; a probe failure only marks its backend
// unavailable. Zero survivors is ErrNoBackend.
func newRegistry(entries []probeEntry) (*Registry, error) {
	r := &Registry{factories: make(map[ID]Factory, len(entries))}
	for _, e := range entries {
		if !e.available() {
			continue
		}
		r.order = append(r.order, e.id)
		r.factories[e.id] = e.factory
	}
	if len(r.order) == 0 {
		return nil, ErrNoBackend
	}
	return r, nil
}

// Probe attempts to load each supported backend library and returns the
// registry of survivors. Beyond the one-time native library loads it has
// no side effects. Fails with ErrNoBackend when no backend is available.
func Probe() (*Registry, error) { return newRegistry(defaultProbes()) }

var defaultRegistry = sync.OnceValues(Probe)

// Default returns the process-wide registry, probing on first call.
func Default() (*Registry, error) { return defaultRegistry() }

// MustDefault is Default for programs that cannot run without a solver:
// it panics with ErrNoBackend instead of returning it.
func MustDefault() *Registry {
	r, err := Default()
	if err != nil {
		panic(err)
	}
	return r
}

// Available returns the available backend identifiers in priority order.
// The slice is a copy; callers may keep or mutate it.
func (r *Registry) Available() []ID { return slices.Clone(r.order) }

// Lookup returns the factory registered for id, if id is available.
func (r *Registry) Lookup(id ID) (Factory, bool) {
	f, ok := r.factories[id]
	return f, ok
}

// Best returns the factory of the highest-priority available backend,
// the system-wide default.
func (r *Registry) Best() Factory { return r.factories[r.order[0]] }

// NewSolver builds a solver over the best available backend with the
// system matrix a already registered. It is the one-call path for clients
// that have no backend preference.
func NewSolver(a *sparse.CSC, opts ...solver.Option) (*solver.Solver, error) {
	reg, err := Default()
	if err != nil {
		return nil, err
	}
	return solver.New(reg.Best()(), append([]solver.Option{solver.WithMatrix(a)}, opts...)...)
}
