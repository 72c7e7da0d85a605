package problemo_test

import (
	"fmt"
	"log"

	"gonum.org/v1/gonum/mat"

	"github.com/bsmithyman/problemo"
	"github.com/bsmithyman/problemo/sparse"
)

// Example shows the whole flow against whichever backend the host
// carries: probe, pick the default, factorize once, solve a batch.
// Output depends on the installed solver libraries, so the example is
// compiled but not executed as a test.
func Example() {
	reg, err := problemo.Probe()
	if err != nil {
		log.Fatal(err) // problemo.ErrNoBackend
	}
	fmt.Println("backends:", reg.Available())

	// assemble a small complex system
	b, err := sparse.NewBuilder(4, 4)
	if err != nil {
		log.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		_ = b.Add(i, i, complex(float64(i+2), 1))
	}
	a := b.Build()

	s, err := problemo.NewSolver(a)
	if err != nil {
		log.Fatal(err)
	}
	defer s.Close()

	eye, _ := sparse.Identity(4)
	x, err := s.Solve(eye) // x approximates A^{-1}
	if err != nil {
		log.Fatal(err)
	}
	var _ *mat.CDense = x
}
