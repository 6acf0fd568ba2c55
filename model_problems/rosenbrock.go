package model_problems

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gocrit/classify"
	"github.com/notargets/gocrit/surrogate"
)

// Rosenbrock is the chained banana valley
//
//	f(x) = sum_i [ 100 (x_{i+1} - x_i^2)^2 + (1 - x_i)^2 ]
//
// with the global minimum at (1,...,1). The valley floor is nearly flat, so
// surrogate fits need high degrees and refinement earns its keep here.
type Rosenbrock struct {
	N int
}

func NewRosenbrock(dim int) (*Rosenbrock, error) {
	if dim < 2 {
		return nil, fmt.Errorf("rosenbrock needs at least 2 dimensions, got %d", dim)
	}
	return &Rosenbrock{N: dim}, nil
}

func (r *Rosenbrock) Name() string { return "rosenbrock" }

func (r *Rosenbrock) Dim() int { return r.N }

func (r *Rosenbrock) Domain() surrogate.Domain {
	return surrogate.NewDomainIsotropic(make([]float64, r.N), 2)
}

func (r *Rosenbrock) Eval(x []float64) (f float64) {
	for i := 0; i < r.N-1; i++ {
		a := 1 - x[i]
		b := x[i+1] - x[i]*x[i]
		f += a*a + 100*b*b
	}
	return
}

func (r *Rosenbrock) Grad(grad, x []float64) {
	for k := 0; k < r.N; k++ {
		grad[k] = 0
		if k < r.N-1 {
			grad[k] += -400*x[k]*(x[k+1]-x[k]*x[k]) - 2*(1-x[k])
		}
		if k > 0 {
			grad[k] += 200 * (x[k] - x[k-1]*x[k-1])
		}
	}
}

func (r *Rosenbrock) Hess(dst *mat.SymDense, x []float64) {
	for i := 0; i < r.N; i++ {
		for j := i; j < r.N; j++ {
			dst.SetSym(i, j, 0)
		}
	}
	for k := 0; k < r.N; k++ {
		var d float64
		if k < r.N-1 {
			d += 1200*x[k]*x[k] - 400*x[k+1] + 2
			dst.SetSym(k, k+1, -400*x[k])
		}
		if k > 0 {
			d += 200
		}
		dst.SetSym(k, k, d)
	}
}

func (r *Rosenbrock) KnownCriticalPoints() []KnownPoint {
	ones := make([]float64, r.N)
	for k := range ones {
		ones[k] = 1
	}
	return []KnownPoint{{X: ones, Value: 0, Type: classify.Minimum}}
}
