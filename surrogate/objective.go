package surrogate

import "gonum.org/v1/gonum/mat"

// Objective is a black box scalar function on R^dim. Implementations must be
// safe for concurrent Eval calls.
type Objective interface {
	Dim() int
	Eval(x []float64) float64
}

// GradObjective is an Objective with an analytic gradient, written into grad
// following the gonum optimize convention.
type GradObjective interface {
	Objective
	Grad(grad, x []float64)
}

// HessObjective is an Objective with an analytic Hessian.
type HessObjective interface {
	Objective
	Hess(dst *mat.SymDense, x []float64)
}

// Func adapts a plain function to the Objective interface.
type Func struct {
	N int
	F func(x []float64) float64
}

func (f Func) Dim() int                 { return f.N }
func (f Func) Eval(x []float64) float64 { return f.F(x) }
