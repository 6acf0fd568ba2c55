package model_problems

import (
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gocrit/classify"
	"github.com/notargets/gocrit/surrogate"
)

// Himmelblau is the classic quartic
//
//	f(x,y) = (x^2 + y - 11)^2 + (x + y^2 - 7)^2
//
// with four global minima at value zero and one local maximum. The catalog
// lists those five; the four saddles between them are left to the solver.
type Himmelblau struct{}

func NewHimmelblau() *Himmelblau { return &Himmelblau{} }

func (h *Himmelblau) Name() string { return "himmelblau" }

func (h *Himmelblau) Dim() int { return 2 }

func (h *Himmelblau) Domain() surrogate.Domain {
	return surrogate.NewDomainIsotropic([]float64{0, 0}, 5)
}

func (h *Himmelblau) Eval(x []float64) float64 {
	a := x[0]*x[0] + x[1] - 11
	b := x[0] + x[1]*x[1] - 7
	return a*a + b*b
}

func (h *Himmelblau) Grad(grad, x []float64) {
	a := x[0]*x[0] + x[1] - 11
	b := x[0] + x[1]*x[1] - 7
	grad[0] = 4*x[0]*a + 2*b
	grad[1] = 2*a + 4*x[1]*b
}

func (h *Himmelblau) Hess(dst *mat.SymDense, x []float64) {
	a := x[0]*x[0] + x[1] - 11
	b := x[0] + x[1]*x[1] - 7
	dst.SetSym(0, 0, 8*x[0]*x[0]+4*a+2)
	dst.SetSym(0, 1, 4*x[0]+4*x[1])
	dst.SetSym(1, 1, 8*x[1]*x[1]+4*b+2)
}

func (h *Himmelblau) KnownCriticalPoints() []KnownPoint {
	return []KnownPoint{
		{X: []float64{3, 2}, Value: 0, Type: classify.Minimum},
		{X: []float64{-2.805118086952745, 3.131312518250573}, Value: 0, Type: classify.Minimum},
		{X: []float64{-3.779310253377747, -3.283185991286170}, Value: 0, Type: classify.Minimum},
		{X: []float64{3.584428340330492, -1.848126526964404}, Value: 0, Type: classify.Minimum},
		{X: []float64{-0.270844590667493, -0.923038556480019}, Value: 181.616522344965, Type: classify.Maximum},
	}
}
