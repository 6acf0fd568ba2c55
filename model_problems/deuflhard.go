package model_problems

import (
	"math"

	"github.com/notargets/gocrit/classify"
	"github.com/notargets/gocrit/surrogate"
)

// Deuflhard is the oscillatory sum of squares
//
//	f(x,y) = (exp(x^2+y^2) - 3)^2 + (x + y - sin(3(x+y)))^2
//
// from Deuflhard's Newton methods examples. The sine term folds several
// stationary points into the box. The catalog lists the two closed-form
// global minima on the line x+y=0 at radius sqrt(ln 3).
type Deuflhard struct{}

func NewDeuflhard() *Deuflhard { return &Deuflhard{} }

func (d *Deuflhard) Name() string { return "deuflhard" }

func (d *Deuflhard) Dim() int { return 2 }

func (d *Deuflhard) Domain() surrogate.Domain {
	return surrogate.NewDomainIsotropic([]float64{0, 0}, 1.5)
}

func (d *Deuflhard) Eval(x []float64) float64 {
	a := math.Exp(x[0]*x[0]+x[1]*x[1]) - 3
	s := x[0] + x[1]
	b := s - math.Sin(3*s)
	return a*a + b*b
}

func (d *Deuflhard) Grad(grad, x []float64) {
	e := math.Exp(x[0]*x[0] + x[1]*x[1])
	a := e - 3
	s := x[0] + x[1]
	b := s - math.Sin(3*s)
	db := 1 - 3*math.Cos(3*s)
	grad[0] = 4*x[0]*e*a + 2*b*db
	grad[1] = 4*x[1]*e*a + 2*b*db
}

func (d *Deuflhard) KnownCriticalPoints() []KnownPoint {
	r := math.Sqrt(math.Log(3) / 2)
	return []KnownPoint{
		{X: []float64{r, -r}, Value: 0, Type: classify.Minimum},
		{X: []float64{-r, r}, Value: 0, Type: classify.Minimum},
	}
}
