package model_problems

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gocrit/classify"
	"github.com/notargets/gocrit/surrogate"
)

// QuadraticBowl is the anisotropic paraboloid
//
//	f(x) = sum_k s_k (x_k - c_k)^2
//
// with its unique minimum at c. The default center is offset from the origin
// so fits and solves cannot succeed by symmetry alone.
type QuadraticBowl struct {
	Center []float64
	Scales []float64
}

func NewQuadraticBowl(dim int) *QuadraticBowl {
	b := &QuadraticBowl{
		Center: make([]float64, dim),
		Scales: make([]float64, dim),
	}
	for k := 0; k < dim; k++ {
		b.Center[k] = 0.3 - 0.1*float64(k)
		b.Scales[k] = float64(k + 1)
	}
	return b
}

func (b *QuadraticBowl) Name() string { return "bowl" }

func (b *QuadraticBowl) Dim() int { return len(b.Center) }

func (b *QuadraticBowl) Domain() surrogate.Domain {
	return surrogate.NewDomainIsotropic(make([]float64, b.Dim()), 2)
}

func (b *QuadraticBowl) Eval(x []float64) (f float64) {
	for k, c := range b.Center {
		d := x[k] - c
		f += b.Scales[k] * d * d
	}
	return
}

func (b *QuadraticBowl) Grad(grad, x []float64) {
	for k, c := range b.Center {
		grad[k] = 2 * b.Scales[k] * (x[k] - c)
	}
}

func (b *QuadraticBowl) Hess(dst *mat.SymDense, x []float64) {
	for i := 0; i < b.Dim(); i++ {
		for j := i; j < b.Dim(); j++ {
			dst.SetSym(i, j, 0)
		}
		dst.SetSym(i, i, 2*b.Scales[i])
	}
}

func (b *QuadraticBowl) KnownCriticalPoints() []KnownPoint {
	return []KnownPoint{{
		X:    append([]float64{}, b.Center...),
		Type: classify.Minimum,
	}}
}

// SaddleSheet alternates curvature sign per axis,
//
//	f(x) = x_0^2 - x_1^2 + x_2^2 - ...
//
// giving a single saddle at the origin.
type SaddleSheet struct {
	N int
}

func NewSaddleSheet(dim int) (*SaddleSheet, error) {
	if dim < 2 {
		return nil, fmt.Errorf("saddle needs at least 2 dimensions, got %d", dim)
	}
	return &SaddleSheet{N: dim}, nil
}

func (s *SaddleSheet) Name() string { return "saddle" }

func (s *SaddleSheet) Dim() int { return s.N }

func (s *SaddleSheet) Domain() surrogate.Domain {
	return surrogate.NewDomainIsotropic(make([]float64, s.N), 1.5)
}

func (s *SaddleSheet) sign(k int) float64 {
	if k%2 == 0 {
		return 1
	}
	return -1
}

func (s *SaddleSheet) Eval(x []float64) (f float64) {
	for k := 0; k < s.N; k++ {
		f += s.sign(k) * x[k] * x[k]
	}
	return
}

func (s *SaddleSheet) Grad(grad, x []float64) {
	for k := 0; k < s.N; k++ {
		grad[k] = 2 * s.sign(k) * x[k]
	}
}

func (s *SaddleSheet) Hess(dst *mat.SymDense, x []float64) {
	for i := 0; i < s.N; i++ {
		for j := i; j < s.N; j++ {
			dst.SetSym(i, j, 0)
		}
		dst.SetSym(i, i, 2*s.sign(i))
	}
}

func (s *SaddleSheet) KnownCriticalPoints() []KnownPoint {
	return []KnownPoint{{
		X:    make([]float64, s.N),
		Type: classify.Saddle,
	}}
}
