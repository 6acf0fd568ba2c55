package homotopy

import (
	"fmt"

	"github.com/notargets/gocrit/basis"
	"github.com/notargets/gocrit/surrogate"
	"github.com/notargets/gocrit/utils"
)

// DegenerateSystemError reports a gradient component that vanishes
// identically, which makes the critical set a continuum rather than isolated
// points.
type DegenerateSystemError struct {
	Component int
}

func (e *DegenerateSystemError) Error() string {
	return fmt.Sprintf("gradient component %d is identically zero", e.Component)
}

// System is the surrogate gradient in monomial form on the normalized cube:
// dim polynomial equations in dim unknowns, with the full Jacobian.
type System struct {
	Dim int
	F   []basis.Polynomial
	J   [][]basis.Polynomial
	Deg []int // total degree of each equation
}

// NewGradientSystem differentiates the surrogate, converts each component to
// monomial form and prunes relatively negligible coefficients. pruneTol <= 0
// keeps every term.
func NewGradientSystem(s *surrogate.Surrogate, pruneTol float64) (sys *System, err error) {
	var (
		dim = s.Dom.Dim()
	)
	P := basis.ToMonomial(s.Kind, s.Indices, s.Coeffs)
	sys = &System{
		Dim: dim,
		F:   make([]basis.Polynomial, dim),
		J:   make([][]basis.Polynomial, dim),
		Deg: make([]int, dim),
	}
	for k := 0; k < dim; k++ {
		Fk := P.Partial(k)
		if pruneTol > 0 {
			Fk = Fk.Prune(pruneTol)
		}
		if Fk.IsZero() {
			err = &DegenerateSystemError{Component: k}
			sys = nil
			return
		}
		sys.F[k] = Fk
		sys.Deg[k] = Fk.Degree()
	}
	for i := 0; i < dim; i++ {
		sys.J[i] = make([]basis.Polynomial, dim)
		for k := 0; k < dim; k++ {
			sys.J[i][k] = sys.F[i].Partial(k)
		}
	}
	return
}

// Bezout is the total-degree path count, the product of equation degrees
func (sys *System) Bezout() (n int) {
	n = 1
	for _, d := range sys.Deg {
		n *= d
	}
	return
}

// EvalInto evaluates the system at z into dst
func (sys *System) EvalInto(dst []complex128, z []complex128) {
	for k := 0; k < sys.Dim; k++ {
		dst[k] = sys.F[k].EvalC(z)
	}
}

// JacobianInto evaluates the Jacobian at z into a fresh factorizable matrix
func (sys *System) JacobianInto(z []complex128) (J utils.CMatrix) {
	J = utils.NewCMatrix(sys.Dim, sys.Dim)
	for i := 0; i < sys.Dim; i++ {
		for k := 0; k < sys.Dim; k++ {
			J.M[i][k] = sys.J[i][k].EvalC(z)
		}
	}
	return
}
