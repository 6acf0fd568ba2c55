package surrogate

import (
	"context"
	"fmt"
	"math"

	"github.com/notargets/gocrit/basis"
	"github.com/notargets/gocrit/utils"
)

const (
	// DefaultCondWarnThreshold flags an ill conditioned design matrix without
	// failing the fit
	DefaultCondWarnThreshold = 1.e12
)

// Params configures one surrogate fit. Zero values select the documented
// defaults: grid rule matched to the basis family, GridRes = Degree+2,
// tensor truncation.
type Params struct {
	Degree            int
	Kind              basis.Kind
	Truncation        basis.Truncation
	Grid              basis.Grid
	GridRes           int // points per dimension
	CondWarnThreshold float64
}

func (p Params) gridRule() basis.Grid {
	if p.Grid != basis.DefaultGrid {
		return p.Grid
	}
	// Chebyshev expansions fit best on their own extrema; Legendre on Gauss
	// points
	if p.Kind == basis.Chebyshev {
		return basis.ChebyshevExtremaGrid
	}
	return basis.GaussLegendreGrid
}

func (p Params) gridRes() int {
	if p.GridRes > 0 {
		return p.GridRes
	}
	return p.Degree + 2
}

func (p Params) condWarnThreshold() float64 {
	if p.CondWarnThreshold > 0 {
		return p.CondWarnThreshold
	}
	return DefaultCondWarnThreshold
}

// ApproximationFailure reports an unusable fit: a degenerate least squares
// system, non-finite samples, or a grid that underdetermines the basis.
type ApproximationFailure struct {
	Degree int
	Reason string
	Err    error
}

func (e *ApproximationFailure) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("approximation failure at degree %d: %s: %v", e.Degree, e.Reason, e.Err)
	}
	return fmt.Sprintf("approximation failure at degree %d: %s", e.Degree, e.Reason)
}

func (e *ApproximationFailure) Unwrap() error { return e.Err }

// Surrogate is a fitted polynomial approximant over a Domain, with its fit
// diagnostics. Immutable once built.
type Surrogate struct {
	Kind       basis.Kind
	Truncation basis.Truncation
	Degree     int
	Indices    [][]int
	Coeffs     []float64
	Dom        Domain

	GridRule    basis.Grid
	GridRes     int
	NumSamples  int
	ResidualL2  float64 // RMS residual over the fit grid
	ResidualInf float64
	Cond        float64
	CondWarning bool
}

func (s *Surrogate) NumTerms() int { return len(s.Coeffs) }

// EvaluateNormalized evaluates the surrogate at a point of [-1,1]^dim
func (s *Surrogate) EvaluateNormalized(u []float64) float64 {
	return basis.EvalPoint(s.Kind, s.Indices, s.Coeffs, u)
}

// Evaluate evaluates the surrogate at a point in original coordinates
func (s *Surrogate) Evaluate(x []float64) float64 {
	return s.EvaluateNormalized(s.Dom.Normalize(x))
}

// Approximate samples obj over a tensor grid on dom and fits the expansion by
// least squares. The sampling loop honors ctx cancellation between grid rows.
func Approximate(ctx context.Context, obj Objective, dom Domain, p Params) (s *Surrogate, err error) {
	var (
		dim = dom.Dim()
	)
	if obj.Dim() != dim {
		err = fmt.Errorf("objective dimension %d does not match domain dimension %d", obj.Dim(), dim)
		return
	}
	if p.Degree < 1 {
		err = fmt.Errorf("degree must be at least 1, got %d", p.Degree)
		return
	}

	indices := basis.Indices(p.Truncation, dim, p.Degree)
	res := p.gridRes()
	rule := p.gridRule()

	nodes1D := make([][]float64, dim)
	for k := 0; k < dim; k++ {
		nodes1D[k] = basis.Nodes1D(rule, res)
	}
	U := basis.TensorGrid(nodes1D)
	nPts, _ := U.Dims()
	if nPts < len(indices) {
		err = &ApproximationFailure{
			Degree: p.Degree,
			Reason: fmt.Sprintf("grid underdetermines basis: %d samples for %d basis functions", nPts, len(indices)),
		}
		return
	}

	// Sample the objective over the grid
	F := utils.NewMatrix(nPts, 1)
	u := make([]float64, dim)
	for i := 0; i < nPts; i++ {
		if cerr := ctx.Err(); cerr != nil {
			err = cerr
			return
		}
		for k := 0; k < dim; k++ {
			u[k] = U.At(i, k)
		}
		val := obj.Eval(dom.Denormalize(u))
		if math.IsNaN(val) || math.IsInf(val, 0) {
			err = &ApproximationFailure{
				Degree: p.Degree,
				Reason: fmt.Sprintf("objective returned non-finite value %v at grid point %d", val, i),
			}
			return
		}
		F.Set(i, 0, val)
	}

	V := basis.DesignMatrix(p.Kind, indices, U)
	cond := V.ConditionNumber()

	C, lsErr := V.LeastSquares(F)
	if lsErr != nil {
		err = &ApproximationFailure{
			Degree: p.Degree,
			Reason: "least squares fit failed",
			Err:    lsErr,
		}
		return
	}

	// Residuals on the fit grid
	R := V.Mul(C).Subtract(F)
	var sum float64
	for _, r := range R.Data() {
		sum += r * r
	}
	l2 := math.Sqrt(sum / float64(nPts))
	linf := R.Copy().Apply(math.Abs).Max()

	s = &Surrogate{
		Kind:        p.Kind,
		Truncation:  p.Truncation,
		Degree:      p.Degree,
		Indices:     indices,
		Coeffs:      append([]float64{}, C.Data()...),
		Dom:         dom,
		GridRule:    rule,
		GridRes:     res,
		NumSamples:  nPts,
		ResidualL2:  l2,
		ResidualInf: linf,
		Cond:        cond,
		CondWarning: cond >= p.condWarnThreshold(),
	}
	return
}

// VerifyOnGrid evaluates the residual against obj on an independent equispaced
// grid with res points per dimension
func (s *Surrogate) VerifyOnGrid(obj Objective, res int) (l2, linf float64) {
	var (
		dim = s.Dom.Dim()
	)
	nodes1D := make([][]float64, dim)
	for k := 0; k < dim; k++ {
		nodes1D[k] = utils.Linspace(-1, 1, res)
	}
	U := basis.TensorGrid(nodes1D)
	nPts, _ := U.Dims()
	u := make([]float64, dim)
	var sum float64
	for i := 0; i < nPts; i++ {
		for k := 0; k < dim; k++ {
			u[k] = U.At(i, k)
		}
		r := s.EvaluateNormalized(u) - obj.Eval(s.Dom.Denormalize(u))
		sum += r * r
		if math.Abs(r) > linf {
			linf = math.Abs(r)
		}
	}
	l2 = math.Sqrt(sum / float64(nPts))
	return
}
