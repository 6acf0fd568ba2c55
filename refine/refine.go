package refine

import (
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"

	"github.com/notargets/gocrit/homotopy"
	"github.com/notargets/gocrit/surrogate"
	"github.com/notargets/gocrit/utils"
)

const (
	DefaultMaxIterations = 200
	DefaultGradTol       = 1.e-08
	DefaultBoundaryTol   = 1.e-06
	DefaultFDStep        = 1.e-06
)

// Options control one refinement. Zero values select the documented defaults.
type Options struct {
	MaxIterations int
	GradTol       float64 // terminal gradient norm for convergence
	BoundaryTol   float64 // face proximity threshold in normalized units
	FDStep        float64 // central difference step without an analytic gradient
}

func (o Options) maxIterations() int {
	if o.MaxIterations > 0 {
		return o.MaxIterations
	}
	return DefaultMaxIterations
}

func (o Options) gradTol() float64 {
	if o.GradTol > 0 {
		return o.GradTol
	}
	return DefaultGradTol
}

func (o Options) boundaryTol() float64 {
	if o.BoundaryTol > 0 {
		return o.BoundaryTol
	}
	return DefaultBoundaryTol
}

func (o Options) fdStep() float64 {
	if o.FDStep > 0 {
		return o.FDStep
	}
	return DefaultFDStep
}

// RefinedPoint is the outcome of polishing one candidate against the true
// objective. Source is the index of the seeding candidate, assigned by the
// caller.
type RefinedPoint struct {
	X          []float64
	Value      float64
	GradNorm   float64 // gradient norm at the final point
	Iterations int
	Converged  bool
	Close      bool // within BoundaryTol of a domain face, or beyond it
	Source     int
}

/*
Refine polishes a candidate stationary point with BFGS on the true objective,
seeded at the candidate location. The analytic gradient is used when the
objective provides one, central finite differences otherwise.

Refinement never fails outward: when the optimizer errors or hits the
iteration cap the best point seen is still returned with Converged=false.
Convergence is judged by the gradient norm at the final point, so a candidate
that already satisfies GradTol is accepted as is. Saddle points and maxima
survive this way because the solver hands them over with a near-zero
gradient.
*/
func Refine(obj surrogate.Objective, dom surrogate.Domain, cand homotopy.Candidate, opts Options) (rp RefinedPoint) {
	var (
		x0     = append([]float64{}, cand.X...)
		gradFn func(grad, x []float64)
	)
	if g, ok := obj.(surrogate.GradObjective); ok {
		gradFn = g.Grad
	} else {
		gradFn = func(grad, x []float64) {
			fd.Gradient(grad, obj.Eval, x, &fd.Settings{
				Formula: fd.Central,
				Step:    opts.fdStep(),
			})
		}
	}
	problem := optimize.Problem{
		Func: obj.Eval,
		Grad: gradFn,
	}
	settings := &optimize.Settings{
		MajorIterations:   opts.maxIterations(),
		GradientThreshold: opts.gradTol(),
	}
	// Minimize reports the best point found even on error; the gradient norm
	// below is the sole convergence judge
	result, _ := optimize.Minimize(problem, x0, settings, &optimize.BFGS{})
	rp.X = x0
	if result != nil && result.X != nil && !utils.IsNan(result.X) {
		rp.X = result.X
		rp.Iterations = result.Stats.MajorIterations
	}
	rp.Value = obj.Eval(rp.X)
	grad := make([]float64, obj.Dim())
	gradFn(grad, rp.X)
	rp.GradNorm = floats.Norm(grad, 2)
	rp.Converged = rp.GradNorm <= opts.gradTol()
	rp.Close = dom.FaceDistanceNormalized(dom.Normalize(rp.X)) <= opts.boundaryTol()
	return
}
