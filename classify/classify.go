package classify

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gocrit/refine"
	"github.com/notargets/gocrit/surrogate"
	"github.com/notargets/gocrit/utils"
)

const (
	DefaultZeroTol = 1.e-08
	DefaultFDStep  = 1.e-05
)

// HessianMethod selects how the Hessian is obtained.
type HessianMethod uint8

const (
	// AutoHessian uses the analytic callback when available, else central
	// finite differences.
	AutoHessian HessianMethod = iota
	// AnalyticHessian requires the objective's callback.
	AnalyticHessian
	// NumericHessian always uses central finite differences.
	NumericHessian
)

func (hm HessianMethod) String() string {
	switch hm {
	case AnalyticHessian:
		return "Analytic"
	case NumericHessian:
		return "Numeric"
	}
	return "Auto"
}

// ParseHessianMethod maps a config label onto a HessianMethod
func ParseHessianMethod(label string) (hm HessianMethod, err error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "auto":
		hm = AutoHessian
	case "analytic":
		hm = AnalyticHessian
	case "numeric", "fd":
		hm = NumericHessian
	default:
		err = fmt.Errorf("unknown hessian method: %s", label)
	}
	return
}

// Type is the spectral class of a stationary point.
type Type uint8

const (
	Minimum Type = iota
	Maximum
	Saddle
	Degenerate
	Error
)

func (ty Type) String() string {
	switch ty {
	case Minimum:
		return "minimum"
	case Maximum:
		return "maximum"
	case Saddle:
		return "saddle"
	case Degenerate:
		return "degenerate"
	default:
		return "error"
	}
}

// Spectrum carries the Hessian eigenstructure at a stationary point.
// Eigenvalues are ascending.
type Spectrum struct {
	Eigenvalues   []float64
	MinEig        float64
	MaxEig        float64
	FrobeniusNorm float64
	Cond          float64 // |λ|max / |λ|min, Inf for a singular Hessian
	Determinant   float64
	Trace         float64
	// CriticalEig is the smallest eigenvalue at a minimum and the largest at
	// a maximum, NaN otherwise
	CriticalEig float64
}

// Classification is the variant record: the Type tag is always meaningful,
// Spectrum is nil exactly when Type is Error.
type Classification struct {
	Type     Type
	Spectrum *Spectrum
}

// TableRow is the flat view of a Classification with NaN-filled numerics
// when there is no spectrum.
type TableRow struct {
	Type          string
	MinEig        float64
	MaxEig        float64
	FrobeniusNorm float64
	Cond          float64
	Determinant   float64
	Trace         float64
	CriticalEig   float64
}

func (c Classification) TableRow() (r TableRow) {
	r.Type = c.Type.String()
	if c.Spectrum == nil {
		nan := math.NaN()
		r.MinEig, r.MaxEig, r.FrobeniusNorm = nan, nan, nan
		r.Cond, r.Determinant, r.Trace, r.CriticalEig = nan, nan, nan, nan
		return
	}
	s := c.Spectrum
	r.MinEig, r.MaxEig, r.FrobeniusNorm = s.MinEig, s.MaxEig, s.FrobeniusNorm
	r.Cond, r.Determinant, r.Trace, r.CriticalEig = s.Cond, s.Determinant, s.Trace, s.CriticalEig
	return
}

// ClassifiedPoint joins the refined record with its spectral class.
type ClassifiedPoint struct {
	refine.RefinedPoint
	Classification
}

// Options control classification. Zero values select the documented defaults.
type Options struct {
	HessianMethod HessianMethod
	ZeroTol       float64 // eigenvalue zero threshold, relative to |λ|max
	FDStep        float64 // finite difference step for the numeric Hessian
}

func (o Options) zeroTol() float64 {
	if o.ZeroTol > 0 {
		return o.ZeroTol
	}
	return DefaultZeroTol
}

func (o Options) fdStep() float64 {
	if o.FDStep > 0 {
		return o.FDStep
	}
	return DefaultFDStep
}

/*
Classify grades a refined stationary point by the eigenvalue signs of the
objective Hessian: all positive is a minimum, all negative a maximum, mixed a
saddle, and any eigenvalue within ZeroTol of zero relative to the largest
magnitude makes the point degenerate. A Hessian that cannot be built or
factored yields Type Error with a nil Spectrum, never a Go error: candidate
isolation is absolute.
*/
func Classify(obj surrogate.Objective, pt refine.RefinedPoint, opts Options) (cp ClassifiedPoint) {
	cp.RefinedPoint = pt
	cp.Type = Error
	var (
		dim = obj.Dim()
		H   = mat.NewSymDense(dim, nil)
	)
	ho, analytic := obj.(surrogate.HessObjective)
	switch opts.HessianMethod {
	case AnalyticHessian:
		if !analytic {
			return
		}
		ho.Hess(H, pt.X)
	case NumericHessian:
		fd.Hessian(H, obj.Eval, pt.X, &fd.Settings{Step: opts.fdStep()})
	default:
		if analytic {
			ho.Hess(H, pt.X)
		} else {
			fd.Hessian(H, obj.Eval, pt.X, &fd.Settings{Step: opts.fdStep()})
		}
	}
	if utils.IsNan(H.RawSymmetric().Data) {
		return
	}
	var es mat.EigenSym
	if ok := es.Factorize(H, true); !ok {
		return
	}
	ev := es.Values(nil)
	s := &Spectrum{
		Eigenvalues:   ev,
		MinEig:        ev[0],
		MaxEig:        ev[dim-1],
		FrobeniusNorm: mat.Norm(H, 2),
		Determinant:   1,
		CriticalEig:   math.NaN(),
	}
	var (
		maxAbs float64
		minAbs = math.Inf(1)
	)
	for _, lam := range ev {
		s.Determinant *= lam
		s.Trace += lam
		if a := math.Abs(lam); a > maxAbs {
			maxAbs = a
		}
		if a := math.Abs(lam); a < minAbs {
			minAbs = a
		}
	}
	if minAbs == 0 {
		s.Cond = math.Inf(1)
	} else {
		s.Cond = maxAbs / minAbs
	}
	// the zero threshold scales with the spectrum but keeps an absolute
	// floor, so a numerically zero Hessian grades degenerate instead of
	// promoting rounding noise to curvature
	var (
		thr      = opts.zeroTol() * math.Max(1, maxAbs)
		pos, neg int
	)
	for _, lam := range ev {
		switch {
		case lam > thr:
			pos++
		case lam < -thr:
			neg++
		}
	}
	switch {
	case pos+neg < dim:
		cp.Type = Degenerate
	case neg == 0:
		cp.Type = Minimum
		s.CriticalEig = s.MinEig
	case pos == 0:
		cp.Type = Maximum
		s.CriticalEig = s.MaxEig
	default:
		cp.Type = Saddle
	}
	cp.Spectrum = s
	return
}
