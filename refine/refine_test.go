package refine

import (
	"math"
	"testing"

	"github.com/notargets/gocrit/homotopy"
	"github.com/notargets/gocrit/surrogate"
	"github.com/stretchr/testify/assert"
)

// bowl has its minimum at (0.3, -0.1) and provides an analytic gradient
type bowl struct{}

func (bowl) Dim() int { return 2 }

func (bowl) Eval(x []float64) float64 {
	return (x[0]-0.3)*(x[0]-0.3) + 2*(x[1]+0.1)*(x[1]+0.1)
}

func (bowl) Grad(grad, x []float64) {
	grad[0] = 2 * (x[0] - 0.3)
	grad[1] = 4 * (x[1] + 0.1)
}

// sheet is a pure saddle with an exactly zero gradient at the origin
type sheet struct{}

func (sheet) Dim() int { return 2 }

func (sheet) Eval(x []float64) float64 { return x[0]*x[0] - x[1]*x[1] }

func (sheet) Grad(grad, x []float64) {
	grad[0] = 2 * x[0]
	grad[1] = -2 * x[1]
}

func TestRefine(t *testing.T) {
	dom := surrogate.NewDomainIsotropic([]float64{0, 0}, 2)
	seed := homotopy.Candidate{X: []float64{0, 0}, U: []float64{0, 0}, InDomain: true}
	{ // finite difference gradient path converges to the bowl bottom
		obj := surrogate.Func{N: 2, F: bowl{}.Eval}
		rp := Refine(obj, dom, seed, Options{})
		assert.True(t, rp.Converged)
		assert.InDelta(t, 0.3, rp.X[0], 1.e-06)
		assert.InDelta(t, -0.1, rp.X[1], 1.e-06)
		assert.True(t, rp.GradNorm <= DefaultGradTol)
		assert.False(t, rp.Close)
		assert.True(t, rp.Iterations > 0)
	}
	{ // analytic gradient path lands tighter
		rp := Refine(bowl{}, dom, seed, Options{})
		assert.True(t, rp.Converged)
		assert.InDelta(t, 0.3, rp.X[0], 1.e-07)
		assert.InDelta(t, -0.1, rp.X[1], 1.e-07)
	}
	{ // a saddle seeded with zero gradient is accepted in place
		rp := Refine(sheet{}, dom, seed, Options{})
		assert.True(t, rp.Converged)
		assert.InDelta(t, 0, rp.X[0], 1.e-10)
		assert.InDelta(t, 0, rp.X[1], 1.e-10)
		assert.Equal(t, 0.0, rp.GradNorm)
	}
	{ // iteration cap reports non-convergence with the best point kept
		rosen := func(x []float64) float64 {
			a := 1 - x[0]
			b := x[1] - x[0]*x[0]
			return a*a + 100*b*b
		}
		capSeed := homotopy.Candidate{X: []float64{-1.2, 1}}
		rp := Refine(surrogate.Func{N: 2, F: rosen}, dom, capSeed, Options{MaxIterations: 1})
		assert.False(t, rp.Converged)
		assert.False(t, math.IsNaN(rp.Value))
		assert.True(t, rp.GradNorm > DefaultGradTol)
	}
	{ // minimum on the domain face sets the proximity flag
		edge := func(x []float64) float64 {
			return (x[0]-2)*(x[0]-2) + x[1]*x[1]
		}
		edgeSeed := homotopy.Candidate{X: []float64{1.5, 0.2}}
		rp := Refine(surrogate.Func{N: 2, F: edge}, dom, edgeSeed, Options{})
		assert.True(t, rp.Converged)
		assert.InDelta(t, 2, rp.X[0], 1.e-06)
		assert.True(t, rp.Close)
	}
	{ // pathological objective still returns a record, never an error
		bad := func(x []float64) float64 { return math.NaN() }
		rp := Refine(surrogate.Func{N: 2, F: bad}, dom, seed, Options{})
		assert.False(t, rp.Converged)
		assert.True(t, math.IsNaN(rp.Value))
		assert.Equal(t, seed.X, rp.X)
	}
}
