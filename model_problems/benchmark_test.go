package model_problems

import (
	"testing"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gocrit/classify"
	"github.com/notargets/gocrit/refine"
	"github.com/notargets/gocrit/surrogate"
	"github.com/stretchr/testify/assert"
)

func TestBenchmarkCatalogs(t *testing.T) {
	for _, name := range Names() {
		b, err := Lookup(name, 0)
		assert.NoError(t, err)
		assert.Equal(t, name, b.Name())
		for _, kp := range b.KnownCriticalPoints() {
			assert.Equal(t, b.Dim(), len(kp.X))
			// catalog points are stationary and carry their listed value
			grad := make([]float64, b.Dim())
			b.(surrogate.GradObjective).Grad(grad, kp.X)
			for k := range grad {
				assert.InDelta(t, 0, grad[k], 1.e-03)
			}
			assert.InDelta(t, kp.Value, b.Eval(kp.X), 1.e-03)
			// spectral grading agrees with the catalog type
			cp := classify.Classify(b, refine.RefinedPoint{X: kp.X}, classify.Options{})
			assert.Equal(t, kp.Type, cp.Type)
		}
	}
}

func TestBenchmarkGradients(t *testing.T) {
	for _, name := range Names() {
		b, err := Lookup(name, 0)
		assert.NoError(t, err)
		var (
			dim   = b.Dim()
			probe = make([]float64, dim)
			got   = make([]float64, dim)
			want  = make([]float64, dim)
		)
		for k := range probe {
			probe[k] = 0.3 - 0.15*float64(k)
		}
		b.(surrogate.GradObjective).Grad(got, probe)
		fd.Gradient(want, b.Eval, probe, &fd.Settings{Formula: fd.Central})
		for k := range got {
			assert.InDelta(t, want[k], got[k], 1.e-05)
		}
	}
}

func TestBenchmarkHessians(t *testing.T) {
	probe := []float64{0.4, -0.2}
	for _, name := range []string{"bowl", "saddle", "himmelblau", "rosenbrock", "trig"} {
		b, err := Lookup(name, 2)
		assert.NoError(t, err)
		var (
			got  = mat.NewSymDense(2, nil)
			want = mat.NewSymDense(2, nil)
		)
		b.(surrogate.HessObjective).Hess(got, probe)
		fd.Hessian(want, b.Eval, probe, nil)
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				assert.InDelta(t, want.At(i, j), got.At(i, j), 1.e-03)
			}
		}
	}
}

func TestLookup(t *testing.T) {
	{ // dimension handling
		b, err := Lookup("rosenbrock", 4)
		assert.NoError(t, err)
		assert.Equal(t, 4, b.Dim())
		_, err = Lookup("himmelblau", 3)
		assert.Error(t, err)
		_, err = Lookup("saddle", 1)
		assert.Error(t, err)
		_, err = Lookup("no-such-landscape", 0)
		assert.Error(t, err)
	}
	{ // trig catalog enumerates full stationary grid
		b, _ := Lookup("trig", 2)
		pts := b.KnownCriticalPoints()
		assert.Equal(t, 25, len(pts))
		var minima, maxima, saddles int
		for _, kp := range pts {
			switch kp.Type {
			case classify.Minimum:
				minima++
			case classify.Maximum:
				maxima++
			case classify.Saddle:
				saddles++
			}
		}
		assert.Equal(t, 9, minima)
		assert.Equal(t, 4, maxima)
		assert.Equal(t, 12, saddles)
	}
	{ // himmelblau minima sit at value zero
		b, _ := Lookup("himmelblau", 0)
		for _, kp := range b.KnownCriticalPoints() {
			if kp.Type == classify.Minimum {
				assert.True(t, b.Eval(kp.X) < 1.e-09)
			}
		}
	}
}
