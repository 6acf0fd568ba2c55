package pipeline

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/notargets/gocrit/homotopy"
	"github.com/notargets/gocrit/surrogate"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

type recordSink struct {
	res *SweepResult
}

func (rs *recordSink) Write(res *SweepResult) error {
	rs.res = res
	return nil
}

type failSink struct{}

func (failSink) Write(*SweepResult) error { return fmt.Errorf("disk full") }

func bowl() surrogate.Func {
	return surrogate.Func{N: 2, F: func(x []float64) float64 {
		dx, dy := x[0]-0.3, x[1]+0.1
		return dx*dx + 2*dy*dy
	}}
}

func TestSweep(t *testing.T) {
	defer goleak.VerifyNone(t)
	dom := surrogate.NewDomainIsotropic([]float64{0, 0}, 2)
	{ // a quadratic wins at the first degree with a clean table
		sink := &recordSink{}
		res, err := RunSweep(context.Background(), SweepContext{
			Obj: bowl(), Dom: dom, Sink: sink,
		})
		assert.NoError(t, err)
		assert.Equal(t, OutcomeConverged, res.Outcome)
		assert.Equal(t, 2, res.FinalDegree)
		assert.Equal(t, 1, len(res.Stats))
		assert.Equal(t, 1, len(res.Table.Rows))
		row := res.Table.Rows[0]
		assert.Equal(t, 2, row.Degree)
		assert.InDelta(t, 0.3, row.X[0], 1.e-6)
		assert.InDelta(t, -0.1, row.X[1], 1.e-6)
		assert.InDelta(t, 0, row.Value, 1.e-10)
		assert.True(t, row.Converged)
		assert.False(t, row.Close)
		assert.False(t, row.PartialSolve)
		assert.Equal(t, "minimum", row.Spectral.Type)
		assert.Equal(t, 0, row.SpatialID)
		assert.Equal(t, 0, row.ValueID)
		assert.True(t, math.IsInf(row.NNDist, 1))
		st := res.Stats[0]
		assert.Equal(t, 1, st.TotalPaths)
		assert.Equal(t, 1, st.Candidates)
		assert.Equal(t, 1, st.Points)
		assert.Equal(t, 1, st.Minima)
		assert.Equal(t, 0, st.Saddles)
		assert.Equal(t, 0, st.Unconverged)
		assert.InDelta(t, 0, st.BestMinValue, 1.e-10)
		assert.InDelta(t, 0.3, st.BestMinX[0], 1.e-6)
		assert.Equal(t, 1, st.SpatialClusters)
		assert.Equal(t, 1, st.ValueClusters)
		assert.Empty(t, res.Caveats)
		assert.Same(t, res, sink.res)
	}
	{ // a double well surfaces two minima and the separating saddle
		dw := surrogate.Func{N: 2, F: func(x []float64) float64 {
			q := x[0]*x[0] - 1
			return q*q + x[1]*x[1]
		}}
		res, err := RunSweep(context.Background(), SweepContext{
			Obj: dw, Dom: dom, Degrees: []int{4},
		})
		assert.NoError(t, err)
		assert.Equal(t, OutcomeConverged, res.Outcome)
		assert.Equal(t, 4, res.FinalDegree)
		assert.Equal(t, 3, len(res.Table.Rows))
		st := res.Stats[0]
		assert.Equal(t, 3, st.TotalPaths)
		assert.Equal(t, 2, st.Minima)
		assert.Equal(t, 1, st.Saddles)
		assert.InDelta(t, 0, st.BestMinValue, 1.e-8)
		assert.Equal(t, 3, st.SpatialClusters)
		assert.Equal(t, 2, st.ValueClusters)
	}
	{ // an unreachable residual target walks every degree
		wavy := surrogate.Func{N: 2, F: func(x []float64) float64 {
			return math.Cos(x[0]) * math.Cos(x[1])
		}}
		res, err := RunSweep(context.Background(), SweepContext{
			Obj: wavy, Dom: dom, Degrees: []int{2, 3}, ResidualTarget: 1.e-30,
		})
		assert.NoError(t, err)
		assert.Equal(t, OutcomeDegreeCapReached, res.Outcome)
		assert.Equal(t, 3, res.FinalDegree)
		assert.Equal(t, 2, len(res.Stats))
		assert.NotEmpty(t, res.Caveats)
		for _, row := range res.Table.Rows {
			assert.Equal(t, 3, row.Degree)
		}
	}
	{ // a sink failure surfaces after the sweep itself finished
		res, err := RunSweep(context.Background(), SweepContext{
			Obj: bowl(), Dom: dom, Sink: failSink{},
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "sink")
		assert.NotNil(t, res)
		assert.Equal(t, OutcomeConverged, res.Outcome)
	}
	{ // mismatched objective and domain dimensions are rejected up front
		dom3 := surrogate.NewDomainIsotropic([]float64{0, 0, 0}, 1)
		_, err := RunSweep(context.Background(), SweepContext{Obj: bowl(), Dom: dom3})
		assert.Error(t, err)
	}
}

func TestSweepBoundaryPolicy(t *testing.T) {
	shifted := surrogate.Func{N: 2, F: func(x []float64) float64 {
		dx := x[0] - 1
		return dx*dx + x[1]*x[1]
	}}
	dom := surrogate.NewDomainIsotropic([]float64{0, 0}, 1)
	{ // a minimum on a face is kept, flagged, and noted as a caveat
		res, err := RunSweep(context.Background(), SweepContext{Obj: shifted, Dom: dom})
		assert.NoError(t, err)
		assert.Equal(t, OutcomeConvergedWithCaveats, res.Outcome)
		assert.Equal(t, 1, len(res.Table.Rows))
		assert.True(t, res.Table.Rows[0].Close)
		assert.InDelta(t, 1, res.Table.Rows[0].X[0], 1.e-6)
		assert.NotEmpty(t, res.Caveats)
	}
	{ // and dropped before refinement when boundary points are excluded
		res, err := RunSweep(context.Background(), SweepContext{
			Obj: shifted, Dom: dom, ExcludeBoundary: true,
		})
		assert.NoError(t, err)
		assert.Equal(t, OutcomeConverged, res.Outcome)
		assert.Equal(t, 0, len(res.Table.Rows))
		assert.Equal(t, 0, res.Stats[0].Points)
		assert.Equal(t, 1, res.Stats[0].Candidates)
	}
}

func TestSweepPartialSolve(t *testing.T) {
	defer goleak.VerifyNone(t)
	dom := surrogate.NewDomainIsotropic([]float64{0, 0}, 2)
	res, err := RunSweep(context.Background(), SweepContext{
		Obj:    bowl(),
		Dom:    dom,
		Solver: homotopy.Options{TimeBudget: time.Nanosecond},
	})
	assert.NoError(t, err)
	assert.Equal(t, OutcomeConvergedWithCaveats, res.Outcome)
	assert.Equal(t, 1, len(res.Stats))
	assert.True(t, res.Stats[0].PartialSolve)
	assert.Equal(t, 0, res.Stats[0].PathsTracked)
	assert.Equal(t, 0, len(res.Table.Rows))
	assert.NotEmpty(t, res.Caveats)
}

func TestSweepCancel(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dom := surrogate.NewDomainIsotropic([]float64{0, 0}, 2)
	res, err := RunSweep(ctx, SweepContext{Obj: bowl(), Dom: dom})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotNil(t, res)
	assert.Equal(t, OutcomeIncomplete, res.Outcome)
	assert.Equal(t, 0, len(res.Stats))
}

func TestDegreeSequence(t *testing.T) {
	{ // defaults
		sc := SweepContext{}
		assert.Equal(t, []int{2, 4, 6, 8, 10}, sc.degrees())
	}
	{ // an explicit list wins over the range fields
		sc := SweepContext{Degrees: []int{3, 5}, DegreeStart: 2}
		assert.Equal(t, []int{3, 5}, sc.degrees())
	}
	{ // a start above the cap still yields one degree
		sc := SweepContext{DegreeStart: 12}
		assert.Equal(t, []int{12}, sc.degrees())
	}
	{ // custom stepping
		sc := SweepContext{DegreeStart: 3, DegreeStep: 3, DegreeCap: 9}
		assert.Equal(t, []int{3, 6, 9}, sc.degrees())
	}
}
