package cmd

import (
	"testing"
	"time"

	"github.com/magiconair/properties/assert"

	"github.com/notargets/gocrit/InputParameters"
	"github.com/notargets/gocrit/basis"
)

func TestSweepParameters(t *testing.T) {
	var (
		err error
	)
	fileInput := []byte(`
Title: Test Case
Objective: himmelblau
Degrees: [4, 6]
ResidualTarget: 1.e-5
Basis: legendre
TimeBudget: 30s
Seed: 7
ExcludeBoundary: true
`)
	var input InputParameters.SweepParameters
	if err = input.Parse(fileInput); err != nil {
		panic(err)
	}
	assert.Equal(t, input.Objective, "himmelblau")
	assert.Equal(t, input.ResidualTarget, 1.e-5)
	assert.Equal(t, input.Degrees, []int{4, 6})
	assert.Equal(t, input.Seed, int64(7))
	input.Print()
	assert.Equal(t, input.ExcludeBoundary, true)

	sc, err := input.SweepContext()
	if err != nil {
		panic(err)
	}
	assert.Equal(t, sc.Obj.Dim(), 2)
	assert.Equal(t, sc.Kind, basis.Legendre)
	assert.Equal(t, sc.Solver.TimeBudget, 30*time.Second)
	assert.Equal(t, sc.Solver.Seed, int64(7))
	assert.Equal(t, sc.ExcludeBoundary, true)
	// Himmelblau's canonical box applies when no geometry is given
	assert.Equal(t, sc.Dom.HalfWidths, []float64{5, 5})

	// A radius in the file overrides the canonical box
	input.Radius = 3
	if sc, err = input.SweepContext(); err != nil {
		panic(err)
	}
	assert.Equal(t, sc.Dom.HalfWidths, []float64{3, 3})

	// Unknown objectives and malformed budgets surface as errors
	bad := InputParameters.SweepParameters{Objective: "perpetual-motion"}
	if _, err = bad.SweepContext(); err == nil {
		t.Fatalf("expected an unknown objective error")
	}
	bad = InputParameters.SweepParameters{Objective: "bowl", TimeBudget: "yesterday"}
	if _, err = bad.SweepContext(); err == nil {
		t.Fatalf("expected a time budget parse error")
	}
}
