package model_problems

import (
	"fmt"
	"strings"

	"github.com/notargets/gocrit/classify"
	"github.com/notargets/gocrit/surrogate"
)

// KnownPoint is a critical point of a benchmark known in closed form or to
// published precision.
type KnownPoint struct {
	X     []float64
	Value float64
	Type  classify.Type
}

// Benchmark is an objective with a canonical search box and a catalog of
// known critical points. The catalog lists the documented points of
// interest, not necessarily every critical point of the landscape.
type Benchmark interface {
	surrogate.Objective
	Name() string
	Domain() surrogate.Domain
	KnownCriticalPoints() []KnownPoint
}

// Lookup builds the named benchmark. dim selects the dimension for the
// families that scale; 0 takes each problem's default.
func Lookup(name string, dim int) (b Benchmark, err error) {
	switch strings.ToLower(name) {
	case "bowl", "quadratic", "quadratic-bowl":
		if dim == 0 {
			dim = 2
		}
		b = NewQuadraticBowl(dim)
	case "saddle", "saddle-sheet":
		if dim == 0 {
			dim = 2
		}
		b, err = NewSaddleSheet(dim)
	case "himmelblau":
		if dim != 0 && dim != 2 {
			err = fmt.Errorf("himmelblau is 2D, dimension %d requested", dim)
			return
		}
		b = NewHimmelblau()
	case "rosenbrock":
		if dim == 0 {
			dim = 2
		}
		b, err = NewRosenbrock(dim)
	case "deuflhard":
		if dim != 0 && dim != 2 {
			err = fmt.Errorf("deuflhard is 2D, dimension %d requested", dim)
			return
		}
		b = NewDeuflhard()
	case "trig", "trig-grid":
		if dim == 0 {
			dim = 2
		}
		b = NewTrigGrid(dim, 1)
	default:
		err = fmt.Errorf("unknown benchmark %q", name)
	}
	return
}

// Names lists the benchmark names Lookup accepts
func Names() []string {
	return []string{"bowl", "saddle", "himmelblau", "rosenbrock", "deuflhard", "trig"}
}
