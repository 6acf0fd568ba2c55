package InputParameters

import (
	"fmt"
	"time"

	"github.com/ghodss/yaml"

	"github.com/notargets/gocrit/basis"
	"github.com/notargets/gocrit/classify"
	"github.com/notargets/gocrit/cluster"
	"github.com/notargets/gocrit/homotopy"
	"github.com/notargets/gocrit/model_problems"
	"github.com/notargets/gocrit/pipeline"
	"github.com/notargets/gocrit/refine"
	"github.com/notargets/gocrit/surrogate"
)

// Parameters obtained from the YAML input file
type SweepParameters struct {
	Title     string `yaml:"Title"`
	Objective string `yaml:"Objective"`
	Dimension int    `yaml:"Dimension"`

	// Search box; the objective's canonical box applies when all three are
	// empty. Center without a size keeps the canonical half widths.
	Center     []float64 `yaml:"Center"`
	Radius     float64   `yaml:"Radius"`
	HalfWidths []float64 `yaml:"HalfWidths"`

	Degrees        []int   `yaml:"Degrees"`
	DegreeStart    int     `yaml:"DegreeStart"`
	DegreeStep     int     `yaml:"DegreeStep"`
	DegreeCap      int     `yaml:"DegreeCap"`
	ResidualTarget float64 `yaml:"ResidualTarget"`

	Basis      string `yaml:"Basis"`      // chebyshev or legendre
	Truncation string `yaml:"Truncation"` // tensor or total
	Grid       string `yaml:"Grid"`       // default, extrema, gauss or uniform
	GridRes    int    `yaml:"GridRes"`

	RealTol     float64 `yaml:"RealTol"`
	BoundaryTol float64 `yaml:"BoundaryTol"`
	MergeTol    float64 `yaml:"MergeTol"`
	PruneTol    float64 `yaml:"PruneTol"`
	TimeBudget  string  `yaml:"TimeBudget"` // duration string, e.g. 30s
	Seed        int64   `yaml:"Seed"`

	MaxIterations int     `yaml:"MaxIterations"`
	GradTol       float64 `yaml:"GradTol"`
	Hessian       string  `yaml:"Hessian"` // auto, analytic or numeric
	ZeroTol       float64 `yaml:"ZeroTol"`

	SpatialThreshold float64 `yaml:"SpatialThreshold"`
	ValueThreshold   float64 `yaml:"ValueThreshold"`

	Parallelism     int  `yaml:"Parallelism"`
	ExcludeBoundary bool `yaml:"ExcludeBoundary"`
}

func (sp *SweepParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, sp)
}

func (sp *SweepParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", sp.Title)
	fmt.Printf("[%s]\t\t= Objective\n", sp.Objective)
	fmt.Printf("[%d]\t\t\t\t= Dimension\n", sp.Dimension)
	if len(sp.Degrees) != 0 {
		fmt.Printf("%v\t\t\t= Degrees\n", sp.Degrees)
	} else {
		fmt.Printf("[%d..%d by %d]\t\t= Degrees\n", sp.DegreeStart, sp.DegreeCap, sp.DegreeStep)
	}
	fmt.Printf("[%s]\t\t= Basis\n", sp.Basis)
	fmt.Printf("%8.2e\t\t= Residual Target\n", sp.ResidualTarget)
	fmt.Printf("[%v]\t\t\t= Exclude Boundary\n", sp.ExcludeBoundary)
}

// SweepContext materializes the parameters into a runnable pipeline context.
// Unset fields keep their pipeline defaults.
func (sp *SweepParameters) SweepContext() (sc pipeline.SweepContext, err error) {
	bench, err := model_problems.Lookup(sp.Objective, sp.Dimension)
	if err != nil {
		return
	}
	sc.Obj = bench
	if sc.Dom, err = sp.domain(bench); err != nil {
		return
	}
	if sp.Basis != "" {
		if sc.Kind, err = basis.ParseKind(sp.Basis); err != nil {
			return
		}
	}
	if sp.Truncation != "" {
		if sc.Truncation, err = basis.ParseTruncation(sp.Truncation); err != nil {
			return
		}
	}
	if sc.Grid, err = basis.ParseGrid(sp.Grid); err != nil {
		return
	}
	var hm classify.HessianMethod
	if hm, err = classify.ParseHessianMethod(sp.Hessian); err != nil {
		return
	}
	var budget time.Duration
	if sp.TimeBudget != "" {
		if budget, err = time.ParseDuration(sp.TimeBudget); err != nil {
			err = fmt.Errorf("time budget: %w", err)
			return
		}
	}
	sc.Degrees = sp.Degrees
	sc.DegreeStart = sp.DegreeStart
	sc.DegreeStep = sp.DegreeStep
	sc.DegreeCap = sp.DegreeCap
	sc.ResidualTarget = sp.ResidualTarget
	sc.GridRes = sp.GridRes
	sc.Solver = homotopy.Options{
		RealTol:     sp.RealTol,
		BoundaryTol: sp.BoundaryTol,
		MergeTol:    sp.MergeTol,
		PruneTol:    sp.PruneTol,
		TimeBudget:  budget,
		Seed:        sp.Seed,
	}
	sc.Refine = refine.Options{
		MaxIterations: sp.MaxIterations,
		GradTol:       sp.GradTol,
		BoundaryTol:   sp.BoundaryTol,
	}
	sc.Classify = classify.Options{
		HessianMethod: hm,
		ZeroTol:       sp.ZeroTol,
	}
	sc.Cluster = cluster.Options{
		SpatialThreshold: sp.SpatialThreshold,
		ValueThreshold:   sp.ValueThreshold,
	}
	sc.Parallelism = sp.Parallelism
	sc.ExcludeBoundary = sp.ExcludeBoundary
	return
}

func (sp *SweepParameters) domain(bench model_problems.Benchmark) (dom surrogate.Domain, err error) {
	center := sp.Center
	if len(center) == 0 {
		center = make([]float64, bench.Dim())
	}
	switch {
	case len(sp.HalfWidths) != 0:
		dom, err = surrogate.NewDomain(center, sp.HalfWidths)
	case sp.Radius > 0:
		h := make([]float64, len(center))
		for k := range h {
			h[k] = sp.Radius
		}
		dom, err = surrogate.NewDomain(center, h)
	case len(sp.Center) != 0:
		dom, err = surrogate.NewDomain(center, bench.Domain().HalfWidths)
	default:
		dom = bench.Domain()
	}
	return
}
