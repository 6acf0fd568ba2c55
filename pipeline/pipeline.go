package pipeline

import (
	"time"

	"go.uber.org/zap"

	"github.com/notargets/gocrit/basis"
	"github.com/notargets/gocrit/classify"
	"github.com/notargets/gocrit/cluster"
	"github.com/notargets/gocrit/homotopy"
	"github.com/notargets/gocrit/refine"
	"github.com/notargets/gocrit/surrogate"
)

const (
	DefaultDegreeStart    = 2
	DefaultDegreeStep     = 2
	DefaultDegreeCap      = 10
	DefaultResidualTarget = 1.e-06
)

// Outcome grades a finished sweep.
type Outcome uint8

const (
	// OutcomeConverged means a degree met the residual target and every
	// downstream stage was clean.
	OutcomeConverged Outcome = iota
	// OutcomeConvergedWithCaveats means the residual target was met but the
	// run carries warnings: partial solves, boundary-adjacent points,
	// degenerate or failed classifications, condition warnings, or skipped
	// degrees.
	OutcomeConvergedWithCaveats
	// OutcomeDegreeCapReached means every degree was attempted and none met
	// the residual target; the table holds the last degree's points.
	OutcomeDegreeCapReached
	// OutcomeIncomplete means the sweep was cut short or its results are
	// dominated by failures.
	OutcomeIncomplete
)

func (o Outcome) String() string {
	switch o {
	case OutcomeConverged:
		return "converged"
	case OutcomeConvergedWithCaveats:
		return "converged-with-caveats"
	case OutcomeDegreeCapReached:
		return "degree-cap-reached"
	default:
		return "incomplete"
	}
}

// Row is one surviving critical point with everything the reporting
// collaborator needs.
type Row struct {
	Degree       int
	Source       int // candidate index within the producing solve
	X            []float64
	Value        float64
	GradNorm     float64
	Iterations   int
	Converged    bool
	Close        bool
	Spectral     classify.TableRow
	SpatialID    int
	ValueID      int
	NNDist       float64
	PartialSolve bool
}

// Table is the durable output of one sweep: one row per surviving point of
// the winning degree (or the last degree that solved when no degree won).
type Table struct {
	Rows []Row
}

// Stats summarizes one sweep step.
type Stats struct {
	Degree          int
	ResidualL2      float64
	ResidualInf     float64
	Cond            float64
	CondWarning     bool
	TotalPaths      int
	PathsTracked    int
	Candidates      int
	PartialSolve    bool
	Points          int
	Minima          int
	Maxima          int
	Saddles         int
	Degenerates     int
	Errors          int
	Unconverged     int
	BoundaryShare   float64
	MeanIterations  float64
	BestMinValue    float64 // NaN when no minimum survived
	BestMinX        []float64
	SpatialClusters int
	ValueClusters   int
	Elapsed         time.Duration
}

// SweepResult is everything a sweep produced.
type SweepResult struct {
	Outcome     Outcome
	FinalDegree int
	Table       Table
	Stats       []Stats
	Caveats     []string
}

// Sink receives the finished result. The core performs no file or network
// I/O itself.
type Sink interface {
	Write(res *SweepResult) error
}

// SweepContext configures a degree sweep. Zero values select the documented
// defaults throughout.
type SweepContext struct {
	Obj surrogate.Objective
	Dom surrogate.Domain

	// Degrees is the explicit degree sequence; when empty the sweep runs
	// DegreeStart..DegreeCap in DegreeStep increments.
	Degrees     []int
	DegreeStart int
	DegreeStep  int
	DegreeCap   int

	// ResidualTarget is the L2 fit residual that stops the sweep.
	ResidualTarget float64

	Kind       basis.Kind
	Truncation basis.Truncation
	Grid       basis.Grid
	GridRes    int

	Solver   homotopy.Options
	Refine   refine.Options
	Classify classify.Options
	Cluster  cluster.Options

	// Parallelism bounds the refine/classify workers and seeds the solver
	// default; 0 means NumCPU.
	Parallelism int

	// ExcludeBoundary drops candidates flagged within BoundaryTol of a face
	// before refinement.
	ExcludeBoundary bool

	Logger *zap.Logger
	Sink   Sink
}

func (sc SweepContext) degrees() (ds []int) {
	if len(sc.Degrees) > 0 {
		return sc.Degrees
	}
	var (
		start = sc.DegreeStart
		step  = sc.DegreeStep
		stop  = sc.DegreeCap
	)
	if start <= 0 {
		start = DefaultDegreeStart
	}
	if step <= 0 {
		step = DefaultDegreeStep
	}
	if stop <= 0 {
		stop = DefaultDegreeCap
	}
	if stop < start {
		stop = start
	}
	for d := start; d <= stop; d += step {
		ds = append(ds, d)
	}
	return
}

func (sc SweepContext) residualTarget() float64 {
	if sc.ResidualTarget > 0 {
		return sc.ResidualTarget
	}
	return DefaultResidualTarget
}

func (sc SweepContext) logger() *zap.Logger {
	if sc.Logger != nil {
		return sc.Logger
	}
	return zap.NewNop()
}
