package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/notargets/gocrit/classify"
	"github.com/notargets/gocrit/cluster"
	"github.com/notargets/gocrit/homotopy"
	"github.com/notargets/gocrit/refine"
	"github.com/notargets/gocrit/surrogate"
	"github.com/notargets/gocrit/utils"
)

/*
RunSweep drives the whole discovery pipeline across the degree sequence:
fit a surrogate, solve its gradient system, refine and classify the
candidates in parallel, cluster the survivors, and stop at the first degree
whose fit meets the residual target.

A failed fit skips to the next degree and becomes fatal only when every
degree fails. A solver timeout keeps the confirmed subset and marks the
result partial. Context cancellation aborts the sweep with whatever stats
were gathered.
*/
func RunSweep(ctx context.Context, sc SweepContext) (*SweepResult, error) {
	if sc.Obj == nil {
		return nil, fmt.Errorf("sweep needs an objective")
	}
	if sc.Obj.Dim() != sc.Dom.Dim() {
		return nil, fmt.Errorf("objective dimension %d does not match domain dimension %d",
			sc.Obj.Dim(), sc.Dom.Dim())
	}
	var (
		log            = sc.logger()
		degrees        = sc.degrees()
		res            = &SweepResult{Outcome: OutcomeIncomplete}
		approxFailures int
		lastApproxErr  error
		won            bool
	)
	for _, d := range degrees {
		if cerr := ctx.Err(); cerr != nil {
			return res, cerr
		}
		var (
			stepStart = time.Now()
			s, err    = surrogate.Approximate(ctx, sc.Obj, sc.Dom, surrogate.Params{
				Degree:     d,
				Kind:       sc.Kind,
				Truncation: sc.Truncation,
				Grid:       sc.Grid,
				GridRes:    sc.GridRes,
			})
		)
		if err != nil {
			var af *surrogate.ApproximationFailure
			if errors.As(err, &af) {
				approxFailures++
				lastApproxErr = err
				res.Caveats = append(res.Caveats, fmt.Sprintf("degree %d: %v", d, err))
				log.Warn("Surrogate fit failed", zap.Int("degree", d), zap.Error(err))
				continue
			}
			return res, err
		}
		log.Info("Surrogate fitted",
			zap.Int("degree", d),
			zap.Int("terms", s.NumTerms()),
			zap.Int("samples", s.NumSamples),
			zap.Float64("residual_l2", s.ResidualL2),
			zap.Float64("cond", s.Cond))
		step := Stats{
			Degree:       d,
			ResidualL2:   s.ResidualL2,
			ResidualInf:  s.ResidualInf,
			Cond:         s.Cond,
			CondWarning:  s.CondWarning,
			BestMinValue: math.NaN(),
		}
		solOpts := sc.Solver
		if solOpts.Parallelism == 0 {
			solOpts.Parallelism = sc.Parallelism
		}
		sol, err := homotopy.NewSolver(s, solOpts).Solve(ctx)
		if err != nil {
			var (
				timeout    *homotopy.SolverTimeout
				degenerate *homotopy.DegenerateSystemError
			)
			switch {
			case errors.As(err, &timeout):
				step.PartialSolve = true
				res.Caveats = append(res.Caveats, fmt.Sprintf("degree %d: %v", d, err))
				log.Warn("Continuation cut short", zap.Int("degree", d), zap.Error(err))
			case errors.As(err, &degenerate):
				res.Caveats = append(res.Caveats, fmt.Sprintf("degree %d: %v", d, err))
				log.Warn("Degenerate gradient system", zap.Int("degree", d), zap.Error(err))
				step.Elapsed = time.Since(stepStart)
				res.Stats = append(res.Stats, step)
				res.FinalDegree = d
				continue
			default:
				return res, err
			}
		}
		step.TotalPaths = sol.TotalPaths
		step.PathsTracked = sol.PathsTracked
		log.Info("Continuation solved",
			zap.Int("degree", d),
			zap.Int("paths", sol.TotalPaths),
			zap.Int("tracked", sol.PathsTracked),
			zap.Int("candidates", len(sol.Candidates)),
			zap.Duration("elapsed", sol.Elapsed))
		step.Candidates = len(sol.Candidates)
		cands := keepCandidates(sol.Candidates, sc.ExcludeBoundary)
		classified := refineClassify(sc, cands)
		points := make([]cluster.Point, len(classified))
		for i, cp := range classified {
			points[i] = cluster.Point{X: cp.X, Value: cp.Value}
		}
		assignments := cluster.Cluster(points, sc.Cluster)
		res.Table = buildTable(d, classified, assignments, step.PartialSolve)
		tallyStats(&step, classified, assignments)
		step.Elapsed = time.Since(stepStart)
		res.Stats = append(res.Stats, step)
		res.FinalDegree = d
		log.Info("Step finished",
			zap.Int("degree", d),
			zap.Int("points", step.Points),
			zap.Int("minima", step.Minima),
			zap.Int("saddles", step.Saddles),
			zap.Duration("elapsed", step.Elapsed))
		if s.ResidualL2 <= sc.residualTarget() {
			won = true
			appendStepCaveats(res, step)
			switch {
			case step.Points > 0 && 2*step.Unconverged > step.Points:
				// refinement failures dominate the surviving set
				res.Outcome = OutcomeIncomplete
			case len(res.Caveats) > 0:
				res.Outcome = OutcomeConvergedWithCaveats
			default:
				res.Outcome = OutcomeConverged
			}
			break
		}
	}
	if !won {
		if approxFailures == len(degrees) {
			return res, fmt.Errorf("every degree failed to fit: %w", lastApproxErr)
		}
		res.Outcome = OutcomeDegreeCapReached
		res.Caveats = append(res.Caveats,
			fmt.Sprintf("no degree up to %d met residual target %g",
				degrees[len(degrees)-1], sc.residualTarget()))
	}
	log.Info("Sweep finished",
		zap.String("outcome", res.Outcome.String()),
		zap.Int("final_degree", res.FinalDegree),
		zap.Int("rows", len(res.Table.Rows)),
		zap.String("mem", utils.GetMemUsage()))
	if sc.Sink != nil {
		if serr := sc.Sink.Write(res); serr != nil {
			return res, fmt.Errorf("sink: %w", serr)
		}
	}
	return res, nil
}

// keepCandidates applies the boundary policy
func keepCandidates(cands []homotopy.Candidate, excludeBoundary bool) (kept []homotopy.Candidate) {
	for _, c := range cands {
		if excludeBoundary && c.OnBoundary {
			continue
		}
		kept = append(kept, c)
	}
	return
}

// refineClassify polishes and grades candidates in parallel workers, each
// writing disjoint output slots
func refineClassify(sc SweepContext, cands []homotopy.Candidate) (classified []classify.ClassifiedPoint) {
	var (
		n  = len(cands)
		NP = sc.Parallelism
	)
	if n == 0 {
		return
	}
	if NP <= 0 {
		NP = runtime.NumCPU()
	}
	if NP > n {
		NP = n
	}
	classified = make([]classify.ClassifiedPoint, n)
	var (
		pm = utils.NewPartitionMap(NP, n)
		wg = sync.WaitGroup{}
	)
	for np := 0; np < NP; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			kmin, kmax := pm.GetBucketRange(np)
			for k := kmin; k < kmax; k++ {
				rp := refine.Refine(sc.Obj, sc.Dom, cands[k], sc.Refine)
				rp.Source = k
				classified[k] = classify.Classify(sc.Obj, rp, sc.Classify)
			}
		}(np)
	}
	wg.Wait()
	return
}

func buildTable(degree int, classified []classify.ClassifiedPoint,
	assignments []cluster.Assignment, partial bool) (tb Table) {
	tb.Rows = make([]Row, len(classified))
	for i, cp := range classified {
		tb.Rows[i] = Row{
			Degree:       degree,
			Source:       cp.Source,
			X:            cp.X,
			Value:        cp.Value,
			GradNorm:     cp.GradNorm,
			Iterations:   cp.Iterations,
			Converged:    cp.Converged,
			Close:        cp.Close,
			Spectral:     cp.TableRow(),
			SpatialID:    assignments[i].SpatialID,
			ValueID:      assignments[i].ValueID,
			NNDist:       assignments[i].NNDist,
			PartialSolve: partial,
		}
	}
	return
}

func tallyStats(step *Stats, classified []classify.ClassifiedPoint,
	assignments []cluster.Assignment) {
	step.Points = len(classified)
	if step.Points == 0 {
		return
	}
	var (
		iterSum  int
		boundary int
	)
	for _, cp := range classified {
		switch cp.Type {
		case classify.Minimum:
			step.Minima++
			if math.IsNaN(step.BestMinValue) || cp.Value < step.BestMinValue {
				step.BestMinValue = cp.Value
				step.BestMinX = cp.X
			}
		case classify.Maximum:
			step.Maxima++
		case classify.Saddle:
			step.Saddles++
		case classify.Degenerate:
			step.Degenerates++
		default:
			step.Errors++
		}
		if !cp.Converged {
			step.Unconverged++
		}
		if cp.Close {
			boundary++
		}
		iterSum += cp.Iterations
	}
	step.BoundaryShare = float64(boundary) / float64(step.Points)
	step.MeanIterations = float64(iterSum) / float64(step.Points)
	for _, a := range assignments {
		if a.SpatialID+1 > step.SpatialClusters {
			step.SpatialClusters = a.SpatialID + 1
		}
		if a.ValueID+1 > step.ValueClusters {
			step.ValueClusters = a.ValueID + 1
		}
	}
}

// appendStepCaveats records the winning step's quality warnings
func appendStepCaveats(res *SweepResult, step Stats) {
	note := func(format string, args ...interface{}) {
		res.Caveats = append(res.Caveats, fmt.Sprintf(format, args...))
	}
	if step.CondWarning {
		note("degree %d: design matrix condition %.3g above warning threshold", step.Degree, step.Cond)
	}
	if step.BoundaryShare > 0 {
		note("degree %d: %.0f%% of points within boundary tolerance", step.Degree, 100*step.BoundaryShare)
	}
	if step.Degenerates > 0 {
		note("degree %d: %d degenerate classifications", step.Degree, step.Degenerates)
	}
	if step.Errors > 0 {
		note("degree %d: %d classification failures", step.Degree, step.Errors)
	}
	if step.Unconverged > 0 {
		note("degree %d: %d refinements did not converge", step.Degree, step.Unconverged)
	}
}
