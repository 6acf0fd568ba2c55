package homotopy

import (
	"context"
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/notargets/gocrit/surrogate"
	"github.com/notargets/gocrit/utils"
)

const (
	DefaultRealTol     = 1.e-06
	DefaultBoundaryTol = 1.e-06
	DefaultMergeTol    = 1.e-08
	DefaultPruneTol    = 1.e-12
)

// Options control the continuation solve. Zero values select the documented
// defaults.
type Options struct {
	RealTol     float64       // max |Im z_k| for a root to count as real
	BoundaryTol float64       // face proximity tolerance in normalized units
	MergeTol    float64       // Euclidean merge radius in C^n
	PruneTol    float64       // relative coefficient prune for the gradient system
	TimeBudget  time.Duration // wall clock budget, 0 for unlimited
	Parallelism int           // path tracking workers, 0 for NumCPU
	Seed        int64         // RNG seed for gamma and the start system, 0 for fixed
}

func (o Options) realTol() float64 {
	if o.RealTol > 0 {
		return o.RealTol
	}
	return DefaultRealTol
}

func (o Options) boundaryTol() float64 {
	if o.BoundaryTol > 0 {
		return o.BoundaryTol
	}
	return DefaultBoundaryTol
}

func (o Options) mergeTol() float64 {
	if o.MergeTol > 0 {
		return o.MergeTol
	}
	return DefaultMergeTol
}

func (o Options) pruneTol() float64 {
	if o.PruneTol > 0 {
		return o.PruneTol
	}
	return DefaultPruneTol
}

func (o Options) parallelism() int {
	if o.Parallelism > 0 {
		return o.Parallelism
	}
	return runtime.NumCPU()
}

func (o Options) seed() int64 {
	if o.Seed != 0 {
		return o.Seed
	}
	return 1
}

// Candidate is a real root of the surrogate gradient, reported in both
// coordinate systems.
type Candidate struct {
	X          []float64 // original coordinates
	U          []float64 // normalized coordinates on [-1,1]^n
	InDomain   bool      // within the search box up to BoundaryTol
	OnBoundary bool      // within BoundaryTol of a face
	Singular   bool      // near-singular gradient Jacobian at the root
}

// Solution is the outcome of one continuation solve.
type Solution struct {
	Candidates     []Candidate     // real roots with domain flags
	Roots          [][]complex128  // all distinct roots found, real or not
	TotalPaths     int             // Bezout count
	PathsTracked   int             // paths actually started and finished
	PathsConverged int
	PathsDiverged  int
	PathsFailed    int
	Partial        bool // budget or cancellation cut the path set short
	Elapsed        time.Duration
}

// SolverTimeout reports a solve cut short by the wall-clock budget. It is
// returned together with the partial Solution.
type SolverTimeout struct {
	Budget     time.Duration
	Elapsed    time.Duration
	PathsDone  int
	TotalPaths int
}

func (e *SolverTimeout) Error() string {
	return fmt.Sprintf("continuation budget %v exhausted after %v with %d of %d paths tracked",
		e.Budget, e.Elapsed, e.PathsDone, e.TotalPaths)
}

// Solver finds the critical points of a fitted surrogate by polynomial
// homotopy continuation on the normalized cube.
type Solver struct {
	S    *surrogate.Surrogate
	Opts Options
}

func NewSolver(s *surrogate.Surrogate, opts Options) *Solver {
	return &Solver{S: s, Opts: opts}
}

/*
Solve differentiates the surrogate, tracks every total-degree continuation
path of the resulting square polynomial system in parallel workers, merges
the endpoints and filters them down to real candidates with domain flags.

The wall clock budget and ctx are checked between paths, never inside one.
When either fires the confirmed subset is still returned: with ctx.Err() on
cancellation, with a *SolverTimeout on budget exhaustion, Partial set in both
cases.
*/
func (sv *Solver) Solve(ctx context.Context) (*Solution, error) {
	var (
		start = time.Now()
		opts  = sv.Opts
	)
	sys, err := NewGradientSystem(sv.S, opts.pruneTol())
	if err != nil {
		return nil, err
	}
	sol := &Solution{TotalPaths: sys.Bezout()}
	if sol.TotalPaths == 0 {
		// a nonzero constant gradient component has no roots
		sol.Elapsed = time.Since(start)
		return sol, nil
	}
	var (
		rng     = rand.New(rand.NewSource(opts.seed()))
		gamma   = cmplx.Exp(complex(0, 2*math.Pi*rng.Float64()))
		b       = randomStartConstants(rng, sys.Dim)
		starts  = startPoints(sys, b)
		NP      = opts.parallelism()
		total   = sol.TotalPaths
		results = make([]pathResult, total)
		done    = make([]bool, total)
	)
	if NP > total {
		NP = total
	}
	var (
		timedOut = make([]bool, NP)
		canceled = make([]bool, NP)
		pm       = utils.NewPartitionMap(NP, total)
		wg       = sync.WaitGroup{}
		tr       = &tracker{sys: sys, gamma: gamma, b: b, cfg: defaultTrackerConfig()}
	)
	for np := 0; np < NP; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			kmin, kmax := pm.GetBucketRange(np)
			for k := kmin; k < kmax; k++ {
				if ctx.Err() != nil {
					canceled[np] = true
					return
				}
				if opts.TimeBudget > 0 && time.Since(start) > opts.TimeBudget {
					timedOut[np] = true
					return
				}
				results[k] = tr.track(starts[k])
				done[k] = true
			}
		}(np)
	}
	wg.Wait()
	sv.gather(sol, results, done)
	sol.Elapsed = time.Since(start)
	for np := 0; np < NP; np++ {
		sol.Partial = sol.Partial || timedOut[np] || canceled[np]
	}
	for np := 0; np < NP; np++ {
		if canceled[np] {
			return sol, ctx.Err()
		}
	}
	if sol.Partial {
		return sol, &SolverTimeout{
			Budget:     opts.TimeBudget,
			Elapsed:    sol.Elapsed,
			PathsDone:  sol.PathsTracked,
			TotalPaths: sol.TotalPaths,
		}
	}
	return sol, nil
}

type mergedRoot struct {
	z        []complex128
	residual float64
	singular bool
}

// gather merges converged endpoints by value and derives the candidate list.
// Iteration follows path order, so the outcome does not depend on worker
// scheduling.
func (sv *Solver) gather(sol *Solution, results []pathResult, done []bool) {
	var (
		opts = sv.Opts
		reps = make([]mergedRoot, 0, len(results))
	)
	for k := range results {
		if !done[k] {
			continue
		}
		sol.PathsTracked++
		switch results[k].Status {
		case pathDiverged:
			sol.PathsDiverged++
			continue
		case pathFailed:
			sol.PathsFailed++
			continue
		}
		sol.PathsConverged++
		var (
			z     = results[k].Z
			found = false
		)
		for i := range reps {
			if utils.CDist(reps[i].z, z) <= opts.mergeTol() {
				if results[k].Residual < reps[i].residual {
					reps[i].z = z
					reps[i].residual = results[k].Residual
					reps[i].singular = results[k].Singular
				}
				found = true
				break
			}
		}
		if !found {
			reps = append(reps, mergedRoot{
				z:        z,
				residual: results[k].Residual,
				singular: results[k].Singular,
			})
		}
	}
	for _, rep := range reps {
		sol.Roots = append(sol.Roots, rep.z)
		if maxImag(rep.z) > opts.realTol() {
			continue
		}
		u := make([]float64, len(rep.z))
		for i, zi := range rep.z {
			u[i] = real(zi)
		}
		dist := sv.S.Dom.FaceDistanceNormalized(u)
		if dist < -opts.boundaryTol() {
			// real but outside the search box
			continue
		}
		sol.Candidates = append(sol.Candidates, Candidate{
			X:          sv.S.Dom.Denormalize(u),
			U:          u,
			InDomain:   dist >= 0,
			OnBoundary: math.Abs(dist) <= opts.boundaryTol(),
			Singular:   rep.singular,
		})
	}
}

// randomStartConstants draws the start system right-hand sides away from
// zero so the start roots are well separated
func randomStartConstants(rng *rand.Rand, dim int) (b []complex128) {
	b = make([]complex128, dim)
	for k := range b {
		r := 0.5 + rng.Float64()
		phi := 2 * math.Pi * rng.Float64()
		b[k] = complex(r*math.Cos(phi), r*math.Sin(phi))
	}
	return
}

// startPoints enumerates every combination of the d_k-th roots of b_k, last
// coordinate fastest
func startPoints(sys *System, b []complex128) (starts [][]complex128) {
	var (
		dim   = sys.Dim
		roots = make([][]complex128, dim)
	)
	for k := 0; k < dim; k++ {
		d := sys.Deg[k]
		r := math.Pow(cmplx.Abs(b[k]), 1/float64(d))
		phi := cmplx.Phase(b[k]) / float64(d)
		roots[k] = make([]complex128, d)
		for j := 0; j < d; j++ {
			a := phi + 2*math.Pi*float64(j)/float64(d)
			roots[k][j] = complex(r*math.Cos(a), r*math.Sin(a))
		}
	}
	starts = make([][]complex128, 0, sys.Bezout())
	idx := make([]int, dim)
	for {
		z := make([]complex128, dim)
		for k := 0; k < dim; k++ {
			z[k] = roots[k][idx[k]]
		}
		starts = append(starts, z)
		k := dim - 1
		for k >= 0 {
			idx[k]++
			if idx[k] < sys.Deg[k] {
				break
			}
			idx[k] = 0
			k--
		}
		if k < 0 {
			break
		}
	}
	return
}

func maxImag(z []complex128) (m float64) {
	for _, zi := range z {
		if im := math.Abs(imag(zi)); im > m {
			m = im
		}
	}
	return
}
