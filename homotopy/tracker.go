package homotopy

import (
	"math/cmplx"

	"github.com/notargets/gocrit/utils"
)

type pathStatus uint8

const (
	pathConverged pathStatus = iota
	pathDiverged
	pathFailed
)

func (ps pathStatus) String() string {
	switch ps {
	case pathConverged:
		return "converged"
	case pathDiverged:
		return "diverged"
	default:
		return "failed"
	}
}

type pathResult struct {
	Z        []complex128
	Status   pathStatus
	Singular bool
	Residual float64
	Steps    int
}

type trackerConfig struct {
	InitialStep    float64
	MinStep        float64
	MaxStep        float64
	CorrectorIters int
	CorrectorTol   float64
	EndgameIters   int
	EndgameTol     float64
	DivergeCutoff  float64
	MaxSteps       int
}

func defaultTrackerConfig() trackerConfig {
	return trackerConfig{
		InitialStep:    0.05,
		MinStep:        1.e-08,
		MaxStep:        0.1,
		CorrectorIters: 3,
		CorrectorTol:   1.e-10,
		EndgameIters:   20,
		EndgameTol:     1.e-10,
		DivergeCutoff:  1.e+08,
		MaxSteps:       5000,
	}
}

/*
tracker follows one continuation path of

	H(z,t) = (1-t)*gamma*G(z) + t*F(z),  G_k(z) = z_k^d_k - b_k

from a known root of G at t=0 to a root of F at t=1. Steps use an Euler
predictor along the Davidenko direction followed by a short Newton correction
at the new t; the step size halves on corrector failure and grows again after
easy steps.
*/
type tracker struct {
	sys   *System
	gamma complex128
	b     []complex128
	cfg   trackerConfig
}

// evalG evaluates the start system and its diagonal Jacobian at z
func (tr *tracker) evalG(gv, gd []complex128, z []complex128) {
	for k := 0; k < tr.sys.Dim; k++ {
		d := tr.sys.Deg[k]
		p := znPow(z[k], d-1)
		gv[k] = p*z[k] - tr.b[k]
		gd[k] = complex(float64(d), 0) * p
	}
}

// evalH evaluates the homotopy at (z,t) into hv, reusing fv and gv as scratch
func (tr *tracker) evalH(hv, fv, gv, gd []complex128, z []complex128, t float64) {
	tr.sys.EvalInto(fv, z)
	tr.evalG(gv, gd, z)
	s := complex(1-t, 0) * tr.gamma
	ct := complex(t, 0)
	for k := range hv {
		hv[k] = s*gv[k] + ct*fv[k]
	}
}

// jacobianH builds the homotopy Jacobian at (z,t), with gd the start-system
// diagonal already evaluated at z
func (tr *tracker) jacobianH(z []complex128, t float64, gd []complex128) (J utils.CMatrix) {
	J = tr.sys.JacobianInto(z)
	s := complex(1-t, 0) * tr.gamma
	ct := complex(t, 0)
	for i := 0; i < tr.sys.Dim; i++ {
		for k := 0; k < tr.sys.Dim; k++ {
			J.M[i][k] *= ct
		}
		J.M[i][i] += s * gd[i]
	}
	return
}

func (tr *tracker) track(start []complex128) (res pathResult) {
	var (
		dim = tr.sys.Dim
		z   = append([]complex128{}, start...)
		fv  = make([]complex128, dim)
		gv  = make([]complex128, dim)
		gd  = make([]complex128, dim)
		hv  = make([]complex128, dim)
		rhs = make([]complex128, dim)
	)
	t, dt := 0.0, tr.cfg.InitialStep
	for t < 1 {
		res.Steps++
		if res.Steps > tr.cfg.MaxSteps {
			res.Status = pathFailed
			return
		}
		if utils.CNorm(z) > tr.cfg.DivergeCutoff {
			res.Status = pathDiverged
			return
		}
		if dt > 1-t {
			dt = 1 - t
		}
		// Euler predictor: J_H(z,t) zdot = gamma*G(z) - F(z)
		tr.sys.EvalInto(fv, z)
		tr.evalG(gv, gd, z)
		for k := 0; k < dim; k++ {
			rhs[k] = tr.gamma*gv[k] - fv[k]
		}
		zp := append([]complex128{}, z...)
		J := tr.jacobianH(z, t, gd)
		if err := J.LUPDecompose(); err == nil {
			if zdot, serr := J.LUPSolve(rhs); serr == nil {
				cdt := complex(dt, 0)
				for k := 0; k < dim; k++ {
					zp[k] += cdt * zdot[k]
				}
			}
		}
		// Newton corrector at t+dt
		tn := t + dt
		ok, iters := tr.correct(zp, tn, hv, fv, gv, gd)
		if !ok {
			dt /= 2
			if dt < tr.cfg.MinStep {
				res.Status = pathFailed
				return
			}
			continue
		}
		copy(z, zp)
		t = tn
		if iters <= 2 && dt < tr.cfg.MaxStep {
			dt *= 2
			if dt > tr.cfg.MaxStep {
				dt = tr.cfg.MaxStep
			}
		}
	}
	return tr.polish(z)
}

// correct runs Newton on H(.,t) in place, reporting convergence and the
// number of iterations used
func (tr *tracker) correct(z []complex128, t float64, hv, fv, gv, gd []complex128) (ok bool, iters int) {
	var (
		dim   = tr.sys.Dim
		scale = 1.0
	)
	if zn := utils.CNorm(z); zn > 1 {
		scale = zn
	}
	for iters = 1; iters <= tr.cfg.CorrectorIters; iters++ {
		tr.evalH(hv, fv, gv, gd, z, t)
		for k := 0; k < dim; k++ {
			hv[k] = -hv[k]
		}
		J := tr.jacobianH(z, t, gd)
		if err := J.LUPDecompose(); err != nil {
			return
		}
		dz, err := J.LUPSolve(hv)
		if err != nil {
			return
		}
		for k := 0; k < dim; k++ {
			z[k] += dz[k]
		}
		if utils.CNorm(dz) <= tr.cfg.CorrectorTol*scale {
			ok = true
			return
		}
	}
	return
}

// polish runs plain Newton on F at t=1 and grades the endpoint
func (tr *tracker) polish(z []complex128) (res pathResult) {
	var (
		dim = tr.sys.Dim
		fv  = make([]complex128, dim)
	)
	res.Status = pathFailed
	for it := 0; it < tr.cfg.EndgameIters; it++ {
		tr.sys.EvalInto(fv, z)
		if utils.CNorm(fv) <= tr.cfg.EndgameTol {
			res.Status = pathConverged
			break
		}
		for k := 0; k < dim; k++ {
			fv[k] = -fv[k]
		}
		J := tr.sys.JacobianInto(z)
		if err := J.LUPDecompose(); err != nil {
			res.Singular = true
			break
		}
		dz, err := J.LUPSolve(fv)
		if err != nil {
			break
		}
		for k := 0; k < dim; k++ {
			z[k] += dz[k]
		}
	}
	tr.sys.EvalInto(fv, z)
	res.Residual = utils.CNorm(fv)
	if res.Residual <= tr.cfg.EndgameTol {
		res.Status = pathConverged
	}
	if res.Status == pathConverged {
		J := tr.sys.JacobianInto(z)
		if err := J.LUPDecompose(); err != nil {
			res.Singular = true
		} else if det, derr := J.LUPDeterminant(); derr == nil && cmplx.Abs(det) < J.GetTol() {
			res.Singular = true
		}
	}
	res.Z = z
	return
}

// znPow is z**n for small non-negative n
func znPow(z complex128, n int) (p complex128) {
	p = 1
	for i := 0; i < n; i++ {
		p *= z
	}
	return
}
