package model_problems

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gocrit/classify"
	"github.com/notargets/gocrit/surrogate"
)

// TrigGrid is the separable landscape
//
//	f(x) = sum_k sin^2(pi m x_k)
//
// whose stationary points form the full grid x_k = j/(2m): minima where
// every coordinate sits at an even j, maxima at all-odd, saddles otherwise.
// Grid points with |x_k| = 1 sit exactly on the domain faces, which makes
// this the benchmark for boundary flag handling.
type TrigGrid struct {
	N    int
	Freq int
}

func NewTrigGrid(dim, freq int) *TrigGrid {
	if freq < 1 {
		freq = 1
	}
	return &TrigGrid{N: dim, Freq: freq}
}

func (tg *TrigGrid) Name() string { return "trig" }

func (tg *TrigGrid) Dim() int { return tg.N }

func (tg *TrigGrid) Domain() surrogate.Domain {
	return surrogate.NewDomainIsotropic(make([]float64, tg.N), 1)
}

func (tg *TrigGrid) Eval(x []float64) (f float64) {
	for k := 0; k < tg.N; k++ {
		s := math.Sin(math.Pi * float64(tg.Freq) * x[k])
		f += s * s
	}
	return
}

func (tg *TrigGrid) Grad(grad, x []float64) {
	w := math.Pi * float64(tg.Freq)
	for k := 0; k < tg.N; k++ {
		grad[k] = w * math.Sin(2*w*x[k])
	}
}

func (tg *TrigGrid) Hess(dst *mat.SymDense, x []float64) {
	w := math.Pi * float64(tg.Freq)
	for i := 0; i < tg.N; i++ {
		for j := i; j < tg.N; j++ {
			dst.SetSym(i, j, 0)
		}
		dst.SetSym(i, i, 2*w*w*math.Cos(2*w*x[i]))
	}
}

// KnownCriticalPoints enumerates the stationary grid. The grid has
// (4m+1)^dim points, so past a few thousand only the origin minimum is
// reported.
func (tg *TrigGrid) KnownCriticalPoints() (pts []KnownPoint) {
	var (
		m    = tg.Freq
		side = 4*m + 1
		n    = 1
	)
	for k := 0; k < tg.N; k++ {
		n *= side
		if n > 4096 {
			return []KnownPoint{{X: make([]float64, tg.N), Type: classify.Minimum}}
		}
	}
	idx := make([]int, tg.N)
	for {
		var (
			x   = make([]float64, tg.N)
			odd = 0
		)
		for k, i := range idx {
			j := i - 2*m
			x[k] = float64(j) / float64(2*m)
			if j%2 != 0 {
				odd++
			}
		}
		ty := classify.Saddle
		switch odd {
		case 0:
			ty = classify.Minimum
		case tg.N:
			ty = classify.Maximum
		}
		pts = append(pts, KnownPoint{X: x, Value: float64(odd), Type: ty})
		k := tg.N - 1
		for k >= 0 {
			idx[k]++
			if idx[k] < side {
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
