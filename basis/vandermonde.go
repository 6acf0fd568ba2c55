package basis

import (
	"github.com/notargets/gocrit/utils"
)

// Vandermonde1D builds the 1D generalized Vandermonde V[i][j] = b_j(r_i) for
// the selected family
func Vandermonde1D(kind Kind, N int, R utils.Vector) (V utils.Matrix) {
	V = utils.NewMatrix(R.Len(), N+1)
	for j := 0; j < N+1; j++ {
		V.SetCol(j, Eval1D(kind, R, j))
	}
	return
}

// DesignMatrix builds the least squares design matrix over a multi-index set:
// V[p][j] = prod_k b_{alpha_j[k]}(X[p][k]), with X rows as points
func DesignMatrix(kind Kind, indices [][]int, X utils.Matrix) (V utils.Matrix) {
	var (
		nPts, dim = X.Dims()
		nB        = len(indices)
		maxN      int
	)
	for _, alpha := range indices {
		if m := MaxDegree(alpha); m > maxN {
			maxN = m
		}
	}
	// Per-dimension 1D Vandermondes, reused across all basis columns
	V1 := make([]utils.Matrix, dim)
	for k := 0; k < dim; k++ {
		V1[k] = Vandermonde1D(kind, maxN, X.Col(k))
	}
	V = utils.NewMatrix(nPts, nB)
	for j, alpha := range indices {
		for p := 0; p < nPts; p++ {
			prod := 1.
			for k := 0; k < dim; k++ {
				prod *= V1[k].At(p, alpha[k])
			}
			V.Set(p, j, prod)
		}
	}
	return
}

// EvalPoint evaluates the expansion sum_j c_j prod_k b_{alpha_j[k]}(x[k]) at a
// single point
func EvalPoint(kind Kind, indices [][]int, coeffs []float64, x []float64) (val float64) {
	var (
		dim  = len(x)
		maxN int
	)
	for _, alpha := range indices {
		if m := MaxDegree(alpha); m > maxN {
			maxN = m
		}
	}
	ords := make([][]float64, dim)
	for k := 0; k < dim; k++ {
		ords[k] = evalOrders(kind, maxN, x[k])
	}
	for j, alpha := range indices {
		term := coeffs[j]
		for k := 0; k < dim; k++ {
			term *= ords[k][alpha[k]]
		}
		val += term
	}
	return
}
