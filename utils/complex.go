package utils

import (
	"fmt"
	"math"
	"math/cmplx"
)

// CMatrix is a square dense complex matrix stored by rows, factored in place
// by LUPDecompose for repeated solves against the same factorization.
type CMatrix struct {
	M      [][]complex128
	Nr, Nc int
	P      []int // Permutation "matrix", created during an LUP decomposition, otherwise nil
	Pcount int   // count of number of pivots, used in determining sign of determinant
	tol    float64
}

func NewCMatrix(Nr, Nc int) (R CMatrix) {
	R = CMatrix{
		Nr:  Nr,
		Nc:  Nc,
		tol: 0.00000001, // Default value
	}
	R.M = make([][]complex128, Nr)
	for n := range R.M {
		R.M[n] = make([]complex128, Nc)
	}
	return R
}

func (cm CMatrix) At(i, j int) complex128 { return cm.M[i][j] }

func (cm CMatrix) Set(i, j int, val complex128) CMatrix { // Changes receiver
	cm.M[i][j] = val
	return cm
}

func (cm CMatrix) IsSquare() bool {
	return cm.Nr == cm.Nc
}

func (cm *CMatrix) LUPDecompose() (err error) {
	/*
	   Factors the current matrix into a lower [L] and upper [U] pair such that [M] = [L]x[U]

	   The matrix is factored in place, storing [L-E] and [U] in the original locations. The
	   companion method LUPSolve() can then be called repeatedly to produce solutions to:
	                                       [M] * X = B
	   Matrix M is changed, it contains a copy of both matrices L-I and U as (L-I)+U such that:
	                                       P * [M] = L * U
	*/
	var (
		imax       int
		absA, maxA float64
		N          = cm.Nr
		A          = cm.M
	)
	if !cm.IsSquare() {
		err = fmt.Errorf("matrix must be square")
		return
	}
	if len(cm.P) != 0 {
		err = fmt.Errorf("LUPDecompose already called on this matrix, which has overwritten it")
		return
	}
	cm.P = make([]int, N)
	for i := range cm.P {
		cm.P[i] = i
	}
	// counting pivots starting from N
	cm.Pcount = N
	for i := 0; i < N; i++ {
		maxA = 0.
		imax = i
		for k := i; k < N; k++ {
			absA = cmplx.Abs(A[k][i])
			if absA > maxA {
				maxA = absA
				imax = k
			}
		}
		if maxA < cm.tol {
			err = fmt.Errorf("matrix is degenerate with tolerance %8.5e", cm.tol)
			return
		}
		if imax != i {
			// pivot P
			cm.P[i], cm.P[imax] = cm.P[imax], cm.P[i] // swap
			// pivot rows of M
			A[i], A[imax] = A[imax], A[i]
			cm.Pcount++
		}
		for j := i + 1; j < N; j++ {
			A[j][i] /= A[i][i]
			for k := i + 1; k < N; k++ {
				A[j][k] -= A[j][i] * A[i][k]
			}
		}
	}
	return
}

func (cm CMatrix) LUPSolve(b []complex128) (x []complex128, err error) {
	/*
	   Provided an RHS vector b of length N, calculate X for equation:
	       [M] * X = b
	   where [M] is the decomposed matrix
	*/
	var (
		P = cm.P
		N = cm.Nr
		A = cm.M
	)
	if len(P) == 0 {
		err = fmt.Errorf("uninitialized - call LUPDecompose first")
		return
	}
	if len(b) != N {
		err = fmt.Errorf("RHS vector length %d does not match matrix dimension %d", len(b), N)
		return
	}
	x = make([]complex128, N)
	for i := 0; i < N; i++ {
		x[i] = b[P[i]]
		for k := 0; k < i; k++ {
			x[i] -= A[i][k] * x[k]
		}
	}
	for i := N - 1; i >= 0; i-- {
		for k := i + 1; k < N; k++ {
			x[i] -= A[i][k] * x[k]
		}
		x[i] /= A[i][i]
	}
	return
}

func (cm CMatrix) LUPDeterminant() (det complex128, err error) {
	var (
		N      = cm.Nr
		Pcount = cm.Pcount
		A      = cm.M
		P      = cm.P
	)
	if len(P) == 0 {
		err = fmt.Errorf("uninitialized - call LUPDecompose first")
		return
	}
	det = A[0][0]
	for i := 1; i < N; i++ {
		det *= A[i][i]
	}
	if (Pcount-N)%2 != 0 {
		det = -det
	}
	return
}

func (cm CMatrix) GetTol() (tol float64) {
	return cm.tol
}

func CNorm(v []complex128) (norm float64) {
	for _, val := range v {
		norm += real(val)*real(val) + imag(val)*imag(val)
	}
	norm = math.Sqrt(norm)
	return
}

func CDist(a, b []complex128) (dist float64) {
	for i, val := range a {
		d := val - b[i]
		dist += real(d)*real(d) + imag(d)*imag(d)
	}
	dist = math.Sqrt(dist)
	return
}
