package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

type Matrix struct {
	M *mat.Dense
}

func NewMatrix(nr, nc int, dataO ...[]float64) (R Matrix) {
	var m *mat.Dense
	if len(dataO) != 0 {
		if len(dataO[0]) != nr*nc {
			err := fmt.Errorf("mismatch in allocation: NewMatrix nr,nc = %v,%v, len(data[0]) = %v\n", nr, nc, len(dataO[0]))
			panic(err)
		}
		m = mat.NewDense(nr, nc, dataO[0])
	} else {
		m = mat.NewDense(nr, nc, make([]float64, nr*nc))
	}
	R = Matrix{m}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m Matrix) Dims() (r, c int)          { return m.M.Dims() }
func (m Matrix) At(i, j int) float64       { return m.M.At(i, j) }
func (m Matrix) T() mat.Matrix             { return m.M.T() }
func (m Matrix) RawMatrix() blas64.General { return m.M.RawMatrix() }
func (m Matrix) Data() []float64           { return m.RawMatrix().Data }

func (m Matrix) Copy() (R Matrix) { // Does not change receiver
	var (
		data   = m.RawMatrix().Data
		nr, nc = m.Dims()
		dataR  = make([]float64, nr*nc)
	)
	copy(dataR, data)
	R = NewMatrix(nr, nc, dataR)
	return
}

func (m Matrix) Transpose() (R Matrix) { // Does not change receiver
	var (
		nr, nc = m.Dims()
		data   = m.RawMatrix().Data
	)
	R = NewMatrix(nc, nr)
	dataR := R.RawMatrix().Data
	for j := 0; j < nc; j++ {
		for i := 0; i < nr; i++ {
			dataR[j*nr+i] = data[i*nc+j]
		}
	}
	return
}

func (m Matrix) Mul(A Matrix) (R Matrix) { // Does not change receiver
	var (
		nrM, _ = m.M.Dims()
		_, ncA = A.M.Dims()
	)
	R = NewMatrix(nrM, ncA)
	R.M.Mul(m.M, A.M)
	return R
}

func (m Matrix) MulVec(v Vector) (R Vector) { // Does not change receiver
	var (
		nr, _ = m.Dims()
	)
	R = NewVector(nr)
	R.V.MulVec(m.M, v.V)
	return
}

func (m Matrix) Set(i, j int, val float64) Matrix { // Changes receiver
	m.M.Set(i, j, val)
	return m
}

func (m Matrix) SetRow(i int, data []float64) Matrix { // Changes receiver
	m.M.SetRow(i, data)
	return m
}

func (m Matrix) SetCol(j int, data []float64) Matrix { // Changes receiver
	m.M.SetCol(j, data)
	return m
}

func (m Matrix) Add(A Matrix) Matrix { // Changes receiver
	var (
		data  = m.RawMatrix().Data
		dataA = A.RawMatrix().Data
	)
	for i, val := range dataA {
		data[i] += val
	}
	return m
}

func (m Matrix) Subtract(A Matrix) Matrix { // Changes receiver
	var (
		data  = m.RawMatrix().Data
		dataA = A.RawMatrix().Data
	)
	for i, val := range dataA {
		data[i] -= val
	}
	return m
}

func (m Matrix) Scale(a float64) Matrix { // Changes receiver
	var (
		data = m.RawMatrix().Data
	)
	for i := range data {
		data[i] *= a
	}
	return m
}

func (m Matrix) Apply(f func(float64) float64) Matrix { // Changes receiver
	var (
		data = m.RawMatrix().Data
	)
	for i, val := range data {
		data[i] = f(val)
	}
	return m
}

func (m Matrix) POW(p int) Matrix { // Changes receiver
	var (
		data = m.RawMatrix().Data
	)
	for i, val := range data {
		data[i] = POW(val, p)
	}
	return m
}

func (m Matrix) Col(j int) (V Vector) {
	var (
		nr, nc = m.Dims()
		data   = m.RawMatrix().Data
		vData  = make([]float64, nr)
	)
	for i := range vData {
		vData[i] = data[i*nc+j]
	}
	V = NewVector(nr, vData)
	return
}

func (m Matrix) Row(i int) (V Vector) {
	var (
		_, nc = m.Dims()
		data  = m.RawMatrix().Data
		vData = make([]float64, nc)
	)
	copy(vData, data[i*nc:(i+1)*nc])
	V = NewVector(nc, vData)
	return
}

func (m Matrix) Min() (min float64) {
	var (
		data = m.RawMatrix().Data
	)
	min = data[0]
	for _, val := range data {
		if val < min {
			min = val
		}
	}
	return
}

func (m Matrix) Max() (max float64) {
	var (
		data = m.RawMatrix().Data
	)
	max = data[0]
	for _, val := range data {
		if val > max {
			max = val
		}
	}
	return
}

func (m Matrix) Print(msgO ...string) (o string) {
	var (
		label string
	)
	if len(msgO) != 0 {
		label = msgO[0]
	}
	o = fmt.Sprintf("%s = \n%v\n", label, mat.Formatted(m.M, mat.Squeeze()))
	return
}

// ConditionNumber is the ratio of the largest to smallest singular value
func (m Matrix) ConditionNumber() float64 {
	var svd mat.SVD
	if !svd.Factorize(m.M, mat.SVDThin) {
		// If SVD fails, return a large number indicating poor conditioning
		return 1e16
	}
	values := svd.Values(nil)
	if len(values) == 0 {
		return 1e16
	}
	minVal := values[len(values)-1] // Singular values are in descending order
	maxVal := values[0]
	if minVal < 1e-16 {
		return 1e16
	}
	return maxVal / minVal
}

// LeastSquares solves the overdetermined system m*X = B for X using QR,
// minimizing the Euclidean norm of the residual columnwise
func (m Matrix) LeastSquares(B Matrix) (X Matrix, err error) {
	var (
		qr     mat.QR
		_, nc  = m.Dims()
		_, ncB = B.Dims()
	)
	nrB, _ := B.Dims()
	nrM, _ := m.Dims()
	if nrM != nrB {
		err = fmt.Errorf("dimension mismatch in least squares: %d rows vs %d rhs rows", nrM, nrB)
		return
	}
	qr.Factorize(m.M)
	X = NewMatrix(nc, ncB)
	if err = qr.SolveTo(X.M, false, B.M); err != nil {
		err = fmt.Errorf("least squares solve failed: %w", err)
		return
	}
	if IsNan(X) {
		err = fmt.Errorf("least squares solve produced non-finite values")
		return
	}
	return
}

func (m Matrix) InfNorm() (norm float64) {
	var (
		data = m.RawMatrix().Data
	)
	for _, val := range data {
		if math.Abs(val) > norm {
			norm = math.Abs(val)
		}
	}
	return
}
