package basis

import (
	"fmt"
	"strings"

	"github.com/notargets/gocrit/utils"
	"gonum.org/v1/gonum/mat"
)

// Kind selects the orthogonal polynomial family used for surrogate
// construction. Both families use their classical normalization, so
// |ChebyshevT| <= 1 on [-1,1] and LegendreP(1) = 1.
type Kind uint8

const (
	Chebyshev Kind = iota
	Legendre
)

func (k Kind) String() string {
	switch k {
	case Chebyshev:
		return "Chebyshev"
	case Legendre:
		return "Legendre"
	}
	return "Unknown"
}

func ParseKind(label string) (k Kind, err error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "chebyshev", "cheb":
		k = Chebyshev
	case "legendre", "leg":
		k = Legendre
	default:
		err = fmt.Errorf("unknown basis kind: %s", label)
	}
	return
}

// ChebyshevT evaluates T_N at the points in r using the three term recurrence
// T_{n+1} = 2x T_n - T_{n-1}
func ChebyshevT(r utils.Vector, N int) (p []float64) {
	var (
		Nc = r.Len()
	)
	if N == 0 {
		p = utils.ConstArray(Nc, 1)
		return
	}
	Np1 := N + 1
	PL := mat.NewDense(Np1, Nc, nil)
	PL.SetRow(0, utils.ConstArray(Nc, 1))
	PL.SetRow(1, r.Data())
	var xrow []float64
	for i := 1; i < N; i++ {
		xi := PL.RawRowView(i)
		xim1 := PL.RawRowView(i - 1)
		xrow = make([]float64, Nc)
		for j := range xrow {
			xrow[j] = 2*r.AtVec(j)*xi[j] - xim1[j]
		}
		PL.SetRow(i+1, xrow)
	}
	p = PL.RawRowView(N)
	return
}

// GradChebyshevT evaluates dT_N/dx at the points in r using the recurrence
// T'_{n+1} = 2 T_n + 2x T'_n - T'_{n-1}
func GradChebyshevT(r utils.Vector, N int) (p []float64) {
	var (
		Nc = r.Len()
	)
	if N == 0 {
		p = make([]float64, Nc)
		return
	}
	Np1 := N + 1
	PL := mat.NewDense(Np1, Nc, nil)
	DL := mat.NewDense(Np1, Nc, nil)
	PL.SetRow(0, utils.ConstArray(Nc, 1))
	PL.SetRow(1, r.Data())
	DL.SetRow(1, utils.ConstArray(Nc, 1))
	for i := 1; i < N; i++ {
		xi := PL.RawRowView(i)
		xim1 := PL.RawRowView(i - 1)
		di := DL.RawRowView(i)
		dim1 := DL.RawRowView(i - 1)
		xrow := make([]float64, Nc)
		drow := make([]float64, Nc)
		for j := 0; j < Nc; j++ {
			x := r.AtVec(j)
			xrow[j] = 2*x*xi[j] - xim1[j]
			drow[j] = 2*xi[j] + 2*x*di[j] - dim1[j]
		}
		PL.SetRow(i+1, xrow)
		DL.SetRow(i+1, drow)
	}
	p = DL.RawRowView(N)
	return
}

// LegendreP evaluates P_N at the points in r using the three term recurrence
// (n+1) P_{n+1} = (2n+1) x P_n - n P_{n-1}
func LegendreP(r utils.Vector, N int) (p []float64) {
	var (
		Nc = r.Len()
	)
	if N == 0 {
		p = utils.ConstArray(Nc, 1)
		return
	}
	Np1 := N + 1
	PL := mat.NewDense(Np1, Nc, nil)
	PL.SetRow(0, utils.ConstArray(Nc, 1))
	PL.SetRow(1, r.Data())
	var xrow []float64
	for i := 1; i < N; i++ {
		fi := float64(i)
		xi := PL.RawRowView(i)
		xim1 := PL.RawRowView(i - 1)
		xrow = make([]float64, Nc)
		for j := range xrow {
			xrow[j] = ((2*fi+1)*r.AtVec(j)*xi[j] - fi*xim1[j]) / (fi + 1)
		}
		PL.SetRow(i+1, xrow)
	}
	p = PL.RawRowView(N)
	return
}

// GradLegendreP evaluates dP_N/dx at the points in r using the recurrence
// P'_{n+1} = P'_{n-1} + (2n+1) P_n
func GradLegendreP(r utils.Vector, N int) (p []float64) {
	var (
		Nc = r.Len()
	)
	if N == 0 {
		p = make([]float64, Nc)
		return
	}
	Np1 := N + 1
	PL := mat.NewDense(Np1, Nc, nil)
	DL := mat.NewDense(Np1, Nc, nil)
	PL.SetRow(0, utils.ConstArray(Nc, 1))
	PL.SetRow(1, r.Data())
	DL.SetRow(1, utils.ConstArray(Nc, 1))
	for i := 1; i < N; i++ {
		fi := float64(i)
		xi := PL.RawRowView(i)
		xim1 := PL.RawRowView(i - 1)
		dim1 := DL.RawRowView(i - 1)
		xrow := make([]float64, Nc)
		drow := make([]float64, Nc)
		for j := 0; j < Nc; j++ {
			xrow[j] = ((2*fi+1)*r.AtVec(j)*xi[j] - fi*xim1[j]) / (fi + 1)
			drow[j] = dim1[j] + (2*fi+1)*xi[j]
		}
		PL.SetRow(i+1, xrow)
		DL.SetRow(i+1, drow)
	}
	p = DL.RawRowView(N)
	return
}

// Eval1D evaluates the selected family at order N over the points in r
func Eval1D(kind Kind, r utils.Vector, N int) (p []float64) {
	switch kind {
	case Chebyshev:
		p = ChebyshevT(r, N)
	case Legendre:
		p = LegendreP(r, N)
	}
	return
}

// evalOrders evaluates orders 0..N of the family at a single point
func evalOrders(kind Kind, N int, x float64) (p []float64) {
	p = make([]float64, N+1)
	p[0] = 1
	if N == 0 {
		return
	}
	p[1] = x
	for i := 1; i < N; i++ {
		switch kind {
		case Chebyshev:
			p[i+1] = 2*x*p[i] - p[i-1]
		case Legendre:
			fi := float64(i)
			p[i+1] = ((2*fi+1)*x*p[i] - fi*p[i-1]) / (fi + 1)
		}
	}
	return
}
