package basis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/notargets/gocrit/utils"
	"gonum.org/v1/gonum/mat"
)

// Grid selects the 1D sampling rule whose tensor product forms the fit grid.
// DefaultGrid lets the caller match the rule to the basis family.
type Grid uint8

const (
	DefaultGrid Grid = iota
	ChebyshevExtremaGrid
	GaussLegendreGrid
	EquispacedGrid
)

func (g Grid) String() string {
	switch g {
	case DefaultGrid:
		return "Default"
	case ChebyshevExtremaGrid:
		return "ChebyshevExtrema"
	case GaussLegendreGrid:
		return "GaussLegendre"
	case EquispacedGrid:
		return "Equispaced"
	}
	return "Unknown"
}

func ParseGrid(label string) (g Grid, err error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "default":
		g = DefaultGrid
	case "chebyshev", "chebyshevextrema", "extrema":
		g = ChebyshevExtremaGrid
	case "gauss", "gausslegendre", "legendre":
		g = GaussLegendreGrid
	case "equispaced", "uniform":
		g = EquispacedGrid
	default:
		err = fmt.Errorf("unknown grid rule: %s", label)
	}
	return
}

func gamma0(alpha, beta float64) float64 {
	ab1 := alpha + beta + 1.
	a1 := alpha + 1.
	b1 := beta + 1.
	return math.Gamma(a1) * math.Gamma(b1) * math.Pow(2, ab1) / ab1 / math.Gamma(ab1)
}

// JacobiGQ returns the order N Gauss quadrature points and weights for the
// Jacobi weight (1-x)^alpha (1+x)^beta via the Golub-Welsch eigenproblem on
// the symmetric tridiagonal recurrence matrix.
func JacobiGQ(alpha, beta float64, N int) (X, W utils.Vector) {
	var (
		x, w       []float64
		fac        float64
		h1, d0, d1 []float64
	)
	if N == 0 {
		x = []float64{-(alpha - beta) / (alpha + beta + 2.)}
		w = []float64{2.}
		return utils.NewVector(len(x), x), utils.NewVector(len(w), w)
	}

	h1 = make([]float64, N+1)
	for i := 0; i < N+1; i++ {
		h1[i] = 2*float64(i) + alpha + beta
	}

	// main diagonal: diag(-1/2*(alpha^2-beta^2)./(h1+2)./h1)
	d0 = make([]float64, N+1)
	fac = -.5 * (alpha*alpha - beta*beta)
	for i := 0; i < N+1; i++ {
		val := h1[i]
		d0[i] = fac / (val * (val + 2.))
	}
	// Handle division by zero
	eps := 1.e-16
	if alpha+beta < 10*eps {
		d0[0] = 0.
	}

	// 1st upper diagonal
	var ip1 float64
	d1 = make([]float64, N)
	for i := 0; i < N; i++ {
		ip1 = float64(i + 1)
		val := h1[i]
		d1[i] = 2. / (val + 2.)
		d1[i] *= math.Sqrt(ip1 * (ip1 + alpha + beta) * (ip1 + alpha) * (ip1 + beta) / ((val + 1.) * (val + 3.)))
	}

	JJ := mat.NewSymDense(N+1, nil)
	for i := 0; i < N+1; i++ {
		JJ.SetSym(i, i, d0[i])
	}
	for i := 0; i < N; i++ {
		JJ.SetSym(i, i+1, d1[i])
	}

	var eig mat.EigenSym
	ok := eig.Factorize(JJ, true)
	if !ok {
		panic("eigenvalue decomposition failed")
	}
	x = eig.Values(x)
	X = utils.NewVector(N+1, x)

	VVr := mat.NewDense(len(x), len(x), nil)
	eig.VectorsTo(VVr)
	W = utils.NewVector(len(x), append([]float64{}, VVr.RawRowView(0)...)).POW(2).Scale(gamma0(alpha, beta))
	return X, W
}

// GaussLegendreNodes returns the n roots of P_n on [-1,1] in ascending order
func GaussLegendreNodes(n int) (nodes []float64) {
	if n == 1 {
		return []float64{0}
	}
	X, _ := JacobiGQ(0, 0, n-1)
	nodes = append([]float64{}, X.Data()...)
	sort.Float64s(nodes)
	return
}

// ChebyshevExtrema returns the n Chebyshev-Lobatto points -cos(j pi/(n-1))
// on [-1,1] in ascending order
func ChebyshevExtrema(n int) (nodes []float64) {
	nodes = make([]float64, n)
	if n == 1 {
		nodes[0] = 0
		return
	}
	for j := 0; j < n; j++ {
		nodes[j] = -math.Cos(math.Pi * float64(j) / float64(n-1))
	}
	nodes[0] = -1
	nodes[n-1] = 1
	return
}

// Nodes1D returns n points of the selected rule on [-1,1] in ascending order
func Nodes1D(rule Grid, n int) (nodes []float64) {
	switch rule {
	case ChebyshevExtremaGrid:
		nodes = ChebyshevExtrema(n)
	case GaussLegendreGrid:
		nodes = GaussLegendreNodes(n)
	case EquispacedGrid:
		nodes = utils.Linspace(-1, 1, n)
	}
	return
}

// TensorGrid forms the full tensor product of the per-dimension 1D node sets.
// Rows are points, columns are dimensions, with the last dimension varying
// fastest to match TensorIndices ordering.
func TensorGrid(nodes1D [][]float64) (X utils.Matrix) {
	var (
		dim = len(nodes1D)
		n   = 1
	)
	for _, nodes := range nodes1D {
		n *= len(nodes)
	}
	X = utils.NewMatrix(n, dim)
	counters := make([]int, dim)
	for p := 0; p < n; p++ {
		for k := 0; k < dim; k++ {
			X.Set(p, k, nodes1D[k][counters[k]])
		}
		k := dim - 1
		for k >= 0 {
			counters[k]++
			if counters[k] < len(nodes1D[k]) {
				break
			}
			counters[k] = 0
			k--
		}
	}
	return
}
