package basis

import (
	"math"
	"testing"

	"github.com/notargets/gocrit/utils"
	"github.com/stretchr/testify/assert"
)

func near(a, b float64) (l bool) {
	if math.Abs(a-b) < 1.e-08*math.Abs(a)+1.e-10 {
		l = true
	}
	return
}

func TestBasis1D(t *testing.T) {
	R := utils.NewVector(5, []float64{-1, -0.5, 0, 0.5, 1})
	// Chebyshev closed forms: T2 = 2x^2-1, T3 = 4x^3-3x
	{
		p2 := ChebyshevT(R, 2)
		p3 := ChebyshevT(R, 3)
		for i := 0; i < R.Len(); i++ {
			x := R.AtVec(i)
			assert.True(t, near(2*x*x-1, p2[i]))
			assert.True(t, near(4*x*x*x-3*x, p3[i]))
		}
	}
	// Chebyshev derivative: T3' = 12x^2-3
	{
		d3 := GradChebyshevT(R, 3)
		for i := 0; i < R.Len(); i++ {
			x := R.AtVec(i)
			assert.True(t, near(12*x*x-3, d3[i]))
		}
	}
	// Legendre closed forms: P2 = (3x^2-1)/2, P3 = (5x^3-3x)/2
	{
		p2 := LegendreP(R, 2)
		p3 := LegendreP(R, 3)
		for i := 0; i < R.Len(); i++ {
			x := R.AtVec(i)
			assert.True(t, near((3*x*x-1)/2, p2[i]))
			assert.True(t, near((5*x*x*x-3*x)/2, p3[i]))
		}
	}
	// Legendre derivative: P3' = (15x^2-3)/2
	{
		d3 := GradLegendreP(R, 3)
		for i := 0; i < R.Len(); i++ {
			x := R.AtVec(i)
			assert.True(t, near((15*x*x-3)/2, d3[i]))
		}
	}
	// Order zero is constant one with zero derivative
	{
		assert.Equal(t, utils.ConstArray(5, 1), ChebyshevT(R, 0))
		assert.Equal(t, make([]float64, 5), GradLegendreP(R, 0))
	}
	// Kind parsing round trips
	{
		for _, kind := range []Kind{Chebyshev, Legendre} {
			parsed, err := ParseKind(kind.String())
			assert.NoError(t, err)
			assert.Equal(t, kind, parsed)
		}
		_, err := ParseKind("hermite")
		assert.Error(t, err)
	}
}

func TestMultiIndexSets(t *testing.T) {
	// Tensor set in odometer order, last dimension fastest
	{
		indices := TensorIndices(2, 1)
		assert.Equal(t, [][]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}}, indices)
	}
	// Total degree set graded lexicographic
	{
		indices := TotalDegreeIndices(2, 2)
		assert.Equal(t, [][]int{
			{0, 0},
			{0, 1}, {1, 0},
			{0, 2}, {1, 1}, {2, 0},
		}, indices)
	}
	// Cardinalities: (deg+1)^dim and C(dim+deg, dim)
	{
		assert.Equal(t, 27, len(TensorIndices(3, 2)))
		assert.Equal(t, 10, len(TotalDegreeIndices(2, 3)))
		assert.Equal(t, 35, len(TotalDegreeIndices(3, 4)))
	}
	// Degree helpers
	{
		assert.Equal(t, 5, TotalDegree([]int{2, 0, 3}))
		assert.Equal(t, 3, MaxDegree([]int{2, 0, 3}))
	}
}

func TestDesignMatrix(t *testing.T) {
	// Each design matrix entry is the product of 1D evaluations
	{
		X := utils.NewMatrix(3, 2, []float64{
			-0.5, 0.25,
			0, -1,
			0.75, 0.5,
		})
		indices := TotalDegreeIndices(2, 3)
		V := DesignMatrix(Chebyshev, indices, X)
		nr, nc := V.Dims()
		assert.Equal(t, 3, nr)
		assert.Equal(t, len(indices), nc)
		T := func(n int, x float64) float64 {
			return evalOrders(Chebyshev, n, x)[n]
		}
		for p := 0; p < 3; p++ {
			for j, alpha := range indices {
				want := T(alpha[0], X.At(p, 0)) * T(alpha[1], X.At(p, 1))
				assert.True(t, near(want, V.At(p, j)))
			}
		}
	}
	// EvalPoint agrees with an explicit expansion
	{
		indices := [][]int{{0, 0}, {1, 0}, {0, 2}}
		coeffs := []float64{1, 2, 3}
		x := []float64{0.3, -0.6}
		// 1 + 2x + 3(2y^2-1)
		want := 1 + 2*x[0] + 3*(2*x[1]*x[1]-1)
		assert.True(t, near(want, EvalPoint(Chebyshev, indices, coeffs, x)))
	}
}
