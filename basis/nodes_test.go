package basis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGaussQuadrature(t *testing.T) {
	// Weights sum to the interval measure and integrate x^2 exactly
	{
		for N := 1; N < 12; N++ {
			X, W := JacobiGQ(0, 0, N)
			var wsum, x2 float64
			for i := 0; i < X.Len(); i++ {
				wsum += W.AtVec(i)
				x2 += W.AtVec(i) * X.AtVec(i) * X.AtVec(i)
			}
			assert.True(t, near(2, wsum))
			assert.True(t, near(2./3., x2))
		}
	}
	// Known low order Gauss-Legendre roots
	{
		nodes := GaussLegendreNodes(2)
		assert.True(t, near(-1/math.Sqrt(3), nodes[0]))
		assert.True(t, near(1/math.Sqrt(3), nodes[1]))

		nodes = GaussLegendreNodes(3)
		assert.True(t, near(-math.Sqrt(3./5.), nodes[0]))
		assert.True(t, near(0, nodes[1]))
		assert.True(t, near(math.Sqrt(3./5.), nodes[2]))
	}
}

func TestNodeRules(t *testing.T) {
	// Chebyshev extrema are -cos(j pi/(n-1)) with exact endpoints
	{
		nodes := ChebyshevExtrema(5)
		want := []float64{-1, -math.Sqrt2 / 2, 0, math.Sqrt2 / 2, 1}
		for i := range want {
			assert.True(t, near(want[i], nodes[i]))
		}
		assert.Equal(t, -1., nodes[0])
		assert.Equal(t, 1., nodes[4])
	}
	// All rules are ascending and interior to [-1,1]
	{
		for _, rule := range []Grid{ChebyshevExtremaGrid, GaussLegendreGrid, EquispacedGrid} {
			nodes := Nodes1D(rule, 7)
			assert.Equal(t, 7, len(nodes))
			for i := 1; i < len(nodes); i++ {
				assert.True(t, nodes[i] > nodes[i-1])
			}
			assert.True(t, nodes[0] >= -1 && nodes[6] <= 1)
		}
	}
	// Grid parsing round trips
	{
		for _, rule := range []Grid{ChebyshevExtremaGrid, GaussLegendreGrid, EquispacedGrid} {
			parsed, err := ParseGrid(rule.String())
			assert.NoError(t, err)
			assert.Equal(t, rule, parsed)
		}
		_, err := ParseGrid("halton")
		assert.Error(t, err)
	}
}

func TestTensorGrid(t *testing.T) {
	// Last dimension varies fastest, matching TensorIndices ordering
	{
		X := TensorGrid([][]float64{{-1, 1}, {0, 0.5}})
		nr, nc := X.Dims()
		assert.Equal(t, 4, nr)
		assert.Equal(t, 2, nc)
		assert.Equal(t, []float64{
			-1, 0,
			-1, 0.5,
			1, 0,
			1, 0.5,
		}, X.Data())
	}
	// Mixed per-dimension counts
	{
		X := TensorGrid([][]float64{{-1, 0, 1}, {-0.5, 0.5}})
		nr, _ := X.Dims()
		assert.Equal(t, 6, nr)
	}
}
