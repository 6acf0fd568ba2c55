package basis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversionMatrix(t *testing.T) {
	// Chebyshev rows: T2 = -1 + 2x^2, T3 = -3x + 4x^3
	{
		C := ConversionMatrix(Chebyshev, 3)
		assert.True(t, near(-1, C.At(2, 0)))
		assert.True(t, near(2, C.At(2, 2)))
		assert.True(t, near(-3, C.At(3, 1)))
		assert.True(t, near(4, C.At(3, 3)))
		// Parity zeros
		assert.Equal(t, 0., C.At(2, 1))
		assert.Equal(t, 0., C.At(3, 0))
		assert.Equal(t, 0., C.At(3, 2))
	}
	// Legendre rows: P2 = -1/2 + 3/2 x^2, P3 = -3/2 x + 5/2 x^3
	{
		C := ConversionMatrix(Legendre, 3)
		assert.True(t, near(-0.5, C.At(2, 0)))
		assert.True(t, near(1.5, C.At(2, 2)))
		assert.True(t, near(-1.5, C.At(3, 1)))
		assert.True(t, near(2.5, C.At(3, 3)))
	}
}

func TestToMonomial(t *testing.T) {
	// 2 T2(x) T0(y) + T0 = 4x^2 - 1, graded lexicographic term order
	{
		P := ToMonomial(Chebyshev, [][]int{{0, 0}, {2, 0}}, []float64{1, 2})
		assert.Equal(t, 2, P.Dim)
		assert.Equal(t, [][]int{{0, 0}, {2, 0}}, P.Indices)
		assert.True(t, near(-1, P.Coeffs[0]))
		assert.True(t, near(4, P.Coeffs[1]))
	}
	// T1(x) T1(y) is exactly xy
	{
		P := ToMonomial(Chebyshev, [][]int{{1, 1}}, []float64{1})
		assert.Equal(t, [][]int{{1, 1}}, P.Indices)
		assert.True(t, near(1, P.Coeffs[0]))
	}
	// Conversion preserves values over the whole index set
	{
		indices := TotalDegreeIndices(2, 3)
		coeffs := make([]float64, len(indices))
		for j := range coeffs {
			coeffs[j] = 0.3*float64(j) - 1.1
		}
		for _, kind := range []Kind{Chebyshev, Legendre} {
			P := ToMonomial(kind, indices, coeffs)
			pts := [][]float64{{0, 0}, {-0.7, 0.2}, {0.5, -0.9}, {1, 1}, {-1, 0.4}}
			for _, x := range pts {
				assert.True(t, near(EvalPoint(kind, indices, coeffs, x), P.Eval(x)))
			}
		}
	}
}

func TestPolynomialOps(t *testing.T) {
	// d/dx (4x^3 - 3x) = 12x^2 - 3
	{
		P := Polynomial{
			Dim:     1,
			Indices: [][]int{{1}, {3}},
			Coeffs:  []float64{-3, 4},
		}
		D := P.Partial(0)
		for _, x := range []float64{-1, -0.3, 0, 0.8, 1} {
			assert.True(t, near(12*x*x-3, D.Eval([]float64{x})))
		}
		assert.Equal(t, 3, P.Degree())
		assert.Equal(t, 2, D.Degree())
		assert.Equal(t, 3, P.DegreeIn(0))
	}
	// Complex evaluation: x^2 + y^2 at (i, 0) is -1
	{
		P := Polynomial{
			Dim:     2,
			Indices: [][]int{{2, 0}, {0, 2}},
			Coeffs:  []float64{1, 1},
		}
		val := P.EvalC([]complex128{1i, 0})
		assert.True(t, near(-1, real(val)))
		assert.True(t, near(0, imag(val)))
	}
	// Prune drops relatively tiny terms and keeps the rest
	{
		P := Polynomial{
			Dim:     1,
			Indices: [][]int{{0}, {1}, {5}},
			Coeffs:  []float64{1, 1e-15, 2},
		}
		Q := P.Prune(1e-12)
		assert.Equal(t, 2, Q.NumTerms())
		assert.Equal(t, [][]int{{0}, {5}}, Q.Indices)
	}
	// Zero detection
	{
		P := Polynomial{Dim: 1}
		assert.True(t, P.IsZero())
		Q := Polynomial{Dim: 1, Indices: [][]int{{1}}, Coeffs: []float64{0.5}}
		assert.False(t, Q.IsZero())
	}
}
