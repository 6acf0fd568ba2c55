package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrix(t *testing.T) {
	// Transpose
	{
		M := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		mNr, mNc := M.Dims()
		A := M.Transpose()
		aNr, aNc := A.Dims()
		assert.Equal(t, aNc, mNr)
		assert.Equal(t, aNr, mNc)
		assert.Equal(t, A.RawMatrix().Data, []float64{1, 4, 2, 5, 3, 6})
	}
	// Mul
	{
		M := NewMatrix(2, 2, []float64{
			1, 2,
			3, 4,
		})
		A := NewMatrix(2, 2, []float64{
			5, 6,
			7, 8,
		})
		R := M.Mul(A)
		assert.Equal(t, R.RawMatrix().Data, []float64{19, 22, 43, 50})
	}
	// MulVec
	{
		M := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		v := NewVector(3, []float64{1, 1, 1})
		R := M.MulVec(v)
		assert.Equal(t, R.Data(), []float64{6, 15})
	}
	// Col, Row, Min, Max, InfNorm
	{
		M := NewMatrix(2, 3, []float64{
			1, 2, 3,
			-4, 5, 6,
		})
		assert.Equal(t, M.Col(1).Data(), []float64{2, 5})
		assert.Equal(t, M.Row(1).Data(), []float64{-4, 5, 6})
		assert.Equal(t, -4., M.Min())
		assert.Equal(t, 6., M.Max())
		assert.Equal(t, 6., M.InfNorm())
	}
	// Chained Scale / Apply / POW / Add / Subtract
	{
		M := NewMatrix(2, 2, []float64{
			1, 2,
			3, 4,
		}).Scale(2)
		assert.Equal(t, M.Data(), []float64{2, 4, 6, 8})
		M.Apply(func(x float64) float64 { return x - 1 })
		assert.Equal(t, M.Data(), []float64{1, 3, 5, 7})
		M.POW(2)
		assert.Equal(t, M.Data(), []float64{1, 9, 25, 49})
		ones := NewMatrix(2, 2, []float64{1, 1, 1, 1})
		M.Add(ones)
		assert.Equal(t, M.Data(), []float64{2, 10, 26, 50})
		M.Subtract(ones)
		assert.Equal(t, M.Data(), []float64{1, 9, 25, 49})
	}
	// Labeled print
	{
		M := NewMatrix(2, 2, []float64{1, 2, 3, 4})
		assert.Contains(t, M.Print("M"), "M = ")
	}
}

func TestMatrixLeastSquares(t *testing.T) {
	var (
		near = func(a, b float64) bool {
			return math.Abs(a-b) < 1.e-08
		}
	)
	// Exactly determined system recovers the solution
	{
		A := NewMatrix(2, 2, []float64{
			2, 0,
			0, 4,
		})
		B := NewMatrix(2, 1, []float64{6, 8})
		X, err := A.LeastSquares(B)
		assert.NoError(t, err)
		assert.True(t, near(3, X.At(0, 0)))
		assert.True(t, near(2, X.At(1, 0)))
	}
	// Overdetermined consistent system: fit y = 1 + 2x at four points
	{
		xs := []float64{-1, 0, 1, 2}
		A := NewMatrix(4, 2)
		B := NewMatrix(4, 1)
		for i, x := range xs {
			A.Set(i, 0, 1)
			A.Set(i, 1, x)
			B.Set(i, 0, 1+2*x)
		}
		X, err := A.LeastSquares(B)
		assert.NoError(t, err)
		assert.True(t, near(1, X.At(0, 0)))
		assert.True(t, near(2, X.At(1, 0)))
	}
	// Dimension mismatch is an error
	{
		A := NewMatrix(3, 2)
		B := NewMatrix(4, 1)
		_, err := A.LeastSquares(B)
		assert.Error(t, err)
	}
}

func TestMatrixConditionNumber(t *testing.T) {
	// Identity is perfectly conditioned
	{
		M := NewMatrix(2, 2, []float64{
			1, 0,
			0, 1,
		})
		assert.InDelta(t, 1., M.ConditionNumber(), 1.e-12)
	}
	// Diagonal scaling sets the condition number directly
	{
		M := NewMatrix(2, 2, []float64{
			100, 0,
			0, 0.01,
		})
		assert.InDelta(t, 1.e4, M.ConditionNumber(), 1.e-6)
	}
	// Rank deficient reports the poor conditioning sentinel
	{
		M := NewMatrix(2, 2, []float64{
			1, 2,
			2, 4,
		})
		assert.Equal(t, 1.e16, M.ConditionNumber())
	}
}
