package basis

import (
	"fmt"
	"strings"
)

// Truncation selects which multi-index set spans the surrogate space.
type Truncation uint8

const (
	TensorTruncation Truncation = iota
	TotalDegreeTruncation
)

func (tr Truncation) String() string {
	switch tr {
	case TensorTruncation:
		return "Tensor"
	case TotalDegreeTruncation:
		return "TotalDegree"
	}
	return "Unknown"
}

func ParseTruncation(label string) (tr Truncation, err error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "tensor", "full":
		tr = TensorTruncation
	case "totaldegree", "total", "graded":
		tr = TotalDegreeTruncation
	default:
		err = fmt.Errorf("unknown truncation: %s", label)
	}
	return
}

// Indices returns the multi-index set of the selected truncation
func Indices(tr Truncation, dim, deg int) (indices [][]int) {
	switch tr {
	case TensorTruncation:
		indices = TensorIndices(dim, deg)
	case TotalDegreeTruncation:
		indices = TotalDegreeIndices(dim, deg)
	}
	return
}

// TensorIndices returns all multi indices with every component at most deg, in
// odometer order with the last dimension varying fastest.
func TensorIndices(dim, deg int) (indices [][]int) {
	var (
		n = 1
	)
	for k := 0; k < dim; k++ {
		n *= deg + 1
	}
	indices = make([][]int, 0, n)
	alpha := make([]int, dim)
	for {
		indices = append(indices, append([]int{}, alpha...))
		k := dim - 1
		for k >= 0 {
			alpha[k]++
			if alpha[k] <= deg {
				break
			}
			alpha[k] = 0
			k--
		}
		if k < 0 {
			break
		}
	}
	return
}

// TotalDegreeIndices returns all multi indices whose components sum to at most
// deg, graded by total degree and lexicographic within each grade.
func TotalDegreeIndices(dim, deg int) (indices [][]int) {
	var (
		alpha = make([]int, dim)
	)
	var fill func(k, remaining int)
	fill = func(k, remaining int) {
		if k == dim-1 {
			alpha[k] = remaining
			indices = append(indices, append([]int{}, alpha...))
			return
		}
		for v := 0; v <= remaining; v++ {
			alpha[k] = v
			fill(k+1, remaining-v)
		}
	}
	for s := 0; s <= deg; s++ {
		fill(0, s)
	}
	return
}

// TotalDegree reports the sum of the components of alpha
func TotalDegree(alpha []int) (s int) {
	for _, a := range alpha {
		s += a
	}
	return
}

// MaxDegree reports the largest component of alpha
func MaxDegree(alpha []int) (m int) {
	for _, a := range alpha {
		if a > m {
			m = a
		}
	}
	return
}
