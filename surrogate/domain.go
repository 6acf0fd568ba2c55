package surrogate

import (
	"fmt"
	"math"
)

// Domain is an axis-aligned box, stored as a center with per-axis half-widths.
// All fitting and solving happens on the normalized cube [-1,1]^dim; Domain
// carries the affine map between original and normalized coordinates.
type Domain struct {
	Center     []float64
	HalfWidths []float64
}

func NewDomain(center, halfWidths []float64) (dom Domain, err error) {
	if len(center) == 0 {
		err = fmt.Errorf("domain dimension must be positive")
		return
	}
	if len(center) != len(halfWidths) {
		err = fmt.Errorf("center and half width lengths differ: %d vs %d",
			len(center), len(halfWidths))
		return
	}
	for k, h := range halfWidths {
		if !(h > 0) || math.IsInf(h, 0) {
			err = fmt.Errorf("half width %d must be positive and finite, got %v", k, h)
			return
		}
		if math.IsNaN(center[k]) || math.IsInf(center[k], 0) {
			err = fmt.Errorf("center component %d must be finite, got %v", k, center[k])
			return
		}
	}
	dom = Domain{
		Center:     append([]float64{}, center...),
		HalfWidths: append([]float64{}, halfWidths...),
	}
	return
}

// NewDomainIsotropic builds a box with the same half-width on every axis.
// Panics on invalid input; use NewDomain when the geometry comes from
// outside callers.
func NewDomainIsotropic(center []float64, radius float64) (dom Domain) {
	h := make([]float64, len(center))
	for k := range h {
		h[k] = radius
	}
	dom, err := NewDomain(center, h)
	if err != nil {
		panic(err)
	}
	return
}

func (dom Domain) Dim() int { return len(dom.Center) }

// Normalize maps a point in original coordinates onto [-1,1]^dim
func (dom Domain) Normalize(x []float64) (u []float64) {
	u = make([]float64, len(x))
	for k := range x {
		u[k] = (x[k] - dom.Center[k]) / dom.HalfWidths[k]
	}
	return
}

// Denormalize maps a point on [-1,1]^dim back to original coordinates
func (dom Domain) Denormalize(u []float64) (x []float64) {
	x = make([]float64, len(u))
	for k := range u {
		x[k] = dom.Center[k] + dom.HalfWidths[k]*u[k]
	}
	return
}

// ContainsNormalized reports whether u lies inside the cube expanded by tol
func (dom Domain) ContainsNormalized(u []float64, tol float64) bool {
	for _, v := range u {
		if math.Abs(v) > 1+tol {
			return false
		}
	}
	return true
}

// FaceDistanceNormalized is the distance from u to the nearest face of the
// cube in normalized units. Negative for points outside.
func (dom Domain) FaceDistanceNormalized(u []float64) (d float64) {
	d = math.Inf(1)
	for _, v := range u {
		if f := 1 - math.Abs(v); f < d {
			d = f
		}
	}
	return
}
