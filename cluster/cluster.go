package cluster

import "math"

const (
	DefaultSpatialThreshold = 1.e-04
	DefaultValueThreshold   = 1.e-06
)

// Point is one classified critical point as the dedup stage sees it.
type Point struct {
	X     []float64
	Value float64
}

// Assignment labels one point with its spatial cluster, its independent
// function-value cluster, and the distance to its nearest neighbor over the
// whole set. NNDist is diagnostic only and is +Inf for a singleton set.
type Assignment struct {
	SpatialID int
	ValueID   int
	NNDist    float64
}

// Options control the dedup thresholds, both in original coordinates. Zero
// values select the documented defaults.
type Options struct {
	SpatialThreshold float64 // Euclidean distance for spatial merging
	ValueThreshold   float64 // |f_i - f_j| for value merging
}

func (o Options) spatialThreshold() float64 {
	if o.SpatialThreshold > 0 {
		return o.SpatialThreshold
	}
	return DefaultSpatialThreshold
}

func (o Options) valueThreshold() float64 {
	if o.ValueThreshold > 0 {
		return o.ValueThreshold
	}
	return DefaultValueThreshold
}

// unionFind merges into the lower root, so the partition is a property of
// the pair relation alone and never of visit order.
type unionFind struct {
	parent []int
}

func newUnionFind(n int) (u *unionFind) {
	u = &unionFind{parent: make([]int, n)}
	for i := range u.parent {
		u.parent[i] = i
	}
	return
}

func (u *unionFind) find(i int) int {
	for u.parent[i] != i {
		u.parent[i] = u.parent[u.parent[i]]
		i = u.parent[i]
	}
	return i
}

func (u *unionFind) union(i, j int) {
	ri, rj := u.find(i), u.find(j)
	switch {
	case ri == rj:
	case ri < rj:
		u.parent[rj] = ri
	default:
		u.parent[ri] = rj
	}
}

/*
Cluster partitions the point set twice: spatially, joining any pair closer
than SpatialThreshold, and by function value, joining any pair whose values
differ by less than ValueThreshold. Both partitions are transitive closures
of their pair relations, so chains of near-duplicates collapse into one
cluster. Ids are dense and numbered by first appearance in input order.
*/
func Cluster(points []Point, opts Options) (assignments []Assignment) {
	var (
		n       = len(points)
		spatial = newUnionFind(n)
		value   = newUnionFind(n)
		sThr    = opts.spatialThreshold()
		vThr    = opts.valueThreshold()
	)
	if n == 0 {
		return
	}
	assignments = make([]Assignment, n)
	for i := 0; i < n; i++ {
		assignments[i].NNDist = math.Inf(1)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := dist(points[i].X, points[j].X)
			if d <= sThr {
				spatial.union(i, j)
			}
			if math.Abs(points[i].Value-points[j].Value) <= vThr {
				value.union(i, j)
			}
			if d < assignments[i].NNDist {
				assignments[i].NNDist = d
			}
			if d < assignments[j].NNDist {
				assignments[j].NNDist = d
			}
		}
	}
	var (
		spatialIDs = make(map[int]int)
		valueIDs   = make(map[int]int)
	)
	for i := 0; i < n; i++ {
		r := spatial.find(i)
		if _, ok := spatialIDs[r]; !ok {
			spatialIDs[r] = len(spatialIDs)
		}
		assignments[i].SpatialID = spatialIDs[r]
		r = value.find(i)
		if _, ok := valueIDs[r]; !ok {
			valueIDs[r] = len(valueIDs)
		}
		assignments[i].ValueID = valueIDs[r]
	}
	return
}

func dist(a, b []float64) (d float64) {
	for k := range a {
		dd := a[k] - b[k]
		d += dd * dd
	}
	d = math.Sqrt(d)
	return
}
