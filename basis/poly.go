package basis

import (
	"math"
	"sort"

	"github.com/james-bowman/sparse"
)

// Polynomial is a multivariate polynomial in monomial form. Indices hold the
// exponent multi-index of each term, Coeffs the matching coefficient.
type Polynomial struct {
	Dim     int
	Indices [][]int
	Coeffs  []float64
}

func (P Polynomial) NumTerms() int { return len(P.Coeffs) }

func (P Polynomial) IsZero() bool {
	for _, c := range P.Coeffs {
		if c != 0 {
			return false
		}
	}
	return true
}

// Degree reports the maximum total degree over all terms
func (P Polynomial) Degree() (deg int) {
	for _, alpha := range P.Indices {
		if d := TotalDegree(alpha); d > deg {
			deg = d
		}
	}
	return
}

// DegreeIn reports the maximum exponent of variable k over all terms
func (P Polynomial) DegreeIn(k int) (deg int) {
	for _, alpha := range P.Indices {
		if alpha[k] > deg {
			deg = alpha[k]
		}
	}
	return
}

func (P Polynomial) Eval(x []float64) (val float64) {
	for j, alpha := range P.Indices {
		term := P.Coeffs[j]
		for k, a := range alpha {
			if a != 0 {
				term *= intPow(x[k], a)
			}
		}
		val += term
	}
	return
}

func (P Polynomial) EvalC(z []complex128) (val complex128) {
	for j, alpha := range P.Indices {
		term := complex(P.Coeffs[j], 0)
		for k, a := range alpha {
			for i := 0; i < a; i++ {
				term *= z[k]
			}
		}
		val += term
	}
	return
}

// Partial differentiates with respect to variable k
func (P Polynomial) Partial(k int) (D Polynomial) {
	D = Polynomial{Dim: P.Dim}
	for j, alpha := range P.Indices {
		if alpha[k] == 0 {
			continue
		}
		beta := append([]int{}, alpha...)
		beta[k]--
		D.Indices = append(D.Indices, beta)
		D.Coeffs = append(D.Coeffs, P.Coeffs[j]*float64(alpha[k]))
	}
	return
}

// Prune drops terms whose coefficient magnitude is at most tol times the
// largest coefficient magnitude
func (P Polynomial) Prune(tol float64) (Q Polynomial) {
	var maxC float64
	for _, c := range P.Coeffs {
		if math.Abs(c) > maxC {
			maxC = math.Abs(c)
		}
	}
	cut := tol * maxC
	Q = Polynomial{Dim: P.Dim}
	for j, c := range P.Coeffs {
		if math.Abs(c) > cut {
			Q.Indices = append(Q.Indices, P.Indices[j])
			Q.Coeffs = append(Q.Coeffs, c)
		}
	}
	return
}

func intPow(x float64, p int) (y float64) {
	y = 1
	for i := 0; i < p; i++ {
		y *= x
	}
	return
}

// ConversionMatrix builds the 1D change of basis C with b_n = sum_m C[n][m] x^m
// for the selected family, assembled sparse because of the parity structure
// (C[n][m] = 0 whenever n-m is odd)
func ConversionMatrix(kind Kind, N int) (C *sparse.CSR) {
	dok := sparse.NewDOK(N+1, N+1)
	// Dense scratch rows for the recurrence, copied into the DOK as built
	prev := make([]float64, N+1)
	cur := make([]float64, N+1)
	prev[0] = 1
	dok.Set(0, 0, 1)
	if N == 0 {
		C = dok.ToCSR()
		return
	}
	cur[1] = 1
	dok.Set(1, 1, 1)
	for n := 1; n < N; n++ {
		next := make([]float64, N+1)
		fn := float64(n)
		for m := 0; m <= n+1; m++ {
			var shifted float64
			if m > 0 {
				shifted = cur[m-1]
			}
			switch kind {
			case Chebyshev:
				// T_{n+1} = 2x T_n - T_{n-1}
				next[m] = 2*shifted - prev[m]
			case Legendre:
				// (n+1) P_{n+1} = (2n+1) x P_n - n P_{n-1}
				next[m] = ((2*fn+1)*shifted - fn*prev[m]) / (fn + 1)
			}
			if next[m] != 0 {
				dok.Set(n+1, m, next[m])
			}
		}
		prev, cur = cur, next
	}
	C = dok.ToCSR()
	return
}

type monoEntry struct {
	m int
	v float64
}

// conversionRows expands the CSR rows into per-order nonzero lists
func conversionRows(kind Kind, N int) (rows [][]monoEntry) {
	C := ConversionMatrix(kind, N)
	rows = make([][]monoEntry, N+1)
	C.DoNonZero(func(i, j int, v float64) {
		rows[i] = append(rows[i], monoEntry{j, v})
	})
	return
}

// ToMonomial converts an expansion over an orthogonal multi-index set into
// monomial form:
//
//	sum_alpha c_alpha prod_k b_{alpha_k}(x_k)  ->  sum_beta d_beta x^beta
//
// Terms are accumulated exactly and emitted in graded lexicographic order.
func ToMonomial(kind Kind, indices [][]int, coeffs []float64) (P Polynomial) {
	var (
		dim  int
		maxN int
	)
	if len(indices) != 0 {
		dim = len(indices[0])
	}
	for _, alpha := range indices {
		if m := MaxDegree(alpha); m > maxN {
			maxN = m
		}
	}
	rows := conversionRows(kind, maxN)

	acc := make(map[string]float64)
	beta := make([]int, dim)
	for j, alpha := range indices {
		alpha := alpha
		var expand func(k int, c float64)
		expand = func(k int, c float64) {
			if k == dim {
				acc[indexKey(beta)] += c
				return
			}
			for _, e := range rows[alpha[k]] {
				beta[k] = e.m
				expand(k+1, c*e.v)
			}
		}
		expand(0, coeffs[j])
	}

	keys := make([]string, 0, len(acc))
	for key := range acc {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		bi, bj := decodeKey(keys[i]), decodeKey(keys[j])
		si, sj := TotalDegree(bi), TotalDegree(bj)
		if si != sj {
			return si < sj
		}
		for k := range bi {
			if bi[k] != bj[k] {
				return bi[k] < bj[k]
			}
		}
		return false
	})
	P = Polynomial{Dim: dim}
	for _, key := range keys {
		if acc[key] == 0 {
			continue
		}
		P.Indices = append(P.Indices, decodeKey(key))
		P.Coeffs = append(P.Coeffs, acc[key])
	}
	return
}

func indexKey(alpha []int) string {
	b := make([]byte, len(alpha))
	for i, a := range alpha {
		b[i] = byte(a)
	}
	return string(b)
}

func decodeKey(key string) (alpha []int) {
	alpha = make([]int, len(key))
	for i := 0; i < len(key); i++ {
		alpha[i] = int(key[i])
	}
	return
}
