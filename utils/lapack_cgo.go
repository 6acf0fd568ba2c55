//go:build cgo && netlib
// +build cgo,netlib

package utils

import (
	"fmt"

	"gonum.org/v1/gonum/blas/blas64"
	netblas "gonum.org/v1/netlib/blas/netlib"
)

// Building with -tags netlib routes dense BLAS calls through OpenBLAS, which
// speeds up the larger Vandermonde factorizations at high degree.
func init() {
	blas64.Use(netblas.Implementation{})
	fmt.Println("Using netlib to accelerate BLAS")
}
