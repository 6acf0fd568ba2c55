package utils

import (
	"fmt"
	"math"
	"runtime"
)

func GetMemUsage() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	// For info on each, see: https://golang.org/pkg/runtime/#MemStats
	bToMb := func(b uint64) uint64 {
		return b / 1024 / 1024
	}
	return fmt.Sprintf("Alloc = %v MiB TotalAlloc = %v MiB Sys = %v MiB NumGC = %v",
		bToMb(m.Alloc), bToMb(m.TotalAlloc), bToMb(m.Sys), m.NumGC)
}

func IsNan(A any) bool {
	switch v := A.(type) {
	case float64:
		return math.IsNaN(v)
	case float32:
		return math.IsNaN(float64(v))
	case []float64:
		for _, f := range v {
			if math.IsNaN(f) {
				return true
			}
		}
	case complex128:
		return math.IsNaN(real(v)) || math.IsNaN(imag(v))
	case []complex128:
		for _, c := range v {
			if math.IsNaN(real(c)) || math.IsNaN(imag(c)) {
				return true
			}
		}
	case Matrix:
		return IsNan(v.Data())
	case Vector:
		return IsNan(v.Data())
	}
	return false
}
