package services

import (
	"math"
	"os" // want "domain package imports os - move I/O to an infrastructure adapter"
)

func Baseline() float64 {
	return math.Max(0, float64(len(os.Args)))
}
