package common

import "math"

// Logical resolution shared by the clients.
const (
	BaseWidth  = 600
	BaseHeight = 500
)

func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RoundInt rounds to the nearest integer, halves away from zero.
func RoundInt(v float64) int {
	return int(math.Round(v))
}

func CeilInt(v float64) int {
	return int(math.Ceil(v))
}
