package calculator

import "math"

// Slope returns the ordinary least squares slope of values against x = 0, 1, ..., n-1.
// Sequences shorter than two points have no slope and yield NaN.
func Slope(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return math.NaN()
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		return math.NaN()
	}
	return (fn*sumXY - sumX*sumY) / denom
}
