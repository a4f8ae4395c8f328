package calculator

import (
	"math"
	"testing"

	"github.com/sajari/regression"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlope_LinearSequence(t *testing.T) {
	tests := []struct {
		a, b float64
		n    int
	}{
		{0, 1, 2},
		{5, -0.25, 15},
		{-100, 3.5, 40},
		{0.0012, 0.00003, 15},
	}
	for _, tt := range tests {
		values := make([]float64, tt.n)
		for i := range values {
			values[i] = tt.a + tt.b*float64(i)
		}
		assert.InDelta(t, tt.b, Slope(values), 1e-9, "a=%v b=%v n=%d", tt.a, tt.b, tt.n)
	}
}

func TestSlope_Constant(t *testing.T) {
	assert.Equal(t, 0.0, Slope([]float64{7, 7, 7, 7, 7}))
}

func TestSlope_TooShort(t *testing.T) {
	assert.True(t, math.IsNaN(Slope(nil)))
	assert.True(t, math.IsNaN(Slope([]float64{1})))
}

func TestSlope_MatchesRegressionLibrary(t *testing.T) {
	values := make([]float64, 15)
	for i := range values {
		x := float64(i)
		values[i] = 3 + 0.5*x + math.Sin(x)
	}

	r := new(regression.Regression)
	r.SetObserved("y")
	r.SetVar(0, "x")
	for i, y := range values {
		r.Train(regression.DataPoint(y, []float64{float64(i)}))
	}
	require.NoError(t, r.Run())

	assert.InDelta(t, r.Coeff(1), Slope(values), 1e-9)
}
