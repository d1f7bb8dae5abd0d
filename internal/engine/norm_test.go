package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalCDF(t *testing.T) {
	assert.InDelta(t, 0.5, normalCDF(0), 1e-12)
	assert.InDelta(t, 0.8413447460685429, normalCDF(1), 1e-12)
	assert.InDelta(t, 0.9986501019683699, normalCDF(3), 1e-12)
	assert.InDelta(t, 1.0, normalCDF(0)+normalCDF(0), 1e-12)
	assert.InDelta(t, 1.0, normalCDF(-1.7)+normalCDF(1.7), 1e-12)
}

func TestNormalInverse(t *testing.T) {
	tests := []struct {
		p    float64
		want float64
	}{
		{0.5, 0},
		{0.8413447460685429, 1},
		{0.9772498680518208, 2},
		{0.999, 3.0902323061678132},
		{0.001, -3.0902323061678132},
	}
	for _, tt := range tests {
		got, err := normalInverse(tt.p)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-6, "p=%v", tt.p)
	}
}

func TestNormalInverseRoundTrip(t *testing.T) {
	for _, x := range []float64{-3, -1.5, -0.1, 0, 0.3, 1.2, 2.8} {
		p := normalCDF(x)
		got, err := normalInverse(p)
		require.NoError(t, err)
		assert.InDelta(t, x, got, 1e-6, "x=%v", x)
	}
}

func TestNormalInverseDomain(t *testing.T) {
	for _, p := range []float64{0, 1, -0.1, 1.1, math.NaN()} {
		_, err := normalInverse(p)
		assert.Error(t, err, "p=%v", p)
	}
}
