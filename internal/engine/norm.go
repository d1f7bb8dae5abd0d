package engine

import (
	"math"

	"github.com/rzzdr/basel-capital-engine/pkg/utils/errors"
)

// normalCDF is the standard normal cumulative distribution function.
func normalCDF(x float64) float64 {
	return 0.5 * (1.0 + math.Erf(x/math.Sqrt2))
}

// Beasley-Springer-Moro coefficients for the inverse normal CDF.
var (
	bsmA = [4]float64{2.50662823884, -18.61500062529, 41.39119773534, -25.44106049637}
	bsmB = [4]float64{-8.47351093090, 23.08336743743, -21.06224101826, 3.13082909833}
	bsmC = [9]float64{
		0.3374754822726147, 0.9761690190917186, 0.1607979714918209,
		0.0276438810333863, 0.0038405729373609, 0.0003951896511919,
		0.0000321767881768, 0.0000002888167364, 0.0000003960315187,
	}
)

// normalInverse returns the standard normal quantile via the
// Beasley-Springer-Moro approximation, accurate to roughly 1e-9 over
// the central region. p must lie strictly inside (0, 1).
func normalInverse(p float64) (float64, error) {
	if math.IsNaN(p) || p <= 0 || p >= 1 {
		return 0, errors.Computation("inverse normal undefined for p = %.9f", p)
	}

	y := p - 0.5
	if math.Abs(y) < 0.42 {
		r := y * y
		num := y * (((bsmA[3]*r+bsmA[2])*r+bsmA[1])*r + bsmA[0])
		den := (((bsmB[3]*r+bsmB[2])*r+bsmB[1])*r+bsmB[0])*r + 1.0
		return num / den, nil
	}

	r := p
	if y > 0 {
		r = 1.0 - p
	}
	r = math.Log(-math.Log(r))
	x := bsmC[0]
	acc := 1.0
	for i := 1; i < len(bsmC); i++ {
		acc *= r
		x += bsmC[i] * acc
	}
	if y < 0 {
		x = -x
	}
	return x, nil
}
