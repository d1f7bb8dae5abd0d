package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzzdr/basel-capital-engine/config"
	"github.com/rzzdr/basel-capital-engine/pkg/models"
)

func testPortfolio(t *testing.T, exposures ...*models.Exposure) *models.Portfolio {
	t.Helper()
	p, err := models.NewPortfolio("test", "test portfolio", "EUR", exposures)
	require.NoError(t, err)
	return p
}

func TestStandardizedSovereignAAA(t *testing.T) {
	exp := models.NewExposure("sov-1", models.ExposureLoan, models.AssetSovereign, 1_000_000, "EUR")
	exp.Rating = "AAA"

	calc := NewCreditCalculator(config.DefaultRegulatory(), 1)
	res, err := calc.Calculate(context.Background(), testPortfolio(t, exp))
	require.NoError(t, err)

	assert.Equal(t, 0.0, res.TotalRWA)
	require.Len(t, res.Detail, 1)
	assert.Equal(t, models.ApproachStandardized, res.Detail[0].Approach)
	assert.Equal(t, 0.0, res.Detail[0].RiskWeight)
}

func TestStandardizedCorporateUnrated(t *testing.T) {
	exp := models.NewExposure("corp-1", models.ExposureLoan, models.AssetCorporate, 1_000_000, "EUR")

	calc := NewCreditCalculator(config.DefaultRegulatory(), 1)
	res, err := calc.Calculate(context.Background(), testPortfolio(t, exp))
	require.NoError(t, err)

	assert.Equal(t, 1_000_000.0, res.TotalRWA, "unrated corporates carry a 100%% weight")
}

func TestRatingBuckets(t *testing.T) {
	tests := []struct {
		rating string
		bucket string
	}{
		{"AAA", "aaa_aa"},
		{"AA+", "aaa_aa"},
		{"A-", "a"},
		{"BBB", "bbb"},
		{"BB", "bb_b"},
		{"B-", "bb_b"},
		{"CCC", "below_b"},
		{"", "unrated"},
		{" aa ", "aaa_aa"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.bucket, ratingBucket(tt.rating), "rating %q", tt.rating)
	}
}

func TestIRBSelection(t *testing.T) {
	calc := NewCreditCalculator(config.DefaultRegulatory(), 1)

	// Corporate with PD, LGD and maturity goes through IRB.
	irb := models.NewExposure("corp-irb", models.ExposureLoan, models.AssetCorporate, 1_000_000, "EUR")
	irb.PD = models.Float(0.01)
	irb.LGD = models.Float(0.45)
	irb.MaturityYears = models.Float(3)

	// Retail mortgage is not in the eligible class list, so it stays
	// standardized even with the full IRB parameter set present.
	mortgage := models.NewExposure("mortgage", models.ExposureLoan, models.AssetRetailMortgage, 1_000_000, "EUR")
	mortgage.PD = models.Float(0.01)
	mortgage.LGD = models.Float(0.25)
	mortgage.MaturityYears = models.Float(20)

	res, err := calc.Calculate(context.Background(), testPortfolio(t, irb, mortgage))
	require.NoError(t, err)
	require.Len(t, res.Detail, 2)
	assert.Equal(t, models.ApproachIRB, res.Detail[0].Approach)
	assert.Equal(t, models.ApproachStandardized, res.Detail[1].Approach)
	assert.Equal(t, 0.35, res.Detail[1].RiskWeight)
}

func TestIRBRequiresMaturity(t *testing.T) {
	calc := NewCreditCalculator(config.DefaultRegulatory(), 1)

	// Missing maturity keeps the exposure on the standardized
	// approach; no default maturity is substituted.
	exp := models.NewExposure("corp-no-m", models.ExposureLoan, models.AssetCorporate, 1_000_000, "EUR")
	exp.PD = models.Float(0.02)
	exp.LGD = models.Float(0.45)

	res, err := calc.Calculate(context.Background(), testPortfolio(t, exp))
	require.NoError(t, err)
	require.Len(t, res.Detail, 1)
	assert.Equal(t, models.ApproachStandardized, res.Detail[0].Approach)
	assert.Equal(t, 1_000_000.0, res.Detail[0].RWA)
}

func TestIRBMonotonicInPD(t *testing.T) {
	calc := NewCreditCalculator(config.DefaultRegulatory(), 1)

	prev := -1.0
	for _, pd := range []float64{0.0005, 0.001, 0.005, 0.01, 0.03, 0.05, 0.10, 0.20} {
		exp := models.NewExposure("corp", models.ExposureLoan, models.AssetCorporate, 1_000_000, "EUR")
		exp.PD = models.Float(pd)
		exp.LGD = models.Float(0.45)
		exp.MaturityYears = models.Float(2.5)

		rw, err := calc.irbRiskWeight(exp)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, rw, prev, "risk weight must not decrease as PD rises (pd=%.4f)", pd)
		assert.LessOrEqual(t, rw, 12.5)
		prev = rw
	}
}

func TestIRBRejectsBoundaryPD(t *testing.T) {
	calc := NewCreditCalculator(config.DefaultRegulatory(), 1)
	exp := models.NewExposure("corp", models.ExposureLoan, models.AssetCorporate, 1_000_000, "EUR")
	exp.PD = models.Float(0)
	exp.LGD = models.Float(0.45)
	exp.MaturityYears = models.Float(2.5)

	_, err := calc.irbRiskWeight(exp)
	assert.Error(t, err)
}

func TestCRMReducesRWA(t *testing.T) {
	calc := NewCreditCalculator(config.DefaultRegulatory(), 1)

	plain := models.NewExposure("plain", models.ExposureLoan, models.AssetCorporate, 1_000_000, "EUR")
	mitigated := models.NewExposure("mitigated", models.ExposureLoan, models.AssetCorporate, 1_000_000, "EUR")
	mitigated.CRM = &models.CreditRiskMitigation{
		CollateralType: "real_estate_commercial",
		Effectiveness:  0.4,
	}

	res, err := calc.Calculate(context.Background(), testPortfolio(t, plain, mitigated))
	require.NoError(t, err)
	assert.InDelta(t, 1_000_000.0, res.Detail[0].RWA, 1e-9)
	assert.InDelta(t, 600_000.0, res.Detail[1].RWA, 1e-9)
}

func TestCreditAdditivity(t *testing.T) {
	calc := NewCreditCalculator(config.DefaultRegulatory(), 4)
	ctx := context.Background()

	exposures := []*models.Exposure{}
	for i, rating := range []string{"AAA", "A", "BBB", "BB", "", "CCC"} {
		exp := models.NewExposure(
			string(rune('a'+i)), models.ExposureLoan, models.AssetCorporate,
			float64(100_000*(i+1)), "EUR")
		exp.Rating = rating
		exposures = append(exposures, exp)
	}

	whole, err := calc.Calculate(ctx, testPortfolio(t, exposures...))
	require.NoError(t, err)

	var sum float64
	for _, exp := range exposures {
		part, err := calc.Calculate(ctx, testPortfolio(t, exp))
		require.NoError(t, err)
		sum += part.TotalRWA
	}
	assert.Equal(t, whole.TotalRWA, sum, "total RWA must equal the sum over any partition")
}

func TestCreditDeterministicAcrossWorkerCounts(t *testing.T) {
	ctx := context.Background()

	exposures := make([]*models.Exposure, 0, 50)
	for i := 0; i < 50; i++ {
		exp := models.NewExposure(
			string(rune('a'+i%26))+string(rune('0'+i/26)),
			models.ExposureLoan, models.AssetCorporate,
			float64(10_000+i*977), "EUR")
		exp.PD = models.Float(0.001 + float64(i)*0.0007)
		exp.LGD = models.Float(0.45)
		exp.MaturityYears = models.Float(1 + float64(i%7))
		exposures = append(exposures, exp)
	}
	portfolio := testPortfolio(t, exposures...)

	baseline, err := NewCreditCalculator(config.DefaultRegulatory(), 1).Calculate(ctx, portfolio)
	require.NoError(t, err)

	for _, workers := range []int{2, 4, 16, 64} {
		res, err := NewCreditCalculator(config.DefaultRegulatory(), workers).Calculate(ctx, portfolio)
		require.NoError(t, err)
		assert.Equal(t, baseline.TotalRWA, res.TotalRWA, "workers=%d", workers)
		assert.Equal(t, baseline.Detail, res.Detail, "workers=%d", workers)
	}
}

func TestCreditEmptyPortfolio(t *testing.T) {
	calc := NewCreditCalculator(config.DefaultRegulatory(), 4)
	res, err := calc.Calculate(context.Background(), testPortfolio(t))
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.TotalRWA)
	assert.Empty(t, res.Detail)
}
