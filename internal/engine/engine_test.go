package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzzdr/basel-capital-engine/config"
	"github.com/rzzdr/basel-capital-engine/pkg/models"
	"github.com/rzzdr/basel-capital-engine/pkg/utils/errors"
)

func testInput(t *testing.T) CalculationInput {
	t.Helper()

	loan := models.NewExposure("loan-1", models.ExposureLoan, models.AssetCorporate, 10_000_000, "EUR")
	irb := models.NewExposure("loan-2", models.ExposureLoan, models.AssetCorporate, 5_000_000, "EUR")
	irb.PD = models.Float(0.02)
	irb.LGD = models.Float(0.45)
	irb.MaturityYears = models.Float(3)

	bond := models.NewExposure("bond-1", models.ExposureSecurity, models.AssetCorporate, 2_000_000, "EUR")
	bond.MarketValue = models.Float(1_950_000)
	bond.Sensitivities = map[string]float64{"ir_5y": 950_000}

	commitment := models.NewExposure("obs-1", models.ExposureOffBalanceSheet, models.AssetCorporate, 4_000_000, "EUR")

	portfolio, err := models.NewPortfolio("pf-1", "integration", "EUR", []*models.Exposure{loan, irb, bond, commitment})
	require.NoError(t, err)

	return CalculationInput{
		Portfolio: portfolio,
		Capital: &models.CapitalComponents{
			CommonEquity:     2_000_000,
			RetainedEarnings: 500_000,
			AdditionalTier1:  300_000,
			Tier2Instruments: 400_000,
		},
		BusinessIndicator: &models.BusinessIndicatorData{
			InterestIncome:  900_000_000,
			InterestExpense: 500_000_000,
			FeeIncome:       100_000_000,
		},
	}
}

func TestEngineCalculate(t *testing.T) {
	eng, err := New(config.DefaultRegulatory(), 4)
	require.NoError(t, err)

	res, err := eng.Calculate(context.Background(), testInput(t))
	require.NoError(t, err)

	assert.Equal(t, "pf-1", res.PortfolioID)
	assert.Greater(t, res.RWA.Credit, 0.0)
	assert.Greater(t, res.RWA.Market, 0.0)
	assert.Greater(t, res.RWA.Operational, 0.0)
	assert.InDelta(t, res.RWA.Credit+res.RWA.Market+res.RWA.Operational, res.RWA.Total, 1e-9)

	assert.Equal(t, 2_500_000.0, res.Capital.CET1)
	assert.Equal(t, 2_800_000.0, res.Capital.Tier1)
	assert.Equal(t, 3_200_000.0, res.Capital.Total)

	assert.Greater(t, res.LeverageExposure, 0.0)
	assert.Equal(t, len(res.Breaches) == 0, res.Compliant)
	// Three banking-book exposures produce three detail rows.
	assert.Len(t, res.CreditDetail, 3)
}

func TestEngineIdempotent(t *testing.T) {
	eng, err := New(config.DefaultRegulatory(), 8)
	require.NoError(t, err)

	in := testInput(t)
	first, err := eng.Calculate(context.Background(), in)
	require.NoError(t, err)
	second, err := eng.Calculate(context.Background(), in)
	require.NoError(t, err)

	// Everything except the timestamp must be bit-identical.
	second.CalculatedAt = first.CalculatedAt
	assert.Equal(t, first, second)
}

func TestEngineSkipsOperationalWithoutBI(t *testing.T) {
	eng, err := New(config.DefaultRegulatory(), 1)
	require.NoError(t, err)

	in := testInput(t)
	in.BusinessIndicator = nil
	res, err := eng.Calculate(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.RWA.Operational)
}

func TestEngineValidatesInput(t *testing.T) {
	eng, err := New(config.DefaultRegulatory(), 1)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = eng.Calculate(ctx, CalculationInput{})
	assert.True(t, errors.IsValidation(err))

	in := testInput(t)
	in.Capital = nil
	_, err = eng.Calculate(ctx, in)
	assert.True(t, errors.IsValidation(err))

	in = testInput(t)
	in.Capital.CommonEquity = -1
	_, err = eng.Calculate(ctx, in)
	assert.True(t, errors.IsValidation(err))
}

func TestEngineRejectsBrokenConfig(t *testing.T) {
	_, err := New(nil, 1)
	assert.True(t, errors.IsConfiguration(err))

	cfg := config.DefaultRegulatory()
	cfg.RiskWeights = nil
	_, err = New(cfg, 1)
	assert.True(t, errors.IsConfiguration(err))
}

func TestLeverageExposure(t *testing.T) {
	cfg := config.DefaultRegulatory()

	loan := models.NewExposure("loan", models.ExposureLoan, models.AssetCorporate, 1_000_000, "EUR")
	commitment := models.NewExposure("obs", models.ExposureOffBalanceSheet, models.AssetCorporate, 1_000_000, "EUR")
	swap := models.NewExposure("swap", models.ExposureDerivative, models.AssetBank, 10_000_000, "EUR")
	swap.MarketValue = models.Float(-50_000)
	swap.Sensitivities = map[string]float64{"ir_5y": 20_000}

	portfolio := testPortfolio(t, loan, commitment, swap)
	got := LeverageExposure(portfolio, cfg)

	// Loan at face, commitment at the 75% leverage CCF, derivative at
	// floored replacement cost plus the 1% bank add-on.
	expected := 1_000_000.0 + 1_000_000.0*0.75 + 0.0 + 10_000_000.0*0.01
	assert.InDelta(t, expected, got, 1e-9)
}
