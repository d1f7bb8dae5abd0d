package stress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzzdr/basel-capital-engine/config"
	"github.com/rzzdr/basel-capital-engine/pkg/models"
)

func singleExposurePortfolio(t *testing.T, exp *models.Exposure) *models.Portfolio {
	t.Helper()
	p, err := models.NewPortfolio("pf", "stress test portfolio", "EUR", []*models.Exposure{exp})
	require.NoError(t, err)
	return p
}

func TestAdverseScenarioIncreasesPD(t *testing.T) {
	exp := models.NewExposure("loan", models.ExposureLoan, models.AssetCorporate, 1_000_000, "EUR")
	exp.PD = models.Float(0.02)
	exp.LGD = models.Float(0.45)

	stressed := ApplyToPortfolio(singleExposurePortfolio(t, exp), Adverse(), config.DefaultRegulatory())

	assert.Greater(t, *stressed.Exposures[0].PD, 0.02, "a recession must strictly increase PD")
	assert.Equal(t, 0.02, *exp.PD, "the original exposure is untouched")
}

func TestGDPContractionDrivesPDWithoutDefaultRateShock(t *testing.T) {
	scenario := &models.MacroScenario{
		Name: "gdp-only",
		Type: models.ScenarioCustom,
		Shocks: map[models.RiskFactor]models.Shock{
			models.FactorGDP: {Value: -0.03},
		},
	}

	exp := models.NewExposure("loan", models.ExposureLoan, models.AssetCorporate, 1, "EUR")
	exp.PD = models.Float(0.02)

	stressed := ApplyToPortfolio(singleExposurePortfolio(t, exp), scenario, config.DefaultRegulatory())
	assert.Greater(t, *stressed.Exposures[0].PD, 0.02)
}

func TestExpansionLeavesPDAlone(t *testing.T) {
	scenario := &models.MacroScenario{
		Name: "boom",
		Type: models.ScenarioCustom,
		Shocks: map[models.RiskFactor]models.Shock{
			models.FactorGDP: {Value: 0.04},
		},
	}

	exp := models.NewExposure("loan", models.ExposureLoan, models.AssetCorporate, 1, "EUR")
	exp.PD = models.Float(0.02)

	stressed := ApplyToPortfolio(singleExposurePortfolio(t, exp), scenario, config.DefaultRegulatory())
	assert.Equal(t, 0.02, *stressed.Exposures[0].PD)
}

func TestStressedPDClamped(t *testing.T) {
	scenario := &models.MacroScenario{
		Name: "extreme",
		Type: models.ScenarioCustom,
		Shocks: map[models.RiskFactor]models.Shock{
			models.FactorDefaultRate: {Value: 50},
		},
	}

	exp := models.NewExposure("loan", models.ExposureLoan, models.AssetCorporate, 1, "EUR")
	exp.PD = models.Float(0.30)

	stressed := ApplyToPortfolio(singleExposurePortfolio(t, exp), scenario, config.DefaultRegulatory())
	assert.Equal(t, 0.99, *stressed.Exposures[0].PD)
}

func TestSectorMultiplierScalesShock(t *testing.T) {
	scenario := &models.MacroScenario{
		Name: "sectoral",
		Type: models.ScenarioCustom,
		Shocks: map[models.RiskFactor]models.Shock{
			models.FactorDefaultRate: {
				Value:             0.4,
				SectorMultipliers: map[string]float64{"energy": 2.0},
			},
		},
	}
	cfg := config.DefaultRegulatory()

	energy := models.NewExposure("energy", models.ExposureLoan, models.AssetCorporate, 1, "EUR")
	energy.PD = models.Float(0.02)
	energy.Sector = "energy"
	services := models.NewExposure("services", models.ExposureLoan, models.AssetCorporate, 1, "EUR")
	services.PD = models.Float(0.02)
	services.Sector = "services"

	p, err := models.NewPortfolio("pf", "sectoral", "EUR", []*models.Exposure{energy, services})
	require.NoError(t, err)
	stressed := ApplyToPortfolio(p, scenario, cfg)

	assert.Greater(t, *stressed.Exposures[0].PD, *stressed.Exposures[1].PD,
		"the doubled sector shock must stress energy harder than services")
}

func TestRecoveryShockRaisesLGD(t *testing.T) {
	exp := models.NewExposure("loan", models.ExposureLoan, models.AssetCorporate, 1, "EUR")
	exp.PD = models.Float(0.02)
	exp.LGD = models.Float(0.40)

	stressed := ApplyToPortfolio(singleExposurePortfolio(t, exp), Adverse(), config.DefaultRegulatory())
	// Recovery shock of -15% scales LGD by 1.15.
	assert.InDelta(t, 0.46, *stressed.Exposures[0].LGD, 1e-9)
}

func TestMarketValueTransmission(t *testing.T) {
	scenario := &models.MacroScenario{
		Name: "rates-and-fx",
		Type: models.ScenarioCustom,
		Shocks: map[models.RiskFactor]models.Shock{
			models.FactorInterestRate: {Value: 200},
			models.FactorFX:           {Value: 0.10},
		},
	}
	cfg := config.DefaultRegulatory()

	bond := models.NewExposure("bond", models.ExposureSecurity, models.AssetCorporate, 1, "USD")
	bond.MarketValue = models.Float(1_000_000)
	bond.DurationYears = models.Float(5)

	stressed := ApplyToPortfolio(singleExposurePortfolio(t, bond), scenario, cfg)
	// Duration impact 1 - 5 x 0.02 = 0.90, FX impact 1.10 on the
	// non-base currency, composed multiplicatively.
	assert.InDelta(t, 1_000_000*0.90*1.10, *stressed.Exposures[0].MarketValue, 1e-6)
	assert.Equal(t, 1_000_000.0, *bond.MarketValue)
}

func TestMarketValueFlooredAtZero(t *testing.T) {
	scenario := &models.MacroScenario{
		Name: "rates-spike",
		Type: models.ScenarioCustom,
		Shocks: map[models.RiskFactor]models.Shock{
			models.FactorInterestRate: {Value: 5000},
		},
	}

	bond := models.NewExposure("bond", models.ExposureSecurity, models.AssetCorporate, 1, "EUR")
	bond.MarketValue = models.Float(1_000)
	bond.DurationYears = models.Float(10)

	stressed := ApplyToPortfolio(singleExposurePortfolio(t, bond), scenario, config.DefaultRegulatory())
	assert.Equal(t, 0.0, *stressed.Exposures[0].MarketValue)
}

func TestRealEstateShockHitsCollateral(t *testing.T) {
	exp := models.NewExposure("loan", models.ExposureLoan, models.AssetCorporate, 1, "EUR")
	exp.CRM = &models.CreditRiskMitigation{
		CollateralType:  "real_estate_commercial",
		CollateralValue: 1_000_000,
		Effectiveness:   0.5,
	}

	stressed := ApplyToPortfolio(singleExposurePortfolio(t, exp), Adverse(), config.DefaultRegulatory())
	crm := stressed.Exposures[0].CRM
	// Real-estate shock of -20% scales both value and effectiveness.
	assert.InDelta(t, 800_000, crm.CollateralValue, 1e-6)
	assert.InDelta(t, 0.4, crm.Effectiveness, 1e-9)
	assert.Equal(t, 0.5, exp.CRM.Effectiveness)
}

func TestCapitalErosion(t *testing.T) {
	capital := &models.CapitalComponents{
		CommonEquity:     1_000_000,
		RetainedEarnings: 200_000,
	}

	stressed := ApplyToCapital(capital, Adverse(), config.DefaultRegulatory())
	// Erosion = 0.5 x |−3%| x CET1 of 1.2m = 18,000.
	assert.InDelta(t, 182_000, stressed.RetainedEarnings, 1e-6)
	assert.Equal(t, 200_000.0, capital.RetainedEarnings)
}

func TestCapitalErosionFlooredAtZero(t *testing.T) {
	capital := &models.CapitalComponents{
		CommonEquity:     10_000_000,
		RetainedEarnings: 50_000,
	}

	stressed := ApplyToCapital(capital, SeverelyAdverse(), config.DefaultRegulatory())
	assert.Equal(t, 0.0, stressed.RetainedEarnings)
	require.NoError(t, stressed.Validate())
}

func TestCapitalUntouchedByExpansion(t *testing.T) {
	scenario := &models.MacroScenario{
		Name: "boom",
		Type: models.ScenarioCustom,
		Shocks: map[models.RiskFactor]models.Shock{
			models.FactorGDP: {Value: 0.02},
		},
	}
	capital := &models.CapitalComponents{RetainedEarnings: 100}
	stressed := ApplyToCapital(capital, scenario, config.DefaultRegulatory())
	assert.Equal(t, 100.0, stressed.RetainedEarnings)
}
