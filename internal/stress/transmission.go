package stress

import (
	"math"
	"strings"

	"github.com/rzzdr/basel-capital-engine/config"
	"github.com/rzzdr/basel-capital-engine/pkg/models"
)

// ApplyToPortfolio translates macro shocks into exposure-level risk
// parameter moves. It always works on a clone; the input portfolio is
// never touched.
func ApplyToPortfolio(portfolio *models.Portfolio, scenario *models.MacroScenario, cfg *config.RegulatoryConfig) *models.Portfolio {
	stressed := portfolio.Clone()

	pdShift, pdShock := pdLogOddsShift(scenario, cfg)
	recoveryShock, hasRecovery := scenario.Shock(models.FactorRecoveryRate)
	rateShock, hasRate := scenario.Shock(models.FactorInterestRate)
	fxShock, hasFX := scenario.Shock(models.FactorFX)
	equityShock, hasEquity := scenario.Shock(models.FactorEquity)
	reShock, hasRE := scenario.Shock(models.FactorRealEstate)

	for _, exp := range stressed.Exposures {
		if pdShock && exp.PD != nil {
			mult := scenarioMultiplier(scenario, exp.Sector)
			*exp.PD = stressPD(*exp.PD, pdShift*mult, cfg.Stress.MaxStressedPD)
		}
		if hasRecovery && exp.LGD != nil {
			lgd := *exp.LGD * (1.0 - recoveryShock.Value)
			if lgd > 1.0 {
				lgd = 1.0
			}
			*exp.LGD = lgd
		}
		if exp.MarketValue != nil {
			factor := 1.0
			if hasRate && exp.DurationYears != nil {
				factor *= 1.0 - *exp.DurationYears*(rateShock.Value/10000.0)
			}
			if hasFX && exp.Currency != stressed.BaseCurrency {
				factor *= 1.0 + fxShock.Value
			}
			if hasEquity && hasEquityExposure(exp) {
				factor *= 1.0 + equityShock.Value
			}
			mv := *exp.MarketValue * factor
			if mv < 0 {
				mv = 0
			}
			*exp.MarketValue = mv
		}
		if hasRE && exp.CRM != nil && strings.Contains(exp.CRM.CollateralType, "real_estate") {
			factor := 1.0 + reShock.Value
			if factor < 0 {
				factor = 0
			}
			exp.CRM.CollateralValue *= factor
			exp.CRM.Effectiveness *= factor
			if exp.CRM.Effectiveness > 1 {
				exp.CRM.Effectiveness = 1
			}
		}
	}
	return stressed
}

// ApplyToCapital erodes retained earnings in proportion to the GDP
// contraction, floored at zero. The input is never mutated.
func ApplyToCapital(capital *models.CapitalComponents, scenario *models.MacroScenario, cfg *config.RegulatoryConfig) *models.CapitalComponents {
	stressed := *capital

	gdp, ok := scenario.Shock(models.FactorGDP)
	if !ok || gdp.Value >= 0 {
		return &stressed
	}

	erosion := cfg.Stress.CapitalErosion * math.Abs(gdp.Value) * capital.CET1()
	stressed.RetainedEarnings -= erosion
	if stressed.RetainedEarnings < 0 {
		stressed.RetainedEarnings = 0
	}
	return &stressed
}

// pdLogOddsShift derives the shift applied to PD log-odds. An explicit
// default-rate shock takes priority; otherwise a GDP contraction is
// amplified into a credit shock. Expansionary GDP moves leave PD
// alone.
func pdLogOddsShift(scenario *models.MacroScenario, cfg *config.RegulatoryConfig) (float64, bool) {
	if shock, ok := scenario.Shock(models.FactorDefaultRate); ok {
		return shock.Value, true
	}
	if gdp, ok := scenario.Shock(models.FactorGDP); ok && gdp.Value < 0 {
		return math.Abs(gdp.Value) * cfg.Stress.GDPAmplification, true
	}
	return 0, false
}

// stressPD shifts PD in log-odds space and clamps the result.
func stressPD(pd, shift, maxPD float64) float64 {
	logOdds := math.Log(pd / (1.0 - pd))
	stressed := 1.0 / (1.0 + math.Exp(-(logOdds + shift)))
	if stressed > maxPD {
		return maxPD
	}
	if stressed < pd {
		return pd
	}
	return stressed
}

// scenarioMultiplier returns the sector multiplier of whichever credit
// shock drives PD transmission.
func scenarioMultiplier(scenario *models.MacroScenario, sector string) float64 {
	if shock, ok := scenario.Shock(models.FactorDefaultRate); ok {
		return shock.MultiplierFor(sector)
	}
	if shock, ok := scenario.Shock(models.FactorGDP); ok {
		return shock.MultiplierFor(sector)
	}
	return 1.0
}

func hasEquityExposure(exp *models.Exposure) bool {
	for key := range exp.Sensitivities {
		if strings.HasPrefix(key, models.SensitivityEquity) {
			return true
		}
	}
	return false
}
