package stress

import (
	"github.com/rzzdr/basel-capital-engine/pkg/models"
)

// Predefined supervisory scenarios. Rate and spread shocks are in
// basis points, everything else is a fractional change.

// Adverse returns the adverse scenario: a mild recession with rising
// rates.
func Adverse() *models.MacroScenario {
	return &models.MacroScenario{
		Name:         "adverse",
		Description:  "Moderate recession: GDP -3%, rates +300bps, equities -30%",
		Type:         models.ScenarioAdverse,
		HorizonYears: 3,
		GDPGrowth:    models.Float(-0.03),
		Shocks: map[models.RiskFactor]models.Shock{
			models.FactorGDP:          {Value: -0.03},
			models.FactorInterestRate: {Value: 300},
			models.FactorFX:           {Value: 0.25},
			models.FactorEquity:       {Value: -0.30},
			models.FactorRealEstate:   {Value: -0.20},
			models.FactorDefaultRate:  {Value: 0.40},
			models.FactorRecoveryRate: {Value: -0.15},
			models.FactorCreditSpread: {Value: 200},
		},
	}
}

// SeverelyAdverse returns the severely adverse scenario: a deep
// recession with a funding shock.
func SeverelyAdverse() *models.MacroScenario {
	return &models.MacroScenario{
		Name:         "severely_adverse",
		Description:  "Deep recession: GDP -8%, rates +500bps, equities -50%",
		Type:         models.ScenarioSeverelyAdverse,
		HorizonYears: 3,
		GDPGrowth:    models.Float(-0.08),
		Shocks: map[models.RiskFactor]models.Shock{
			models.FactorGDP:          {Value: -0.08},
			models.FactorInterestRate: {Value: 500},
			models.FactorFX:           {Value: 0.40},
			models.FactorEquity:       {Value: -0.50},
			models.FactorRealEstate:   {Value: -0.35},
			models.FactorDefaultRate:  {Value: 1.00},
			models.FactorRecoveryRate: {Value: -0.25},
			models.FactorCreditSpread: {Value: 400},
		},
	}
}

// Catalogue returns the predefined scenarios in severity order.
func Catalogue() []*models.MacroScenario {
	return []*models.MacroScenario{Adverse(), SeverelyAdverse()}
}

// Lookup finds a predefined scenario by name.
func Lookup(name string) (*models.MacroScenario, bool) {
	for _, s := range Catalogue() {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}
