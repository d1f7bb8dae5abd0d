package models

import (
	"github.com/rzzdr/basel-capital-engine/pkg/utils/errors"
)

// ScenarioType distinguishes regulatory severity levels from
// user-defined scenarios.
type ScenarioType string

const (
	ScenarioBaseline        ScenarioType = "baseline"
	ScenarioAdverse         ScenarioType = "adverse"
	ScenarioSeverelyAdverse ScenarioType = "severely_adverse"
	ScenarioCustom          ScenarioType = "custom"
)

// RiskFactor identifies a macro variable a scenario can shock.
type RiskFactor string

const (
	FactorGDP          RiskFactor = "gdp"
	FactorInterestRate RiskFactor = "interest_rate"
	FactorFX           RiskFactor = "fx"
	FactorEquity       RiskFactor = "equity"
	FactorRealEstate   RiskFactor = "real_estate"
	FactorDefaultRate  RiskFactor = "default_rate"
	FactorRecoveryRate RiskFactor = "recovery_rate"
	FactorCreditSpread RiskFactor = "credit_spread"
)

// Shock is the move applied to one risk factor. Interest-rate and
// credit-spread shocks are expressed in basis points, everything else
// as a fractional change. SectorMultipliers scale the shock for named
// sectors; unlisted sectors get a multiplier of 1.
type Shock struct {
	Value             float64            `json:"value"`
	SectorMultipliers map[string]float64 `json:"sector_multipliers,omitempty"`
}

// MultiplierFor returns the shock multiplier for a sector.
func (s Shock) MultiplierFor(sector string) float64 {
	if m, ok := s.SectorMultipliers[sector]; ok {
		return m
	}
	return 1.0
}

// MacroScenario is a named, immutable set of risk-factor shocks.
type MacroScenario struct {
	Name         string               `json:"name"`
	Description  string               `json:"description,omitempty"`
	Type         ScenarioType         `json:"type"`
	HorizonYears int                  `json:"horizon_years,omitempty"`
	GDPGrowth    *float64             `json:"gdp_growth,omitempty"`
	Unemployment *float64             `json:"unemployment,omitempty"`
	Inflation    *float64             `json:"inflation,omitempty"`
	Shocks       map[RiskFactor]Shock `json:"shocks"`
}

// NewMacroScenario builds and validates a custom scenario.
func NewMacroScenario(name, description string, scenarioType ScenarioType, shocks map[RiskFactor]Shock) (*MacroScenario, error) {
	s := &MacroScenario{
		Name:        name,
		Description: description,
		Type:        scenarioType,
		Shocks:      shocks,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks scenario well-formedness.
func (s *MacroScenario) Validate() error {
	if s.Name == "" {
		return errors.Validation("scenario has empty name")
	}
	switch s.Type {
	case ScenarioBaseline, ScenarioAdverse, ScenarioSeverelyAdverse, ScenarioCustom:
	default:
		return errors.Validation("scenario %s: unknown type %q", s.Name, s.Type)
	}
	for factor := range s.Shocks {
		switch factor {
		case FactorGDP, FactorInterestRate, FactorFX, FactorEquity,
			FactorRealEstate, FactorDefaultRate, FactorRecoveryRate, FactorCreditSpread:
		default:
			return errors.Validation("scenario %s: unknown risk factor %q", s.Name, factor)
		}
	}
	return nil
}

// Shock returns the shock for a factor and whether it is present.
func (s *MacroScenario) Shock(factor RiskFactor) (Shock, bool) {
	shock, ok := s.Shocks[factor]
	return shock, ok
}

// ShockValue returns the shock value for a factor, or zero when the
// scenario does not shock it.
func (s *MacroScenario) ShockValue(factor RiskFactor) float64 {
	return s.Shocks[factor].Value
}
