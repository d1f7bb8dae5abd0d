package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExposureValidate(t *testing.T) {
	valid := NewExposure("exp-1", ExposureLoan, AssetCorporate, 1_000_000, "EUR")
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Exposure)
	}{
		{"empty ID", func(e *Exposure) { e.ID = "" }},
		{"unknown type", func(e *Exposure) { e.Type = "swap" }},
		{"unknown asset class", func(e *Exposure) { e.AssetClass = "equity" }},
		{"negative amount", func(e *Exposure) { e.CurrentAmount = -1 }},
		{"empty currency", func(e *Exposure) { e.Currency = "" }},
		{"PD of zero", func(e *Exposure) { e.PD = Float(0) }},
		{"PD of one", func(e *Exposure) { e.PD = Float(1) }},
		{"LGD above one", func(e *Exposure) { e.LGD = Float(1.01) }},
		{"zero maturity", func(e *Exposure) { e.MaturityYears = Float(0) }},
		{"CCF above one", func(e *Exposure) { e.CCF = Float(1.5) }},
		{"CRM effectiveness above one", func(e *Exposure) {
			e.CRM = &CreditRiskMitigation{Effectiveness: 1.2}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp := NewExposure("exp-1", ExposureLoan, AssetCorporate, 1_000_000, "EUR")
			tt.mutate(exp)
			assert.Error(t, exp.Validate())
		})
	}
}

func TestExposureEAD(t *testing.T) {
	loan := NewExposure("loan", ExposureLoan, AssetCorporate, 500_000, "EUR")
	assert.Equal(t, 500_000.0, loan.EAD())

	obs := NewExposure("commitment", ExposureOffBalanceSheet, AssetCorporate, 1_000_000, "EUR")
	assert.Equal(t, 500_000.0, obs.EAD(), "default CCF applies when none is set")

	obs.CCF = Float(0.2)
	assert.Equal(t, 200_000.0, obs.EAD())
}

func TestExposureEffectiveMaturity(t *testing.T) {
	exp := NewExposure("exp", ExposureLoan, AssetCorporate, 1, "EUR")
	assert.Equal(t, 2.5, exp.EffectiveMaturity(), "absent maturity defaults to 2.5 years")

	exp.MaturityYears = Float(0.3)
	assert.Equal(t, 1.0, exp.EffectiveMaturity())

	exp.MaturityYears = Float(3.0)
	assert.Equal(t, 3.0, exp.EffectiveMaturity())

	exp.MaturityYears = Float(12.0)
	assert.Equal(t, 5.0, exp.EffectiveMaturity())
}

func TestHasIRBInputs(t *testing.T) {
	exp := NewExposure("corp", ExposureLoan, AssetCorporate, 1, "EUR")
	assert.False(t, exp.HasIRBInputs())

	exp.PD = Float(0.02)
	exp.LGD = Float(0.45)
	assert.False(t, exp.HasIRBInputs(), "PD and LGD alone are not enough without maturity")

	exp.MaturityYears = Float(3)
	assert.True(t, exp.HasIRBInputs())
}

func TestExposureBookClassification(t *testing.T) {
	loan := NewExposure("loan", ExposureLoan, AssetCorporate, 1, "EUR")
	assert.False(t, loan.IsTradingBook())

	// A security without mark-to-market data stays in the banking book.
	heldBond := NewExposure("bond-held", ExposureSecurity, AssetSovereign, 1, "EUR")
	assert.False(t, heldBond.IsTradingBook())

	tradedBond := NewExposure("bond-traded", ExposureSecurity, AssetCorporate, 1, "EUR")
	tradedBond.MarketValue = Float(0.98)
	assert.True(t, tradedBond.IsTradingBook())

	derivative := NewExposure("swap", ExposureDerivative, AssetBank, 1, "EUR")
	derivative.Sensitivities = map[string]float64{"ir_5y": 100}
	assert.True(t, derivative.IsTradingBook())
}

func TestCRMMultiplier(t *testing.T) {
	var none *CreditRiskMitigation
	assert.Equal(t, 1.0, none.RWAMultiplier(), "no mitigation leaves RWA unchanged")

	crm := &CreditRiskMitigation{Effectiveness: 0.4}
	assert.InDelta(t, 0.6, crm.RWAMultiplier(), 1e-12)

	full := &CreditRiskMitigation{Effectiveness: 1.0}
	assert.Equal(t, 0.0, full.RWAMultiplier())
}
