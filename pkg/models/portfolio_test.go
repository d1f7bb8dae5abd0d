package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortfolioValidate(t *testing.T) {
	_, err := NewPortfolio("", "unnamed", "EUR", nil)
	assert.Error(t, err)

	_, err = NewPortfolio("p1", "no currency", "", nil)
	assert.Error(t, err)

	dup := []*Exposure{
		NewExposure("exp-1", ExposureLoan, AssetCorporate, 100, "EUR"),
		NewExposure("exp-1", ExposureLoan, AssetCorporate, 200, "EUR"),
	}
	_, err = NewPortfolio("p1", "dupes", "EUR", dup)
	assert.Error(t, err, "duplicate exposure IDs must be rejected")

	ok := []*Exposure{
		NewExposure("exp-1", ExposureLoan, AssetCorporate, 100, "EUR"),
		NewExposure("exp-2", ExposureLoan, AssetRetailOther, 200, "EUR"),
	}
	p, err := NewPortfolio("p1", "valid", "EUR", ok)
	require.NoError(t, err)
	assert.Equal(t, 300.0, p.TotalCurrentAmount())
}

func TestPortfolioBookSplit(t *testing.T) {
	traded := NewExposure("traded", ExposureSecurity, AssetCorporate, 100, "EUR")
	traded.MarketValue = Float(98)
	exposures := []*Exposure{
		NewExposure("loan", ExposureLoan, AssetCorporate, 100, "EUR"),
		traded,
	}
	p, err := NewPortfolio("p1", "split", "EUR", exposures)
	require.NoError(t, err)

	banking := p.BankingBook()
	trading := p.TradingBook()
	require.Len(t, banking, 1)
	require.Len(t, trading, 1)
	assert.Equal(t, "loan", banking[0].ID)
	assert.Equal(t, "traded", trading[0].ID)
}

func TestPortfolioCloneIsDeep(t *testing.T) {
	exp := NewExposure("exp-1", ExposureLoan, AssetCorporate, 100, "EUR")
	exp.PD = Float(0.02)
	exp.LGD = Float(0.45)
	exp.Sensitivities = map[string]float64{"ir_5y": 10}
	exp.CRM = &CreditRiskMitigation{CollateralType: "real_estate_residential", Effectiveness: 0.3}

	p, err := NewPortfolio("p1", "original", "EUR", []*Exposure{exp})
	require.NoError(t, err)

	clone := p.Clone()
	*clone.Exposures[0].PD = 0.5
	clone.Exposures[0].Sensitivities["ir_5y"] = 999
	clone.Exposures[0].CRM.Effectiveness = 0.9

	assert.Equal(t, 0.02, *exp.PD, "mutating the clone must not touch the original")
	assert.Equal(t, 10.0, exp.Sensitivities["ir_5y"])
	assert.Equal(t, 0.3, exp.CRM.Effectiveness)
}
