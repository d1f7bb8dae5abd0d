package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapitalStack(t *testing.T) {
	capital := &CapitalComponents{
		CommonEquity:     1_000_000,
		RetainedEarnings: 500_000,
		Goodwill:         100_000,
	}
	require.NoError(t, capital.Validate())
	assert.Equal(t, 1_400_000.0, capital.CET1())

	capital.AdditionalTier1 = 200_000
	assert.Equal(t, 1_600_000.0, capital.Tier1())

	capital.Tier2Instruments = 300_000
	assert.Equal(t, 1_900_000.0, capital.Total())
}

func TestCET1FlooredAtZero(t *testing.T) {
	capital := &CapitalComponents{
		CommonEquity: 100_000,
		Goodwill:     500_000,
	}
	assert.Equal(t, 0.0, capital.CET1(), "deductions exceeding equity floor CET1 at zero")
}

func TestEligibleTier2CappedAtTier1(t *testing.T) {
	capital := &CapitalComponents{
		CommonEquity:       1_000_000,
		Tier2Instruments:   1_500_000,
		EligibleProvisions: 500_000,
	}
	assert.Equal(t, 1_000_000.0, capital.EligibleTier2())
	assert.Equal(t, 2_000_000.0, capital.Total())
}

func TestCapitalHierarchy(t *testing.T) {
	cases := []*CapitalComponents{
		{},
		{CommonEquity: 1e6},
		{CommonEquity: 1e6, AdditionalTier1: 2e5, Tier2Instruments: 3e5},
		{CommonEquity: 1e5, Goodwill: 5e5, AdditionalTier1: 1e5},
		{CommonEquity: 1e6, Tier2Instruments: 5e6},
	}
	for _, capital := range cases {
		tiers := capital.Tiers()
		assert.GreaterOrEqual(t, tiers.CET1, 0.0)
		assert.GreaterOrEqual(t, tiers.Tier1, tiers.CET1)
		assert.GreaterOrEqual(t, tiers.Total, tiers.Tier1)
	}
}

func TestCapitalValidateRejectsNegatives(t *testing.T) {
	capital := &CapitalComponents{CommonEquity: -1}
	assert.Error(t, capital.Validate())

	capital = &CapitalComponents{Goodwill: -100}
	assert.Error(t, capital.Validate())
}
