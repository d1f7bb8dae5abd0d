package models

import (
	"github.com/rzzdr/basel-capital-engine/pkg/utils/errors"
)

// CapitalComponents holds the balance-sheet inputs to the regulatory
// capital stack. All amounts are in the portfolio base currency and
// must be non-negative; deductions are recorded as positive values and
// subtracted from CET1 only.
type CapitalComponents struct {
	CommonEquity     float64 `json:"common_equity"`
	RetainedEarnings float64 `json:"retained_earnings"`
	AOCI             float64 `json:"aoci"`
	MinorityInterest float64 `json:"minority_interest"`

	Goodwill          float64 `json:"goodwill"`
	Intangibles       float64 `json:"intangibles"`
	DeferredTaxAssets float64 `json:"deferred_tax_assets"`
	OwnShares         float64 `json:"own_shares"`
	OtherDeductions   float64 `json:"other_deductions"`

	AdditionalTier1 float64 `json:"additional_tier1"`

	Tier2Instruments   float64 `json:"tier2_instruments"`
	EligibleProvisions float64 `json:"eligible_provisions"`
}

// Validate rejects negative component values.
func (c *CapitalComponents) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"common_equity", c.CommonEquity},
		{"retained_earnings", c.RetainedEarnings},
		{"aoci", c.AOCI},
		{"minority_interest", c.MinorityInterest},
		{"goodwill", c.Goodwill},
		{"intangibles", c.Intangibles},
		{"deferred_tax_assets", c.DeferredTaxAssets},
		{"own_shares", c.OwnShares},
		{"other_deductions", c.OtherDeductions},
		{"additional_tier1", c.AdditionalTier1},
		{"tier2_instruments", c.Tier2Instruments},
		{"eligible_provisions", c.EligibleProvisions},
	}
	for _, f := range fields {
		if f.value < 0 {
			return errors.Validation("capital component %s is negative: %.2f", f.name, f.value)
		}
	}
	return nil
}

// CET1 returns common equity tier 1 after regulatory deductions,
// floored at zero.
func (c *CapitalComponents) CET1() float64 {
	gross := c.CommonEquity + c.RetainedEarnings + c.AOCI + c.MinorityInterest
	deductions := c.Goodwill + c.Intangibles + c.DeferredTaxAssets + c.OwnShares + c.OtherDeductions
	net := gross - deductions
	if net < 0 {
		return 0
	}
	return net
}

// Tier1 returns CET1 plus additional tier 1 instruments.
func (c *CapitalComponents) Tier1() float64 {
	return c.CET1() + c.AdditionalTier1
}

// EligibleTier2 caps tier 2 capital at 100% of tier 1.
func (c *CapitalComponents) EligibleTier2() float64 {
	t2 := c.Tier2Instruments + c.EligibleProvisions
	if t1 := c.Tier1(); t2 > t1 {
		return t1
	}
	return t2
}

// Total returns tier 1 plus eligible tier 2 capital.
func (c *CapitalComponents) Total() float64 {
	return c.Tier1() + c.EligibleTier2()
}

// Tiers materializes the three capital levels. The hierarchy
// CET1 <= Tier1 <= Total holds by construction.
func (c *CapitalComponents) Tiers() CapitalTiers {
	return CapitalTiers{
		CET1:  c.CET1(),
		Tier1: c.Tier1(),
		Total: c.Total(),
	}
}

// CapitalTiers is the computed capital stack.
type CapitalTiers struct {
	CET1  float64 `json:"cet1"`
	Tier1 float64 `json:"tier1"`
	Total float64 `json:"total"`
}
