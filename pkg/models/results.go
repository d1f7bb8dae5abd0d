package models

import (
	"time"
)

// CreditApproach names the method that produced an exposure's risk
// weight.
type CreditApproach string

const (
	ApproachStandardized CreditApproach = "standardized"
	ApproachIRB          CreditApproach = "irb"
)

// ExposureRWA is the per-exposure credit risk detail row.
type ExposureRWA struct {
	ExposureID string         `json:"exposure_id"`
	Approach   CreditApproach `json:"approach"`
	EAD        float64        `json:"ead"`
	RiskWeight float64        `json:"risk_weight"`
	RWA        float64        `json:"rwa"`
}

// RWABreakdown splits total risk-weighted assets by risk type.
type RWABreakdown struct {
	Credit      float64 `json:"credit"`
	Market      float64 `json:"market"`
	Operational float64 `json:"operational"`
	Total       float64 `json:"total"`
}

// CapitalRatios are the four computed regulatory ratios.
type CapitalRatios struct {
	CET1         float64 `json:"cet1"`
	Tier1        float64 `json:"tier1"`
	TotalCapital float64 `json:"total_capital"`
	Leverage     float64 `json:"leverage"`
}

// RequiredRatios are the effective minimums after buffers.
type RequiredRatios struct {
	CET1         float64 `json:"cet1"`
	Tier1        float64 `json:"tier1"`
	TotalCapital float64 `json:"total_capital"`
	Leverage     float64 `json:"leverage"`
}

// BufferBreach records one ratio falling below its requirement.
type BufferBreach struct {
	Ratio           string  `json:"ratio"`
	Actual          float64 `json:"actual"`
	Required        float64 `json:"required"`
	ShortfallRatio  float64 `json:"shortfall_ratio"`
	ShortfallAmount float64 `json:"shortfall_amount"`
}

// CapitalResults is the full output of one engine run. Results are
// immutable once produced.
type CapitalResults struct {
	PortfolioID      string          `json:"portfolio_id"`
	CalculatedAt     time.Time       `json:"calculated_at"`
	RWA              RWABreakdown    `json:"rwa"`
	CreditDetail     []ExposureRWA   `json:"credit_detail,omitempty"`
	Capital          CapitalTiers    `json:"capital"`
	Ratios           CapitalRatios   `json:"ratios"`
	Required         RequiredRatios  `json:"required"`
	Breaches         []BufferBreach  `json:"breaches,omitempty"`
	Compliant        bool            `json:"compliant"`
	LeverageExposure float64         `json:"leverage_exposure"`
	// MDAPayoutRestriction is the fraction of distributions blocked
	// while CET1 sits inside the conservation buffer; 0 when the
	// buffer is intact.
	MDAPayoutRestriction float64 `json:"mda_payout_restriction"`
}

// RatioDelta compares one ratio between baseline and stressed runs.
type RatioDelta struct {
	Baseline float64 `json:"baseline"`
	Stressed float64 `json:"stressed"`
	Delta    float64 `json:"delta"`
	DeltaBps float64 `json:"delta_bps"`
}

// StressDelta is the baseline-vs-stressed comparison block.
type StressDelta struct {
	Capital         CapitalTiers   `json:"capital"`
	RWA             RWABreakdown   `json:"rwa"`
	CET1Ratio       RatioDelta     `json:"cet1_ratio"`
	Tier1Ratio      RatioDelta     `json:"tier1_ratio"`
	TotalRatio      RatioDelta     `json:"total_capital_ratio"`
	LeverageRatio   RatioDelta     `json:"leverage_ratio"`
	NewBreaches     []BufferBreach `json:"new_breaches,omitempty"`
	ClearedBreaches []string       `json:"cleared_breaches,omitempty"`
}

// StressResults pairs a baseline and a stressed engine run under one
// scenario.
type StressResults struct {
	Scenario     string          `json:"scenario"`
	ScenarioType ScenarioType    `json:"scenario_type"`
	PortfolioID  string          `json:"portfolio_id"`
	RunAt        time.Time       `json:"run_at"`
	Baseline     *CapitalResults `json:"baseline"`
	Stressed     *CapitalResults `json:"stressed"`
	Delta        StressDelta     `json:"delta"`
}
