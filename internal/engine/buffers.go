package engine

import (
	"github.com/rzzdr/basel-capital-engine/config"
	"github.com/rzzdr/basel-capital-engine/pkg/models"
	"github.com/rzzdr/basel-capital-engine/pkg/utils/logger"
)

// BufferEvaluation is the compliance output for one capital stack.
type BufferEvaluation struct {
	Ratios   models.CapitalRatios
	Required models.RequiredRatios
	Breaches []models.BufferBreach
	// MDAPayoutRestriction is the fraction of earnings distributions
	// blocked under maximum-distributable-amount rules.
	MDAPayoutRestriction float64
}

// BufferEvaluator computes the four capital ratios and compares them
// against minimums plus the configured buffers.
type BufferEvaluator struct {
	cfg *config.RegulatoryConfig
	log *logger.Logger
}

// NewBufferEvaluator creates a buffer evaluator.
func NewBufferEvaluator(cfg *config.RegulatoryConfig) *BufferEvaluator {
	return &BufferEvaluator{
		cfg: cfg,
		log: logger.GetLogger("engine.buffers"),
	}
}

// Evaluate compares the capital stack against requirements.
// totalRWA of zero yields zero ratios rather than a division by zero;
// leverageExposure is the separate on/off-balance denominator supplied
// by the caller.
func (b *BufferEvaluator) Evaluate(tiers models.CapitalTiers, totalRWA, leverageExposure float64) BufferEvaluation {
	ratios := models.CapitalRatios{
		CET1:         safeRatio(tiers.CET1, totalRWA),
		Tier1:        safeRatio(tiers.Tier1, totalRWA),
		TotalCapital: safeRatio(tiers.Total, totalRWA),
		Leverage:     safeRatio(tiers.Tier1, leverageExposure),
	}

	buffer := b.cfg.Buffers.Total()
	required := models.RequiredRatios{
		CET1:         b.cfg.MinimumRatios.CET1 + buffer,
		Tier1:        b.cfg.MinimumRatios.Tier1 + buffer,
		TotalCapital: b.cfg.MinimumRatios.TotalCapital + buffer,
		Leverage:     b.cfg.MinimumRatios.Leverage,
	}

	// Breach order is fixed: cet1, tier1, total_capital, leverage.
	var breaches []models.BufferBreach
	checks := []struct {
		name        string
		actual      float64
		req         float64
		denominator float64
	}{
		{"cet1", ratios.CET1, required.CET1, totalRWA},
		{"tier1", ratios.Tier1, required.Tier1, totalRWA},
		{"total_capital", ratios.TotalCapital, required.TotalCapital, totalRWA},
		{"leverage", ratios.Leverage, required.Leverage, leverageExposure},
	}
	for _, c := range checks {
		if c.denominator == 0 || c.actual >= c.req {
			continue
		}
		shortfall := c.req - c.actual
		breaches = append(breaches, models.BufferBreach{
			Ratio:           c.name,
			Actual:          c.actual,
			Required:        c.req,
			ShortfallRatio:  shortfall,
			ShortfallAmount: shortfall * c.denominator,
		})
	}

	return BufferEvaluation{
		Ratios:               ratios,
		Required:             required,
		Breaches:             breaches,
		MDAPayoutRestriction: b.payoutRestriction(ratios.CET1, totalRWA),
	}
}

// payoutRestriction maps the CET1 position inside the conservation
// buffer onto the distribution restriction quartiles.
func (b *BufferEvaluator) payoutRestriction(cet1Ratio, totalRWA float64) float64 {
	conservation := b.cfg.Buffers.Conservation
	if conservation <= 0 || totalRWA == 0 {
		return 0
	}

	excess := cet1Ratio - b.cfg.MinimumRatios.CET1
	if excess <= 0 {
		return 1.0
	}
	position := excess / conservation
	switch {
	case position <= 0.25:
		return 1.0
	case position <= 0.50:
		return 0.8
	case position <= 0.75:
		return 0.6
	case position < 1.0:
		return 0.4
	default:
		return 0
	}
}

func safeRatio(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}
