package engine

import (
	"github.com/rzzdr/basel-capital-engine/config"
	"github.com/rzzdr/basel-capital-engine/pkg/models"
)

// LeverageExposure computes the leverage ratio denominator: on-balance
// amounts, derivative replacement cost plus potential-future-exposure
// add-ons, and off-balance-sheet notionals at the leverage CCF. The
// measure deliberately ignores risk weights and mitigation.
func LeverageExposure(portfolio *models.Portfolio, cfg *config.RegulatoryConfig) float64 {
	var total float64
	for _, exp := range portfolio.Exposures {
		switch exp.Type {
		case models.ExposureDerivative:
			replacement := exp.MarketValueOrZero()
			if replacement < 0 {
				replacement = 0
			}
			addOn, ok := cfg.Leverage.DerivativeAddOns[string(exp.AssetClass)]
			if !ok {
				addOn = cfg.Leverage.DefaultAddOn
			}
			total += replacement + exp.CurrentAmount*addOn
		case models.ExposureOffBalanceSheet:
			total += exp.CurrentAmount * cfg.Leverage.OffBalanceCCF
		default:
			total += exp.CurrentAmount
		}
	}
	return total
}
