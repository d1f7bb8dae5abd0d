package engine

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/rzzdr/basel-capital-engine/config"
	"github.com/rzzdr/basel-capital-engine/pkg/models"
	"github.com/rzzdr/basel-capital-engine/pkg/utils/errors"
	"github.com/rzzdr/basel-capital-engine/pkg/utils/logger"
)

// MarketMethod names the method that produced the market RWA figure.
type MarketMethod string

const (
	MethodSensitivities MarketMethod = "sensitivities"
	MethodVaRFallback   MarketMethod = "var_fallback"
	MethodNone          MarketMethod = "none"
)

// MarketResult is the market risk calculator output.
type MarketResult struct {
	TotalRWA float64
	Method   MarketMethod
	// ClassCharges holds the capital charge per risk class under the
	// sensitivities-based method.
	ClassCharges map[string]float64
}

// MarketCalculator produces market risk-weighted assets for the
// trading book using the sensitivities-based method, falling back to
// a coarse value-at-risk proxy when no exposure carries sensitivities.
type MarketCalculator struct {
	cfg *config.RegulatoryConfig
	log *logger.Logger
}

// NewMarketCalculator creates a market risk calculator.
func NewMarketCalculator(cfg *config.RegulatoryConfig) *MarketCalculator {
	return &MarketCalculator{
		cfg: cfg,
		log: logger.GetLogger("engine.market"),
	}
}

// Calculate computes market RWA over the trading book. An empty
// trading book yields zero RWA. The two methods never mix: the VaR
// fallback is portfolio-level and applies only when the
// sensitivities-based method has no inputs at all.
func (c *MarketCalculator) Calculate(ctx context.Context, portfolio *models.Portfolio) (*MarketResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	trading := portfolio.TradingBook()
	if len(trading) == 0 {
		return &MarketResult{Method: MethodNone}, nil
	}

	hasSensitivities := false
	for _, exp := range trading {
		if len(exp.Sensitivities) > 0 {
			hasSensitivities = true
			break
		}
	}

	if !hasSensitivities {
		return c.varFallback(trading), nil
	}
	return c.sensitivitiesMethod(trading)
}

// varFallback is the coarse portfolio-level substitute: a flat 2%
// daily VaR scaled to a 10-day horizon with the supervisory
// multiplier.
func (c *MarketCalculator) varFallback(trading []*models.Exposure) *MarketResult {
	var marketValue float64
	for _, exp := range trading {
		marketValue += math.Abs(exp.MarketValueOrZero())
	}

	mr := c.cfg.MarketRisk
	dailyVaR := marketValue * mr.VaRDailyFraction
	horizonVaR := dailyVaR * math.Sqrt(mr.VaRHorizonDays)
	return &MarketResult{
		TotalRWA: horizonVaR * mr.VaRMultiplier * 12.5,
		Method:   MethodVaRFallback,
	}
}

// sensitivitiesMethod aggregates risk-weighted deltas within each risk
// class with quadratic correlation aggregation and sums the class
// charges. Class charges never offset one another.
func (c *MarketCalculator) sensitivitiesMethod(trading []*models.Exposure) (*MarketResult, error) {
	// Net deltas by sensitivity key, accumulated in exposure order.
	keys := []string{}
	netDeltas := map[string]float64{}
	for _, exp := range trading {
		for key, delta := range exp.Sensitivities {
			if _, seen := netDeltas[key]; !seen {
				keys = append(keys, key)
			}
			netDeltas[key] += delta
		}
	}
	sort.Strings(keys)

	// Risk-weight each delta and group by risk class.
	classKeys := []string{}
	weighted := map[string][]float64{}
	for _, key := range keys {
		class := riskClassOf(key)
		rw, ok := c.cfg.MarketRisk.RiskWeights[class]
		if !ok {
			return nil, errors.Validation("no market risk weight configured for risk class %q (sensitivity %s)", class, key)
		}
		if _, seen := weighted[class]; !seen {
			classKeys = append(classKeys, class)
		}
		weighted[class] = append(weighted[class], netDeltas[key]*rw)
	}
	sort.Strings(classKeys)

	charges := make(map[string]float64, len(classKeys))
	var capital float64
	for _, class := range classKeys {
		charge := quadraticAggregate(weighted[class], c.cfg.MarketRisk.IntraBucketCorrelation)
		charges[class] = charge
		capital += charge
	}

	return &MarketResult{
		TotalRWA:     capital * 12.5,
		Method:       MethodSensitivities,
		ClassCharges: charges,
	}, nil
}

// quadraticAggregate computes sqrt(sum_i sum_j d_i d_j rho_ij) with
// rho_ij = 1 on the diagonal and corr off it, floored at zero before
// the square root.
func quadraticAggregate(deltas []float64, corr float64) float64 {
	var sumSq, cross float64
	for i, di := range deltas {
		sumSq += di * di
		for j := i + 1; j < len(deltas); j++ {
			cross += 2.0 * corr * di * deltas[j]
		}
	}
	total := sumSq + cross
	if total < 0 {
		total = 0
	}
	return math.Sqrt(total)
}

// riskClassOf maps a sensitivity key prefix onto its risk class.
func riskClassOf(key string) string {
	switch {
	case strings.HasPrefix(key, models.SensitivityInterestRate):
		return "ir"
	case strings.HasPrefix(key, models.SensitivityCreditSpread):
		return "csr"
	case strings.HasPrefix(key, models.SensitivityEquity):
		return "eq"
	case strings.HasPrefix(key, models.SensitivityFX):
		return "fx"
	case strings.HasPrefix(key, models.SensitivityCommodity):
		return "comm"
	default:
		return "other"
	}
}
