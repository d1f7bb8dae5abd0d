package engine

import (
	"context"
	"math"

	"github.com/rzzdr/basel-capital-engine/config"
	"github.com/rzzdr/basel-capital-engine/pkg/models"
	"github.com/rzzdr/basel-capital-engine/pkg/utils/errors"
	"github.com/rzzdr/basel-capital-engine/pkg/utils/logger"
)

// OperationalResult is the operational risk calculator output with the
// SMA intermediates kept for reporting.
type OperationalResult struct {
	TotalRWA          float64
	BusinessIndicator float64
	BIC               float64
	ILM               float64
}

// OperationalCalculator implements the Basel III standardized
// measurement approach.
type OperationalCalculator struct {
	cfg *config.RegulatoryConfig
	log *logger.Logger
}

// NewOperationalCalculator creates an SMA calculator.
func NewOperationalCalculator(cfg *config.RegulatoryConfig) *OperationalCalculator {
	return &OperationalCalculator{
		cfg: cfg,
		log: logger.GetLogger("engine.operational"),
	}
}

// Calculate derives operational RWA from business indicator inputs and
// the internal loss history. losses may be nil when no loss data is
// collected, which pins the loss multiplier at 1.
func (c *OperationalCalculator) Calculate(ctx context.Context, bi *models.BusinessIndicatorData, losses *models.OperationalLossData) (*OperationalResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if bi == nil {
		return nil, errors.Validation("operational risk requires business indicator data")
	}

	indicator := businessIndicator(bi)
	if indicator < 0 {
		return nil, errors.Computation("business indicator is negative: %.2f", indicator)
	}
	if indicator == 0 {
		return &OperationalResult{ILM: 1.0}, nil
	}

	bic := c.businessIndicatorComponent(indicator)
	ilm, err := c.lossMultiplier(indicator, losses)
	if err != nil {
		return nil, err
	}

	return &OperationalResult{
		TotalRWA:          bic * ilm * 12.5,
		BusinessIndicator: indicator,
		BIC:               bic,
		ILM:               ilm,
	}, nil
}

// businessIndicator sums the interest, services and financial
// components of the BI.
func businessIndicator(bi *models.BusinessIndicatorData) float64 {
	ildc := math.Abs(bi.InterestIncome-bi.InterestExpense) + bi.DividendIncome
	sctb := math.Max(0, bi.FeeIncome-bi.FeeExpense)
	fb := math.Abs(bi.TradingPnL) + math.Abs(bi.OtherIncome-bi.OtherExpense)
	return ildc + sctb + fb
}

// businessIndicatorComponent applies the marginal coefficients
// piecewise across the buckets the BI spans.
func (c *OperationalCalculator) businessIndicatorComponent(bi float64) float64 {
	op := c.cfg.OperationalRisk
	t1, t2 := op.Bucket1Threshold, op.Bucket2Threshold
	a := op.MarginalCoefficients

	switch {
	case bi <= t1:
		return bi * a[0]
	case bi <= t2:
		return t1*a[0] + (bi-t1)*a[1]
	default:
		return t1*a[0] + (t2-t1)*a[1] + (bi-t2)*a[2]
	}
}

// lossMultiplier computes the internal loss multiplier. Average annual
// losses at or below the threshold yield exactly 1, deliberately
// skipping the formula.
func (c *OperationalCalculator) lossMultiplier(bi float64, losses *models.OperationalLossData) (float64, error) {
	op := c.cfg.OperationalRisk
	avgLoss := losses.AverageAnnualLoss()
	if avgLoss <= op.ILMLossThreshold {
		return 1.0, nil
	}

	arg := math.E - 1.0 + math.Pow(avgLoss/bi, op.ILMExponent)
	if arg <= 0 {
		return 0, errors.Computation("loss multiplier log argument is non-positive (losses %.2f, BI %.2f)", avgLoss, bi)
	}

	ilm := math.Log(arg)
	if ilm < op.ILMFloor {
		ilm = op.ILMFloor
	}
	if ilm > op.ILMCap {
		ilm = op.ILMCap
	}
	return ilm, nil
}
