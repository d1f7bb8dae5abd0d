package models

import (
	"github.com/rzzdr/basel-capital-engine/pkg/utils/errors"
)

// BusinessIndicatorData carries the annualized P&L lines feeding the
// standardized measurement approach business indicator. Values are
// averages over the trailing three years, in base currency.
type BusinessIndicatorData struct {
	InterestIncome  float64 `json:"interest_income"`
	InterestExpense float64 `json:"interest_expense"`
	DividendIncome  float64 `json:"dividend_income"`
	FeeIncome       float64 `json:"fee_income"`
	FeeExpense      float64 `json:"fee_expense"`
	TradingPnL      float64 `json:"trading_pnl"`
	OtherIncome     float64 `json:"other_income"`
	OtherExpense    float64 `json:"other_expense"`
}

// Validate rejects negative gross income and expense lines. TradingPnL
// may legitimately be negative.
func (b *BusinessIndicatorData) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"interest_income", b.InterestIncome},
		{"interest_expense", b.InterestExpense},
		{"dividend_income", b.DividendIncome},
		{"fee_income", b.FeeIncome},
		{"fee_expense", b.FeeExpense},
		{"other_income", b.OtherIncome},
		{"other_expense", b.OtherExpense},
	}
	for _, f := range fields {
		if f.value < 0 {
			return errors.Validation("business indicator %s is negative: %.2f", f.name, f.value)
		}
	}
	return nil
}

// OperationalLossData is the internal loss history used by the loss
// component of the SMA.
type OperationalLossData struct {
	// AnnualLosses are total operational losses per year, most recent
	// last. Ten years of history is the regulatory norm; fewer years
	// are averaged as-is.
	AnnualLosses []float64 `json:"annual_losses"`
}

// Validate rejects negative loss years.
func (l *OperationalLossData) Validate() error {
	for i, v := range l.AnnualLosses {
		if v < 0 {
			return errors.Validation("annual loss for year %d is negative: %.2f", i, v)
		}
	}
	return nil
}

// AverageAnnualLoss returns the mean annual loss, or zero with no
// history.
func (l *OperationalLossData) AverageAnnualLoss() float64 {
	if l == nil || len(l.AnnualLosses) == 0 {
		return 0
	}
	var sum float64
	for _, v := range l.AnnualLosses {
		sum += v
	}
	return sum / float64(len(l.AnnualLosses))
}
