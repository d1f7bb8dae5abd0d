package models

import (
	"time"

	"github.com/rzzdr/basel-capital-engine/pkg/utils/errors"
)

// Portfolio is an immutable collection of exposures in a single base
// currency. Calculators never modify a portfolio; stress scenarios
// produce transformed copies.
type Portfolio struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	BankName      string      `json:"bank_name,omitempty"`
	ReportingDate time.Time   `json:"reporting_date,omitempty"`
	BaseCurrency  string      `json:"base_currency"`
	Exposures     []*Exposure `json:"exposures"`
}

// NewPortfolio builds and validates a portfolio.
func NewPortfolio(id, name, baseCurrency string, exposures []*Exposure) (*Portfolio, error) {
	p := &Portfolio{
		ID:           id,
		Name:         name,
		BaseCurrency: baseCurrency,
		Exposures:    exposures,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the portfolio and every exposure in it. Exposure IDs
// must be unique within the portfolio.
func (p *Portfolio) Validate() error {
	if p.ID == "" {
		return errors.Validation("portfolio has empty ID")
	}
	if p.BaseCurrency == "" {
		return errors.Validation("portfolio %s: empty base currency", p.ID)
	}
	seen := make(map[string]struct{}, len(p.Exposures))
	for _, exp := range p.Exposures {
		if err := exp.Validate(); err != nil {
			return err
		}
		if _, dup := seen[exp.ID]; dup {
			return errors.Validation("portfolio %s: duplicate exposure ID %s", p.ID, exp.ID)
		}
		seen[exp.ID] = struct{}{}
	}
	return nil
}

// BankingBook returns the exposures outside the trading book.
func (p *Portfolio) BankingBook() []*Exposure {
	out := make([]*Exposure, 0, len(p.Exposures))
	for _, exp := range p.Exposures {
		if !exp.IsTradingBook() {
			out = append(out, exp)
		}
	}
	return out
}

// TradingBook returns the trading-book exposures.
func (p *Portfolio) TradingBook() []*Exposure {
	var out []*Exposure
	for _, exp := range p.Exposures {
		if exp.IsTradingBook() {
			out = append(out, exp)
		}
	}
	return out
}

// TotalCurrentAmount sums notional amounts across the portfolio.
func (p *Portfolio) TotalCurrentAmount() float64 {
	var total float64
	for _, exp := range p.Exposures {
		total += exp.CurrentAmount
	}
	return total
}

// TotalEAD sums exposure-at-default across the portfolio.
func (p *Portfolio) TotalEAD() float64 {
	var total float64
	for _, exp := range p.Exposures {
		total += exp.EAD()
	}
	return total
}

// Clone returns a deep copy of the portfolio. Stress transmission
// works on clones so the baseline portfolio stays untouched.
func (p *Portfolio) Clone() *Portfolio {
	exposures := make([]*Exposure, len(p.Exposures))
	for i, exp := range p.Exposures {
		cp := *exp
		if exp.PD != nil {
			cp.PD = Float(*exp.PD)
		}
		if exp.LGD != nil {
			cp.LGD = Float(*exp.LGD)
		}
		if exp.MaturityYears != nil {
			cp.MaturityYears = Float(*exp.MaturityYears)
		}
		if exp.CCF != nil {
			cp.CCF = Float(*exp.CCF)
		}
		if exp.MarketValue != nil {
			cp.MarketValue = Float(*exp.MarketValue)
		}
		if exp.DurationYears != nil {
			cp.DurationYears = Float(*exp.DurationYears)
		}
		if exp.Sensitivities != nil {
			sens := make(map[string]float64, len(exp.Sensitivities))
			for k, v := range exp.Sensitivities {
				sens[k] = v
			}
			cp.Sensitivities = sens
		}
		if exp.CRM != nil {
			crm := *exp.CRM
			cp.CRM = &crm
		}
		exposures[i] = &cp
	}
	return &Portfolio{
		ID:            p.ID,
		Name:          p.Name,
		BankName:      p.BankName,
		ReportingDate: p.ReportingDate,
		BaseCurrency:  p.BaseCurrency,
		Exposures:     exposures,
	}
}
