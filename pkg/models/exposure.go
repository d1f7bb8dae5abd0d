package models

import (
	"github.com/rzzdr/basel-capital-engine/pkg/utils/errors"
)

// ExposureType categorizes an exposure by instrument kind.
type ExposureType string

const (
	ExposureLoan            ExposureType = "loan"
	ExposureSecurity        ExposureType = "security"
	ExposureDerivative      ExposureType = "derivative"
	ExposureOffBalanceSheet ExposureType = "off_balance_sheet"
	ExposureOther           ExposureType = "other"
)

// AssetClass is the regulatory counterparty class used for risk
// weighting and IRB eligibility.
type AssetClass string

const (
	AssetSovereign      AssetClass = "sovereign"
	AssetBank           AssetClass = "bank"
	AssetCorporate      AssetClass = "corporate"
	AssetRetailMortgage AssetClass = "retail_mortgage"
	AssetRetailOther    AssetClass = "retail_other"
	AssetClassOther     AssetClass = "other"
)

// Sensitivity key prefixes for the sensitivities-based market risk
// method. Keys look like "ir_5y", "fx_eur", "eq_large_cap".
const (
	SensitivityInterestRate = "ir_"
	SensitivityCreditSpread = "csr_"
	SensitivityEquity       = "eq_"
	SensitivityFX           = "fx_"
	SensitivityCommodity    = "comm_"
)

// DefaultCCF is applied to off-balance-sheet amounts when the exposure
// does not carry its own credit conversion factor.
const DefaultCCF = 0.5

// CreditRiskMitigation describes collateral or guarantees attached to
// an exposure. Effectiveness is the fraction of the risk-weighted
// amount the mitigation removes, already net of haircuts.
type CreditRiskMitigation struct {
	CollateralType  string  `json:"collateral_type,omitempty"`
	CollateralValue float64 `json:"collateral_value,omitempty"`
	GuaranteeAmount float64 `json:"guarantee_amount,omitempty"`
	Effectiveness   float64 `json:"effectiveness"`
}

// RWAMultiplier returns the factor applied to the risk-weighted amount
// after mitigation.
func (c *CreditRiskMitigation) RWAMultiplier() float64 {
	if c == nil {
		return 1.0
	}
	eff := c.Effectiveness
	if eff < 0 {
		eff = 0
	}
	if eff > 1 {
		eff = 1
	}
	return 1.0 - eff
}

// Exposure is a single position held by the bank. Optional numeric
// fields are pointers: nil means "not supplied", which is distinct
// from zero for PD, market value and maturity.
type Exposure struct {
	ID             string       `json:"id"`
	CounterpartyID string       `json:"counterparty_id,omitempty"`
	Type           ExposureType `json:"type"`
	AssetClass     AssetClass   `json:"asset_class"`
	// OriginalAmount is the amount at origination; zero means it was
	// not recorded and CurrentAmount stands alone.
	OriginalAmount float64               `json:"original_amount,omitempty"`
	CurrentAmount  float64               `json:"current_amount"`
	Currency       string                `json:"currency"`
	Rating         string                `json:"rating,omitempty"`
	Sector         string                `json:"sector,omitempty"`
	PD             *float64              `json:"pd,omitempty"`
	LGD            *float64              `json:"lgd,omitempty"`
	MaturityYears  *float64              `json:"maturity_years,omitempty"`
	CCF            *float64              `json:"ccf,omitempty"`
	MarketValue    *float64              `json:"market_value,omitempty"`
	DurationYears  *float64              `json:"duration_years,omitempty"`
	Sensitivities  map[string]float64    `json:"sensitivities,omitempty"`
	CRM            *CreditRiskMitigation `json:"crm,omitempty"`
}

// NewExposure creates an exposure with the required fields set.
func NewExposure(id string, expType ExposureType, assetClass AssetClass, amount float64, currency string) *Exposure {
	return &Exposure{
		ID:            id,
		Type:          expType,
		AssetClass:    assetClass,
		CurrentAmount: amount,
		Currency:      currency,
	}
}

// Validate checks the exposure against the domain invariants.
func (e *Exposure) Validate() error {
	if e.ID == "" {
		return errors.Validation("exposure has empty ID")
	}
	switch e.Type {
	case ExposureLoan, ExposureSecurity, ExposureDerivative, ExposureOffBalanceSheet, ExposureOther:
	default:
		return errors.Validation("exposure %s: unknown type %q", e.ID, e.Type)
	}
	switch e.AssetClass {
	case AssetSovereign, AssetBank, AssetCorporate, AssetRetailMortgage,
		AssetRetailOther, AssetClassOther:
	default:
		return errors.Validation("exposure %s: unknown asset class %q", e.ID, e.AssetClass)
	}
	if e.CurrentAmount < 0 {
		return errors.Validation("exposure %s: current amount %.2f is negative", e.ID, e.CurrentAmount)
	}
	if e.OriginalAmount < 0 {
		return errors.Validation("exposure %s: original amount %.2f is negative", e.ID, e.OriginalAmount)
	}
	if e.Currency == "" {
		return errors.Validation("exposure %s: empty currency", e.ID)
	}
	if e.PD != nil && (*e.PD <= 0 || *e.PD >= 1) {
		return errors.Validation("exposure %s: PD %.6f outside (0, 1)", e.ID, *e.PD)
	}
	if e.LGD != nil && (*e.LGD < 0 || *e.LGD > 1) {
		return errors.Validation("exposure %s: LGD %.4f outside [0, 1]", e.ID, *e.LGD)
	}
	if e.MaturityYears != nil && *e.MaturityYears <= 0 {
		return errors.Validation("exposure %s: maturity %.4f must be positive", e.ID, *e.MaturityYears)
	}
	if e.CCF != nil && (*e.CCF < 0 || *e.CCF > 1) {
		return errors.Validation("exposure %s: CCF %.4f outside [0, 1]", e.ID, *e.CCF)
	}
	if e.CRM != nil && (e.CRM.Effectiveness < 0 || e.CRM.Effectiveness > 1) {
		return errors.Validation("exposure %s: CRM effectiveness %.4f outside [0, 1]", e.ID, e.CRM.Effectiveness)
	}
	return nil
}

// EAD returns the exposure at default. Off-balance-sheet amounts are
// converted with the exposure's CCF, falling back to DefaultCCF.
func (e *Exposure) EAD() float64 {
	if e.Type == ExposureOffBalanceSheet {
		ccf := DefaultCCF
		if e.CCF != nil {
			ccf = *e.CCF
		}
		return e.CurrentAmount * ccf
	}
	return e.CurrentAmount
}

// EffectiveMaturity returns the maturity used by the IRB maturity
// adjustment: floored at 1 year, capped at 5, defaulting to 2.5 when
// no maturity is supplied.
func (e *Exposure) EffectiveMaturity() float64 {
	if e.MaturityYears == nil {
		return 2.5
	}
	m := *e.MaturityYears
	if m < 1.0 {
		return 1.0
	}
	if m > 5.0 {
		return 5.0
	}
	return m
}

// IsTradingBook reports whether the exposure belongs to the trading
// book: marked-to-market securities and derivatives.
func (e *Exposure) IsTradingBook() bool {
	if e.Type != ExposureSecurity && e.Type != ExposureDerivative {
		return false
	}
	return e.MarketValue != nil || len(e.Sensitivities) > 0
}

// HasIRBInputs reports whether the exposure carries the risk
// parameters the internal ratings-based approach needs: PD, LGD and
// maturity must all be present.
func (e *Exposure) HasIRBInputs() bool {
	return e.PD != nil && e.LGD != nil && e.MaturityYears != nil
}

// MarketValueOrZero returns the market value, or zero when absent.
func (e *Exposure) MarketValueOrZero() float64 {
	if e.MarketValue == nil {
		return 0
	}
	return *e.MarketValue
}

// IsRetail reports whether the exposure falls in a retail asset class.
func (e *Exposure) IsRetail() bool {
	return e.AssetClass == AssetRetailMortgage || e.AssetClass == AssetRetailOther
}

// Float returns a pointer to v, for filling optional exposure fields.
func Float(v float64) *float64 {
	return &v
}
