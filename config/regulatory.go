package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/rzzdr/basel-capital-engine/pkg/utils/errors"
)

// RegulatoryConfig holds every regulatory parameter the calculators
// consume. It is injected explicitly into each calculator so that
// concurrent calculations with different parameter sets cannot
// interfere; it is never reloaded mid-calculation.
type RegulatoryConfig struct {
	// RiskWeights maps asset class -> rating bucket -> risk weight.
	// Every class must carry an "unrated" bucket.
	RiskWeights map[string]map[string]float64 `mapstructure:"risk_weights"`

	IRB             IRBConfig             `mapstructure:"irb"`
	MarketRisk      MarketRiskConfig      `mapstructure:"market_risk"`
	OperationalRisk OperationalRiskConfig `mapstructure:"operational_risk"`
	MinimumRatios   MinimumRatios         `mapstructure:"minimum_ratios"`
	Buffers         BufferConfig          `mapstructure:"buffers"`
	Leverage        LeverageConfig        `mapstructure:"leverage"`
	Stress          StressConfig          `mapstructure:"stress"`
}

// IRBConfig parameterizes the internal ratings-based approach.
type IRBConfig struct {
	// EligibleClasses lists the asset classes that may use IRB when
	// the exposure carries the full PD/LGD/maturity parameter set.
	EligibleClasses []string `mapstructure:"eligible_classes"`
	// ConfidenceLevel is the supervisory quantile, 0.999 under Basel.
	ConfidenceLevel float64 `mapstructure:"confidence_level"`
}

// Eligible reports whether an asset class may use the IRB approach.
func (c IRBConfig) Eligible(assetClass string) bool {
	for _, cls := range c.EligibleClasses {
		if cls == assetClass {
			return true
		}
	}
	return false
}

// MarketRiskConfig parameterizes the sensitivities-based method and
// the VaR fallback.
type MarketRiskConfig struct {
	// RiskWeights maps a risk-class prefix (ir, csr, eq, fx, comm) to
	// the weight applied to raw deltas before aggregation.
	RiskWeights map[string]float64 `mapstructure:"risk_weights"`
	// IntraBucketCorrelation is the pairwise correlation between
	// weighted sensitivities inside one risk class. Class charges are
	// summed without offsetting, so no cross-class parameter exists.
	IntraBucketCorrelation float64 `mapstructure:"intra_bucket_correlation"`

	VaRDailyFraction float64 `mapstructure:"var_daily_fraction"`
	VaRHorizonDays   float64 `mapstructure:"var_horizon_days"`
	VaRMultiplier    float64 `mapstructure:"var_multiplier"`
}

// OperationalRiskConfig parameterizes the standardized measurement
// approach.
type OperationalRiskConfig struct {
	Bucket1Threshold float64 `mapstructure:"bucket1_threshold"`
	Bucket2Threshold float64 `mapstructure:"bucket2_threshold"`
	// MarginalCoefficients are applied piecewise across the three
	// business-indicator buckets.
	MarginalCoefficients []float64 `mapstructure:"marginal_coefficients"`
	// ILMLossThreshold is the average annual loss below which the
	// internal loss multiplier is exactly 1.
	ILMLossThreshold float64 `mapstructure:"ilm_loss_threshold"`
	ILMExponent      float64 `mapstructure:"ilm_exponent"`
	ILMFloor         float64 `mapstructure:"ilm_floor"`
	ILMCap           float64 `mapstructure:"ilm_cap"`
}

// MinimumRatios are the Pillar 1 minimums before buffers.
type MinimumRatios struct {
	CET1         float64 `mapstructure:"cet1"`
	Tier1        float64 `mapstructure:"tier1"`
	TotalCapital float64 `mapstructure:"total_capital"`
	Leverage     float64 `mapstructure:"leverage"`
}

// BufferConfig holds the four capital buffers. Each is individually
// optional; zero disables it. Of the two systemic buffers only the
// higher applies.
type BufferConfig struct {
	Conservation    float64 `mapstructure:"conservation"`
	Countercyclical float64 `mapstructure:"countercyclical"`
	GSIB            float64 `mapstructure:"gsib"`
	DSIB            float64 `mapstructure:"dsib"`
}

// Total returns the combined buffer requirement on top of minimum
// CET1.
func (b BufferConfig) Total() float64 {
	systemic := b.GSIB
	if b.DSIB > systemic {
		systemic = b.DSIB
	}
	return b.Conservation + b.Countercyclical + systemic
}

// LeverageConfig parameterizes the leverage exposure measure.
type LeverageConfig struct {
	// DerivativeAddOns maps asset class to the potential future
	// exposure add-on factor applied to derivative notionals.
	DerivativeAddOns map[string]float64 `mapstructure:"derivative_add_ons"`
	DefaultAddOn     float64            `mapstructure:"default_add_on"`
	// OffBalanceCCF converts off-balance-sheet notionals into the
	// exposure measure; distinct from the credit-risk CCF.
	OffBalanceCCF float64 `mapstructure:"off_balance_ccf"`
}

// StressConfig parameterizes scenario transmission.
type StressConfig struct {
	// GDPAmplification converts a GDP contraction into a log-odds PD
	// shift when the scenario has no explicit default-rate shock.
	GDPAmplification float64 `mapstructure:"gdp_amplification"`
	// CapitalErosion scales the retained-earnings hit per unit of GDP
	// contraction.
	CapitalErosion float64 `mapstructure:"capital_erosion"`
	// MaxStressedPD caps PD after transmission.
	MaxStressedPD float64 `mapstructure:"max_stressed_pd"`
}

// Validate rejects a configuration missing any required section.
// Regulatory parameters are never silently defaulted.
func (c *RegulatoryConfig) Validate() error {
	var missing []string

	if len(c.RiskWeights) == 0 {
		missing = append(missing, "risk_weights")
	} else {
		for class, table := range c.RiskWeights {
			if _, ok := table["unrated"]; !ok {
				return errors.Configuration("risk_weights.%s is missing the unrated bucket", class)
			}
		}
	}
	if c.IRB.ConfidenceLevel <= 0 || c.IRB.ConfidenceLevel >= 1 {
		missing = append(missing, "irb")
	}
	if len(c.MarketRisk.RiskWeights) == 0 || c.MarketRisk.VaRDailyFraction <= 0 {
		missing = append(missing, "market_risk")
	}
	if len(c.OperationalRisk.MarginalCoefficients) != 3 || c.OperationalRisk.Bucket1Threshold <= 0 {
		missing = append(missing, "operational_risk")
	}
	if c.MinimumRatios.CET1 <= 0 || c.MinimumRatios.Tier1 <= 0 ||
		c.MinimumRatios.TotalCapital <= 0 || c.MinimumRatios.Leverage <= 0 {
		missing = append(missing, "minimum_ratios")
	}
	if c.Buffers.Conservation < 0 || c.Buffers.Countercyclical < 0 ||
		c.Buffers.GSIB < 0 || c.Buffers.DSIB < 0 {
		missing = append(missing, "buffers")
	}
	if c.Leverage.OffBalanceCCF <= 0 {
		missing = append(missing, "leverage")
	}
	if c.Stress.MaxStressedPD <= 0 || c.Stress.MaxStressedPD >= 1 {
		missing = append(missing, "stress")
	}

	if len(missing) > 0 {
		return errors.Configuration("regulatory config missing or invalid sections: %s", strings.Join(missing, ", "))
	}
	return nil
}

// LoadRegulatory reads the regulatory parameter file at path and
// validates it. An empty path returns the built-in Basel parameter
// set.
func LoadRegulatory(path string) (*RegulatoryConfig, error) {
	if path == "" {
		return DefaultRegulatory(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Configuration("failed to read regulatory config %s: %v", path, err)
	}

	var cfg RegulatoryConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Configuration("failed to unmarshal regulatory config %s: %v", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultRegulatory returns the Basel III parameter set the engine
// ships with. Callers needing jurisdiction-specific parameters load
// their own file instead.
func DefaultRegulatory() *RegulatoryConfig {
	return &RegulatoryConfig{
		RiskWeights: map[string]map[string]float64{
			"sovereign": {
				"aaa_aa":  0.0,
				"a":       0.2,
				"bbb":     0.5,
				"bb_b":    1.0,
				"below_b": 1.5,
				"unrated": 1.0,
			},
			"bank": {
				"aaa_aa":  0.2,
				"a":       0.5,
				"bbb":     0.5,
				"bb_b":    1.0,
				"below_b": 1.5,
				"unrated": 0.5,
			},
			"corporate": {
				"aaa_aa":  0.2,
				"a":       0.5,
				"bbb":     0.75,
				"bb_b":    1.0,
				"below_b": 1.5,
				"unrated": 1.0,
			},
			"retail_mortgage": {
				"unrated": 0.35,
			},
			"retail_other": {
				"unrated": 0.75,
			},
			"other": {
				"unrated": 1.0,
			},
		},
		IRB: IRBConfig{
			EligibleClasses: []string{"corporate", "bank", "sovereign"},
			ConfidenceLevel: 0.999,
		},
		MarketRisk: MarketRiskConfig{
			RiskWeights: map[string]float64{
				"ir":   0.017,
				"csr":  0.050,
				"eq":   0.300,
				"fx":   0.300,
				"comm": 0.350,
			},
			IntraBucketCorrelation: 0.50,
			VaRDailyFraction:       0.02,
			VaRHorizonDays:         10,
			VaRMultiplier:          3.0,
		},
		OperationalRisk: OperationalRiskConfig{
			Bucket1Threshold:     1e9,
			Bucket2Threshold:     3e10,
			MarginalCoefficients: []float64{0.12, 0.15, 0.18},
			ILMLossThreshold:     20e6,
			ILMExponent:          0.2,
			ILMFloor:             1.0,
			ILMCap:               5.0,
		},
		MinimumRatios: MinimumRatios{
			CET1:         0.045,
			Tier1:        0.060,
			TotalCapital: 0.080,
			Leverage:     0.030,
		},
		Buffers: BufferConfig{
			Conservation:    0.025,
			Countercyclical: 0.0,
			GSIB:            0.0,
			DSIB:            0.0,
		},
		Leverage: LeverageConfig{
			DerivativeAddOns: map[string]float64{
				"sovereign":       0.005,
				"bank":            0.01,
				"corporate":       0.05,
				"retail_mortgage": 0.015,
				"retail_other":    0.03,
				"other":           0.10,
			},
			DefaultAddOn:  0.10,
			OffBalanceCCF: 0.75,
		},
		Stress: StressConfig{
			GDPAmplification: 2.0,
			CapitalErosion:   0.5,
			MaxStressedPD:    0.99,
		},
	}
}
