package engine

import (
	"context"
	"math"
	"strings"
	"sync"

	"github.com/rzzdr/basel-capital-engine/config"
	"github.com/rzzdr/basel-capital-engine/pkg/models"
	"github.com/rzzdr/basel-capital-engine/pkg/utils/errors"
	"github.com/rzzdr/basel-capital-engine/pkg/utils/logger"
)

// CreditResult is the credit risk calculator output: total RWA plus
// the per-exposure audit trail.
type CreditResult struct {
	TotalRWA float64
	Detail   []models.ExposureRWA
}

// CreditCalculator produces credit risk-weighted assets for the
// banking book, selecting between the standardized and the internal
// ratings-based approach per exposure.
type CreditCalculator struct {
	cfg     *config.RegulatoryConfig
	workers int
	log     *logger.Logger
}

// NewCreditCalculator creates a credit calculator. workers bounds the
// per-exposure fan-out; values below 1 mean sequential.
func NewCreditCalculator(cfg *config.RegulatoryConfig, workers int) *CreditCalculator {
	if workers < 1 {
		workers = 1
	}
	return &CreditCalculator{
		cfg:     cfg,
		workers: workers,
		log:     logger.GetLogger("engine.credit"),
	}
}

// Calculate computes credit RWA over the banking-book exposures.
// Per-exposure contributions are computed concurrently but summed in
// portfolio order, so totals are identical for any worker count.
func (c *CreditCalculator) Calculate(ctx context.Context, portfolio *models.Portfolio) (*CreditResult, error) {
	exposures := portfolio.BankingBook()
	if len(exposures) == 0 {
		return &CreditResult{}, nil
	}

	rows := make([]models.ExposureRWA, len(exposures))
	errs := make([]error, len(exposures))

	jobs := make(chan int, len(exposures))
	for i := range exposures {
		jobs <- i
	}
	close(jobs)

	workerCount := c.workers
	if workerCount > len(exposures) {
		workerCount = len(exposures)
	}

	var wg sync.WaitGroup
	for w := 0; w < workerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					errs[i] = ctx.Err()
					continue
				}
				rows[i], errs[i] = c.exposureRWA(exposures[i])
			}
		}()
	}
	wg.Wait()

	result := &CreditResult{Detail: rows}
	for i, err := range errs {
		if err != nil {
			return nil, errors.Wrapf(err, "credit RWA failed for exposure %s", exposures[i].ID)
		}
		result.TotalRWA += rows[i].RWA
	}

	c.log.Debugf("credit RWA for portfolio %s: %.2f over %d exposures",
		portfolio.ID, result.TotalRWA, len(exposures))
	return result, nil
}

// exposureRWA computes one exposure's contribution.
func (c *CreditCalculator) exposureRWA(exp *models.Exposure) (models.ExposureRWA, error) {
	approach := models.ApproachStandardized
	var riskWeight float64
	var err error

	if c.useIRB(exp) {
		approach = models.ApproachIRB
		riskWeight, err = c.irbRiskWeight(exp)
	} else {
		riskWeight, err = c.standardizedRiskWeight(exp)
	}
	if err != nil {
		return models.ExposureRWA{}, err
	}

	ead := exp.EAD()
	return models.ExposureRWA{
		ExposureID: exp.ID,
		Approach:   approach,
		EAD:        ead,
		RiskWeight: riskWeight,
		RWA:        ead * riskWeight * exp.CRM.RWAMultiplier(),
	}, nil
}

// useIRB applies the selection policy: IRB only when the exposure
// carries PD, LGD and maturity and its class is configured as
// eligible.
func (c *CreditCalculator) useIRB(exp *models.Exposure) bool {
	return exp.HasIRBInputs() && c.cfg.IRB.Eligible(string(exp.AssetClass))
}

// standardizedRiskWeight looks up the configured weight by asset class
// and rating bucket, falling back to the class's unrated weight.
func (c *CreditCalculator) standardizedRiskWeight(exp *models.Exposure) (float64, error) {
	table, ok := c.cfg.RiskWeights[string(exp.AssetClass)]
	if !ok {
		return 0, errors.Validation("exposure %s: no risk-weight table for asset class %s", exp.ID, exp.AssetClass)
	}
	bucket := ratingBucket(exp.Rating)
	if w, ok := table[bucket]; ok {
		return w, nil
	}
	return table["unrated"], nil
}

// ratingBucket maps an external agency rating onto the table keys.
func ratingBucket(rating string) string {
	r := strings.ToUpper(strings.TrimSpace(rating))
	switch {
	case r == "":
		return "unrated"
	case strings.HasPrefix(r, "AAA") || strings.HasPrefix(r, "AA"):
		return "aaa_aa"
	case strings.HasPrefix(r, "A"):
		return "a"
	case strings.HasPrefix(r, "BBB"):
		return "bbb"
	case strings.HasPrefix(r, "BB") || strings.HasPrefix(r, "B"):
		return "bb_b"
	default:
		return "below_b"
	}
}

// irbRiskWeight implements the simplified corporate IRB formula.
func (c *CreditCalculator) irbRiskWeight(exp *models.Exposure) (float64, error) {
	pd := *exp.PD
	lgd := *exp.LGD
	if pd <= 0 || pd >= 1 {
		return 0, errors.Computation("exposure %s: IRB requires PD strictly inside (0, 1), got %.6f", exp.ID, pd)
	}

	rho := c.assetCorrelation(exp.AssetClass, pd)

	invPD, err := normalInverse(pd)
	if err != nil {
		return 0, errors.Wrapf(err, "exposure %s: inverse normal of PD", exp.ID)
	}
	invConf, err := normalInverse(c.cfg.IRB.ConfidenceLevel)
	if err != nil {
		return 0, errors.Wrapf(err, "inverse normal of confidence level")
	}

	condPD := normalCDF((invPD + math.Sqrt(rho)*invConf) / math.Sqrt(1.0-rho))

	ma := 1.0
	if !exp.IsRetail() {
		b := math.Pow(0.11852-0.05478*math.Log(pd), 2)
		m := exp.EffectiveMaturity()
		ma = (1.0 + (m-2.5)*b) / (1.0 - 1.5*b)
	}

	k := lgd*condPD*ma - pd*lgd
	if k < 0 {
		k = 0
	}
	rw := k * 12.5
	if rw > 12.5 {
		rw = 12.5
	}
	return rw, nil
}

// assetCorrelation returns the supervisory asset correlation. The
// wholesale classes use the exponentially decaying correlation;
// mortgages are flat and other retail interpolates on a faster decay.
func (c *CreditCalculator) assetCorrelation(class models.AssetClass, pd float64) float64 {
	switch class {
	case models.AssetRetailMortgage:
		return 0.15
	case models.AssetRetailOther:
		decay := (1.0 - math.Exp(-35.0*pd)) / (1.0 - math.Exp(-35.0))
		return 0.03*decay + 0.16*(1.0-decay)
	default:
		decay := (1.0 - math.Exp(-50.0*pd)) / (1.0 - math.Exp(-50.0))
		return 0.12 * decay
	}
}
