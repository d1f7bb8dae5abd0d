package engine

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rzzdr/basel-capital-engine/config"
	"github.com/rzzdr/basel-capital-engine/pkg/models"
	"github.com/rzzdr/basel-capital-engine/pkg/utils/errors"
	"github.com/rzzdr/basel-capital-engine/pkg/utils/logger"
)

// CalculationInput bundles everything one engine run consumes. The
// engine never mutates any of it.
type CalculationInput struct {
	Portfolio *models.Portfolio
	Capital   *models.CapitalComponents
	// BusinessIndicator and Losses feed the operational risk
	// calculator; a nil BusinessIndicator skips operational RWA.
	BusinessIndicator *models.BusinessIndicatorData
	Losses            *models.OperationalLossData
}

// Engine orchestrates the full capital calculation: the three risk
// calculators fan out concurrently, then capital tiers, ratios and
// buffer compliance are derived from their sum.
type Engine struct {
	cfg         *config.RegulatoryConfig
	credit      *CreditCalculator
	market      *MarketCalculator
	operational *OperationalCalculator
	buffers     *BufferEvaluator
	log         *logger.Logger
}

// New creates an engine. The regulatory configuration is validated
// once here; a broken configuration never reaches a calculator.
func New(cfg *config.RegulatoryConfig, workers int) (*Engine, error) {
	if cfg == nil {
		return nil, errors.Configuration("regulatory config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:         cfg,
		credit:      NewCreditCalculator(cfg, workers),
		market:      NewMarketCalculator(cfg),
		operational: NewOperationalCalculator(cfg),
		buffers:     NewBufferEvaluator(cfg),
		log:         logger.GetLogger("engine"),
	}, nil
}

// Config returns the regulatory configuration the engine was built
// with.
func (e *Engine) Config() *config.RegulatoryConfig {
	return e.cfg
}

// Calculate runs the full pipeline and returns a fresh, immutable
// results value. Identical inputs produce identical results apart
// from the timestamp.
func (e *Engine) Calculate(ctx context.Context, in CalculationInput) (*models.CapitalResults, error) {
	if err := e.validateInput(in); err != nil {
		return nil, err
	}

	start := time.Now()

	var (
		creditRes *CreditResult
		marketRes *MarketResult
		opRes     *OperationalResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		creditRes, err = e.credit.Calculate(gctx, in.Portfolio)
		return err
	})
	g.Go(func() error {
		var err error
		marketRes, err = e.market.Calculate(gctx, in.Portfolio)
		return err
	})
	g.Go(func() error {
		if in.BusinessIndicator == nil {
			opRes = &OperationalResult{ILM: 1.0}
			return nil
		}
		var err error
		opRes, err = e.operational.Calculate(gctx, in.BusinessIndicator, in.Losses)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rwa := models.RWABreakdown{
		Credit:      creditRes.TotalRWA,
		Market:      marketRes.TotalRWA,
		Operational: opRes.TotalRWA,
	}
	rwa.Total = rwa.Credit + rwa.Market + rwa.Operational

	tiers := in.Capital.Tiers()
	leverageExposure := LeverageExposure(in.Portfolio, e.cfg)
	eval := e.buffers.Evaluate(tiers, rwa.Total, leverageExposure)

	e.log.Infof("calculated portfolio %s: total RWA %.2f, CET1 ratio %.4f, breaches %d (%.0fms)",
		in.Portfolio.ID, rwa.Total, eval.Ratios.CET1, len(eval.Breaches),
		float64(time.Since(start).Milliseconds()))

	return &models.CapitalResults{
		PortfolioID:          in.Portfolio.ID,
		CalculatedAt:         time.Now().UTC(),
		RWA:                  rwa,
		CreditDetail:         creditRes.Detail,
		Capital:              tiers,
		Ratios:               eval.Ratios,
		Required:             eval.Required,
		Breaches:             eval.Breaches,
		Compliant:            len(eval.Breaches) == 0,
		LeverageExposure:     leverageExposure,
		MDAPayoutRestriction: eval.MDAPayoutRestriction,
	}, nil
}

func (e *Engine) validateInput(in CalculationInput) error {
	if in.Portfolio == nil {
		return errors.Validation("portfolio is required")
	}
	if err := in.Portfolio.Validate(); err != nil {
		return err
	}
	if in.Capital == nil {
		return errors.Validation("capital components are required")
	}
	if err := in.Capital.Validate(); err != nil {
		return err
	}
	if in.BusinessIndicator != nil {
		if err := in.BusinessIndicator.Validate(); err != nil {
			return err
		}
	}
	if in.Losses != nil {
		if err := in.Losses.Validate(); err != nil {
			return err
		}
	}
	return nil
}
