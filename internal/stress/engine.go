package stress

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rzzdr/basel-capital-engine/internal/engine"
	"github.com/rzzdr/basel-capital-engine/pkg/models"
	"github.com/rzzdr/basel-capital-engine/pkg/utils/errors"
	"github.com/rzzdr/basel-capital-engine/pkg/utils/logger"
)

// Engine runs macro scenarios through the capital pipeline: one
// baseline pass over the unmodified inputs, one pass over the
// transmission-adjusted inputs, and a structural diff of the two.
type Engine struct {
	basel *engine.Engine
	log   *logger.Logger
}

// New creates a stress engine on top of a capital engine.
func New(basel *engine.Engine) *Engine {
	return &Engine{
		basel: basel,
		log:   logger.GetLogger("stress"),
	}
}

// Run executes one scenario. Inputs are never mutated; running the
// same scenario twice against the same baseline produces identical
// deltas.
func (s *Engine) Run(ctx context.Context, in engine.CalculationInput, scenario *models.MacroScenario) (*models.StressResults, error) {
	if scenario == nil {
		return nil, errors.Validation("scenario is required")
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}

	baseline, err := s.basel.Calculate(ctx, in)
	if err != nil {
		return nil, errors.Wrapf(err, "baseline run for scenario %s", scenario.Name)
	}

	cfg := s.basel.Config()
	stressedIn := engine.CalculationInput{
		Portfolio:         ApplyToPortfolio(in.Portfolio, scenario, cfg),
		Capital:           ApplyToCapital(in.Capital, scenario, cfg),
		BusinessIndicator: in.BusinessIndicator,
		Losses:            in.Losses,
	}

	stressed, err := s.basel.Calculate(ctx, stressedIn)
	if err != nil {
		return nil, errors.Wrapf(err, "stressed run for scenario %s", scenario.Name)
	}

	s.log.Infof("scenario %s on portfolio %s: CET1 ratio %.4f -> %.4f",
		scenario.Name, in.Portfolio.ID, baseline.Ratios.CET1, stressed.Ratios.CET1)

	return &models.StressResults{
		Scenario:     scenario.Name,
		ScenarioType: scenario.Type,
		PortfolioID:  in.Portfolio.ID,
		RunAt:        time.Now().UTC(),
		Baseline:     baseline,
		Stressed:     stressed,
		Delta:        diff(baseline, stressed),
	}, nil
}

// RunAll executes every predefined scenario concurrently and returns
// results in catalogue order.
func (s *Engine) RunAll(ctx context.Context, in engine.CalculationInput) ([]*models.StressResults, error) {
	scenarios := Catalogue()
	results := make([]*models.StressResults, len(scenarios))

	g, gctx := errgroup.WithContext(ctx)
	for i, scenario := range scenarios {
		i, scenario := i, scenario
		g.Go(func() error {
			res, err := s.Run(gctx, in, scenario)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// diff builds the baseline-vs-stressed comparison block.
func diff(baseline, stressed *models.CapitalResults) models.StressDelta {
	return models.StressDelta{
		Capital: models.CapitalTiers{
			CET1:  stressed.Capital.CET1 - baseline.Capital.CET1,
			Tier1: stressed.Capital.Tier1 - baseline.Capital.Tier1,
			Total: stressed.Capital.Total - baseline.Capital.Total,
		},
		RWA: models.RWABreakdown{
			Credit:      stressed.RWA.Credit - baseline.RWA.Credit,
			Market:      stressed.RWA.Market - baseline.RWA.Market,
			Operational: stressed.RWA.Operational - baseline.RWA.Operational,
			Total:       stressed.RWA.Total - baseline.RWA.Total,
		},
		CET1Ratio:       ratioDelta(baseline.Ratios.CET1, stressed.Ratios.CET1),
		Tier1Ratio:      ratioDelta(baseline.Ratios.Tier1, stressed.Ratios.Tier1),
		TotalRatio:      ratioDelta(baseline.Ratios.TotalCapital, stressed.Ratios.TotalCapital),
		LeverageRatio:   ratioDelta(baseline.Ratios.Leverage, stressed.Ratios.Leverage),
		NewBreaches:     newBreaches(baseline.Breaches, stressed.Breaches),
		ClearedBreaches: clearedBreaches(baseline.Breaches, stressed.Breaches),
	}
}

func ratioDelta(baseline, stressed float64) models.RatioDelta {
	delta := stressed - baseline
	return models.RatioDelta{
		Baseline: baseline,
		Stressed: stressed,
		Delta:    delta,
		DeltaBps: delta * 10000.0,
	}
}

func newBreaches(baseline, stressed []models.BufferBreach) []models.BufferBreach {
	seen := make(map[string]struct{}, len(baseline))
	for _, b := range baseline {
		seen[b.Ratio] = struct{}{}
	}
	var out []models.BufferBreach
	for _, b := range stressed {
		if _, ok := seen[b.Ratio]; !ok {
			out = append(out, b)
		}
	}
	return out
}

func clearedBreaches(baseline, stressed []models.BufferBreach) []string {
	seen := make(map[string]struct{}, len(stressed))
	for _, b := range stressed {
		seen[b.Ratio] = struct{}{}
	}
	var out []string
	for _, b := range baseline {
		if _, ok := seen[b.Ratio]; !ok {
			out = append(out, b.Ratio)
		}
	}
	return out
}
