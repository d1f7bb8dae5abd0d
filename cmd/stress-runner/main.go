package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rzzdr/basel-capital-engine/config"
	"github.com/rzzdr/basel-capital-engine/internal/engine"
	"github.com/rzzdr/basel-capital-engine/internal/kafka"
	"github.com/rzzdr/basel-capital-engine/internal/simulator"
	"github.com/rzzdr/basel-capital-engine/internal/stress"
	"github.com/rzzdr/basel-capital-engine/pkg/utils/logger"
)

var (
	seed          = flag.Int64("seed", 42, "Random seed for the synthetic portfolio")
	portfolioSize = flag.Int("size", 500, "Number of exposures to generate")
	publish       = flag.Bool("publish", false, "Publish stress results to Kafka")
	timeout       = flag.Duration("timeout", 2*time.Minute, "Overall run timeout")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.GetLogger("stress.main").Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.App.LogLevel, cfg.App.Environment)
	log := logger.GetLogger("stress.main")
	log.Infof("Running stress scenarios against a synthetic portfolio (seed=%d, size=%d)", *seed, *portfolioSize)

	regulatory, err := config.LoadRegulatory(cfg.Engine.RegulatoryFile)
	if err != nil {
		log.Fatalf("Failed to load regulatory parameters: %v", err)
	}

	baselEngine, err := engine.New(regulatory, cfg.Engine.Workers)
	if err != nil {
		log.Fatalf("Failed to create capital engine: %v", err)
	}
	stressEngine := stress.New(baselEngine)

	gen := simulator.NewGenerator(*seed)
	portfolio := gen.Portfolio("synthetic", *portfolioSize)
	in := engine.CalculationInput{
		Portfolio:         portfolio,
		Capital:           gen.Capital(portfolio),
		BusinessIndicator: gen.BusinessIndicator(portfolio),
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	results, err := stressEngine.RunAll(ctx, in)
	if err != nil {
		log.Fatalf("Stress run failed: %v", err)
	}

	failed := false
	for _, res := range results {
		log.Infow("scenario complete",
			"scenario", res.Scenario,
			"baseline_cet1", res.Baseline.Ratios.CET1,
			"stressed_cet1", res.Stressed.Ratios.CET1,
			"cet1_delta_bps", res.Delta.CET1Ratio.DeltaBps,
			"new_breaches", len(res.Delta.NewBreaches),
		)
		if !res.Stressed.Compliant {
			failed = true
			for _, breach := range res.Stressed.Breaches {
				log.Warnw("buffer breach under stress",
					"scenario", res.Scenario,
					"ratio", breach.Ratio,
					"actual", breach.Actual,
					"required", breach.Required,
					"shortfall_amount", breach.ShortfallAmount,
				)
			}
		}
	}

	if *publish {
		publisher := kafka.NewResultsPublisher(cfg.Kafka)
		defer publisher.Close()
		for _, res := range results {
			if err := publisher.PublishStress(ctx, res); err != nil {
				log.Errorf("Failed to publish results for %s: %v", res.Scenario, err)
			}
		}
	}

	if failed {
		log.Warn("One or more scenarios produced capital breaches")
		os.Exit(1)
	}
	log.Info("All scenarios passed without breaches")
}
