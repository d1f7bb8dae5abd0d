package simulator

import (
	"fmt"
	"math/rand"

	"github.com/rzzdr/basel-capital-engine/pkg/models"
	"github.com/rzzdr/basel-capital-engine/pkg/utils/logger"
)

// Generator produces synthetic but plausible bank portfolios for
// demos and load tests. The same seed always yields the same
// portfolio.
type Generator struct {
	rng *rand.Rand
	log *logger.Logger
}

// NewGenerator creates a seeded generator.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(seed)),
		log: logger.GetLogger("simulator"),
	}
}

var sectors = []string{"manufacturing", "technology", "energy", "real_estate", "services", "financials"}

// Portfolio generates a mixed banking/trading portfolio with the
// given number of exposures.
func (g *Generator) Portfolio(id string, size int) *models.Portfolio {
	exposures := make([]*models.Exposure, 0, size)
	for i := 0; i < size; i++ {
		exposures = append(exposures, g.exposure(fmt.Sprintf("%s-exp-%04d", id, i)))
	}

	g.log.Infof("generated portfolio %s with %d exposures", id, size)
	return &models.Portfolio{
		ID:           id,
		Name:         "synthetic portfolio " + id,
		BankName:     "Synthetic Bank",
		BaseCurrency: "EUR",
		Exposures:    exposures,
	}
}

func (g *Generator) exposure(id string) *models.Exposure {
	switch g.rng.Intn(10) {
	case 0, 1, 2, 3: // corporate loan book
		exp := models.NewExposure(id, models.ExposureLoan, models.AssetCorporate,
			g.amount(1e6, 5e7), "EUR")
		exp.Sector = sectors[g.rng.Intn(len(sectors))]
		exp.Rating = g.rating()
		exp.PD = models.Float(0.002 + g.rng.Float64()*0.05)
		exp.LGD = models.Float(0.25 + g.rng.Float64()*0.5)
		exp.MaturityYears = models.Float(0.5 + g.rng.Float64()*9.5)
		if g.rng.Intn(3) == 0 {
			exp.CRM = &models.CreditRiskMitigation{
				CollateralType:  "real_estate_commercial",
				CollateralValue: exp.CurrentAmount * (0.4 + g.rng.Float64()*0.4),
				Effectiveness:   0.1 + g.rng.Float64()*0.3,
			}
		}
		return exp

	case 4, 5: // retail
		class := models.AssetRetailMortgage
		if g.rng.Intn(2) == 0 {
			class = models.AssetRetailOther
		}
		exp := models.NewExposure(id, models.ExposureLoan, class, g.amount(5e4, 5e5), "EUR")
		exp.Sector = "households"
		exp.PD = models.Float(0.005 + g.rng.Float64()*0.03)
		exp.LGD = models.Float(0.1 + g.rng.Float64()*0.3)
		exp.MaturityYears = models.Float(5 + g.rng.Float64()*25)
		return exp

	case 6: // sovereign bond, banking book
		exp := models.NewExposure(id, models.ExposureLoan, models.AssetSovereign,
			g.amount(5e6, 1e8), "EUR")
		exp.Rating = []string{"AAA", "AA", "A", "BBB"}[g.rng.Intn(4)]
		return exp

	case 7: // trading book bond with rate sensitivities
		exp := models.NewExposure(id, models.ExposureSecurity, models.AssetCorporate,
			g.amount(1e6, 2e7), "EUR")
		exp.MarketValue = models.Float(exp.CurrentAmount * (0.9 + g.rng.Float64()*0.2))
		exp.DurationYears = models.Float(1 + g.rng.Float64()*9)
		tenor := []string{"2y", "5y", "10y"}[g.rng.Intn(3)]
		exp.Sensitivities = map[string]float64{
			"ir_" + tenor:   *exp.MarketValue * *exp.DurationYears / 100,
			"csr_corporate": *exp.MarketValue * 0.01,
		}
		return exp

	case 8: // FX derivative
		exp := models.NewExposure(id, models.ExposureDerivative, models.AssetBank,
			g.amount(1e6, 3e7), "USD")
		exp.MarketValue = models.Float(exp.CurrentAmount * (g.rng.Float64()*0.1 - 0.02))
		exp.Sensitivities = map[string]float64{
			"fx_usd": exp.CurrentAmount * 0.05,
		}
		return exp

	default: // undrawn commitment
		exp := models.NewExposure(id, models.ExposureOffBalanceSheet, models.AssetCorporate,
			g.amount(1e6, 2e7), "EUR")
		exp.Sector = sectors[g.rng.Intn(len(sectors))]
		exp.CCF = models.Float(0.2 + g.rng.Float64()*0.55)
		return exp
	}
}

// Capital generates a capital structure sized to roughly satisfy the
// minimum ratios for the generated portfolio.
func (g *Generator) Capital(portfolio *models.Portfolio) *models.CapitalComponents {
	total := portfolio.TotalCurrentAmount()
	return &models.CapitalComponents{
		CommonEquity:     total * 0.06,
		RetainedEarnings: total * 0.03,
		AOCI:             total * 0.002,
		Goodwill:         total * 0.005,
		Intangibles:      total * 0.002,
		AdditionalTier1:  total * 0.01,
		Tier2Instruments: total * 0.012,
	}
}

// BusinessIndicator generates SMA inputs proportional to portfolio
// size.
func (g *Generator) BusinessIndicator(portfolio *models.Portfolio) *models.BusinessIndicatorData {
	total := portfolio.TotalCurrentAmount()
	return &models.BusinessIndicatorData{
		InterestIncome:  total * 0.04,
		InterestExpense: total * 0.02,
		DividendIncome:  total * 0.001,
		FeeIncome:       total * 0.008,
		FeeExpense:      total * 0.003,
		TradingPnL:      total * 0.002,
		OtherIncome:     total * 0.002,
		OtherExpense:    total * 0.001,
	}
}

func (g *Generator) amount(min, max float64) float64 {
	return min + g.rng.Float64()*(max-min)
}

func (g *Generator) rating() string {
	// Unrated names are common in a mid-size corporate book.
	ratings := []string{"", "", "AA", "A", "BBB", "BB", "B"}
	return ratings[g.rng.Intn(len(ratings))]
}
