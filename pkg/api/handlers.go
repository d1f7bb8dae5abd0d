package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rzzdr/basel-capital-engine/internal/engine"
	"github.com/rzzdr/basel-capital-engine/internal/kafka"
	"github.com/rzzdr/basel-capital-engine/internal/store"
	"github.com/rzzdr/basel-capital-engine/internal/stress"
	"github.com/rzzdr/basel-capital-engine/internal/websocket"
	"github.com/rzzdr/basel-capital-engine/pkg/metrics"
	"github.com/rzzdr/basel-capital-engine/pkg/models"
	"github.com/rzzdr/basel-capital-engine/pkg/utils/errors"
	"github.com/rzzdr/basel-capital-engine/pkg/utils/logger"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	baselEngine  *engine.Engine
	stressEngine *stress.Engine
	portfolios   *store.PortfolioStore
	results      *store.ResultsStore
	publisher    *kafka.ResultsPublisher
	hub          *websocket.Hub
	recorder     *metrics.Recorder
	log          *logger.Logger
}

// CreateHandlers creates new API handlers. publisher may be nil when
// Kafka is disabled.
func CreateHandlers(
	baselEngine *engine.Engine,
	stressEngine *stress.Engine,
	portfolios *store.PortfolioStore,
	results *store.ResultsStore,
	publisher *kafka.ResultsPublisher,
	hub *websocket.Hub,
	recorder *metrics.Recorder,
) *Handlers {
	return &Handlers{
		baselEngine:  baselEngine,
		stressEngine: stressEngine,
		portfolios:   portfolios,
		results:      results,
		publisher:    publisher,
		hub:          hub,
		recorder:     recorder,
		log:          logger.GetLogger("api.handlers"),
	}
}

// CalculateRequest is the body of a capital calculation request. The
// portfolio is referenced by ID or supplied inline.
type CalculateRequest struct {
	PortfolioID       string                        `json:"portfolio_id"`
	Portfolio         *models.Portfolio             `json:"portfolio"`
	Capital           *models.CapitalComponents     `json:"capital"`
	BusinessIndicator *models.BusinessIndicatorData `json:"business_indicator"`
	Losses            *models.OperationalLossData   `json:"losses"`
}

// StressRequest is the body of a stress test request. Scenario names
// select from the predefined catalogue; a custom scenario can be
// supplied inline; neither means the full catalogue.
type StressRequest struct {
	CalculateRequest
	Scenario       string                `json:"scenario"`
	CustomScenario *models.MacroScenario `json:"custom_scenario"`
}

// HealthCheckHandler handles health check requests
func (h *Handlers) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	})
}

// CreatePortfolioHandler registers a portfolio
func (h *Handlers) CreatePortfolioHandler(c *gin.Context) {
	var portfolio models.Portfolio
	if err := c.ShouldBindJSON(&portfolio); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Invalid portfolio data: %v", err),
		})
		return
	}

	if err := h.portfolios.Save(&portfolio); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":        portfolio.ID,
		"exposures": len(portfolio.Exposures),
	})
}

// GetPortfolioHandler returns a portfolio by ID
func (h *Handlers) GetPortfolioHandler(c *gin.Context) {
	portfolio, err := h.portfolios.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, portfolio)
}

// ListPortfoliosHandler returns all registered portfolios
func (h *Handlers) ListPortfoliosHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.portfolios.List())
}

// DeletePortfolioHandler removes a portfolio by ID
func (h *Handlers) DeletePortfolioHandler(c *gin.Context) {
	if err := h.portfolios.Delete(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CalculateHandler runs the full capital calculation
func (h *Handlers) CalculateHandler(c *gin.Context) {
	var req CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Invalid calculation request: %v", err),
		})
		return
	}

	in, err := h.resolveInput(req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	start := time.Now()
	results, err := h.baselEngine.Calculate(c.Request.Context(), in)
	if err != nil {
		h.recorder.RecordCalculationFailure(errorTypeLabel(err))
		h.respondError(c, err)
		return
	}
	h.recordResults(results, time.Since(start))

	if err := h.results.SaveCapital(results); err != nil {
		h.log.Errorf("failed to store results for %s: %v", results.PortfolioID, err)
	}
	h.hub.BroadcastCapital(results)
	if err := h.publisher.PublishCapital(c.Request.Context(), results); err != nil {
		h.log.Errorf("failed to publish results for %s: %v", results.PortfolioID, err)
	}

	c.JSON(http.StatusOK, results)
}

// GetResultsHandler returns the latest calculation results
func (h *Handlers) GetResultsHandler(c *gin.Context) {
	results, err := h.results.GetCapital(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// StressHandler runs a stress test
func (h *Handlers) StressHandler(c *gin.Context) {
	var req StressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Invalid stress request: %v", err),
		})
		return
	}

	in, err := h.resolveInput(req.CalculateRequest)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var runs []*models.StressResults
	switch {
	case req.CustomScenario != nil:
		run, err := h.runScenario(c, in, req.CustomScenario)
		if err != nil {
			h.respondError(c, err)
			return
		}
		runs = []*models.StressResults{run}
	case req.Scenario != "":
		scenario, ok := stress.Lookup(req.Scenario)
		if !ok {
			h.respondError(c, errors.NotFound("unknown scenario: "+req.Scenario))
			return
		}
		run, err := h.runScenario(c, in, scenario)
		if err != nil {
			h.respondError(c, err)
			return
		}
		runs = []*models.StressResults{run}
	default:
		start := time.Now()
		all, err := h.stressEngine.RunAll(c.Request.Context(), in)
		if err != nil {
			h.respondError(c, err)
			return
		}
		for _, run := range all {
			h.recorder.RecordStressRun(run.Scenario, time.Since(start))
		}
		runs = all
	}

	if err := h.results.SaveStress(in.Portfolio.ID, runs); err != nil {
		h.log.Errorf("failed to store stress results for %s: %v", in.Portfolio.ID, err)
	}
	for _, run := range runs {
		h.hub.BroadcastStress(run)
		if err := h.publisher.PublishStress(c.Request.Context(), run); err != nil {
			h.log.Errorf("failed to publish stress results for %s: %v", run.PortfolioID, err)
		}
	}

	c.JSON(http.StatusOK, runs)
}

// GetStressResultsHandler returns the latest stress run
func (h *Handlers) GetStressResultsHandler(c *gin.Context) {
	results, err := h.results.GetStress(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// ListScenariosHandler returns the predefined scenario catalogue
func (h *Handlers) ListScenariosHandler(c *gin.Context) {
	c.JSON(http.StatusOK, stress.Catalogue())
}

func (h *Handlers) runScenario(c *gin.Context, in engine.CalculationInput, scenario *models.MacroScenario) (*models.StressResults, error) {
	start := time.Now()
	run, err := h.stressEngine.Run(c.Request.Context(), in, scenario)
	if err != nil {
		return nil, err
	}
	h.recorder.RecordStressRun(scenario.Name, time.Since(start))
	return run, nil
}

// resolveInput turns a request into a calculation input, looking the
// portfolio up in the store when it is referenced by ID.
func (h *Handlers) resolveInput(req CalculateRequest) (engine.CalculationInput, error) {
	portfolio := req.Portfolio
	if portfolio == nil {
		if req.PortfolioID == "" {
			return engine.CalculationInput{}, errors.Validation("portfolio or portfolio_id is required")
		}
		var err error
		portfolio, err = h.portfolios.Get(req.PortfolioID)
		if err != nil {
			return engine.CalculationInput{}, err
		}
	}
	if req.Capital == nil {
		return engine.CalculationInput{}, errors.Validation("capital components are required")
	}
	return engine.CalculationInput{
		Portfolio:         portfolio,
		Capital:           req.Capital,
		BusinessIndicator: req.BusinessIndicator,
		Losses:            req.Losses,
	}, nil
}

func (h *Handlers) recordResults(results *models.CapitalResults, latency time.Duration) {
	h.recorder.RecordCalculation(results.PortfolioID, latency)
	h.recorder.RecordRWA(results.PortfolioID, "credit", results.RWA.Credit)
	h.recorder.RecordRWA(results.PortfolioID, "market", results.RWA.Market)
	h.recorder.RecordRWA(results.PortfolioID, "operational", results.RWA.Operational)
	h.recorder.RecordCapitalRatio(results.PortfolioID, "cet1", results.Ratios.CET1)
	h.recorder.RecordCapitalRatio(results.PortfolioID, "tier1", results.Ratios.Tier1)
	h.recorder.RecordCapitalRatio(results.PortfolioID, "total_capital", results.Ratios.TotalCapital)
	h.recorder.RecordCapitalRatio(results.PortfolioID, "leverage", results.Ratios.Leverage)
	for _, breach := range results.Breaches {
		h.recorder.RecordBufferBreach(results.PortfolioID, breach.Ratio)
	}
}

// respondError maps the error taxonomy onto HTTP status codes.
func (h *Handlers) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.IsValidation(err):
		status = http.StatusBadRequest
	case errors.IsComputation(err):
		status = http.StatusUnprocessableEntity
	case errors.IsNotFound(err):
		status = http.StatusNotFound
	case errors.IsAlreadyExists(err):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		h.log.Errorf("request failed: %v", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func errorTypeLabel(err error) string {
	switch {
	case errors.IsValidation(err):
		return "validation"
	case errors.IsComputation(err):
		return "computation"
	case errors.IsConfiguration(err):
		return "configuration"
	default:
		return "internal"
	}
}
