package store

import (
	"sync"

	"github.com/rzzdr/basel-capital-engine/pkg/models"
	"github.com/rzzdr/basel-capital-engine/pkg/utils/errors"
	"github.com/rzzdr/basel-capital-engine/pkg/utils/logger"
)

// ResultsStore keeps the latest calculation and stress results per
// portfolio in memory, for retrieval by reporting clients.
type ResultsStore struct {
	capital map[string]*models.CapitalResults
	stress  map[string][]*models.StressResults
	mu      sync.RWMutex
	log     *logger.Logger
}

// NewResultsStore creates an empty results store.
func NewResultsStore() *ResultsStore {
	return &ResultsStore{
		capital: make(map[string]*models.CapitalResults),
		stress:  make(map[string][]*models.StressResults),
		log:     logger.GetLogger("store.results"),
	}
}

// SaveCapital stores the latest capital results for a portfolio.
func (s *ResultsStore) SaveCapital(results *models.CapitalResults) error {
	if results == nil {
		return errors.Validation("cannot save nil results")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.capital[results.PortfolioID] = results
	return nil
}

// GetCapital retrieves the latest capital results for a portfolio.
func (s *ResultsStore) GetCapital(portfolioID string) (*models.CapitalResults, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results, exists := s.capital[portfolioID]
	if !exists {
		return nil, errors.NotFound("no results for portfolio: " + portfolioID)
	}
	return results, nil
}

// SaveStress stores the latest stress run for a portfolio.
func (s *ResultsStore) SaveStress(portfolioID string, results []*models.StressResults) error {
	if len(results) == 0 {
		return errors.Validation("cannot save empty stress results")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stress[portfolioID] = results
	return nil
}

// GetStress retrieves the latest stress run for a portfolio.
func (s *ResultsStore) GetStress(portfolioID string) ([]*models.StressResults, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results, exists := s.stress[portfolioID]
	if !exists {
		return nil, errors.NotFound("no stress results for portfolio: " + portfolioID)
	}
	return results, nil
}
