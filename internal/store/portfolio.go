package store

import (
	"sync"

	"github.com/rzzdr/basel-capital-engine/pkg/models"
	"github.com/rzzdr/basel-capital-engine/pkg/utils/errors"
	"github.com/rzzdr/basel-capital-engine/pkg/utils/logger"
)

// PortfolioStore keeps registered portfolios in memory. Durable
// persistence lives outside this service.
type PortfolioStore struct {
	portfolios map[string]*models.Portfolio
	mu         sync.RWMutex
	log        *logger.Logger
}

// NewPortfolioStore creates an empty portfolio store.
func NewPortfolioStore() *PortfolioStore {
	return &PortfolioStore{
		portfolios: make(map[string]*models.Portfolio),
		log:        logger.GetLogger("store.portfolio"),
	}
}

// Get retrieves a portfolio by ID.
func (s *PortfolioStore) Get(id string) (*models.Portfolio, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	portfolio, exists := s.portfolios[id]
	if !exists {
		return nil, errors.NotFound("portfolio not found: " + id)
	}
	return portfolio, nil
}

// List returns all stored portfolios.
func (s *PortfolioStore) List() []*models.Portfolio {
	s.mu.RLock()
	defer s.mu.RUnlock()

	portfolios := make([]*models.Portfolio, 0, len(s.portfolios))
	for _, p := range s.portfolios {
		portfolios = append(portfolios, p)
	}
	return portfolios
}

// Save validates and stores a portfolio, replacing any existing one
// with the same ID.
func (s *PortfolioStore) Save(portfolio *models.Portfolio) error {
	if portfolio == nil {
		return errors.Validation("cannot save nil portfolio")
	}
	if err := portfolio.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.portfolios[portfolio.ID] = portfolio
	s.log.Debugf("saved portfolio %s with %d exposures", portfolio.ID, len(portfolio.Exposures))
	return nil
}

// Delete removes a portfolio by ID.
func (s *PortfolioStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.portfolios[id]; !exists {
		return errors.NotFound("portfolio not found: " + id)
	}
	delete(s.portfolios, id)
	return nil
}
