package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rzzdr/basel-capital-engine/config"
	"github.com/rzzdr/basel-capital-engine/internal/websocket"
	"github.com/rzzdr/basel-capital-engine/pkg/metrics"
	"github.com/rzzdr/basel-capital-engine/pkg/utils/logger"
)

// Server is the HTTP API server
type Server struct {
	server *http.Server
	hub    *websocket.Hub
	log    *logger.Logger
}

// NewServer creates the API server with all routes registered.
func NewServer(cfg config.APIConfig, metricsCfg config.MetricsConfig, handlers *Handlers, recorder *metrics.Recorder, hub *websocket.Hub) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(
		ErrorMiddleware(),
		LoggingMiddleware(),
		MetricsMiddleware(recorder),
		CORSMiddleware(),
	)

	router.GET("/health", handlers.HealthCheckHandler)
	if metricsCfg.Prometheus.Enabled {
		router.GET(metricsCfg.Prometheus.Path, gin.WrapH(promhttp.Handler()))
	}
	router.GET("/ws/results", gin.WrapF(hub.HandleWebSocket))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/portfolios", handlers.CreatePortfolioHandler)
		v1.GET("/portfolios", handlers.ListPortfoliosHandler)
		v1.GET("/portfolios/:id", handlers.GetPortfolioHandler)
		v1.DELETE("/portfolios/:id", handlers.DeletePortfolioHandler)
		v1.GET("/portfolios/:id/results", handlers.GetResultsHandler)
		v1.GET("/portfolios/:id/stress", handlers.GetStressResultsHandler)

		v1.POST("/calculate", handlers.CalculateHandler)
		v1.POST("/stress", handlers.StressHandler)
		v1.GET("/scenarios", handlers.ListScenariosHandler)
	}

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		hub: hub,
		log: logger.GetLogger("api.server"),
	}
}

// Start runs the server until it fails or is shut down.
func (s *Server) Start() error {
	s.log.Infof("starting API server on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down API server")
	return s.server.Shutdown(ctx)
}
