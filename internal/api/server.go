// Package api exposes the planner over a small JSON HTTP API
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ngmaloney/tidepool-terminal/internal/geocoding"
	"github.com/ngmaloney/tidepool-terminal/internal/models"
	"github.com/ngmaloney/tidepool-terminal/internal/planner"
	"github.com/ngmaloney/tidepool-terminal/internal/stations"
	"github.com/rs/zerolog"
)

// Planner is the subset of planner.Service the API serves
type Planner interface {
	Locate(ctx context.Context, query string) (*geocoding.Location, error)
	NearestStationsN(ctx context.Context, coord models.Coordinate, limit int) ([]stations.Match, error)
	LoadDays(ctx context.Context, stationID string, from models.Date) (*planner.TideCalendar, error)
}

// Server encapsulates the router and its dependencies
type Server struct {
	router       *gin.Engine
	planner      Planner
	logger       zerolog.Logger
	stationLimit int
	defaults     models.FilterSettings
}

// NewServer creates the router and registers every route. stationLimit and
// defaults apply when a request omits limit or filter parameters.
func NewServer(p Planner, stationLimit int, defaults models.FilterSettings, ginMode string, logger zerolog.Logger) *Server {
	if ginMode != "" {
		gin.SetMode(ginMode)
	}
	if stationLimit <= 0 {
		stationLimit = stations.DefaultLimit
	}

	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		router:       router,
		planner:      p,
		logger:       logger.With().Str("component", "api").Logger(),
		stationLimit: stationLimit,
		defaults:     defaults,
	}
	router.Use(s.requestLogger())
	s.registerRoutes()
	return s
}

// Handler returns the HTTP handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	// Health check endpoint
	s.router.GET("/ping", s.handlePing)

	s.router.GET("/geocode", s.handleGeocode)
	s.router.GET("/stations/nearest", s.handleNearestStations)
	s.router.GET("/stations/:id/days", s.handleStationDays)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := s.logger.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			event = s.logger.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
