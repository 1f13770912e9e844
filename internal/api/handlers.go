package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ngmaloney/tidepool-terminal/internal/geocoding"
	"github.com/ngmaloney/tidepool-terminal/internal/models"
	"github.com/ngmaloney/tidepool-terminal/internal/planner"
	"github.com/ngmaloney/tidepool-terminal/internal/stations"
	"github.com/ngmaloney/tidepool-terminal/internal/tides"
)

// PingResponse represents the response for the ping endpoint
type PingResponse struct {
	Message string `json:"message"`
}

func (s *Server) handlePing(c *gin.Context) {
	c.JSON(http.StatusOK, PingResponse{Message: "pong"})
}

type geocodeInput struct {
	Query string `form:"q"`
}

func (s *Server) handleGeocode(c *gin.Context) {
	var input geocodeInput
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	loc, err := s.planner.Locate(c.Request.Context(), input.Query)
	if err != nil {
		s.fail(c, "geocoding failed", err)
		return
	}
	c.JSON(http.StatusOK, loc)
}

type nearestInput struct {
	Latitude  *float64 `form:"lat" binding:"required"`
	Longitude *float64 `form:"lon" binding:"required"`
	Limit     int      `form:"limit" binding:"omitempty,min=1,max=50"`
}

// NearestResponse lists ranked stations around a coordinate
type NearestResponse struct {
	Origin   models.Coordinate `json:"origin"`
	Stations []stations.Match  `json:"stations"`
}

func (s *Server) handleNearestStations(c *gin.Context) {
	var input nearestInput
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	origin := models.Coordinate{Latitude: *input.Latitude, Longitude: *input.Longitude}
	if !origin.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat must be within [-90, 90] and lon within [-180, 180]"})
		return
	}
	limit := input.Limit
	if limit == 0 {
		limit = s.stationLimit
	}

	matches, err := s.planner.NearestStationsN(c.Request.Context(), origin, limit)
	if err != nil {
		s.fail(c, "station lookup failed", err)
		return
	}
	c.JSON(http.StatusOK, NearestResponse{Origin: origin, Stations: matches})
}

type daysInput struct {
	MaxTideLevel *float64 `form:"max"`
	DaylightOnly *bool    `form:"daylight"`
	From         string   `form:"from"`
	To           string   `form:"to"`
	GoodOnly     bool     `form:"good_only"`
}

// DayResponse is a DaySummary annotated with the filter verdict
type DayResponse struct {
	models.DaySummary
	Good       bool               `json:"good"`
	Qualifying []models.TideEvent `json:"qualifying"`
}

// DaysResponse is the calendar for one station
type DaysResponse struct {
	Station  models.Station        `json:"station"`
	TimeZone string                `json:"time_zone"`
	Today    models.Date           `json:"today"`
	Filter   models.FilterSettings `json:"filter"`
	Skipped  int                   `json:"skipped"`
	Days     []DayResponse         `json:"days"`
}

func (s *Server) handleStationDays(c *gin.Context) {
	var input daysInput
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings := s.defaults
	if input.MaxTideLevel != nil {
		settings.MaxTideLevel = *input.MaxTideLevel
	}
	if input.DaylightOnly != nil {
		settings.DaylightOnly = *input.DaylightOnly
	}

	var from, to models.Date
	var err error
	if input.From != "" {
		if from, err = models.ParseDate(input.From); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if input.To != "" {
		if to, err = models.ParseDate(input.To); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	cal, err := s.planner.LoadDays(c.Request.Context(), c.Param("id"), from)
	if err != nil {
		s.fail(c, "loading tide predictions failed", err)
		return
	}

	days := make([]DayResponse, 0, len(cal.Days))
	for _, day := range cal.Days {
		if !to.IsZero() && day.Date.After(to) {
			break
		}
		good := tides.IsGoodDay(day, settings)
		if input.GoodOnly && !good {
			continue
		}
		days = append(days, DayResponse{
			DaySummary: day,
			Good:       good,
			Qualifying: tides.QualifyingEvents(day, settings),
		})
	}

	c.JSON(http.StatusOK, DaysResponse{
		Station:  cal.Station,
		TimeZone: cal.Location.String(),
		Today:    cal.Today,
		Filter:   settings,
		Skipped:  cal.Skipped,
		Days:     days,
	})
}

// fail maps planner errors to status codes: bad input 400, unknown 404,
// upstream failures 502
func (s *Server) fail(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, geocoding.ErrEmptyQuery):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case planner.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		s.logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg(msg)
		c.JSON(http.StatusBadGateway, gin.H{"error": msg})
	}
}
