package controller

import (
	"context"
	"net/http"

	"surfsup-server/internal/modules/climate/types"
)

// ClimateService is the query surface the handlers need.
type ClimateService interface {
	Precipitation(ctx context.Context) ([]types.Precipitation, error)
	Stations(ctx context.Context) ([]types.Station, error)
	TemperatureObservations(ctx context.Context) ([]types.TemperatureObservation, error)
	TemperatureStats(ctx context.Context, start, end string) ([]types.TemperatureStats, error)
}

type ClimateController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type climateControllerImpl struct {
	service ClimateService
}

func NewClimateController(service ClimateService) ClimateController {
	return &climateControllerImpl{service: service}
}

// RegisterRoutes registers the API. The literal routes take precedence over
// {start}, so /api/v1.0/stations never reaches the stats handler.
func (c *climateControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", c.handleIndex)
	mux.HandleFunc("GET /api/v1.0/precipitation", c.handlePrecipitation)
	mux.HandleFunc("GET /api/v1.0/stations", c.handleStations)
	mux.HandleFunc("GET /api/v1.0/tobs", c.handleTobs)
	mux.HandleFunc("GET /api/v1.0/{start}", c.handleStatsFrom)
	mux.HandleFunc("GET /api/v1.0/{start}/{end}", c.handleStatsRange)
}
