package service

import (
	"context"
	"fmt"
	"time"

	"surfsup-server/internal/modules/climate/repository"
	"surfsup-server/internal/modules/climate/types"
)

const dateLayout = "2006-01-02"

type Service struct {
	repository repository.ClimateRepository
}

func NewService(repository repository.ClimateRepository) *Service {
	return &Service{repository: repository}
}

// OneYearBefore returns the same month and day one year earlier. Feb 29
// maps to Feb 28 rather than rolling over into March.
func OneYearBefore(date string) (string, error) {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", date, err)
	}
	year, month, day := t.Date()
	if month == time.February && day == 29 {
		day = 28
	}
	return time.Date(year-1, month, day, 0, 0, 0, 0, time.UTC).Format(dateLayout), nil
}

// Precipitation returns every reading from the last year of data.
func (s *Service) Precipitation(ctx context.Context) ([]types.Precipitation, error) {
	cutoff, ok, err := s.cutoff(ctx)
	if err != nil || !ok {
		return []types.Precipitation{}, err
	}
	return s.repository.GetPrecipitation(ctx, cutoff)
}

func (s *Service) Stations(ctx context.Context) ([]types.Station, error) {
	return s.repository.GetStations(ctx)
}

// TemperatureObservations returns the last year of tobs readings for the
// station with the most measurements.
func (s *Service) TemperatureObservations(ctx context.Context) ([]types.TemperatureObservation, error) {
	station, ok, err := s.repository.GetMostActiveStation(ctx)
	if err != nil || !ok {
		return []types.TemperatureObservation{}, err
	}
	cutoff, ok, err := s.cutoff(ctx)
	if err != nil || !ok {
		return []types.TemperatureObservation{}, err
	}
	return s.repository.GetTemperatureObservations(ctx, station, cutoff)
}

// TemperatureStats aggregates tobs from start through end. An empty end
// leaves the range open. Neither bound is validated.
func (s *Service) TemperatureStats(ctx context.Context, start, end string) ([]types.TemperatureStats, error) {
	return s.repository.GetTemperatureStats(ctx, start, end)
}

func (s *Service) cutoff(ctx context.Context) (string, bool, error) {
	latest, ok, err := s.repository.GetLatestDate(ctx)
	if err != nil || !ok {
		return "", ok, err
	}
	cutoff, err := OneYearBefore(latest)
	if err != nil {
		return "", false, fmt.Errorf("latest measurement date: %w", err)
	}
	return cutoff, true, nil
}
