package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"surfsup-server/internal/db"
	"surfsup-server/internal/modules/climate/types"
)

//go:embed sql/get-stations.sql
var getStationsSQL string

//go:embed sql/get-latest-date.sql
var getLatestDateSQL string

//go:embed sql/get-precipitation.sql
var getPrecipitationSQL string

//go:embed sql/get-most-active-station.sql
var getMostActiveStationSQL string

//go:embed sql/get-temperature-observations.sql
var getTemperatureObservationsSQL string

//go:embed sql/get-temperature-stats-from.sql
var getTemperatureStatsFromSQL string

//go:embed sql/get-temperature-stats-range.sql
var getTemperatureStatsRangeSQL string

// ClimateRepository reads the station and measurement tables. Dates are
// ISO strings (YYYY-MM-DD) and are compared as strings, so a malformed bound
// simply matches nothing.
type ClimateRepository interface {
	GetStations(ctx context.Context) ([]types.Station, error)
	// GetLatestDate reports false when there are no measurements.
	GetLatestDate(ctx context.Context) (string, bool, error)
	GetPrecipitation(ctx context.Context, since string) ([]types.Precipitation, error)
	// GetMostActiveStation reports false when there are no measurements.
	GetMostActiveStation(ctx context.Context) (string, bool, error)
	GetTemperatureObservations(ctx context.Context, station string, since string) ([]types.TemperatureObservation, error)
	// GetTemperatureStats aggregates tobs over [start, end]; an empty end
	// leaves the range open.
	GetTemperatureStats(ctx context.Context, start string, end string) ([]types.TemperatureStats, error)
}

type queries struct {
	stations                string
	latestDate              string
	precipitation           string
	mostActiveStation       string
	temperatureObservations string
	temperatureStatsFrom    string
	temperatureStatsRange   string
}

type repositoryImpl struct {
	db *sql.DB
	q  queries
}

// NewRepository binds the embedded queries to driverName's placeholder style.
func NewRepository(conn *sql.DB, driverName string) ClimateRepository {
	return &repositoryImpl{
		db: conn,
		q: queries{
			stations:                db.Rebind(driverName, getStationsSQL),
			latestDate:              db.Rebind(driverName, getLatestDateSQL),
			precipitation:           db.Rebind(driverName, getPrecipitationSQL),
			mostActiveStation:       db.Rebind(driverName, getMostActiveStationSQL),
			temperatureObservations: db.Rebind(driverName, getTemperatureObservationsSQL),
			temperatureStatsFrom:    db.Rebind(driverName, getTemperatureStatsFromSQL),
			temperatureStatsRange:   db.Rebind(driverName, getTemperatureStatsRangeSQL),
		},
	}
}

func (r *repositoryImpl) GetStations(ctx context.Context) ([]types.Station, error) {
	rows, err := r.db.QueryContext(ctx, r.q.stations)
	if err != nil {
		return nil, fmt.Errorf("query stations: %w", err)
	}
	defer closeRows(rows, "stations")

	out := make([]types.Station, 0)
	for rows.Next() {
		var s types.Station
		if err := rows.Scan(&s.ID, &s.Station, &s.Name); err != nil {
			return nil, fmt.Errorf("scan station: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) GetLatestDate(ctx context.Context) (string, bool, error) {
	var date string
	err := r.db.QueryRowContext(ctx, r.q.latestDate).Scan(&date)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query latest date: %w", err)
	}
	return date, true, nil
}

func (r *repositoryImpl) GetPrecipitation(ctx context.Context, since string) ([]types.Precipitation, error) {
	rows, err := r.db.QueryContext(ctx, r.q.precipitation, since)
	if err != nil {
		return nil, fmt.Errorf("query precipitation: %w", err)
	}
	defer closeRows(rows, "precipitation")

	out := make([]types.Precipitation, 0)
	for rows.Next() {
		var (
			rec  types.Precipitation
			prcp sql.NullFloat64
		)
		if err := rows.Scan(&rec.Date, &prcp); err != nil {
			return nil, fmt.Errorf("scan precipitation: %w", err)
		}
		if prcp.Valid {
			v := prcp.Float64
			rec.Precipitation = &v
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) GetMostActiveStation(ctx context.Context) (string, bool, error) {
	var station string
	err := r.db.QueryRowContext(ctx, r.q.mostActiveStation).Scan(&station)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query most active station: %w", err)
	}
	return station, true, nil
}

func (r *repositoryImpl) GetTemperatureObservations(ctx context.Context, station string, since string) ([]types.TemperatureObservation, error) {
	rows, err := r.db.QueryContext(ctx, r.q.temperatureObservations, station, since)
	if err != nil {
		return nil, fmt.Errorf("query temperature observations: %w", err)
	}
	defer closeRows(rows, "temperature observations")

	out := make([]types.TemperatureObservation, 0)
	for rows.Next() {
		var rec types.TemperatureObservation
		if err := rows.Scan(&rec.Date, &rec.Tobs); err != nil {
			return nil, fmt.Errorf("scan temperature observation: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) GetTemperatureStats(ctx context.Context, start string, end string) ([]types.TemperatureStats, error) {
	var row *sql.Row
	if end == "" {
		row = r.db.QueryRowContext(ctx, r.q.temperatureStatsFrom, start)
	} else {
		row = r.db.QueryRowContext(ctx, r.q.temperatureStatsRange, start, end)
	}

	var (
		n     int
		stats types.TemperatureStats
	)
	if err := row.Scan(&n, &stats.Min, &stats.Max, &stats.Avg, &stats.Station); err != nil {
		return nil, fmt.Errorf("query temperature stats: %w", err)
	}
	// An aggregate without GROUP BY always yields one row; with nothing in
	// range it carries no information.
	if n == 0 {
		return []types.TemperatureStats{}, nil
	}
	return []types.TemperatureStats{stats}, nil
}

func closeRows(rows *sql.Rows, what string) {
	if err := rows.Close(); err != nil {
		slog.Error("close rows", "query", what, "error", err)
	}
}
