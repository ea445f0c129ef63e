// Package dataset creates the climate schema and loads the station and
// measurement CSV exports into it. Schema files are named with a 4-digit
// prefix for order (0001_station.sql, 0002_measurement.sql) and are
// idempotent, so ApplySchema can run against an existing database.
package dataset

import (
	"context"
	"database/sql"
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

//go:embed sql/*.sql
var sqlFS embed.FS

const (
	schemaDir  = "sql"
	dateLayout = "2006-01-02"
)

var schemaFileRe = regexp.MustCompile(`^(\d{4})_(.+)\.sql$`)

var (
	stationColumns     = []string{"station", "name", "latitude", "longitude", "elevation"}
	measurementColumns = []string{"station", "date", "prcp", "tobs"}
)

// Counts reports how many rows Load inserted.
type Counts struct {
	Stations     int
	Measurements int
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ApplySchema creates the station and measurement tables.
func ApplySchema(ctx context.Context, db *sql.DB) error {
	files, err := schemaFiles()
	if err != nil {
		return err
	}
	for _, f := range files {
		body, err := fs.ReadFile(sqlFS, schemaDir+"/"+f)
		if err != nil {
			return fmt.Errorf("read schema %s: %w", f, err)
		}
		if _, err := db.ExecContext(ctx, string(body)); err != nil {
			return fmt.Errorf("apply schema %s: %w", f, err)
		}
		slog.Debug("schema applied", "file", f)
	}
	return nil
}

func schemaFiles() ([]string, error) {
	entries, err := fs.ReadDir(sqlFS, schemaDir)
	if err != nil {
		return nil, fmt.Errorf("read schema dir: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !schemaFileRe.MatchString(e.Name()) {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out, nil
}

// Load applies the schema and inserts both CSV files in one transaction.
// Stations go first so measurement rows satisfy the station foreign key.
func Load(ctx context.Context, db *sql.DB, stations, measurements io.Reader) (Counts, error) {
	if err := ApplySchema(ctx, db); err != nil {
		return Counts{}, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Counts{}, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var counts Counts
	counts.Stations, err = loadStations(ctx, tx, stations)
	if err != nil {
		return Counts{}, fmt.Errorf("stations: %w", err)
	}
	counts.Measurements, err = loadMeasurements(ctx, tx, measurements)
	if err != nil {
		return Counts{}, fmt.Errorf("measurements: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Counts{}, fmt.Errorf("commit: %w", err)
	}
	return counts, nil
}

func loadStations(ctx context.Context, tx execer, r io.Reader) (int, error) {
	const q = `INSERT INTO station (station, name, latitude, longitude, elevation) VALUES (?, ?, ?, ?, ?)`
	return eachRecord(r, stationColumns, func(line int, rec map[string]string) error {
		if rec["station"] == "" {
			return fmt.Errorf("line %d: empty station code", line)
		}
		lat, err := optionalFloat(rec["latitude"])
		if err != nil {
			return fmt.Errorf("line %d: latitude: %w", line, err)
		}
		lon, err := optionalFloat(rec["longitude"])
		if err != nil {
			return fmt.Errorf("line %d: longitude: %w", line, err)
		}
		elev, err := optionalFloat(rec["elevation"])
		if err != nil {
			return fmt.Errorf("line %d: elevation: %w", line, err)
		}
		_, err = tx.ExecContext(ctx, q, rec["station"], rec["name"], lat, lon, elev)
		return err
	})
}

func loadMeasurements(ctx context.Context, tx execer, r io.Reader) (int, error) {
	const q = `INSERT INTO measurement (station, date, prcp, tobs) VALUES (?, ?, ?, ?)`
	return eachRecord(r, measurementColumns, func(line int, rec map[string]string) error {
		if _, err := time.Parse(dateLayout, rec["date"]); err != nil {
			return fmt.Errorf("line %d: date %q: expected YYYY-MM-DD", line, rec["date"])
		}
		prcp, err := optionalFloat(rec["prcp"])
		if err != nil {
			return fmt.Errorf("line %d: prcp: %w", line, err)
		}
		tobs, err := strconv.ParseFloat(strings.TrimSpace(rec["tobs"]), 64)
		if err != nil {
			return fmt.Errorf("line %d: tobs: %w", line, err)
		}
		_, err = tx.ExecContext(ctx, q, rec["station"], rec["date"], prcp, tobs)
		return err
	})
}

// eachRecord maps every data row of a headed CSV stream to its named
// columns. Column order in the file does not matter; every name in want must
// be present in the header.
func eachRecord(r io.Reader, want []string, fn func(line int, rec map[string]string) error) (int, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, errors.New("missing header")
		}
		return 0, fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range want {
		if _, ok := index[col]; !ok {
			return 0, fmt.Errorf("header is missing column %q", col)
		}
	}

	n := 0
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		line, _ := cr.FieldPos(0)
		rec := make(map[string]string, len(want))
		for _, col := range want {
			rec[col] = strings.TrimSpace(row[index[col]])
		}
		if err := fn(line, rec); err != nil {
			return n, err
		}
		n++
	}
}

// optionalFloat maps an empty cell to NULL.
func optionalFloat(s string) (any, error) {
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return f, nil
}
