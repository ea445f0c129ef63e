// Package climatetest seeds a small SQLite climate store for tests.
//
// The fixture's latest date is 2017-08-23, so the one-year cutoff is
// 2016-08-23. USC00519281 has the most measurements.
package climatetest

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"surfsup-server/internal/config"
	"surfsup-server/internal/db"
	"surfsup-server/tools/dataset"
)

const (
	LatestDate        = "2017-08-23"
	Cutoff            = "2016-08-23"
	MostActiveStation = "USC00519281"
)

const StationsCSV = `station,name,latitude,longitude,elevation
USC00519397,"WAIKIKI 717.2, HI US",21.2716,-157.8168,3.0
USC00513117,"KANEOHE 838.1, HI US",21.4234,-157.8015,14.6
USC00519281,"WAIHEE 837.5, HI US",21.45167,-157.84889,32.9
`

const MeasurementsCSV = `station,date,prcp,tobs
USC00519397,2016-08-22,0.1,70
USC00519397,2016-08-23,0.2,71
USC00519397,2017-08-23,0.0,81
USC00513117,2016-08-23,,75
USC00513117,2017-08-22,0.5,76
USC00519281,2016-08-24,0.0,72
USC00519281,2017-08-20,0.3,74
USC00519281,2017-08-21,0.3,78
USC00519281,2017-08-22,,79
`

// Seed writes the fixture into a fresh SQLite file and returns its path.
func Seed(t testing.TB) string {
	t.Helper()
	return SeedCSV(t, StationsCSV, MeasurementsCSV)
}

// SeedCSV is Seed with caller-provided CSV bodies.
func SeedCSV(t testing.TB, stations, measurements string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hawaii.sqlite")

	conn, err := db.Open(config.Config{Driver: db.DriverSQLite, Path: path, MaxOpenConns: 1}, nil)
	if err != nil {
		t.Fatalf("open fixture db: %v", err)
	}
	defer func() { _ = db.Close(conn) }()

	if _, err := dataset.Load(context.Background(), conn, strings.NewReader(stations), strings.NewReader(measurements)); err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	return path
}

// Open seeds the fixture and opens it read-only, the way the server does.
func Open(t testing.TB) *sql.DB {
	t.Helper()
	return OpenPath(t, Seed(t))
}

// OpenPath opens an existing fixture file read-only.
func OpenPath(t testing.TB, path string) *sql.DB {
	t.Helper()
	conn, err := db.Open(config.Config{
		Driver:       db.DriverSQLite,
		Path:         path,
		ReadOnly:     true,
		MaxOpenConns: 2,
		MaxIdleConns: 2,
	}, nil)
	if err != nil {
		t.Fatalf("open read-only fixture db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(conn) })
	return conn
}
