package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"surfsup-server/tools/dataset"
)

func loadFiles(ctx context.Context, conn *sql.DB, stationsPath, measurementsPath string) (dataset.Counts, error) {
	stations, err := os.Open(stationsPath)
	if err != nil {
		return dataset.Counts{}, fmt.Errorf("open %s: %w", stationsPath, err)
	}
	defer closeFile(stations)

	measurements, err := os.Open(measurementsPath)
	if err != nil {
		return dataset.Counts{}, fmt.Errorf("open %s: %w", measurementsPath, err)
	}
	defer closeFile(measurements)

	return dataset.Load(ctx, conn, stations, measurements)
}

func closeFile(f *os.File) {
	if err := f.Close(); err != nil {
		slog.Error("close file", "path", f.Name(), "err", err)
	}
}
