package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"surfsup-server/internal/config"
	"surfsup-server/internal/db"
	"surfsup-server/tools/dataset"
)

const usage = `usage: %s <command>
  schema                           create the station and measurement tables
  load <stations.csv> <measurements.csv>
                                   create the schema and load both CSV files
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, usage, os.Args[0])
		os.Exit(1)
	}

	dbPath := strings.TrimSpace(os.Getenv("SQLITE_PATH"))
	if dbPath == "" {
		dbPath = "hawaii.sqlite"
	}
	cfg := config.Config{
		Driver:       db.DriverSQLite,
		Path:         filepath.Clean(dbPath),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}

	conn, err := db.Open(cfg, slog.Default())
	if err != nil {
		fmt.Fprintf(os.Stderr, "db open: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := db.Close(conn); closeErr != nil {
			slog.Error("db close", "err", closeErr)
		}
	}()

	ctx := context.Background()
	switch os.Args[1] {
	case "schema":
		if err := dataset.ApplySchema(ctx, conn); err != nil {
			fmt.Fprintf(os.Stderr, "schema: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("schema applied")
	case "load":
		if len(os.Args) != 4 {
			fmt.Fprintf(os.Stderr, usage, os.Args[0])
			os.Exit(1)
		}
		counts, err := loadFiles(ctx, conn, os.Args[2], os.Args[3])
		if err != nil {
			fmt.Fprintf(os.Stderr, "load: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("loaded %d stations, %d measurements into %s\n", counts.Stations, counts.Measurements, cfg.Path)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
}
