package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"surfsup-server/internal/cache"
	"surfsup-server/internal/config"
	db "surfsup-server/internal/db"
	httpapi "surfsup-server/internal/httpapi"
	climate "surfsup-server/internal/modules/climate"
	climateviews "surfsup-server/internal/modules/climate/views"
)

func Run(ctx context.Context, cfg config.Config) error {
	slog.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"dbDriver", cfg.Driver,
		"dbDSNSet", cfg.DSN != "",
		"sqlitePath", cfg.Path,
		"dbMaxOpenConns", cfg.MaxOpenConns,
		"dbMaxIdleConns", cfg.MaxIdleConns,
		"dbConnMaxLifetime", cfg.ConnMaxLifetime,
		"redisAddr", cfg.RedisAddr,
		"cacheTTL", cfg.CacheTTL,
	)
	dbConn, err := db.Open(cfg, slog.Default())
	if err != nil {
		return err
	}
	defer func() {
		closeErr := db.Close(dbConn)
		if closeErr != nil {
			slog.Error("db close", "error", closeErr)
		}
	}()

	var ok int
	err = dbConn.QueryRowContext(ctx, `SELECT 1`).Scan(&ok)
	if err != nil {
		return err
	}
	if ok != 1 {
		return errors.New("database connection failed")
	}
	slog.Info("database connection successful")

	if err := climateviews.LoadTemplates(); err != nil {
		return err
	}
	mux := httpapi.NewMux(dbConn)
	climate.RegisterFeature(mux, dbConn, cfg.Driver)

	responseCache, closeCache := openCache(ctx, cfg)
	defer closeCache()

	srv := httpapi.NewServer(cfg, mux, responseCache)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	slog.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err = <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}

// openCache connects to Redis when REDIS_ADDR is set. An unreachable Redis
// is logged and the server runs uncached.
func openCache(ctx context.Context, cfg config.Config) (cache.Cache, func()) {
	if cfg.RedisAddr == "" {
		return nil, func() {}
	}

	redisCache := cache.NewRedisCache(cache.NewRedisClient(cfg))
	closeFn := func() {
		if err := redisCache.Close(); err != nil {
			slog.Error("redis close", "error", err)
		}
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
	err := redisCache.Ping(pingCtx)
	pingCancel()
	if err != nil {
		slog.Warn("redis connection failed (continuing without response cache)", "addr", cfg.RedisAddr, "error", err)
		closeFn()
		return nil, func() {}
	}
	slog.Info("response cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
	return redisCache, closeFn
}
