package httpapi

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"surfsup-server/internal/utils"
)

const healthTimeout = 2 * time.Second

// storeChecker runs the connectivity probe. *sql.DB satisfies it.
type storeChecker interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type healthHandler struct {
	store   storeChecker
	timeout time.Duration
}

func newHealthHandler(store storeChecker) *healthHandler {
	return &healthHandler{store: store, timeout: healthTimeout}
}

// check fails when the store does not answer SELECT 1 within h.timeout.
func (h *healthHandler) check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	var one int
	if err := h.store.QueryRowContext(ctx, `SELECT 1`).Scan(&one); err != nil {
		return err
	}
	if one != 1 {
		return fmt.Errorf("unexpected SELECT 1 result %d", one)
	}
	return nil
}

func (h *healthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if err := h.check(r.Context()); err != nil {
		slog.Error("health check failed",
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", RequestIDFromContext(r.Context()),
		)
		utils.WriteError(w, http.StatusInternalServerError, "failed to check database connectivity")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
