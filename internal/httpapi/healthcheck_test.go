package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func Test_handleHealthz(t *testing.T) {
	t.Run("ok when database answers", func(t *testing.T) {
		rec := do(NewMux(openMemory(t)), http.MethodGet, "/healthz")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
		}
		if got := rec.Body.String(); got != `{"status":"ok"}`+"\n" {
			t.Errorf("body = %q", got)
		}
	})

	t.Run("500 when database is closed", func(t *testing.T) {
		db := openMemory(t)
		_ = db.Close()

		rec := do(NewMux(db), http.MethodGet, "/healthz")
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d; want %d", rec.Code, http.StatusInternalServerError)
		}
		if !strings.Contains(rec.Body.String(), "failed to check database connectivity") {
			t.Errorf("body = %q", rec.Body.String())
		}
	})

	t.Run("post is not allowed", func(t *testing.T) {
		rec := do(NewMux(openMemory(t)), http.MethodPost, "/healthz")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d; want %d", rec.Code, http.StatusMethodNotAllowed)
		}
	})
}

func Test_healthHandler_timesOutOnStalledStore(t *testing.T) {
	db := openMemory(t)
	db.SetMaxOpenConns(1)

	// hold the only connection so the probe cannot get one
	held, err := db.Conn(context.Background())
	if err != nil {
		t.Fatalf("db.Conn: %v", err)
	}
	defer held.Close()

	h := newHealthHandler(db)
	h.timeout = 50 * time.Millisecond

	start := time.Now()
	rec := do(h, http.MethodGet, "/healthz")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusInternalServerError)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("health check took %s; want it bounded by the timeout", elapsed)
	}
}

func Test_healthHandler_canceledRequest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	newHealthHandler(openMemory(t)).ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d; want %d", rec.Code, http.StatusInternalServerError)
	}
}
