package httpapi

import (
	"database/sql"
	"net/http"
)

// NewMux returns a mux serving /healthz. Features register their own routes
// on it.
func NewMux(db *sql.DB) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET /healthz", newHealthHandler(db))
	return mux
}
