package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/recipebox/recipebox/internal/db"
	"github.com/recipebox/recipebox/internal/ui"
)

type HomeHandler struct {
	db *sqlx.DB
}

func NewHomeHandler(database *sqlx.DB) *HomeHandler {
	return &HomeHandler{db: database}
}

func (h *HomeHandler) NotFoundPage(w http.ResponseWriter, r *http.Request) {
	ui.RenderStatus(w, r, http.StatusNotFound, ui.NotFoundPage())
}

// Health reports whether the database answers.
func (h *HomeHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := map[string]string{"status": "ok"}

	err := db.Ping(r.Context(), h.db)
	if err != nil {
		slog.Error("health check failed", "error", err)
		status = http.StatusServiceUnavailable
		body["status"] = "unavailable"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
