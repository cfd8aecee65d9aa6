package health

import (
	"context"
	"net/http"
	"time"

	"github.com/julinotmonth/outtthelook/internal/api/handlers"
)

const pingTimeout = 2 * time.Second

// Pinger проверка доступности хранилища (*dbmetrics.DB)
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Logger interface {
	Warn(format string, v ...interface{})
}

type Response struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}

type Handler struct {
	db     Pinger
	logger Logger
}

// NewHandler db может быть nil (хранилище в памяти)
func NewHandler(db Pinger, logger Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// Handle GET /health
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		handlers.RespondJSON(w, http.StatusOK, Response{Status: "ok", Storage: "memory"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Warn("GET /health - Database is unreachable: %v", err)
		handlers.RespondJSON(w, http.StatusServiceUnavailable, Response{Status: "unavailable", Storage: "postgres"})
		return
	}
	handlers.RespondJSON(w, http.StatusOK, Response{Status: "ok", Storage: "postgres"})
}
