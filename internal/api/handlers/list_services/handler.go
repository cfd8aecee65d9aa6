package list_services

import (
	"net/http"
	"strconv"

	"github.com/julinotmonth/outtthelook/internal/api/handlers"
)

const msgInvalidParams = "invalid includeInactive value"

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/services
// Query params: includeInactive (опционально, по умолчанию только активные)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	includeInactive := false
	if raw := r.URL.Query().Get("includeInactive"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			h.logger.Warn("GET /services - Invalid includeInactive: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		includeInactive = value
	}

	services, err := h.service.ListServices(r.Context(), includeInactive)
	if err != nil {
		h.logger.Error("GET /services - Failed to list services: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, services)
}
