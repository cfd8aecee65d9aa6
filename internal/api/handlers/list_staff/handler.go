package list_staff

import (
	"net/http"
	"strconv"

	"github.com/julinotmonth/outtthelook/internal/api/handlers"
)

const msgInvalidParams = "invalid includeUnavailable value"

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

// Handle GET /api/v1/staff
// Query params: includeUnavailable (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	includeUnavailable := false
	if raw := r.URL.Query().Get("includeUnavailable"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			h.logger.Warn("GET /staff - Invalid includeUnavailable: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		includeUnavailable = value
	}

	staff, err := h.service.ListStaff(r.Context(), includeUnavailable)
	if err != nil {
		h.logger.Error("GET /staff - Failed to list staff: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, staff)
}
