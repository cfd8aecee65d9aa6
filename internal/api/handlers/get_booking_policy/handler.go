package get_booking_policy

import (
	"net/http"

	"github.com/julinotmonth/outtthelook/internal/api/handlers"
)

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

// Handle GET /api/v1/booking-policy
// Публичный endpoint: шаг сетки, горизонт бронирования и часовой пояс салона
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	policy := h.service.GetBookingPolicy(r.Context())

	h.logger.Info("GET /booking-policy - Policy retrieved: step=%d, max_advance_days=%d",
		policy.SlotStepMinutes, policy.MaxAdvanceDays)
	handlers.RespondJSON(w, http.StatusOK, policy)
}
