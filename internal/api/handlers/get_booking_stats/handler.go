package get_booking_stats

import (
	"errors"
	"net/http"
	"time"

	"github.com/julinotmonth/outtthelook/internal/api/handlers"
	"github.com/julinotmonth/outtthelook/internal/api/middleware"
	"github.com/julinotmonth/outtthelook/internal/domain"
	"github.com/julinotmonth/outtthelook/internal/service/bookings"
	"github.com/julinotmonth/outtthelook/internal/service/bookings/models"
)

const (
	msgMissingUserID = "missing user ID"
	msgInvalidPeriod = "invalid period, expected startDate and endDate as YYYY-MM-DD"
	msgForbidden     = "access denied"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/stats
// Query params: startDate, endDate (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings/stats - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	serviceReq := &models.StatsRequest{}
	for param, target := range map[string]**time.Time{
		"startDate": &serviceReq.StartDate,
		"endDate":   &serviceReq.EndDate,
	} {
		value := r.URL.Query().Get(param)
		if value == "" {
			continue
		}
		date, err := domain.ParseDate(value)
		if err != nil {
			h.logger.Warn("GET /bookings/stats - Invalid %s: %v", param, err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)
			return
		}
		*target = &date
	}

	result, err := h.service.GetStats(r.Context(), actor, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /bookings/stats - Access denied: user_id=%d", actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidPeriod)

		default:
			h.logger.Error("GET /bookings/stats - Failed to get stats: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings/stats - Stats retrieved: user_id=%d, total=%d", actor.UserID, result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
