package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/julinotmonth/outtthelook/internal/api/handlers"
	getAvailableSlots "github.com/julinotmonth/outtthelook/internal/usecase/get_available_slots"
)

const (
	msgInvalidStaffID   = "invalid staff ID"
	msgMissingDate      = "date is required"
	msgInvalidDate      = "invalid date, expected YYYY-MM-DD"
	msgInvalidDuration  = "invalid duration"
	msgInvalidServices  = "invalid serviceIds, expected comma separated IDs"
	msgMissingDuration  = "either duration or serviceIds is required"
	msgStaffNotFound    = "staff member not found"
	msgServiceNotFound  = "service not found"
	msgServiceInactive  = "service is not available for booking"
	msgPastDate         = "date is in the past"
	msgDateTooFar       = "date is too far in the future"
	msgInvalidSlotQuery = "invalid slot request"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/staff/{staffId}/available-slots
// Query params: date (required, YYYY-MM-DD), duration (минуты) или serviceIds
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID, err := handlers.PathInt64(r, "staffId")
	if err != nil {
		h.logger.Warn("GET /staff/{id}/available-slots - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	query := r.URL.Query()
	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /staff/{id}/available-slots - Missing date: staff_id=%d", staffID)
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(staffID, dateStr, query.Get("duration"), query.Get("serviceIds"))
	if err != nil {
		h.logger.Warn("GET /staff/{id}/available-slots - Invalid parameters: staff_id=%d, error=%v", staffID, err)
		handlers.RespondBadRequest(w, queryErrorMessage(err))
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrStaffNotFound):
			h.logger.Warn("GET /staff/{id}/available-slots - Staff not found: staff_id=%d", staffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /staff/{id}/available-slots - Service not found: staff_id=%d", staffID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceInactive):
			handlers.RespondBadRequest(w, msgServiceInactive)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, getAvailableSlots.ErrDateTooFarInFuture):
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /staff/{id}/available-slots - Invalid input: staff_id=%d, error=%v", staffID, err)
			handlers.RespondBadRequest(w, msgInvalidSlotQuery)

		default:
			h.logger.Error("GET /staff/{id}/available-slots - Failed to get slots: staff_id=%d, error=%v", staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /staff/{id}/available-slots - Slots retrieved successfully: staff_id=%d, date=%s, slots_count=%d",
		staffID, dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

func queryErrorMessage(err error) string {
	switch {
	case errors.Is(err, errInvalidDuration):
		return msgInvalidDuration
	case errors.Is(err, errInvalidServiceIDs):
		return msgInvalidServices
	case errors.Is(err, errMissingDuration):
		return msgMissingDuration
	default:
		return msgInvalidDate
	}
}
