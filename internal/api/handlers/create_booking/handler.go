package create_booking

import (
	"errors"
	"net/http"

	"github.com/julinotmonth/outtthelook/internal/api/handlers"
	"github.com/julinotmonth/outtthelook/internal/api/middleware"
	"github.com/julinotmonth/outtthelook/internal/service/bookings/models"
	createBooking "github.com/julinotmonth/outtthelook/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody  = "invalid request body"
	msgInvalidDate         = "invalid date, expected YYYY-MM-DD"
	msgInvalidTime         = "invalid start time, expected HH:MM"
	msgMissingUserID       = "missing user ID"
	msgSlotNotAvailable    = "this slot was just taken, please choose another"
	msgServiceNotFound     = "service not found"
	msgStaffNotFound       = "staff member not found"
	msgServiceInactive     = "service is not available for booking"
	msgStaffUnavailable    = "staff member is not accepting bookings"
	msgInvalidBookingDate  = "booking date is in the past"
	msgDateTooFar          = "booking date is too far in the future"
	msgInvalidTimeSlot     = "start time is not a valid slot for this staff member"
	msgSlotElapsed         = "this slot has already passed"
	msgUnknownPayment      = "unknown payment method"
	msgInvalidCustomer     = "invalid customer contact details"
	msgInvalidBookingInput = "invalid booking request"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(actor)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: user_id=%d, error=%v", actor.UserID, err)
		if errors.Is(err, errInvalidTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	booking, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if message, known := errorMessage(err); known {
			h.logger.Warn("POST /bookings - Rejected: user_id=%d, staff_id=%d, error=%v", actor.UserID, req.StaffID, err)
			handlers.RespondDomainError(w, err, message)
			return
		}
		h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, staff_id=%d, error=%v",
			actor.UserID, req.StaffID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, staff_id=%d",
		booking.ID, actor.UserID, booking.StaffID)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainBooking(booking))
}

func errorMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, createBooking.ErrSlotNotAvailable):
		return msgSlotNotAvailable, true
	case errors.Is(err, createBooking.ErrServiceNotFound):
		return msgServiceNotFound, true
	case errors.Is(err, createBooking.ErrStaffNotFound):
		return msgStaffNotFound, true
	case errors.Is(err, createBooking.ErrServiceInactive):
		return msgServiceInactive, true
	case errors.Is(err, createBooking.ErrStaffUnavailable):
		return msgStaffUnavailable, true
	case errors.Is(err, createBooking.ErrInvalidDate):
		return msgInvalidBookingDate, true
	case errors.Is(err, createBooking.ErrDateTooFarInFuture):
		return msgDateTooFar, true
	case errors.Is(err, createBooking.ErrInvalidTimeSlot):
		return msgInvalidTimeSlot, true
	case errors.Is(err, createBooking.ErrSlotElapsed):
		return msgSlotElapsed, true
	case errors.Is(err, createBooking.ErrUnknownPaymentMethod):
		return msgUnknownPayment, true
	case errors.Is(err, createBooking.ErrInvalidCustomer):
		return msgInvalidCustomer, true
	case errors.Is(err, createBooking.ErrInvalidInput):
		return msgInvalidBookingInput, true
	default:
		return "", false
	}
}
