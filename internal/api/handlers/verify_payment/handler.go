package verify_payment

import (
	"errors"
	"net/http"

	"github.com/julinotmonth/outtthelook/internal/api/handlers"
	"github.com/julinotmonth/outtthelook/internal/api/middleware"
	"github.com/julinotmonth/outtthelook/internal/domain"
	"github.com/julinotmonth/outtthelook/internal/service/bookings/models"
	paymentVerification "github.com/julinotmonth/outtthelook/internal/usecase/payment_verification"
)

const (
	msgInvalidBookingID   = "invalid booking ID"
	msgInvalidRequestBody = "invalid request body, expected {\"approve\": true|false}"
	msgMissingUserID      = "missing user ID"
	msgNotFound           = "booking not found"
	msgForbidden          = "only staff can verify payments"
	msgRetry              = "booking was changed by someone else, please retry"
)

// VerifyPaymentRequest HTTP request model
type VerifyPaymentRequest struct {
	Approve *bool `json:"approve"`
}

type Handler struct {
	useCase PaymentUseCase
	logger  Logger
}

func NewHandler(useCase PaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/bookings/{bookingId}/verify-payment
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("PUT /bookings/{id}/verify-payment - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PUT /bookings/{id}/verify-payment - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req VerifyPaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil || req.Approve == nil {
		h.logger.Warn("PUT /bookings/{id}/verify-payment - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	booking, err := h.useCase.VerifyPayment(r.Context(), &paymentVerification.VerifyRequest{
		BookingID: bookingID,
		Approve:   *req.Approve,
		Actor:     actor,
	})
	if err != nil {
		switch {
		case errors.Is(err, paymentVerification.ErrBookingNotFound):
			h.logger.Warn("PUT /bookings/{id}/verify-payment - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrAccessDenied):
			h.logger.Warn("PUT /bookings/{id}/verify-payment - Access denied: user_id=%d", actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrInvalidTransition):
			h.logger.Warn("PUT /bookings/{id}/verify-payment - Rejected: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondDomainError(w, err, "")

		case errors.Is(err, paymentVerification.ErrConcurrentModification):
			handlers.RespondConflict(w, msgRetry)

		case errors.Is(err, paymentVerification.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PUT /bookings/{id}/verify-payment - Failed to verify payment: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /bookings/{id}/verify-payment - Payment decision applied: booking_id=%d, approve=%t, payment=%s, status=%s",
		bookingID, *req.Approve, booking.PaymentStatus, booking.Status)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainBooking(booking))
}
