package submit_payment_proof

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
	msgInvalidRequestBody = "invalid request body"
	msgMissingUserID      = "missing user ID"
	msgInvalidProof       = "proof reference is required and must be at most 1024 characters"
	msgNotFound           = "booking not found"
	msgForbidden          = "access denied"
	msgProofNotAccepted   = "payment proof cannot be submitted for this booking"
	msgRetry              = "booking was changed by someone else, please retry"
)

// SubmitProofRequest HTTP request model: ссылка на загруженный файл или номер транзакции
type SubmitProofRequest struct {
	ProofReference string `json:"proofReference"`
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

// Handle POST /api/v1/bookings/{bookingId}/payment-proof
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/payment-proof - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/payment-proof - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req SubmitProofRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/payment-proof - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	booking, err := h.useCase.SubmitProof(r.Context(), &paymentVerification.SubmitProofRequest{
		BookingID:      bookingID,
		ProofReference: req.ProofReference,
		Actor:          actor,
	})
	if err != nil {
		switch {
		case errors.Is(err, paymentVerification.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/payment-proof - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, paymentVerification.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidProof)

		case errors.Is(err, domain.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/payment-proof - Access denied: booking_id=%d, user_id=%d",
				bookingID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrInvalidTransition):
			h.logger.Warn("POST /bookings/{id}/payment-proof - Rejected: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondDomainError(w, err, msgProofNotAccepted)

		case errors.Is(err, paymentVerification.ErrConcurrentModification):
			handlers.RespondConflict(w, msgRetry)

		default:
			h.logger.Error("POST /bookings/{id}/payment-proof - Failed to submit proof: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/payment-proof - Proof submitted: booking_id=%d, user_id=%d",
		bookingID, actor.UserID)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainBooking(booking))
}
