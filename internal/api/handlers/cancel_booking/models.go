package cancel_booking

import (
	"github.com/julinotmonth/outtthelook/internal/domain"
	transitionBooking "github.com/julinotmonth/outtthelook/internal/usecase/transition_booking"
	"github.com/julinotmonth/outtthelook/pkg/ptr"
)

// CancelBookingRequest HTTP request model, тело запроса необязательно
type CancelBookingRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *CancelBookingRequest) ToUseCaseRequest(bookingID int64, actor domain.Actor) *transitionBooking.Request {
	return &transitionBooking.Request{
		BookingID: bookingID,
		Target:    domain.StatusCancelled,
		Actor:     actor,
		Reason:    ptr.Deref(r.CancellationReason, ""),
	}
}
