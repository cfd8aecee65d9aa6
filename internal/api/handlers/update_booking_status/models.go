package update_booking_status

import (
	"github.com/julinotmonth/outtthelook/internal/domain"
	transitionBooking "github.com/julinotmonth/outtthelook/internal/usecase/transition_booking"
)

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status string `json:"status"` // confirmed | completed | cancelled
	Reason string `json:"reason,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *UpdateStatusRequest) ToUseCaseRequest(bookingID int64, actor domain.Actor) *transitionBooking.Request {
	return &transitionBooking.Request{
		BookingID: bookingID,
		Target:    domain.BookingStatus(r.Status),
		Actor:     actor,
		Reason:    r.Reason,
	}
}
