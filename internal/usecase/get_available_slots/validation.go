package get_available_slots

import (
	"fmt"
	"time"

	"github.com/julinotmonth/outtthelook/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if len(req.ServiceIDs) == 0 && req.DurationMinutes <= 0 {
		return fmt.Errorf("%w: duration must be positive or services must be given", ErrInvalidInput)
	}

	for _, id := range req.ServiceIDs {
		if id <= 0 {
			return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
		}
	}

	return nil
}

// validateDate проверяет, что дата подходит для бронирования
func validateDate(date, now time.Time, policy domain.BookingPolicy) error {
	if policy.IsPastDate(date, now) {
		return ErrInvalidDate
	}

	if policy.IsBeyondHorizon(date, now) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, policy.MaxAdvanceDays)
	}

	return nil
}
