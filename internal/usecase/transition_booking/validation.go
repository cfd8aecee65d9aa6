package transition_booking

import (
	"fmt"
	"unicode/utf8"

	"github.com/julinotmonth/outtthelook/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	if !req.Target.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.Target)
	}

	if !req.Actor.Role.IsValid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidInput, req.Actor.Role)
	}

	if utf8.RuneCountInString(req.Reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	return nil
}
