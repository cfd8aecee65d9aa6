package transition_booking

import (
	"errors"
	"fmt"

	"github.com/julinotmonth/outtthelook/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = fmt.Errorf("transition_booking: booking not found: %w", domain.ErrNotFound)

	// ErrConcurrentModification возвращается, когда все попытки проиграли гонку за версию
	ErrConcurrentModification = fmt.Errorf("transition_booking: booking was modified concurrently, please retry: %w", domain.ErrConflict)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("transition_booking: invalid input data: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("transition_booking: internal error")
)
