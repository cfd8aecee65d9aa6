package payment_verification

import (
	"errors"
	"fmt"

	"github.com/julinotmonth/outtthelook/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = fmt.Errorf("payment_verification: booking not found: %w", domain.ErrNotFound)

	// ErrNotBookingOwner возвращается, когда клиент работает с чужой бронью
	ErrNotBookingOwner = fmt.Errorf("payment_verification: booking belongs to another customer: %w", domain.ErrAccessDenied)

	// ErrStaffOnly возвращается, когда проверку оплаты вызывает не сотрудник
	ErrStaffOnly = fmt.Errorf("payment_verification: only staff can verify payments: %w", domain.ErrAccessDenied)

	// ErrConcurrentModification возвращается, когда все попытки проиграли гонку за версию
	ErrConcurrentModification = fmt.Errorf("payment_verification: booking was modified concurrently, please retry: %w", domain.ErrConflict)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("payment_verification: invalid input data: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("payment_verification: internal error")
)
