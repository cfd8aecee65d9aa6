package get_available_slots

import (
	"errors"
	"fmt"

	"github.com/julinotmonth/outtthelook/internal/domain"
)

var (
	// ErrStaffNotFound возвращается, когда мастер не найден
	ErrStaffNotFound = fmt.Errorf("get_available_slots: staff member not found: %w", domain.ErrNotFound)

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = fmt.Errorf("get_available_slots: service not found: %w", domain.ErrNotFound)

	// ErrServiceInactive возвращается, когда услуга выключена
	ErrServiceInactive = fmt.Errorf("get_available_slots: service is not active: %w", domain.ErrValidation)

	// ErrInvalidDate возвращается, когда дата в прошлом
	ErrInvalidDate = fmt.Errorf("get_available_slots: date is in the past: %w", domain.ErrValidation)

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение max_advance_days
	ErrDateTooFarInFuture = fmt.Errorf("get_available_slots: date is too far in the future: %w", domain.ErrValidation)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("get_available_slots: invalid input data: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
