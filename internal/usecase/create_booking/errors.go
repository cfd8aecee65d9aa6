package create_booking

import (
	"errors"
	"fmt"

	"github.com/julinotmonth/outtthelook/internal/domain"
)

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = fmt.Errorf("create_booking: service not found: %w", domain.ErrNotFound)

	// ErrStaffNotFound возвращается, когда мастер не найден
	ErrStaffNotFound = fmt.Errorf("create_booking: staff member not found: %w", domain.ErrNotFound)

	// ErrServiceInactive возвращается, когда услуга выключена
	ErrServiceInactive = fmt.Errorf("create_booking: service is not active: %w", domain.ErrValidation)

	// ErrStaffUnavailable возвращается, когда мастер не принимает записи
	ErrStaffUnavailable = fmt.Errorf("create_booking: staff member is not available: %w", domain.ErrValidation)

	// ErrInvalidDate возвращается, когда дата бронирования в прошлом
	ErrInvalidDate = fmt.Errorf("create_booking: booking date is in the past: %w", domain.ErrValidation)

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение max_advance_days
	ErrDateTooFarInFuture = fmt.Errorf("create_booking: date is too far in the future: %w", domain.ErrValidation)

	// ErrInvalidTimeSlot возвращается, когда время не на сетке или интервал выходит за рабочие часы
	ErrInvalidTimeSlot = fmt.Errorf("create_booking: invalid time slot: %w", domain.ErrValidation)

	// ErrSlotElapsed возвращается, когда время слота сегодня уже прошло
	ErrSlotElapsed = fmt.Errorf("create_booking: slot start time has already passed: %w", domain.ErrValidation)

	// ErrUnknownPaymentMethod возвращается для неизвестного способа оплаты
	ErrUnknownPaymentMethod = fmt.Errorf("create_booking: unknown payment method: %w", domain.ErrValidation)

	// ErrInvalidCustomer возвращается при некорректных контактных данных клиента
	ErrInvalidCustomer = fmt.Errorf("create_booking: invalid customer info: %w", domain.ErrValidation)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("create_booking: invalid input data: %w", domain.ErrValidation)

	// ErrSlotNotAvailable возвращается, когда интервал пересекается с активным бронированием
	ErrSlotNotAvailable = fmt.Errorf("this slot was just taken, please choose another: %w", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
