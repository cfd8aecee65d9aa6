package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/julinotmonth/outtthelook/internal/domain"
	catalogRepo "github.com/julinotmonth/outtthelook/internal/infra/storage/catalog"
)

// UseCase use case для получения доступных слотов мастера
type UseCase struct {
	bookingRepo  BookingRepository
	catalogRepo  CatalogRepository
	policy       domain.BookingPolicy
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	policy domain.BookingPolicy,
	logger Logger,
) *UseCase {
	if policy.SlotStepMinutes <= 0 {
		policy.SlotStepMinutes = domain.DefaultSlotStepMinutes
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		catalogRepo:  catalogRepo,
		policy:       policy,
		timeProvider: &RealTimeProvider{Location: policy.Location},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: staff=%d, date=%s, duration=%d, services=%v",
		req.StaffID, req.Date.Format(domain.DateFormat), req.DurationMinutes, req.ServiceIDs)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()
	date := domain.DateOf(req.Date)

	// 3. Валидация даты
	if err := validateDate(date, now, uc.policy); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 4. Длительность: сумма длительностей услуг или явно переданная
	duration, err := uc.resolveDuration(ctx, req)
	if err != nil {
		return nil, err
	}

	response := &Response{
		StaffID:         req.StaffID,
		Date:            date,
		DurationMinutes: duration,
		Slots:           []domain.TimeSlot{},
	}

	// 5. Получаем мастера
	staff, err := uc.catalogRepo.GetStaffByID(ctx, req.StaffID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrStaffNotFound) {
			uc.logger.Warn("GetAvailableSlots: staff id=%d not found", req.StaffID)
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get staff id=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}

	// Недоступный мастер или пустое окно работы: слотов нет
	if !staff.IsAvailable || !staff.HasWorkingWindow() {
		uc.logger.Info("GetAvailableSlots: staff id=%d has no working window on %s", req.StaffID, date.Format(domain.DateFormat))
		return response, nil
	}

	// 6. Получаем активные бронирования мастера на эту дату
	bookings, err := uc.bookingRepo.GetActiveByStaffAndDate(ctx, req.StaffID, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 7. Строим сетку
	response.Slots = ComputeSlots(SlotParams{
		WorkStart:       staff.WorkStart,
		WorkEnd:         staff.WorkEnd,
		StepMinutes:     uc.policy.SlotStepMinutes,
		DurationMinutes: duration,
		Date:            date,
		Now:             now,
		Bookings:        bookings,
	})

	uc.logger.Info("GetAvailableSlots: generated %d slots for staff=%d, date=%s",
		len(response.Slots), req.StaffID, date.Format(domain.DateFormat))

	return response, nil
}

func (uc *UseCase) resolveDuration(ctx context.Context, req *Request) (int, error) {
	if len(req.ServiceIDs) == 0 {
		return req.DurationMinutes, nil
	}

	services, err := uc.catalogRepo.GetServicesByIDs(ctx, req.ServiceIDs)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: %v", err)
			return 0, fmt.Errorf("%w: %v", ErrServiceNotFound, err)
		}
		uc.logger.Error("GetAvailableSlots: failed to get services: %v", err)
		return 0, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}

	duration := 0
	for _, s := range services {
		if !s.IsActive {
			return 0, fmt.Errorf("%w: id=%d", ErrServiceInactive, s.ID)
		}
		duration += s.DurationMinutes
	}

	if duration <= 0 {
		return 0, fmt.Errorf("%w: total duration must be positive", ErrInvalidInput)
	}

	return duration, nil
}
