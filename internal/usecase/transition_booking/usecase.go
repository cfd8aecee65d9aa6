package transition_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/julinotmonth/outtthelook/internal/domain"
	bookingRepo "github.com/julinotmonth/outtthelook/internal/infra/storage/booking"
)

const defaultRetries = 3

// UseCase use case для смены статуса бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	txManager    TransactionManager
	events       EventEmitter
	policy       domain.TransitionPolicy
	retries      int
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case.
// retries: сколько раз перечитать бронь после проигранной гонки за версию.
func NewUseCase(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	events EventEmitter,
	policy domain.TransitionPolicy,
	retries int,
	logger Logger,
) *UseCase {
	if retries <= 0 {
		retries = defaultRetries
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		events:       events,
		policy:       policy,
		retries:      retries,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute проверяет переход по таблице статусов и сохраняет его.
// Проигранная гонка за версию перепроверяется на свежем состоянии брони.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Booking, error) {
	uc.logger.Info("TransitionBooking: booking=%d, target=%s, actor=%d (%s)",
		req.BookingID, req.Target, req.Actor.UserID, req.Actor.Role)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("TransitionBooking: validation failed: %v", err)
		return nil, err
	}

	var (
		result *domain.Booking
		change domain.StatusChange
	)

	for attempt := 1; attempt <= uc.retries; attempt++ {
		err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
			// 2. Читаем бронь (FOR UPDATE внутри транзакции)
			booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
			if err != nil {
				if errors.Is(err, bookingRepo.ErrBookingNotFound) {
					return ErrBookingNotFound
				}
				return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
			}

			// 3. Проверяем переход
			if err := booking.CheckTransition(req.Target, req.Actor, uc.policy); err != nil {
				return err
			}

			// 4. Применяем и сохраняем с проверкой версии
			expectedVersion := booking.Version
			change = booking.ApplyTransition(req.Target, req.Actor, req.Reason, uc.timeProvider.Now())

			if err := uc.bookingRepo.Update(txCtx, booking, expectedVersion); err != nil {
				if errors.Is(err, bookingRepo.ErrVersionConflict) {
					return err
				}
				return fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
			}

			// 5. История статусов
			if err := uc.bookingRepo.AddStatusChange(txCtx, &change); err != nil {
				return fmt.Errorf("%w: failed to write history: %v", ErrInternal, err)
			}

			result = booking
			return nil
		})

		if err == nil {
			break
		}

		if errors.Is(err, bookingRepo.ErrVersionConflict) {
			uc.logger.Warn("TransitionBooking: version conflict on booking=%d, attempt %d/%d",
				req.BookingID, attempt, uc.retries)
			continue
		}

		uc.logTransitionError(req, err)
		return nil, err
	}

	if result == nil {
		uc.logger.Warn("TransitionBooking: booking=%d still contended after %d attempts", req.BookingID, uc.retries)
		return nil, ErrConcurrentModification
	}

	uc.logger.Info("TransitionBooking: booking=%d moved %s -> %s", result.ID, change.FromStatus, change.ToStatus)

	// 6. Событие после коммита
	uc.events.Emit(ctx, domain.NewStatusChangedEvent(change))

	return result, nil
}

func (uc *UseCase) logTransitionError(req *Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrAccessDenied), errors.Is(err, domain.ErrNotFound):
		uc.logger.Warn("TransitionBooking: booking=%d refused: %v", req.BookingID, err)
	default:
		uc.logger.Error("TransitionBooking: booking=%d failed: %v", req.BookingID, err)
	}
}
