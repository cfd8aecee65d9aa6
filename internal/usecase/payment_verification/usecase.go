package payment_verification

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/julinotmonth/outtthelook/internal/domain"
	bookingRepo "github.com/julinotmonth/outtthelook/internal/infra/storage/booking"
)

const defaultRetries = 3

// UseCase use case подтверждения оплаты: загрузка чека клиентом и проверка сотрудником
type UseCase struct {
	bookingRepo  BookingRepository
	txManager    TransactionManager
	events       EventEmitter
	retries      int
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	events EventEmitter,
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
		retries:      retries,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// mutation меняет бронь в памяти; возвращает запись истории (если статус брони сменился),
// флаг изменения и ошибку
type mutation func(b *domain.Booking) (*domain.StatusChange, bool, error)

// SubmitProof прикрепляет подтверждение оплаты: pending/rejected/waiting_verification -> waiting_verification
func (uc *UseCase) SubmitProof(ctx context.Context, req *SubmitProofRequest) (*domain.Booking, error) {
	uc.logger.Info("SubmitProof: booking=%d, actor=%d (%s)", req.BookingID, req.Actor.UserID, req.Actor.Role)

	if err := validateSubmitProof(req); err != nil {
		uc.logger.Warn("SubmitProof: validation failed: %v", err)
		return nil, err
	}

	proof := strings.TrimSpace(req.ProofReference)

	booking, _, err := uc.mutate(ctx, req.BookingID, func(b *domain.Booking) (*domain.StatusChange, bool, error) {
		if !req.Actor.Role.IsStaff() && b.CustomerID != req.Actor.UserID {
			return nil, false, ErrNotBookingOwner
		}
		if err := b.SubmitProof(proof, uc.timeProvider.Now()); err != nil {
			return nil, false, err
		}
		return nil, true, nil
	})
	if err != nil {
		uc.logFailure("SubmitProof", req.BookingID, err)
		return nil, err
	}

	uc.logger.Info("SubmitProof: booking=%d is waiting for verification", booking.ID)

	uc.events.Emit(ctx, domain.Event{
		Type:      domain.EventPaymentProofSubmitted,
		BookingID: booking.ID,
		Data: domain.PaymentProofSubmittedData{
			CustomerID:     booking.CustomerID,
			ProofReference: proof,
		},
	})

	return booking, nil
}

// VerifyPayment решение сотрудника.
// approve: waiting_verification -> paid и одновременно pending -> confirmed.
// reject: waiting_verification -> rejected, чек удаляется, статус брони не меняется.
// Повторное одобрение оплаченной брони ничего не меняет и не порождает событий.
func (uc *UseCase) VerifyPayment(ctx context.Context, req *VerifyRequest) (*domain.Booking, error) {
	uc.logger.Info("VerifyPayment: booking=%d, approve=%t, actor=%d (%s)",
		req.BookingID, req.Approve, req.Actor.UserID, req.Actor.Role)

	if err := validateVerify(req); err != nil {
		uc.logger.Warn("VerifyPayment: validation failed: %v", err)
		return nil, err
	}

	var change *domain.StatusChange

	booking, changed, err := uc.mutate(ctx, req.BookingID, func(b *domain.Booking) (*domain.StatusChange, bool, error) {
		decision, err := b.VerifyPayment(req.Approve, req.Actor, uc.timeProvider.Now())
		if err != nil {
			return nil, false, err
		}
		change = decision.StatusChange
		return decision.StatusChange, decision.Changed, nil
	})
	if err != nil {
		uc.logFailure("VerifyPayment", req.BookingID, err)
		return nil, err
	}

	if !changed {
		uc.logger.Info("VerifyPayment: booking=%d is already paid, nothing to do", booking.ID)
		return booking, nil
	}

	uc.logger.Info("VerifyPayment: booking=%d payment=%s status=%s", booking.ID, booking.PaymentStatus, booking.Status)

	events := []domain.Event{{
		Type:      domain.EventPaymentVerified,
		BookingID: booking.ID,
		Data: domain.PaymentVerifiedData{
			Approved:      req.Approve,
			PaymentStatus: booking.PaymentStatus,
			VerifiedBy:    req.Actor.UserID,
		},
	}}
	if change != nil {
		events = append(events, domain.NewStatusChangedEvent(*change))
	}
	uc.events.Emit(ctx, events...)

	return booking, nil
}

// mutate читает бронь, применяет fn и сохраняет с проверкой версии.
// При проигранной гонке fn применяется заново к свежему состоянию.
func (uc *UseCase) mutate(ctx context.Context, bookingID int64, fn mutation) (*domain.Booking, bool, error) {
	for attempt := 1; attempt <= uc.retries; attempt++ {
		var (
			result  *domain.Booking
			changed bool
		)

		err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
			booking, err := uc.bookingRepo.GetByID(txCtx, bookingID)
			if err != nil {
				if errors.Is(err, bookingRepo.ErrBookingNotFound) {
					return ErrBookingNotFound
				}
				return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
			}

			expectedVersion := booking.Version
			change, ok, err := fn(booking)
			if err != nil {
				return err
			}

			result, changed = booking, ok
			if !ok {
				return nil
			}

			if err := uc.bookingRepo.Update(txCtx, booking, expectedVersion); err != nil {
				if errors.Is(err, bookingRepo.ErrVersionConflict) {
					return err
				}
				return fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
			}

			if change != nil {
				if err := uc.bookingRepo.AddStatusChange(txCtx, change); err != nil {
					return fmt.Errorf("%w: failed to write history: %v", ErrInternal, err)
				}
			}
			return nil
		})

		if err == nil {
			return result, changed, nil
		}
		if !errors.Is(err, bookingRepo.ErrVersionConflict) {
			return nil, false, err
		}

		uc.logger.Warn("Payment: version conflict on booking=%d, attempt %d/%d", bookingID, attempt, uc.retries)
	}

	return nil, false, ErrConcurrentModification
}

func (uc *UseCase) logFailure(op string, bookingID int64, err error) {
	if errors.Is(err, ErrInternal) {
		uc.logger.Error("%s: booking=%d failed: %v", op, bookingID, err)
		return
	}
	uc.logger.Warn("%s: booking=%d refused: %v", op, bookingID, err)
}
