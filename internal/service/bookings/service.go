package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julinotmonth/outtthelook/internal/domain"
	bookingRepo "github.com/julinotmonth/outtthelook/internal/infra/storage/booking"
	"github.com/julinotmonth/outtthelook/internal/service/bookings/models"
)

// Service сервис чтения бронирований: карточка брони, "мои записи", панель администратора
type Service struct {
	bookingRepo BookingRepository
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(bookingRepo BookingRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID.
// Клиент видит только свои брони, сотрудник видит любые.
func (s *Service) GetByID(ctx context.Context, id int64, actor domain.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d (%s)", id, actor.UserID, actor.Role)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if !actor.Role.IsStaff() && booking.CustomerID != actor.UserID {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", actor.UserID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя.
// Опционально фильтрует по статусу.
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	filter := domain.BookingsFilter{CustomerID: &req.UserID}

	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// ListBookings список бронирований с фильтрами для сотрудников
func (s *Service) ListBookings(ctx context.Context, actor domain.Actor, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("ListBookings: user=%d, status=%v, paymentStatus=%v, staff=%v",
		actor.UserID, req.Status, req.PaymentStatus, req.StaffID)

	if err := s.requireStaff("ListBookings", actor); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListBookings: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := validatePeriod(filter.StartDate, filter.EndDate); err != nil {
		s.logger.Warn("ListBookings: %v", err)
		return nil, err
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListBookings: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListBookings: successfully fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// GetHistory история статусов брони (только сотрудники)
func (s *Service) GetHistory(ctx context.Context, actor domain.Actor, id int64) (*models.HistoryResponse, error) {
	s.logger.Info("GetHistory: booking id=%d, user=%d", id, actor.UserID)

	if err := s.requireStaff("GetHistory", actor); err != nil {
		return nil, err
	}

	if _, err := s.getBooking(ctx, "GetHistory", id); err != nil {
		return nil, err
	}

	history, err := s.bookingRepo.GetHistory(ctx, id)
	if err != nil {
		s.logger.Error("GetHistory: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetHistory - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainHistory(id, history), nil
}

// GetStats статистика для панели администратора.
// Выручка считается по неотмененным броням.
func (s *Service) GetStats(ctx context.Context, actor domain.Actor, req *models.StatsRequest) (*models.StatsResponse, error) {
	s.logger.Info("GetStats: user=%d, period=%v..%v", actor.UserID, req.StartDate, req.EndDate)

	if err := s.requireStaff("GetStats", actor); err != nil {
		return nil, err
	}

	if err := validatePeriod(req.StartDate, req.EndDate); err != nil {
		s.logger.Warn("GetStats: %v", err)
		return nil, err
	}

	// Счетчики и топ услуг читаются из одного снимка
	var stats *domain.BookingStats
	err := s.txManager.DoReadOnly(ctx, func(ctx context.Context) error {
		var err error
		stats, err = s.bookingRepo.Stats(ctx, domain.BookingsFilter{StartDate: req.StartDate, EndDate: req.EndDate})
		return err
	})
	if err != nil {
		s.logger.Error("GetStats: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetStats - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainStats(stats), nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

func (s *Service) requireStaff(op string, actor domain.Actor) error {
	if actor.Role.IsStaff() {
		return nil
	}
	s.logger.Warn("%s: user=%d with role %q is not staff", op, actor.UserID, actor.Role)
	return ErrAccessDenied
}

// validatePeriod проверяет, что конец периода не раньше начала
func validatePeriod(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
	}
	return nil
}
