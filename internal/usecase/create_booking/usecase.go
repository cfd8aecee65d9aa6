package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julinotmonth/outtthelook/internal/domain"
	bookingRepo "github.com/julinotmonth/outtthelook/internal/infra/storage/booking"
	catalogRepo "github.com/julinotmonth/outtthelook/internal/infra/storage/catalog"
	"github.com/julinotmonth/outtthelook/pkg/txmanager"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo    BookingRepository
	catalogRepo    CatalogRepository
	userClient     UserServiceClient
	txManager      TransactionManager
	locker         SlotLocker
	events         EventEmitter
	conflicts      ConflictRecorder
	paymentMethods map[string]domain.PaymentMethod
	policy         domain.BookingPolicy
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case.
// userClient и conflicts могут быть nil.
func NewUseCase(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	userClient UserServiceClient,
	txManager TransactionManager,
	locker SlotLocker,
	events EventEmitter,
	conflicts ConflictRecorder,
	paymentMethods []domain.PaymentMethod,
	policy domain.BookingPolicy,
	logger Logger,
) *UseCase {
	if policy.SlotStepMinutes <= 0 {
		policy.SlotStepMinutes = domain.DefaultSlotStepMinutes
	}

	methods := make(map[string]domain.PaymentMethod, len(paymentMethods))
	for _, m := range paymentMethods {
		methods[m.ID] = m
	}

	return &UseCase{
		bookingRepo:    bookingRepo,
		catalogRepo:    catalogRepo,
		userClient:     userClient,
		txManager:      txManager,
		locker:         locker,
		events:         events,
		conflicts:      conflicts,
		paymentMethods: methods,
		policy:         policy,
		timeProvider:   &RealTimeProvider{Location: policy.Location},
		logger:         logger,
	}
}

// Execute выполняет use case создания бронирования.
// Проверка пересечений и вставка выполняются под блокировкой мастер+дата
// в сериализуемой транзакции, поэтому из двух конкурирующих запросов побеждает ровно один.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Booking, error) {
	uc.logger.Info("CreateBooking: user=%d, staff=%d, date=%s, time=%s, services=%v, payment=%s",
		req.Actor.UserID, req.StaffID, req.Date.Format(domain.DateFormat), req.StartTime, req.ServiceIDs, req.PaymentMethodID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()
	date := domain.DateOf(req.Date)

	// 3. Валидация даты
	if err := validateDate(date, now, uc.policy); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	// 4. Способ оплаты
	method, ok := uc.paymentMethods[req.PaymentMethodID]
	if !ok {
		uc.logger.Warn("CreateBooking: unknown payment method %q", req.PaymentMethodID)
		return nil, fmt.Errorf("%w: %q", ErrUnknownPaymentMethod, req.PaymentMethodID)
	}

	// 5. Получаем услуги
	services, err := uc.catalogRepo.GetServicesByIDs(ctx, req.ServiceIDs)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrServiceNotFound, err)
		}
		uc.logger.Error("CreateBooking: failed to get services: %v", err)
		return nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}

	for _, s := range services {
		if !s.IsActive {
			uc.logger.Warn("CreateBooking: service id=%d is not active", s.ID)
			return nil, fmt.Errorf("%w: id=%d", ErrServiceInactive, s.ID)
		}
	}

	// 6. Получаем мастера
	staff, err := uc.catalogRepo.GetStaffByID(ctx, req.StaffID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrStaffNotFound) {
			uc.logger.Warn("CreateBooking: staff id=%d not found", req.StaffID)
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("CreateBooking: failed to get staff id=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}

	if !staff.IsAvailable || !staff.HasWorkingWindow() {
		uc.logger.Warn("CreateBooking: staff id=%d is not available", req.StaffID)
		return nil, ErrStaffUnavailable
	}

	// 7. Снимок услуг и итоговые значения
	booked, totalPrice, totalDuration := domain.Snapshot(services)

	// 8. Валидация времени бронирования
	if err := validateStartTime(staff, date, req.StartTime, totalDuration, now); err != nil {
		uc.logger.Warn("CreateBooking: start time validation failed: %v", err)
		return nil, err
	}

	// Ошибку сетки отдаем только если интервал не занят (п. 11.2)
	gridErr := validateGrid(staff, req.StartTime, uc.policy.SlotStepMinutes)

	// 9. Контакты клиента: недостающие поля берем из профиля
	customer := uc.fillFromProfile(ctx, req.Actor.UserID, req.Customer)
	if err := validateCustomer(customer); err != nil {
		uc.logger.Warn("CreateBooking: customer validation failed: %v", err)
		return nil, err
	}

	booking := &domain.Booking{
		CustomerID:           req.Actor.UserID,
		StaffID:              staff.ID,
		StaffName:            staff.Name,
		BookingDate:          date,
		StartTime:            req.StartTime,
		Services:             booked,
		TotalPrice:           totalPrice,
		TotalDurationMinutes: totalDuration,
		Customer:             customer,
		PaymentMethodID:      method.ID,
		PaymentStatus:        method.InitialPaymentStatus(),
		Status:               domain.StatusPending,
	}

	// 10. Блокировка мастер+дата в пределах процесса
	unlock, err := uc.locker.Lock(ctx, lockKey(staff.ID, date))
	if err != nil {
		uc.logger.Warn("CreateBooking: failed to acquire slot lock: %v", err)
		return nil, fmt.Errorf("%w: failed to acquire slot lock: %v", ErrInternal, err)
	}
	defer unlock()

	var result *domain.Booking

	// 11. Проверка пересечений и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 11.1. Активные бронирования мастера на эту дату с блокировкой (FOR UPDATE)
		existing, err := uc.bookingRepo.GetActiveByStaffAndDate(txCtx, staff.ID, date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
		}

		// 11.2. Проверяем пересечение интервалов
		for _, other := range existing {
			if other.Overlaps(booking.StartTime, booking.TotalDurationMinutes) {
				uc.logger.Warn("CreateBooking: slot %s %s overlaps booking id=%d",
					date.Format(domain.DateFormat), booking.StartTime, other.ID)
				return ErrSlotNotAvailable
			}
		}

		if gridErr != nil {
			uc.logger.Warn("CreateBooking: start time validation failed: %v", gridErr)
			return gridErr
		}

		// 11.3. Сохраняем бронирование; exclusion constraint страхует от гонки между процессами
		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotNotAvailable) {
				uc.logger.Warn("CreateBooking: slot taken concurrently: %v", err)
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		// 11.4. Начальная запись истории статусов
		if err := uc.bookingRepo.AddStatusChange(txCtx, &domain.StatusChange{
			BookingID:     created.ID,
			ToStatus:      created.Status,
			PaymentStatus: created.PaymentStatus,
			ActorID:       req.Actor.UserID,
			ActorRole:     req.Actor.Role,
			CreatedAt:     created.CreatedAt,
		}); err != nil {
			uc.logger.Error("CreateBooking: failed to write history: %v", err)
			return fmt.Errorf("%w: failed to write history: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		// Проигравший гонку после всех повторов получает конфликт, а не 500
		if errors.Is(err, txmanager.ErrSerializationFailure) {
			uc.logger.Warn("CreateBooking: %v", err)
			err = ErrSlotNotAvailable
		}
		if errors.Is(err, ErrSlotNotAvailable) && uc.conflicts != nil {
			uc.conflicts.RecordBookingConflict()
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	// 12. Событие после коммита
	uc.events.Emit(ctx, domain.Event{
		Type:      domain.EventBookingCreated,
		BookingID: result.ID,
		Data: domain.BookingCreatedData{
			CustomerID:      result.CustomerID,
			StaffID:         result.StaffID,
			Date:            result.BookingDate.Format(domain.DateFormat),
			StartTime:       result.StartTime.String(),
			TotalPrice:      result.TotalPrice,
			TotalDuration:   result.TotalDurationMinutes,
			PaymentMethodID: result.PaymentMethodID,
			PaymentStatus:   result.PaymentStatus,
			CustomerEmail:   result.Customer.Email,
			CustomerPhone:   result.Customer.Phone,
		},
	})

	return result, nil
}

// fillFromProfile заполняет пустые контактные поля из профиля пользователя.
// Недоступность UserService не ломает бронирование.
func (uc *UseCase) fillFromProfile(ctx context.Context, userID int64, customer domain.CustomerInfo) domain.CustomerInfo {
	customer.Name = strings.TrimSpace(customer.Name)
	customer.Email = strings.TrimSpace(customer.Email)
	customer.Phone = strings.TrimSpace(customer.Phone)

	if uc.userClient == nil || (customer.Name != "" && customer.Email != "" && customer.Phone != "") {
		return customer
	}

	profile, err := uc.userClient.GetProfileWithGracefulDegradation(ctx, userID)
	if err != nil {
		uc.logger.Warn("CreateBooking: profile of user id=%d unavailable: %v", userID, err)
		return customer
	}

	if customer.Name == "" {
		customer.Name = profile.Name
	}
	if customer.Email == "" {
		customer.Email = profile.Email
	}
	if customer.Phone == "" {
		customer.Phone = profile.Phone
	}

	return customer
}

func lockKey(staffID int64, date time.Time) string {
	return fmt.Sprintf("%d:%s", staffID, date.Format(domain.DateFormat))
}
