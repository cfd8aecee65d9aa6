package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/julinotmonth/outtthelook/internal/domain"
	"github.com/julinotmonth/outtthelook/pkg/dbmetrics"
	"github.com/julinotmonth/outtthelook/pkg/psqlbuilder"
)

const (
	// exclusionViolation SQLSTATE 23P01, сработал bookings_no_overlap
	exclusionViolation = "23P01"
	topServicesLimit   = 5
)

var bookingColumns = []string{
	"id",
	"customer_id",
	"staff_id",
	"staff_name",
	"booking_date",
	"start_time",
	"total_price",
	"total_duration_minutes",
	"customer_name",
	"customer_email",
	"customer_phone",
	"notes",
	"payment_method_id",
	"payment_status",
	"payment_proof",
	"status",
	"cancellation_reason",
	"cancelled_at",
	"completed_at",
	"version",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает бронирование вместе со снимками услуг.
// Вызывается внутри транзакции: вставка брони и услуг должна быть атомарной.
// Пересечение с активной бронью того же мастера отсекается exclusion constraint и
// возвращается как ErrSlotNotAvailable.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"customer_id",
			"staff_id",
			"staff_name",
			"booking_date",
			"start_time",
			"total_price",
			"total_duration_minutes",
			"customer_name",
			"customer_email",
			"customer_phone",
			"notes",
			"payment_method_id",
			"payment_status",
			"payment_proof",
			"status",
			"version",
		).
		Values(
			booking.CustomerID,
			booking.StaffID,
			booking.StaffName,
			booking.BookingDate.Format(domain.DateFormat),
			booking.StartTime,
			booking.TotalPrice,
			booking.TotalDurationMinutes,
			booking.Customer.Name,
			booking.Customer.Email,
			booking.Customer.Phone,
			booking.Customer.Notes,
			booking.PaymentMethodID,
			booking.PaymentStatus,
			booking.PaymentProof,
			booking.Status,
			1,
		).
		Suffix("RETURNING id, version, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&booking.Version,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		if isExclusionViolation(err) {
			return nil, ErrSlotNotAvailable
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	if len(booking.Services) > 0 {
		insert := psqlbuilder.Insert("booking_services").
			Columns("booking_id", "position", "service_id", "service_name", "price", "duration_minutes")
		for i, s := range booking.Services {
			insert = insert.Values(booking.ID, i, s.ServiceID, s.Name, s.Price, s.DurationMinutes)
		}
		query, args, err = insert.ToSql()
		if err != nil {
			return nil, fmt.Errorf("%w: Create - build services insert: %w", ErrBuildQuery, err)
		}
		if _, err = executor.ExecContext(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("%w: Create - insert services: %w", ErrExecQuery, err)
		}
	}

	return booking, nil
}

// GetByID получает бронирование по ID.
// Внутри транзакции строка блокируется (FOR UPDATE), чтобы переходы статуса по одной брони шли последовательно.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - execute select: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings, err := r.scanBookings(rows)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, ErrBookingNotFound
	}

	if err := r.attachServices(ctx, executor, bookings); err != nil {
		return nil, err
	}
	return bookings[0], nil
}

// GetActiveByStaffAndDate возвращает брони мастера на дату, которые занимают время (pending, confirmed).
// Внутри транзакции строки блокируются FOR UPDATE.
func (r *Repository) GetActiveByStaffAndDate(ctx context.Context, staffID int64, date time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{
			"staff_id":     staffID,
			"booking_date": date.Format(domain.DateFormat),
			"status":       domain.ActiveStatuses,
		}).
		OrderBy("start_time ASC")
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByStaffAndDate - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByStaffAndDate - execute select: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// List возвращает бронирования по фильтру, новые даты первыми
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := applyFilter(psqlbuilder.Select(bookingColumns...).From("bookings"), filter).
		OrderBy("booking_date DESC", "start_time DESC", "id DESC")
	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		selectBuilder = selectBuilder.Offset(uint64(filter.Offset))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute select: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings, err := r.scanBookings(rows)
	if err != nil {
		return nil, err
	}
	if err := r.attachServices(ctx, executor, bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// Update сохраняет изменяемые поля брони, если версия в БД совпадает с expectedVersion.
// При успехе увеличивает booking.Version.
func (r *Repository) Update(ctx context.Context, booking *domain.Booking, expectedVersion int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", booking.Status).
		Set("payment_status", booking.PaymentStatus).
		Set("payment_proof", booking.PaymentProof).
		Set("cancellation_reason", booking.CancellationReason).
		Set("cancelled_at", booking.CancelledAt).
		Set("completed_at", booking.CompletedAt).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": booking.ID, "version": expectedVersion}).
		Suffix("RETURNING version, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&booking.Version, &booking.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		exists, existsErr := r.exists(ctx, executor, booking.ID)
		if existsErr != nil {
			return existsErr
		}
		if !exists {
			return ErrBookingNotFound
		}
		return ErrVersionConflict
	}
	if err != nil {
		if isExclusionViolation(err) {
			return ErrSlotNotAvailable
		}
		return fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}
	return nil
}

// AddStatusChange пишет строку в историю статусов
func (r *Repository) AddStatusChange(ctx context.Context, change *domain.StatusChange) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var fromStatus *string
	if change.FromStatus != "" {
		s := string(change.FromStatus)
		fromStatus = &s
	}

	query, args, err := psqlbuilder.Insert("booking_status_history").
		Columns("booking_id", "from_status", "to_status", "payment_status", "actor_id", "actor_role", "reason").
		Values(change.BookingID, fromStatus, change.ToStatus, change.PaymentStatus, change.ActorID, change.ActorRole, change.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AddStatusChange - build insert query: %w", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&change.ID, &change.CreatedAt); err != nil {
		return fmt.Errorf("%w: AddStatusChange - execute insert: %w", ErrExecQuery, err)
	}
	return nil
}

// GetHistory возвращает историю статусов брони в хронологическом порядке
func (r *Repository) GetHistory(ctx context.Context, bookingID int64) ([]domain.StatusChange, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "booking_id", "from_status", "to_status", "payment_status", "actor_id", "actor_role", "reason", "created_at",
	).
		From("booking_status_history").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetHistory - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetHistory - execute select: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	history := make([]domain.StatusChange, 0)
	for rows.Next() {
		var (
			change     domain.StatusChange
			fromStatus sql.NullString
		)
		if err := rows.Scan(
			&change.ID,
			&change.BookingID,
			&fromStatus,
			&change.ToStatus,
			&change.PaymentStatus,
			&change.ActorID,
			&change.ActorRole,
			&change.Reason,
			&change.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: GetHistory - scan row: %w", ErrScanRow, err)
		}
		change.FromStatus = domain.BookingStatus(fromStatus.String)
		history = append(history, change)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetHistory - rows error: %w", ErrScanRow, err)
	}
	return history, nil
}

// Stats считает агрегаты для панели администратора.
// Выручка и популярные услуги считаются по неотмененным броням.
func (r *Repository) Stats(ctx context.Context, filter domain.BookingsFilter) (*domain.BookingStats, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := applyFilter(psqlbuilder.Select(
		"status",
		"COUNT(*)",
		"COALESCE(SUM(total_price), 0)",
		"COUNT(*) FILTER (WHERE payment_status = 'waiting_verification')",
	).From("bookings"), filter).
		GroupBy("status").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Stats - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Stats - execute select: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	stats := &domain.BookingStats{ByStatus: make(map[domain.BookingStatus]int)}
	for rows.Next() {
		var (
			status  domain.BookingStatus
			count   int
			revenue int64
			waiting int
		)
		if err := rows.Scan(&status, &count, &revenue, &waiting); err != nil {
			return nil, fmt.Errorf("%w: Stats - scan row: %w", ErrScanRow, err)
		}
		stats.ByStatus[status] = count
		stats.Total += count
		if status != domain.StatusCancelled {
			stats.Revenue += revenue
			stats.WaitingVerification += waiting
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: Stats - rows error: %w", ErrScanRow, err)
	}

	top, err := r.topServices(ctx, executor, filter)
	if err != nil {
		return nil, err
	}
	stats.TopServices = top
	return stats, nil
}

func (r *Repository) topServices(ctx context.Context, executor DBExecutor, filter domain.BookingsFilter) ([]domain.ServiceStat, error) {
	selectBuilder := psqlbuilder.Select(
		"bs.service_id",
		"MAX(bs.service_name)",
		"COUNT(*)",
		"COALESCE(SUM(bs.price), 0)",
	).
		From("booking_services bs").
		Join("bookings b ON b.id = bs.booking_id").
		Where(squirrel.NotEq{"b.status": domain.StatusCancelled})
	selectBuilder = applyFilterWithPrefix(selectBuilder, filter, "b.").
		GroupBy("bs.service_id").
		OrderBy("COUNT(*) DESC", "bs.service_id ASC").
		Limit(topServicesLimit)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: topServices - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: topServices - execute select: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]domain.ServiceStat, 0, topServicesLimit)
	for rows.Next() {
		var s domain.ServiceStat
		if err := rows.Scan(&s.ServiceID, &s.Name, &s.Bookings, &s.Revenue); err != nil {
			return nil, fmt.Errorf("%w: topServices - scan row: %w", ErrScanRow, err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: topServices - rows error: %w", ErrScanRow, err)
	}
	return result, nil
}

func (r *Repository) exists(ctx context.Context, executor DBExecutor, id int64) (bool, error) {
	query, args, err := psqlbuilder.Select("1").From("bookings").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: exists - build select query: %w", ErrBuildQuery, err)
	}
	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: exists - execute select: %w", ErrExecQuery, err)
	}
	return true, nil
}

// attachServices догружает снимки услуг одним запросом на все брони
func (r *Repository) attachServices(ctx context.Context, executor DBExecutor, bookings []*domain.Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.Booking, len(bookings))
	ids := make([]int64, 0, len(bookings))
	for _, b := range bookings {
		byID[b.ID] = b
		ids = append(ids, b.ID)
	}

	query, args, err := psqlbuilder.Select("booking_id", "service_id", "service_name", "price", "duration_minutes").
		From("booking_services").
		Where(squirrel.Eq{"booking_id": ids}).
		OrderBy("booking_id", "position").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: attachServices - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: attachServices - execute select: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			bookingID int64
			s         domain.BookedService
		)
		if err := rows.Scan(&bookingID, &s.ServiceID, &s.Name, &s.Price, &s.DurationMinutes); err != nil {
			return fmt.Errorf("%w: attachServices - scan row: %w", ErrScanRow, err)
		}
		if b, ok := byID[bookingID]; ok {
			b.Services = append(b.Services, s)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: attachServices - rows error: %w", ErrScanRow, err)
	}
	return nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		var (
			booking     domain.Booking
			bookingDate time.Time
		)

		err := rows.Scan(
			&booking.ID,
			&booking.CustomerID,
			&booking.StaffID,
			&booking.StaffName,
			&bookingDate,
			&booking.StartTime,
			&booking.TotalPrice,
			&booking.TotalDurationMinutes,
			&booking.Customer.Name,
			&booking.Customer.Email,
			&booking.Customer.Phone,
			&booking.Customer.Notes,
			&booking.PaymentMethodID,
			&booking.PaymentStatus,
			&booking.PaymentProof,
			&booking.Status,
			&booking.CancellationReason,
			&booking.CancelledAt,
			&booking.CompletedAt,
			&booking.Version,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %w", ErrScanRow, err)
		}

		booking.BookingDate = domain.DateOf(bookingDate)
		bookings = append(bookings, &booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}

func applyFilter(b squirrel.SelectBuilder, filter domain.BookingsFilter) squirrel.SelectBuilder {
	return applyFilterWithPrefix(b, filter, "")
}

func applyFilterWithPrefix(b squirrel.SelectBuilder, filter domain.BookingsFilter, prefix string) squirrel.SelectBuilder {
	if filter.CustomerID != nil {
		b = b.Where(squirrel.Eq{prefix + "customer_id": *filter.CustomerID})
	}
	if filter.StaffID != nil {
		b = b.Where(squirrel.Eq{prefix + "staff_id": *filter.StaffID})
	}
	if filter.Status != nil {
		b = b.Where(squirrel.Eq{prefix + "status": *filter.Status})
	}
	if filter.PaymentStatus != nil {
		b = b.Where(squirrel.Eq{prefix + "payment_status": *filter.PaymentStatus})
	}
	if filter.StartDate != nil {
		b = b.Where(squirrel.GtOrEq{prefix + "booking_date": filter.StartDate.Format(domain.DateFormat)})
	}
	if filter.EndDate != nil {
		b = b.Where(squirrel.LtOrEq{prefix + "booking_date": filter.EndDate.Format(domain.DateFormat)})
	}
	return b
}

func isExclusionViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == exclusionViolation
}
