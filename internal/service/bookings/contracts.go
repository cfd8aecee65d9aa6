package bookings

import (
	"context"

	"github.com/julinotmonth/outtthelook/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований (только чтение)
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	GetHistory(ctx context.Context, bookingID int64) ([]domain.StatusChange, error)
	Stats(ctx context.Context, filter domain.BookingsFilter) (*domain.BookingStats, error)
}

// TransactionManager read-only транзакция для согласованных агрегатов
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
