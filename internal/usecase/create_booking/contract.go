package create_booking

import (
	"context"
	"time"

	"github.com/julinotmonth/outtthelook/internal/domain"
	"github.com/julinotmonth/outtthelook/internal/integrations/userservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetActiveByStaffAndDate(ctx context.Context, staffID int64, date time.Time) ([]*domain.Booking, error)
	AddStatusChange(ctx context.Context, change *domain.StatusChange) error
}

// CatalogRepository интерфейс каталога услуг и мастеров
type CatalogRepository interface {
	GetStaffByID(ctx context.Context, id int64) (*domain.StaffMember, error)
	GetServicesByIDs(ctx context.Context, ids []int64) ([]*domain.Service, error)
}

// UserServiceClient интерфейс клиента для UserService
type UserServiceClient interface {
	GetProfileWithGracefulDegradation(ctx context.Context, userID int64) (*userservice.Profile, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// SlotLocker блокировка в пределах процесса по ключу мастер+дата
type SlotLocker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// EventEmitter отправка доменных событий после коммита
type EventEmitter interface {
	Emit(ctx context.Context, events ...domain.Event)
}

// ConflictRecorder счетчик проигранных гонок за слот
type ConflictRecorder interface {
	RecordBookingConflict()
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider текущее время в часовом поясе салона
type RealTimeProvider struct {
	Location *time.Location
}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	if p.Location == nil {
		return time.Now()
	}
	return time.Now().In(p.Location)
}
