package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/julinotmonth/outtthelook/internal/domain"
	bookingRepo "github.com/julinotmonth/outtthelook/internal/infra/storage/booking"
)

// BookingRepository хранилище бронирований в памяти процесса.
// Повторяет контракт Postgres-репозитория: проверка пересечений при вставке
// и optimistic locking по версии при обновлении выполняются под одним мьютексом.
type BookingRepository struct {
	mu        sync.RWMutex
	bookings  map[int64]*domain.Booking
	history   map[int64][]domain.StatusChange
	nextID    int64
	historyID int64
	now       func() time.Time
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{
		bookings: make(map[int64]*domain.Booking),
		history:  make(map[int64][]domain.StatusChange),
		now:      time.Now,
	}
}

func (r *BookingRepository) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if booking.IsActive() {
		for _, existing := range r.bookings {
			if existing.StaffID != booking.StaffID || !existing.IsActive() {
				continue
			}
			if !existing.BookingDate.Equal(booking.BookingDate) {
				continue
			}
			if existing.Overlaps(booking.StartTime, booking.TotalDurationMinutes) {
				return nil, bookingRepo.ErrSlotNotAvailable
			}
		}
	}

	r.nextID++
	now := r.now()
	booking.ID = r.nextID
	booking.Version = 1
	booking.CreatedAt = now
	booking.UpdatedAt = now

	r.bookings[booking.ID] = cloneBooking(booking)
	return booking, nil
}

func (r *BookingRepository) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return cloneBooking(b), nil
}

func (r *BookingRepository) GetActiveByStaffAndDate(_ context.Context, staffID int64, date time.Time) ([]*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Booking, 0)
	for _, b := range r.bookings {
		if b.StaffID == staffID && b.IsActive() && b.BookingDate.Equal(date) {
			result = append(result, cloneBooking(b))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartTime.IsBefore(result[j].StartTime)
	})
	return result, nil
}

func (r *BookingRepository) List(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Booking, 0)
	for _, b := range r.bookings {
		if matches(b, filter) {
			result = append(result, cloneBooking(b))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if !a.BookingDate.Equal(b.BookingDate) {
			return a.BookingDate.After(b.BookingDate)
		}
		if a.StartTime != b.StartTime {
			return a.StartTime.IsAfter(b.StartTime)
		}
		return a.ID > b.ID
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return []*domain.Booking{}, nil
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (r *BookingRepository) Update(_ context.Context, booking *domain.Booking, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.bookings[booking.ID]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	if stored.Version != expectedVersion {
		return bookingRepo.ErrVersionConflict
	}

	updated := cloneBooking(stored)
	updated.Status = booking.Status
	updated.PaymentStatus = booking.PaymentStatus
	updated.PaymentProof = cloneString(booking.PaymentProof)
	updated.CancellationReason = cloneString(booking.CancellationReason)
	updated.CancelledAt = cloneTime(booking.CancelledAt)
	updated.CompletedAt = cloneTime(booking.CompletedAt)
	updated.Version = stored.Version + 1
	updated.UpdatedAt = r.now()
	r.bookings[booking.ID] = updated

	booking.Version = updated.Version
	booking.UpdatedAt = updated.UpdatedAt
	return nil
}

func (r *BookingRepository) AddStatusChange(_ context.Context, change *domain.StatusChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.historyID++
	change.ID = r.historyID
	if change.CreatedAt.IsZero() {
		change.CreatedAt = r.now()
	}
	r.history[change.BookingID] = append(r.history[change.BookingID], *change)
	return nil
}

func (r *BookingRepository) GetHistory(_ context.Context, bookingID int64) ([]domain.StatusChange, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	history := make([]domain.StatusChange, len(r.history[bookingID]))
	copy(history, r.history[bookingID])
	return history, nil
}

func (r *BookingRepository) Stats(_ context.Context, filter domain.BookingsFilter) (*domain.BookingStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &domain.BookingStats{ByStatus: make(map[domain.BookingStatus]int)}
	services := make(map[int64]*domain.ServiceStat)

	for _, b := range r.bookings {
		if !matches(b, filter) {
			continue
		}
		stats.Total++
		stats.ByStatus[b.Status]++
		if b.Status == domain.StatusCancelled {
			continue
		}
		stats.Revenue += b.TotalPrice
		if b.PaymentStatus == domain.PaymentWaitingVerification {
			stats.WaitingVerification++
		}
		for _, s := range b.Services {
			stat, ok := services[s.ServiceID]
			if !ok {
				stat = &domain.ServiceStat{ServiceID: s.ServiceID, Name: s.Name}
				services[s.ServiceID] = stat
			}
			stat.Bookings++
			stat.Revenue += s.Price
		}
	}

	top := make([]domain.ServiceStat, 0, len(services))
	for _, s := range services {
		top = append(top, *s)
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Bookings != top[j].Bookings {
			return top[i].Bookings > top[j].Bookings
		}
		return top[i].ServiceID < top[j].ServiceID
	})
	if len(top) > topServicesLimit {
		top = top[:topServicesLimit]
	}
	stats.TopServices = top
	return stats, nil
}

const topServicesLimit = 5

func matches(b *domain.Booking, f domain.BookingsFilter) bool {
	switch {
	case f.CustomerID != nil && b.CustomerID != *f.CustomerID:
		return false
	case f.StaffID != nil && b.StaffID != *f.StaffID:
		return false
	case f.Status != nil && b.Status != *f.Status:
		return false
	case f.PaymentStatus != nil && b.PaymentStatus != *f.PaymentStatus:
		return false
	case f.StartDate != nil && b.BookingDate.Before(*f.StartDate):
		return false
	case f.EndDate != nil && b.BookingDate.After(*f.EndDate):
		return false
	}
	return true
}

func cloneBooking(b *domain.Booking) *domain.Booking {
	c := *b
	c.Services = append([]domain.BookedService(nil), b.Services...)
	c.PaymentProof = cloneString(b.PaymentProof)
	c.CancellationReason = cloneString(b.CancellationReason)
	c.CancelledAt = cloneTime(b.CancelledAt)
	c.CompletedAt = cloneTime(b.CompletedAt)
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
