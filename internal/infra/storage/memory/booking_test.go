package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julinotmonth/outtthelook/internal/domain"
	bookingRepo "github.com/julinotmonth/outtthelook/internal/infra/storage/booking"
	"github.com/julinotmonth/outtthelook/pkg/types"
)

var testDate = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func newBooking(staffID int64, start types.TimeString, duration int) *domain.Booking {
	return &domain.Booking{
		CustomerID:           7,
		StaffID:              staffID,
		BookingDate:          testDate,
		StartTime:            start,
		TotalDurationMinutes: duration,
		TotalPrice:           50000,
		Services:             []domain.BookedService{{ServiceID: 1, Name: "Haircut", Price: 50000, DurationMinutes: duration}},
		Status:               domain.StatusPending,
		PaymentStatus:        domain.PaymentNotApplicable,
	}
}

func TestBookingRepository_CreateRejectsOverlap(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()

	first, err := repo.Create(ctx, newBooking(1, "10:00", 30))
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, 1, first.Version)

	_, err = repo.Create(ctx, newBooking(1, "10:15", 30))
	assert.ErrorIs(t, err, bookingRepo.ErrSlotNotAvailable)

	// соседний интервал и другой мастер не конфликтуют
	_, err = repo.Create(ctx, newBooking(1, "10:30", 30))
	assert.NoError(t, err)
	_, err = repo.Create(ctx, newBooking(2, "10:00", 30))
	assert.NoError(t, err)
}

func TestBookingRepository_CancelledDoesNotBlock(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()

	b, err := repo.Create(ctx, newBooking(1, "10:00", 30))
	require.NoError(t, err)

	b.Status = domain.StatusCancelled
	require.NoError(t, repo.Update(ctx, b, 1))

	_, err = repo.Create(ctx, newBooking(1, "10:00", 30))
	assert.NoError(t, err)
}

func TestBookingRepository_ConcurrentCreateExactlyOne(t *testing.T) {
	repo := NewBookingRepository()
	var (
		wg        sync.WaitGroup
		succeeded int32
		conflicts int32
	)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(context.Background(), newBooking(1, "14:00", 60))
			if err == nil {
				atomic.AddInt32(&succeeded, 1)
			} else if assert.ErrorIs(t, err, bookingRepo.ErrSlotNotAvailable) {
				atomic.AddInt32(&conflicts, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded)
	assert.Equal(t, int32(49), conflicts)
}

func TestBookingRepository_UpdateVersionConflict(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, newBooking(1, "10:00", 30))
	require.NoError(t, err)

	a, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	b, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)

	a.Status = domain.StatusConfirmed
	require.NoError(t, repo.Update(ctx, a, a.Version))
	assert.Equal(t, 2, a.Version)

	b.Status = domain.StatusCancelled
	assert.ErrorIs(t, repo.Update(ctx, b, b.Version), bookingRepo.ErrVersionConflict)

	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, stored.Status)

	missing := &domain.Booking{ID: 999}
	assert.ErrorIs(t, repo.Update(ctx, missing, 1), bookingRepo.ErrBookingNotFound)
}

func TestBookingRepository_ReturnsCopies(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, newBooking(1, "10:00", 30))
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	got.Services[0].Price = 1
	got.TotalPrice = 1

	again, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), again.TotalPrice)
	assert.Equal(t, int64(50000), again.Services[0].Price)
}

func TestBookingRepository_ListAndStats(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()

	for _, start := range []types.TimeString{"09:00", "10:00", "11:00"} {
		_, err := repo.Create(ctx, newBooking(1, start, 30))
		require.NoError(t, err)
	}
	cancelled, err := repo.GetByID(ctx, 2)
	require.NoError(t, err)
	cancelled.Status = domain.StatusCancelled
	require.NoError(t, repo.Update(ctx, cancelled, cancelled.Version))

	list, err := repo.List(ctx, domain.BookingsFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, types.TimeString("11:00"), list[0].StartTime)

	status := domain.StatusCancelled
	list, err = repo.List(ctx, domain.BookingsFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(2), list[0].ID)

	stats, err := repo.Stats(ctx, domain.BookingsFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.ByStatus[domain.StatusPending])
	assert.Equal(t, int64(100000), stats.Revenue)
	require.Len(t, stats.TopServices, 1)
	assert.Equal(t, 2, stats.TopServices[0].Bookings)
}

func TestBookingRepository_History(t *testing.T) {
	repo := NewBookingRepository()
	ctx := context.Background()

	require.NoError(t, repo.AddStatusChange(ctx, &domain.StatusChange{BookingID: 1, ToStatus: domain.StatusPending}))
	require.NoError(t, repo.AddStatusChange(ctx, &domain.StatusChange{
		BookingID: 1, FromStatus: domain.StatusPending, ToStatus: domain.StatusConfirmed,
	}))

	history, err := repo.GetHistory(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.StatusConfirmed, history[1].ToStatus)
	assert.Equal(t, int64(2), history[1].ID)
}
