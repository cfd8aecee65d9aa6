package booking

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julinotmonth/outtthelook/internal/domain"
	"github.com/julinotmonth/outtthelook/pkg/types"
)

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(db), mock
}

func testBooking() *domain.Booking {
	return &domain.Booking{
		ID:                   5,
		CustomerID:           7,
		StaffID:              1,
		StaffName:            "Andi",
		BookingDate:          time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		StartTime:            types.TimeString("10:00"),
		TotalPrice:           50000,
		TotalDurationMinutes: 30,
		Customer:             domain.CustomerInfo{Name: "Rina"},
		PaymentMethodID:      "cash",
		PaymentStatus:        domain.PaymentNotApplicable,
		Status:               domain.StatusConfirmed,
		Version:              2,
	}
}

func TestIsExclusionViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"exclusion", &pq.Error{Code: "23P01"}, true},
		{"wrapped exclusion", fmt.Errorf("insert: %w", &pq.Error{Code: "23P01"}), true},
		{"unique violation", &pq.Error{Code: "23505"}, false},
		{"plain error", errors.New("23P01"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isExclusionViolation(tt.err))
		})
	}
}

func TestRepository_Create_ExclusionViolationIsSlotNotAvailable(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("INSERT INTO bookings").WillReturnError(&pq.Error{Code: "23P01"})

	_, err := repo.Create(context.Background(), testBooking())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetActiveByStaffAndDate_KeepsDriverError(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("SELECT .* FROM bookings").WillReturnError(&pq.Error{Code: "40001"})

	_, err := repo.GetActiveByStaffAndDate(context.Background(), 1, testBooking().BookingDate)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExecQuery)

	var pqErr *pq.Error
	require.True(t, errors.As(err, &pqErr))
	assert.Equal(t, "40001", string(pqErr.Code))
}

func TestRepository_Update(t *testing.T) {
	t.Run("version matches", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		updatedAt := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

		mock.ExpectQuery("UPDATE bookings SET").
			WillReturnRows(sqlmock.NewRows([]string{"version", "updated_at"}).AddRow(3, updatedAt))

		booking := testBooking()
		require.NoError(t, repo.Update(context.Background(), booking, 2))
		assert.Equal(t, 3, booking.Version)
		assert.Equal(t, updatedAt, booking.UpdatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale version", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectQuery("UPDATE bookings SET").WillReturnRows(sqlmock.NewRows([]string{"version", "updated_at"}))
		mock.ExpectQuery("SELECT 1 FROM bookings").WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

		err := repo.Update(context.Background(), testBooking(), 1)
		assert.ErrorIs(t, err, ErrVersionConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("booking gone", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectQuery("UPDATE bookings SET").WillReturnRows(sqlmock.NewRows([]string{"version", "updated_at"}))
		mock.ExpectQuery("SELECT 1 FROM bookings").WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

		err := repo.Update(context.Background(), testBooking(), 2)
		assert.ErrorIs(t, err, ErrBookingNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("overlap on reactivation", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectQuery("UPDATE bookings SET").WillReturnError(&pq.Error{Code: "23P01"})

		err := repo.Update(context.Background(), testBooking(), 2)
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
	})
}
