package domain

import (
	"time"

	"github.com/julinotmonth/outtthelook/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// IsValid checks that the status is one of the known statuses
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// PaymentStatus is the payment sub-state of a booking, independent from BookingStatus
type PaymentStatus string

const (
	PaymentNotApplicable       PaymentStatus = "not_applicable"
	PaymentPending             PaymentStatus = "pending"
	PaymentWaitingVerification PaymentStatus = "waiting_verification"
	PaymentPaid                PaymentStatus = "paid"
	PaymentRejected            PaymentStatus = "rejected"
)

// IsValid checks that the payment status is one of the known statuses
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentNotApplicable, PaymentPending, PaymentWaitingVerification, PaymentPaid, PaymentRejected:
		return true
	}
	return false
}

// BookedService is a snapshot of a service taken at booking time.
// Later catalog edits never change it.
type BookedService struct {
	ServiceID       int64
	Name            string
	Price           int64
	DurationMinutes int
}

// CustomerInfo is the contact data captured with a booking
type CustomerInfo struct {
	Name  string
	Email string
	Phone string
	Notes string
}

// Booking represents a service booking in the system
type Booking struct {
	ID          int64
	CustomerID  int64
	StaffID     int64
	StaffName   string
	BookingDate time.Time
	StartTime   types.TimeString

	Services             []BookedService
	TotalPrice           int64
	TotalDurationMinutes int

	Customer CustomerInfo

	PaymentMethodID string
	PaymentStatus   PaymentStatus
	PaymentProof    *string

	Status             BookingStatus
	CancellationReason *string
	CancelledAt        *time.Time
	CompletedAt        *time.Time

	// Version grows with every change, used for optimistic locking
	Version int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking occupies its staff member's time
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsTerminal returns true for completed and cancelled bookings
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled
}

// RequiresProof returns true if the booking's payment goes through proof verification
func (b *Booking) RequiresProof() bool {
	return b.PaymentStatus != PaymentNotApplicable
}

// EndTime returns the end of the occupied interval [StartTime, EndTime)
func (b *Booking) EndTime() (types.TimeString, error) {
	return b.StartTime.AddMinutes(b.TotalDurationMinutes)
}

// Overlaps reports whether the booking's occupied interval intersects [start, start+duration).
// Touching intervals do not overlap.
func (b *Booking) Overlaps(start types.TimeString, durationMinutes int) bool {
	return IntervalsOverlap(b.StartTime, b.TotalDurationMinutes, start, durationMinutes)
}

// IntervalsOverlap checks two half-open intervals given as start + duration in minutes
func IntervalsOverlap(aStart types.TimeString, aDuration int, bStart types.TimeString, bDuration int) bool {
	a0, b0 := aStart.Minutes(), bStart.Minutes()
	if a0 < 0 || b0 < 0 {
		return false
	}
	return a0 < b0+bDuration && b0 < a0+aDuration
}

// Snapshot builds booked service snapshots and totals from catalog services
func Snapshot(services []*Service) ([]BookedService, int64, int) {
	booked := make([]BookedService, 0, len(services))
	var (
		totalPrice    int64
		totalDuration int
	)
	for _, s := range services {
		booked = append(booked, BookedService{
			ServiceID:       s.ID,
			Name:            s.Name,
			Price:           s.Price,
			DurationMinutes: s.DurationMinutes,
		})
		totalPrice += s.Price
		totalDuration += s.DurationMinutes
	}
	return booked, totalPrice, totalDuration
}

// BookingsFilter narrows the staff booking list
type BookingsFilter struct {
	CustomerID    *int64
	StaffID       *int64
	Status        *BookingStatus
	PaymentStatus *PaymentStatus
	StartDate     *time.Time // inclusive
	EndDate       *time.Time // inclusive
	Limit         int
	Offset        int
}

// BookingStats aggregated numbers for the admin dashboard
type BookingStats struct {
	Total               int
	ByStatus            map[BookingStatus]int
	WaitingVerification int
	Revenue             int64
	TopServices         []ServiceStat
}

// ServiceStat popularity of a service across non-cancelled bookings
type ServiceStat struct {
	ServiceID int64
	Name      string
	Bookings  int
	Revenue   int64
}
