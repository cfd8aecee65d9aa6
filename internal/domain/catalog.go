package domain

import (
	"time"

	"github.com/julinotmonth/outtthelook/pkg/types"
)

// Service is a bookable catalog item. Price is in the smallest currency unit.
type Service struct {
	ID              int64
	Name            string
	Category        string
	Description     string
	Price           int64
	DurationMinutes int
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// StaffMember is a stylist/barber with a daily working window.
type StaffMember struct {
	ID          int64
	Name        string
	Role        string
	WorkStart   types.TimeString
	WorkEnd     types.TimeString
	IsAvailable bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasWorkingWindow returns true if the working window is valid and non-empty.
// WorkEnd may be "24:00" for a day that runs until midnight.
func (s *StaffMember) HasWorkingWindow() bool {
	if s.WorkStart.Validate() != nil || s.WorkEnd.ValidateEnd() != nil {
		return false
	}
	return s.WorkStart.IsBefore(s.WorkEnd)
}

// PaymentMethodType groups payment methods
type PaymentMethodType string

const (
	PaymentTypeQRIS PaymentMethodType = "qris"
	PaymentTypeBank PaymentMethodType = "bank"
	PaymentTypeCash PaymentMethodType = "cash"
)

// PaymentMethod is a configured way to pay for a booking
type PaymentMethod struct {
	ID            string
	Name          string
	Type          PaymentMethodType
	AccountNumber string
	AccountName   string
	RequiresProof bool
}

// InitialPaymentStatus returns the payment status a new booking starts with
func (m PaymentMethod) InitialPaymentStatus() PaymentStatus {
	if m.RequiresProof {
		return PaymentPending
	}
	return PaymentNotApplicable
}
