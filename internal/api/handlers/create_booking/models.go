package create_booking

import (
	"errors"

	"github.com/julinotmonth/outtthelook/internal/domain"
	createBooking "github.com/julinotmonth/outtthelook/internal/usecase/create_booking"
	"github.com/julinotmonth/outtthelook/pkg/types"
)

var (
	errInvalidDate = errors.New("invalid date")
	errInvalidTime = errors.New("invalid start time")
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	StaffID         int64   `json:"staffId"`
	Date            string  `json:"date"`      // "2025-03-10"
	StartTime       string  `json:"startTime"` // "10:00"
	ServiceIDs      []int64 `json:"serviceIds"`
	PaymentMethodID string  `json:"paymentMethodId"`
	CustomerName    string  `json:"customerName,omitempty"`
	CustomerEmail   string  `json:"customerEmail,omitempty"`
	CustomerPhone   string  `json:"customerPhone,omitempty"`
	Notes           string  `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(actor domain.Actor) (*createBooking.Request, error) {
	date, err := domain.ParseDate(r.Date)
	if err != nil {
		return nil, errInvalidDate
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, errInvalidTime
	}

	return &createBooking.Request{
		Actor:      actor,
		StaffID:    r.StaffID,
		Date:       date,
		StartTime:  startTime,
		ServiceIDs: r.ServiceIDs,
		Customer: domain.CustomerInfo{
			Name:  r.CustomerName,
			Email: r.CustomerEmail,
			Phone: r.CustomerPhone,
			Notes: r.Notes,
		},
		PaymentMethodID: r.PaymentMethodID,
	}, nil
}
