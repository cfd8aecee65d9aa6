package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Package-level sentinels wrap one of these so the API layer
// can map any error to a response without knowing the package it came from.
var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrAccessDenied      = errors.New("access denied")
)

// InvalidTransitionError carries the booking state the request was evaluated against,
// so the caller can resync.
type InvalidTransitionError struct {
	BookingID     int64
	Status        BookingStatus
	PaymentStatus PaymentStatus
	Target        string
	Reason        string
}

func (e *InvalidTransitionError) Error() string {
	msg := fmt.Sprintf("invalid transition: booking %d (status=%s, payment=%s) cannot move to %s",
		e.BookingID, e.Status, e.PaymentStatus, e.Target)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

func newInvalidTransition(b *Booking, target, reason string) *InvalidTransitionError {
	return &InvalidTransitionError{
		BookingID:     b.ID,
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
		Target:        target,
		Reason:        reason,
	}
}
