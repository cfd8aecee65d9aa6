package domain

import "time"

// EventType is the routing key of a domain event
type EventType string

const (
	EventBookingCreated        EventType = "booking.created"
	EventBookingStatusChanged  EventType = "booking.status_changed"
	EventPaymentProofSubmitted EventType = "payment.proof_submitted"
	EventPaymentVerified       EventType = "payment.verified"
)

// Event is a fact about a booking, emitted after the change is committed
type Event struct {
	ID         string
	Type       EventType
	BookingID  int64
	OccurredAt time.Time
	Data       interface{}
}

// BookingCreatedData payload of booking.created
type BookingCreatedData struct {
	CustomerID      int64         `json:"customerId"`
	StaffID         int64         `json:"staffId"`
	Date            string        `json:"date"`
	StartTime       string        `json:"startTime"`
	TotalPrice      int64         `json:"totalPrice"`
	TotalDuration   int           `json:"totalDuration"`
	PaymentMethodID string        `json:"paymentMethodId"`
	PaymentStatus   PaymentStatus `json:"paymentStatus"`
	CustomerEmail   string        `json:"customerEmail,omitempty"`
	CustomerPhone   string        `json:"customerPhone,omitempty"`
}

// StatusChangedData payload of booking.status_changed
type StatusChangedData struct {
	PreviousStatus BookingStatus `json:"previousStatus"`
	NewStatus      BookingStatus `json:"newStatus"`
	ActorID        int64         `json:"actorId"`
	ActorRole      Role          `json:"actorRole"`
	Reason         string        `json:"reason,omitempty"`
}

// PaymentProofSubmittedData payload of payment.proof_submitted
type PaymentProofSubmittedData struct {
	CustomerID     int64  `json:"customerId"`
	ProofReference string `json:"proofReference"`
}

// PaymentVerifiedData payload of payment.verified
type PaymentVerifiedData struct {
	Approved      bool          `json:"approved"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	VerifiedBy    int64         `json:"verifiedBy"`
}

// NewStatusChangedEvent builds booking.status_changed from a history record
func NewStatusChangedEvent(change StatusChange) Event {
	return Event{
		Type:       EventBookingStatusChanged,
		BookingID:  change.BookingID,
		OccurredAt: change.CreatedAt,
		Data: StatusChangedData{
			PreviousStatus: change.FromStatus,
			NewStatus:      change.ToStatus,
			ActorID:        change.ActorID,
			ActorRole:      change.ActorRole,
			Reason:         change.Reason,
		},
	}
}
