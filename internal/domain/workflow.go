package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role of the caller as supplied by the identity gateway
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
)

// IsStaff returns true for staff and admin roles
func (r Role) IsStaff() bool {
	return r == RoleStaff || r == RoleAdmin
}

// IsValid checks that the role is known
func (r Role) IsValid() bool {
	return r == RoleCustomer || r.IsStaff()
}

// Actor is the authenticated caller of a mutating operation
type Actor struct {
	UserID int64
	Role   Role
}

// TransitionPolicy holds the configurable parts of the status table
type TransitionPolicy struct {
	CustomerCanCancelConfirmed bool
}

type trigger int

const (
	byStaff trigger = 1 << iota
	byCustomer
	byCustomerIfPolicy
)

// allowedTransitions is the status table and who may take each edge
var allowedTransitions = map[BookingStatus]map[BookingStatus]trigger{
	StatusPending: {
		StatusConfirmed: byStaff,
		StatusCancelled: byStaff | byCustomer,
	},
	StatusConfirmed: {
		StatusCompleted: byStaff,
		StatusCancelled: byStaff | byCustomerIfPolicy,
	},
	StatusCompleted: {},
	StatusCancelled: {},
}

// CanTransition reports whether the table has the edge from -> to for any actor
func CanTransition(from, to BookingStatus) bool {
	edges, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	_, ok = edges[to]
	return ok
}

// CheckTransition validates a status change against the table, the actor's role
// and the payment coupling rule. It does not mutate the booking.
func (b *Booking) CheckTransition(target BookingStatus, actor Actor, policy TransitionPolicy) error {
	edges := allowedTransitions[b.Status]
	who, ok := edges[target]
	if !ok {
		return newInvalidTransition(b, string(target), "not allowed from current status")
	}

	switch {
	case actor.Role.IsStaff():
		if who&byStaff == 0 {
			return newInvalidTransition(b, string(target), "not allowed for staff")
		}
	case actor.Role == RoleCustomer:
		if b.CustomerID != actor.UserID {
			return fmt.Errorf("%w: booking %d belongs to another customer", ErrAccessDenied, b.ID)
		}
		allowed := who&byCustomer != 0 || (who&byCustomerIfPolicy != 0 && policy.CustomerCanCancelConfirmed)
		if !allowed {
			if target == StatusCancelled {
				return newInvalidTransition(b, string(target), "confirmed bookings can only be cancelled by staff")
			}
			return fmt.Errorf("%w: customers cannot move a booking to %s", ErrAccessDenied, target)
		}
	default:
		return fmt.Errorf("%w: unknown role %q", ErrAccessDenied, actor.Role)
	}

	// A booking paid by proof is confirmed only once the payment is paid
	if target == StatusConfirmed && b.RequiresProof() && b.PaymentStatus != PaymentPaid {
		return newInvalidTransition(b, string(target), "payment has not been verified")
	}
	return nil
}

// ApplyTransition moves the booking to target and returns the audit record.
// Callers must run CheckTransition first.
func (b *Booking) ApplyTransition(target BookingStatus, actor Actor, reason string, now time.Time) StatusChange {
	change := StatusChange{
		BookingID:     b.ID,
		FromStatus:    b.Status,
		ToStatus:      target,
		PaymentStatus: b.PaymentStatus,
		ActorID:       actor.UserID,
		ActorRole:     actor.Role,
		Reason:        strings.TrimSpace(reason),
		CreatedAt:     now,
	}

	b.Status = target
	switch target {
	case StatusCancelled:
		b.CancelledAt = &now
		if change.Reason != "" {
			r := change.Reason
			b.CancellationReason = &r
		}
	case StatusCompleted:
		b.CompletedAt = &now
	}
	b.UpdatedAt = now
	return change
}

// SubmitProof attaches a payment proof reference and moves payment to waiting_verification.
// Rejected behaves like pending; resubmitting while waiting replaces the proof.
func (b *Booking) SubmitProof(proofReference string, now time.Time) error {
	const target = "payment:" + string(PaymentWaitingVerification)

	if b.Status == StatusCancelled || b.Status == StatusCompleted {
		return newInvalidTransition(b, target, "booking is "+string(b.Status))
	}
	switch b.PaymentStatus {
	case PaymentPending, PaymentRejected, PaymentWaitingVerification:
	case PaymentPaid:
		return newInvalidTransition(b, target, "payment is already verified")
	default:
		return newInvalidTransition(b, target, "payment method does not take proof")
	}

	ref := proofReference
	b.PaymentProof = &ref
	b.PaymentStatus = PaymentWaitingVerification
	b.UpdatedAt = now
	return nil
}

// PaymentDecision is the outcome of VerifyPayment
type PaymentDecision struct {
	// Changed is false for an idempotent repeat that left the state as is
	Changed bool
	// StatusChange is set when approval confirmed the booking
	StatusChange *StatusChange
}

// VerifyPayment applies a staff decision on the submitted proof.
// Approval composes with the status table: waiting_verification -> paid and pending -> confirmed
// happen together. Approving an already paid booking is a no-op.
func (b *Booking) VerifyPayment(approve bool, actor Actor, now time.Time) (PaymentDecision, error) {
	target := "payment:" + string(PaymentRejected)
	if approve {
		target = "payment:" + string(PaymentPaid)
		if b.PaymentStatus == PaymentPaid {
			return PaymentDecision{}, nil
		}
	}

	if b.Status != StatusPending {
		return PaymentDecision{}, newInvalidTransition(b, target, "booking is "+string(b.Status))
	}
	if b.PaymentStatus != PaymentWaitingVerification {
		return PaymentDecision{}, newInvalidTransition(b, target, "no proof awaiting verification")
	}

	if !approve {
		b.PaymentStatus = PaymentRejected
		b.PaymentProof = nil
		b.UpdatedAt = now
		return PaymentDecision{Changed: true}, nil
	}

	b.PaymentStatus = PaymentPaid
	change := b.ApplyTransition(StatusConfirmed, actor, "payment verified", now)
	return PaymentDecision{Changed: true, StatusChange: &change}, nil
}

// StatusChange is one row of a booking's status history
type StatusChange struct {
	ID            int64
	BookingID     int64
	FromStatus    BookingStatus
	ToStatus      BookingStatus
	PaymentStatus PaymentStatus
	ActorID       int64
	ActorRole     Role
	Reason        string
	CreatedAt     time.Time
}
