package domain

import "time"

// BookingPolicy is the static booking configuration of the salon
type BookingPolicy struct {
	SlotStepMinutes int
	// MaxAdvanceDays 0 = unlimited
	MaxAdvanceDays int
	Location       *time.Location
	Transitions    TransitionPolicy
}

// DefaultBookingPolicy returns the policy used when nothing is configured
func DefaultBookingPolicy() BookingPolicy {
	return BookingPolicy{
		SlotStepMinutes: DefaultSlotStepMinutes,
		MaxAdvanceDays:  DefaultAdvanceDays,
		Location:        time.Local,
		Transitions:     TransitionPolicy{CustomerCanCancelConfirmed: true},
	}
}

// IsPastDate reports whether date is before today's civil date
func (p BookingPolicy) IsPastDate(date, now time.Time) bool {
	return DateOf(date).Before(DateOf(now))
}

// IsBeyondHorizon reports whether date is later than the advance booking window
func (p BookingPolicy) IsBeyondHorizon(date, now time.Time) bool {
	if p.MaxAdvanceDays <= 0 {
		return false
	}
	return DaysBetween(now, date) > p.MaxAdvanceDays
}
