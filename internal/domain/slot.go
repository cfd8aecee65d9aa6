package domain

import "github.com/julinotmonth/outtthelook/pkg/types"

// SlotState is the availability of a grid point for a requested duration
type SlotState string

const (
	SlotAvailable SlotState = "available"
	SlotBooked    SlotState = "booked"
	SlotElapsed   SlotState = "elapsed"
)

// TimeSlot represents a grid point on a staff member's day
type TimeSlot struct {
	StartTime types.TimeString
	State     SlotState
}

// IsAvailable returns true if the slot can be booked
func (s TimeSlot) IsAvailable() bool {
	return s.State == SlotAvailable
}

// IsGridPoint reports whether t lies on the absolute slot grid and not before work start
func IsGridPoint(t, workStart types.TimeString, stepMinutes int) bool {
	m, start := t.Minutes(), workStart.Minutes()
	if m < 0 || start < 0 || stepMinutes <= 0 {
		return false
	}
	return m >= start && m%stepMinutes == 0
}
