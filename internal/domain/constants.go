package domain

// Default configuration values
const (
	DefaultSlotStepMinutes = 30
	DefaultWorkStart       = "09:00"
	DefaultWorkEnd         = "20:00"
	DefaultAdvanceDays     = 0 // 0 = unlimited
)

// Business validation constants
const (
	MinSlotStepMinutes          = 5
	MaxSlotStepMinutes          = 240
	MaxAdvanceDays              = 365
	MaxCancellationReasonLength = 500
	MaxProofReferenceLength     = 1024
	MaxServicesPerBooking       = 10
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses are the statuses that occupy a staff member's time.
// Overlap checks and slot calculation only look at these.
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// AllStatuses lists every booking status
var AllStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
	StatusCancelled,
}
