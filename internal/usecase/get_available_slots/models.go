package get_available_slots

import (
	"time"

	"github.com/julinotmonth/outtthelook/internal/domain"
)

// Request модель запроса слотов.
// Длительность задается явно или как сумма длительностей услуг.
type Request struct {
	StaffID         int64
	Date            time.Time // Дата (без времени)
	DurationMinutes int
	ServiceIDs      []int64
}

// Response модель ответа со слотами
type Response struct {
	StaffID         int64
	Date            time.Time
	DurationMinutes int
	Slots           []domain.TimeSlot
}
