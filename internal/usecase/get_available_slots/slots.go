package get_available_slots

import (
	"time"

	"github.com/julinotmonth/outtthelook/internal/domain"
	"github.com/julinotmonth/outtthelook/pkg/types"
)

// SlotParams входные данные для расчета сетки слотов
type SlotParams struct {
	WorkStart       types.TimeString
	WorkEnd         types.TimeString
	StepMinutes     int
	DurationMinutes int
	Date            time.Time // гражданская дата
	Now             time.Time // текущее время в часовом поясе салона
	Bookings        []*domain.Booking
}

// ComputeSlots строит сетку слотов мастера на день для заданной длительности.
// Слот попадает в сетку, только если start+duration <= конец рабочего дня.
// Состояние слота:
//   - elapsed: дата сегодня и начало слота не позже текущей минуты
//   - booked: интервал [start, start+duration) пересекается с активным бронированием
//   - available: иначе
//
// Функция чистая: не обращается к часам и хранилищу.
func ComputeSlots(p SlotParams) []domain.TimeSlot {
	start, end := p.WorkStart.Minutes(), p.WorkEnd.EndMinutes()
	if start < 0 || end < 0 || start >= end || p.StepMinutes <= 0 || p.DurationMinutes <= 0 {
		return []domain.TimeSlot{}
	}

	isToday := domain.DateOf(p.Date).Equal(domain.DateOf(p.Now))
	nowMinutes := p.Now.Hour()*60 + p.Now.Minute()

	// Первая точка сетки: ближайшее кратное шагу не раньше начала работы
	first := ((start + p.StepMinutes - 1) / p.StepMinutes) * p.StepMinutes

	slots := make([]domain.TimeSlot, 0, (end-first)/p.StepMinutes+1)
	for m := first; m+p.DurationMinutes <= end; m += p.StepMinutes {
		slotStart, err := types.NewTimeStringFromMinutes(m)
		if err != nil {
			break
		}

		slots = append(slots, domain.TimeSlot{
			StartTime: slotStart,
			State:     slotState(slotStart, m, p, isToday, nowMinutes),
		})
	}

	return slots
}

func slotState(slotStart types.TimeString, minutes int, p SlotParams, isToday bool, nowMinutes int) domain.SlotState {
	if isToday && minutes <= nowMinutes {
		return domain.SlotElapsed
	}

	for _, booking := range p.Bookings {
		if !booking.IsActive() {
			continue
		}
		if booking.Overlaps(slotStart, p.DurationMinutes) {
			return domain.SlotBooked
		}
	}

	return domain.SlotAvailable
}
