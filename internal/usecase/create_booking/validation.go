package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/julinotmonth/outtthelook/internal/domain"
	"github.com/julinotmonth/outtthelook/pkg/types"
)

var validate = validator.New()

// customerInput правила для контактных данных клиента
type customerInput struct {
	Name  string `validate:"required,min=3,max=100"`
	Email string `validate:"omitempty,email,max=254"`
	Phone string `validate:"omitempty,max=32"`
	Notes string `validate:"max=500"`
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Actor.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	if len(req.ServiceIDs) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}

	if len(req.ServiceIDs) > domain.MaxServicesPerBooking {
		return fmt.Errorf("%w: at most %d services per booking", ErrInvalidInput, domain.MaxServicesPerBooking)
	}

	seen := make(map[int64]struct{}, len(req.ServiceIDs))
	for _, id := range req.ServiceIDs {
		if id <= 0 {
			return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: duplicate service id=%d", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Проверяем, что время начала указано
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	// Валидируем формат времени
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if strings.TrimSpace(req.PaymentMethodID) == "" {
		return fmt.Errorf("%w: paymentMethodId is required", ErrInvalidInput)
	}

	return nil
}

// validateDate проверяет, что дата подходит для бронирования
func validateDate(date, now time.Time, policy domain.BookingPolicy) error {
	if policy.IsPastDate(date, now) {
		return ErrInvalidDate
	}

	if policy.IsBeyondHorizon(date, now) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, policy.MaxAdvanceDays)
	}

	return nil
}

// validateStartTime проверяет попадание интервала [start, start+duration) в рабочие часы мастера.
// Выравнивание по сетке проверяется отдельно (validateGrid), после проверки пересечений.
func validateStartTime(
	staff *domain.StaffMember,
	date time.Time,
	start types.TimeString,
	durationMinutes int,
	now time.Time,
) error {
	if start.Minutes() < staff.WorkStart.Minutes() {
		return fmt.Errorf("%w: booking starts before %s", ErrInvalidTimeSlot, staff.WorkStart)
	}

	// Сегодняшний слот, начало которого уже наступило
	if domain.DateOf(date).Equal(domain.DateOf(now)) && start.Minutes() <= types.NewTimeString(now).Minutes() {
		return ErrSlotElapsed
	}

	end := start.Minutes() + durationMinutes
	if end > staff.WorkEnd.EndMinutes() {
		return fmt.Errorf("%w: booking ends after %s", ErrInvalidTimeSlot, staff.WorkEnd)
	}

	return nil
}

// validateGrid проверяет, что начало лежит на сетке слотов
func validateGrid(staff *domain.StaffMember, start types.TimeString, stepMinutes int) error {
	if !domain.IsGridPoint(start, staff.WorkStart, stepMinutes) {
		return fmt.Errorf("%w: %s is not on the %d-minute grid of working hours", ErrInvalidTimeSlot, start, stepMinutes)
	}
	return nil
}

// validateCustomer валидирует контактные данные после заполнения из профиля
func validateCustomer(c domain.CustomerInfo) error {
	input := customerInput{
		Name:  strings.TrimSpace(c.Name),
		Email: strings.TrimSpace(c.Email),
		Phone: strings.TrimSpace(c.Phone),
		Notes: c.Notes,
	}

	if err := validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCustomer, err)
	}

	return nil
}
