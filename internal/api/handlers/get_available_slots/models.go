package get_available_slots

import (
	"errors"
	"strconv"
	"strings"

	"github.com/julinotmonth/outtthelook/internal/domain"
	getAvailableSlots "github.com/julinotmonth/outtthelook/internal/usecase/get_available_slots"
)

var (
	errInvalidDate       = errors.New("invalid date")
	errInvalidDuration   = errors.New("invalid duration")
	errInvalidServiceIDs = errors.New("invalid service ids")
	errMissingDuration   = errors.New("duration or serviceIds is required")
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	StaffID         int64           `json:"staffId"`
	Date            string          `json:"date"`
	DurationMinutes int             `json:"durationMinutes"`
	Slots           []AvailableSlot `json:"slots"`
}

// AvailableSlot точка сетки и ее состояние: available, booked, elapsed
type AvailableSlot struct {
	StartTime string `json:"startTime"`
	State     string `json:"state"`
	Available bool   `json:"available"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime: slot.StartTime.String(),
			State:     string(slot.State),
			Available: slot.IsAvailable(),
		}
	}

	return &AvailableSlotsResponse{
		StaffID:         resp.StaffID,
		Date:            resp.Date.Format(domain.DateFormat),
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров.
// serviceIds передается списком через запятую: "1,3".
func ToUseCaseRequest(staffID int64, dateStr, durationStr, serviceIDsStr string) (*getAvailableSlots.Request, error) {
	date, err := domain.ParseDate(dateStr)
	if err != nil {
		return nil, errInvalidDate
	}

	req := &getAvailableSlots.Request{
		StaffID: staffID,
		Date:    date,
	}

	if durationStr != "" {
		duration, err := strconv.Atoi(durationStr)
		if err != nil {
			return nil, errInvalidDuration
		}
		req.DurationMinutes = duration
	}

	if serviceIDsStr != "" {
		for _, part := range strings.Split(serviceIDsStr, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return nil, errInvalidServiceIDs
			}
			req.ServiceIDs = append(req.ServiceIDs, id)
		}
	}

	if req.DurationMinutes == 0 && len(req.ServiceIDs) == 0 {
		return nil, errMissingDuration
	}

	return req, nil
}
