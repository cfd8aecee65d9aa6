package list_bookings

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/julinotmonth/outtthelook/internal/domain"
	"github.com/julinotmonth/outtthelook/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров.
// date задает один день, startDate/endDate задают период; date имеет приоритет.
func ToServiceRequest(query url.Values) (*models.ListBookingsRequest, error) {
	req := &models.ListBookingsRequest{}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if paymentStatus := query.Get("paymentStatus"); paymentStatus != "" {
		req.PaymentStatus = &paymentStatus
	}

	if staffIDStr := query.Get("staffId"); staffIDStr != "" {
		staffID, err := strconv.ParseInt(staffIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid staffId: %w", err)
		}
		req.StaffID = &staffID
	}

	var err error
	if req.StartDate, err = parseOptionalDate(query.Get("startDate")); err != nil {
		return nil, fmt.Errorf("invalid startDate: %w", err)
	}
	if req.EndDate, err = parseOptionalDate(query.Get("endDate")); err != nil {
		return nil, fmt.Errorf("invalid endDate: %w", err)
	}

	if dateStr := query.Get("date"); dateStr != "" {
		date, err := domain.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
		req.StartDate = &date
		req.EndDate = &date
	}

	if req.Limit, err = parseOptionalInt(query.Get("limit")); err != nil {
		return nil, fmt.Errorf("invalid limit: %w", err)
	}
	if req.Offset, err = parseOptionalInt(query.Get("offset")); err != nil {
		return nil, fmt.Errorf("invalid offset: %w", err)
	}

	return req, nil
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	date, err := domain.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &date, nil
}

func parseOptionalInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
