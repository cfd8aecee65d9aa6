package get_booking_history

import (
	"context"

	"github.com/julinotmonth/outtthelook/internal/domain"
	"github.com/julinotmonth/outtthelook/internal/service/bookings/models"
)

type BookingService interface {
	GetHistory(ctx context.Context, actor domain.Actor, id int64) (*models.HistoryResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
