package get_booking_stats

import (
	"context"

	"github.com/julinotmonth/outtthelook/internal/domain"
	"github.com/julinotmonth/outtthelook/internal/service/bookings/models"
)

type BookingService interface {
	GetStats(ctx context.Context, actor domain.Actor, req *models.StatsRequest) (*models.StatsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
