package get_booking_policy

import (
	"context"

	"github.com/julinotmonth/outtthelook/internal/service/catalog/models"
)

type CatalogService interface {
	GetBookingPolicy(ctx context.Context) *models.BookingPolicyResponse
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
