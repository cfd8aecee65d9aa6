package cancel_booking

import (
	"context"

	"github.com/julinotmonth/outtthelook/internal/domain"
	transitionBooking "github.com/julinotmonth/outtthelook/internal/usecase/transition_booking"
)

type TransitionUseCase interface {
	Execute(ctx context.Context, req *transitionBooking.Request) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
