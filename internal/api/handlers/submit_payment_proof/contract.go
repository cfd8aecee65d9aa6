package submit_payment_proof

import (
	"context"

	"github.com/julinotmonth/outtthelook/internal/domain"
	paymentVerification "github.com/julinotmonth/outtthelook/internal/usecase/payment_verification"
)

type PaymentUseCase interface {
	SubmitProof(ctx context.Context, req *paymentVerification.SubmitProofRequest) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
