package verify_payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julinotmonth/outtthelook/internal/api/handlers"
	"github.com/julinotmonth/outtthelook/internal/api/middleware"
	"github.com/julinotmonth/outtthelook/internal/domain"
	"github.com/julinotmonth/outtthelook/internal/service/bookings/models"
	paymentVerification "github.com/julinotmonth/outtthelook/internal/usecase/payment_verification"
	"github.com/julinotmonth/outtthelook/pkg/logger"
)

type stubUseCase struct {
	got *paymentVerification.VerifyRequest
	err error
}

func (s *stubUseCase) VerifyPayment(_ context.Context, req *paymentVerification.VerifyRequest) (*domain.Booking, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Booking{
		ID:            req.BookingID,
		StartTime:     "10:00",
		Status:        domain.StatusConfirmed,
		PaymentStatus: domain.PaymentPaid,
	}, nil
}

func serve(uc PaymentUseCase, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Handle("/bookings/{bookingId}/verify-payment",
		middleware.Auth(middleware.RequireStaff(http.HandlerFunc(NewHandler(uc, logger.NewNop()).Handle))))

	req := httptest.NewRequest(http.MethodPut, "/bookings/9/verify-payment", strings.NewReader(body))
	req.Header.Set(middleware.HeaderUserID, "3")
	req.Header.Set(middleware.HeaderUserRole, "staff")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Approve(t *testing.T) {
	uc := &stubUseCase{}

	rec := serve(uc, `{"approve":true}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, uc.got.Approve)
	assert.Equal(t, int64(9), uc.got.BookingID)

	var body models.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "confirmed", body.Status)
	assert.Equal(t, "paid", body.PaymentStatus)
}

func TestHandle_MissingDecision(t *testing.T) {
	uc := &stubUseCase{}

	rec := serve(uc, `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, uc.got)
}

func TestHandle_NoProofToVerify(t *testing.T) {
	uc := &stubUseCase{err: &domain.InvalidTransitionError{
		BookingID:     9,
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentPending,
		Target:        "payment:paid",
	}}

	rec := serve(uc, `{"approve":true}`)

	require.Equal(t, http.StatusConflict, rec.Code)
	var body handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "pending", body.CurrentStatus)
	assert.Equal(t, "pending", body.CurrentPaymentStatus)
}
