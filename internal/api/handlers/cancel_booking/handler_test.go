package cancel_booking

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
	transitionBooking "github.com/julinotmonth/outtthelook/internal/usecase/transition_booking"
	"github.com/julinotmonth/outtthelook/pkg/logger"
)

type stubUseCase struct {
	got *transitionBooking.Request
	err error
}

func (s *stubUseCase) Execute(_ context.Context, req *transitionBooking.Request) (*domain.Booking, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Booking{ID: req.BookingID, StartTime: "10:00", Status: domain.StatusCancelled}, nil
}

func serve(uc TransitionUseCase, path, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Handle("/bookings/{bookingId}/cancel", middleware.Auth(http.HandlerFunc(NewHandler(uc, logger.NewNop()).Handle)))

	req := httptest.NewRequest(http.MethodPatch, path, strings.NewReader(body))
	req.Header.Set(middleware.HeaderUserID, "7")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_CancelWithReason(t *testing.T) {
	uc := &stubUseCase{}

	rec := serve(uc, "/bookings/5/cancel", `{"cancellationReason":"sick"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(5), uc.got.BookingID)
	assert.Equal(t, domain.StatusCancelled, uc.got.Target)
	assert.Equal(t, "sick", uc.got.Reason)
	assert.Equal(t, domain.Actor{UserID: 7, Role: domain.RoleCustomer}, uc.got.Actor)
}

func TestHandle_EmptyBody(t *testing.T) {
	uc := &stubUseCase{}

	rec := serve(uc, "/bookings/5/cancel", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, uc.got.Reason)
}

func TestHandle_AlreadyCancelledReturnsCurrentState(t *testing.T) {
	uc := &stubUseCase{err: &domain.InvalidTransitionError{
		BookingID:     5,
		Status:        domain.StatusCancelled,
		PaymentStatus: domain.PaymentRejected,
		Target:        "cancelled",
	}}

	rec := serve(uc, "/bookings/5/cancel", "")

	require.Equal(t, http.StatusConflict, rec.Code)
	var body handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, msgCannotCancel, body.Error)
	assert.Equal(t, "cancelled", body.CurrentStatus)
	assert.Equal(t, "rejected", body.CurrentPaymentStatus)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		err      error
		wantCode int
	}{
		{"bad id", "/bookings/abc/cancel", nil, http.StatusBadRequest},
		{"not found", "/bookings/5/cancel", transitionBooking.ErrBookingNotFound, http.StatusNotFound},
		{"someone else's", "/bookings/5/cancel", domain.ErrAccessDenied, http.StatusForbidden},
		{"lost every retry", "/bookings/5/cancel", transitionBooking.ErrConcurrentModification, http.StatusConflict},
		{"internal", "/bookings/5/cancel", transitionBooking.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&stubUseCase{err: tt.err}, tt.path, "")
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
