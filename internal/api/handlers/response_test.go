package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julinotmonth/outtthelook/internal/domain"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", fmt.Errorf("pkg: bad date: %w", domain.ErrValidation), http.StatusBadRequest},
		{"not found", fmt.Errorf("pkg: no booking: %w", domain.ErrNotFound), http.StatusNotFound},
		{"conflict", fmt.Errorf("slot taken: %w", domain.ErrConflict), http.StatusConflict},
		{"transition", &domain.InvalidTransitionError{Status: domain.StatusCancelled}, http.StatusConflict},
		{"access denied", fmt.Errorf("pkg: %w", domain.ErrAccessDenied), http.StatusForbidden},
		{"internal", errors.New("db is down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}

func TestRespondDomainError_InvalidTransitionCarriesState(t *testing.T) {
	rec := httptest.NewRecorder()
	err := fmt.Errorf("wrapped: %w", &domain.InvalidTransitionError{
		BookingID:     4,
		Status:        domain.StatusCancelled,
		PaymentStatus: domain.PaymentPaid,
		Target:        "confirmed",
	})

	RespondDomainError(rec, err, "")

	assert.Equal(t, http.StatusConflict, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "cancelled", body.CurrentStatus)
	assert.Equal(t, "paid", body.CurrentPaymentStatus)
	assert.NotEmpty(t, body.Error)
}

func TestRespondDomainError_InternalHidesMessage(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondDomainError(rec, errors.New("pq: connection refused"), "should not leak")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "leak")
}

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a","extra":1}`))
	assert.Error(t, DecodeJSON(req, &v))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a"}`))
	require.NoError(t, DecodeJSON(req, &v))
	assert.Equal(t, "a", v.Name)
}
