package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/julinotmonth/outtthelook/pkg/logger"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHandle(t *testing.T) {
	tests := []struct {
		name     string
		db       Pinger
		wantCode int
		wantBody string
	}{
		{"memory", nil, http.StatusOK, `"storage":"memory"`},
		{"postgres up", pingerFunc(func(context.Context) error { return nil }), http.StatusOK, `"status":"ok"`},
		{"postgres down", pingerFunc(func(context.Context) error { return errors.New("refused") }), http.StatusServiceUnavailable, `"status":"unavailable"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewHandler(tt.db, logger.NewNop()).Handle(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}
