package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julinotmonth/outtthelook/internal/domain"
)

func actorEcho(t *testing.T, got *domain.Actor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetActor(r.Context())
		require.True(t, ok)
		*got = actor
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name     string
		userID   string
		role     string
		wantCode int
		want     domain.Actor
	}{
		{"customer by default", "7", "", http.StatusNoContent, domain.Actor{UserID: 7, Role: domain.RoleCustomer}},
		{"staff", "3", "staff", http.StatusNoContent, domain.Actor{UserID: 3, Role: domain.RoleStaff}},
		{"admin in upper case", "1", "ADMIN", http.StatusNoContent, domain.Actor{UserID: 1, Role: domain.RoleAdmin}},
		{"missing id", "", "staff", http.StatusUnauthorized, domain.Actor{}},
		{"non numeric id", "abc", "", http.StatusUnauthorized, domain.Actor{}},
		{"zero id", "0", "", http.StatusUnauthorized, domain.Actor{}},
		{"unknown role", "5", "owner", http.StatusUnauthorized, domain.Actor{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got domain.Actor
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.userID != "" {
				req.Header.Set(HeaderUserID, tt.userID)
			}
			if tt.role != "" {
				req.Header.Set(HeaderUserRole, tt.role)
			}
			rec := httptest.NewRecorder()

			Auth(actorEcho(t, &got)).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequireStaff(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	handler := Auth(RequireStaff(ok))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderUserID, "7")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req.Header.Set(HeaderUserRole, "staff")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestGetUserID_WithoutActor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := GetUserID(req.Context())
	assert.False(t, ok)
}

type recordedRequest struct {
	method, route string
	status        int
}

type fakeRecorder struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (f *fakeRecorder) RecordHTTPRequest(method, route string, status int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, recordedRequest{method, route, status})
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	recorder := &fakeRecorder{}
	r := mux.NewRouter()
	r.Use(MetricsMiddleware(recorder))
	r.HandleFunc("/bookings/{bookingId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/bookings/42", nil))

	require.Len(t, recorder.requests, 1)
	assert.Equal(t, recordedRequest{http.MethodGet, "/bookings/{bookingId}", http.StatusNotFound}, recorder.requests[0])
}
