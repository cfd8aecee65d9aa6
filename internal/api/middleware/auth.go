package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/julinotmonth/outtthelook/internal/api/handlers"
	"github.com/julinotmonth/outtthelook/internal/domain"
)

// Заголовки выставляет API gateway после проверки токена
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

const (
	msgMissingUserID = "missing or invalid " + HeaderUserID + " header"
	msgInvalidRole   = "invalid " + HeaderUserRole + " header"
	msgStaffOnly     = "this action is available to staff only"
)

type contextKey string

const actorKey contextKey = "actor"

// Auth извлекает вызывающего из заголовков. Без роли вызывающий считается клиентом.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(strings.TrimSpace(r.Header.Get(HeaderUserID)), 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		role := domain.RoleCustomer
		if raw := strings.TrimSpace(r.Header.Get(HeaderUserRole)); raw != "" {
			role = domain.Role(strings.ToLower(raw))
		}
		if !role.IsValid() {
			handlers.RespondUnauthorized(w, msgInvalidRole)
			return
		}

		ctx := WithActor(r.Context(), domain.Actor{UserID: userID, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireStaff пропускает только сотрудников и администраторов, ставится после Auth
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetActor(r.Context())
		if !ok {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}
		if !actor.Role.IsStaff() {
			handlers.RespondForbidden(w, msgStaffOnly)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

func GetActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	return actor, ok
}

func GetUserID(ctx context.Context) (int64, bool) {
	actor, ok := GetActor(ctx)
	if !ok {
		return 0, false
	}
	return actor.UserID, true
}
