package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/julinotmonth/outtthelook/internal/domain"
)

// maxBodyBytes ограничение размера тела запроса
const maxBodyBytes = 1 << 20

const (
	msgBadRequest        = "invalid request"
	msgNotFound          = "not found"
	msgConflict          = "conflict, please retry"
	msgInvalidTransition = "booking cannot be moved to the requested state"
	msgForbidden         = "access denied"
	msgInternalError     = "internal server error"
)

// ErrorResponse тело ответа с ошибкой.
// Для недопустимого перехода статуса содержит текущее состояние бронирования.
type ErrorResponse struct {
	Error                string `json:"error"`
	CurrentStatus        string `json:"currentStatus,omitempty"`
	CurrentPaymentStatus string `json:"currentPaymentStatus,omitempty"`
}

// DecodeJSON декодирует тело запроса, неизвестные поля запрещены
func DecodeJSON(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

func RespondConflict(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusConflict, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// StatusCode HTTP код по виду доменной ошибки
func StatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrAccessDenied):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// RespondDomainError отвечает по виду ошибки. Пустой message заменяется стандартным текстом.
// Внутренние ошибки никогда не раскрывают message.
func RespondDomainError(w http.ResponseWriter, err error, message string) {
	var transitionErr *domain.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		if message == "" {
			message = msgInvalidTransition
		}
		RespondJSON(w, http.StatusConflict, ErrorResponse{
			Error:                message,
			CurrentStatus:        string(transitionErr.Status),
			CurrentPaymentStatus: string(transitionErr.PaymentStatus),
		})
		return
	}

	status := StatusCode(err)
	if status == http.StatusInternalServerError {
		RespondInternalError(w)
		return
	}
	if message == "" {
		message = defaultMessage(status)
	}
	RespondError(w, status, message)
}

func defaultMessage(status int) string {
	switch status {
	case http.StatusNotFound:
		return msgNotFound
	case http.StatusConflict:
		return msgConflict
	case http.StatusForbidden:
		return msgForbidden
	default:
		return msgBadRequest
	}
}

// PathInt64 положительный ID из переменной маршрута mux
func PathInt64(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("%s must be positive", name)
	}
	return id, nil
}
