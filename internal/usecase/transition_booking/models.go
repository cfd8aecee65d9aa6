package transition_booking

import "github.com/julinotmonth/outtthelook/internal/domain"

// Request модель запроса на смену статуса бронирования
type Request struct {
	BookingID int64
	Target    domain.BookingStatus
	Actor     domain.Actor
	Reason    string // Причина отмены (опционально)
}
