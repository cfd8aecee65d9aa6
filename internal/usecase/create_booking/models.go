package create_booking

import (
	"time"

	"github.com/julinotmonth/outtthelook/internal/domain"
	"github.com/julinotmonth/outtthelook/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	Actor           domain.Actor        // Кто бронирует (клиент)
	StaffID         int64               // ID мастера
	Date            time.Time           // Дата бронирования (без времени)
	StartTime       types.TimeString    // Время начала слота (например, "10:00")
	ServiceIDs      []int64             // Услуги в порядке выбора
	Customer        domain.CustomerInfo // Контакты; пустые поля заполняются из профиля
	PaymentMethodID string              // ID способа оплаты
}
