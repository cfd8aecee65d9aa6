package models

import (
	"errors"
	"time"

	"github.com/julinotmonth/outtthelook/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidPaymentStatus возвращается при некорректном статусе оплаты
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
)

const defaultListLimit = 100

// Request модели

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// ListBookingsRequest запрос списка бронирований для панели администратора
type ListBookingsRequest struct {
	Status        *string    `json:"status,omitempty"`
	PaymentStatus *string    `json:"paymentStatus,omitempty"`
	StaffID       *int64     `json:"staffId,omitempty"`
	StartDate     *time.Time `json:"startDate,omitempty"` // Начало периода (включительно)
	EndDate       *time.Time `json:"endDate,omitempty"`   // Конец периода (включительно)
	Limit         int        `json:"limit,omitempty"`
	Offset        int        `json:"offset,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		StaffID:   r.StaffID,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Limit:     r.Limit,
		Offset:    r.Offset,
	}

	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	if r.PaymentStatus != nil {
		status, err := ToDomainPaymentStatus(*r.PaymentStatus)
		if err != nil {
			return filter, err
		}
		filter.PaymentStatus = &status
	}

	return filter, nil
}

// StatsRequest период для статистики (границы опциональны)
type StatsRequest struct {
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

// Response модели

// BookedServiceResponse услуга в составе брони (снимок на момент бронирования)
type BookedServiceResponse struct {
	ServiceID       int64  `json:"serviceId"`
	Name            string `json:"name"`
	Price           int64  `json:"price"`
	DurationMinutes int    `json:"durationMinutes"`
}

// CustomerResponse контактные данные клиента
type CustomerResponse struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID          int64  `json:"id"`
	CustomerID  int64  `json:"customerId"`
	StaffID     int64  `json:"staffId"`
	StaffName   string `json:"staffName"`
	BookingDate string `json:"bookingDate"` // "2025-10-15"
	StartTime   string `json:"startTime"`   // "10:00"
	EndTime     string `json:"endTime"`     // "11:00"

	Services             []BookedServiceResponse `json:"services"`
	TotalPrice           int64                   `json:"totalPrice"`
	TotalDurationMinutes int                     `json:"totalDurationMinutes"`
	Customer             CustomerResponse        `json:"customer"`

	PaymentMethodID string  `json:"paymentMethodId"`
	PaymentStatus   string  `json:"paymentStatus"`
	PaymentProof    *string `json:"paymentProof,omitempty"`

	Status             string  `json:"status"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format
	CompletedAt        *string `json:"completedAt,omitempty"` // ISO 8601 format
	Version            int     `json:"version"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// StatusChangeResponse запись истории статусов
type StatusChangeResponse struct {
	FromStatus    *string   `json:"fromStatus,omitempty"`
	ToStatus      string    `json:"toStatus"`
	PaymentStatus string    `json:"paymentStatus"`
	ActorID       int64     `json:"actorId"`
	ActorRole     string    `json:"actorRole"`
	Reason        string    `json:"reason,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// HistoryResponse история статусов брони
type HistoryResponse struct {
	BookingID int64                  `json:"bookingId"`
	History   []StatusChangeResponse `json:"history"`
}

// ServiceStatResponse популярность услуги
type ServiceStatResponse struct {
	ServiceID int64  `json:"serviceId"`
	Name      string `json:"name"`
	Bookings  int    `json:"bookings"`
	Revenue   int64  `json:"revenue"`
}

// StatsResponse статистика для панели администратора
type StatsResponse struct {
	Total               int                   `json:"total"`
	ByStatus            map[string]int        `json:"byStatus"`
	WaitingVerification int                   `json:"waitingVerification"`
	Revenue             int64                 `json:"revenue"`
	TopServices         []ServiceStatResponse `json:"topServices"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                   b.ID,
		CustomerID:           b.CustomerID,
		StaffID:              b.StaffID,
		StaffName:            b.StaffName,
		BookingDate:          b.BookingDate.Format(domain.DateFormat),
		StartTime:            b.StartTime.String(),
		Services:             make([]BookedServiceResponse, 0, len(b.Services)),
		TotalPrice:           b.TotalPrice,
		TotalDurationMinutes: b.TotalDurationMinutes,
		Customer: CustomerResponse{
			Name:  b.Customer.Name,
			Email: b.Customer.Email,
			Phone: b.Customer.Phone,
			Notes: b.Customer.Notes,
		},
		PaymentMethodID:    b.PaymentMethodID,
		PaymentStatus:      string(b.PaymentStatus),
		PaymentProof:       b.PaymentProof,
		Status:             string(b.Status),
		CancellationReason: b.CancellationReason,
		Version:            b.Version,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if end, err := b.EndTime(); err == nil {
		resp.EndTime = end.String()
	}

	for _, s := range b.Services {
		resp.Services = append(resp.Services, BookedServiceResponse{
			ServiceID:       s.ServiceID,
			Name:            s.Name,
			Price:           s.Price,
			DurationMinutes: s.DurationMinutes,
		})
	}

	// Конвертируем время в строку ISO 8601
	resp.CancelledAt = formatTime(b.CancelledAt)
	resp.CompletedAt = formatTime(b.CompletedAt)

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// FromDomainHistory конвертирует историю статусов
func FromDomainHistory(bookingID int64, history []domain.StatusChange) *HistoryResponse {
	resp := &HistoryResponse{
		BookingID: bookingID,
		History:   make([]StatusChangeResponse, 0, len(history)),
	}

	for _, h := range history {
		item := StatusChangeResponse{
			ToStatus:      string(h.ToStatus),
			PaymentStatus: string(h.PaymentStatus),
			ActorID:       h.ActorID,
			ActorRole:     string(h.ActorRole),
			Reason:        h.Reason,
			CreatedAt:     h.CreatedAt,
		}
		if h.FromStatus != "" {
			from := string(h.FromStatus)
			item.FromStatus = &from
		}
		resp.History = append(resp.History, item)
	}

	return resp
}

// FromDomainStats конвертирует статистику
func FromDomainStats(s *domain.BookingStats) *StatsResponse {
	resp := &StatsResponse{
		Total:               s.Total,
		ByStatus:            make(map[string]int, len(domain.AllStatuses)),
		WaitingVerification: s.WaitingVerification,
		Revenue:             s.Revenue,
		TopServices:         make([]ServiceStatResponse, 0, len(s.TopServices)),
	}

	// Все статусы присутствуют в ответе, даже нулевые
	for _, status := range domain.AllStatuses {
		resp.ByStatus[string(status)] = s.ByStatus[status]
	}

	for _, t := range s.TopServices {
		resp.TopServices = append(resp.TopServices, ServiceStatResponse(t))
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// ToDomainPaymentStatus конвертирует строку в domain.PaymentStatus с валидацией
func ToDomainPaymentStatus(status string) (domain.PaymentStatus, error) {
	s := domain.PaymentStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidPaymentStatus
	}
	return s, nil
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
