package models

import (
	"time"

	"github.com/julinotmonth/outtthelook/internal/domain"
)

// Response модели

// ServiceResponse услуга салона
type ServiceResponse struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	Description     string    `json:"description,omitempty"`
	Price           int64     `json:"price"`
	DurationMinutes int       `json:"durationMinutes"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// StaffResponse мастер салона
type StaffResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	WorkStart   string `json:"workStartTime"` // "09:00"
	WorkEnd     string `json:"workEndTime"`   // "20:00"
	IsAvailable bool   `json:"isAvailable"`
}

// PaymentMethodResponse способ оплаты с реквизитами
type PaymentMethodResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	AccountNumber string `json:"accountNumber,omitempty"`
	AccountName   string `json:"accountName,omitempty"`
	RequiresProof bool   `json:"requiresProof"`
}

// BookingPolicyResponse публичные параметры бронирования
type BookingPolicyResponse struct {
	SlotStepMinutes            int    `json:"slotStepMinutes"`
	MaxAdvanceDays             int    `json:"maxAdvanceDays"` // 0 = без ограничений
	Timezone                   string `json:"timezone"`
	CustomerCanCancelConfirmed bool   `json:"customerCanCancelConfirmed"`
}

// Методы конвертации

// FromDomainServices конвертирует список услуг
func FromDomainServices(services []*domain.Service) []ServiceResponse {
	result := make([]ServiceResponse, 0, len(services))
	for _, s := range services {
		result = append(result, ServiceResponse{
			ID:              s.ID,
			Name:            s.Name,
			Category:        s.Category,
			Description:     s.Description,
			Price:           s.Price,
			DurationMinutes: s.DurationMinutes,
			IsActive:        s.IsActive,
			CreatedAt:       s.CreatedAt,
			UpdatedAt:       s.UpdatedAt,
		})
	}
	return result
}

// FromDomainStaff конвертирует список мастеров
func FromDomainStaff(staff []*domain.StaffMember) []StaffResponse {
	result := make([]StaffResponse, 0, len(staff))
	for _, s := range staff {
		result = append(result, StaffResponse{
			ID:          s.ID,
			Name:        s.Name,
			Role:        s.Role,
			WorkStart:   s.WorkStart.String(),
			WorkEnd:     s.WorkEnd.String(),
			IsAvailable: s.IsAvailable,
		})
	}
	return result
}

// FromDomainPaymentMethods конвертирует способы оплаты
func FromDomainPaymentMethods(methods []domain.PaymentMethod) []PaymentMethodResponse {
	result := make([]PaymentMethodResponse, 0, len(methods))
	for _, m := range methods {
		result = append(result, PaymentMethodResponse{
			ID:            m.ID,
			Name:          m.Name,
			Type:          string(m.Type),
			AccountNumber: m.AccountNumber,
			AccountName:   m.AccountName,
			RequiresProof: m.RequiresProof,
		})
	}
	return result
}

// FromDomainPolicy конвертирует политику бронирования
func FromDomainPolicy(p domain.BookingPolicy) *BookingPolicyResponse {
	tz := "Local"
	if p.Location != nil {
		tz = p.Location.String()
	}
	return &BookingPolicyResponse{
		SlotStepMinutes:            p.SlotStepMinutes,
		MaxAdvanceDays:             p.MaxAdvanceDays,
		Timezone:                   tz,
		CustomerCanCancelConfirmed: p.Transitions.CustomerCanCancelConfirmed,
	}
}
