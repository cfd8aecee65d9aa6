package catalog

import (
	"context"
	"fmt"

	"github.com/julinotmonth/outtthelook/internal/domain"
	"github.com/julinotmonth/outtthelook/internal/service/catalog/models"
)

// Service публичный каталог салона: услуги, мастера, способы оплаты, правила бронирования
type Service struct {
	catalogRepo    CatalogRepository
	paymentMethods []domain.PaymentMethod
	policy         domain.BookingPolicy
	logger         Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(
	catalogRepo CatalogRepository,
	paymentMethods []domain.PaymentMethod,
	policy domain.BookingPolicy,
	logger Logger,
) *Service {
	return &Service{
		catalogRepo:    catalogRepo,
		paymentMethods: paymentMethods,
		policy:         policy,
		logger:         logger,
	}
}

// ListServices возвращает услуги; includeInactive только для сотрудников
func (s *Service) ListServices(ctx context.Context, includeInactive bool) ([]models.ServiceResponse, error) {
	services, err := s.catalogRepo.ListServices(ctx, !includeInactive)
	if err != nil {
		s.logger.Error("ListServices: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListServices - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListServices: fetched %d services (includeInactive=%t)", len(services), includeInactive)
	return models.FromDomainServices(services), nil
}

// ListStaff возвращает мастеров; includeUnavailable только для сотрудников
func (s *Service) ListStaff(ctx context.Context, includeUnavailable bool) ([]models.StaffResponse, error) {
	staff, err := s.catalogRepo.ListStaff(ctx, !includeUnavailable)
	if err != nil {
		s.logger.Error("ListStaff: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListStaff - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListStaff: fetched %d staff members (includeUnavailable=%t)", len(staff), includeUnavailable)
	return models.FromDomainStaff(staff), nil
}

// ListPaymentMethods возвращает настроенные способы оплаты
func (s *Service) ListPaymentMethods(_ context.Context) []models.PaymentMethodResponse {
	return models.FromDomainPaymentMethods(s.paymentMethods)
}

// GetBookingPolicy возвращает правила бронирования салона
func (s *Service) GetBookingPolicy(_ context.Context) *models.BookingPolicyResponse {
	return models.FromDomainPolicy(s.policy)
}
