package list_payment_methods

import (
	"context"

	"github.com/julinotmonth/outtthelook/internal/service/catalog/models"
)

type CatalogService interface {
	ListPaymentMethods(ctx context.Context) []models.PaymentMethodResponse
}
