package list_payment_methods

import (
	"net/http"

	"github.com/julinotmonth/outtthelook/internal/api/handlers"
)

type Handler struct {
	service CatalogService
}

func NewHandler(service CatalogService) *Handler {
	return &Handler{service: service}
}

// Handle GET /api/v1/payment-methods
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.service.ListPaymentMethods(r.Context()))
}
