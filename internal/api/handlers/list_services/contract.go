package list_services

import (
	"context"

	"github.com/julinotmonth/outtthelook/internal/service/catalog/models"
)

type CatalogService interface {
	ListServices(ctx context.Context, includeInactive bool) ([]models.ServiceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
