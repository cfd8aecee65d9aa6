package list_staff

import (
	"context"

	"github.com/julinotmonth/outtthelook/internal/service/catalog/models"
)

type CatalogService interface {
	ListStaff(ctx context.Context, includeUnavailable bool) ([]models.StaffResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
