package catalog

import (
	"context"

	"github.com/julinotmonth/outtthelook/internal/domain"
)

// CatalogRepository интерфейс каталога услуг и мастеров
type CatalogRepository interface {
	ListServices(ctx context.Context, onlyActive bool) ([]*domain.Service, error)
	ListStaff(ctx context.Context, onlyAvailable bool) ([]*domain.StaffMember, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
