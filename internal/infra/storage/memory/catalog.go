package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/julinotmonth/outtthelook/internal/domain"
	catalogRepo "github.com/julinotmonth/outtthelook/internal/infra/storage/catalog"
	"github.com/julinotmonth/outtthelook/pkg/types"
)

// CatalogRepository каталог услуг и мастеров в памяти
type CatalogRepository struct {
	mu       sync.RWMutex
	services map[int64]*domain.Service
	staff    map[int64]*domain.StaffMember
}

func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{
		services: make(map[int64]*domain.Service),
		staff:    make(map[int64]*domain.StaffMember),
	}
}

// SaveService добавляет или заменяет услугу
func (r *CatalogRepository) SaveService(s domain.Service) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.services[s.ID] = &s
}

// SaveStaff добавляет или заменяет мастера
func (r *CatalogRepository) SaveStaff(s domain.StaffMember) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.staff[s.ID] = &s
}

func (r *CatalogRepository) GetServicesByIDs(_ context.Context, ids []int64) ([]*domain.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Service, 0, len(ids))
	for _, id := range ids {
		s, ok := r.services[id]
		if !ok {
			return nil, fmt.Errorf("%w: id=%d", catalogRepo.ErrServiceNotFound, id)
		}
		c := *s
		result = append(result, &c)
	}
	return result, nil
}

func (r *CatalogRepository) ListServices(_ context.Context, onlyActive bool) ([]*domain.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Service, 0, len(r.services))
	for _, s := range r.services {
		if onlyActive && !s.IsActive {
			continue
		}
		c := *s
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Category != result[j].Category {
			return result[i].Category < result[j].Category
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (r *CatalogRepository) GetStaffByID(_ context.Context, id int64) (*domain.StaffMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.staff[id]
	if !ok {
		return nil, fmt.Errorf("%w: id=%d", catalogRepo.ErrStaffNotFound, id)
	}
	c := *s
	return &c, nil
}

func (r *CatalogRepository) ListStaff(_ context.Context, onlyAvailable bool) ([]*domain.StaffMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.StaffMember, 0, len(r.staff))
	for _, s := range r.staff {
		if onlyAvailable && !s.IsAvailable {
			continue
		}
		c := *s
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// SeedDemo наполняет каталог демо-данными салона (режим driver = "memory")
func (r *CatalogRepository) SeedDemo() {
	services := []domain.Service{
		{ID: 1, Name: "Classic Haircut", Category: "haircut", Price: 50000, DurationMinutes: 30, IsActive: true},
		{ID: 2, Name: "Skin Fade", Category: "haircut", Price: 65000, DurationMinutes: 45, IsActive: true},
		{ID: 3, Name: "Beard Trim", Category: "beard", Price: 30000, DurationMinutes: 15, IsActive: true},
		{ID: 4, Name: "Hair Coloring", Category: "coloring", Price: 150000, DurationMinutes: 90, IsActive: true},
		{ID: 5, Name: "Hair Spa", Category: "treatment", Price: 80000, DurationMinutes: 60, IsActive: true},
		{ID: 6, Name: "Kids Haircut", Category: "haircut", Price: 35000, DurationMinutes: 30, IsActive: false},
	}
	for _, s := range services {
		r.SaveService(s)
	}

	start, end := types.TimeString(domain.DefaultWorkStart), types.TimeString(domain.DefaultWorkEnd)
	staff := []domain.StaffMember{
		{ID: 1, Name: "Andi", Role: "Senior Barber", WorkStart: start, WorkEnd: end, IsAvailable: true},
		{ID: 2, Name: "Budi", Role: "Barber", WorkStart: "10:00", WorkEnd: "18:00", IsAvailable: true},
		{ID: 3, Name: "Citra", Role: "Colorist", WorkStart: "12:00", WorkEnd: end, IsAvailable: false},
	}
	for _, s := range staff {
		r.SaveStaff(s)
	}
}
