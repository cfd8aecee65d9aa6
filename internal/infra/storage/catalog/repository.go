package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/julinotmonth/outtthelook/internal/domain"
	"github.com/julinotmonth/outtthelook/pkg/dbmetrics"
	"github.com/julinotmonth/outtthelook/pkg/psqlbuilder"
)

type DBExecutor = dbmetrics.DBExecutor

var serviceColumns = []string{
	"id", "name", "category", "description", "price", "duration_minutes", "is_active", "created_at", "updated_at",
}

var staffColumns = []string{
	"id", "name", "role", "work_start_time", "work_end_time", "is_available", "created_at", "updated_at",
}

// Repository каталог услуг и мастеров. Для бронирования только чтение:
// изменения каталога делает админка и они не трогают снимки в бронях.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetServicesByIDs возвращает услуги в порядке ids.
// Если хотя бы одной нет, ErrServiceNotFound с её ID.
func (r *Repository) GetServicesByIDs(ctx context.Context, ids []int64) ([]*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(serviceColumns...).
		From("services").
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetServicesByIDs - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetServicesByIDs - execute select: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	found, err := scanServices(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*domain.Service, len(found))
	for _, s := range found {
		byID[s.ID] = s
	}

	result := make([]*domain.Service, 0, len(ids))
	for _, id := range ids {
		s, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: id=%d", ErrServiceNotFound, id)
		}
		result = append(result, s)
	}
	return result, nil
}

// ListServices возвращает услуги, onlyActive скрывает выключенные
func (r *Repository) ListServices(ctx context.Context, onlyActive bool) ([]*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(serviceColumns...).
		From("services").
		OrderBy("category ASC", "name ASC")
	if onlyActive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - execute select: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanServices(rows)
}

// GetStaffByID получает мастера по ID
func (r *Repository) GetStaffByID(ctx context.Context, id int64) (*domain.StaffMember, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(staffColumns...).
		From("staff").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetStaffByID - build select query: %w", ErrBuildQuery, err)
	}

	var staff domain.StaffMember
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&staff.ID,
		&staff.Name,
		&staff.Role,
		&staff.WorkStart,
		&staff.WorkEnd,
		&staff.IsAvailable,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: id=%d", ErrStaffNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetStaffByID - scan staff: %w", ErrScanRow, err)
	}
	return &staff, nil
}

// ListStaff возвращает мастеров, onlyAvailable скрывает недоступных
func (r *Repository) ListStaff(ctx context.Context, onlyAvailable bool) ([]*domain.StaffMember, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(staffColumns...).
		From("staff").
		OrderBy("name ASC")
	if onlyAvailable {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_available": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListStaff - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListStaff - execute select: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	staff := make([]*domain.StaffMember, 0)
	for rows.Next() {
		var s domain.StaffMember
		if err := rows.Scan(
			&s.ID,
			&s.Name,
			&s.Role,
			&s.WorkStart,
			&s.WorkEnd,
			&s.IsAvailable,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: ListStaff - scan row: %w", ErrScanRow, err)
		}
		staff = append(staff, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListStaff - rows error: %w", ErrScanRow, err)
	}
	return staff, nil
}

func scanServices(rows *sql.Rows) ([]*domain.Service, error) {
	services := make([]*domain.Service, 0)
	for rows.Next() {
		var s domain.Service
		if err := rows.Scan(
			&s.ID,
			&s.Name,
			&s.Category,
			&s.Description,
			&s.Price,
			&s.DurationMinutes,
			&s.IsActive,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanServices - scan row: %w", ErrScanRow, err)
		}
		services = append(services, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanServices - rows error: %w", ErrScanRow, err)
	}
	return services, nil
}
