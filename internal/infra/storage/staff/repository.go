package staff

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/salonflow/scheduling-service/internal/domain"
	"github.com/salonflow/scheduling-service/pkg/dbmetrics"
	"github.com/salonflow/scheduling-service/pkg/psqlbuilder"
)

const employeeColumns = "id, salon_id, name, active, sort_order, created_at, updated_at"

const serviceColumns = "id, salon_id, name, duration_minutes, price, active, created_at, updated_at"

// Repository репозиторий справочных данных салона: сотрудники, услуги
// и матрица соответствия сотрудник-услуга
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория персонала
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetActiveEmployees получает активных сотрудников салона в порядке
// отображения. Порядок определяет приоритет при автоподборе мастера
func (r *Repository) GetActiveEmployees(ctx context.Context, salonID int64) ([]*domain.Employee, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(employeeColumns).
		From("employees").
		Where(squirrel.Eq{"salon_id": salonID, "active": true}).
		OrderBy("sort_order ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveEmployees - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveEmployees - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanEmployees(rows)
}

// GetEmployeeByID получает сотрудника по ID
func (r *Repository) GetEmployeeByID(ctx context.Context, id int64) (*domain.Employee, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(employeeColumns).
		From("employees").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetEmployeeByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	employee, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetEmployeeByID - scan employee: %v", ErrScanRow, err)
	}

	return employee, nil
}

// GetServiceByID получает услугу по ID
func (r *Repository) GetServiceByID(ctx context.Context, id int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(serviceColumns).
		From("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)

	var service domain.Service
	var createdAt, updatedAt sql.NullTime

	err = row.Scan(
		&service.ID,
		&service.SalonID,
		&service.Name,
		&service.DurationMinutes,
		&service.Price,
		&service.Active,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceByID - scan service: %v", ErrScanRow, err)
	}

	service.CreatedAt = createdAt.Time
	service.UpdatedAt = updatedAt.Time

	return &service, nil
}

// GetEligibility получает матрицу соответствия сотрудник-услуга для салона.
// Пустой результат означает, что любой активный сотрудник выполняет
// любую услугу
func (r *Repository) GetEligibility(ctx context.Context, salonID int64) ([]domain.ServiceEligibility, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("salon_id, employee_id, service_id").
		From("service_eligibility").
		Where(squirrel.Eq{"salon_id": salonID}).
		OrderBy("employee_id ASC, service_id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetEligibility - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetEligibility - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]domain.ServiceEligibility, 0)
	for rows.Next() {
		var e domain.ServiceEligibility
		if err := rows.Scan(&e.SalonID, &e.EmployeeID, &e.ServiceID); err != nil {
			return nil, fmt.Errorf("%w: scan eligibility row: %v", ErrScanRow, err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEmployee(row rowScanner) (*domain.Employee, error) {
	var employee domain.Employee
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&employee.ID,
		&employee.SalonID,
		&employee.Name,
		&employee.Active,
		&employee.SortOrder,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	employee.CreatedAt = createdAt.Time
	employee.UpdatedAt = updatedAt.Time

	return &employee, nil
}

func scanEmployees(rows *sql.Rows) ([]*domain.Employee, error) {
	employees := make([]*domain.Employee, 0)

	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan employee row: %v", ErrScanRow, err)
		}
		employees = append(employees, employee)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %v", ErrScanRow, err)
	}

	return employees, nil
}
