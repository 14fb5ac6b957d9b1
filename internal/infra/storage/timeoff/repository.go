package timeoff

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/salonflow/scheduling-service/internal/domain"
	"github.com/salonflow/scheduling-service/pkg/dbmetrics"
	"github.com/salonflow/scheduling-service/pkg/psqlbuilder"
)

const timeOffColumns = "id, salon_id, employee_id, start_time, end_time, reason, created_at"

// Repository репозиторий отсутствий сотрудников (отпуска, больничные)
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория отсутствий
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetBySalonRange получает отсутствия салона, пересекающие интервал
// [rangeStart, rangeEnd)
func (r *Repository) GetBySalonRange(ctx context.Context, salonID int64, rangeStart, rangeEnd time.Time) ([]*domain.TimeOff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(timeOffColumns).
		From("time_off").
		Where(squirrel.Eq{"salon_id": salonID}).
		Where(squirrel.Gt{"end_time": rangeStart}).
		Where(squirrel.Lt{"start_time": rangeEnd}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBySalonRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySalonRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanTimeOff(rows)
}

// Create создает запись отсутствия
func (r *Repository) Create(ctx context.Context, t *domain.TimeOff) (*domain.TimeOff, error) {
	if !t.StartTime.Before(t.EndTime) {
		return nil, fmt.Errorf("%w: start must be before end", ErrInvalidInterval)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("time_off").
		Columns("salon_id", "employee_id", "start_time", "end_time", "reason").
		Values(t.SalonID, t.EmployeeID, t.StartTime, t.EndTime, t.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&t.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	t.CreatedAt = createdAt.Time

	return t, nil
}

// Delete удаляет запись отсутствия
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("time_off").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrTimeOffNotFound
	}

	return nil
}

func scanTimeOff(rows *sql.Rows) ([]*domain.TimeOff, error) {
	entries := make([]*domain.TimeOff, 0)

	for rows.Next() {
		var t domain.TimeOff
		var employeeID sql.NullInt64
		var createdAt sql.NullTime

		err := rows.Scan(
			&t.ID,
			&t.SalonID,
			&employeeID,
			&t.StartTime,
			&t.EndTime,
			&t.Reason,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scan time off row: %v", ErrScanRow, err)
		}

		// NULL employee_id означает закрытие всего салона
		if employeeID.Valid {
			t.EmployeeID = &employeeID.Int64
		}
		t.CreatedAt = createdAt.Time
		entries = append(entries, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}
