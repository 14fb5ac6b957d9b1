package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/salonflow/scheduling-service/internal/domain"
	"github.com/salonflow/scheduling-service/pkg/dbmetrics"
	"github.com/salonflow/scheduling-service/pkg/psqlbuilder"
	"github.com/salonflow/scheduling-service/pkg/types"
)

const ruleColumns = "id, salon_id, employee_id, weekday, is_closed, open_time, close_time, " +
	"break_start, break_end, created_at, updated_at"

// Repository репозиторий правил рабочих часов (салон + переопределения
// сотрудников). Нормализует строки таблицы в канонические доменные поля,
// движок расписания не видит схему источника.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetSalonRules получает правила салона (без переопределений сотрудников)
func (r *Repository) GetSalonRules(ctx context.Context, salonID int64) ([]domain.WorkingHourRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(ruleColumns).
		From("working_hour_rules").
		Where(squirrel.Eq{"salon_id": salonID}).
		Where("employee_id IS NULL").
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetSalonRules - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryRules(ctx, executor, query, args)
}

// GetEmployeeRules получает переопределения всех сотрудников салона,
// сгруппированные по сотруднику
func (r *Repository) GetEmployeeRules(ctx context.Context, salonID int64) (map[int64][]domain.WorkingHourRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(ruleColumns).
		From("working_hour_rules").
		Where(squirrel.Eq{"salon_id": salonID}).
		Where("employee_id IS NOT NULL").
		OrderBy("employee_id ASC, weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetEmployeeRules - build select query: %v", ErrBuildQuery, err)
	}

	rules, err := r.queryRules(ctx, executor, query, args)
	if err != nil {
		return nil, err
	}

	grouped := make(map[int64][]domain.WorkingHourRule)
	for _, rule := range rules {
		if rule.EmployeeID == nil {
			continue
		}
		grouped[*rule.EmployeeID] = append(grouped[*rule.EmployeeID], rule)
	}
	return grouped, nil
}

// GetRulesForEmployee получает переопределения одного сотрудника
func (r *Repository) GetRulesForEmployee(ctx context.Context, salonID, employeeID int64) ([]domain.WorkingHourRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(ruleColumns).
		From("working_hour_rules").
		Where(squirrel.Eq{"salon_id": salonID, "employee_id": employeeID}).
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetRulesForEmployee - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryRules(ctx, executor, query, args)
}

// UpsertRule создает или обновляет правило для (scope, weekday).
// Валидация полноты перерыва и порядка границ выполняется до записи.
func (r *Repository) UpsertRule(ctx context.Context, rule *domain.WorkingHourRule) (*domain.WorkingHourRule, error) {
	if err := validateRule(rule); err != nil {
		return nil, err
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("working_hour_rules").
		Columns(
			"salon_id",
			"employee_id",
			"weekday",
			"is_closed",
			"open_time",
			"close_time",
			"break_start",
			"break_end",
		).
		Values(
			rule.SalonID,
			rule.EmployeeID,
			int(rule.Weekday),
			rule.IsClosed,
			nullableTime(rule.OpenTime.String()),
			nullableTime(rule.CloseTime.String()),
			breakBound(rule.BreakStart),
			breakBound(rule.BreakEnd),
		).
		Suffix("ON CONFLICT (salon_id, COALESCE(employee_id, 0), weekday) DO UPDATE SET " +
			"is_closed = EXCLUDED.is_closed, open_time = EXCLUDED.open_time, " +
			"close_time = EXCLUDED.close_time, break_start = EXCLUDED.break_start, " +
			"break_end = EXCLUDED.break_end, updated_at = NOW() " +
			"RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertRule - build upsert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&rule.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertRule - execute upsert: %v", ErrExecQuery, err)
	}

	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	return rule, nil
}

func (r *Repository) queryRules(ctx context.Context, executor dbmetrics.DBExecutor, query string, args []interface{}) ([]domain.WorkingHourRule, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rules := make([]domain.WorkingHourRule, 0)
	for rows.Next() {
		var rule domain.WorkingHourRule
		var weekday int
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&rule.ID,
			&rule.SalonID,
			&rule.EmployeeID,
			&weekday,
			&rule.IsClosed,
			&rule.OpenTime,
			&rule.CloseTime,
			&rule.BreakStart,
			&rule.BreakEnd,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scan rule row: %v", ErrScanRow, err)
		}

		rule.Weekday = toWeekday(weekday)
		rule.CreatedAt = createdAt.Time
		rule.UpdatedAt = updatedAt.Time
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %v", ErrScanRow, err)
	}

	return rules, nil
}

func validateRule(rule *domain.WorkingHourRule) error {
	if rule.IsClosed {
		return nil
	}
	if rule.OpenTime.IsZero() || rule.CloseTime.IsZero() {
		return fmt.Errorf("%w: open and close times are required for an open day", ErrInvalidRule)
	}
	if !rule.CloseTime.IsAfter(rule.OpenTime) {
		return fmt.Errorf("%w: close time must be after open time", ErrInvalidRule)
	}
	if (rule.BreakStart == nil) != (rule.BreakEnd == nil) {
		return fmt.Errorf("%w: break start and end must both be present or both absent", ErrInvalidRule)
	}
	if rule.HasBreak() && !rule.BreakEnd.IsAfter(*rule.BreakStart) {
		return fmt.Errorf("%w: break end must be after break start", ErrInvalidRule)
	}
	return nil
}

func toWeekday(weekday int) time.Weekday {
	if weekday < 0 || weekday > 6 {
		return time.Sunday
	}
	return time.Weekday(weekday)
}

// nullableTime конвертирует пустое время в NULL для TIME колонки
func nullableTime(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// breakBound конвертирует опциональную границу перерыва для записи
func breakBound(t *types.TimeString) interface{} {
	if t == nil {
		return nil
	}
	return t.String()
}
