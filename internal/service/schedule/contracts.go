package schedule

import (
	"context"

	"github.com/salonflow/scheduling-service/internal/domain"
)

// ScheduleRepository интерфейс репозитория правил рабочих часов
type ScheduleRepository interface {
	GetSalonRules(ctx context.Context, salonID int64) ([]domain.WorkingHourRule, error)
	GetRulesForEmployee(ctx context.Context, salonID, employeeID int64) ([]domain.WorkingHourRule, error)
	UpsertRule(ctx context.Context, rule *domain.WorkingHourRule) (*domain.WorkingHourRule, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
