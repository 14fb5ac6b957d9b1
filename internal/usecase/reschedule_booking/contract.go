package reschedule_booking

import (
	"context"
	"time"

	"github.com/salonflow/scheduling-service/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetBySalonWithFilter(ctx context.Context, filter domain.SalonBookingsFilter) ([]*domain.Booking, error)
	UpdateTime(ctx context.Context, id int64, employeeID int64, start, end time.Time) error
}

// ScheduleRepository интерфейс репозитория правил рабочих часов
type ScheduleRepository interface {
	GetSalonRules(ctx context.Context, salonID int64) ([]domain.WorkingHourRule, error)
	GetEmployeeRules(ctx context.Context, salonID int64) (map[int64][]domain.WorkingHourRule, error)
}

// TimeOffRepository интерфейс репозитория отсутствий
type TimeOffRepository interface {
	GetBySalonRange(ctx context.Context, salonID int64, rangeStart, rangeEnd time.Time) ([]*domain.TimeOff, error)
}

// StaffRepository интерфейс репозитория персонала
type StaffRepository interface {
	GetEmployeeByID(ctx context.Context, id int64) (*domain.Employee, error)
}

// SlotCache интерфейс для инвалидации кеша слотов
type SlotCache interface {
	InvalidateSalonDay(ctx context.Context, salonID int64, date time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
