package get_unavailable_blocks

import (
	"context"
	"time"

	"github.com/salonflow/scheduling-service/internal/domain"
)

// ScheduleRepository интерфейс репозитория правил рабочих часов
type ScheduleRepository interface {
	GetSalonRules(ctx context.Context, salonID int64) ([]domain.WorkingHourRule, error)
	GetEmployeeRules(ctx context.Context, salonID int64) (map[int64][]domain.WorkingHourRule, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetBySalonWithFilter(ctx context.Context, filter domain.SalonBookingsFilter) ([]*domain.Booking, error)
}

// TimeOffRepository интерфейс репозитория отсутствий
type TimeOffRepository interface {
	GetBySalonRange(ctx context.Context, salonID int64, rangeStart, rangeEnd time.Time) ([]*domain.TimeOff, error)
}

// StaffRepository интерфейс репозитория персонала
type StaffRepository interface {
	GetActiveEmployees(ctx context.Context, salonID int64) ([]*domain.Employee, error)
	GetEmployeeByID(ctx context.Context, id int64) (*domain.Employee, error)
	GetServiceByID(ctx context.Context, id int64) (*domain.Service, error)
	GetEligibility(ctx context.Context, salonID int64) ([]domain.ServiceEligibility, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
