package get_available_slots

import (
	"context"
	"time"

	"github.com/salonflow/scheduling-service/internal/domain"
	"github.com/salonflow/scheduling-service/internal/infra/cache/slotcache"
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

// SlotCache интерфейс кеша рассчитанных слотов
type SlotCache interface {
	Get(ctx context.Context, salonID, employeeID, serviceID int64, date time.Time) ([]slotcache.CachedSlot, error)
	Set(ctx context.Context, salonID, employeeID, serviceID int64, date time.Time, slots []slotcache.CachedSlot) error
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
