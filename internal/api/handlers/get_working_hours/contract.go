package get_working_hours

import (
	"context"

	"github.com/salonflow/scheduling-service/internal/service/schedule/models"
)

type ScheduleService interface {
	GetWorkingHours(ctx context.Context, salonID int64, employeeID *int64) (*models.WorkingHoursResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
