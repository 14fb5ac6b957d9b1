package reschedule_booking

import "time"

// Request модель запроса на перенос бронирования
type Request struct {
	BookingID     int64     // ID переносимого бронирования
	NewStartTime  time.Time // Новое начало записи
	NewEmployeeID *int64    // Новый сотрудник; nil сохраняет текущего
}

// Response модель ответа с перенесенным бронированием
type Response struct {
	ID              int64
	SalonID         int64
	EmployeeID      int64
	ServiceID       int64
	ClientID        int64
	StartTime       time.Time
	EndTime         time.Time
	DurationMinutes int
	Status          string
	ServiceName     string
	ServicePrice    float64
	ClientName      *string
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
