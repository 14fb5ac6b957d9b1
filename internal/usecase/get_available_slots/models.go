package get_available_slots

import "time"

// Request модель запроса доступных слотов
type Request struct {
	SalonID    int64     // ID салона
	ServiceID  int64     // ID услуги (определяет длительность)
	EmployeeID *int64    // ID сотрудника; nil означает автоподбор мастера
	Date       time.Time // Дата выдачи (без времени)
}

// Slot доступный слот в ответе
type Slot struct {
	Start time.Time
	End   time.Time
}

// Response модель ответа со свободными слотами
type Response struct {
	SalonID         int64
	ServiceID       int64
	EmployeeID      *int64
	Date            time.Time
	DurationMinutes int
	Slots           []Slot
}
