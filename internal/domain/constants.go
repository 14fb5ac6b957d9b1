package domain

// Default scheduling parameters
const (
	// PublicStepMinutes шаг сетки слотов для публичной страницы записи
	PublicStepMinutes = 15

	// CalendarStepMinutes шаг сетки для календаря оператора (drag-and-drop)
	CalendarStepMinutes = 10

	// Границы отрисовки календаря (час дня)
	CalendarDayStartHour = 7
	CalendarDayEndHour   = 22
)

// Business validation constants
const (
	MaxNotesLength           = 500
	MaxCancellationReasonLen = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// OccupyingStatuses список статусов, занимающих время сотрудника
// Используется для фильтрации при проверке доступности
var OccupyingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}
