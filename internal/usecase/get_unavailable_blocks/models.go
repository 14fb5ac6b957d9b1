package get_unavailable_blocks

import "time"

// Request модель запроса недоступных блоков календаря
type Request struct {
	SalonID    int64     // ID салона
	ServiceID  int64     // ID услуги (определяет длительность для проверки)
	EmployeeID *int64    // Область видимости: один сотрудник или весь салон
	RangeStart time.Time // Первый видимый день (включительно)
	RangeEnd   time.Time // Последний видимый день (включительно)
	Aggregate  bool      // Режим "все ресурсы заняты" вместо поресурсных блоков
}

// Block недоступный интервал для фоновой отрисовки календаря
type Block struct {
	EmployeeID *int64 // nil в агрегатном режиме
	Start      time.Time
	End        time.Time
}

// Response модель ответа с недоступными блоками
type Response struct {
	SalonID         int64
	ServiceID       int64
	DurationMinutes int
	Blocks          []Block
}
