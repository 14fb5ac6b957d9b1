package create_booking

import "time"

// Request модель запроса на создание бронирования
type Request struct {
	SalonID    int64     // ID салона
	ClientID   int64     // ID клиента
	ServiceID  int64     // ID услуги
	EmployeeID *int64    // ID сотрудника; nil означает автоподбор мастера
	StartTime  time.Time // Начало записи
	ClientName *string   // Имя клиента для отображения в календаре (опционально)
	Notes      *string   // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64     // ID созданного бронирования
	SalonID         int64     // ID салона
	EmployeeID      int64     // ID назначенного сотрудника
	ServiceID       int64     // ID услуги
	ClientID        int64     // ID клиента
	StartTime       time.Time // Начало записи
	EndTime         time.Time // Конец записи
	DurationMinutes int       // Длительность в минутах
	Status          string    // Статус бронирования

	// Денормализованные данные услуги
	ServiceName  string  // Название услуги
	ServicePrice float64 // Цена услуги на момент записи
	ClientName   *string // Имя клиента
	Notes        *string // Заметки

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
