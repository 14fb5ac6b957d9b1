// Package scheduling реализует движок расписания: разрешение рабочих окон,
// генерацию слотов, валидацию бронирований, автоподбор сотрудника и
// склейку недоступных интервалов для календаря.
//
// Все функции пакета чистые: движок не выполняет I/O и не хранит состояния,
// входные данные передаются как снапшоты in-memory коллекций.
package scheduling

import (
	"time"

	"github.com/salonflow/scheduling-service/internal/domain"
)

// Candidate кандидат на бронирование: сотрудник и интервал времени
type Candidate struct {
	EmployeeID int64
	Start      time.Time
	End        time.Time
}

// BusyInterval занятый интервал сотрудника, полученный из существующего
// бронирования в занимающем статусе (pending, confirmed)
type BusyInterval struct {
	BookingID  int64
	EmployeeID int64
	Start      time.Time
	End        time.Time
}

// TimeOffInterval интервал отсутствия (отпуск, больничный).
// EmployeeID == 0 означает закрытие всего салона: интервал относится
// к каждому сотруднику.
type TimeOffInterval struct {
	EmployeeID int64
	Start      time.Time
	End        time.Time
}

// Context снапшот данных, относительно которого выполняется проверка.
// Контекст неизменяем на время одного вызова и заменяется целиком
// при перезагрузке данных.
type Context struct {
	SalonRules    []domain.WorkingHourRule
	EmployeeRules map[int64][]domain.WorkingHourRule
	Busy          []BusyInterval
	TimeOff       []TimeOffInterval

	// ExcludeBookingID исключает бронирование из набора занятых интервалов.
	// Обязателен при редактировании, иначе бронирование конфликтует само с собой.
	ExcludeBookingID *int64
}

// BusyFromBookings строит занятые интервалы из списка бронирований,
// отбрасывая не занимающие время статусы (отменённые, no-show)
func BusyFromBookings(bookings []*domain.Booking) []BusyInterval {
	busy := make([]BusyInterval, 0, len(bookings))
	for _, b := range bookings {
		if !b.IsOccupying() {
			continue
		}
		busy = append(busy, BusyInterval{
			BookingID:  b.ID,
			EmployeeID: b.EmployeeID,
			Start:      b.StartTime,
			End:        b.EndTime,
		})
	}
	return busy
}

// TimeOffFromDomain строит интервалы отсутствия из доменных записей.
// Запись без сотрудника (закрытие салона) превращается в интервал
// с EmployeeID == 0
func TimeOffFromDomain(entries []*domain.TimeOff) []TimeOffInterval {
	intervals := make([]TimeOffInterval, 0, len(entries))
	for _, t := range entries {
		var employeeID int64
		if t.EmployeeID != nil {
			employeeID = *t.EmployeeID
		}
		intervals = append(intervals, TimeOffInterval{
			EmployeeID: employeeID,
			Start:      t.StartTime,
			End:        t.EndTime,
		})
	}
	return intervals
}

// rulesFor возвращает правила сотрудника из контекста
func (c *Context) rulesFor(employeeID int64) []domain.WorkingHourRule {
	if c.EmployeeRules == nil {
		return nil
	}
	return c.EmployeeRules[employeeID]
}
