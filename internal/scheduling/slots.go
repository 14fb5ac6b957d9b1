package scheduling

import (
	"time"

	"github.com/salonflow/scheduling-service/internal/domain"
	"github.com/salonflow/scheduling-service/pkg/interval"
)

// Slot кандидат для записи: пара начало/конец, выровненная по сетке
type Slot struct {
	Start time.Time
	End   time.Time
}

// SlotParams входные данные генератора слотов
type SlotParams struct {
	Date            time.Time
	EmployeeID      int64
	SalonRules      []domain.WorkingHourRule
	EmployeeRules   []domain.WorkingHourRule
	DurationMinutes int
	Busy            []BusyInterval
	TimeOff         []TimeOffInterval
	Now             time.Time
	StepMinutes     int
}

// GenerateSlots генерирует упорядоченный список доступных слотов на дату.
//
// Слоты идут с фиксированным шагом StepMinutes от начала рабочего окна.
// Кандидат отбрасывается, если:
//   - его конец выходит за границу окна;
//   - он пересекается с перерывом;
//   - он пересекается с отсутствием сотрудника;
//   - он пересекается с занятым интервалом сотрудника;
//   - до его начала осталось меньше одного шага сетки (сетка никогда
//     не предлагает слот, начинающийся через пару минут).
//
// Функция чистая: повторный вызов с теми же входными данными даёт
// тот же результат.
func GenerateSlots(p SlotParams) []Slot {
	if p.DurationMinutes <= 0 {
		return []Slot{}
	}

	step := p.StepMinutes
	if step <= 0 {
		step = domain.PublicStepMinutes
	}

	window := ResolveWindow(p.SalonRules, p.EmployeeRules, p.Date)
	if window == nil || !window.End.After(window.Start) {
		return []Slot{}
	}

	duration := time.Duration(p.DurationMinutes) * time.Minute
	stepDur := time.Duration(step) * time.Minute
	minStart := p.Now.Add(stepDur)

	slots := make([]Slot, 0)

	for start := window.Start; start.Before(window.End); start = start.Add(stepDur) {
		end := start.Add(duration)
		if end.After(window.End) {
			break
		}
		if start.Before(minStart) {
			continue
		}
		if window.HasBreak() && interval.Overlaps(start, end, *window.BreakStart, *window.BreakEnd) {
			continue
		}
		if overlapsTimeOff(p.EmployeeID, start, end, p.TimeOff) {
			continue
		}
		if overlapsBusy(p.EmployeeID, start, end, p.Busy, nil) {
			continue
		}

		slots = append(slots, Slot{Start: start, End: end})
	}

	return slots
}

// overlapsTimeOff проверяет пересечение кандидата с отсутствиями сотрудника.
// Интервал с EmployeeID == 0 (закрытие салона) относится ко всем
func overlapsTimeOff(employeeID int64, start, end time.Time, timeOff []TimeOffInterval) bool {
	for _, t := range timeOff {
		if t.EmployeeID != 0 && t.EmployeeID != employeeID {
			continue
		}
		if interval.Overlaps(start, end, t.Start, t.End) {
			return true
		}
	}
	return false
}

// overlapsBusy проверяет пересечение кандидата с занятыми интервалами
// сотрудника, исключая бронирование excludeID (при редактировании)
func overlapsBusy(employeeID int64, start, end time.Time, busy []BusyInterval, excludeID *int64) bool {
	for _, b := range busy {
		if b.EmployeeID != employeeID {
			continue
		}
		if excludeID != nil && b.BookingID == *excludeID {
			continue
		}
		if interval.Overlaps(start, end, b.Start, b.End) {
			return true
		}
	}
	return false
}
