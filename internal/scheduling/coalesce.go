package scheduling

import (
	"strconv"
	"time"

	"github.com/salonflow/scheduling-service/internal/domain"
	"github.com/salonflow/scheduling-service/pkg/interval"
)

// Block непрерывный недоступный интервал для фоновой отрисовки календаря.
// EmployeeID == nil означает агрегатный блок "все ресурсы заняты".
type Block struct {
	EmployeeID *int64
	Start      time.Time
	End        time.Time
}

// BlockParams входные данные расчёта недоступных блоков
type BlockParams struct {
	RangeStart      time.Time // первый видимый день (включительно)
	RangeEnd        time.Time // последний видимый день (включительно)
	Resources       []int64   // сотрудники в области видимости
	Aggregate       bool      // режим "все ресурсы": слот недоступен, только если недоступен у каждого
	DurationMinutes int
	StepMinutes     int
	DayStartHour    int // границы отрисовки (час дня)
	DayEndHour      int
}

// ComputeUnavailableBlocks обходит каждую ячейку сетки видимого диапазона,
// прогоняет валидатор для длительности услуги и склеивает подряд идущие
// недоступные ячейки в минимальные блоки. Количество блоков на выходе
// пропорционально числу непрерывных недоступных участков, а не числу
// ячеек сетки.
func ComputeUnavailableBlocks(p BlockParams, ctx *Context) []Block {
	if len(p.Resources) == 0 || p.DurationMinutes <= 0 {
		return []Block{}
	}

	step := p.StepMinutes
	if step <= 0 {
		step = domain.CalendarStepMinutes
	}
	stepDur := time.Duration(step) * time.Minute
	duration := time.Duration(p.DurationMinutes) * time.Minute

	startHour := p.DayStartHour
	endHour := p.DayEndHour
	if endHour <= startHour {
		startHour = domain.CalendarDayStartHour
		endHour = domain.CalendarDayEndHour
	}

	marks := make([]interval.Span, 0)

	for day := dateOnly(p.RangeStart); !day.After(dateOnly(p.RangeEnd)); day = day.AddDate(0, 0, 1) {
		dayStart := time.Date(day.Year(), day.Month(), day.Day(), startHour, 0, 0, 0, day.Location())
		dayEnd := time.Date(day.Year(), day.Month(), day.Day(), endHour, 0, 0, 0, day.Location())

		for slotStart := dayStart; slotStart.Before(dayEnd); slotStart = slotStart.Add(stepDur) {
			slotEnd := slotStart.Add(duration)

			if p.Aggregate {
				if allReject(p.Resources, slotStart, slotEnd, ctx) {
					marks = append(marks, interval.Span{Start: slotStart, End: slotStart.Add(stepDur)})
				}
				continue
			}

			for _, employeeID := range p.Resources {
				decision := Validate(Candidate{EmployeeID: employeeID, Start: slotStart, End: slotEnd}, ctx)
				if !decision.OK {
					marks = append(marks, interval.Span{
						Key:   strconv.FormatInt(employeeID, 10),
						Start: slotStart,
						End:   slotStart.Add(stepDur),
					})
				}
			}
		}
	}

	merged := interval.MergeAdjacent(marks)

	blocks := make([]Block, 0, len(merged))
	for _, span := range merged {
		block := Block{Start: span.Start, End: span.End}
		if span.Key != "" {
			id, err := strconv.ParseInt(span.Key, 10, 64)
			if err == nil {
				block.EmployeeID = &id
			}
		}
		blocks = append(blocks, block)
	}
	return blocks
}

// allReject возвращает true, если интервал отклонён для каждого ресурса
func allReject(resources []int64, start, end time.Time, ctx *Context) bool {
	for _, employeeID := range resources {
		decision := Validate(Candidate{EmployeeID: employeeID, Start: start, End: end}, ctx)
		if decision.OK {
			return false
		}
	}
	return true
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
