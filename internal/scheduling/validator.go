package scheduling

import (
	"github.com/salonflow/scheduling-service/pkg/interval"
)

// Validate проверяет кандидата на бронирование и возвращает решение
// принять/отклонить с кодом причины.
//
// Проверки выполняются в фиксированном порядке с остановкой на первой
// неудачной: порядок важен для детерминированных сообщений об ошибках.
//  1. сотрудник указан;
//  2. start < end;
//  3. день открыт (окно разрешается);
//  4. кандидат внутри рабочего окна;
//  5. кандидат не пересекает перерыв;
//  6. кандидат не пересекает отсутствия сотрудника;
//  7. кандидат не пересекает занятые интервалы сотрудника
//     (без бронирования ExcludeBookingID).
//
// Решение носит рекомендательный характер: вызывающая сторона обязана
// перепроверить кандидата по свежим данным в момент записи.
func Validate(c Candidate, ctx *Context) Decision {
	if c.EmployeeID == 0 {
		return Reject(ReasonMissingEmployee)
	}

	if c.Start.IsZero() || c.End.IsZero() || !c.Start.Before(c.End) {
		return Reject(ReasonInvalidRange)
	}

	window := ResolveWindow(ctx.SalonRules, ctx.rulesFor(c.EmployeeID), c.Start)
	if window == nil {
		return Reject(ReasonClosedDay)
	}

	if c.Start.Before(window.Start) || c.End.After(window.End) {
		return Reject(ReasonOutsideWorkingHours)
	}

	if window.HasBreak() && interval.Overlaps(c.Start, c.End, *window.BreakStart, *window.BreakEnd) {
		return Reject(ReasonInsideBreak)
	}

	if overlapsTimeOff(c.EmployeeID, c.Start, c.End, ctx.TimeOff) {
		return Reject(ReasonOnTimeOff)
	}

	if overlapsBusy(c.EmployeeID, c.Start, c.End, ctx.Busy, ctx.ExcludeBookingID) {
		return Reject(ReasonOverlapsExistingBooking)
	}

	return Accept()
}
