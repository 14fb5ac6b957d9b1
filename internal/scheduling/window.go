package scheduling

import (
	"time"

	"github.com/salonflow/scheduling-service/internal/domain"
)

// ResolvedWindow итоговое рабочее окно сотрудника на конкретную дату:
// абсолютные границы открытия/закрытия и опциональный перерыв
type ResolvedWindow struct {
	Start      time.Time
	End        time.Time
	BreakStart *time.Time
	BreakEnd   *time.Time
}

// HasBreak возвращает true, если у окна есть перерыв
func (w *ResolvedWindow) HasBreak() bool {
	return w.BreakStart != nil && w.BreakEnd != nil
}

// ResolveWindow вычисляет рабочее окно сотрудника на дату.
//
// Приоритет правил:
//   - правило сотрудника на этот день недели используется как есть
//     (отсутствующая граница подставляется из правила салона);
//   - без правила сотрудника действует правило салона;
//   - отсутствующее или закрытое правило, а также окно с close <= open
//     (некорректная конфигурация) дают nil, запись в этот день невозможна.
//
// Времена привязываются к календарному дню date с сохранением его location.
func ResolveWindow(salonRules, employeeRules []domain.WorkingHourRule, date time.Time) *ResolvedWindow {
	weekday := date.Weekday()

	salonRule := ruleForWeekday(salonRules, weekday)
	employeeRule := ruleForWeekday(employeeRules, weekday)

	if employeeRule != nil {
		if employeeRule.IsClosed {
			return nil
		}
		return buildWindow(employeeRule, salonRule, date)
	}

	if salonRule == nil || salonRule.IsClosed {
		return nil
	}
	return buildWindow(salonRule, nil, date)
}

// buildWindow строит окно из основного правила, подставляя отсутствующие
// границы из резервного (правила салона)
func buildWindow(rule, fallback *domain.WorkingHourRule, date time.Time) *ResolvedWindow {
	open := rule.OpenTime
	closeAt := rule.CloseTime

	if fallback != nil && !fallback.IsClosed {
		if open.IsZero() {
			open = fallback.OpenTime
		}
		if closeAt.IsZero() {
			closeAt = fallback.CloseTime
		}
	}

	if open.IsZero() || closeAt.IsZero() {
		return nil
	}
	if !open.IsBefore(closeAt) {
		return nil
	}

	window := &ResolvedWindow{
		Start: open.OnDate(date),
		End:   closeAt.OnDate(date),
	}

	if rule.HasBreak() && rule.BreakStart.IsBefore(*rule.BreakEnd) {
		bs := rule.BreakStart.OnDate(date)
		be := rule.BreakEnd.OnDate(date)
		window.BreakStart = &bs
		window.BreakEnd = &be
	}

	return window
}

func ruleForWeekday(rules []domain.WorkingHourRule, weekday time.Weekday) *domain.WorkingHourRule {
	for i := range rules {
		if rules[i].Weekday == weekday {
			return &rules[i]
		}
	}
	return nil
}
