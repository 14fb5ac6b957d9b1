package scheduling

import (
	"time"

	"github.com/salonflow/scheduling-service/internal/domain"
)

// EligibleEmployees фильтрует активных сотрудников по матрице
// "сотрудник умеет услугу", сохраняя порядок входного списка
// (порядок кандидатов настраивается на уровне салона через SortOrder).
//
// Семантика allow-list: если для услуги есть хотя бы одна запись,
// кандидатами становятся только перечисленные сотрудники. Если записей
// для услуги нет (матрица ещё не настроена), услугу может выполнять
// любой активный сотрудник.
func EligibleEmployees(employees []domain.Employee, serviceID int64, eligibility []domain.ServiceEligibility) []int64 {
	allowed := make(map[int64]bool)
	for _, e := range eligibility {
		if e.ServiceID == serviceID {
			allowed[e.EmployeeID] = true
		}
	}

	ids := make([]int64, 0, len(employees))
	for _, emp := range employees {
		if !emp.Active {
			continue
		}
		if len(allowed) > 0 && !allowed[emp.ID] {
			continue
		}
		ids = append(ids, emp.ID)
	}
	return ids
}

// ResolveAutoAssignment подбирает сотрудника для режима автоназначения:
// перебирает кандидатов в заданном порядке и возвращает первого, для
// которого валидатор принимает интервал. Жадный first-fit без балансировки
// нагрузки: детерминированный и дешёвый, чего достаточно при низкой
// плотности записей на слот.
func ResolveAutoAssignment(candidates []int64, start, end time.Time, ctx *Context) (int64, Decision) {
	for _, employeeID := range candidates {
		decision := Validate(Candidate{EmployeeID: employeeID, Start: start, End: end}, ctx)
		if decision.OK {
			return employeeID, Accept()
		}
	}
	return 0, Reject(ReasonNoEligibleEmployee)
}
