package get_unavailable_blocks

import "fmt"

const maxRangeDays = 62

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.SalonID <= 0 {
		return fmt.Errorf("%w: salonID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.EmployeeID != nil && *req.EmployeeID <= 0 {
		return fmt.Errorf("%w: employeeID must be positive", ErrInvalidInput)
	}

	if req.RangeStart.IsZero() || req.RangeEnd.IsZero() {
		return fmt.Errorf("%w: range is required", ErrInvalidInput)
	}

	if req.RangeEnd.Before(req.RangeStart) {
		return fmt.Errorf("%w: rangeEnd must not be before rangeStart", ErrInvalidInput)
	}

	// Диапазон ограничен, расчет линеен по числу ячеек сетки
	if req.RangeEnd.Sub(req.RangeStart).Hours() > 24*maxRangeDays {
		return fmt.Errorf("%w: range must not exceed %d days", ErrInvalidInput, maxRangeDays)
	}

	return nil
}
