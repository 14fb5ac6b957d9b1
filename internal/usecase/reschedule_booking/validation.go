package reschedule_booking

import "fmt"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	if req.NewStartTime.IsZero() {
		return fmt.Errorf("%w: newStartTime is required", ErrInvalidInput)
	}

	if req.NewEmployeeID != nil && *req.NewEmployeeID <= 0 {
		return fmt.Errorf("%w: newEmployeeID must be positive", ErrInvalidInput)
	}

	return nil
}
