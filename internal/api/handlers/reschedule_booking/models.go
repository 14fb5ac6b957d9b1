package reschedule_booking

import (
	"time"

	rescheduleBooking "github.com/salonflow/scheduling-service/internal/usecase/reschedule_booking"
)

// RescheduleBookingRequest HTTP request model
type RescheduleBookingRequest struct {
	NewStartTime  string `json:"newStartTime"`            // RFC 3339
	NewEmployeeID *int64 `json:"newEmployeeId,omitempty"` // nil сохраняет текущего мастера
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              int64   `json:"id"`
	SalonID         int64   `json:"salonId"`
	EmployeeID      int64   `json:"employeeId"`
	ServiceID       int64   `json:"serviceId"`
	ClientID        int64   `json:"clientId"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	ServiceName     string  `json:"serviceName"`
	ServicePrice    float64 `json:"servicePrice"`
	ClientName      *string `json:"clientName,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleBookingRequest) ToUseCaseRequest(bookingID int64) (*rescheduleBooking.Request, error) {
	newStart, err := time.Parse(time.RFC3339, r.NewStartTime)
	if err != nil {
		return nil, err
	}

	return &rescheduleBooking.Request{
		BookingID:     bookingID,
		NewStartTime:  newStart,
		NewEmployeeID: r.NewEmployeeID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:              resp.ID,
		SalonID:         resp.SalonID,
		EmployeeID:      resp.EmployeeID,
		ServiceID:       resp.ServiceID,
		ClientID:        resp.ClientID,
		StartTime:       resp.StartTime.Format(time.RFC3339),
		EndTime:         resp.EndTime.Format(time.RFC3339),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		ServiceName:     resp.ServiceName,
		ServicePrice:    resp.ServicePrice,
		ClientName:      resp.ClientName,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
