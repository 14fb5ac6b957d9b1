package create_booking

import (
	"time"

	createBooking "github.com/salonflow/scheduling-service/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	SalonID    int64   `json:"salonId"`
	ServiceID  int64   `json:"serviceId"`
	EmployeeID *int64  `json:"employeeId,omitempty"` // nil = автоподбор мастера
	StartTime  string  `json:"startTime"`            // RFC 3339: "2025-11-03T12:00:00+03:00"
	ClientName *string `json:"clientName,omitempty"`
	Notes      *string `json:"notes,omitempty"`
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
func (r *CreateBookingRequest) ToUseCaseRequest(clientID int64) (*createBooking.Request, error) {
	startTime, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		SalonID:    r.SalonID,
		ClientID:   clientID,
		ServiceID:  r.ServiceID,
		EmployeeID: r.EmployeeID,
		StartTime:  startTime,
		ClientName: r.ClientName,
		Notes:      r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
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
