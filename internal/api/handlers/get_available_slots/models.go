package get_available_slots

import (
	"time"

	"github.com/salonflow/scheduling-service/internal/domain"
	getAvailableSlots "github.com/salonflow/scheduling-service/internal/usecase/get_available_slots"
)

// SlotResponse один доступный слот
type SlotResponse struct {
	Start string `json:"start"` // RFC 3339
	End   string `json:"end"`
}

// SlotsResponse HTTP response model
type SlotsResponse struct {
	SalonID         int64          `json:"salonId"`
	ServiceID       int64          `json:"serviceId"`
	EmployeeID      *int64         `json:"employeeId,omitempty"`
	Date            string         `json:"date"` // "2025-11-03"
	DurationMinutes int            `json:"durationMinutes"`
	Slots           []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *SlotsResponse {
	out := &SlotsResponse{
		SalonID:         resp.SalonID,
		ServiceID:       resp.ServiceID,
		EmployeeID:      resp.EmployeeID,
		Date:            resp.Date.Format(domain.DateFormat),
		DurationMinutes: resp.DurationMinutes,
		Slots:           make([]SlotResponse, 0, len(resp.Slots)),
	}

	for _, s := range resp.Slots {
		out.Slots = append(out.Slots, SlotResponse{
			Start: s.Start.Format(time.RFC3339),
			End:   s.End.Format(time.RFC3339),
		})
	}

	return out
}
