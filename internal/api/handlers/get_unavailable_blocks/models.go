package get_unavailable_blocks

import (
	"time"

	getUnavailableBlocks "github.com/salonflow/scheduling-service/internal/usecase/get_unavailable_blocks"
)

// BlockResponse один недоступный блок
type BlockResponse struct {
	EmployeeID *int64 `json:"employeeId,omitempty"` // nil в агрегатном режиме
	Start      string `json:"start"`                // RFC 3339
	End        string `json:"end"`
}

// BlocksResponse HTTP response model
type BlocksResponse struct {
	SalonID         int64           `json:"salonId"`
	ServiceID       int64           `json:"serviceId"`
	DurationMinutes int             `json:"durationMinutes"`
	Blocks          []BlockResponse `json:"blocks"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getUnavailableBlocks.Response) *BlocksResponse {
	out := &BlocksResponse{
		SalonID:         resp.SalonID,
		ServiceID:       resp.ServiceID,
		DurationMinutes: resp.DurationMinutes,
		Blocks:          make([]BlockResponse, 0, len(resp.Blocks)),
	}

	for _, b := range resp.Blocks {
		out.Blocks = append(out.Blocks, BlockResponse{
			EmployeeID: b.EmployeeID,
			Start:      b.Start.Format(time.RFC3339),
			End:        b.End.Format(time.RFC3339),
		})
	}

	return out
}
