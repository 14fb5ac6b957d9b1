package update_working_hours

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/salonflow/scheduling-service/internal/api/handlers"
	"github.com/salonflow/scheduling-service/internal/service/schedule"
	"github.com/salonflow/scheduling-service/internal/service/schedule/models"
)

const (
	msgInvalidSalonID     = "некорректный ID салона"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidRule        = "некорректное правило рабочих часов"
)

// UpdateWorkingHoursRequest HTTP request model
type UpdateWorkingHoursRequest struct {
	EmployeeID *int64             `json:"employeeId,omitempty"` // nil обновляет дефолт салона
	Rules      []models.RuleInput `json:"rules"`
}

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/salons/{salonId}/working-hours
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	salonID, err := strconv.ParseInt(vars["salonId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /salons/{id}/working-hours - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	var req UpdateWorkingHoursRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /salons/{id}/working-hours - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateWorkingHours(r.Context(), &models.UpdateWorkingHoursRequest{
		SalonID:    salonID,
		EmployeeID: req.EmployeeID,
		Rules:      req.Rules,
	})
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidRule):
			h.logger.Warn("PUT /salons/{id}/working-hours - Invalid rule: salon_id=%d, error=%v", salonID, err)
			handlers.RespondBadRequest(w, msgInvalidRule)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /salons/{id}/working-hours - Invalid input: salon_id=%d, error=%v", salonID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PUT /salons/{id}/working-hours - Failed to update rules: salon_id=%d, error=%v", salonID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /salons/{id}/working-hours - Updated %d rules for salon_id=%d",
		len(result.Rules), salonID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
