package get_unavailable_blocks

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/salonflow/scheduling-service/internal/api/handlers"
	"github.com/salonflow/scheduling-service/internal/domain"
	getUnavailableBlocks "github.com/salonflow/scheduling-service/internal/usecase/get_unavailable_blocks"
)

const (
	msgInvalidSalonID    = "некорректный ID салона"
	msgInvalidServiceID  = "некорректный ID услуги"
	msgInvalidEmployeeID = "некорректный ID сотрудника"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRange      = "некорректный диапазон дат"
	msgServiceNotFound   = "услуга не найдена"
	msgEmployeeNotFound  = "сотрудник не найден"
)

type Handler struct {
	useCase GetUnavailableBlocksUseCase
	logger  Logger
}

func NewHandler(useCase GetUnavailableBlocksUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/salons/{salonId}/unavailable-blocks?serviceId=&employeeId=&from=&to=&aggregate=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	salonID, err := strconv.ParseInt(vars["salonId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /salons/{id}/unavailable-blocks - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	query := r.URL.Query()

	serviceID, err := strconv.ParseInt(query.Get("serviceId"), 10, 64)
	if err != nil {
		h.logger.Warn("GET /salons/{id}/unavailable-blocks - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	req := &getUnavailableBlocks.Request{
		SalonID:   salonID,
		ServiceID: serviceID,
		Aggregate: query.Get("aggregate") == "true",
	}

	if raw := query.Get("employeeId"); raw != "" {
		employeeID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("GET /salons/{id}/unavailable-blocks - Invalid employee ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidEmployeeID)
			return
		}
		req.EmployeeID = &employeeID
	}

	from, err := time.Parse(domain.DateFormat, query.Get("from"))
	if err != nil {
		h.logger.Warn("GET /salons/{id}/unavailable-blocks - Invalid from date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	to, err := time.Parse(domain.DateFormat, query.Get("to"))
	if err != nil {
		h.logger.Warn("GET /salons/{id}/unavailable-blocks - Invalid to date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	req.RangeStart = from
	req.RangeEnd = to

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getUnavailableBlocks.ErrServiceNotFound):
			h.logger.Warn("GET /salons/{id}/unavailable-blocks - Service not found: salon_id=%d, service_id=%d",
				salonID, serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getUnavailableBlocks.ErrEmployeeNotFound):
			h.logger.Warn("GET /salons/{id}/unavailable-blocks - Employee not found: salon_id=%d, employee_id=%v",
				salonID, req.EmployeeID)
			handlers.RespondNotFound(w, msgEmployeeNotFound)

		case errors.Is(err, getUnavailableBlocks.ErrInvalidInput):
			h.logger.Warn("GET /salons/{id}/unavailable-blocks - Invalid input: salon_id=%d, error=%v", salonID, err)
			handlers.RespondBadRequest(w, msgInvalidRange)

		default:
			h.logger.Error("GET /salons/{id}/unavailable-blocks - Failed to get blocks: salon_id=%d, error=%v", salonID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /salons/{id}/unavailable-blocks - Retrieved %d blocks for salon_id=%d",
		len(result.Blocks), salonID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
