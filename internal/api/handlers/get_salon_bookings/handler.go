package get_salon_bookings

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/salonflow/scheduling-service/internal/api/handlers"
	"github.com/salonflow/scheduling-service/internal/domain"
	"github.com/salonflow/scheduling-service/internal/service/bookings"
	"github.com/salonflow/scheduling-service/internal/service/bookings/models"
)

const (
	msgInvalidSalonID    = "некорректный ID салона"
	msgInvalidEmployeeID = "некорректный ID сотрудника"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidFilter     = "некорректные параметры фильтрации"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/salons/{salonId}/bookings?employeeId=&from=&to=&status=&onlyOccupying=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	salonID, err := strconv.ParseInt(vars["salonId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /salons/{id}/bookings - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	req := &models.GetSalonBookingsRequest{SalonID: salonID}
	query := r.URL.Query()

	if raw := query.Get("employeeId"); raw != "" {
		employeeID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("GET /salons/{id}/bookings - Invalid employee ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidEmployeeID)
			return
		}
		req.EmployeeID = &employeeID
	}

	// Фильтр периода полуоткрытый: from включительно, to исключительно
	if raw := query.Get("from"); raw != "" {
		from, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /salons/{id}/bookings - Invalid from date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.RangeStart = &from
	}
	if raw := query.Get("to"); raw != "" {
		to, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /salons/{id}/bookings - Invalid to date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		// Верхняя граница покрывает весь день to
		end := to.AddDate(0, 0, 1)
		req.RangeEnd = &end
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}
	req.OnlyOccupying = query.Get("onlyOccupying") == "true"

	result, err := h.service.GetSalonBookings(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /salons/{id}/bookings - Invalid filter: salon_id=%d, error=%v", salonID, err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /salons/{id}/bookings - Failed to get bookings: salon_id=%d, error=%v", salonID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /salons/{id}/bookings - Retrieved %d bookings for salon_id=%d",
		len(result.Bookings), salonID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
