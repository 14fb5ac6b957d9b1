package create_booking

import (
	"errors"
	"net/http"

	"github.com/salonflow/scheduling-service/internal/api/handlers"
	"github.com/salonflow/scheduling-service/internal/api/middleware"
	createBooking "github.com/salonflow/scheduling-service/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidTime         = "некорректный формат времени начала, ожидается RFC 3339"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgSalonNotRegistered  = "салон не зарегистрирован"
	msgBookingNotAllowed   = "запись недоступна для этого салона"
	msgServiceNotFound     = "услуга не найдена"
	msgEmployeeNotFound    = "сотрудник не найден"
	msgTimeInPast          = "время записи уже прошло"
	msgSalonClosed         = "салон закрыт в выбранный день"
	msgOutsideWorkingHours = "время вне рабочих часов"
	msgSlotNotAvailable    = "выбранный временной слот недоступен"
	msgNoEmployee          = "нет свободного мастера на это время"
	msgWriteConflict       = "слот только что заняли, попробуйте другое время"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	clientID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(clientID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse start time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrWriteConflict):
			h.logger.Warn("POST /bookings - Write conflict: salon_id=%d, client_id=%d", req.SalonID, clientID)
			handlers.RespondConflict(w, msgWriteConflict)

		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: salon_id=%d, client_id=%d", req.SalonID, clientID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrNoEmployeeAvailable):
			h.logger.Warn("POST /bookings - No employee available: salon_id=%d, service_id=%d", req.SalonID, req.ServiceID)
			handlers.RespondConflict(w, msgNoEmployee)

		case errors.Is(err, createBooking.ErrSalonNotRegistered):
			h.logger.Warn("POST /bookings - Salon not registered: salon_id=%d", req.SalonID)
			handlers.RespondNotFound(w, msgSalonNotRegistered)

		case errors.Is(err, createBooking.ErrBookingNotAllowed):
			h.logger.Warn("POST /bookings - Booking not allowed: salon_id=%d", req.SalonID)
			handlers.RespondForbidden(w, msgBookingNotAllowed)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: salon_id=%d, service_id=%d", req.SalonID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrEmployeeNotFound):
			h.logger.Warn("POST /bookings - Employee not found: salon_id=%d, employee_id=%v", req.SalonID, req.EmployeeID)
			handlers.RespondNotFound(w, msgEmployeeNotFound)

		case errors.Is(err, createBooking.ErrTimeInPast):
			h.logger.Warn("POST /bookings - Time in past: salon_id=%d, client_id=%d", req.SalonID, clientID)
			handlers.RespondBadRequest(w, msgTimeInPast)

		case errors.Is(err, createBooking.ErrSalonClosed):
			h.logger.Warn("POST /bookings - Salon closed: salon_id=%d", req.SalonID)
			handlers.RespondBadRequest(w, msgSalonClosed)

		case errors.Is(err, createBooking.ErrOutsideWorkingHours):
			h.logger.Warn("POST /bookings - Outside working hours: salon_id=%d", req.SalonID)
			handlers.RespondBadRequest(w, msgOutsideWorkingHours)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: salon_id=%d, error=%v", req.SalonID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: salon_id=%d, client_id=%d, error=%v",
				req.SalonID, clientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, salon_id=%d, client_id=%d",
		result.ID, req.SalonID, clientID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
