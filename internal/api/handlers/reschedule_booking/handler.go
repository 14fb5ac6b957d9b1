package reschedule_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/salonflow/scheduling-service/internal/api/handlers"
	rescheduleBooking "github.com/salonflow/scheduling-service/internal/usecase/reschedule_booking"
)

const (
	msgInvalidBookingID    = "некорректный ID бронирования"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidTime         = "некорректный формат времени начала, ожидается RFC 3339"
	msgNotFound            = "бронирование не найдено"
	msgCannotReschedule    = "бронирование нельзя перенести"
	msgEmployeeNotFound    = "сотрудник не найден"
	msgTimeInPast          = "время записи уже прошло"
	msgSalonClosed         = "салон закрыт в выбранный день"
	msgOutsideWorkingHours = "время вне рабочих часов"
	msgSlotNotAvailable    = "целевой временной слот недоступен"
	msgWriteConflict       = "слот только что заняли, попробуйте другое время"
)

type Handler struct {
	useCase RescheduleBookingUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req RescheduleBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(bookingID)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Failed to parse start time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, rescheduleBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, rescheduleBooking.ErrCannotReschedule):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Cannot reschedule: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgCannotReschedule)

		case errors.Is(err, rescheduleBooking.ErrWriteConflict):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Write conflict: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgWriteConflict)

		case errors.Is(err, rescheduleBooking.ErrSlotNotAvailable):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Slot not available: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, rescheduleBooking.ErrEmployeeNotFound):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Employee not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgEmployeeNotFound)

		case errors.Is(err, rescheduleBooking.ErrTimeInPast):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Time in past: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgTimeInPast)

		case errors.Is(err, rescheduleBooking.ErrSalonClosed):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Salon closed: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgSalonClosed)

		case errors.Is(err, rescheduleBooking.ErrOutsideWorkingHours):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Outside working hours: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgOutsideWorkingHours)

		case errors.Is(err, rescheduleBooking.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PATCH /bookings/{id}/reschedule - Failed to reschedule: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/reschedule - Booking rescheduled successfully: booking_id=%d", result.ID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
