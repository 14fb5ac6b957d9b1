package reschedule_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/salonflow/scheduling-service/internal/domain"
	bookingRepo "github.com/salonflow/scheduling-service/internal/infra/storage/booking"
	staffRepo "github.com/salonflow/scheduling-service/internal/infra/storage/staff"
	"github.com/salonflow/scheduling-service/internal/scheduling"
	"github.com/salonflow/scheduling-service/pkg/interval"
	"github.com/salonflow/scheduling-service/pkg/txmanager"
)

// UseCase use case для переноса бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	scheduleRepo ScheduleRepository
	timeOffRepo  TimeOffRepository
	staffRepo    StaffRepository
	cache        SlotCache
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
	stepMinutes  int
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	timeOffRepo TimeOffRepository,
	staffRepo StaffRepository,
	cache SlotCache,
	txManager TransactionManager,
	logger Logger,
	stepMinutes int,
) *UseCase {
	if stepMinutes <= 0 {
		stepMinutes = domain.CalendarStepMinutes
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		timeOffRepo:  timeOffRepo,
		staffRepo:    staffRepo,
		cache:        cache,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		stepMinutes:  stepMinutes,
	}
}

// Execute выполняет use case переноса бронирования.
// Переносимое бронирование исключается из занятых интервалов при проверке,
// иначе перенос внутри собственного интервала конфликтовал бы сам с собой.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: booking=%d, newStart=%s, newEmployee=%v",
		req.BookingID, req.NewStartTime.Format(domain.TimeFormat), req.NewEmployeeID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Притягиваем перетащенное время к сетке календаря: drag-and-drop
	// присылает позицию курсора, а не ячейку
	newStart := interval.Snap(req.NewStartTime, uc.stepMinutes)

	now := uc.timeProvider.Now()

	if !newStart.After(now) {
		uc.logger.Warn("RescheduleBooking: start time %s is in the past", newStart.Format(domain.TimeFormat))
		return nil, ErrTimeInPast
	}

	var result *domain.Booking
	var oldStart time.Time

	// 3. Выполняем чтение, проверку и перенос в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Читаем бронирование с блокировкой строки
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("RescheduleBooking: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("RescheduleBooking: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		if !booking.CanBeRescheduled() {
			uc.logger.Warn("RescheduleBooking: booking id=%d in status %s cannot be rescheduled",
				booking.ID, booking.Status)
			return ErrCannotReschedule
		}

		oldStart = booking.StartTime

		// 3.2. Определяем целевого сотрудника
		employeeID := booking.EmployeeID
		if req.NewEmployeeID != nil {
			employeeID = *req.NewEmployeeID
			employee, err := uc.staffRepo.GetEmployeeByID(txCtx, employeeID)
			if err != nil {
				if errors.Is(err, staffRepo.ErrEmployeeNotFound) {
					uc.logger.Warn("RescheduleBooking: employee id=%d not found", employeeID)
					return ErrEmployeeNotFound
				}
				uc.logger.Error("RescheduleBooking: failed to get employee id=%d: %v", employeeID, err)
				return fmt.Errorf("%w: failed to get employee: %v", ErrInternal, err)
			}
			if employee.SalonID != booking.SalonID || !employee.Active {
				return ErrEmployeeNotFound
			}
		}

		newEnd := newStart.Add(time.Duration(booking.DurationMinutes) * time.Minute)

		// 3.3. Загружаем снапшот данных без переносимого бронирования
		schedCtx, err := uc.loadContext(txCtx, booking.SalonID, newStart, booking.ID)
		if err != nil {
			return err
		}

		// 3.4. Проверяем целевой интервал
		decision := scheduling.Validate(scheduling.Candidate{
			EmployeeID: employeeID,
			Start:      newStart,
			End:        newEnd,
		}, schedCtx)
		if !decision.OK {
			uc.logger.Warn("RescheduleBooking: candidate rejected: %s", decision.Reason)
			return reasonToError(decision.Reason)
		}

		// 3.5. Переносим бронирование
		if err := uc.bookingRepo.UpdateTime(txCtx, booking.ID, employeeID, newStart, newEnd); err != nil {
			uc.logger.Error("RescheduleBooking: failed to update booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
		}

		booking.EmployeeID = employeeID
		booking.StartTime = newStart
		booking.EndTime = newEnd
		result = booking
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrSerializationFailure) {
			uc.logger.Warn("RescheduleBooking: serialization failure for booking=%d", req.BookingID)
			return nil, ErrWriteConflict
		}
		return nil, err
	}

	// 4. Инвалидируем кеш слотов на старый и новый день
	if err := uc.cache.InvalidateSalonDay(ctx, result.SalonID, oldStart); err != nil {
		uc.logger.Warn("RescheduleBooking: cache invalidation failed: %v", err)
	}
	if !sameDay(oldStart, result.StartTime) {
		if err := uc.cache.InvalidateSalonDay(ctx, result.SalonID, result.StartTime); err != nil {
			uc.logger.Warn("RescheduleBooking: cache invalidation failed: %v", err)
		}
	}

	uc.logger.Info("RescheduleBooking: successfully rescheduled booking id=%d to %s",
		result.ID, result.StartTime.Format(domain.TimeFormat))

	return toResponse(result), nil
}

// loadContext загружает правила, занятые интервалы и отсутствия на дату,
// исключая переносимое бронирование из занятых интервалов
func (uc *UseCase) loadContext(ctx context.Context, salonID int64, start time.Time, excludeBookingID int64) (*scheduling.Context, error) {
	dayStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	salonRules, err := uc.scheduleRepo.GetSalonRules(ctx, salonID)
	if err != nil {
		uc.logger.Error("RescheduleBooking: failed to get salon rules: %v", err)
		return nil, fmt.Errorf("%w: failed to get salon rules: %v", ErrInternal, err)
	}

	employeeRules, err := uc.scheduleRepo.GetEmployeeRules(ctx, salonID)
	if err != nil {
		uc.logger.Error("RescheduleBooking: failed to get employee rules: %v", err)
		return nil, fmt.Errorf("%w: failed to get employee rules: %v", ErrInternal, err)
	}

	bookings, err := uc.bookingRepo.GetBySalonWithFilter(ctx, domain.SalonBookingsFilter{
		SalonID:        salonID,
		RangeStart:     &dayStart,
		RangeEnd:       &dayEnd,
		OnlyOccupying:  true,
		ExcludeBooking: &excludeBookingID,
	})
	if err != nil {
		uc.logger.Error("RescheduleBooking: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	timeOff, err := uc.timeOffRepo.GetBySalonRange(ctx, salonID, dayStart, dayEnd)
	if err != nil {
		uc.logger.Error("RescheduleBooking: failed to get time off: %v", err)
		return nil, fmt.Errorf("%w: failed to get time off: %v", ErrInternal, err)
	}

	return &scheduling.Context{
		SalonRules:       salonRules,
		EmployeeRules:    employeeRules,
		Busy:             scheduling.BusyFromBookings(bookings),
		TimeOff:          scheduling.TimeOffFromDomain(timeOff),
		ExcludeBookingID: &excludeBookingID,
	}, nil
}

// reasonToError сопоставляет код отказа валидатора с ошибкой usecase
func reasonToError(reason scheduling.Reason) error {
	switch reason {
	case scheduling.ReasonMissingEmployee, scheduling.ReasonInvalidRange:
		return ErrInvalidInput
	case scheduling.ReasonClosedDay:
		return ErrSalonClosed
	case scheduling.ReasonOutsideWorkingHours:
		return ErrOutsideWorkingHours
	case scheduling.ReasonInsideBreak, scheduling.ReasonOnTimeOff, scheduling.ReasonOverlapsExistingBooking:
		return ErrSlotNotAvailable
	default:
		return ErrSlotNotAvailable
	}
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func toResponse(booking *domain.Booking) *Response {
	return &Response{
		ID:              booking.ID,
		SalonID:         booking.SalonID,
		EmployeeID:      booking.EmployeeID,
		ServiceID:       booking.ServiceID,
		ClientID:        booking.ClientID,
		StartTime:       booking.StartTime,
		EndTime:         booking.EndTime,
		DurationMinutes: booking.DurationMinutes,
		Status:          string(booking.Status),
		ServiceName:     booking.ServiceName,
		ServicePrice:    booking.ServicePrice,
		ClientName:      booking.ClientName,
		Notes:           booking.Notes,
		CreatedAt:       booking.CreatedAt,
		UpdatedAt:       booking.UpdatedAt,
	}
}
