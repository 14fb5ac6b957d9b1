package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/salonflow/scheduling-service/internal/domain"
	staffRepo "github.com/salonflow/scheduling-service/internal/infra/storage/staff"
	billingClient "github.com/salonflow/scheduling-service/internal/integrations/billingservice"
	"github.com/salonflow/scheduling-service/internal/scheduling"
	"github.com/salonflow/scheduling-service/pkg/interval"
	"github.com/salonflow/scheduling-service/pkg/txmanager"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo   BookingRepository
	scheduleRepo  ScheduleRepository
	timeOffRepo   TimeOffRepository
	staffRepo     StaffRepository
	billingClient BillingServiceClient
	cache         SlotCache
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
	stepMinutes   int
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	timeOffRepo TimeOffRepository,
	staffRepo StaffRepository,
	billingClient BillingServiceClient,
	cache SlotCache,
	txManager TransactionManager,
	logger Logger,
	stepMinutes int,
) *UseCase {
	if stepMinutes <= 0 {
		stepMinutes = domain.PublicStepMinutes
	}
	return &UseCase{
		bookingRepo:   bookingRepo,
		scheduleRepo:  scheduleRepo,
		timeOffRepo:   timeOffRepo,
		staffRepo:     staffRepo,
		billingClient: billingClient,
		cache:         cache,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
		stepMinutes:   stepMinutes,
	}
}

// Execute выполняет use case создания бронирования.
// Проверка доступности и запись выполняются в сериализуемой транзакции:
// два конкурентных запроса на один интервал не могут пройти проверку
// одновременно, проигравший получает ErrWriteConflict.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: salon=%d, client=%d, service=%d, employee=%v, start=%s",
		req.SalonID, req.ClientID, req.ServiceID, req.EmployeeID, req.StartTime.Format(domain.TimeFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Притягиваем начало к сетке слотов: клиент выбирает слот из выдачи,
	// но API не принимает произвольное время на веру
	startTime := interval.Snap(req.StartTime, uc.stepMinutes)

	now := uc.timeProvider.Now()

	if !startTime.After(now) {
		uc.logger.Warn("CreateBooking: start time %s is in the past", startTime.Format(domain.TimeFormat))
		return nil, ErrTimeInPast
	}

	// 3. Проверяем подписку салона в биллинге.
	// При недоступности биллинга запись разрешается (fail-open):
	// потеря записи клиента дороже, чем редкий пропуск неплательщика
	status, err := uc.billingClient.GetSalonStatusWithGracefulDegradation(ctx, req.SalonID)
	if err != nil {
		if errors.Is(err, billingClient.ErrSalonNotFound) {
			uc.logger.Warn("CreateBooking: salon id=%d is not registered", req.SalonID)
			return nil, ErrSalonNotRegistered
		}
		if errors.Is(err, billingClient.ErrServiceDegraded) {
			uc.logger.Warn("CreateBooking: billing degraded, allowing booking for salon=%d", req.SalonID)
		} else {
			uc.logger.Error("CreateBooking: billing check failed for salon=%d: %v", req.SalonID, err)
			return nil, fmt.Errorf("%w: billing check failed: %v", ErrInternal, err)
		}
	} else if !status.BookingAllowed {
		uc.logger.Warn("CreateBooking: booking not allowed for salon=%d, plan=%s", req.SalonID, status.Plan)
		return nil, ErrBookingNotAllowed
	}

	// 4. Получаем услугу (определяет длительность и цену)
	service, err := uc.staffRepo.GetServiceByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, staffRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if service.SalonID != req.SalonID || !service.Active {
		uc.logger.Warn("CreateBooking: service id=%d not available in salon id=%d", req.ServiceID, req.SalonID)
		return nil, ErrServiceNotFound
	}

	endTime := startTime.Add(time.Duration(service.DurationMinutes) * time.Minute)

	// 5. Определяем кандидатов на выполнение услуги
	candidates, err := uc.resolveCandidates(ctx, req)
	if err != nil {
		return nil, err
	}

	var result *domain.Booking

	// 6. Выполняем проверку доступности и запись в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Загружаем снапшот данных на дату с блокировкой бронирований
		schedCtx, err := uc.loadContext(txCtx, req.SalonID, startTime)
		if err != nil {
			return err
		}

		// 6.2. Назначаем сотрудника: явный выбор проверяется валидатором,
		// автоподбор перебирает кандидатов в порядке приоритета
		var employeeID int64
		if req.EmployeeID != nil {
			employeeID = *req.EmployeeID
			decision := scheduling.Validate(scheduling.Candidate{
				EmployeeID: employeeID,
				Start:      startTime,
				End:        endTime,
			}, schedCtx)
			if !decision.OK {
				uc.logger.Warn("CreateBooking: candidate rejected: %s", decision.Reason)
				return reasonToError(decision.Reason)
			}
		} else {
			assigned, decision := scheduling.ResolveAutoAssignment(candidates, startTime, endTime, schedCtx)
			if !decision.OK {
				uc.logger.Warn("CreateBooking: auto assignment failed: %s", decision.Reason)
				return ErrNoEmployeeAvailable
			}
			employeeID = assigned
		}

		// 6.3. Создаем бронирование с денормализацией данных услуги
		booking := &domain.Booking{
			SalonID:         req.SalonID,
			EmployeeID:      employeeID,
			ServiceID:       req.ServiceID,
			ClientID:        req.ClientID,
			StartTime:       startTime,
			EndTime:         endTime,
			Status:          domain.StatusConfirmed,
			ServiceName:     service.Name,
			ServicePrice:    service.Price,
			DurationMinutes: service.DurationMinutes,
			ClientName:      req.ClientName,
			Notes:           req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrSerializationFailure) {
			uc.logger.Warn("CreateBooking: serialization failure for salon=%d", req.SalonID)
			return nil, ErrWriteConflict
		}
		return nil, err
	}

	// 7. Инвалидируем кеш слотов на день записи
	if err := uc.cache.InvalidateSalonDay(ctx, req.SalonID, startTime); err != nil {
		uc.logger.Warn("CreateBooking: cache invalidation failed: %v", err)
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, employee=%d", result.ID, result.EmployeeID)

	return toResponse(result), nil
}

// resolveCandidates возвращает кандидатов для назначения сотрудника
func (uc *UseCase) resolveCandidates(ctx context.Context, req *Request) ([]int64, error) {
	if req.EmployeeID != nil {
		employee, err := uc.staffRepo.GetEmployeeByID(ctx, *req.EmployeeID)
		if err != nil {
			if errors.Is(err, staffRepo.ErrEmployeeNotFound) {
				uc.logger.Warn("CreateBooking: employee id=%d not found", *req.EmployeeID)
				return nil, ErrEmployeeNotFound
			}
			uc.logger.Error("CreateBooking: failed to get employee id=%d: %v", *req.EmployeeID, err)
			return nil, fmt.Errorf("%w: failed to get employee: %v", ErrInternal, err)
		}
		if employee.SalonID != req.SalonID || !employee.Active {
			return nil, ErrEmployeeNotFound
		}
		return []int64{employee.ID}, nil
	}

	employees, err := uc.staffRepo.GetActiveEmployees(ctx, req.SalonID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get employees: %v", err)
		return nil, fmt.Errorf("%w: failed to get employees: %v", ErrInternal, err)
	}

	eligibility, err := uc.staffRepo.GetEligibility(ctx, req.SalonID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get eligibility: %v", err)
		return nil, fmt.Errorf("%w: failed to get eligibility: %v", ErrInternal, err)
	}

	staff := make([]domain.Employee, 0, len(employees))
	for _, e := range employees {
		staff = append(staff, *e)
	}

	candidates := scheduling.EligibleEmployees(staff, req.ServiceID, eligibility)
	if len(candidates) == 0 {
		uc.logger.Warn("CreateBooking: no eligible employees for service=%d in salon=%d", req.ServiceID, req.SalonID)
		return nil, ErrNoEmployeeAvailable
	}

	return candidates, nil
}

// loadContext загружает правила, занятые интервалы и отсутствия на дату записи.
// Внутри транзакции выборка бронирований блокирует строки (FOR UPDATE)
func (uc *UseCase) loadContext(ctx context.Context, salonID int64, start time.Time) (*scheduling.Context, error) {
	dayStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	salonRules, err := uc.scheduleRepo.GetSalonRules(ctx, salonID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get salon rules: %v", err)
		return nil, fmt.Errorf("%w: failed to get salon rules: %v", ErrInternal, err)
	}

	employeeRules, err := uc.scheduleRepo.GetEmployeeRules(ctx, salonID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get employee rules: %v", err)
		return nil, fmt.Errorf("%w: failed to get employee rules: %v", ErrInternal, err)
	}

	bookings, err := uc.bookingRepo.GetBySalonWithFilter(ctx, domain.SalonBookingsFilter{
		SalonID:       salonID,
		RangeStart:    &dayStart,
		RangeEnd:      &dayEnd,
		OnlyOccupying: true,
	})
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	timeOff, err := uc.timeOffRepo.GetBySalonRange(ctx, salonID, dayStart, dayEnd)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get time off: %v", err)
		return nil, fmt.Errorf("%w: failed to get time off: %v", ErrInternal, err)
	}

	return &scheduling.Context{
		SalonRules:    salonRules,
		EmployeeRules: employeeRules,
		Busy:          scheduling.BusyFromBookings(bookings),
		TimeOff:       scheduling.TimeOffFromDomain(timeOff),
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
