package get_unavailable_blocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/salonflow/scheduling-service/internal/domain"
	staffRepo "github.com/salonflow/scheduling-service/internal/infra/storage/staff"
	"github.com/salonflow/scheduling-service/internal/scheduling"
)

// UseCase use case расчета недоступных блоков для календаря
type UseCase struct {
	scheduleRepo ScheduleRepository
	bookingRepo  BookingRepository
	timeOffRepo  TimeOffRepository
	staffRepo    StaffRepository
	logger       Logger
	stepMinutes  int
	dayStartHour int
	dayEndHour   int
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	scheduleRepo ScheduleRepository,
	bookingRepo BookingRepository,
	timeOffRepo TimeOffRepository,
	staffRepo StaffRepository,
	logger Logger,
	stepMinutes, dayStartHour, dayEndHour int,
) *UseCase {
	if stepMinutes <= 0 {
		stepMinutes = domain.CalendarStepMinutes
	}
	if dayStartHour <= 0 {
		dayStartHour = domain.CalendarDayStartHour
	}
	if dayEndHour <= 0 {
		dayEndHour = domain.CalendarDayEndHour
	}
	return &UseCase{
		scheduleRepo: scheduleRepo,
		bookingRepo:  bookingRepo,
		timeOffRepo:  timeOffRepo,
		staffRepo:    staffRepo,
		logger:       logger,
		stepMinutes:  stepMinutes,
		dayStartHour: dayStartHour,
		dayEndHour:   dayEndHour,
	}
}

// Execute выполняет use case расчета недоступных блоков.
// Блоки дополняют свободные слоты: календарь закрашивает их фоном,
// и оставшиеся светлые участки совпадают с выдачей доступных слотов.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetUnavailableBlocks: salon=%d, service=%d, employee=%v, range=%s..%s, aggregate=%t",
		req.SalonID, req.ServiceID, req.EmployeeID,
		req.RangeStart.Format(domain.DateFormat), req.RangeEnd.Format(domain.DateFormat), req.Aggregate)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetUnavailableBlocks: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем услугу (определяет длительность проверки)
	service, err := uc.staffRepo.GetServiceByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, staffRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetUnavailableBlocks: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetUnavailableBlocks: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if service.SalonID != req.SalonID {
		return nil, ErrServiceNotFound
	}

	// 3. Определяем ресурсы в области видимости
	resources, err := uc.resolveResources(ctx, req)
	if err != nil {
		return nil, err
	}

	// Услугу некому выполнять: весь видимый диапазон недоступен
	if len(resources) == 0 {
		uc.logger.Warn("GetUnavailableBlocks: no eligible employees for service=%d in salon=%d",
			req.ServiceID, req.SalonID)
		return &Response{
			SalonID:         req.SalonID,
			ServiceID:       req.ServiceID,
			DurationMinutes: service.DurationMinutes,
			Blocks:          uc.fullRangeBlocks(req.RangeStart, req.RangeEnd),
		}, nil
	}

	// 4. Загружаем снапшот данных на весь видимый диапазон
	schedCtx, err := uc.loadContext(ctx, req.SalonID, req.RangeStart, req.RangeEnd)
	if err != nil {
		return nil, err
	}

	// 5. Считаем блоки
	blocks := scheduling.ComputeUnavailableBlocks(scheduling.BlockParams{
		RangeStart:      req.RangeStart,
		RangeEnd:        req.RangeEnd,
		Resources:       resources,
		Aggregate:       req.Aggregate,
		DurationMinutes: service.DurationMinutes,
		StepMinutes:     uc.stepMinutes,
		DayStartHour:    uc.dayStartHour,
		DayEndHour:      uc.dayEndHour,
	}, schedCtx)

	uc.logger.Info("GetUnavailableBlocks: %d blocks for salon=%d", len(blocks), req.SalonID)

	out := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, Block{EmployeeID: b.EmployeeID, Start: b.Start, End: b.End})
	}

	return &Response{
		SalonID:         req.SalonID,
		ServiceID:       req.ServiceID,
		DurationMinutes: service.DurationMinutes,
		Blocks:          out,
	}, nil
}

// resolveResources возвращает сотрудников в области видимости календаря:
// один явно выбранный или все подходящие для услуги. Без фильтра по
// матрице услуг свободный, но не умеющий услугу сотрудник скрывал бы
// агрегатные блоки, которые некому обслужить
func (uc *UseCase) resolveResources(ctx context.Context, req *Request) ([]int64, error) {
	if req.EmployeeID != nil {
		employee, err := uc.staffRepo.GetEmployeeByID(ctx, *req.EmployeeID)
		if err != nil {
			if errors.Is(err, staffRepo.ErrEmployeeNotFound) {
				uc.logger.Warn("GetUnavailableBlocks: employee id=%d not found", *req.EmployeeID)
				return nil, ErrEmployeeNotFound
			}
			uc.logger.Error("GetUnavailableBlocks: failed to get employee id=%d: %v", *req.EmployeeID, err)
			return nil, fmt.Errorf("%w: failed to get employee: %v", ErrInternal, err)
		}
		if employee.SalonID != req.SalonID || !employee.Active {
			return nil, ErrEmployeeNotFound
		}
		return []int64{employee.ID}, nil
	}

	employees, err := uc.staffRepo.GetActiveEmployees(ctx, req.SalonID)
	if err != nil {
		uc.logger.Error("GetUnavailableBlocks: failed to get employees: %v", err)
		return nil, fmt.Errorf("%w: failed to get employees: %v", ErrInternal, err)
	}

	eligibility, err := uc.staffRepo.GetEligibility(ctx, req.SalonID)
	if err != nil {
		uc.logger.Error("GetUnavailableBlocks: failed to get eligibility: %v", err)
		return nil, fmt.Errorf("%w: failed to get eligibility: %v", ErrInternal, err)
	}

	staff := make([]domain.Employee, 0, len(employees))
	for _, e := range employees {
		staff = append(staff, *e)
	}

	return scheduling.EligibleEmployees(staff, req.ServiceID, eligibility), nil
}

// fullRangeBlocks строит агрегатные блоки на весь видимый диапазон,
// по одному на каждый день в границах отрисовки календаря
func (uc *UseCase) fullRangeBlocks(rangeStart, rangeEnd time.Time) []Block {
	blocks := make([]Block, 0)
	first := time.Date(rangeStart.Year(), rangeStart.Month(), rangeStart.Day(), 0, 0, 0, 0, rangeStart.Location())
	last := time.Date(rangeEnd.Year(), rangeEnd.Month(), rangeEnd.Day(), 0, 0, 0, 0, rangeEnd.Location())

	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		blocks = append(blocks, Block{
			Start: day.Add(time.Duration(uc.dayStartHour) * time.Hour),
			End:   day.Add(time.Duration(uc.dayEndHour) * time.Hour),
		})
	}
	return blocks
}

// loadContext загружает правила, занятые интервалы и отсутствия на диапазон
func (uc *UseCase) loadContext(ctx context.Context, salonID int64, rangeStart, rangeEnd time.Time) (*scheduling.Context, error) {
	spanStart := time.Date(rangeStart.Year(), rangeStart.Month(), rangeStart.Day(), 0, 0, 0, 0, rangeStart.Location())
	spanEnd := time.Date(rangeEnd.Year(), rangeEnd.Month(), rangeEnd.Day(), 0, 0, 0, 0, rangeEnd.Location()).AddDate(0, 0, 1)

	salonRules, err := uc.scheduleRepo.GetSalonRules(ctx, salonID)
	if err != nil {
		uc.logger.Error("GetUnavailableBlocks: failed to get salon rules: %v", err)
		return nil, fmt.Errorf("%w: failed to get salon rules: %v", ErrInternal, err)
	}

	employeeRules, err := uc.scheduleRepo.GetEmployeeRules(ctx, salonID)
	if err != nil {
		uc.logger.Error("GetUnavailableBlocks: failed to get employee rules: %v", err)
		return nil, fmt.Errorf("%w: failed to get employee rules: %v", ErrInternal, err)
	}

	bookings, err := uc.bookingRepo.GetBySalonWithFilter(ctx, domain.SalonBookingsFilter{
		SalonID:       salonID,
		RangeStart:    &spanStart,
		RangeEnd:      &spanEnd,
		OnlyOccupying: true,
	})
	if err != nil {
		uc.logger.Error("GetUnavailableBlocks: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	timeOff, err := uc.timeOffRepo.GetBySalonRange(ctx, salonID, spanStart, spanEnd)
	if err != nil {
		uc.logger.Error("GetUnavailableBlocks: failed to get time off: %v", err)
		return nil, fmt.Errorf("%w: failed to get time off: %v", ErrInternal, err)
	}

	return &scheduling.Context{
		SalonRules:    salonRules,
		EmployeeRules: employeeRules,
		Busy:          scheduling.BusyFromBookings(bookings),
		TimeOff:       scheduling.TimeOffFromDomain(timeOff),
	}, nil
}
