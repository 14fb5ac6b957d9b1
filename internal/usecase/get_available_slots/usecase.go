package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/salonflow/scheduling-service/internal/domain"
	"github.com/salonflow/scheduling-service/internal/infra/cache/slotcache"
	staffRepo "github.com/salonflow/scheduling-service/internal/infra/storage/staff"
	"github.com/salonflow/scheduling-service/internal/scheduling"
)

// UseCase use case выдачи доступных слотов
type UseCase struct {
	scheduleRepo ScheduleRepository
	bookingRepo  BookingRepository
	timeOffRepo  TimeOffRepository
	staffRepo    StaffRepository
	cache        SlotCache
	timeProvider TimeProvider
	logger       Logger
	stepMinutes  int
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	scheduleRepo ScheduleRepository,
	bookingRepo BookingRepository,
	timeOffRepo TimeOffRepository,
	staffRepo StaffRepository,
	cache SlotCache,
	logger Logger,
	stepMinutes int,
) *UseCase {
	if stepMinutes <= 0 {
		stepMinutes = domain.PublicStepMinutes
	}
	return &UseCase{
		scheduleRepo: scheduleRepo,
		bookingRepo:  bookingRepo,
		timeOffRepo:  timeOffRepo,
		staffRepo:    staffRepo,
		cache:        cache,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		stepMinutes:  stepMinutes,
	}
}

// Execute выполняет use case выдачи слотов.
// Результат кешируется на короткий TTL; при попадании в кеш выдача
// дополнительно фильтруется по текущему времени, чтобы не предлагать
// слоты, начало которых уже прошло порог анонса.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: salon=%d, service=%d, employee=%v, date=%s",
		req.SalonID, req.ServiceID, req.EmployeeID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Получаем услугу (определяет длительность слота)
	service, err := uc.staffRepo.GetServiceByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, staffRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if service.SalonID != req.SalonID || !service.Active {
		uc.logger.Warn("GetAvailableSlots: service id=%d not available in salon id=%d", req.ServiceID, req.SalonID)
		return nil, ErrServiceNotFound
	}

	// 3. Пробуем кеш
	cacheEmployee := int64(0)
	if req.EmployeeID != nil {
		cacheEmployee = *req.EmployeeID
	}
	if cached, err := uc.cache.Get(ctx, req.SalonID, cacheEmployee, req.ServiceID, req.Date); err == nil {
		uc.logger.Info("GetAvailableSlots: cache hit, %d slots", len(cached))
		return uc.buildResponse(req, service, fromCached(cached, now, uc.stepMinutes)), nil
	} else if !errors.Is(err, slotcache.ErrCacheMiss) {
		uc.logger.Warn("GetAvailableSlots: cache get failed: %v", err)
	}

	// 4. Определяем кандидатов
	candidates, err := uc.resolveCandidates(ctx, req)
	if err != nil {
		return nil, err
	}

	// 5. Загружаем снапшот данных на дату
	schedCtx, err := uc.loadContext(ctx, req.SalonID, req.Date)
	if err != nil {
		return nil, err
	}

	// 6. Генерируем слоты по каждому кандидату и объединяем выдачу
	slots := uc.generateUnion(candidates, schedCtx, req.Date, service.DurationMinutes, now)

	// 7. Сохраняем в кеш
	if err := uc.cache.Set(ctx, req.SalonID, cacheEmployee, req.ServiceID, req.Date, toCached(slots)); err != nil {
		uc.logger.Warn("GetAvailableSlots: cache set failed: %v", err)
	}

	uc.logger.Info("GetAvailableSlots: %d slots for salon=%d, date=%s",
		len(slots), req.SalonID, req.Date.Format(domain.DateFormat))

	return uc.buildResponse(req, service, slots), nil
}

// resolveCandidates возвращает сотрудников, по которым строится выдача:
// один явно выбранный или все подходящие для услуги в режиме автоподбора
func (uc *UseCase) resolveCandidates(ctx context.Context, req *Request) ([]int64, error) {
	if req.EmployeeID != nil {
		employee, err := uc.staffRepo.GetEmployeeByID(ctx, *req.EmployeeID)
		if err != nil {
			if errors.Is(err, staffRepo.ErrEmployeeNotFound) {
				uc.logger.Warn("GetAvailableSlots: employee id=%d not found", *req.EmployeeID)
				return nil, ErrEmployeeNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get employee id=%d: %v", *req.EmployeeID, err)
			return nil, fmt.Errorf("%w: failed to get employee: %v", ErrInternal, err)
		}
		if employee.SalonID != req.SalonID || !employee.Active {
			return nil, ErrEmployeeNotFound
		}
		return []int64{employee.ID}, nil
	}

	employees, err := uc.staffRepo.GetActiveEmployees(ctx, req.SalonID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get employees: %v", err)
		return nil, fmt.Errorf("%w: failed to get employees: %v", ErrInternal, err)
	}

	eligibility, err := uc.staffRepo.GetEligibility(ctx, req.SalonID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get eligibility: %v", err)
		return nil, fmt.Errorf("%w: failed to get eligibility: %v", ErrInternal, err)
	}

	staff := make([]domain.Employee, 0, len(employees))
	for _, e := range employees {
		staff = append(staff, *e)
	}

	return scheduling.EligibleEmployees(staff, req.ServiceID, eligibility), nil
}

// loadContext загружает правила, занятые интервалы и отсутствия на дату
func (uc *UseCase) loadContext(ctx context.Context, salonID int64, date time.Time) (*scheduling.Context, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	salonRules, err := uc.scheduleRepo.GetSalonRules(ctx, salonID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get salon rules: %v", err)
		return nil, fmt.Errorf("%w: failed to get salon rules: %v", ErrInternal, err)
	}

	employeeRules, err := uc.scheduleRepo.GetEmployeeRules(ctx, salonID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get employee rules: %v", err)
		return nil, fmt.Errorf("%w: failed to get employee rules: %v", ErrInternal, err)
	}

	bookings, err := uc.bookingRepo.GetBySalonWithFilter(ctx, domain.SalonBookingsFilter{
		SalonID:       salonID,
		RangeStart:    &dayStart,
		RangeEnd:      &dayEnd,
		OnlyOccupying: true,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	timeOff, err := uc.timeOffRepo.GetBySalonRange(ctx, salonID, dayStart, dayEnd)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get time off: %v", err)
		return nil, fmt.Errorf("%w: failed to get time off: %v", ErrInternal, err)
	}

	return &scheduling.Context{
		SalonRules:    salonRules,
		EmployeeRules: employeeRules,
		Busy:          scheduling.BusyFromBookings(bookings),
		TimeOff:       scheduling.TimeOffFromDomain(timeOff),
	}, nil
}

// generateUnion объединяет выдачи по кандидатам: слот доступен, если
// свободен хотя бы один из кандидатов. Дубликаты по началу схлопываются
func (uc *UseCase) generateUnion(candidates []int64, schedCtx *scheduling.Context, date time.Time, durationMinutes int, now time.Time) []Slot {
	seen := make(map[time.Time]bool)
	union := make([]Slot, 0)

	for _, employeeID := range candidates {
		generated := scheduling.GenerateSlots(scheduling.SlotParams{
			Date:            date,
			EmployeeID:      employeeID,
			SalonRules:      schedCtx.SalonRules,
			EmployeeRules:   schedCtx.EmployeeRules[employeeID],
			DurationMinutes: durationMinutes,
			Busy:            schedCtx.Busy,
			TimeOff:         schedCtx.TimeOff,
			Now:             now,
			StepMinutes:     uc.stepMinutes,
		})
		for _, s := range generated {
			if seen[s.Start] {
				continue
			}
			seen[s.Start] = true
			union = append(union, Slot{Start: s.Start, End: s.End})
		}
	}

	sort.Slice(union, func(i, j int) bool {
		return union[i].Start.Before(union[j].Start)
	})

	return union
}

func (uc *UseCase) buildResponse(req *Request, service *domain.Service, slots []Slot) *Response {
	return &Response{
		SalonID:         req.SalonID,
		ServiceID:       req.ServiceID,
		EmployeeID:      req.EmployeeID,
		Date:            req.Date,
		DurationMinutes: service.DurationMinutes,
		Slots:           slots,
	}
}

func toCached(slots []Slot) []slotcache.CachedSlot {
	cached := make([]slotcache.CachedSlot, 0, len(slots))
	for _, s := range slots {
		cached = append(cached, slotcache.CachedSlot{Start: s.Start, End: s.End})
	}
	return cached
}

// fromCached восстанавливает выдачу из кеша, отбрасывая слоты, начало
// которых уже прошло порог анонса
func fromCached(cached []slotcache.CachedSlot, now time.Time, stepMinutes int) []Slot {
	minStart := now.Add(time.Duration(stepMinutes) * time.Minute)

	slots := make([]Slot, 0, len(cached))
	for _, c := range cached {
		if c.Start.Before(minStart) {
			continue
		}
		slots = append(slots, Slot{Start: c.Start, End: c.End})
	}
	return slots
}
