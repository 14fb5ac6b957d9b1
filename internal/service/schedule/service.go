package schedule

import (
	"context"
	"errors"
	"fmt"

	scheduleRepo "github.com/salonflow/scheduling-service/internal/infra/storage/schedule"
	"github.com/salonflow/scheduling-service/internal/service/schedule/models"
)

// Service сервис управления правилами рабочих часов
type Service struct {
	scheduleRepo ScheduleRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	scheduleRepo ScheduleRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetWorkingHours получает правила рабочих часов: дефолт салона или
// переопределения конкретного сотрудника
func (s *Service) GetWorkingHours(ctx context.Context, salonID int64, employeeID *int64) (*models.WorkingHoursResponse, error) {
	s.logger.Info("GetWorkingHours: salon=%d, employee=%v", salonID, employeeID)

	if salonID <= 0 {
		return nil, fmt.Errorf("%w: salonID must be positive", ErrInvalidInput)
	}

	if employeeID != nil {
		employeeRules, err := s.scheduleRepo.GetRulesForEmployee(ctx, salonID, *employeeID)
		if err != nil {
			s.logger.Error("GetWorkingHours: repository error for salon=%d, employee=%d: %v", salonID, *employeeID, err)
			return nil, fmt.Errorf("%w: GetWorkingHours - repository error: %v", ErrInternal, err)
		}
		return models.FromDomainRuleList(employeeRules), nil
	}

	salonRules, err := s.scheduleRepo.GetSalonRules(ctx, salonID)
	if err != nil {
		s.logger.Error("GetWorkingHours: repository error for salon=%d: %v", salonID, err)
		return nil, fmt.Errorf("%w: GetWorkingHours - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainRuleList(salonRules), nil
}

// UpdateWorkingHours создает или обновляет правила рабочих часов.
// Все правила запроса применяются в одной транзакции: неделя обновляется
// целиком или не обновляется вовсе
func (s *Service) UpdateWorkingHours(ctx context.Context, req *models.UpdateWorkingHoursRequest) (*models.WorkingHoursResponse, error) {
	s.logger.Info("UpdateWorkingHours: salon=%d, employee=%v, %d rules",
		req.SalonID, req.EmployeeID, len(req.Rules))

	if req.SalonID <= 0 {
		return nil, fmt.Errorf("%w: salonID must be positive", ErrInvalidInput)
	}
	if req.EmployeeID != nil && *req.EmployeeID <= 0 {
		return nil, fmt.Errorf("%w: employeeID must be positive", ErrInvalidInput)
	}
	if len(req.Rules) == 0 {
		return nil, fmt.Errorf("%w: rules are required", ErrInvalidInput)
	}

	seen := make(map[int]bool)
	for _, r := range req.Rules {
		if seen[r.Weekday] {
			return nil, fmt.Errorf("%w: duplicate weekday %d", ErrInvalidInput, r.Weekday)
		}
		seen[r.Weekday] = true
	}

	resp := &models.WorkingHoursResponse{
		Rules: make([]models.WorkingHourRuleResponse, 0, len(req.Rules)),
	}

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		for _, input := range req.Rules {
			rule, err := input.ToDomainRule(req.SalonID, req.EmployeeID)
			if err != nil {
				s.logger.Warn("UpdateWorkingHours: invalid rule for weekday=%d: %v", input.Weekday, err)
				return fmt.Errorf("%w: weekday %d", ErrInvalidRule, input.Weekday)
			}

			saved, err := s.scheduleRepo.UpsertRule(txCtx, rule)
			if err != nil {
				if errors.Is(err, scheduleRepo.ErrInvalidRule) {
					s.logger.Warn("UpdateWorkingHours: rule rejected for weekday=%d: %v", input.Weekday, err)
					return fmt.Errorf("%w: weekday %d: %v", ErrInvalidRule, input.Weekday, err)
				}
				s.logger.Error("UpdateWorkingHours: repository error for weekday=%d: %v", input.Weekday, err)
				return fmt.Errorf("%w: UpdateWorkingHours - repository error: %v", ErrInternal, err)
			}

			resp.Rules = append(resp.Rules, models.FromDomainRule(saved))
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateWorkingHours: successfully updated %d rules for salon=%d", len(resp.Rules), req.SalonID)
	return resp, nil
}
