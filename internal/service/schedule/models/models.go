package models

import (
	"errors"
	"time"

	"github.com/salonflow/scheduling-service/internal/domain"
	"github.com/salonflow/scheduling-service/pkg/types"
)

var (
	// ErrInvalidRule возвращается при некорректном правиле
	ErrInvalidRule = errors.New("invalid working hour rule")
)

// Request модели

// RuleInput одно правило рабочих часов в запросе обновления
type RuleInput struct {
	Weekday    int     `json:"weekday"` // 0 = воскресенье .. 6 = суббота
	IsClosed   bool    `json:"isClosed"`
	OpenTime   string  `json:"openTime,omitempty"`  // "10:00"
	CloseTime  string  `json:"closeTime,omitempty"` // "20:00"
	BreakStart *string `json:"breakStart,omitempty"`
	BreakEnd   *string `json:"breakEnd,omitempty"`
}

// UpdateWorkingHoursRequest запрос на обновление правил рабочих часов.
// EmployeeID == nil обновляет дефолт салона, иначе переопределение сотрудника
type UpdateWorkingHoursRequest struct {
	SalonID    int64       `json:"salonId"`
	EmployeeID *int64      `json:"employeeId,omitempty"`
	Rules      []RuleInput `json:"rules"`
}

// ToDomainRule конвертирует правило запроса в domain модель
func (r *RuleInput) ToDomainRule(salonID int64, employeeID *int64) (*domain.WorkingHourRule, error) {
	if r.Weekday < 0 || r.Weekday > 6 {
		return nil, ErrInvalidRule
	}

	rule := &domain.WorkingHourRule{
		SalonID:    salonID,
		EmployeeID: employeeID,
		Weekday:    time.Weekday(r.Weekday),
		IsClosed:   r.IsClosed,
	}

	if r.IsClosed {
		return rule, nil
	}

	open, err := types.NewTimeStringFromString(r.OpenTime)
	if err != nil {
		return nil, ErrInvalidRule
	}
	rule.OpenTime = open

	closeTime, err := types.NewTimeStringFromString(r.CloseTime)
	if err != nil {
		return nil, ErrInvalidRule
	}
	rule.CloseTime = closeTime

	if r.BreakStart != nil {
		bs, err := types.NewTimeStringFromString(*r.BreakStart)
		if err != nil {
			return nil, ErrInvalidRule
		}
		rule.BreakStart = &bs
	}
	if r.BreakEnd != nil {
		be, err := types.NewTimeStringFromString(*r.BreakEnd)
		if err != nil {
			return nil, ErrInvalidRule
		}
		rule.BreakEnd = &be
	}

	return rule, nil
}

// Response модели

// WorkingHourRuleResponse правило рабочих часов в ответе
type WorkingHourRuleResponse struct {
	ID         int64   `json:"id"`
	SalonID    int64   `json:"salonId"`
	EmployeeID *int64  `json:"employeeId,omitempty"`
	Weekday    int     `json:"weekday"`
	IsClosed   bool    `json:"isClosed"`
	OpenTime   string  `json:"openTime,omitempty"`
	CloseTime  string  `json:"closeTime,omitempty"`
	BreakStart *string `json:"breakStart,omitempty"`
	BreakEnd   *string `json:"breakEnd,omitempty"`
}

// WorkingHoursResponse ответ со списком правил
type WorkingHoursResponse struct {
	Rules []WorkingHourRuleResponse `json:"rules"`
}

// FromDomainRule конвертирует domain модель в DTO
func FromDomainRule(rule *domain.WorkingHourRule) WorkingHourRuleResponse {
	resp := WorkingHourRuleResponse{
		ID:         rule.ID,
		SalonID:    rule.SalonID,
		EmployeeID: rule.EmployeeID,
		Weekday:    int(rule.Weekday),
		IsClosed:   rule.IsClosed,
	}

	if !rule.OpenTime.IsZero() {
		resp.OpenTime = rule.OpenTime.String()
	}
	if !rule.CloseTime.IsZero() {
		resp.CloseTime = rule.CloseTime.String()
	}
	if rule.BreakStart != nil {
		bs := rule.BreakStart.String()
		resp.BreakStart = &bs
	}
	if rule.BreakEnd != nil {
		be := rule.BreakEnd.String()
		resp.BreakEnd = &be
	}

	return resp
}

// FromDomainRuleList конвертирует список domain моделей в DTO
func FromDomainRuleList(rules []domain.WorkingHourRule) *WorkingHoursResponse {
	resp := &WorkingHoursResponse{
		Rules: make([]WorkingHourRuleResponse, 0, len(rules)),
	}
	for i := range rules {
		resp.Rules = append(resp.Rules, FromDomainRule(&rules[i]))
	}
	return resp
}
