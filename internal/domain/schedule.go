package domain

import (
	"time"

	"github.com/salonflow/scheduling-service/pkg/types"
)

// RuleScope determines whether a working-hour rule applies to the whole
// salon or overrides the default for one employee.
type RuleScope string

const (
	ScopeSalon    RuleScope = "salon"
	ScopeEmployee RuleScope = "employee"
)

// WorkingHourRule is one row per (scope, weekday): the open/close window for
// that day, an optional break, or a closed marker. Employee rules override
// the salon default for their weekday; a missing employee bound falls back
// to the salon bound.
type WorkingHourRule struct {
	ID         int64
	SalonID    int64
	EmployeeID *int64 // nil = salon-wide default
	Weekday    time.Weekday
	IsClosed   bool
	OpenTime   types.TimeString
	CloseTime  types.TimeString
	BreakStart *types.TimeString // both present or both absent
	BreakEnd   *types.TimeString
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Scope returns the scope of the rule.
func (r *WorkingHourRule) Scope() RuleScope {
	if r.EmployeeID == nil {
		return ScopeSalon
	}
	return ScopeEmployee
}

// HasBreak returns true when the rule defines a break window.
func (r *WorkingHourRule) HasBreak() bool {
	return r.BreakStart != nil && r.BreakEnd != nil
}

// TimeOff is an absence interval. It occupies time with the same semantics
// as a pending/confirmed booking and is always included in availability
// checks. A nil EmployeeID closes the whole salon for the interval.
type TimeOff struct {
	ID         int64
	SalonID    int64
	EmployeeID *int64 // nil = salon-wide closure
	StartTime  time.Time
	EndTime    time.Time
	Reason     *string
	CreatedAt  time.Time
}

// ServiceEligibility is one (employee, service) allow-list pair.
type ServiceEligibility struct {
	SalonID    int64
	EmployeeID int64
	ServiceID  int64
}
