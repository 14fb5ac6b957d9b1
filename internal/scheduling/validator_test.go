package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/salonflow/scheduling-service/internal/domain"
	"github.com/salonflow/scheduling-service/pkg/ptr"
	"github.com/salonflow/scheduling-service/pkg/types"
)

func baseContext() *Context {
	return &Context{SalonRules: defaultSalonRules()}
}

func candidate(employeeID int64, startHour, startMin, durationMin int) Candidate {
	start := monday.Add(time.Duration(startHour)*time.Hour + time.Duration(startMin)*time.Minute)
	return Candidate{
		EmployeeID: employeeID,
		Start:      start,
		End:        start.Add(time.Duration(durationMin) * time.Minute),
	}
}

func TestValidateGuardOrder(t *testing.T) {
	friday := monday.AddDate(0, 0, 4)

	tests := []struct {
		name      string
		candidate Candidate
		ctx       *Context
		reason    Reason
	}{
		{
			name:      "missing employee",
			candidate: Candidate{Start: monday.Add(12 * time.Hour), End: monday.Add(13 * time.Hour)},
			ctx:       baseContext(),
			reason:    ReasonMissingEmployee,
		},
		{
			name:      "start after end",
			candidate: Candidate{EmployeeID: 7, Start: monday.Add(13 * time.Hour), End: monday.Add(12 * time.Hour)},
			ctx:       baseContext(),
			reason:    ReasonInvalidRange,
		},
		{
			name:      "zero timestamps",
			candidate: Candidate{EmployeeID: 7},
			ctx:       baseContext(),
			reason:    ReasonInvalidRange,
		},
		{
			name:      "closed day",
			candidate: Candidate{EmployeeID: 7, Start: friday.Add(12 * time.Hour), End: friday.Add(13 * time.Hour)},
			ctx:       baseContext(),
			reason:    ReasonClosedDay,
		},
		{
			name:      "before opening",
			candidate: candidate(7, 9, 0, 60),
			ctx:       baseContext(),
			reason:    ReasonOutsideWorkingHours,
		},
		{
			name:      "past closing",
			candidate: candidate(7, 19, 30, 60),
			ctx:       baseContext(),
			reason:    ReasonOutsideWorkingHours,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Validate(tt.candidate, tt.ctx)
			assert.False(t, decision.OK)
			assert.Equal(t, tt.reason, decision.Reason)
		})
	}
}

func TestValidateAcceptsFreeSlot(t *testing.T) {
	decision := Validate(candidate(7, 12, 0, 45), baseContext())
	assert.True(t, decision.OK)
	assert.Empty(t, decision.Reason)
}

// Scenario: one existing booking 12:00-12:45 for the employee. Requesting
// the same interval is rejected; requesting 12:45 (back to back) passes.
func TestValidateOverlapsExistingBooking(t *testing.T) {
	ctx := baseContext()
	ctx.Busy = []BusyInterval{
		{BookingID: 100, EmployeeID: 7, Start: monday.Add(12 * time.Hour), End: monday.Add(12*time.Hour + 45*time.Minute)},
	}

	decision := Validate(candidate(7, 12, 0, 45), ctx)
	assert.False(t, decision.OK)
	assert.Equal(t, ReasonOverlapsExistingBooking, decision.Reason)

	decision = Validate(candidate(7, 12, 45, 45), ctx)
	assert.True(t, decision.OK)

	// Other employees are unaffected
	decision = Validate(candidate(9, 12, 0, 45), ctx)
	assert.True(t, decision.OK)
}

// Scenario: break 14:00-14:30. A 30-minute candidate at 13:45 crosses into
// the break; 14:30 starts exactly when the break ends and passes.
func TestValidateInsideBreak(t *testing.T) {
	rule := salonRule(time.Monday, "10:00", "20:00")
	rule.BreakStart = ptr.Ptr(types.TimeString("14:00"))
	rule.BreakEnd = ptr.Ptr(types.TimeString("14:30"))
	ctx := &Context{SalonRules: []domain.WorkingHourRule{rule}}

	decision := Validate(candidate(7, 13, 45, 30), ctx)
	assert.False(t, decision.OK)
	assert.Equal(t, ReasonInsideBreak, decision.Reason)

	decision = Validate(candidate(7, 14, 30, 30), ctx)
	assert.True(t, decision.OK)

	decision = Validate(candidate(7, 13, 30, 30), ctx)
	assert.True(t, decision.OK, "candidate ending exactly at break start must pass")
}

func TestValidateOnTimeOff(t *testing.T) {
	ctx := baseContext()
	ctx.TimeOff = []TimeOffInterval{
		{EmployeeID: 7, Start: monday.Add(12 * time.Hour), End: monday.Add(18 * time.Hour)},
	}

	decision := Validate(candidate(7, 13, 0, 45), ctx)
	assert.False(t, decision.OK)
	assert.Equal(t, ReasonOnTimeOff, decision.Reason)

	decision = Validate(candidate(9, 13, 0, 45), ctx)
	assert.True(t, decision.OK, "time off of one employee must not affect another")
}

// A salon-wide closure (EmployeeID == 0) applies to every employee.
func TestValidateSalonWideClosure(t *testing.T) {
	ctx := baseContext()
	ctx.TimeOff = []TimeOffInterval{
		{EmployeeID: 0, Start: monday.Add(12 * time.Hour), End: monday.Add(14 * time.Hour)},
	}

	for _, employeeID := range []int64{7, 9} {
		decision := Validate(candidate(employeeID, 13, 0, 45), ctx)
		assert.False(t, decision.OK)
		assert.Equal(t, ReasonOnTimeOff, decision.Reason)
	}

	decision := Validate(candidate(7, 14, 0, 45), ctx)
	assert.True(t, decision.OK, "interval after the closure must pass")
}

// No self-conflict on edit: a candidate equal to the booking's own interval,
// with that booking excluded, must never be rejected as overlapping.
func TestValidateExcludesOwnBookingOnEdit(t *testing.T) {
	ctx := baseContext()
	ctx.Busy = []BusyInterval{
		{BookingID: 100, EmployeeID: 7, Start: monday.Add(10 * time.Hour), End: monday.Add(10*time.Hour + 45*time.Minute)},
		{BookingID: 200, EmployeeID: 7, Start: monday.Add(12 * time.Hour), End: monday.Add(12*time.Hour + 45*time.Minute)},
	}
	ctx.ExcludeBookingID = ptr.Ptr(int64(100))

	// Same interval as booking 100 itself
	decision := Validate(candidate(7, 10, 0, 45), ctx)
	assert.True(t, decision.OK)

	// Drag-move to a free hour
	decision = Validate(candidate(7, 11, 0, 45), ctx)
	assert.True(t, decision.OK)

	// Drag-move onto another booking still rejects
	decision = Validate(candidate(7, 12, 15, 45), ctx)
	assert.False(t, decision.OK)
	assert.Equal(t, ReasonOverlapsExistingBooking, decision.Reason)
}

func TestValidateIdempotent(t *testing.T) {
	ctx := baseContext()
	ctx.Busy = []BusyInterval{
		{BookingID: 1, EmployeeID: 7, Start: monday.Add(12 * time.Hour), End: monday.Add(13 * time.Hour)},
	}
	c := candidate(7, 12, 30, 45)

	first := Validate(c, ctx)
	second := Validate(c, ctx)

	assert.Equal(t, first, second)
}
