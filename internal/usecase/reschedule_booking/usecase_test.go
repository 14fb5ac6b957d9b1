package reschedule_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonflow/scheduling-service/internal/domain"
	bookingRepo "github.com/salonflow/scheduling-service/internal/infra/storage/booking"
	staffRepo "github.com/salonflow/scheduling-service/internal/infra/storage/staff"
	"github.com/salonflow/scheduling-service/pkg/ptr"
	"github.com/salonflow/scheduling-service/pkg/txmanager"
)

// monday is a fixed reference Monday, salon is open 10:00-20:00 that day.
var monday = time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type mockBookingRepo struct {
	bookings map[int64]*domain.Booking

	updatedID    int64
	updatedStart time.Time
	updatedEnd   time.Time
}

func (m *mockBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	booking, ok := m.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	b := *booking
	return &b, nil
}

func (m *mockBookingRepo) GetBySalonWithFilter(_ context.Context, filter domain.SalonBookingsFilter) ([]*domain.Booking, error) {
	var result []*domain.Booking
	for _, b := range m.bookings {
		if b.SalonID != filter.SalonID {
			continue
		}
		if filter.OnlyOccupying && !b.IsOccupying() {
			continue
		}
		if filter.ExcludeBooking != nil && b.ID == *filter.ExcludeBooking {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (m *mockBookingRepo) UpdateTime(_ context.Context, id int64, employeeID int64, start, end time.Time) error {
	m.updatedID = id
	m.updatedStart = start
	m.updatedEnd = end
	return nil
}

type mockScheduleRepo struct {
	salonRules []domain.WorkingHourRule
}

func (m *mockScheduleRepo) GetSalonRules(_ context.Context, _ int64) ([]domain.WorkingHourRule, error) {
	return m.salonRules, nil
}

func (m *mockScheduleRepo) GetEmployeeRules(_ context.Context, _ int64) (map[int64][]domain.WorkingHourRule, error) {
	return nil, nil
}

type mockTimeOffRepo struct {
	entries []*domain.TimeOff
}

func (m *mockTimeOffRepo) GetBySalonRange(_ context.Context, _ int64, _, _ time.Time) ([]*domain.TimeOff, error) {
	return m.entries, nil
}

type mockStaffRepo struct {
	employees map[int64]*domain.Employee
}

func (m *mockStaffRepo) GetEmployeeByID(_ context.Context, id int64) (*domain.Employee, error) {
	employee, ok := m.employees[id]
	if !ok {
		return nil, staffRepo.ErrEmployeeNotFound
	}
	return employee, nil
}

type mockCache struct {
	invalidated []time.Time
}

func (m *mockCache) InvalidateSalonDay(_ context.Context, _ int64, date time.Time) error {
	m.invalidated = append(m.invalidated, date)
	return nil
}

type mockTxManager struct {
	err error
}

func (m *mockTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.err != nil {
		return m.err
	}
	return fn(ctx)
}

type fixture struct {
	uc       *UseCase
	bookings *mockBookingRepo
	timeOff  *mockTimeOffRepo
	cache    *mockCache
	tx       *mockTxManager
}

func newFixture() *fixture {
	f := &fixture{
		bookings: &mockBookingRepo{
			bookings: map[int64]*domain.Booking{
				101: {
					ID:              101,
					SalonID:         1,
					EmployeeID:      1,
					ServiceID:       10,
					ClientID:        42,
					StartTime:       monday.Add(12 * time.Hour),
					EndTime:         monday.Add(13 * time.Hour),
					Status:          domain.StatusConfirmed,
					ServiceName:     "Стрижка",
					ServicePrice:    1500,
					DurationMinutes: 60,
				},
			},
		},
		timeOff: &mockTimeOffRepo{},
		cache:   &mockCache{},
		tx:      &mockTxManager{},
	}
	schedule := &mockScheduleRepo{
		salonRules: []domain.WorkingHourRule{
			{SalonID: 1, Weekday: time.Monday, OpenTime: "10:00", CloseTime: "20:00"},
			{SalonID: 1, Weekday: time.Tuesday, OpenTime: "10:00", CloseTime: "20:00"},
			{SalonID: 1, Weekday: time.Friday, IsClosed: true},
		},
	}
	staff := &mockStaffRepo{
		employees: map[int64]*domain.Employee{
			1: {ID: 1, SalonID: 1, Name: "Анна", Active: true},
			2: {ID: 2, SalonID: 1, Name: "Мария", Active: true},
			3: {ID: 3, SalonID: 2, Name: "Ольга", Active: true},
		},
	}
	f.uc = NewUseCase(f.bookings, schedule, f.timeOff, staff, f.cache, f.tx, nopLogger{}, 10)
	f.uc.timeProvider = fixedTime{now: monday.Add(9 * time.Hour)}
	return f
}

func TestExecuteMovesBookingWithinDay(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), &Request{
		BookingID:    101,
		NewStartTime: monday.Add(15 * time.Hour),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(101), resp.ID)
	assert.Equal(t, int64(1), resp.EmployeeID)
	assert.Equal(t, monday.Add(15*time.Hour), resp.StartTime)
	assert.Equal(t, monday.Add(16*time.Hour), resp.EndTime)
	assert.Equal(t, monday.Add(15*time.Hour), f.bookings.updatedStart)
	// Перенос внутри одного дня инвалидирует кеш один раз
	assert.Len(t, f.cache.invalidated, 1)
}

// Drag-and-drop reports the cursor position; the dragged start must land on
// the calendar grid before validation and persistence.
func TestExecuteSnapsDraggedStartToGrid(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), &Request{
		BookingID:    101,
		NewStartTime: monday.Add(14*time.Hour + 7*time.Minute),
	})

	require.NoError(t, err)
	assert.Equal(t, monday.Add(14*time.Hour+10*time.Minute), resp.StartTime)
	assert.Equal(t, monday.Add(15*time.Hour+10*time.Minute), resp.EndTime)
	assert.Equal(t, monday.Add(14*time.Hour+10*time.Minute), f.bookings.updatedStart)
}

func TestExecuteMovesBookingToAnotherDay(t *testing.T) {
	f := newFixture()
	tuesday := monday.AddDate(0, 0, 1)

	resp, err := f.uc.Execute(context.Background(), &Request{
		BookingID:    101,
		NewStartTime: tuesday.Add(12 * time.Hour),
	})

	require.NoError(t, err)
	assert.Equal(t, tuesday.Add(12*time.Hour), resp.StartTime)
	assert.Len(t, f.cache.invalidated, 2)
}

func TestExecuteSelfOverlapAllowed(t *testing.T) {
	// Сдвиг на 30 минут пересекается со старым интервалом самого бронирования,
	// оно исключено из занятых и не конфликтует само с собой
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), &Request{
		BookingID:    101,
		NewStartTime: monday.Add(12*time.Hour + 30*time.Minute),
	})

	require.NoError(t, err)
	assert.Equal(t, monday.Add(12*time.Hour+30*time.Minute), resp.StartTime)
}

func TestExecuteConflictWithOtherBooking(t *testing.T) {
	f := newFixture()
	f.bookings.bookings[102] = &domain.Booking{
		ID:         102,
		SalonID:    1,
		EmployeeID: 1,
		Status:     domain.StatusConfirmed,
		StartTime:  monday.Add(15 * time.Hour),
		EndTime:    monday.Add(16 * time.Hour),
	}

	_, err := f.uc.Execute(context.Background(), &Request{
		BookingID:    101,
		NewStartTime: monday.Add(15*time.Hour + 30*time.Minute),
	})

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecuteChangesEmployee(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), &Request{
		BookingID:     101,
		NewStartTime:  monday.Add(15 * time.Hour),
		NewEmployeeID: ptr.Ptr(int64(2)),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.EmployeeID)
}

func TestExecuteTargetEmployeeChecks(t *testing.T) {
	tests := []struct {
		name       string
		employeeID int64
	}{
		{"unknown employee", 99},
		{"employee of another salon", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			_, err := f.uc.Execute(context.Background(), &Request{
				BookingID:     101,
				NewStartTime:  monday.Add(15 * time.Hour),
				NewEmployeeID: ptr.Ptr(tt.employeeID),
			})

			assert.ErrorIs(t, err, ErrEmployeeNotFound)
		})
	}
}

func TestExecuteBookingNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), &Request{
		BookingID:    999,
		NewStartTime: monday.Add(15 * time.Hour),
	})

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecuteCannotReschedule(t *testing.T) {
	statuses := []domain.BookingStatus{
		domain.StatusCompleted,
		domain.StatusCancelledByClient,
		domain.StatusCancelledBySalon,
		domain.StatusNoShow,
	}

	for _, status := range statuses {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture()
			f.bookings.bookings[101].Status = status

			_, err := f.uc.Execute(context.Background(), &Request{
				BookingID:    101,
				NewStartTime: monday.Add(15 * time.Hour),
			})

			assert.ErrorIs(t, err, ErrCannotReschedule)
		})
	}
}

func TestExecuteTimeInPast(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), &Request{
		BookingID:    101,
		NewStartTime: monday.Add(8 * time.Hour),
	})

	assert.ErrorIs(t, err, ErrTimeInPast)
}

func TestExecuteClosedDayRejected(t *testing.T) {
	f := newFixture()
	friday := monday.AddDate(0, 0, 4)

	_, err := f.uc.Execute(context.Background(), &Request{
		BookingID:    101,
		NewStartTime: friday.Add(12 * time.Hour),
	})

	assert.ErrorIs(t, err, ErrSalonClosed)
}

func TestExecuteWriteConflict(t *testing.T) {
	f := newFixture()
	f.tx.err = txmanager.ErrSerializationFailure

	_, err := f.uc.Execute(context.Background(), &Request{
		BookingID:    101,
		NewStartTime: monday.Add(15 * time.Hour),
	})

	assert.ErrorIs(t, err, ErrWriteConflict)
	assert.Empty(t, f.cache.invalidated)
}

func TestExecuteValidation(t *testing.T) {
	tests := []struct {
		name string
		req  *Request
	}{
		{"non-positive booking id", &Request{BookingID: 0, NewStartTime: monday.Add(15 * time.Hour)}},
		{"zero start time", &Request{BookingID: 101}},
		{"non-positive employee id", &Request{BookingID: 101, NewStartTime: monday.Add(15 * time.Hour), NewEmployeeID: ptr.Ptr(int64(-1))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			_, err := f.uc.Execute(context.Background(), tt.req)

			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
