package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonflow/scheduling-service/internal/domain"
	"github.com/salonflow/scheduling-service/internal/infra/cache/slotcache"
	staffRepo "github.com/salonflow/scheduling-service/internal/infra/storage/staff"
	"github.com/salonflow/scheduling-service/pkg/ptr"
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
	bookings []*domain.Booking
}

func (m *mockBookingRepo) GetBySalonWithFilter(_ context.Context, _ domain.SalonBookingsFilter) ([]*domain.Booking, error) {
	return m.bookings, nil
}

type mockScheduleRepo struct {
	salonRules    []domain.WorkingHourRule
	employeeRules map[int64][]domain.WorkingHourRule
}

func (m *mockScheduleRepo) GetSalonRules(_ context.Context, _ int64) ([]domain.WorkingHourRule, error) {
	return m.salonRules, nil
}

func (m *mockScheduleRepo) GetEmployeeRules(_ context.Context, _ int64) (map[int64][]domain.WorkingHourRule, error) {
	return m.employeeRules, nil
}

type mockTimeOffRepo struct {
	entries []*domain.TimeOff
}

func (m *mockTimeOffRepo) GetBySalonRange(_ context.Context, _ int64, _, _ time.Time) ([]*domain.TimeOff, error) {
	return m.entries, nil
}

type mockStaffRepo struct {
	employees   []*domain.Employee
	services    map[int64]*domain.Service
	eligibility []domain.ServiceEligibility
}

func (m *mockStaffRepo) GetActiveEmployees(_ context.Context, salonID int64) ([]*domain.Employee, error) {
	var active []*domain.Employee
	for _, e := range m.employees {
		if e.SalonID == salonID && e.Active {
			active = append(active, e)
		}
	}
	return active, nil
}

func (m *mockStaffRepo) GetEmployeeByID(_ context.Context, id int64) (*domain.Employee, error) {
	for _, e := range m.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, staffRepo.ErrEmployeeNotFound
}

func (m *mockStaffRepo) GetServiceByID(_ context.Context, id int64) (*domain.Service, error) {
	service, ok := m.services[id]
	if !ok {
		return nil, staffRepo.ErrServiceNotFound
	}
	return service, nil
}

func (m *mockStaffRepo) GetEligibility(_ context.Context, _ int64) ([]domain.ServiceEligibility, error) {
	return m.eligibility, nil
}

type mockCache struct {
	cached   []slotcache.CachedSlot
	hasEntry bool
	setCalls int
	lastSet  []slotcache.CachedSlot
}

func (m *mockCache) Get(_ context.Context, _, _, _ int64, _ time.Time) ([]slotcache.CachedSlot, error) {
	if !m.hasEntry {
		return nil, slotcache.ErrCacheMiss
	}
	return m.cached, nil
}

func (m *mockCache) Set(_ context.Context, _, _, _ int64, _ time.Time, slots []slotcache.CachedSlot) error {
	m.setCalls++
	m.lastSet = slots
	return nil
}

type fixture struct {
	uc       *UseCase
	bookings *mockBookingRepo
	timeOff  *mockTimeOffRepo
	staff    *mockStaffRepo
	cache    *mockCache
}

func newFixture() *fixture {
	f := &fixture{
		bookings: &mockBookingRepo{},
		timeOff:  &mockTimeOffRepo{},
		staff: &mockStaffRepo{
			employees: []*domain.Employee{
				{ID: 1, SalonID: 1, Name: "Анна", Active: true, SortOrder: 1},
				{ID: 2, SalonID: 1, Name: "Мария", Active: true, SortOrder: 2},
			},
			services: map[int64]*domain.Service{
				10: {ID: 10, SalonID: 1, Name: "Стрижка", DurationMinutes: 60, Price: 1500, Active: true},
			},
		},
		cache: &mockCache{},
	}
	schedule := &mockScheduleRepo{
		salonRules: []domain.WorkingHourRule{
			{SalonID: 1, Weekday: time.Monday, OpenTime: "10:00", CloseTime: "20:00"},
			{SalonID: 1, Weekday: time.Friday, IsClosed: true},
		},
	}
	f.uc = NewUseCase(schedule, f.bookings, f.timeOff, f.staff, f.cache, nopLogger{}, 15)
	f.uc.timeProvider = fixedTime{now: monday.Add(9 * time.Hour)}
	return f
}

func TestExecuteFullDayGrid(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), &Request{SalonID: 1, ServiceID: 10, Date: monday})

	require.NoError(t, err)
	// 10:00 .. 19:00 с шагом 15 минут, последний слот заканчивается ровно в 20:00
	require.Len(t, resp.Slots, 37)
	assert.Equal(t, monday.Add(10*time.Hour), resp.Slots[0].Start)
	assert.Equal(t, monday.Add(11*time.Hour), resp.Slots[0].End)
	assert.Equal(t, monday.Add(19*time.Hour), resp.Slots[36].Start)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, 1, f.cache.setCalls)
	assert.Len(t, f.cache.lastSet, 37)
}

func TestExecuteExplicitEmployeeExcludesBusy(t *testing.T) {
	f := newFixture()
	f.bookings.bookings = []*domain.Booking{
		{ID: 50, SalonID: 1, EmployeeID: 1, Status: domain.StatusConfirmed,
			StartTime: monday.Add(12 * time.Hour), EndTime: monday.Add(13 * time.Hour)},
	}

	resp, err := f.uc.Execute(context.Background(), &Request{
		SalonID:    1,
		ServiceID:  10,
		EmployeeID: ptr.Ptr(int64(1)),
		Date:       monday,
	})

	require.NoError(t, err)
	// Выпадают старты 11:15..12:45 (пересечение с занятым 12:00-13:00)
	assert.Len(t, resp.Slots, 30)
	for _, s := range resp.Slots {
		assert.False(t, s.Start.After(monday.Add(11*time.Hour)) && s.Start.Before(monday.Add(13*time.Hour)),
			"slot %s overlaps busy interval", s.Start.Format(domain.TimeFormat))
	}
}

func TestExecuteUnionAcrossCandidates(t *testing.T) {
	// Сотрудник 1 занят, сотрудник 2 свободен: объединенная выдача полная
	f := newFixture()
	f.bookings.bookings = []*domain.Booking{
		{ID: 50, SalonID: 1, EmployeeID: 1, Status: domain.StatusConfirmed,
			StartTime: monday.Add(12 * time.Hour), EndTime: monday.Add(13 * time.Hour)},
	}

	resp, err := f.uc.Execute(context.Background(), &Request{SalonID: 1, ServiceID: 10, Date: monday})

	require.NoError(t, err)
	assert.Len(t, resp.Slots, 37)
}

func TestExecuteCacheHitFiltersPastSlots(t *testing.T) {
	f := newFixture()
	f.cache.hasEntry = true
	f.cache.cached = []slotcache.CachedSlot{
		{Start: monday.Add(9 * time.Hour), End: monday.Add(10 * time.Hour)},
		{Start: monday.Add(10 * time.Hour), End: monday.Add(11 * time.Hour)},
	}
	// Порог анонса now + step: слот на 9:00 уже не предлагается
	f.uc.timeProvider = fixedTime{now: monday.Add(8*time.Hour + 50*time.Minute)}

	resp, err := f.uc.Execute(context.Background(), &Request{SalonID: 1, ServiceID: 10, Date: monday})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, monday.Add(10*time.Hour), resp.Slots[0].Start)
	assert.Equal(t, 0, f.cache.setCalls)
}

func TestExecuteClosedDayEmptyResult(t *testing.T) {
	f := newFixture()
	friday := monday.AddDate(0, 0, 4)

	resp, err := f.uc.Execute(context.Background(), &Request{SalonID: 1, ServiceID: 10, Date: friday})

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecuteLookAheadCutsSlots(t *testing.T) {
	f := newFixture()
	// В 18:30 порог анонса 18:45: остаются только 18:45 и 19:00
	f.uc.timeProvider = fixedTime{now: monday.Add(18*time.Hour + 30*time.Minute)}

	resp, err := f.uc.Execute(context.Background(), &Request{SalonID: 1, ServiceID: 10, Date: monday})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, monday.Add(18*time.Hour+45*time.Minute), resp.Slots[0].Start)
	assert.Equal(t, monday.Add(19*time.Hour), resp.Slots[1].Start)
}

func TestExecuteServiceNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), &Request{SalonID: 1, ServiceID: 99, Date: monday})

	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecuteEmployeeNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), &Request{
		SalonID:    1,
		ServiceID:  10,
		EmployeeID: ptr.Ptr(int64(99)),
		Date:       monday,
	})

	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestExecuteValidation(t *testing.T) {
	tests := []struct {
		name string
		req  *Request
	}{
		{"non-positive salon", &Request{SalonID: 0, ServiceID: 10, Date: monday}},
		{"non-positive service", &Request{SalonID: 1, ServiceID: 0, Date: monday}},
		{"non-positive employee", &Request{SalonID: 1, ServiceID: 10, EmployeeID: ptr.Ptr(int64(-1)), Date: monday}},
		{"zero date", &Request{SalonID: 1, ServiceID: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			_, err := f.uc.Execute(context.Background(), tt.req)

			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
