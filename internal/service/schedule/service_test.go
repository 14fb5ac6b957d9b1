package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonflow/scheduling-service/internal/domain"
	scheduleRepo "github.com/salonflow/scheduling-service/internal/infra/storage/schedule"
	"github.com/salonflow/scheduling-service/internal/service/schedule/models"
	"github.com/salonflow/scheduling-service/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type mockScheduleRepo struct {
	salonRules    []domain.WorkingHourRule
	employeeRules []domain.WorkingHourRule

	upserted  []*domain.WorkingHourRule
	upsertErr error
}

func (m *mockScheduleRepo) GetSalonRules(_ context.Context, _ int64) ([]domain.WorkingHourRule, error) {
	return m.salonRules, nil
}

func (m *mockScheduleRepo) GetRulesForEmployee(_ context.Context, _, _ int64) ([]domain.WorkingHourRule, error) {
	return m.employeeRules, nil
}

func (m *mockScheduleRepo) UpsertRule(_ context.Context, rule *domain.WorkingHourRule) (*domain.WorkingHourRule, error) {
	if m.upsertErr != nil {
		return nil, m.upsertErr
	}
	saved := *rule
	saved.ID = int64(len(m.upserted) + 1)
	m.upserted = append(m.upserted, &saved)
	return &saved, nil
}

type mockTxManager struct {
	calls int
}

func (m *mockTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

func newService() (*Service, *mockScheduleRepo, *mockTxManager) {
	repo := &mockScheduleRepo{
		salonRules: []domain.WorkingHourRule{
			{ID: 1, SalonID: 1, Weekday: time.Monday, OpenTime: "10:00", CloseTime: "20:00"},
			{ID: 2, SalonID: 1, Weekday: time.Friday, IsClosed: true},
		},
		employeeRules: []domain.WorkingHourRule{
			{ID: 3, SalonID: 1, EmployeeID: ptr.Ptr(int64(2)), Weekday: time.Monday, OpenTime: "12:00", CloseTime: "18:00"},
		},
	}
	tx := &mockTxManager{}
	return NewService(repo, tx, nopLogger{}), repo, tx
}

func TestGetWorkingHoursSalonDefault(t *testing.T) {
	svc, _, _ := newService()

	resp, err := svc.GetWorkingHours(context.Background(), 1, nil)

	require.NoError(t, err)
	require.Len(t, resp.Rules, 2)
	assert.Equal(t, "10:00", resp.Rules[0].OpenTime)
	assert.True(t, resp.Rules[1].IsClosed)
	assert.Empty(t, resp.Rules[1].OpenTime)
}

func TestGetWorkingHoursEmployeeOverrides(t *testing.T) {
	svc, _, _ := newService()

	resp, err := svc.GetWorkingHours(context.Background(), 1, ptr.Ptr(int64(2)))

	require.NoError(t, err)
	require.Len(t, resp.Rules, 1)
	assert.Equal(t, "12:00", resp.Rules[0].OpenTime)
	require.NotNil(t, resp.Rules[0].EmployeeID)
	assert.Equal(t, int64(2), *resp.Rules[0].EmployeeID)
}

func TestGetWorkingHoursInvalidSalon(t *testing.T) {
	svc, _, _ := newService()

	_, err := svc.GetWorkingHours(context.Background(), 0, nil)

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateWorkingHoursUpsertsWeek(t *testing.T) {
	svc, repo, tx := newService()

	resp, err := svc.UpdateWorkingHours(context.Background(), &models.UpdateWorkingHoursRequest{
		SalonID: 1,
		Rules: []models.RuleInput{
			{Weekday: 1, OpenTime: "10:00", CloseTime: "20:00"},
			{Weekday: 2, OpenTime: "10:00", CloseTime: "20:00", BreakStart: ptr.Ptr("14:00"), BreakEnd: ptr.Ptr("15:00")},
			{Weekday: 5, IsClosed: true},
		},
	})

	require.NoError(t, err)
	require.Len(t, resp.Rules, 3)
	require.Len(t, repo.upserted, 3)
	// Вся неделя применяется в одной транзакции
	assert.Equal(t, 1, tx.calls)

	assert.Equal(t, time.Tuesday, repo.upserted[1].Weekday)
	require.NotNil(t, repo.upserted[1].BreakStart)
	assert.Equal(t, "14:00", repo.upserted[1].BreakStart.String())
	assert.True(t, repo.upserted[2].IsClosed)
}

func TestUpdateWorkingHoursEmployeeOverride(t *testing.T) {
	svc, repo, _ := newService()

	_, err := svc.UpdateWorkingHours(context.Background(), &models.UpdateWorkingHoursRequest{
		SalonID:    1,
		EmployeeID: ptr.Ptr(int64(2)),
		Rules: []models.RuleInput{
			{Weekday: 1, OpenTime: "12:00", CloseTime: "18:00"},
		},
	})

	require.NoError(t, err)
	require.Len(t, repo.upserted, 1)
	require.NotNil(t, repo.upserted[0].EmployeeID)
	assert.Equal(t, int64(2), *repo.upserted[0].EmployeeID)
}

func TestUpdateWorkingHoursDuplicateWeekday(t *testing.T) {
	svc, _, _ := newService()

	_, err := svc.UpdateWorkingHours(context.Background(), &models.UpdateWorkingHoursRequest{
		SalonID: 1,
		Rules: []models.RuleInput{
			{Weekday: 1, OpenTime: "10:00", CloseTime: "20:00"},
			{Weekday: 1, OpenTime: "11:00", CloseTime: "19:00"},
		},
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateWorkingHoursInvalidRule(t *testing.T) {
	tests := []struct {
		name string
		rule models.RuleInput
	}{
		{"weekday out of range", models.RuleInput{Weekday: 7, OpenTime: "10:00", CloseTime: "20:00"}},
		{"bad open time", models.RuleInput{Weekday: 1, OpenTime: "25:00", CloseTime: "20:00"}},
		{"missing close time", models.RuleInput{Weekday: 1, OpenTime: "10:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newService()

			_, err := svc.UpdateWorkingHours(context.Background(), &models.UpdateWorkingHoursRequest{
				SalonID: 1,
				Rules:   []models.RuleInput{tt.rule},
			})

			assert.ErrorIs(t, err, ErrInvalidRule)
		})
	}
}

func TestUpdateWorkingHoursRepositoryReject(t *testing.T) {
	svc, repo, _ := newService()
	repo.upsertErr = scheduleRepo.ErrInvalidRule

	_, err := svc.UpdateWorkingHours(context.Background(), &models.UpdateWorkingHoursRequest{
		SalonID: 1,
		Rules: []models.RuleInput{
			{Weekday: 1, OpenTime: "10:00", CloseTime: "20:00"},
		},
	})

	assert.ErrorIs(t, err, ErrInvalidRule)
}

func TestUpdateWorkingHoursValidation(t *testing.T) {
	tests := []struct {
		name string
		req  *models.UpdateWorkingHoursRequest
	}{
		{"non-positive salon", &models.UpdateWorkingHoursRequest{SalonID: 0, Rules: []models.RuleInput{{Weekday: 1, IsClosed: true}}}},
		{"non-positive employee", &models.UpdateWorkingHoursRequest{SalonID: 1, EmployeeID: ptr.Ptr(int64(0)), Rules: []models.RuleInput{{Weekday: 1, IsClosed: true}}}},
		{"empty rules", &models.UpdateWorkingHoursRequest{SalonID: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newService()

			_, err := svc.UpdateWorkingHours(context.Background(), tt.req)

			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
