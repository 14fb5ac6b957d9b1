package billingservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func TestGetSalonStatusOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/internal/salons/1/status", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"salon_id":1,"plan":"pro","active":true,"booking_allowed":true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nopLogger{})

	status, err := client.GetSalonStatus(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, int64(1), status.SalonID)
	assert.Equal(t, "pro", status.Plan)
	assert.True(t, status.BookingAllowed)
}

func TestGetSalonStatusNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nopLogger{})

	_, err := client.GetSalonStatus(context.Background(), 1)

	assert.ErrorIs(t, err, ErrSalonNotFound)
}

func TestGetSalonStatusUnexpectedCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nopLogger{})

	_, err := client.GetSalonStatus(context.Background(), 1)

	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestGracefulDegradationKeepsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nopLogger{})

	_, err := client.GetSalonStatusWithGracefulDegradation(context.Background(), 1)

	assert.ErrorIs(t, err, ErrSalonNotFound)
}

func TestGracefulDegradationOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nopLogger{})

	_, err := client.GetSalonStatusWithGracefulDegradation(context.Background(), 1)

	assert.ErrorIs(t, err, ErrServiceDegraded)
}

func TestGracefulDegradationOnConnectionRefused(t *testing.T) {
	// Закрытый сервер имитирует недоступный BillingService
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, time.Second, nopLogger{})

	_, err := client.GetSalonStatusWithGracefulDegradation(context.Background(), 1)

	assert.ErrorIs(t, err, ErrServiceDegraded)
}
