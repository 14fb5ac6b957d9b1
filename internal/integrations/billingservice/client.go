package billingservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с BillingService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента BillingService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetSalonStatus получает статус подписки салона
func (c *Client) GetSalonStatus(ctx context.Context, salonID int64) (*SalonStatus, error) {
	url := fmt.Sprintf("%s/internal/salons/%d/status", c.baseURL, salonID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: invalid salon ID format", ErrInvalidResponse)
	case http.StatusNotFound:
		return nil, ErrSalonNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var status SalonStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &status, nil
}

// GetSalonStatusWithGracefulDegradation получает статус подписки с graceful degradation
// При недоступности BillingService возвращает ErrServiceDegraded, что позволяет
// разрешить запись без проверки подписки вместо отказа клиенту
func (c *Client) GetSalonStatusWithGracefulDegradation(ctx context.Context, salonID int64) (*SalonStatus, error) {
	status, err := c.GetSalonStatus(ctx, salonID)
	if err != nil {
		// Незарегистрированный салон пробрасываем как бизнес-ошибку
		if err == ErrSalonNotFound {
			c.log.Warn("BillingService: salon id=%d is not registered", salonID)
			return nil, err
		}

		// Для всех остальных ошибок (недоступность сервиса, timeout, ошибки парсинга)
		// применяем graceful degradation
		c.log.Error("BillingService unavailable, applying graceful degradation for salon=%d: %v", salonID, err)
		return nil, fmt.Errorf("%w: salon=%d, error=%v", ErrServiceDegraded, salonID, err)
	}

	return status, nil
}
