package billingservice

import "errors"

var (
	// ErrSalonNotFound возвращается, когда салон не зарегистрирован в биллинге
	ErrSalonNotFound = errors.New("billingservice client: salon not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("billingservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("billingservice client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Указывает, что BillingService недоступен и запись разрешается без проверки подписки
	ErrServiceDegraded = errors.New("billingservice unavailable: graceful degradation applied")
)
