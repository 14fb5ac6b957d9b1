package billingservice

// SalonStatus модель статуса подписки салона из BillingService
type SalonStatus struct {
	SalonID        int64  `json:"salon_id"`
	Plan           string `json:"plan"`
	Active         bool   `json:"active"`
	BookingAllowed bool   `json:"booking_allowed"`
}

// ErrorResponse модель ошибки от BillingService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
