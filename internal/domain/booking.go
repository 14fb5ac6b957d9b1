package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending           BookingStatus = "pending"
	StatusConfirmed         BookingStatus = "confirmed"
	StatusCompleted         BookingStatus = "completed"
	StatusCancelledByClient BookingStatus = "cancelled_by_client"
	StatusCancelledBySalon  BookingStatus = "cancelled_by_salon"
	StatusNoShow            BookingStatus = "no_show"
)

// Booking represents an appointment in the system
type Booking struct {
	ID         int64
	SalonID    int64
	EmployeeID int64
	ServiceID  int64
	ClientID   int64
	StartTime  time.Time
	EndTime    time.Time
	Status     BookingStatus

	// Denormalized data for history
	ServiceName     string
	ServicePrice    float64
	DurationMinutes int
	ClientName      *string
	Notes           *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOccupying returns true if the status occupies the employee's time.
// Cancelled and no-show bookings never occupy time.
func (s BookingStatus) IsOccupying() bool {
	return s == StatusPending || s == StatusConfirmed
}

// IsOccupying returns true if the booking occupies the employee's time
func (b *Booking) IsOccupying() bool {
	return b.Status.IsOccupying()
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeRescheduled returns true if the booking can be moved to another time
func (b *Booking) CanBeRescheduled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelledByClient || b.Status == StatusCancelledBySalon
}

// SalonBookingsFilter фильтр для получения бронирований салона
type SalonBookingsFilter struct {
	SalonID        int64          // Обязательный параметр
	EmployeeID     *int64         // Фильтр по сотруднику (опционально)
	RangeStart     *time.Time     // Начало периода (опционально)
	RangeEnd       *time.Time     // Конец периода (опционально)
	Status         *BookingStatus // Фильтр по статусу (опционально)
	OnlyOccupying  bool           // Только занимающие время бронирования (pending, confirmed)
	ExcludeBooking *int64         // Исключить бронирование по ID (для редактирования)
}
