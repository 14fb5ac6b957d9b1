package domain

import "time"

// Employee represents a staff member of a salon
type Employee struct {
	ID        int64
	SalonID   int64
	Name      string
	Active    bool
	SortOrder int // Candidate order for auto-assignment, configured per salon
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Service represents a bookable service offered by a salon
type Service struct {
	ID              int64
	SalonID         int64
	Name            string
	DurationMinutes int
	Price           float64
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
