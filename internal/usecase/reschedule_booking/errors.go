package reschedule_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("reschedule_booking: booking not found")

	// ErrCannotReschedule возвращается, когда бронирование нельзя перенести
	// (завершено, отменено или no-show)
	ErrCannotReschedule = errors.New("reschedule_booking: booking cannot be rescheduled")

	// ErrEmployeeNotFound возвращается, когда целевой сотрудник не найден или неактивен
	ErrEmployeeNotFound = errors.New("reschedule_booking: employee not found")

	// ErrTimeInPast возвращается, когда новое начало записи уже прошло
	ErrTimeInPast = errors.New("reschedule_booking: start time is in the past")

	// ErrSalonClosed возвращается, когда салон закрыт в указанный день
	ErrSalonClosed = errors.New("reschedule_booking: salon is closed on this day")

	// ErrOutsideWorkingHours возвращается, когда интервал выходит за рабочие часы
	ErrOutsideWorkingHours = errors.New("reschedule_booking: time is outside working hours")

	// ErrSlotNotAvailable возвращается, когда целевой интервал занят,
	// попадает на перерыв или отсутствие сотрудника
	ErrSlotNotAvailable = errors.New("reschedule_booking: slot is not available")

	// ErrWriteConflict возвращается при конкурентной записи на тот же интервал
	ErrWriteConflict = errors.New("reschedule_booking: write conflict, please retry")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_booking: internal error")
)
