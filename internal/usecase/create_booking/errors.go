package create_booking

import "errors"

var (
	// ErrSalonNotRegistered возвращается, когда салон не зарегистрирован в биллинге
	ErrSalonNotRegistered = errors.New("create_booking: salon is not registered")

	// ErrBookingNotAllowed возвращается, когда подписка салона не позволяет запись
	ErrBookingNotAllowed = errors.New("create_booking: booking is not allowed for this salon")

	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrEmployeeNotFound возвращается, когда сотрудник не найден или неактивен
	ErrEmployeeNotFound = errors.New("create_booking: employee not found")

	// ErrTimeInPast возвращается, когда начало записи уже прошло
	ErrTimeInPast = errors.New("create_booking: start time is in the past")

	// ErrSalonClosed возвращается, когда салон закрыт в указанный день
	ErrSalonClosed = errors.New("create_booking: salon is closed on this day")

	// ErrOutsideWorkingHours возвращается, когда интервал выходит за рабочие часы
	ErrOutsideWorkingHours = errors.New("create_booking: time is outside working hours")

	// ErrSlotNotAvailable возвращается, когда интервал занят, попадает на перерыв
	// или отсутствие сотрудника
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrNoEmployeeAvailable возвращается, когда в режиме автоподбора ни один
	// подходящий сотрудник не свободен
	ErrNoEmployeeAvailable = errors.New("create_booking: no employee available for this slot")

	// ErrWriteConflict возвращается при конкурентной записи на тот же интервал
	ErrWriteConflict = errors.New("create_booking: write conflict, please retry")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
