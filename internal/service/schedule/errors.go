package schedule

import "errors"

var (
	// ErrInvalidRule возвращается при некорректном правиле рабочих часов
	ErrInvalidRule = errors.New("invalid working hour rule")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
