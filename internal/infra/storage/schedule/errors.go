package schedule

import "errors"

var (
	// ErrRuleNotFound возвращается, когда правило рабочих часов не найдено
	ErrRuleNotFound = errors.New("schedule.repository: working hour rule not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")

	// ErrInvalidRule возвращается при некорректном правиле (close <= open,
	// неполный перерыв)
	ErrInvalidRule = errors.New("schedule.repository: invalid working hour rule")
)
