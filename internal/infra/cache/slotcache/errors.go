package slotcache

import "errors"

var (
	// ErrCacheMiss возвращается, когда ключ отсутствует в кеше
	ErrCacheMiss = errors.New("slotcache: cache miss")

	// ErrInternal возвращается при ошибках работы с Redis
	ErrInternal = errors.New("slotcache: internal error")
)
