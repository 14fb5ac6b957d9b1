// Package slotcache кеширует рассчитанные свободные слоты в Redis.
// Кеш опционален: при выключенном Redis все операции деградируют в no-op,
// и выдача слотов считается заново на каждый запрос.
package slotcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedSlot сериализованное представление слота в кеше
type CachedSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Cache кеш свободных слотов поверх Redis
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New создает кеш слотов. Клиент может быть nil, тогда кеш отключен
func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Enabled сообщает, подключен ли кеш к Redis
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Get читает слоты по ключу выдачи. ErrCacheMiss при отсутствии ключа
func (c *Cache) Get(ctx context.Context, salonID, employeeID, serviceID int64, date time.Time) ([]CachedSlot, error) {
	if !c.Enabled() {
		return nil, ErrCacheMiss
	}

	data, err := c.client.Get(ctx, slotKey(salonID, employeeID, serviceID, date)).Result()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get: %v", ErrInternal, err)
	}

	var slots []CachedSlot
	if err := json.Unmarshal([]byte(data), &slots); err != nil {
		return nil, fmt.Errorf("%w: unmarshal: %v", ErrInternal, err)
	}

	return slots, nil
}

// Set сохраняет слоты выдачи с TTL
func (c *Cache) Set(ctx context.Context, salonID, employeeID, serviceID int64, date time.Time, slots []CachedSlot) error {
	if !c.Enabled() {
		return nil
	}

	data, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", ErrInternal, err)
	}

	if err := c.client.Set(ctx, slotKey(salonID, employeeID, serviceID, date), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: set: %v", ErrInternal, err)
	}

	return nil
}

// InvalidateSalonDay удаляет все закешированные выдачи салона на дату.
// Вызывается после создания, переноса и отмены бронирования
func (c *Cache) InvalidateSalonDay(ctx context.Context, salonID int64, date time.Time) error {
	if !c.Enabled() {
		return nil
	}

	pattern := fmt.Sprintf("slots:%d:*:*:%s", salonID, date.Format("2006-01-02"))

	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	keys := make([]string, 0)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("%w: scan: %v", ErrInternal, err)
	}

	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: del: %v", ErrInternal, err)
	}

	return nil
}

// Close закрывает подключение к Redis
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// slotKey ключ выдачи: employeeID = 0 означает автоподбор мастера
func slotKey(salonID, employeeID, serviceID int64, date time.Time) string {
	return fmt.Sprintf("slots:%d:%d:%d:%s", salonID, employeeID, serviceID, date.Format("2006-01-02"))
}
