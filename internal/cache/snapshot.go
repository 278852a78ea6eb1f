package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SnapshotCache — презентационный кэш дашборда. Хранит последний удачно
// собранный ответ, чтобы UI мог показать что-то сразу. Ядро операций от
// кэша не зависит: промах или сбой Redis никогда не превращается в отказ.
type SnapshotCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewSnapshotCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *SnapshotCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SnapshotCache{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger.Named("snapshot-cache"),
	}
}

// Put сериализует снапшот и пишет его с TTL. Ошибка не возвращается:
// кэш — best effort, падение Redis не ломает основной путь.
func (c *SnapshotCache) Put(ctx context.Context, key string, value any) {
	if c == nil || c.rdb == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("snapshot marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("snapshot write failed", zap.String("key", key), zap.Error(err))
	}
}

// Get читает снапшот в out. Возвращает false при промахе или сбое.
func (c *SnapshotCache) Get(ctx context.Context, key string, out any) bool {
	if c == nil || c.rdb == nil {
		return false
	}
	payload, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("snapshot read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(payload, out); err != nil {
		c.logger.Warn("snapshot decode failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}
