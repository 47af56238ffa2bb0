package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/calcdesk/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisCache implementa ports.ResultCache sobre Redis.
// Los resultados se guardan como JSON con el TTL configurado.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisCache conecta con Redis en addr. ttl = 0 significa sin expiración.
func NewRedisCache(addr, password string, db int, ttl time.Duration) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisCache{client: rdb, ttl: ttl, prefix: "calcdesk:"}
}

// Ping verifica la conexión.
func (r *RedisCache) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cache.RedisCache: ping: %w", err)
	}
	return nil
}

// Get devuelve el resultado guardado. Cualquier error de Redis se trata como miss.
func (r *RedisCache) Get(ctx context.Context, key string) (domain.Result, bool) {
	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Debug("redis get failed", "key", key, "err", err)
		}
		return domain.Result{}, false
	}
	var res domain.Result
	if err := json.Unmarshal(val, &res); err != nil {
		slog.Warn("redis entry is not a result", "key", key, "err", err)
		return domain.Result{}, false
	}
	return res, true
}

// Set guarda el resultado como JSON.
func (r *RedisCache) Set(ctx context.Context, key string, result domain.Result) error {
	b, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("cache.RedisCache: marshal: %w", err)
	}
	if err := r.client.Set(ctx, r.prefix+key, b, r.ttl).Err(); err != nil {
		return fmt.Errorf("cache.RedisCache: set %s: %w", key, err)
	}
	return nil
}

// Close cierra el cliente.
func (r *RedisCache) Close() error {
	return r.client.Close()
}
