package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/ecommerce-orders/internal/core/domain"
)

const (
	orderKeyPrefix    = "order:"
	idempotencyKeyTTL = 24 * time.Hour
)

type RedisAdapter struct {
	client   *redis.Client
	orderTTL time.Duration
}

func NewRedisAdapter(client *redis.Client, orderTTL time.Duration) *RedisAdapter {
	return &RedisAdapter{client: client, orderTTL: orderTTL}
}

func (r *RedisAdapter) SetIdempotency(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, "idempotency:"+key, 1, idempotencyKeyTTL).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

func (r *RedisAdapter) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	data, err := r.client.Get(ctx, orderKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var order domain.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, fmt.Errorf("decode cached order: %w", err)
	}

	return &order, nil
}

func (r *RedisAdapter) SetOrder(ctx context.Context, order *domain.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("encode order: %w", err)
	}

	return r.client.Set(ctx, orderKeyPrefix+order.ID, data, r.orderTTL).Err()
}

func (r *RedisAdapter) DeleteOrder(ctx context.Context, id string) error {
	return r.client.Del(ctx, orderKeyPrefix+id).Err()
}
