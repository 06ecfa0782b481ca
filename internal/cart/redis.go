package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/codebyom2309/Zenith-cafe-os/internal/domain"
)

// RedisRepository keeps session carts in Redis as JSON with a TTL, so an
// abandoned table link does not pin memory forever. The TTL is refreshed
// on every save and jittered to avoid expiry stampedes.
type RedisRepository struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisRepository(client *redis.Client, ttl time.Duration) *RedisRepository {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &RedisRepository{client: client, baseTTL: ttl}
}

func (r *RedisRepository) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	data, err := r.client.Get(ctx, cartKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	return &cart, nil
}

func (r *RedisRepository) Save(ctx context.Context, sessionID string, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	ttl := r.baseTTL + time.Duration(rand.Intn(300))*time.Second
	if err := r.client.Set(ctx, cartKey(sessionID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}
	return nil
}

func (r *RedisRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete cart: %w", err)
	}
	return nil
}

func cartKey(sessionID string) string { return "cart:" + sessionID }
