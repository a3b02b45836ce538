package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Inventario-ledger/internal/application/documents"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
)

const pendingValue = "pending"

// RedisIdempotencyStore claves Idempotency-Key en Redis (compartidas entre instancias).
// La reserva es un SETNX con TTL; al crear el documento el valor pasa a ser su ID.
type RedisIdempotencyStore struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
}

var _ documents.IdempotencyStore = (*RedisIdempotencyStore)(nil)

// RedisConfig conexión a Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient crea el cliente y verifica la conexión.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// NewRedisIdempotencyStore construye el almacén sobre un cliente existente.
func NewRedisIdempotencyStore(client redis.UniversalClient, ttl time.Duration) *RedisIdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisIdempotencyStore{client: client, keyPrefix: "inventory:idempotency:", ttl: ttl}
}

func (s *RedisIdempotencyStore) key(scope, key string) string {
	return s.keyPrefix + scope + ":" + key
}

// Reserve implementa documents.IdempotencyStore.
func (s *RedisIdempotencyStore) Reserve(ctx context.Context, scope, key string) (string, error) {
	k := s.key(scope, key)
	for attempt := 0; attempt < 2; attempt++ {
		ok, err := s.client.SetNX(ctx, k, pendingValue, s.ttl).Result()
		if err != nil {
			return "", fmt.Errorf("idempotency reserve: %w", err)
		}
		if ok {
			return "", nil
		}
		val, err := s.client.Get(ctx, k).Result()
		if errors.Is(err, redis.Nil) {
			continue // expiró entre SETNX y GET
		}
		if err != nil {
			return "", fmt.Errorf("idempotency get: %w", err)
		}
		if val == pendingValue {
			return "", domain.ErrInProgress
		}
		return val, nil
	}
	return "", domain.ErrInProgress
}

// Bind implementa documents.IdempotencyStore.
func (s *RedisIdempotencyStore) Bind(ctx context.Context, scope, key, id string) error {
	if err := s.client.Set(ctx, s.key(scope, key), id, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency bind: %w", err)
	}
	return nil
}

// Release implementa documents.IdempotencyStore.
func (s *RedisIdempotencyStore) Release(ctx context.Context, scope, key string) error {
	if err := s.client.Del(ctx, s.key(scope, key)).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}
