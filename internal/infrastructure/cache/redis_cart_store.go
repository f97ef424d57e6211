package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/storefront/backend/internal/domain/trade"
)

const defaultCartTTL = 30 * 24 * time.Hour

// RedisCartStore implements trade.CartRepository on top of Redis.
// Carts are working state rather than records, so they live as JSON
// blobs under a per-user key with a sliding TTL.
type RedisCartStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisCartStore creates a cart store with its own Redis client.
func NewRedisCartStore(cfg RedisConfig) (*RedisCartStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisCartStoreWithClient(client, ""), nil
}

// NewRedisCartStoreWithClient creates a store with an existing Redis client.
// This is useful for testing or when sharing a client across components.
func NewRedisCartStoreWithClient(client *redis.Client, keyPrefix string) *RedisCartStore {
	if keyPrefix == "" {
		keyPrefix = "cart:"
	}
	return &RedisCartStore{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       defaultCartTTL,
	}
}

// SetTTL overrides the cart expiration window.
func (s *RedisCartStore) SetTTL(ttl time.Duration) {
	s.ttl = ttl
}

// Load fetches the user's cart. A missing or unreadable key yields a
// fresh empty cart; absence is never an error for carts.
func (s *RedisCartStore) Load(ctx context.Context, userID uuid.UUID) (*trade.Cart, error) {
	key := s.keyPrefix + userID.String()

	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return trade.NewCart(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var cart trade.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		// A corrupted blob is unrecoverable. Start the user over
		// rather than locking them out of their cart.
		return trade.NewCart(userID), nil
	}

	return &cart, nil
}

// Save persists the cart and refreshes its TTL. An empty cart is
// deleted outright so abandoned keys do not accumulate.
func (s *RedisCartStore) Save(ctx context.Context, cart *trade.Cart) error {
	key := s.keyPrefix + cart.UserID.String()

	if cart.IsEmpty() {
		if err := s.client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to delete cart: %w", err)
		}
		return nil
	}

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}

	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}

	return nil
}

// Close closes the Redis client.
func (s *RedisCartStore) Close() error {
	return s.client.Close()
}

var _ trade.CartRepository = (*RedisCartStore)(nil)
