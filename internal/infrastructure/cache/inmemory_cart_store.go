package cache

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/trade"
)

// InMemoryCartStore implements trade.CartRepository using a map.
// Suitable for single-instance deployments and testing.
type InMemoryCartStore struct {
	mu    sync.RWMutex
	carts map[uuid.UUID]*trade.Cart
}

// NewInMemoryCartStore creates a new in-memory cart store.
func NewInMemoryCartStore() *InMemoryCartStore {
	return &InMemoryCartStore{
		carts: make(map[uuid.UUID]*trade.Cart),
	}
}

// Load returns a copy of the user's cart, or a fresh empty cart when
// none exists. Copies keep callers from mutating shared state before
// Save.
func (s *InMemoryCartStore) Load(ctx context.Context, userID uuid.UUID) (*trade.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, exists := s.carts[userID]
	if !exists {
		return trade.NewCart(userID), nil
	}

	return copyCart(cart), nil
}

// Save stores a copy of the cart. Empty carts are dropped from the map.
func (s *InMemoryCartStore) Save(ctx context.Context, cart *trade.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cart.IsEmpty() {
		delete(s.carts, cart.UserID)
		return nil
	}

	s.carts[cart.UserID] = copyCart(cart)
	return nil
}

func copyCart(cart *trade.Cart) *trade.Cart {
	clone := *cart
	clone.Items = make([]trade.CartItem, len(cart.Items))
	copy(clone.Items, cart.Items)
	return &clone
}

var _ trade.CartRepository = (*InMemoryCartStore)(nil)
