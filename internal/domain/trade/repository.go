package trade

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// CartRepository defines the persistence port for carts. Load never
// reports absence: a user without a stored cart gets a fresh empty one.
type CartRepository interface {
	Load(ctx context.Context, userID uuid.UUID) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
}

// OrderFilter narrows order listings
type OrderFilter struct {
	shared.Filter
	UserID      *uuid.UUID
	Status      *OrderStatus
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// OrderRepository defines the persistence port for orders
type OrderRepository interface {
	Save(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindAll(ctx context.Context, filter OrderFilter) ([]*Order, int64, error)
}
