package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

var (
	ErrEmptyCart    = shared.NewDomainError("EMPTY_CART", "Cart has no items")
	ErrItemNotFound = shared.NewDomainError("ITEM_NOT_FOUND", "Cart item not found")
)

// CartItem is a frozen line inside a cart. Name and unit price are copied
// from the product at the time of add and never re-read from the catalog.
type CartItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// Subtotal returns unit price times quantity
func (i CartItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is a per-user basket. One cart exists per user for its whole
// lifetime; it is emptied, never deleted.
type Cart struct {
	UserID    uuid.UUID  `json:"user_id"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewCart creates an empty cart for the user
func NewCart(userID uuid.UUID) *Cart {
	now := time.Now()
	return &Cart{
		UserID:    userID,
		Items:     make([]CartItem, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddItem adds qty units of the product to the cart. If the product is
// already in the cart its quantity is incremented instead of appending a
// second line. The caller is responsible for checking stock beforehand.
func (c *Cart) AddItem(snapshot catalog.ProductSnapshot, qty int) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if snapshot.ProductID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}

	for idx := range c.Items {
		if c.Items[idx].ProductID == snapshot.ProductID {
			c.Items[idx].Quantity += qty
			c.UpdatedAt = time.Now()
			return nil
		}
	}

	c.Items = append(c.Items, CartItem{
		ProductID: snapshot.ProductID,
		Name:      snapshot.Name,
		UnitPrice: snapshot.Price,
		Quantity:  qty,
	})
	c.UpdatedAt = time.Now()
	return nil
}

// UpdateItemQuantity overwrites the quantity of an existing line. A
// quantity of zero or less removes the line instead of keeping a
// zero-quantity row.
func (c *Cart) UpdateItemQuantity(productID uuid.UUID, qty int) error {
	if qty <= 0 {
		c.RemoveItem(productID)
		return nil
	}

	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			c.Items[idx].Quantity = qty
			c.UpdatedAt = time.Now()
			return nil
		}
	}

	return ErrItemNotFound
}

// RemoveItem removes the line for the product. Removing a product that is
// not in the cart is a no-op.
func (c *Cart) RemoveItem(productID uuid.UUID) {
	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			c.UpdatedAt = time.Now()
			return
		}
	}
}

// Clear removes all lines from the cart
func (c *Cart) Clear() {
	c.Items = make([]CartItem, 0)
	c.UpdatedAt = time.Now()
}

// IsEmpty returns true if the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount returns the number of distinct lines
func (c *Cart) ItemCount() int {
	return len(c.Items)
}

// GetItem returns the line for a product, or nil if absent
func (c *Cart) GetItem(productID uuid.UUID) *CartItem {
	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			return &c.Items[idx]
		}
	}
	return nil
}

// Total returns the sum of line subtotals
func (c *Cart) Total() valueobject.Money {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return valueobject.NewMoneyBRL(total)
}

// ToOrder converts the cart into a new pending order. Items and total are
// copied by value; the cart itself is left untouched. Clearing the cart is
// the caller's responsibility and must happen only after payment succeeds.
func (c *Cart) ToOrder() (*Order, error) {
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}
	return newOrderFromCart(c), nil
}
