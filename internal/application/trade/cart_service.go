package trade

import (
	"context"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
)

// CartService handles shopping cart operations. Every operation works on
// the calling principal's own cart.
type CartService struct {
	cartRepo    trade.CartRepository
	productRepo catalog.ProductRepository
}

// NewCartService creates a new CartService
func NewCartService(cartRepo trade.CartRepository, productRepo catalog.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetCart returns the principal's cart, creating it lazily on first load
func (s *CartService) GetCart(ctx context.Context, principal identity.Principal) (*CartResponse, error) {
	cart, err := s.cartRepo.Load(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	response := ToCartResponse(cart)
	return &response, nil
}

// AddItem adds a product to the principal's cart. The product's current
// name and price are frozen into the line; stock is checked here, before
// the cart is touched.
func (s *CartService) AddItem(ctx context.Context, principal identity.Principal, req AddCartItemRequest) (*CartResponse, error) {
	if req.Quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.HasStock(req.Quantity) {
		return nil, shared.ErrInsufficientStock
	}

	cart, err := s.cartRepo.Load(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	if err := cart.AddItem(product.Snapshot(), req.Quantity); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}

	response := ToCartResponse(cart)
	return &response, nil
}

// UpdateItemQuantity overwrites a line's quantity. A quantity of zero or
// less removes the line.
func (s *CartService) UpdateItemQuantity(ctx context.Context, principal identity.Principal, productID uuid.UUID, quantity int) (*CartResponse, error) {
	cart, err := s.cartRepo.Load(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	if err := cart.UpdateItemQuantity(productID, quantity); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}

	response := ToCartResponse(cart)
	return &response, nil
}

// RemoveItem removes a line from the cart. Removing an absent product is
// a no-op, not an error.
func (s *CartService) RemoveItem(ctx context.Context, principal identity.Principal, productID uuid.UUID) (*CartResponse, error) {
	cart, err := s.cartRepo.Load(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	cart.RemoveItem(productID)
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}

	response := ToCartResponse(cart)
	return &response, nil
}

// ClearCart empties the principal's cart
func (s *CartService) ClearCart(ctx context.Context, principal identity.Principal) (*CartResponse, error) {
	cart, err := s.cartRepo.Load(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	cart.Clear()
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}

	response := ToCartResponse(cart)
	return &response, nil
}
