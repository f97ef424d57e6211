package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

const (
	maxNameLength        = 200
	maxSKULength         = 50
	maxDescriptionLength = 2000
)

// Product represents a product in the storefront catalog
// It is the aggregate root for catalog operations
type Product struct {
	shared.BaseAggregateRoot
	Name        string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Stock       int             `gorm:"not null;default:0"`
	SKU         string          `gorm:"type:varchar(50);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// ProductSnapshot is the frozen view of a product captured by cart and
// order lines at the time of add-to-cart. Later price or stock changes on
// the product do not affect existing lines.
type ProductSnapshot struct {
	ProductID uuid.UUID
	Name      string
	Price     decimal.Decimal
}

// NewProduct creates a new catalog product
func NewProduct(name, description, sku string, price valueobject.Money, stock int) (*Product, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}
	if len(description) > maxDescriptionLength {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description is too long")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
		Price:             price.Amount(),
		Stock:             stock,
		SKU:               strings.ToUpper(sku),
	}, nil
}

// Update changes the product's descriptive fields
func (p *Product) Update(name, description string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if len(description) > maxDescriptionLength {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description is too long")
	}

	p.Name = name
	p.Description = description
	p.Touch()
	return nil
}

// UpdatePrice changes the selling price
func (p *Product) UpdatePrice(price valueobject.Money) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	p.Price = price.Amount()
	p.Touch()
	return nil
}

// UpdateSKU changes the stock keeping unit code
func (p *Product) UpdateSKU(sku string) error {
	if err := validateSKU(sku); err != nil {
		return err
	}
	p.SKU = strings.ToUpper(sku)
	p.Touch()
	return nil
}

// SetStock replaces the current stock level
func (p *Product) SetStock(stock int) error {
	if stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}
	p.Stock = stock
	p.Touch()
	return nil
}

// HasStock returns true if at least qty units are available
func (p *Product) HasStock(qty int) bool {
	return qty > 0 && p.Stock >= qty
}

// DeductStock removes qty units from stock
func (p *Product) DeductStock(qty int) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if p.Stock < qty {
		return shared.ErrInsufficientStock
	}
	p.Stock -= qty
	p.Touch()
	return nil
}

// Restock adds qty units back to stock
func (p *Product) Restock(qty int) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	p.Stock += qty
	p.Touch()
	return nil
}

// GetPriceMoney returns the selling price as Money
func (p *Product) GetPriceMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(p.Price)
}

// Snapshot returns the frozen view used by cart and order lines
func (p *Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
	}
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > maxNameLength {
		return shared.NewDomainError("INVALID_NAME", "Product name is too long")
	}
	return nil
}

func validateSKU(sku string) error {
	if strings.TrimSpace(sku) == "" {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > maxSKULength {
		return shared.NewDomainError("INVALID_SKU", "SKU is too long")
	}
	return nil
}
