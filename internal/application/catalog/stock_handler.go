package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
)

// StockHandler keeps catalog stock in line with the order lifecycle: it
// deducts stock when an order is paid and restores it when a paid order
// is canceled.
type StockHandler struct {
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(productRepo catalog.ProductRepository, logger *zap.Logger) *StockHandler {
	return &StockHandler{
		productRepo: productRepo,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *StockHandler) EventTypes() []string {
	return []string{trade.EventTypeOrderPaid, trade.EventTypeOrderCanceled}
}

// Handle processes order lifecycle events
func (h *StockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *trade.OrderPaidEvent:
		return h.deduct(ctx, e)
	case *trade.OrderCanceledEvent:
		if !e.WasPaid {
			return nil
		}
		return h.restore(ctx, e)
	default:
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
}

func (h *StockHandler) deduct(ctx context.Context, event *trade.OrderPaidEvent) error {
	for _, line := range event.Lines {
		product, err := h.productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			h.logger.Warn("stock deduction skipped, product not found",
				zap.String("order_id", event.OrderID.String()),
				zap.String("product_id", line.ProductID.String()))
			continue
		}
		if err := product.DeductStock(line.Quantity); err != nil {
			// The sale already happened; an oversold product is an
			// operational followup, not a reason to fail the event.
			h.logger.Warn("stock deduction failed",
				zap.String("order_id", event.OrderID.String()),
				zap.String("product_id", line.ProductID.String()),
				zap.Int("quantity", line.Quantity),
				zap.Error(err))
			continue
		}
		if err := h.productRepo.Save(ctx, product); err != nil {
			return err
		}
	}
	return nil
}

func (h *StockHandler) restore(ctx context.Context, event *trade.OrderCanceledEvent) error {
	for _, line := range event.Lines {
		product, err := h.productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			h.logger.Warn("stock restore skipped, product not found",
				zap.String("order_id", event.OrderID.String()),
				zap.String("product_id", line.ProductID.String()))
			continue
		}
		if err := product.Restock(line.Quantity); err != nil {
			h.logger.Warn("stock restore failed",
				zap.String("order_id", event.OrderID.String()),
				zap.String("product_id", line.ProductID.String()),
				zap.Error(err))
			continue
		}
		if err := h.productRepo.Save(ctx, product); err != nil {
			return err
		}
	}
	return nil
}
