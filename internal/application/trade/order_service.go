package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/payment"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
)

const defaultGatewayTimeout = 10 * time.Second

var (
	ErrMissingPaymentMethod = shared.NewDomainError("MISSING_PAYMENT_METHOD", "Payment method is required")
	ErrPaymentFailed        = shared.NewDomainError("PAYMENT_FAILED", "Payment could not be processed")
)

// OrderService orchestrates the order lifecycle: cart conversion, payment
// dispatch, refund-on-cancel and administrative status updates. It is the
// only writer of order state.
type OrderService struct {
	cartRepo       trade.CartRepository
	orderRepo      trade.OrderRepository
	gateways       *payment.Registry
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	gatewayTimeout time.Duration
}

// NewOrderService creates a new OrderService
func NewOrderService(cartRepo trade.CartRepository, orderRepo trade.OrderRepository, gateways *payment.Registry, logger *zap.Logger) *OrderService {
	return &OrderService{
		cartRepo:       cartRepo,
		orderRepo:      orderRepo,
		gateways:       gateways,
		logger:         logger,
		gatewayTimeout: defaultGatewayTimeout,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetGatewayTimeout overrides the per-call deadline on charge and refund
func (s *OrderService) SetGatewayTimeout(timeout time.Duration) {
	if timeout > 0 {
		s.gatewayTimeout = timeout
	}
}

// CreateOrder converts the principal's cart into a paid (or awaiting
// payment) order. Payment must succeed before anything is persisted: a
// declined or failed charge leaves no order behind and the cart intact.
// The cart is cleared only after the order is saved.
func (s *OrderService) CreateOrder(ctx context.Context, principal identity.Principal, req CreateOrderRequest) (*OrderSummaryResponse, error) {
	if req.PaymentMethod == "" {
		return nil, ErrMissingPaymentMethod
	}
	method := payment.Method(req.PaymentMethod)

	gateway, err := s.gateways.Resolve(method)
	if err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.Load(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	order, err := cart.ToOrder()
	if err != nil {
		return nil, err
	}
	if err := order.AssignPaymentMethod(method); err != nil {
		return nil, err
	}

	chargeReq := payment.ChargeRequest{
		Method: method,
		Amount: order.GetTotalMoney(),
		Customer: payment.Customer{
			Name:  req.Customer.Name,
			Email: req.Customer.Email,
		},
		Token: req.Token,
	}
	if req.Card != nil {
		chargeReq.Card = &payment.CardData{
			Number:         req.Card.Number,
			HolderName:     req.Card.HolderName,
			ExpirationDate: req.Card.ExpirationDate,
			CVV:            req.Card.CVV,
		}
	}

	chargeCtx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()
	result, err := gateway.Charge(chargeCtx, chargeReq)
	if err != nil {
		s.logger.Error("payment charge failed",
			zap.String("user_id", principal.UserID.String()),
			zap.String("method", method.String()),
			zap.Error(err))
		return nil, ErrPaymentFailed
	}

	if err := order.RecordPaymentResult(result); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	// The order is committed at this point. A failed cart clear leaves a
	// stale cart, never a lost payment.
	cart.Clear()
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		s.logger.Warn("failed to clear cart after order creation",
			zap.String("order_id", order.ID.String()),
			zap.String("user_id", principal.UserID.String()),
			zap.Error(err))
	}

	s.publishEvents(ctx, order)

	response := ToOrderSummaryResponse(order)
	return &response, nil
}

// GetOrder returns an order. Regular users can only read their own
// orders; an ownership mismatch is reported as not-found so callers
// cannot probe for other users' order ids.
func (s *OrderService) GetOrder(ctx context.Context, principal identity.Principal, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !principal.CanAccess(order.UserID) {
		return nil, shared.ErrNotFound
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// ListOrders returns orders matching the query. Administrators see every
// user's orders; regular users are always restricted to their own.
func (s *OrderService) ListOrders(ctx context.Context, principal identity.Principal, query OrderListQuery) ([]OrderResponse, int64, error) {
	filter := trade.OrderFilter{Filter: shared.DefaultFilter()}
	if query.Page > 0 {
		filter.Page = query.Page
	}
	if query.PageSize > 0 {
		filter.PageSize = query.PageSize
	}
	if query.Status != "" {
		status := trade.OrderStatus(query.Status)
		if !status.IsValid() {
			return nil, 0, trade.ErrInvalidStatus
		}
		filter.Status = &status
	}
	filter.CreatedFrom = query.CreatedFrom
	filter.CreatedTo = query.CreatedTo

	if !principal.IsAdmin() {
		userID := principal.UserID
		filter.UserID = &userID
	}

	orders, total, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]OrderResponse, len(orders))
	for i, order := range orders {
		responses[i] = ToOrderResponse(order)
	}
	return responses, total, nil
}

// UpdateOrderStatus sets the order to any administratively settable
// status. Restricting this to administrators is the transport layer's
// responsibility.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, req UpdateOrderStatusRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.UpdateStatus(trade.OrderStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// CancelOrder cancels an order, refunding the charge first when the
// order was already paid. The refund is best-effort: a refund failure is
// logged and does not block the cancellation. Canceling an already
// canceled order is an idempotent no-op.
func (s *OrderService) CancelOrder(ctx context.Context, principal identity.Principal, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !principal.CanAccess(order.UserID) {
		return nil, shared.ErrNotFound
	}

	if order.IsCanceled() {
		response := ToOrderResponse(order)
		return &response, nil
	}
	if !order.CanCancel() {
		return nil, trade.ErrNotCancelable
	}

	if order.RequiresRefundOnCancel() {
		s.refund(ctx, order)
	}

	if err := order.Cancel(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

func (s *OrderService) refund(ctx context.Context, order *trade.Order) {
	gateway, err := s.gateways.Resolve(order.PaymentMethod)
	if err != nil {
		s.logger.Warn("refund skipped, no gateway for payment method",
			zap.String("order_id", order.ID.String()),
			zap.String("method", order.PaymentMethod.String()))
		return
	}

	refundCtx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()
	result, err := gateway.Refund(refundCtx, order.PaymentID)
	if err != nil || result.Status != payment.RefundStatusRefunded {
		s.logger.Warn("refund failed, canceling anyway",
			zap.String("order_id", order.ID.String()),
			zap.String("payment_id", order.PaymentID),
			zap.Error(err))
		return
	}

	s.logger.Info("payment refunded",
		zap.String("order_id", order.ID.String()),
		zap.String("payment_id", order.PaymentID))
}

func (s *OrderService) publishEvents(ctx context.Context, order *trade.Order) {
	if s.eventPublisher == nil {
		order.ClearDomainEvents()
		return
	}
	for _, event := range order.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish domain event",
				zap.String("event_type", event.EventType()),
				zap.String("order_id", order.ID.String()),
				zap.Error(err))
		}
	}
	order.ClearDomainEvents()
}
