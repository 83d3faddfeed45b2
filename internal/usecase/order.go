package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/entregago/entrega/internal/domain/errors"
	"github.com/entregago/entrega/internal/domain/model"
	"github.com/entregago/entrega/internal/domain/repository"
)

// Policy carries pricing constants applied at checkout.
type Policy struct {
	TaxRate        float64
	DeliveryWindow time.Duration
}

// OrderUseCase encapsulates order lifecycle logic. It holds no state of its
// own; orders are loaded, mutated through the model and persisted per call.
type OrderUseCase struct {
	orders      repository.OrderRepository
	restaurants repository.RestaurantRepository
	policy      Policy
	now         func() time.Time
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, restaurants repository.RestaurantRepository, policy Policy) *OrderUseCase {
	return &OrderUseCase{orders: orders, restaurants: restaurants, policy: policy, now: time.Now}
}

// Checkout builds an order from the cart snapshot and persists it. The
// restaurant supplies the delivery fee; validation failures surface as
// ErrValidation and leave nothing behind.
func (u *OrderUseCase) Checkout(ctx context.Context, customerID int64, in model.CheckoutInput) (*model.Order, error) {
	restaurant, err := u.restaurants.GetByID(ctx, in.RestaurantID)
	if err != nil {
		if err == domainErrors.ErrNotFound {
			return nil, fmt.Errorf("%w: unknown restaurant %d", domainErrors.ErrValidation, in.RestaurantID)
		}
		return nil, err
	}

	order, err := model.NewOrder(model.NewOrderInput{
		ID:              uuid.NewString(),
		CustomerID:      customerID,
		RestaurantID:    restaurant.ID,
		RestaurantName:  restaurant.Name,
		Items:           in.Items,
		DeliveryAddress: in.DeliveryAddress,
		PaymentMethod:   in.PaymentMethod,
		DeliveryFee:     restaurant.DeliveryFee,
		TaxRate:         u.policy.TaxRate,
		DeliveryWindow:  u.policy.DeliveryWindow,
	}, u.now())
	if err != nil {
		return nil, err
	}

	if err := u.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Get returns the customer's order. Orders belonging to other customers are
// reported as not found.
func (u *OrderUseCase) Get(ctx context.Context, customerID int64, orderID string) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, domainErrors.ErrNotFound
	}
	return order, nil
}

// ListByCustomer returns orders sorted by creation time, newest first.
func (u *OrderUseCase) ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	return u.orders.ListByCustomer(ctx, customerID)
}

// Advance moves the order one step forward in the fulfillment sequence and
// persists the transition together with its tracking entry.
func (u *OrderUseCase) Advance(ctx context.Context, orderID string) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	from := order.Status
	if err := order.Advance(u.now()); err != nil {
		return nil, err
	}

	entry := order.TrackingHistory[len(order.TrackingHistory)-1]
	if err := u.orders.ApplyTransition(ctx, order.ID, from, order.Status, entry); err != nil {
		return nil, err
	}
	return order, nil
}

// Cancel marks the order cancelled with the supplied reason and persists the
// transition. Terminal orders are rejected.
func (u *OrderUseCase) Cancel(ctx context.Context, orderID, reason string) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	from := order.Status
	if err := order.Cancel(reason, u.now()); err != nil {
		return nil, err
	}

	entry := order.TrackingHistory[len(order.TrackingHistory)-1]
	if err := u.orders.ApplyTransition(ctx, order.ID, from, order.Status, entry); err != nil {
		return nil, err
	}
	return order, nil
}

// CancelForCustomer cancels an order on behalf of its owner.
func (u *OrderUseCase) CancelForCustomer(ctx context.Context, customerID int64, orderID, reason string) (*model.Order, error) {
	if _, err := u.Get(ctx, customerID, orderID); err != nil {
		return nil, err
	}
	return u.Cancel(ctx, orderID, reason)
}

// ConfirmPayment moves an order awaiting payment into confirmed once the
// gateway reports approval. Orders in any other state are rejected so a
// stale worker cannot push a confirmed order further down the sequence.
func (u *OrderUseCase) ConfirmPayment(ctx context.Context, orderID string) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != model.OrderStatusPendingPayment {
		return nil, fmt.Errorf("%w: order %s is not awaiting payment", domainErrors.ErrInvalidTransition, orderID)
	}
	return u.Advance(ctx, orderID)
}

// SelectAwaitingPayment returns orders still waiting for the gateway.
func (u *OrderUseCase) SelectAwaitingPayment(ctx context.Context, limit int) ([]model.Order, error) {
	return u.orders.SelectAwaitingPayment(ctx, limit)
}
