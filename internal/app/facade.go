package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/entregago/entrega/internal/adapter/events"
	"github.com/entregago/entrega/internal/domain/model"
	"github.com/entregago/entrega/internal/usecase"
)

// PaymentProvider resolves payment state for an order.
type PaymentProvider interface {
	Resolve(ctx context.Context, orderID string) (*model.PaymentResolution, error)
}

// DeliveryFacade aggregates the application's use cases behind one surface
// consumed by the HTTP layer and the payment worker. Notification events are
// emitted here, after a transition persisted, never from the model.
type DeliveryFacade struct {
	auth        *usecase.AuthUseCase
	orders      *usecase.OrderUseCase
	restaurants *usecase.RestaurantUseCase
	payments    PaymentProvider
	events      events.Publisher
	logger      *slog.Logger
}

// NewDeliveryFacade constructs DeliveryFacade.
func NewDeliveryFacade(auth *usecase.AuthUseCase, orders *usecase.OrderUseCase, restaurants *usecase.RestaurantUseCase, payments PaymentProvider, publisher events.Publisher, logger *slog.Logger) *DeliveryFacade {
	return &DeliveryFacade{auth: auth, orders: orders, restaurants: restaurants, payments: payments, events: publisher, logger: logger}
}

func (f *DeliveryFacade) Register(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Register(ctx, login, password)
	return token, err
}

func (f *DeliveryFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *DeliveryFacade) ParseToken(token string) (int64, error) {
	return f.auth.ParseToken(token)
}

func (f *DeliveryFacade) PlaceOrder(ctx context.Context, customerID int64, in model.CheckoutInput) (*model.Order, error) {
	order, err := f.orders.Checkout(ctx, customerID, in)
	if err != nil {
		return nil, err
	}
	f.publish(events.OrderEvent{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Type:       events.TypeOrderCreated,
		Status:     order.Status,
		Total:      order.Total,
		Occurred:   order.CreatedAt,
	})
	return order, nil
}

func (f *DeliveryFacade) Orders(ctx context.Context, customerID int64) ([]model.Order, error) {
	return f.orders.ListByCustomer(ctx, customerID)
}

func (f *DeliveryFacade) Order(ctx context.Context, customerID int64, orderID string) (*model.Order, error) {
	return f.orders.Get(ctx, customerID, orderID)
}

func (f *DeliveryFacade) CancelOrder(ctx context.Context, customerID int64, orderID, reason string) (*model.Order, error) {
	order, err := f.orders.CancelForCustomer(ctx, customerID, orderID, reason)
	if err != nil {
		return nil, err
	}
	f.publishTransition(order, events.TypeOrderCancelled)
	return order, nil
}

func (f *DeliveryFacade) AdvanceOrder(ctx context.Context, orderID string) (*model.Order, error) {
	order, err := f.orders.Advance(ctx, orderID)
	if err != nil {
		return nil, err
	}
	f.publishTransition(order, events.TypeStatusChanged)
	return order, nil
}

func (f *DeliveryFacade) Restaurants(ctx context.Context) ([]model.Restaurant, error) {
	return f.restaurants.List(ctx)
}

func (f *DeliveryFacade) Restaurant(ctx context.Context, id int64) (*model.Restaurant, error) {
	return f.restaurants.Get(ctx, id)
}

func (f *DeliveryFacade) OrdersAwaitingPayment(ctx context.Context, limit int) ([]model.Order, error) {
	return f.orders.SelectAwaitingPayment(ctx, limit)
}

func (f *DeliveryFacade) CheckPayment(ctx context.Context, orderID string) (*model.PaymentResolution, error) {
	return f.payments.Resolve(ctx, orderID)
}

func (f *DeliveryFacade) ConfirmPayment(ctx context.Context, orderID string) error {
	order, err := f.orders.ConfirmPayment(ctx, orderID)
	if err != nil {
		return err
	}
	f.publishTransition(order, events.TypeStatusChanged)
	return nil
}

func (f *DeliveryFacade) RejectPayment(ctx context.Context, orderID, reason string) error {
	order, err := f.orders.Cancel(ctx, orderID, reason)
	if err != nil {
		return err
	}
	f.publishTransition(order, events.TypeOrderCancelled)
	return nil
}

func (f *DeliveryFacade) publishTransition(order *model.Order, eventType string) {
	entry := order.TrackingHistory[len(order.TrackingHistory)-1]
	f.publish(events.OrderEvent{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Type:       eventType,
		Status:     order.Status,
		Total:      order.Total,
		Occurred:   entry.Timestamp,
	})
}

// publish is fire-and-forget: event delivery never blocks or fails a
// transition.
func (f *DeliveryFacade) publish(event events.OrderEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := f.events.Publish(ctx, event); err != nil {
			f.logger.Error("publish order event failed",
				slog.String("order", event.OrderID),
				slog.String("type", event.Type),
				slog.String("error", err.Error()),
			)
		}
	}()
}
