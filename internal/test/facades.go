package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/entregago/entrega/internal/adapter/events"
	"github.com/entregago/entrega/internal/domain/model"
)

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	PlaceFn   func(context.Context, int64, model.CheckoutInput) (*model.Order, error)
	OrdersFn  func(context.Context, int64) ([]model.Order, error)
	OrderFn   func(context.Context, int64, string) (*model.Order, error)
	CancelFn  func(context.Context, int64, string, string) (*model.Order, error)
	AdvanceFn func(context.Context, string) (*model.Order, error)
}

// PlaceOrder delegates to provided function or returns a fresh fixture.
func (s OrderFacadeStub) PlaceOrder(ctx context.Context, customerID int64, in model.CheckoutInput) (*model.Order, error) {
	if s.PlaceFn != nil {
		return s.PlaceFn(ctx, customerID, in)
	}
	order := NewOrder(model.OrderStatusConfirmed)
	order.CustomerID = customerID
	return order, nil
}

// Orders returns predefined orders for given customer.
func (s OrderFacadeStub) Orders(ctx context.Context, customerID int64) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, customerID)
	}
	return []model.Order{*NewOrder(model.OrderStatusConfirmed)}, nil
}

// Order returns the configured order or a confirmed fixture.
func (s OrderFacadeStub) Order(ctx context.Context, customerID int64, orderID string) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, customerID, orderID)
	}
	order := NewOrder(model.OrderStatusConfirmed)
	order.ID = orderID
	order.CustomerID = customerID
	return order, nil
}

// CancelOrder executes configured cancellation handler.
func (s OrderFacadeStub) CancelOrder(ctx context.Context, customerID int64, orderID, reason string) (*model.Order, error) {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, customerID, orderID, reason)
	}
	order := NewOrder(model.OrderStatusCancelled)
	order.ID = orderID
	order.CustomerID = customerID
	return order, nil
}

// AdvanceOrder executes configured transition handler.
func (s OrderFacadeStub) AdvanceOrder(ctx context.Context, orderID string) (*model.Order, error) {
	if s.AdvanceFn != nil {
		return s.AdvanceFn(ctx, orderID)
	}
	order := NewOrder(model.OrderStatusPreparing)
	order.ID = orderID
	return order, nil
}

// RestaurantFacadeStub serves the merchant directory for HTTP tests.
type RestaurantFacadeStub struct {
	ListFn func(context.Context) ([]model.Restaurant, error)
	GetFn  func(context.Context, int64) (*model.Restaurant, error)
}

// Restaurants returns preconfigured directory.
func (s RestaurantFacadeStub) Restaurants(ctx context.Context) ([]model.Restaurant, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx)
	}
	return []model.Restaurant{{ID: 1, Name: "Pizza Palace", DeliveryFee: 2.5}}, nil
}

// Restaurant returns preconfigured merchant.
func (s RestaurantFacadeStub) Restaurant(ctx context.Context, id int64) (*model.Restaurant, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, id)
	}
	return &model.Restaurant{ID: id, Name: "Pizza Palace", DeliveryFee: 2.5}, nil
}

// RejectCall stores information about RejectPayment invocations.
type RejectCall struct {
	OrderID string
	Reason  string
}

// PaymentFacadeStub mimics worker interactions with the delivery facade.
type PaymentFacadeStub struct {
	Orders          [][]model.Order
	OrdersFn        func(context.Context, int) ([]model.Order, error)
	CheckFn         func(context.Context, string) (*model.PaymentResolution, error)
	ConfirmFn       func(context.Context, string) error
	RejectFn        func(context.Context, string, string) error
	Confirmed       []string
	Rejected        []RejectCall
	mu              sync.Mutex
	ordersCallCount int32
}

// Lock exposes internal mutex for external synchronization.
func (s *PaymentFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *PaymentFacadeStub) Unlock() { s.mu.Unlock() }

// OrdersAwaitingPayment returns batches from configured queue.
func (s *PaymentFacadeStub) OrdersAwaitingPayment(ctx context.Context, limit int) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.ordersCallCount, 1)
	if int(call) <= len(s.Orders) {
		return s.Orders[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// CheckPayment returns configured resolution data.
func (s *PaymentFacadeStub) CheckPayment(ctx context.Context, orderID string) (*model.PaymentResolution, error) {
	if s.CheckFn != nil {
		return s.CheckFn(ctx, orderID)
	}
	return &model.PaymentResolution{OrderID: orderID, State: model.PaymentStateApproved}, nil
}

// ConfirmPayment records confirmation requests.
func (s *PaymentFacadeStub) ConfirmPayment(ctx context.Context, orderID string) error {
	if s.ConfirmFn != nil {
		return s.ConfirmFn(ctx, orderID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Confirmed = append(s.Confirmed, orderID)
	return nil
}

// RejectPayment records rejection requests.
func (s *PaymentFacadeStub) RejectPayment(ctx context.Context, orderID, reason string) error {
	if s.RejectFn != nil {
		return s.RejectFn(ctx, orderID, reason)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Rejected = append(s.Rejected, RejectCall{OrderID: orderID, Reason: reason})
	return nil
}

// PaymentProviderStub resolves payment state for tests.
type PaymentProviderStub struct {
	ResolveFn  func(context.Context, string) (*model.PaymentResolution, error)
	Resolution *model.PaymentResolution
	Err        error
}

// Resolve returns configured response or default approved state.
func (s PaymentProviderStub) Resolve(ctx context.Context, orderID string) (*model.PaymentResolution, error) {
	if s.ResolveFn != nil {
		return s.ResolveFn(ctx, orderID)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Resolution != nil {
		return s.Resolution, nil
	}
	return &model.PaymentResolution{OrderID: orderID, State: model.PaymentStateApproved}, nil
}

// PublisherStub records published order events and signals arrival so tests
// can wait for fire-and-forget delivery.
type PublisherStub struct {
	Err      error
	mu       sync.Mutex
	events   []events.OrderEvent
	arrivals chan struct{}
}

// NewPublisherStub constructs a stub with a buffered arrival channel.
func NewPublisherStub() *PublisherStub {
	return &PublisherStub{arrivals: make(chan struct{}, 16)}
}

// Publish records the event and signals waiting tests.
func (s *PublisherStub) Publish(ctx context.Context, event events.OrderEvent) error {
	s.mu.Lock()
	s.events = append(s.events, event)
	s.mu.Unlock()
	if s.arrivals != nil {
		select {
		case s.arrivals <- struct{}{}:
		default:
		}
	}
	return s.Err
}

// Wait blocks until an event arrives or the timeout elapses.
func (s *PublisherStub) Wait(timeout time.Duration) bool {
	select {
	case <-s.arrivals:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Events returns a snapshot of everything published so far.
func (s *PublisherStub) Events() []events.OrderEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]events.OrderEvent, len(s.events))
	copy(out, s.events)
	return out
}
