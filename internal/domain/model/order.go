package model

import (
	"fmt"
	"math"
	"strings"
	"time"

	domainErrors "github.com/entregago/entrega/internal/domain/errors"
)

// OrderStatus describes fulfillment lifecycle.
type OrderStatus string

const (
	OrderStatusPendingPayment OrderStatus = "pending_payment"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusReadyForPickup OrderStatus = "ready_for_pickup"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// statusFlow is the only permitted progression; cancellation exits sideways.
var statusFlow = []OrderStatus{
	OrderStatusPendingPayment,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusReadyForPickup,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
}

var statusDescriptions = map[OrderStatus]string{
	OrderStatusPendingPayment: "Awaiting payment confirmation",
	OrderStatusConfirmed:      "Order confirmed",
	OrderStatusPreparing:      "Preparing your order",
	OrderStatusReadyForPickup: "Ready for pickup",
	OrderStatusOutForDelivery: "Out for delivery",
	OrderStatusDelivered:      "Delivered",
	OrderStatusCancelled:      "Cancelled",
}

// Next returns the immediate successor in the fulfillment sequence.
func (s OrderStatus) Next() (OrderStatus, bool) {
	for i, status := range statusFlow {
		if status == s && i < len(statusFlow)-1 {
			return statusFlow[i+1], true
		}
	}
	return "", false
}

// Terminal reports whether the order admits no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// Description returns the human readable text recorded in tracking history.
func (s OrderStatus) Description() string {
	if d, ok := statusDescriptions[s]; ok {
		return d
	}
	return "Status updated"
}

// PaymentMethod enumerates accepted means of payment.
type PaymentMethod string

const (
	PaymentMethodCash          PaymentMethod = "cash"
	PaymentMethodCard          PaymentMethod = "card"
	PaymentMethodDigitalWallet PaymentMethod = "digital_wallet"
)

// Valid reports whether the method is one of the accepted values.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodDigitalWallet:
		return true
	}
	return false
}

// RequiresAuthorization reports whether the method must be cleared by the
// payment gateway before fulfillment starts.
func (m PaymentMethod) RequiresAuthorization() bool {
	return m == PaymentMethodCard || m == PaymentMethodDigitalWallet
}

// OrderItem is a cart line snapshot priced at checkout time.
type OrderItem struct {
	ProductID string
	Name      string
	Quantity  int
	UnitPrice float64
	LineTotal float64
}

// TrackingEntry records a single status change. Entries are never rewritten,
// only appended.
type TrackingEntry struct {
	Status      OrderStatus
	Timestamp   time.Time
	Description string
}

// Order describes a customer's purchase from one restaurant, tracked from
// checkout through delivery. Orders are never deleted; terminal orders are
// retained as history.
type Order struct {
	ID                    string
	CustomerID            int64
	RestaurantID          int64
	RestaurantName        string
	Items                 []OrderItem
	DeliveryAddress       string
	PaymentMethod         PaymentMethod
	Subtotal              float64
	DeliveryFee           float64
	Tax                   float64
	Total                 float64
	Status                OrderStatus
	TrackingHistory       []TrackingEntry
	CreatedAt             time.Time
	EstimatedDeliveryTime time.Time
}

// CheckoutInput is the cart snapshot a customer confirms at checkout.
type CheckoutInput struct {
	RestaurantID    int64
	Items           []OrderItem
	DeliveryAddress string
	PaymentMethod   PaymentMethod
}

// NewOrderInput carries the validated cart snapshot handed over at checkout.
type NewOrderInput struct {
	ID              string
	CustomerID      int64
	RestaurantID    int64
	RestaurantName  string
	Items           []OrderItem
	DeliveryAddress string
	PaymentMethod   PaymentMethod
	DeliveryFee     float64
	TaxRate         float64
	DeliveryWindow  time.Duration
}

// NewOrder constructs an order from a cart snapshot. Cash orders start
// confirmed; card and wallet orders start awaiting payment and are moved
// forward once the gateway reports approval. The first tracking entry is
// written here.
func NewOrder(in NewOrderInput, now time.Time) (*Order, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: empty cart", domainErrors.ErrValidation)
	}
	if !in.PaymentMethod.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", domainErrors.ErrValidation, in.PaymentMethod)
	}
	address := strings.TrimSpace(in.DeliveryAddress)
	if address == "" {
		return nil, fmt.Errorf("%w: empty delivery address", domainErrors.ErrValidation)
	}
	if in.DeliveryFee < 0 {
		return nil, fmt.Errorf("%w: negative delivery fee", domainErrors.ErrValidation)
	}

	items := make([]OrderItem, len(in.Items))
	for i, item := range in.Items {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: item %q quantity must be at least 1", domainErrors.ErrValidation, item.Name)
		}
		if item.UnitPrice < 0 {
			return nil, fmt.Errorf("%w: item %q has negative price", domainErrors.ErrValidation, item.Name)
		}
		item.LineTotal = RoundCents(float64(item.Quantity) * item.UnitPrice)
		items[i] = item
	}

	status := OrderStatusConfirmed
	if in.PaymentMethod.RequiresAuthorization() {
		status = OrderStatusPendingPayment
	}

	order := &Order{
		ID:                    in.ID,
		CustomerID:            in.CustomerID,
		RestaurantID:          in.RestaurantID,
		RestaurantName:        in.RestaurantName,
		Items:                 items,
		DeliveryAddress:       address,
		PaymentMethod:         in.PaymentMethod,
		DeliveryFee:           RoundCents(in.DeliveryFee),
		Status:                status,
		CreatedAt:             now,
		EstimatedDeliveryTime: now.Add(in.DeliveryWindow),
		TrackingHistory: []TrackingEntry{
			{Status: status, Timestamp: now, Description: status.Description()},
		},
	}
	order.RecomputeTotals(in.TaxRate)
	return order, nil
}

// Advance moves the order to the immediate successor in the fulfillment
// sequence and appends one tracking entry. Skipping states is not expressible
// through this operation; terminal orders are rejected.
func (o *Order) Advance(now time.Time) error {
	if o.Status.Terminal() {
		return fmt.Errorf("%w: order %s is already %s", domainErrors.ErrInvalidTransition, o.ID, o.Status)
	}
	next, ok := o.Status.Next()
	if !ok {
		return fmt.Errorf("%w: no successor for status %s", domainErrors.ErrInvalidTransition, o.Status)
	}
	o.Status = next
	o.TrackingHistory = append(o.TrackingHistory, TrackingEntry{
		Status:      next,
		Timestamp:   now,
		Description: next.Description(),
	})
	return nil
}

// Cancel marks the order cancelled from any non-terminal state and records
// the supplied reason in the tracking history.
func (o *Order) Cancel(reason string, now time.Time) error {
	if o.Status.Terminal() {
		return fmt.Errorf("%w: order %s is already %s", domainErrors.ErrInvalidTransition, o.ID, o.Status)
	}
	description := OrderStatusCancelled.Description()
	if reason = strings.TrimSpace(reason); reason != "" {
		description = fmt.Sprintf("Cancelled: %s", reason)
	}
	o.Status = OrderStatusCancelled
	o.TrackingHistory = append(o.TrackingHistory, TrackingEntry{
		Status:      OrderStatusCancelled,
		Timestamp:   now,
		Description: description,
	})
	return nil
}

// RecomputeTotals re-derives subtotal, tax and total from the current item
// set. Total == Subtotal + DeliveryFee + Tax holds on exit.
func (o *Order) RecomputeTotals(taxRate float64) {
	var subtotal float64
	for _, item := range o.Items {
		subtotal += item.LineTotal
	}
	o.Subtotal = RoundCents(subtotal)
	o.Tax = RoundCents(o.Subtotal * taxRate)
	o.Total = RoundCents(o.Subtotal + o.DeliveryFee + o.Tax)
}

// RoundCents rounds a currency amount to two decimal places, half away from
// zero.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
