package model

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	domainErrors "github.com/entregago/entrega/internal/domain/errors"
)

var testNow = time.Date(2025, time.March, 14, 12, 0, 0, 0, time.UTC)

func validInput() NewOrderInput {
	return NewOrderInput{
		ID:             "order-1",
		CustomerID:     7,
		RestaurantID:   1,
		RestaurantName: "Pizza Palace",
		Items: []OrderItem{
			{ProductID: "p1", Name: "Pizza Margherita", Quantity: 2, UnitPrice: 18.99},
		},
		DeliveryAddress: "Av. Siempre Viva 742",
		PaymentMethod:   PaymentMethodCash,
		DeliveryFee:     2.5,
		TaxRate:         0.1,
		DeliveryWindow:  45 * time.Minute,
	}
}

func TestOrderStatusValues(t *testing.T) {
	cases := []struct {
		name  string
		got   OrderStatus
		value string
	}{
		{"pending payment", OrderStatusPendingPayment, "pending_payment"},
		{"confirmed", OrderStatusConfirmed, "confirmed"},
		{"preparing", OrderStatusPreparing, "preparing"},
		{"ready for pickup", OrderStatusReadyForPickup, "ready_for_pickup"},
		{"out for delivery", OrderStatusOutForDelivery, "out_for_delivery"},
		{"delivered", OrderStatusDelivered, "delivered"},
		{"cancelled", OrderStatusCancelled, "cancelled"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if string(tc.got) != tc.value {
				t.Fatalf("expected %s, got %s", tc.value, tc.got)
			}
		})
	}
}

func TestOrderStatusNext(t *testing.T) {
	cases := []struct {
		from OrderStatus
		next OrderStatus
		ok   bool
	}{
		{OrderStatusPendingPayment, OrderStatusConfirmed, true},
		{OrderStatusConfirmed, OrderStatusPreparing, true},
		{OrderStatusPreparing, OrderStatusReadyForPickup, true},
		{OrderStatusReadyForPickup, OrderStatusOutForDelivery, true},
		{OrderStatusOutForDelivery, OrderStatusDelivered, true},
		{OrderStatusDelivered, "", false},
		{OrderStatusCancelled, "", false},
	}

	for _, tc := range cases {
		next, ok := tc.from.Next()
		if ok != tc.ok || next != tc.next {
			t.Fatalf("Next(%s) = %s, %v; expected %s, %v", tc.from, next, ok, tc.next, tc.ok)
		}
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	for _, status := range []OrderStatus{OrderStatusDelivered, OrderStatusCancelled} {
		if !status.Terminal() {
			t.Fatalf("expected %s to be terminal", status)
		}
	}
	for _, status := range []OrderStatus{OrderStatusPendingPayment, OrderStatusConfirmed, OrderStatusPreparing, OrderStatusReadyForPickup, OrderStatusOutForDelivery} {
		if status.Terminal() {
			t.Fatalf("expected %s to be non-terminal", status)
		}
	}
}

func TestPaymentMethodValid(t *testing.T) {
	for _, m := range []PaymentMethod{PaymentMethodCash, PaymentMethodCard, PaymentMethodDigitalWallet} {
		if !m.Valid() {
			t.Fatalf("expected %s to be valid", m)
		}
	}
	if PaymentMethod("bitcoin").Valid() {
		t.Fatal("expected unknown method to be invalid")
	}
	if PaymentMethodCash.RequiresAuthorization() {
		t.Fatal("cash must not require authorization")
	}
	if !PaymentMethodCard.RequiresAuthorization() || !PaymentMethodDigitalWallet.RequiresAuthorization() {
		t.Fatal("card and wallet must require authorization")
	}
}

func TestNewOrderValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*NewOrderInput)
	}{
		{"empty cart", func(in *NewOrderInput) { in.Items = nil }},
		{"unknown payment method", func(in *NewOrderInput) { in.PaymentMethod = "bitcoin" }},
		{"blank address", func(in *NewOrderInput) { in.DeliveryAddress = "   " }},
		{"negative delivery fee", func(in *NewOrderInput) { in.DeliveryFee = -1 }},
		{"zero quantity", func(in *NewOrderInput) { in.Items[0].Quantity = 0 }},
		{"negative price", func(in *NewOrderInput) { in.Items[0].UnitPrice = -0.01 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			order, err := NewOrder(in, testNow)
			if !errors.Is(err, domainErrors.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if order != nil {
				t.Fatal("expected nil order on validation failure")
			}
		})
	}
}

func TestNewOrderTotals(t *testing.T) {
	order, err := NewOrder(validInput(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if order.Items[0].LineTotal != 37.98 {
		t.Fatalf("expected line total 37.98, got %.2f", order.Items[0].LineTotal)
	}
	if order.Subtotal != 37.98 {
		t.Fatalf("expected subtotal 37.98, got %.2f", order.Subtotal)
	}
	if order.Tax != 3.80 {
		t.Fatalf("expected tax 3.80, got %.2f", order.Tax)
	}
	if order.Total != 44.28 {
		t.Fatalf("expected total 44.28, got %.2f", order.Total)
	}
	if got := RoundCents(order.Subtotal + order.DeliveryFee + order.Tax); math.Abs(got-order.Total) > 1e-9 {
		t.Fatalf("total %.2f does not equal subtotal+fee+tax %.2f", order.Total, got)
	}
}

func TestNewOrderInitialStatus(t *testing.T) {
	cases := []struct {
		method PaymentMethod
		status OrderStatus
	}{
		{PaymentMethodCash, OrderStatusConfirmed},
		{PaymentMethodCard, OrderStatusPendingPayment},
		{PaymentMethodDigitalWallet, OrderStatusPendingPayment},
	}

	for _, tc := range cases {
		in := validInput()
		in.PaymentMethod = tc.method
		order, err := NewOrder(in, testNow)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order.Status != tc.status {
			t.Fatalf("method %s: expected initial status %s, got %s", tc.method, tc.status, order.Status)
		}
		if len(order.TrackingHistory) != 1 {
			t.Fatalf("expected one tracking entry, got %d", len(order.TrackingHistory))
		}
		entry := order.TrackingHistory[0]
		if entry.Status != tc.status || entry.Timestamp != testNow || entry.Description != tc.status.Description() {
			t.Fatalf("unexpected first tracking entry: %+v", entry)
		}
	}
}

func TestNewOrderEstimatedDelivery(t *testing.T) {
	order, err := NewOrder(validInput(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := order.EstimatedDeliveryTime, testNow.Add(45*time.Minute); !got.Equal(want) {
		t.Fatalf("expected estimated delivery %v, got %v", want, got)
	}
	if !order.CreatedAt.Equal(testNow) {
		t.Fatalf("expected created at %v, got %v", testNow, order.CreatedAt)
	}
}

func TestOrderAdvanceFullSequence(t *testing.T) {
	order, err := NewOrder(validInput(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []OrderStatus{
		OrderStatusPreparing,
		OrderStatusReadyForPickup,
		OrderStatusOutForDelivery,
		OrderStatusDelivered,
	}
	now := testNow
	for _, want := range expected {
		now = now.Add(time.Minute)
		if err := order.Advance(now); err != nil {
			t.Fatalf("advance to %s failed: %v", want, err)
		}
		if order.Status != want {
			t.Fatalf("expected status %s, got %s", want, order.Status)
		}
	}

	if len(order.TrackingHistory) != 5 {
		t.Fatalf("expected 5 tracking entries, got %d", len(order.TrackingHistory))
	}
	for i, entry := range order.TrackingHistory[1:] {
		if entry.Status != expected[i] {
			t.Fatalf("entry %d: expected status %s, got %s", i+1, expected[i], entry.Status)
		}
	}
	last := order.TrackingHistory[len(order.TrackingHistory)-1]
	if last.Description != "Delivered" {
		t.Fatalf("unexpected final description %q", last.Description)
	}
}

func TestOrderAdvanceFromTerminal(t *testing.T) {
	order, err := NewOrder(validInput(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for order.Status != OrderStatusDelivered {
		if err := order.Advance(testNow); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if err := order.Advance(testNow); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition from delivered, got %v", err)
	}
	if err := order.Cancel("too late", testNow); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition cancelling delivered order, got %v", err)
	}
}

func TestOrderCancel(t *testing.T) {
	order, err := NewOrder(validInput(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := order.Advance(testNow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cancelAt := testNow.Add(10 * time.Minute)
	if err := order.Cancel("customer changed their mind", cancelAt); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if order.Status != OrderStatusCancelled {
		t.Fatalf("expected cancelled status, got %s", order.Status)
	}

	last := order.TrackingHistory[len(order.TrackingHistory)-1]
	if last.Status != OrderStatusCancelled || !last.Timestamp.Equal(cancelAt) {
		t.Fatalf("unexpected cancellation entry: %+v", last)
	}
	if !strings.Contains(last.Description, "customer changed their mind") {
		t.Fatalf("expected reason in description, got %q", last.Description)
	}

	if err := order.Advance(cancelAt); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition after cancellation, got %v", err)
	}
	if err := order.Cancel("again", cancelAt); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition on double cancel, got %v", err)
	}
}

func TestOrderCancelWithoutReason(t *testing.T) {
	order, err := NewOrder(validInput(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := order.Cancel("  ", testNow); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	last := order.TrackingHistory[len(order.TrackingHistory)-1]
	if last.Description != "Cancelled" {
		t.Fatalf("expected bare description, got %q", last.Description)
	}
}

func TestRoundCents(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{1.006, 1.01},
		{1.004, 1.0},
		{-1.006, -1.01},
		{37.98, 37.98},
		{0, 0},
	}
	for _, tc := range cases {
		if got := RoundCents(tc.in); got != tc.want {
			t.Fatalf("RoundCents(%v) = %v, expected %v", tc.in, got, tc.want)
		}
	}
}
