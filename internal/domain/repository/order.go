package repository

import (
	"context"

	"github.com/entregago/entrega/internal/domain/model"
)

// OrderRepository describes persistence operations with orders. Orders are
// never deleted; status changes go through ApplyTransition so the tracking
// history stays append-only.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id string) (*model.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error)
	// SelectAwaitingPayment returns a locked batch of orders still waiting
	// for the payment gateway, at most limit entries.
	SelectAwaitingPayment(ctx context.Context, limit int) ([]model.Order, error)
	// ApplyTransition persists a status change and its tracking entry in one
	// transaction. The update is conditional on the order still being in
	// from; a concurrent writer losing the race gets ErrInvalidTransition.
	ApplyTransition(ctx context.Context, orderID string, from, to model.OrderStatus, entry model.TrackingEntry) error
}
