package events

import (
	"context"
	"time"

	"github.com/entregago/entrega/internal/domain/model"
)

// Event types carried by OrderEvent.
const (
	TypeOrderCreated   = "created"
	TypeStatusChanged  = "status_changed"
	TypeOrderCancelled = "cancelled"
)

// OrderEvent describes a lifecycle change handed to the notification
// pipeline. Consumers deliver user-facing alerts; the lifecycle model never
// publishes directly.
type OrderEvent struct {
	OrderID    string            `json:"order_id"`
	CustomerID int64             `json:"customer_id"`
	Type       string            `json:"type"`
	Status     model.OrderStatus `json:"status"`
	Total      float64           `json:"total"`
	Occurred   time.Time         `json:"occurred"`
}

// Publisher delivers order events to interested collaborators.
type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
}

// NopPublisher drops events when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, OrderEvent) error { return nil }
