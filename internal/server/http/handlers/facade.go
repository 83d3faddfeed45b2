package handlers

import (
	"context"

	"github.com/entregago/entrega/internal/domain/model"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password string) (string, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
	ParseToken(token string) (int64, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	PlaceOrder(ctx context.Context, customerID int64, in model.CheckoutInput) (*model.Order, error)
	Orders(ctx context.Context, customerID int64) ([]model.Order, error)
	Order(ctx context.Context, customerID int64, orderID string) (*model.Order, error)
	CancelOrder(ctx context.Context, customerID int64, orderID, reason string) (*model.Order, error)
	AdvanceOrder(ctx context.Context, orderID string) (*model.Order, error)
}

// RestaurantFacade provides read access to the merchant directory.
type RestaurantFacade interface {
	Restaurants(ctx context.Context) ([]model.Restaurant, error)
	Restaurant(ctx context.Context, id int64) (*model.Restaurant, error)
}

// DeliveryFacade aggregates the full set of operations used across handlers.
type DeliveryFacade interface {
	AuthFacade
	OrderFacade
	RestaurantFacade
}

// HealthChecker verifies backing store connectivity.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
