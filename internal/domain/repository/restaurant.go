package repository

import (
	"context"

	"github.com/entregago/entrega/internal/domain/model"
)

// RestaurantRepository describes read access to the merchant directory.
type RestaurantRepository interface {
	List(ctx context.Context) ([]model.Restaurant, error)
	GetByID(ctx context.Context, id int64) (*model.Restaurant, error)
}
