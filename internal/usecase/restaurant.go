package usecase

import (
	"context"

	"github.com/entregago/entrega/internal/domain/model"
	"github.com/entregago/entrega/internal/domain/repository"
)

// RestaurantUseCase exposes the merchant directory.
type RestaurantUseCase struct {
	restaurants repository.RestaurantRepository
}

// NewRestaurantUseCase constructs RestaurantUseCase.
func NewRestaurantUseCase(restaurants repository.RestaurantRepository) *RestaurantUseCase {
	return &RestaurantUseCase{restaurants: restaurants}
}

// List returns all restaurants.
func (u *RestaurantUseCase) List(ctx context.Context) ([]model.Restaurant, error) {
	return u.restaurants.List(ctx)
}

// Get returns a single restaurant by identifier.
func (u *RestaurantUseCase) Get(ctx context.Context, id int64) (*model.Restaurant, error) {
	return u.restaurants.GetByID(ctx, id)
}
