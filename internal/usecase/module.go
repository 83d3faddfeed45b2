package usecase

import (
	"go.uber.org/fx"

	"github.com/entregago/entrega/internal/config"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newPolicy,
	NewAuthUseCase,
	NewOrderUseCase,
	NewRestaurantUseCase,
)

func newPolicy(cfg *config.Config) Policy {
	return Policy{TaxRate: cfg.TaxRate, DeliveryWindow: cfg.DeliveryWindow}
}
