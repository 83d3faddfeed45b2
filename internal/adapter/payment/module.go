package payment

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/entregago/entrega/internal/config"
)

// Module exposes payment gateway client implementation to fx graph.
var Module = fx.Provide(newGateway)

type gatewayParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newGateway(p gatewayParams) (Gateway, error) {
	return NewHTTPGateway(p.Config.PaymentGatewayAddress, p.Logger)
}
